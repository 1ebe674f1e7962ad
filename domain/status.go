package domain

type Status struct {
	Entity            `bson:",inline"`
	StatusName        string `json:"statusName" bson:"statusName"`
	StatusDescription string `json:"statusDescription" bson:"statusDescription"`
}
