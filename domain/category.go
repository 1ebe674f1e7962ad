package domain

type Category struct {
	Entity              `bson:",inline"`
	Slug                string `json:"slug" bson:"slug"`
	CategoryName        string `json:"categoryName" bson:"categoryName"`
	CategoryDescription string `json:"categoryDescription" bson:"categoryDescription"`
}
