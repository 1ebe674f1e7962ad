package domain

// Issue is a report raised by a user and moderated by admins.
type Issue struct {
	Entity             `bson:",inline"`
	Title              string      `json:"title" bson:"title"`
	Description        string      `json:"description" bson:"description"`
	Category           CategoryRef `json:"category" bson:"category"`
	Author             UserRef     `json:"author" bson:"author"`
	Status             *StatusRef  `json:"status,omitempty" bson:"status,omitempty"`
	ApprovedForRelease bool        `json:"approvedForRelease" bson:"approvedForRelease"`
	Rejected           bool        `json:"rejected" bson:"rejected"`
}

// WaitingForApproval reports whether an admin has neither approved nor rejected the issue.
func (i *Issue) WaitingForApproval() bool {
	return !i.ApprovedForRelease && !i.Rejected
}

func (i *Issue) Approved() bool {
	return i.ApprovedForRelease && !i.Rejected
}
