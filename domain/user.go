package domain

// User is a member known to the tracker. ObjectIdentifier links it to the identity provider.
type User struct {
	Entity           `bson:",inline"`
	ObjectIdentifier string   `json:"objectIdentifier" bson:"objectIdentifier"`
	FirstName        string   `json:"firstName" bson:"firstName"`
	LastName         string   `json:"lastName" bson:"lastName"`
	DisplayName      string   `json:"displayName" bson:"displayName"`
	EmailAddress     string   `json:"emailAddress" bson:"emailAddress"`
	Role             string   `json:"role" bson:"role"`
	AuthoredIssues   []string `json:"authoredIssues" bson:"authoredIssues"`
	VotedOnComments  []string `json:"votedOnComments" bson:"votedOnComments"`
}

const (
	RoleAdmin  = "admin"
	RoleAuthor = "author"
)

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
