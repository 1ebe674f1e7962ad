package domain

// UserRef is the summary of a user embedded in other documents.
type UserRef struct {
	ID          string `json:"id" bson:"id"`
	DisplayName string `json:"displayName" bson:"displayName"`
	Email       string `json:"email,omitempty" bson:"email,omitempty"`
}

// CategoryRef is the summary of a category embedded in issues and articles.
type CategoryRef struct {
	ID                  string `json:"id" bson:"id"`
	CategoryName        string `json:"categoryName" bson:"categoryName"`
	CategoryDescription string `json:"categoryDescription,omitempty" bson:"categoryDescription,omitempty"`
}

// StatusRef is the summary of a status embedded in issues.
type StatusRef struct {
	ID                string `json:"id" bson:"id"`
	StatusName        string `json:"statusName" bson:"statusName"`
	StatusDescription string `json:"statusDescription,omitempty" bson:"statusDescription,omitempty"`
}

// IssueRef is the summary of an issue embedded in comments.
type IssueRef struct {
	ID    string `json:"id" bson:"id"`
	Title string `json:"title" bson:"title"`
}

func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, DisplayName: u.DisplayName, Email: u.EmailAddress}
}

func (c *Category) Ref() CategoryRef {
	return CategoryRef{ID: c.ID, CategoryName: c.CategoryName, CategoryDescription: c.CategoryDescription}
}

func (s *Status) Ref() StatusRef {
	return StatusRef{ID: s.ID, StatusName: s.StatusName, StatusDescription: s.StatusDescription}
}

func (i *Issue) Ref() IssueRef {
	return IssueRef{ID: i.ID, Title: i.Title}
}
