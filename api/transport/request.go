package transport

// Write requests. Update requests carry the version the client last read;
// a stale version is answered with 409 CONCURRENCY.

type CategoryRequest struct {
	CategoryName        string `json:"categoryName" validate:"required,max=100"`
	CategoryDescription string `json:"categoryDescription" validate:"max=500"`
	Version             *int   `json:"version" validate:"omitempty,gte=0"`
}

type ArticleRequest struct {
	Title         string `json:"title" validate:"required,max=200"`
	Introduction  string `json:"introduction" validate:"max=1000"`
	Content       string `json:"content"`
	CoverImageURL string `json:"coverImageUrl" validate:"omitempty,url"`
	CategoryID    string `json:"categoryId"`
	IsPublished   bool   `json:"isPublished"`
	Version       *int   `json:"version" validate:"omitempty,gte=0"`
}

type IssueRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=4000"`
	CategoryID  string `json:"categoryId" validate:"required"`
	Version     *int   `json:"version" validate:"omitempty,gte=0"`
}

type IssueStatusRequest struct {
	StatusID string `json:"statusId" validate:"required"`
}

type CommentRequest struct {
	IssueID     string `json:"issueId" validate:"required"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=4000"`
	IsAnswer    bool   `json:"isAnswer"`
	Version     *int   `json:"version" validate:"omitempty,gte=0"`
}

type StatusRequest struct {
	StatusName        string `json:"statusName" validate:"required,max=100"`
	StatusDescription string `json:"statusDescription" validate:"max=500"`
	Version           *int   `json:"version" validate:"omitempty,gte=0"`
}

type UserRequest struct {
	ObjectIdentifier string `json:"objectIdentifier"`
	FirstName        string `json:"firstName" validate:"max=100"`
	LastName         string `json:"lastName" validate:"max=100"`
	DisplayName      string `json:"displayName" validate:"required,max=100"`
	EmailAddress     string `json:"emailAddress" validate:"required,email"`
	Role             string `json:"role" validate:"omitempty,oneof=admin author"`
	Version          *int   `json:"version" validate:"omitempty,gte=0"`
}

// ValidationErrorDetail describes one rejected request field.
type ValidationErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}
