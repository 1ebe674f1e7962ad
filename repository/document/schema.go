package document

import (
	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/internal/versioning"
)

var ArticleSchema = versioning.Schema[domain.Article]{
	Entity: "article",
	Fields: []versioning.Field[domain.Article]{
		versioning.F("Title", func(a *domain.Article) any { return a.Title }),
		versioning.F("Introduction", func(a *domain.Article) any { return a.Introduction }),
		versioning.F("Content", func(a *domain.Article) any { return a.Content }),
		versioning.F("CoverImageUrl", func(a *domain.Article) any { return a.CoverImageURL }),
		versioning.F("IsPublished", func(a *domain.Article) any { return a.IsPublished }),
		versioning.F("Archived", func(a *domain.Article) any { return a.Archived }),
	},
	Project: func(a *domain.Article) any { return a },
}

var CategorySchema = versioning.Schema[domain.Category]{
	Entity: "category",
	Fields: []versioning.Field[domain.Category]{
		versioning.F("CategoryName", func(c *domain.Category) any { return c.CategoryName }),
		versioning.F("CategoryDescription", func(c *domain.Category) any { return c.CategoryDescription }),
		versioning.F("Archived", func(c *domain.Category) any { return c.Archived }),
	},
	Project: func(c *domain.Category) any { return c },
}

var IssueSchema = versioning.Schema[domain.Issue]{
	Entity: "issue",
	Fields: []versioning.Field[domain.Issue]{
		versioning.F("Title", func(i *domain.Issue) any { return i.Title }),
		versioning.F("Description", func(i *domain.Issue) any { return i.Description }),
		versioning.F("Status", func(i *domain.Issue) any { return i.Status }),
		versioning.F("ApprovedForRelease", func(i *domain.Issue) any { return i.ApprovedForRelease }),
		versioning.F("Rejected", func(i *domain.Issue) any { return i.Rejected }),
		versioning.F("Archived", func(i *domain.Issue) any { return i.Archived }),
	},
	Project: func(i *domain.Issue) any { return i },
}

var CommentSchema = versioning.Schema[domain.Comment]{
	Entity: "comment",
	Fields: []versioning.Field[domain.Comment]{
		versioning.F("Title", func(c *domain.Comment) any { return c.Title }),
		versioning.F("Description", func(c *domain.Comment) any { return c.Description }),
		versioning.F("UserVotes", func(c *domain.Comment) any { return c.UserVotes }),
		versioning.F("IsAnswer", func(c *domain.Comment) any { return c.IsAnswer }),
		versioning.F("Archived", func(c *domain.Comment) any { return c.Archived }),
	},
	Project: func(c *domain.Comment) any { return c },
}

var StatusSchema = versioning.Schema[domain.Status]{
	Entity: "status",
	Fields: []versioning.Field[domain.Status]{
		versioning.F("StatusName", func(s *domain.Status) any { return s.StatusName }),
		versioning.F("StatusDescription", func(s *domain.Status) any { return s.StatusDescription }),
		versioning.F("Archived", func(s *domain.Status) any { return s.Archived }),
	},
	Project: func(s *domain.Status) any { return s },
}

// UserSchema projects conflicts to the public reference; identity-provider ids stay server side.
var UserSchema = versioning.Schema[domain.User]{
	Entity: "user",
	Fields: []versioning.Field[domain.User]{
		versioning.F("DisplayName", func(u *domain.User) any { return u.DisplayName }),
		versioning.F("EmailAddress", func(u *domain.User) any { return u.EmailAddress }),
		versioning.F("Archived", func(u *domain.User) any { return u.Archived }),
	},
	Project: func(u *domain.User) any { return u.Ref() },
}
