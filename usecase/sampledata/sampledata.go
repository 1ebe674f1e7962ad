// Package sampledata fills an empty store with a small demonstration data set.
package sampledata

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/repository"
	"github.com/fastygo/tracker/usecase"
)

// Report counts the records created by Seed. Collections that already held data are skipped.
type Report struct {
	Users      int `json:"users"`
	Categories int `json:"categories"`
	Statuses   int `json:"statuses"`
	Issues     int `json:"issues"`
	Comments   int `json:"comments"`
}

type Repositories struct {
	Users      repository.UserRepository
	Categories repository.CategoryRepository
	Statuses   repository.StatusRepository
	Issues     repository.IssueRepository
	Comments   repository.CommentRepository
}

type UseCase struct {
	repos  Repositories
	cache  usecase.Cache
	logger *zap.Logger
}

func New(repos Repositories, cache usecase.Cache, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{repos: repos, cache: cache, logger: logger}
}

var sampleCategories = []domain.Category{
	{CategoryName: "Design", CategoryDescription: "An Issue with the design."},
	{CategoryName: "Documentation", CategoryDescription: "An Issue with the documentation."},
	{CategoryName: "Implementation", CategoryDescription: "An Issue with the implementation."},
	{CategoryName: "Clarification", CategoryDescription: "A quick Issue with a general question."},
	{CategoryName: "Miscellaneous", CategoryDescription: "Not sure where this fits."},
}

var sampleStatuses = []domain.Status{
	{StatusName: "Answered", StatusDescription: "The suggestion was accepted and the corresponding item was created."},
	{StatusName: "Watching", StatusDescription: "The suggestion is interesting. We are watching to see how much interest there is in it."},
	{StatusName: "Upcoming", StatusDescription: "The suggestion was accepted and it will be released soon."},
	{StatusName: "Dismissed", StatusDescription: "The suggestion was not something that we are going to undertake."},
}

var sampleUsers = []domain.User{
	{ObjectIdentifier: "sample-admin", FirstName: "Ada", LastName: "Admin", DisplayName: "ada", EmailAddress: "ada@example.com", Role: domain.RoleAdmin},
	{ObjectIdentifier: "sample-author", FirstName: "Bob", LastName: "Author", DisplayName: "bob", EmailAddress: "bob@example.com", Role: domain.RoleAuthor},
}

// Seed creates users, categories, statuses, issues and comments, each only when its collection is empty.
func (uc *UseCase) Seed(ctx context.Context) (Report, error) {
	var report Report

	users, err := uc.repos.Users.List(ctx)
	if err != nil {
		return report, err
	}
	if len(users) == 0 {
		for _, u := range sampleUsers {
			created, err := uc.repos.Users.Create(ctx, &u)
			if err != nil {
				return report, err
			}
			users = append(users, *created)
			report.Users++
		}
	}

	categories, err := uc.repos.Categories.List(ctx, false)
	if err != nil {
		return report, err
	}
	if len(categories) == 0 {
		for _, c := range sampleCategories {
			c.Slug = domain.GenerateSlug(c.CategoryName)
			created, err := uc.repos.Categories.Create(ctx, &c)
			if err != nil {
				return report, err
			}
			categories = append(categories, *created)
			report.Categories++
		}
	}

	statuses, err := uc.repos.Statuses.List(ctx)
	if err != nil {
		return report, err
	}
	if len(statuses) == 0 {
		for _, s := range sampleStatuses {
			created, err := uc.repos.Statuses.Create(ctx, &s)
			if err != nil {
				return report, err
			}
			statuses = append(statuses, *created)
			report.Statuses++
		}
	}

	issues, err := uc.repos.Issues.List(ctx)
	if err != nil {
		return report, err
	}
	if len(issues) == 0 {
		for i := 0; i < 6; i++ {
			author := users[i%len(users)]
			category := categories[i%len(categories)]
			status := statuses[i%len(statuses)].Ref()
			issue := &domain.Issue{
				Title:              fmt.Sprintf("Sample issue %d", i+1),
				Description:        fmt.Sprintf("Sample issue %d raised against %s.", i+1, category.CategoryName),
				Category:           category.Ref(),
				Author:             author.Ref(),
				Status:             &status,
				ApprovedForRelease: i%2 == 0,
			}
			created, err := uc.repos.Issues.Create(ctx, issue)
			if err != nil {
				return report, err
			}
			issues = append(issues, *created)
			report.Issues++
		}
	}

	comments, err := uc.repos.Comments.List(ctx)
	if err != nil {
		return report, err
	}
	if len(comments) == 0 && len(issues) > 0 {
		for i := 0; i < 4; i++ {
			author := users[(i+1)%len(users)]
			comment := &domain.Comment{
				Title:       fmt.Sprintf("Sample comment %d", i+1),
				Description: "A sample comment.",
				Issue:       issues[i%len(issues)].Ref(),
				Author:      author.Ref(),
			}
			if _, err := uc.repos.Comments.Create(ctx, comment); err != nil {
				return report, err
			}
			report.Comments++
		}
	}

	usecase.Invalidate(ctx, uc.cache, uc.logger,
		usecase.CategoryDataKey, usecase.StatusDataKey, usecase.IssueDataKey, usecase.CommentDataKey)
	uc.logger.Info("sample data seeded",
		zap.Int("users", report.Users),
		zap.Int("categories", report.Categories),
		zap.Int("statuses", report.Statuses),
		zap.Int("issues", report.Issues),
		zap.Int("comments", report.Comments))
	return report, nil
}
