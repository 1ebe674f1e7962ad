package domain

import "time"

// Article is a published piece of content addressed by its slug.
type Article struct {
	Entity        `bson:",inline"`
	Slug          string       `json:"slug" bson:"slug"`
	Title         string       `json:"title" bson:"title"`
	Introduction  string       `json:"introduction" bson:"introduction"`
	Content       string       `json:"content" bson:"content"`
	CoverImageURL string       `json:"coverImageUrl" bson:"coverImageUrl"`
	IsPublished   bool         `json:"isPublished" bson:"isPublished"`
	PublishedOn   *time.Time   `json:"publishedOn,omitempty" bson:"publishedOn,omitempty"`
	Author        UserRef      `json:"author" bson:"author"`
	Category      *CategoryRef `json:"category,omitempty" bson:"category,omitempty"`
}

// Publish marks the article as published, keeping the first publication time.
func (a *Article) Publish(now time.Time) {
	a.IsPublished = true
	if a.PublishedOn == nil {
		at := StoreTime(now)
		a.PublishedOn = &at
	}
}
