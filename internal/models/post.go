// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"encoding/json"
	"time"

	"inkpress/internal/excerpt"
)

// TimeFormat is the ISO-8601 layout used for every timestamp in API output.
const TimeFormat = "2006-01-02T15:04:05.000Z"

// PostStatus is the publishing state of a post, derived from Published.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Post is a blog entry. Content holds the editor's HTML verbatim.
type Post struct {
	ID         int64
	Title      string
	Content    *string
	Slug       string
	Published  bool
	AuthorName string
	ImageURL   *string
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// Categories is populated by store methods from post_to_categories.
	Categories []Category
}

// Status returns the post's publishing state.
func (p *Post) Status() PostStatus {
	if p.Published {
		return PostStatusPublished
	}
	return PostStatusDraft
}

// IsPublished returns true if the post is visible on the public site.
func (p *Post) IsPublished() bool {
	return p.Published
}

// CategoryIDs returns the ids of the attached categories in display order.
func (p *Post) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// body returns the content or the empty string when it is NULL.
func (p *Post) body() string {
	if p.Content == nil {
		return ""
	}
	return *p.Content
}

// postJSON is the wire shape of a Post.
type postJSON struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Content     *string    `json:"content"`
	Slug        string     `json:"slug"`
	Published   bool       `json:"published"`
	Status      PostStatus `json:"status"`
	AuthorName  string     `json:"authorName"`
	ImageURL    *string    `json:"imageUrl"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
	Excerpt     string     `json:"excerpt"`
	ReadingTime string     `json:"readingTime"`
	Categories  []Category `json:"categories"`
	CategoryIDs []int64    `json:"categoryIds"`
}

// MarshalJSON renders the post with camelCase keys, UTC ISO-8601 timestamps
// and the derived excerpt and reading time.
func (p Post) MarshalJSON() ([]byte, error) {
	categories := p.Categories
	if categories == nil {
		categories = []Category{}
	}

	return json.Marshal(postJSON{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		Slug:        p.Slug,
		Published:   p.Published,
		Status:      p.Status(),
		AuthorName:  p.AuthorName,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt.UTC().Format(TimeFormat),
		UpdatedAt:   p.UpdatedAt.UTC().Format(TimeFormat),
		Excerpt:     excerpt.Summary(p.body(), excerpt.DefaultLength),
		ReadingTime: excerpt.ReadingTime(p.body()),
		Categories:  categories,
		CategoryIDs: p.CategoryIDs(),
	})
}

// PostListResult is one page of the public listing.
type PostListResult struct {
	Posts      []Post `json:"posts"`
	Total      int    `json:"totalCount"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"totalPages"`
}

// NewPostListResult builds a result, computing TotalPages and normalising a
// nil page to an empty slice.
func NewPostListResult(posts []Post, total, page, limit int) PostListResult {
	if posts == nil {
		posts = []Post{}
	}
	totalPages := 0
	if limit > 0 && total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return PostListResult{
		Posts:      posts,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
