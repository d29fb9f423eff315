package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestPostStatus(t *testing.T) {
	tests := []struct {
		name      string
		published bool
		want      PostStatus
	}{
		{name: "published", published: true, want: PostStatusPublished},
		{name: "draft", published: false, want: PostStatusDraft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{Published: tt.published}
			if got := p.Status(); got != tt.want {
				t.Errorf("Status() = %q, want %q", got, tt.want)
			}
			if p.IsPublished() != tt.published {
				t.Errorf("IsPublished() = %v, want %v", p.IsPublished(), tt.published)
			}
		})
	}
}

func TestPostCategoryIDs(t *testing.T) {
	p := &Post{Categories: []Category{{ID: 3}, {ID: 1}}}
	ids := p.CategoryIDs()
	if len(ids) != 2 || ids[0] != 3 || ids[1] != 1 {
		t.Errorf("CategoryIDs() = %v, want [3 1]", ids)
	}

	empty := &Post{}
	if ids := empty.CategoryIDs(); ids == nil || len(ids) != 0 {
		t.Errorf("CategoryIDs() on no categories = %#v, want empty non-nil", ids)
	}
}

func TestPostMarshalJSON(t *testing.T) {
	content := "<p>Hello <em>there</em></p>"
	loc := time.FixedZone("UTC+2", 2*60*60)
	p := Post{
		ID:         7,
		Title:      "Hi",
		Content:    &content,
		Slug:       "hi",
		Published:  true,
		AuthorName: "Admin",
		CreatedAt:  time.Date(2026, 3, 4, 12, 30, 0, 123_000_000, loc),
		UpdatedAt:  time.Date(2026, 3, 4, 10, 30, 0, 0, time.UTC),
		Categories: []Category{{ID: 2, Name: "Design", Slug: "design"}},
	}

	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	checks := map[string]any{
		"id":          float64(7),
		"title":       "Hi",
		"slug":        "hi",
		"published":   true,
		"status":      "published",
		"authorName":  "Admin",
		"createdAt":   "2026-03-04T10:30:00.123Z",
		"updatedAt":   "2026-03-04T10:30:00.000Z",
		"excerpt":     "Hello there",
		"readingTime": "1 min read",
	}
	for key, want := range checks {
		if got[key] != want {
			t.Errorf("%s = %#v, want %#v", key, got[key], want)
		}
	}

	if got["imageUrl"] != nil {
		t.Errorf("imageUrl = %#v, want null", got["imageUrl"])
	}

	ids, ok := got["categoryIds"].([]any)
	if !ok || len(ids) != 1 || ids[0] != float64(2) {
		t.Errorf("categoryIds = %#v, want [2]", got["categoryIds"])
	}
}

func TestPostMarshalJSON_EmptyCollections(t *testing.T) {
	data, err := json.Marshal(Post{Title: "Draft"})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	s := string(data)
	for _, want := range []string{
		`"categories":[]`,
		`"categoryIds":[]`,
		`"content":null`,
		`"status":"draft"`,
		`"excerpt":""`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON %s missing %s", s, want)
		}
	}
}

func TestNewPostListResult(t *testing.T) {
	tests := []struct {
		name           string
		total, limit   int
		wantTotalPages int
	}{
		{"empty", 0, 9, 0},
		{"single partial page", 3, 9, 1},
		{"exact pages", 18, 9, 2},
		{"remainder", 19, 9, 3},
		{"limit one", 2, 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewPostListResult(nil, tt.total, 1, tt.limit)
			if r.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", r.TotalPages, tt.wantTotalPages)
			}
			if r.Posts == nil {
				t.Error("Posts should be an empty slice, not nil")
			}
		})
	}
}
