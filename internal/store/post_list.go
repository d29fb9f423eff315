// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"inkpress/internal/models"
)

// Listing bounds.
const (
	DefaultPage  = 1
	DefaultLimit = 9
	MaxLimit     = 50
)

// ListParams filters and paginates the public post listing. An empty
// CategorySlug and a blank Search mean "no filter".
type ListParams struct {
	CategorySlug string
	Search       string
	Page         int
	Limit        int
}

// Validate rejects out-of-range pagination and a whitespace-only category
// before any query runs.
func (p ListParams) Validate() error {
	if p.Page < 1 {
		return &ValidationError{Field: "page", Message: "must be at least 1"}
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return &ValidationError{Field: "limit", Message: fmt.Sprintf("must be between 1 and %d", MaxLimit)}
	}
	// An empty category means no filter; whitespace alone names nothing.
	if p.CategorySlug != "" && strings.TrimSpace(p.CategorySlug) == "" {
		return &ValidationError{Field: "category", Message: "must not be blank"}
	}
	return nil
}

// normalized trims the free-text filters.
func (p ListParams) normalized() ListParams {
	p.CategorySlug = strings.TrimSpace(p.CategorySlug)
	p.Search = strings.TrimSpace(p.Search)
	return p
}

// CacheKey returns a stable key for the listing cache. Parameters that
// produce the same query produce the same key.
func (p ListParams) CacheKey() string {
	p = p.normalized()
	v := url.Values{}
	if p.CategorySlug != "" {
		v.Set("category", p.CategorySlug)
	}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("limit", strconv.Itoa(p.Limit))
	return v.Encode()
}

// likeEscaper makes a search term match literally inside ILIKE.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListPublished returns one page of published posts, newest first, with
// their categories attached. The count and the page are computed from the
// same predicate inside one read-only snapshot. An unknown category slug
// yields an empty page rather than an error.
func (s *PostStore) ListPublished(ctx context.Context, params ListParams) (models.PostListResult, error) {
	if err := params.Validate(); err != nil {
		return models.PostListResult{}, fmt.Errorf("list posts: %w", err)
	}
	params = params.normalized()
	empty := models.NewPostListResult(nil, 0, params.Page, params.Limit)

	var result models.PostListResult
	err := withTx(ctx, s.db, readOnly, func(tx *sql.Tx) error {
		where := []string{"published = TRUE"}
		var args []any

		if params.CategorySlug != "" {
			var categoryID int64
			err := tx.QueryRowContext(ctx, `SELECT id FROM categories WHERE slug = $1`, params.CategorySlug).Scan(&categoryID)
			if errors.Is(err, sql.ErrNoRows) {
				result = empty
				return nil
			}
			if err != nil {
				return fmt.Errorf("resolve category filter: %w", err)
			}
			args = append(args, categoryID)
			where = append(where, fmt.Sprintf(
				"id IN (SELECT post_id FROM post_to_categories WHERE category_id = $%d)", len(args)))
		}

		if params.Search != "" {
			args = append(args, "%"+likeEscaper.Replace(params.Search)+"%")
			where = append(where, fmt.Sprintf(
				"(title ILIKE $%[1]d OR COALESCE(content, '') ILIKE $%[1]d OR COALESCE(author_name, '') ILIKE $%[1]d)",
				len(args)))
		}

		predicate := strings.Join(where, " AND ")

		var total int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE `+predicate, args...).Scan(&total); err != nil {
			return fmt.Errorf("count posts: %w", err)
		}
		if total == 0 {
			result = empty
			return nil
		}

		offset := (params.Page - 1) * params.Limit
		pageArgs := append(append([]any{}, args...), params.Limit, offset)
		rows, err := tx.QueryContext(ctx, `
			SELECT `+postColumns+`
			FROM posts
			WHERE `+predicate+`
			ORDER BY created_at DESC, id DESC
			LIMIT $`+strconv.Itoa(len(args)+1)+` OFFSET $`+strconv.Itoa(len(args)+2),
			pageArgs...,
		)
		if err != nil {
			return fmt.Errorf("list posts: %w", err)
		}
		posts, err := collectPosts(rows)
		if err != nil {
			return err
		}

		if err := attachCategories(ctx, tx, postPointers(posts)); err != nil {
			return err
		}
		result = models.NewPostListResult(posts, total, params.Page, params.Limit)
		return nil
	})
	if err != nil {
		return models.PostListResult{}, err
	}
	return result, nil
}
