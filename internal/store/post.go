// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inkpress/internal/models"
)

// DefaultAuthorName is stored when a post is saved without an author.
const DefaultAuthorName = "Admin"

// PostStore manages posts and their category memberships.
type PostStore struct {
	db *sql.DB
}

// NewPostStore returns a new PostStore.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, content, slug, published, author_name, image_url, created_at, updated_at`

// scanPost scans a row into a Post struct. Categories are not loaded.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Content, &p.Slug, &p.Published,
		&p.AuthorName, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PostInput is the full set of writable post fields. CategoryIDs is the
// complete desired membership; it replaces whatever the post had before.
type PostInput struct {
	Title       string
	Content     *string
	Slug        string
	Published   bool
	AuthorName  string
	ImageURL    *string
	CategoryIDs []int64
}

func (in PostInput) authorName() string {
	if in.AuthorName == "" {
		return DefaultAuthorName
	}
	return in.AuthorName
}

// Create inserts a post and its category memberships in one transaction.
// An unknown category id aborts the whole insert with ErrConflict.
func (s *PostStore) Create(ctx context.Context, in PostInput) (*models.Post, error) {
	var post *models.Post
	err := withTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			INSERT INTO posts (title, content, slug, published, author_name, image_url)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+postColumns,
			in.Title, in.Content, in.Slug, in.Published, in.authorName(), in.ImageURL,
		)
		p, err := scanPost(row)
		if err != nil {
			return fmt.Errorf("create post: %w", mapConstraintError(err))
		}

		if err := insertPostCategories(ctx, tx, p.ID, in.CategoryIDs); err != nil {
			return err
		}
		if err := loadWrittenCategories(ctx, tx, p, in.CategoryIDs); err != nil {
			return err
		}
		post = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Update overwrites every writable field of a post, refreshes updated_at and
// replaces its category memberships, all in one transaction.
func (s *PostStore) Update(ctx context.Context, id int64, in PostInput) (*models.Post, error) {
	var post *models.Post
	err := withTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			UPDATE posts SET
				title = $1, content = $2, slug = $3, published = $4,
				author_name = $5, image_url = $6, updated_at = NOW()
			WHERE id = $7
			RETURNING `+postColumns,
			in.Title, in.Content, in.Slug, in.Published, in.authorName(), in.ImageURL, id,
		)
		p, err := scanPost(row)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("post %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("update post: %w", mapConstraintError(err))
		}

		if err := replacePostCategories(ctx, tx, p.ID, in.CategoryIDs); err != nil {
			return err
		}
		if err := loadWrittenCategories(ctx, tx, p, in.CategoryIDs); err != nil {
			return err
		}
		post = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// SetPublished changes only the publish flag and updated_at. Category
// memberships are read back but never written.
func (s *PostStore) SetPublished(ctx context.Context, id int64, published bool) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE posts SET published = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+postColumns,
		published, id,
	)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("set post published: %w", err)
	}

	if err := attachCategories(ctx, s.db, []*models.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a post's memberships and then the post, in one transaction.
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM post_to_categories WHERE post_id = $1`, id); err != nil {
			return fmt.Errorf("delete post memberships: %w", err)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("post %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// FindByID retrieves a post by ID with its categories, drafts included.
func (s *PostStore) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}

	if err := attachCategories(ctx, s.db, []*models.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// FindPublishedBySlug retrieves a published post by slug. Drafts are
// reported as ErrNotFound.
func (s *PostStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts
		WHERE slug = $1 AND published = TRUE
	`, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %q: %w", slug, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}

	if err := attachCategories(ctx, s.db, []*models.Post{p}); err != nil {
		return nil, err
	}
	return p, nil
}

// ListAll returns every post, drafts included, newest first. Used by the
// authoring dashboard.
func (s *PostStore) ListAll(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := withTx(ctx, s.db, readOnly, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT `+postColumns+`
			FROM posts
			ORDER BY created_at DESC, id DESC
		`)
		if err != nil {
			return fmt.Errorf("list all posts: %w", err)
		}
		posts, err = collectPosts(rows)
		if err != nil {
			return err
		}
		return attachCategories(ctx, tx, postPointers(posts))
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// loadWrittenCategories reads back the memberships just written for p.
// No ids were written when categoryIDs is empty, so nothing is queried.
func loadWrittenCategories(ctx context.Context, q queryer, p *models.Post, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		p.Categories = []models.Category{}
		return nil
	}
	return attachCategories(ctx, q, []*models.Post{p})
}

// collectPosts scans and closes rows.
func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func postPointers(posts []models.Post) []*models.Post {
	ptrs := make([]*models.Post, len(posts))
	for i := range posts {
		ptrs[i] = &posts[i]
	}
	return ptrs
}
