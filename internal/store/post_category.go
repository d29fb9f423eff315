// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"fmt"

	"inkpress/internal/models"
)

// uniqueIDs drops duplicates while keeping first-seen order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// insertPostCategories links a post to each distinct category id with a
// single multi-row insert. No ids means no statement at all.
func insertPostCategories(ctx context.Context, q queryer, postID int64, categoryIDs []int64) error {
	ids := uniqueIDs(categoryIDs)
	if len(ids) == 0 {
		return nil
	}

	values := ""
	args := make([]any, 0, len(ids)+1)
	args = append(args, postID)
	for i, id := range ids {
		if i > 0 {
			values += ", "
		}
		values += fmt.Sprintf("($1, $%d)", i+2)
		args = append(args, id)
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO post_to_categories (post_id, category_id)
		VALUES `+values, args...)
	if err != nil {
		return fmt.Errorf("insert post categories: %w", mapConstraintError(err))
	}
	return nil
}

// replacePostCategories reconciles a post's memberships by deleting every
// existing row and inserting the desired set. Concurrent replacements are
// last-writer-wins. Must run inside the caller's transaction.
func replacePostCategories(ctx context.Context, q queryer, postID int64, categoryIDs []int64) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM post_to_categories WHERE post_id = $1`, postID); err != nil {
		return fmt.Errorf("clear post categories: %w", err)
	}
	return insertPostCategories(ctx, q, postID, categoryIDs)
}

// categoriesByPostIDs loads the categories of the given posts with one
// query, keyed by post ID. Each list is ordered by category name.
func categoriesByPostIDs(ctx context.Context, q queryer, postIDs []int64) (map[int64][]models.Category, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}

	args := make([]any, len(postIDs))
	for i, id := range postIDs {
		args[i] = id
	}

	rows, err := q.QueryContext(ctx, `
		SELECT pc.post_id, c.id, c.name, c.slug, c.description
		FROM post_to_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.post_id IN (`+placeholders(1, len(postIDs))+`)
		ORDER BY c.name, c.id
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("find categories by post ids: %w", err)
	}
	defer rows.Close()

	result := make(map[int64][]models.Category)
	for rows.Next() {
		var (
			postID int64
			c      models.Category
		)
		if err := rows.Scan(&postID, &c.ID, &c.Name, &c.Slug, &c.Description); err != nil {
			return nil, fmt.Errorf("scan post category: %w", err)
		}
		result[postID] = append(result[postID], c)
	}
	return result, rows.Err()
}

// attachCategories fills in Categories for each post. Posts without any
// membership get an empty, non-nil slice.
func attachCategories(ctx context.Context, q queryer, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	byPost, err := categoriesByPostIDs(ctx, q, ids)
	if err != nil {
		return err
	}
	for _, p := range posts {
		p.Categories = byPost[p.ID]
		if p.Categories == nil {
			p.Categories = []models.Category{}
		}
	}
	return nil
}
