// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// seedCategories are created on an empty development database.
var seedCategories = []struct {
	name, slug, description string
}{
	{"General", "general", "Announcements and everything else."},
	{"Design", "design", "Visual design, typography and UX."},
	{"Engineering", "engineering", "How things are built."},
}

// Seed populates the database with initial development data: a handful of
// categories and one published welcome post linked to the first of them.
// It is a no-op when any category already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	var firstID int64
	for i, c := range seedCategories {
		var id int64
		err := tx.QueryRow(`
			INSERT INTO categories (name, slug, description)
			VALUES ($1, $2, $3)
			RETURNING id
		`, c.name, c.slug, c.description).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed insert category %s: %w", c.slug, err)
		}
		if i == 0 {
			firstID = id
		}
	}

	var postID int64
	err = tx.QueryRow(`
		INSERT INTO posts (title, content, slug, published, author_name)
		VALUES ($1, $2, $3, TRUE, $4)
		RETURNING id
	`, "Welcome to inkpress", "<p>Your blog is up and running.</p>", "welcome", "Admin").Scan(&postID)
	if err != nil {
		return fmt.Errorf("seed insert welcome post: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO post_to_categories (post_id, category_id) VALUES ($1, $2)
	`, postID, firstID); err != nil {
		return fmt.Errorf("seed link welcome post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with starter content",
		"categories", len(seedCategories),
		"post", "welcome",
	)
	return nil
}
