// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors returned (wrapped) by every store. Match with errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)

// PostgreSQL SQLSTATE codes mapped to ErrConflict.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// constraintMessages are the client-facing messages per constraint name.
var constraintMessages = map[string]string{
	"posts_slug_key":                      "a post with this slug already exists",
	"categories_name_key":                 "a category with this name already exists",
	"categories_slug_key":                 "a category with this slug already exists",
	"post_to_categories_category_id_fkey": "one or more categories do not exist",
	"post_to_categories_post_id_fkey":     "post does not exist",
	"post_to_categories_pkey":             "duplicate category assignment",
}

// ConstraintError is a unique or foreign-key violation. It matches
// ErrConflict and carries a message that is safe to show to clients.
type ConstraintError struct {
	Constraint string
	Message    string
}

func (e *ConstraintError) Error() string { return e.Message }

// Is reports ErrConflict so callers can match with errors.Is.
func (e *ConstraintError) Is(target error) bool { return target == ErrConflict }

// ValidationError rejects input before any query runs.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Field + ": " + e.Message }

// Is reports ErrValidation so callers can match with errors.Is.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// mapConstraintError converts PostgreSQL unique and foreign-key violations
// into a *ConstraintError. Any other error is returned unchanged.
func mapConstraintError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation, pgForeignKeyViolation:
		msg, ok := constraintMessages[pgErr.ConstraintName]
		if !ok {
			msg = "conflicts with existing data"
		}
		return &ConstraintError{Constraint: pgErr.ConstraintName, Message: msg}
	default:
		return err
	}
}
