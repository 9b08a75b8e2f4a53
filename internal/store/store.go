// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store is the PostgreSQL persistence layer for categories,
// providers, their services, and the ranking audit log.
//
// Lookups by ID return (nil, nil) when the row does not exist. Every
// driver error is wrapped with models.ErrStoreFailure; write methods that
// address a missing row return models.ErrNotFound.
package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"servicedir/internal/models"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique constraint errors.
const uniqueViolation = "23505"

// foreignKeyViolation is the PostgreSQL SQLSTATE for missing references.
const foreignKeyViolation = "23503"

// failure wraps a driver error so callers can test for ErrStoreFailure.
// Constraint violations are input problems, not store failures.
func failure(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolation:
			return fmt.Errorf("%s: duplicate %s: %w", op, pgErr.ConstraintName, models.ErrInvalidArgument)
		case foreignKeyViolation:
			return fmt.Errorf("%s: missing reference %s: %w", op, pgErr.ConstraintName, models.ErrNotFound)
		}
	}
	return fmt.Errorf("%s: %w: %w", op, models.ErrStoreFailure, err)
}
