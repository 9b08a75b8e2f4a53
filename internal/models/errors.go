// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "errors"

// Domain errors shared by the ranking engine, the store, and the handlers.
// Callers test for them with errors.Is; every layer wraps with %w.
var (
	// ErrNotFound indicates a referenced category or provider does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates malformed input that was rejected
	// before any write was attempted.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStoreFailure indicates the database was unreachable or a write
	// (including a transaction commit) failed. It is never retried internally.
	ErrStoreFailure = errors.New("store failure")
)
