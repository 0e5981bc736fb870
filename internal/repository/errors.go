// Package repository contains the SQL data access layer.  Repositories are
// plain structs over *sql.DB with explicit column lists; there is no
// reflection-driven record filling.  Not-found conditions surface as
// ErrNotFound so callers can distinguish them from real storage failures.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no row.  It wraps the
// semantic rather than the driver detail so handlers and services do not
// need to import database/sql.
var ErrNotFound = errors.New("record not found")
