// Package postgres implements the store interfaces on PostgreSQL through
// database/sql and the pgx driver. Schema changes live in migrations/ and
// are applied with goose.
package postgres
