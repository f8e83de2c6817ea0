// Package postgres implements the card and review stores on PostgreSQL
// through the pgx database/sql driver. Tags live in a text[] column so tag
// filters use the && overlap operator, and pgx error codes are translated
// into store sentinels by MapError.
package postgres
