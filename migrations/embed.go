// Package migrations embeds the goose SQL migrations for the travel orders
// schema. The API applies them on startup and TestMain applies them before
// repository integration tests.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql
var FS embed.FS
