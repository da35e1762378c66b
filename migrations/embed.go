// Package migrations embeds the SQL migration files so the migrate command
// and the integration-test bootstrap can apply them without a migrations
// directory on disk.
package migrations

import "embed"

// FS holds all *.sql migration files embedded at compile time.
// Hand it to goose.SetBaseFS or a goose.Provider; the running binary and
// the schema it expects can never drift apart.
//
//go:embed *.sql
var FS embed.FS
