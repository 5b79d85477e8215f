// Package migrations embeds the goose SQL migrations for the credential
// stores.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
