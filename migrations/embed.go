package migrations

import "embed"

// Files stores forward-only SQL migrations for the devapi store.
//
//go:embed *.sql
var Files embed.FS
