package postgresql

import _ "embed"

// Schema creates every table and index the repositories rely on. It is idempotent.
//
//go:embed schema.sql
var Schema string
