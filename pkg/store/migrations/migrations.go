// Package migrations embeds the SQL schema migrations owned by the
// bootstrap: the users table it seeds. The application's own schema is
// managed by the application, not here.
package migrations

import "embed"

// FS holds the embedded migration files, consumed by golang-migrate's
// iofs source driver.
//
//go:embed *.sql
var FS embed.FS
