// Package migrations embeds the SQL migration files into the binary and
// registers them with the database package's migration runner.
package migrations

import (
	"embed"

	"github.com/openaura/aura-core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "."
}
