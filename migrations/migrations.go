// Package migrations embeds the SQL schema for every supported backend.
package migrations

import "embed"

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// Dir returns the directory inside FS holding the migrations for driver.
func Dir(driver string) string {
	if driver == "sqlite" || driver == "sqlite3" {
		return "sqlite"
	}
	return "postgres"
}
