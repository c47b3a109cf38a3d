// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database and verifies the connection.
// databaseType is "sqlite" or "postgres".
func Open(databaseType, databaseURL string) (*sql.DB, error) {
	var driver string
	switch databaseType {
	case "sqlite":
		driver = "sqlite"
	case "postgres":
		driver = "postgres"
	default:
		return nil, fmt.Errorf("unknown database type %q", databaseType)
	}

	conn, err := sql.Open(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return conn, nil
}
