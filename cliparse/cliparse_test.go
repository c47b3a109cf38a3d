// cliparse/cliparse_test.go
package cliparse

import (
	"testing"
)

func TestParseFlags_EnvVars(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "classpoll.db")
	t.Setenv("DATABASE_TYPE", "sqlite")
	t.Setenv("ADMIN_IP", "10.0.0.2")
	t.Setenv("CODE_POOL", "500")

	cfg, err := ParseFlags([]string{})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "classpoll.db" {
		t.Errorf("expected database url classpoll.db, got %s", cfg.DatabaseURL)
	}
	if cfg.AdminIP != "10.0.0.2" {
		t.Errorf("expected admin ip 10.0.0.2, got %s", cfg.AdminIP)
	}
	if cfg.CodePool != 500 {
		t.Errorf("expected code pool 500, got %d", cfg.CodePool)
	}
}

func TestParseFlags_CLIOverridesEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATABASE_URL", "env.db")

	cfg, err := ParseFlags([]string{"-p", "8080", "-d", "cli.db"})
	if err != nil {
		t.Fatal(err)
	}

	// CLI should override env
	if cfg.Port != 8080 {
		t.Errorf("CLI should override env: expected 8080, got %d", cfg.Port)
	}
	if cfg.DatabaseURL != "cli.db" {
		t.Errorf("CLI should override env: expected cli.db, got %s", cfg.DatabaseURL)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_TYPE", "")
	t.Setenv("ADMIN_IP", "")
	t.Setenv("CODE_POOL", "")

	cfg, err := ParseFlags([]string{"-d", "classpoll.db"})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Port)
	}
	if cfg.DatabaseType != "sqlite" {
		t.Errorf("expected default type sqlite, got %s", cfg.DatabaseType)
	}
	if cfg.AdminIP != "127.0.0.1" {
		t.Errorf("expected default admin ip 127.0.0.1, got %s", cfg.AdminIP)
	}
	if cfg.CodePool != 1000 {
		t.Errorf("expected default code pool 1000, got %d", cfg.CodePool)
	}
}

func TestParseFlags_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("expected error when database URL is missing")
	}
}

func TestParseFlags_BadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("DATABASE_URL", "classpoll.db")

	if _, err := ParseFlags([]string{}); err == nil {
		t.Error("expected error for invalid PORT")
	}
}
