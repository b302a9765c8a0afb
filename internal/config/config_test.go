package config

import (
	"path/filepath"
	"testing"
)

func TestResolveDefaultsLocalDerivesSQLite(t *testing.T) {
	home := t.TempDir()
	t.Setenv("MAIL_MEMORIES_HOME", home)

	cfg := &Config{BuildTarget: "local", DBDriver: "auto"}
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("driver: %q", cfg.DBDriver)
	}
	want := filepath.Join(home, "memories.db")
	if cfg.SQLitePath != want {
		t.Fatalf("sqlite path: got %q want %q", cfg.SQLitePath, want)
	}
}

func TestResolveDefaultsCloudUsesPostgres(t *testing.T) {
	for _, target := range []string{"cloud-dev", "cloud"} {
		cfg := &Config{BuildTarget: target, DBDriver: "auto"}
		if err := cfg.ResolveDefaults(); err != nil {
			t.Fatalf("%s: resolve failed: %v", target, err)
		}
		if cfg.DBDriver != "postgres" {
			t.Fatalf("%s: driver %q", target, cfg.DBDriver)
		}
	}
}

func TestResolveDefaultsExplicitDriverWins(t *testing.T) {
	cfg := &Config{BuildTarget: "cloud", DBDriver: "sqlite", SQLitePath: "/tmp/x.db"}
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if cfg.DBDriver != "sqlite" || cfg.SQLitePath != "/tmp/x.db" {
		t.Fatalf("override not respected: %+v", cfg)
	}
}

func TestResolveDefaultsRejectsUnknownTarget(t *testing.T) {
	cfg := &Config{BuildTarget: "staging"}
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for unknown build target")
	}
}

func TestResolveDefaultsRejectsUnknownDriver(t *testing.T) {
	cfg := &Config{BuildTarget: "local", DBDriver: "mysql"}
	if err := cfg.ResolveDefaults(); err == nil {
		t.Fatal("expected error for unknown db driver")
	}
}

func TestNewParsesEnvironment(t *testing.T) {
	t.Setenv("MAIL_MEMORIES_HOME", t.TempDir())
	t.Setenv("MAIL_MEMORIES_HTTP_PORT", "9090")
	t.Setenv("MAIL_MEMORIES_GMAIL_BASE_URL", "http://localhost:1234")

	cfg, err := New()
	if err != nil {
		t.Fatalf("new failed: %v", err)
	}
	if cfg.HTTPPort != 9090 {
		t.Fatalf("port: %d", cfg.HTTPPort)
	}
	if cfg.GetHTTPAddr() != ":9090" {
		t.Fatalf("addr: %q", cfg.GetHTTPAddr())
	}
	if cfg.GmailBaseURL != "http://localhost:1234" {
		t.Fatalf("gmail base url: %q", cfg.GmailBaseURL)
	}
	if cfg.GoogleTokenURL != "https://oauth2.googleapis.com/token" {
		t.Fatalf("token url default: %q", cfg.GoogleTokenURL)
	}
}
