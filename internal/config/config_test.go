package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setEnv(t *testing.T, env map[string]string) {
	t.Helper()
	for _, key := range []string{
		"PORT", "ENV", "ALLOWED_ORIGINS", "STORE_DRIVER", "MONGO_URL", "MONGO_DATABASE",
		"MONGO_COLLECTION", "POSTGRES_URL", "SQLITE_PATH", "REDIS_URL", "CACHE_TTL",
		"WORKER_COUNT", "QUEUE_SIZE", "BATCH_SIZE", "FLUSH_INTERVAL", "API_TOKENS",
		"TEAMS_FILE", "TRACKED_TEAMS", "BUCKET_DAYS", "QUERY_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
	for k, v := range env {
		t.Setenv(k, v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setEnv(t, map[string]string{
		"MONGO_URL":     "mongodb://localhost:27017",
		"TRACKED_TEAMS": "Alpha=A1|A2, Beta=B1",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 || cfg.StoreDriver != "mongo" || cfg.MongoDatabase != "lol_match_database" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.BucketWidth() != 14*24*time.Hour {
		t.Errorf("BucketWidth = %v, want 14 days", cfg.BucketWidth())
	}
	if cfg.CacheTTL != 5*time.Minute || cfg.QueryTimeout != 10*time.Second {
		t.Errorf("CacheTTL = %v, QueryTimeout = %v", cfg.CacheTTL, cfg.QueryTimeout)
	}
	if len(cfg.APITokens) != 0 {
		t.Errorf("APITokens = %v, want none", cfg.APITokens)
	}
	if name, ok := cfg.Teams.TeamFor("A2"); !ok || name != "Alpha" {
		t.Errorf("TeamFor(A2) = %q, %v", name, ok)
	}
	if cfg.Teams.Len() != 2 {
		t.Errorf("Teams.Len() = %d, want 2", cfg.Teams.Len())
	}
}

func TestLoad_DriverRequiresURL(t *testing.T) {
	tests := []struct {
		driver  string
		missing string
	}{
		{"mongo", "MONGO_URL"},
		{"postgres", "POSTGRES_URL"},
		{"sqlite", "SQLITE_PATH"},
	}
	for _, tt := range tests {
		t.Run(tt.driver, func(t *testing.T) {
			setEnv(t, map[string]string{"STORE_DRIVER": tt.driver})
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.missing) {
				t.Errorf("error = %v, want mention of %s", err, tt.missing)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "cassandra"}},
		{"bad bucket days", map[string]string{"SQLITE_PATH": "x.db", "STORE_DRIVER": "sqlite", "BUCKET_DAYS": "0"}},
		{"malformed teams", map[string]string{"SQLITE_PATH": "x.db", "STORE_DRIVER": "sqlite", "TRACKED_TEAMS": "Alpha"}},
		{"shared roster", map[string]string{"SQLITE_PATH": "x.db", "STORE_DRIVER": "sqlite", "TRACKED_TEAMS": "Alpha=R1,Beta=R1"}},
		{"duplicate team", map[string]string{"SQLITE_PATH": "x.db", "STORE_DRIVER": "sqlite", "TRACKED_TEAMS": "Alpha=R1,Alpha=R2"}},
		{"missing teams file", map[string]string{"SQLITE_PATH": "x.db", "STORE_DRIVER": "sqlite", "TEAMS_FILE": "/nonexistent/teams.yaml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t, tt.env)
			if _, err := Load(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_TeamsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teams.yaml")
	body := "teams:\n  Alpha:\n    - A1\n    - A2\n  Beta:\n    - B1\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	setEnv(t, map[string]string{
		"STORE_DRIVER":  "sqlite",
		"SQLITE_PATH":   "scrims.db",
		"TEAMS_FILE":    path,
		"TRACKED_TEAMS": "Gamma=G1",
		"API_TOKENS":    "tok1, tok2",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Teams.Has("Gamma") || !cfg.Teams.Has("Alpha") {
		t.Errorf("TEAMS_FILE should take precedence, got %v", cfg.Teams.Names())
	}
	if len(cfg.APITokens) != 2 || cfg.APITokens[1] != "tok2" {
		t.Errorf("APITokens = %v", cfg.APITokens)
	}

	out, err := TeamsYAML(cfg.Teams)
	if err != nil {
		t.Fatalf("TeamsYAML: %v", err)
	}
	teams, err := loadTeams(writeTemp(t, out), "")
	if err != nil {
		t.Fatalf("reload rendered YAML: %v", err)
	}
	if len(teams["Alpha"]) != 2 || teams["Beta"][0] != "B1" {
		t.Errorf("rendered YAML lost rosters: %v", teams)
	}
}

func writeTemp(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
