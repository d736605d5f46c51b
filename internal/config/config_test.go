package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hbenali/aeropass/internal/config"
)

const baseConfig = `
shutdown_timeout = "30s"
version = "0.1.0"

[server]
host = "0.0.0.0"
port = 8080
read_timeout = "1m"
write_timeout = "15m"
shutdown_timeout = "30s"

[database]
host = "localhost"
port = 5432
name = "aeropass"
user = "aeropass"
password = "aeropass"
ssl_mode = "disable"
max_open_conns = 25
max_idle_conns = 5
conn_max_lifetime = "15m"
conn_timeout = "5s"

[storage]
container_name = "contracts"
connection_string = "DefaultEndpointsProtocol=http;AccountName=aeropassstore;AccountKey=key;BlobEndpoint=http://127.0.0.1:10000/aeropassstore;"

[keyset]
host = "localhost"
port = 6379
key_prefix = "aeropass:"

[notifications]
new_window = "48h"
expiry_lookahead_days = 60
imminent_days = 14

[api]
base_path = "/api"

[api.cors]
enabled = false

[api.pagination]
default_page_size = 25
max_page_size = 50
`

const overlayConfig = `
[server]
port = 9090

[database]
host = "prodhost"
`

// minimalConfig provides the minimum fields required for validation to
// pass (db name, db user, storage connection string).
const minimalConfig = `
shutdown_timeout = "30s"

[server]
port = 8080

[database]
name = "aeropass"
user = "aeropass"

[storage]
connection_string = "conn"

[api]
base_path = "/api"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("db host: got %s, want localhost", cfg.Database.Host)
	}
	if cfg.Storage.ContainerName != "contracts" {
		t.Errorf("storage container: got %s, want contracts", cfg.Storage.ContainerName)
	}
	if cfg.Keyset.Port != 6379 {
		t.Errorf("keyset port: got %d, want 6379", cfg.Keyset.Port)
	}
	if cfg.API.BasePath != "/api" {
		t.Errorf("api base_path: got %s, want /api", cfg.API.BasePath)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 50 {
		t.Errorf("pagination max_page_size: got %d, want 50", cfg.API.Pagination.MaxPageSize)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	chdir(t, dir)

	t.Setenv("AEROPASS_ENV", "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if cfg.Database.Host != "prodhost" {
		t.Errorf("db host: got %s, want prodhost (from overlay)", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("db port: got %d, want 5432 (from base)", cfg.Database.Port)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("AEROPASS_VERSION", "2.0.0")
	t.Setenv("AEROPASS_SERVER_PORT", "3000")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Version != "2.0.0" {
		t.Errorf("version: got %s, want 2.0.0", cfg.Version)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	t.Setenv("AEROPASS_DB_NAME", "testdb")
	t.Setenv("AEROPASS_DB_USER", "testuser")
	t.Setenv("AEROPASS_STORAGE_CONNECTION_STRING", "conn")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Name != "testdb" {
		t.Errorf("db name from env: got %s, want testdb", cfg.Database.Name)
	}
	if cfg.Storage.ConnectionString != "conn" {
		t.Errorf("storage conn from env: got %s, want conn", cfg.Storage.ConnectionString)
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", `invalid = `)
	chdir(t, dir)

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestEnvDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env() != "local" {
		t.Errorf("env: got %s, want local", cfg.Env())
	}
}

func TestEnvFromEnvVar(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("AEROPASS_ENV", "production")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Env() != "production" {
		t.Errorf("env: got %s, want production", cfg.Env())
	}
}

func TestShutdownTimeoutDuration(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if d := cfg.ShutdownTimeoutDuration(); d != 30*time.Second {
		t.Errorf("shutdown timeout: got %v, want 30s", d)
	}
}

func TestServerAddr(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if addr := cfg.Server.Addr(); addr != "0.0.0.0:8080" {
		t.Errorf("addr: got %s, want 0.0.0.0:8080", addr)
	}
}

func TestPaginationDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.Pagination.DefaultPageSize != 20 {
		t.Errorf("pagination default_page_size: got %d, want 20", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 100 {
		t.Errorf("pagination max_page_size: got %d, want 100", cfg.API.Pagination.MaxPageSize)
	}
}

func TestPaginationEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("AEROPASS_PAGINATION_DEFAULT_PAGE_SIZE", "10")
	t.Setenv("AEROPASS_PAGINATION_MAX_PAGE_SIZE", "200")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.API.Pagination.DefaultPageSize != 10 {
		t.Errorf("pagination default_page_size: got %d, want 10", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.Pagination.MaxPageSize != 200 {
		t.Errorf("pagination max_page_size: got %d, want 200", cfg.API.Pagination.MaxPageSize)
	}
}

func TestMaxUploadSizeBytes(t *testing.T) {
	tests := []struct {
		name string
		size string
		want int64
	}{
		{"valid 50MB", "50MB", 50 * 1024 * 1024},
		{"valid 10MB", "10MB", 10 * 1024 * 1024},
		{"valid 1GB", "1GB", 1024 * 1024 * 1024},
		{"invalid falls back to 50MB", "bad", 50 * 1024 * 1024},
		{"empty falls back to 50MB", "", 50 * 1024 * 1024},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.APIConfig{MaxUploadSize: tt.size}
			got := cfg.MaxUploadSizeBytes()
			if got != tt.want {
				t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMaxUploadSizeDefault(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := int64(50 * 1024 * 1024)
	if got := cfg.API.MaxUploadSizeBytes(); got != want {
		t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, want)
	}
}

func TestMaxUploadSizeEnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("AEROPASS_API_MAX_UPLOAD_SIZE", "100MB")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	want := int64(100 * 1024 * 1024)
	if got := cfg.API.MaxUploadSizeBytes(); got != want {
		t.Errorf("MaxUploadSizeBytes() = %d, want %d", got, want)
	}
}

func TestServerValidation(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr string
	}{
		{
			name: "invalid port",
			config: `
shutdown_timeout = "30s"

[server]
port = 99999

[database]
name = "aeropass"
user = "aeropass"

[storage]
connection_string = "conn"
`,
			wantErr: "invalid port",
		},
		{
			name: "invalid read_timeout",
			config: `
shutdown_timeout = "30s"

[server]
read_timeout = "bad"

[database]
name = "aeropass"
user = "aeropass"

[storage]
connection_string = "conn"
`,
			wantErr: "invalid read_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.config)
			chdir(t, dir)

			_, err := config.Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestNotificationsFromTOML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	opts := cfg.Notifications.Options()
	if opts.NewWindow != 48*time.Hour {
		t.Errorf("new window: got %v, want 48h", opts.NewWindow)
	}
	if opts.ExpiryLookaheadDays != 60 {
		t.Errorf("expiry lookahead: got %d, want 60", opts.ExpiryLookaheadDays)
	}
	if opts.ImminentDays != 14 {
		t.Errorf("imminent days: got %d, want 14", opts.ImminentDays)
	}
}

func TestNotificationsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", minimalConfig)
	chdir(t, dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	opts := cfg.Notifications.Options()
	if opts.NewWindow != 24*time.Hour {
		t.Errorf("new window: got %v, want 24h", opts.NewWindow)
	}
	if opts.ExpiryLookaheadDays != 30 {
		t.Errorf("expiry lookahead: got %d, want 30", opts.ExpiryLookaheadDays)
	}
	if opts.ImminentDays != 7 {
		t.Errorf("imminent days: got %d, want 7", opts.ImminentDays)
	}
}

func TestNotificationsEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("AEROPASS_NOTIFICATIONS_NEW_WINDOW", "72h")
	t.Setenv("AEROPASS_NOTIFICATIONS_EXPIRY_LOOKAHEAD_DAYS", "90")
	t.Setenv("AEROPASS_NOTIFICATIONS_IMMINENT_DAYS", "3")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	opts := cfg.Notifications.Options()
	if opts.NewWindow != 72*time.Hour {
		t.Errorf("new window: got %v, want 72h", opts.NewWindow)
	}
	if opts.ExpiryLookaheadDays != 90 {
		t.Errorf("expiry lookahead: got %d, want 90", opts.ExpiryLookaheadDays)
	}
	if opts.ImminentDays != 3 {
		t.Errorf("imminent days: got %d, want 3", opts.ImminentDays)
	}
}

func TestNotificationsValidation(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("AEROPASS_NOTIFICATIONS_IMMINENT_DAYS", "120")

	_, err := config.Load()
	if err == nil {
		t.Fatal("expected error when imminent_days exceeds expiry_lookahead_days")
	}
	if !strings.Contains(err.Error(), "imminent_days") {
		t.Errorf("error %q does not mention imminent_days", err.Error())
	}
}

func TestKeysetEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	chdir(t, dir)

	t.Setenv("AEROPASS_REDIS_HOST", "cache.internal")
	t.Setenv("AEROPASS_REDIS_PORT", "6380")
	t.Setenv("AEROPASS_REDIS_KEY_PREFIX", "staging:")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Keyset.Host != "cache.internal" {
		t.Errorf("keyset host: got %s, want cache.internal", cfg.Keyset.Host)
	}
	if cfg.Keyset.Port != 6380 {
		t.Errorf("keyset port: got %d, want 6380", cfg.Keyset.Port)
	}
	if cfg.Keyset.KeyPrefix != "staging:" {
		t.Errorf("keyset prefix: got %s, want staging:", cfg.Keyset.KeyPrefix)
	}
}
