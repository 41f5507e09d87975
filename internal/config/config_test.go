package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		shouldSet bool
		wantPanic bool
	}{
		{
			name:      "variable set",
			key:       "TEST_VAR",
			value:     "test_value",
			shouldSet: true,
			wantPanic: false,
		},
		{
			name:      "variable not set",
			key:       "TEST_VAR_MISSING",
			shouldSet: false,
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.shouldSet {
				if err := os.Setenv(tt.key, tt.value); err != nil {
					t.Fatalf("failed to set env var: %v", err)
				}
				defer func() {
					if err := os.Unsetenv(tt.key); err != nil {
						t.Errorf("failed to unset env var: %v", err)
					}
				}()
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{
			name:     "valid duration",
			key:      "TEST_DURATION",
			value:    "5s",
			def:      1 * time.Second,
			expected: 5 * time.Second,
		},
		{
			name:     "invalid duration uses default",
			key:      "TEST_DURATION_INVALID",
			value:    "invalid",
			def:      10 * time.Second,
			expected: 10 * time.Second,
		},
		{
			name:     "missing variable uses default",
			key:      "TEST_DURATION_MISSING",
			value:    "",
			def:      15 * time.Second,
			expected: 15 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", key: "TEST_BOOL", value: "true", def: false, expected: true},
		{name: "false value", key: "TEST_BOOL_FALSE", value: "false", def: true, expected: false},
		{name: "invalid value uses default", key: "TEST_BOOL_INVALID", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", key: "TEST_BOOL_MISSING", value: "", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestParseAllowedIPs(t *testing.T) {
	got := parseAllowedIPs(` 10.0.0.0/8, "192.168.1.4" ,, `)
	want := []string{"10.0.0.0/8", "192.168.1.4"}
	if len(got) != len(want) {
		t.Fatalf("parseAllowedIPs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("parseAllowedIPs()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if parseAllowedIPs("") != nil {
		t.Error("parseAllowedIPs(\"\") should be nil")
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONVERSO_JWT_SECRET", "secret")

	cfg := Load()

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.StoreDriver != StoreDriverSQLite {
		t.Errorf("StoreDriver = %q, want %q", cfg.StoreDriver, StoreDriverSQLite)
	}
	if cfg.StoreEnabled() {
		t.Error("StoreEnabled() should be false without CONVERSO_DATABASE_PATH")
	}
	if cfg.RedisEnabled() {
		t.Error("RedisEnabled() should be false without CONVERSO_REDIS_ADDR")
	}
	if cfg.ViewCacheTTL != 10*time.Minute {
		t.Errorf("ViewCacheTTL = %v, want 10m", cfg.ViewCacheTTL)
	}
}

func TestLoadMissingSecretPanics(t *testing.T) {
	t.Setenv("CONVERSO_JWT_SECRET", "")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic without CONVERSO_JWT_SECRET")
		}
	}()
	Load()
}

func TestLoadUnknownDriverPanics(t *testing.T) {
	t.Setenv("CONVERSO_JWT_SECRET", "secret")
	t.Setenv("CONVERSO_STORE_DRIVER", "postgres")

	defer func() {
		if r := recover(); r == nil {
			t.Error("Load() should panic on unknown store driver")
		}
	}()
	Load()
}

func TestStoreEnabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{name: "sqlite with path", cfg: Config{StoreDriver: StoreDriverSQLite, DatabasePath: "converso.db"}, want: true},
		{name: "sqlite without path", cfg: Config{StoreDriver: StoreDriverSQLite}, want: false},
		{name: "memory", cfg: Config{StoreDriver: StoreDriverMemory}, want: true},
		{name: "no driver", cfg: Config{}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.StoreEnabled(); got != tt.want {
				t.Errorf("StoreEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CONVERSO_TEST_FROM_FILE=hello\n"), 0o644); err != nil {
		t.Fatalf("failed to write env file: %v", err)
	}
	t.Cleanup(func() { _ = os.Unsetenv("CONVERSO_TEST_FROM_FILE") })

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile() error = %v", err)
	}
	if got := os.Getenv("CONVERSO_TEST_FROM_FILE"); got != "hello" {
		t.Errorf("CONVERSO_TEST_FROM_FILE = %q, want hello", got)
	}

	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("LoadEnvFile() on missing file should not fail, got %v", err)
	}
}
