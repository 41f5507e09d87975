package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/MrSnakeDoc/converso/internal/companion"
	"github.com/MrSnakeDoc/converso/internal/config"
	"github.com/MrSnakeDoc/converso/internal/logger"
	"github.com/MrSnakeDoc/converso/internal/store/memory"
	"github.com/MrSnakeDoc/converso/internal/store/sqlite"
)

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.Config
		wantNil bool
		check   func(t *testing.T, s companion.RecordStore)
	}{
		{
			name:    "no driver",
			cfg:     config.Config{},
			wantNil: true,
		},
		{
			name:    "sqlite without path",
			cfg:     config.Config{StoreDriver: config.StoreDriverSQLite},
			wantNil: true,
		},
		{
			name: "memory",
			cfg:  config.Config{StoreDriver: config.StoreDriverMemory},
			check: func(t *testing.T, s companion.RecordStore) {
				if _, ok := s.(*memory.Store); !ok {
					t.Errorf("store = %T, want *memory.Store", s)
				}
			},
		},
		{
			name: "sqlite",
			cfg:  config.Config{StoreDriver: config.StoreDriverSQLite, DatabasePath: filepath.Join(t.TempDir(), "c.db")},
			check: func(t *testing.T, s companion.RecordStore) {
				if _, ok := s.(*sqlite.Store); !ok {
					t.Errorf("store = %T, want *sqlite.Store", s)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			store, closeStore, err := openStore(ctx, &cfg, logger.Nop())
			if err != nil {
				t.Fatalf("openStore() error = %v", err)
			}
			defer closeStore()

			if (store == nil) != tt.wantNil {
				t.Fatalf("store nil = %v, want %v", store == nil, tt.wantNil)
			}
			if tt.check != nil {
				tt.check(t, store)
			}
		})
	}
}

func TestOpenStoreBadPath(t *testing.T) {
	cfg := config.Config{
		StoreDriver:  config.StoreDriverSQLite,
		DatabasePath: filepath.Join(t.TempDir(), "missing", "dir", "c.db"),
	}
	if _, _, err := openStore(context.Background(), &cfg, logger.Nop()); err == nil {
		t.Error("openStore() with an unwritable path should fail")
	}
}

func TestSeedCatalog(t *testing.T) {
	file := filepath.Join(t.TempDir(), "catalog.yaml")
	content := "- maths:\n    - Countsy:\n        topic: Derivatives\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	store := memory.NewStore()
	cfg := &config.Config{CatalogFile: file, CatalogAuthor: "converso"}
	seedCatalog(context.Background(), store, nil, cfg, logger.Nop())

	if store.Count() != 1 {
		t.Errorf("Count() = %d, want 1", store.Count())
	}

	cfg.CatalogFile = filepath.Join(t.TempDir(), "absent.yaml")
	seedCatalog(context.Background(), memory.NewStore(), nil, cfg, logger.Nop())
}
