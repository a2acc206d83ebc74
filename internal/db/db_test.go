package db_test

import (
	"path/filepath"
	"testing"

	"github.com/vrsandeep/novelshelf/internal/assets"
	"github.com/vrsandeep/novelshelf/internal/db"
	"github.com/vrsandeep/novelshelf/internal/testutil"
)

func TestInitDBAndMigrate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "novelshelf.db")
	database, err := db.InitDB(path)
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}
	// A second run is a no-op.
	if err := db.RunMigrations(database, assets.MigrationsFS); err != nil {
		t.Fatalf("RunMigrations (second run) failed: %v", err)
	}

	for _, table := range []string{"categories", "category_novels", "downloads"} {
		var name string
		err := database.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing after migrations: %v", table, err)
		}
	}
}

func TestCategoryCascadeDelete(t *testing.T) {
	database := testutil.SetupTestDB(t)

	var foreignKeysEnabled int
	if err := database.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeysEnabled); err != nil {
		t.Fatalf("Failed to check foreign keys status: %v", err)
	}
	if foreignKeysEnabled != 1 {
		t.Errorf("Foreign keys should be enabled, got: %d", foreignKeysEnabled)
	}

	_, err := database.Exec("INSERT INTO categories (name, created_at) VALUES (?, datetime('now'))", "Favorites")
	if err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	_, err = database.Exec("INSERT INTO category_novels (category_id, novel_id, added_at) VALUES (1, ?, datetime('now'))", "12345")
	if err != nil {
		t.Fatalf("Failed to add novel to category: %v", err)
	}

	if _, err := database.Exec("DELETE FROM categories WHERE id = 1"); err != nil {
		t.Fatalf("Failed to delete category: %v", err)
	}

	var count int
	if err := database.QueryRow("SELECT COUNT(*) FROM category_novels").Scan(&count); err != nil {
		t.Fatalf("Failed to count category novels: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected category novels to be deleted with their category, found %d", count)
	}
}
