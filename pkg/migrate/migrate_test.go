package migrate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("validate shipped migrations: %v", err)
	}
}

func TestEmbeddedVersionsMatchDisk(t *testing.T) {
	versions, err := EmbeddedVersions()
	if err != nil {
		t.Fatalf("embedded versions: %v", err)
	}
	files, err := filepath.Glob(filepath.Join("migrations", "*.sql"))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	if len(versions) != len(files) {
		t.Fatalf("expected %d embedded migrations, got %d", len(files), len(versions))
	}
	for i := 1; i < len(versions); i++ {
		if versions[i] <= versions[i-1] {
			t.Fatalf("versions not ascending: %v", versions)
		}
	}
}

func TestOrdersMigrationCarriesIdempotencyConstraint(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_orders_tables.sql"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one orders migration, got %v (%v)", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	content := string(data)
	for _, sub := range []string{
		"CONSTRAINT ux_orders_idempotency_key UNIQUE (idempotency_key)",
		"CONSTRAINT ux_orders_order_number UNIQUE (order_number)",
		"REFERENCES orders (id) ON DELETE CASCADE",
		"quantity integer NOT NULL CHECK (quantity >= 1)",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing %q", sub)
		}
	}
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	if err := ValidateDir(dir); err == nil {
		t.Fatal("expected empty dir to fail")
	}

	bad := filepath.Join(dir, "add_table.sql")
	if err := os.WriteFile(bad, []byte("-- +goose Up\n-- +goose Down\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil || !strings.Contains(err.Error(), "invalid migration filename") {
		t.Fatalf("expected filename error, got %v", err)
	}
	_ = os.Remove(bad)

	noDown := filepath.Join(dir, "20260101000000_add_table.sql")
	if err := os.WriteFile(noDown, []byte("-- +goose Up\nSELECT 1;\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := ValidateDir(dir); err == nil || !strings.Contains(err.Error(), "goose Down") {
		t.Fatalf("expected missing down error, got %v", err)
	}
}

func TestCreateSQLMigrationSanitizesName(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 9, 14, 30, 0, 0, time.UTC)
	path, err := CreateSQLMigration(dir, "  Add Seller Payout Table! ", now)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Base(path) != "20260309143000_add_seller_payout_table.sql" {
		t.Fatalf("unexpected filename %s", path)
	}
	if err := ValidateDir(dir); err != nil {
		t.Fatalf("created migration should validate: %v", err)
	}
	if _, err := CreateSQLMigration(dir, "add seller payout table", now); err == nil {
		t.Fatal("expected existing migration to be refused")
	}
	if _, err := CreateSQLMigration(dir, "!!!", now); err == nil {
		t.Fatal("expected sanitized-empty name to fail")
	}
}

func TestValidateDirReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"bad-name.sql":                     "-- +goose Up\n-- +goose Down\n",
		"20260101000000_missing_down.sql":  "-- +goose Up\nSELECT 1;\n",
		"20260101000000_duplicate_ver.sql": "-- +goose Up\n-- +goose Down\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	err := ValidateDir(dir)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	for _, want := range []string{"invalid migration filename", "goose Down", "used by both"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %v", want, err)
		}
	}
}
