package db

import (
	"strconv"
	"strings"
	"testing"

	"github.com/diewo77/go-directory/internal/config"
	"github.com/diewo77/go-directory/internal/models"
)

func TestNormalizeDSN(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{`"postgres://u:p@h/db"`, "postgres://u:p@h/db"},
		{"host=h   user=u dbname=d", "host=h user=u dbname=d sslmode=disable"},
		{"host=h user=u sslmode=require", "host=h user=u sslmode=require"},
		{"garbage", "garbage"},
	}
	for _, tt := range tests {
		if got := NormalizeDSN(tt.in); got != tt.want {
			t.Errorf("NormalizeDSN(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMaskDSN(t *testing.T) {
	if got := MaskDSN("host=h password=secret dbname=d"); got != "host=h password=*** dbname=d" {
		t.Errorf("unexpected mask %q", got)
	}
	if got := MaskDSN("postgres://u:secret@h:5432/d"); strings.Contains(got, "secret") || !strings.HasPrefix(got, "postgres://u:") {
		t.Errorf("unexpected mask %q", got)
	}
}

func TestConnectMigrateSeedIdempotent(t *testing.T) {
	d, err := Connect(config.DatabaseConfig{Driver: "sqlite", Path: "file:" + t.Name() + "?mode=memory&cache=shared"})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if err := Migrate(d); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := Seed(d); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := Seed(d); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	var cats, settings int64
	d.Model(&models.Category{}).Count(&cats)
	d.Model(&models.SiteSettings{}).Count(&settings)
	if cats != int64(len(baseCategories)) {
		t.Fatalf("expected %d categories got %d", len(baseCategories), cats)
	}
	if settings != 1 {
		t.Fatalf("expected singleton settings row, got %d", settings)
	}
	var spa models.Category
	if err := d.Where("name = ?", "Beauty Spa").First(&spa).Error; err != nil || spa.Slug != "beauty-spa" {
		t.Fatalf("unexpected seeded category %+v err=%v", spa, err)
	}
}

func TestConnectUnsupportedDriver(t *testing.T) {
	if _, err := Connect(config.DatabaseConfig{Driver: "oracle"}); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestMigrateSchemaChoosesAutoMigrate(t *testing.T) {
	for _, useSQL := range []bool{false, true} {
		cfg := config.DatabaseConfig{Driver: "sqlite", Path: "file:" + t.Name() + strconv.FormatBool(useSQL) + "?mode=memory&cache=shared"}
		d, err := Connect(cfg)
		if err != nil {
			t.Fatalf("connect: %v", err)
		}
		if err := MigrateSchema(d, cfg, useSQL, "migrations"); err != nil {
			t.Fatalf("useSQL=%v: %v", useSQL, err)
		}
		for _, table := range []string{"users", "businesses", "enquiries", "admin_sessions"} {
			if !d.Migrator().HasTable(table) {
				t.Errorf("useSQL=%v: table %s missing", useSQL, table)
			}
		}
	}
}

func TestMigrateSchemaSQLTargetsPostgres(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: "postgres", RawDSN: "postgres://u:p@127.0.0.1:1/none?sslmode=disable"}
	err := MigrateSchema(nil, cfg, true, t.TempDir())
	if err == nil || !strings.Contains(err.Error(), "migrations") {
		t.Fatalf("expected a golang-migrate error for an unreachable postgres, got %v", err)
	}
}
