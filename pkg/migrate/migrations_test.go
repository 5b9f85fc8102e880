package migrate_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/londonshop-backend/pkg/config"
	"github.com/angelmondragon/londonshop-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/londonshop-backend/pkg/db/types"
	pkgerrors "github.com/angelmondragon/londonshop-backend/pkg/errors"
	"github.com/angelmondragon/londonshop-backend/pkg/migrate"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMigrationsDirIsValid(t *testing.T) {
	require.NoError(t, migrate.ValidateDir("migrations"))
}

func TestFeedbackMigrationContainsSchema(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_feedback.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no feedback migration file found")

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)

	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS feedback",
		"cart_items JSONB NOT NULL DEFAULT '[]'",
		"CREATE INDEX IF NOT EXISTS feedback_created_at_idx",
		"DROP TABLE IF EXISTS feedback",
	} {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCustomersMigrationContainsUniqueEmail(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_customers.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, matches, "no customers migration file found")

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	require.Contains(t, string(data), "CONSTRAINT customers_email_key UNIQUE (email)")
}

func TestRunAppliesMigrationsOnSQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := gorm.Open(sqlite.Open("file:migrate_run?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrate.Run(ctx, sqlDB, migrate.DialectSQLite, "migrations", "up"))

	entry := models.Feedback{
		ID:        uuid.New(),
		Email:     "ada@example.com",
		FirstName: "Ada",
		LastName:  "Lovelace",
		CartItems: dbtypes.CartLines{{ID: "hoodie-1", Name: "London Signature Hoodie", Price: decimal.RequireFromString("49.99"), Quantity: 1, Color: "Black", Size: "M"}},
	}
	require.NoError(t, conn.Create(&entry).Error)

	var loaded models.Feedback
	require.NoError(t, conn.First(&loaded, "id = ?", entry.ID).Error)
	require.Len(t, loaded.CartItems, 1)
	require.Equal(t, "hoodie-1", loaded.CartItems[0].ID)

	customer := models.Customer{ID: uuid.New(), Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, conn.Create(&customer).Error)
	dup := models.Customer{ID: uuid.New(), Email: "ada@example.com", FirstName: "A", LastName: "L"}
	err = conn.Create(&dup).Error
	require.Error(t, err, "email must stay unique")
	require.True(t, pkgerrors.IsUniqueViolation(err))

	require.NoError(t, migrate.Run(ctx, sqlDB, migrate.DialectSQLite, "migrations", "down"))
	require.False(t, conn.Migrator().HasTable("feedback"))
}

func TestCreateSQLMigrationWritesTemplate(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	path, err := migrate.CreateSQLMigration(dir, "Add Gift Notes!", now)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "20260314093000_add_gift_notes.sql"), path)
	require.NoError(t, migrate.ValidateDir(dir))

	_, err = migrate.CreateSQLMigration(dir, "Add Gift Notes!", now)
	require.Error(t, err, "existing file must not be overwritten")

	_, err = migrate.CreateSQLMigration(dir, "!!!", now)
	require.Error(t, err)
}

func TestValidateDirReportsEveryProblem(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("notes.sql", "-- +goose Up\n-- +goose Down\n")
	write("20260301000000_a.sql", "-- +goose Up\nSELECT 1;\n")
	write("20260301000000_b.sql", "-- +goose Up\nCREATE TABLE t (created_at TIMESTAMPTZ);\n-- +goose Down\n")
	write("README.md", "ignored")

	err := migrate.ValidateDir(dir)
	require.Error(t, err)
	errs := multierr.Errors(err)
	require.Len(t, errs, 4)

	msg := err.Error()
	for _, want := range []string{
		"notes.sql: expected YYYYMMDDHHMMSS_name.sql",
		`20260301000000_a.sql: missing "-- +goose Down"`,
		"version 20260301000000 already used by 20260301000000_a.sql",
		"TIMESTAMPTZ is not portable to sqlite",
	} {
		require.Contains(t, msg, want)
	}
}

func TestShouldAutoRun(t *testing.T) {
	cases := []struct {
		name string
		cfg  *config.Config
		want bool
	}{
		{"nil config", nil, false},
		{"dev sqlite", &config.Config{App: config.AppConfig{Env: "dev"}, DB: config.DBConfig{Driver: "sqlite"}}, true},
		{"dev postgres", &config.Config{App: config.AppConfig{Env: "dev"}, DB: config.DBConfig{Driver: "postgres"}}, false},
		{"prod sqlite", &config.Config{App: config.AppConfig{Env: "prod"}, DB: config.DBConfig{Driver: "sqlite"}}, false},
		{"flag set", &config.Config{App: config.AppConfig{Env: "prod"}, DB: config.DBConfig{Driver: "postgres"}, FeatureFlags: config.FeatureFlagsConfig{AutoMigrate: true}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, migrate.ShouldAutoRun(tc.cfg))
		})
	}
}
