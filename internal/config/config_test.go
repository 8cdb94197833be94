package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("SUPPORT_CONTACT", "@helpdesk")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, filepath.Join(dir, "state.db"), cfg.Database.Path)
	assert.Equal(t, 24*time.Hour, cfg.App.SessionTTL)
	assert.Equal(t, "helpdesk", cfg.App.SupportContact)
	assert.Equal(t, "es", cfg.App.Locale)
	assert.Equal(t, "0 0 * * * *", cfg.App.ExpiryScanSpec)
	assert.Equal(t, 8080, cfg.Server.Port)
	require.NotNil(t, cfg.App.Location)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
		want string
	}{
		{"driver", "DB_DRIVER", "oracle", "DB_DRIVER"},
		{"ttl", "SESSION_TTL", "forever", "SESSION_TTL"},
		{"timezone", "TZ", "Mars/Olympus", "TZ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BOT_TOKEN", "123:abc")
			t.Setenv("DATA_DIR", t.TempDir())
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadDatabaseOnly_NoToken(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("DATA_DIR", dir)
	t.Setenv("OWNER_ID", "1000")

	db, owner, err := LoadDatabaseOnly()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "state.db"), db.Path)
	assert.Equal(t, int64(1000), owner)
	assert.DirExists(t, dir)
}

func TestEnsureDataDirs(t *testing.T) {
	app := &AppConfig{DataDir: t.TempDir()}
	require.NoError(t, app.EnsureDataDirs())
	assert.DirExists(t, filepath.Join(app.DataDir, "clients"))
	assert.DirExists(t, filepath.Join(app.DataDir, "logs"))
	assert.True(t, strings.HasSuffix(app.ClientsDir(), "clients"))
}

func TestDSN(t *testing.T) {
	mysql := DatabaseConfig{Driver: "mysql", User: "u", Pass: "p", Host: "h", Port: "3306", Name: "bot", Charset: "utf8mb4"}
	assert.Equal(t, "u:p@tcp(h:3306)/bot?charset=utf8mb4&parseTime=True&loc=Local", mysql.DSN())

	pg := DatabaseConfig{Driver: "postgres", User: "u", Pass: "p", Host: "h", Port: "5432", Name: "bot"}
	assert.Contains(t, pg.DSN(), "dbname=bot")

	lite := DatabaseConfig{Driver: "sqlite", Path: "/tmp/x.db"}
	assert.True(t, strings.HasPrefix(lite.DSN(), "/tmp/x.db?"))
}
