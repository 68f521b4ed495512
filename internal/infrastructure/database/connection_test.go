package database

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"srdashboard/internal/shared/config"
)

func TestInit_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "nested", "sr.db"),
	}

	require.NoError(t, Init(cfg))
	t.Cleanup(func() { _ = Close() })

	assert.NotNil(t, Get())
	assert.NoError(t, Ping())

	var one int
	require.NoError(t, Get().Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}

func TestFilteredLogger_DropsSchemaProbes(t *testing.T) {
	// Must not panic regardless of message shape.
	l := &filteredLogger{}
	l.Printf("%s", "SELECT VERSION()")
	l.Printf("[error] %s", "boom")
	l.Printf("SLOW SQL >= %dms", 200)
}
