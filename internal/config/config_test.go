package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsMatchTheBuiltInValues(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 100, cfg.Storage.TupleGroupSize)
	assert.Equal(t, 64, cfg.Validation.MaxTableNameLength)
	assert.Equal(t, 64, cfg.Validation.MaxColumnNameLength)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseOverlaysNestedStorageAndValidationTables(t *testing.T) {
	doc := `
log_level = "debug"

[storage]
tuple_group_size = 250

[validation]
max_table_name_length = 32
max_column_name_length = 16
`
	cfg, err := Parse(strings.NewReader(doc), Defaults())
	require.NoError(t, err)
	assert.Equal(t, 250, cfg.Storage.TupleGroupSize)
	assert.Equal(t, 32, cfg.Validation.MaxTableNameLength)
	assert.Equal(t, 16, cfg.Validation.MaxColumnNameLength)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParseOmittedTablesKeepTheBaseValues(t *testing.T) {
	cfg, err := Parse(strings.NewReader(`[storage]
tuple_group_size = 500
`), Defaults())
	require.NoError(t, err)
	assert.Equal(t, 500, cfg.Storage.TupleGroupSize)
	assert.Equal(t, 64, cfg.Validation.MaxTableNameLength, "an absent [validation] table must not zero out the base value")
	assert.Equal(t, 64, cfg.Validation.MaxColumnNameLength)
}

func TestLoadMissingPathYieldsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)

	cfg, err = Load("/nonexistent/path/to/litedb.toml")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestParseRejectsMalformedToml(t *testing.T) {
	_, err := Parse(strings.NewReader("not = [valid toml"), Defaults())
	assert.Error(t, err)
}
