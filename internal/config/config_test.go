package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")

	cfg, err := Load("testdata/absent.env")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "dairy_portal", cfg.MongoDB.DBName)
	assert.Equal(t, "0 6 * * *", cfg.Reporting.CronSchedule)
	assert.False(t, cfg.Sheets.Enabled())
}

func TestValidateRejectsHalfSheetsConfig(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/creds.json")
	t.Setenv("GOOGLE_SHEET_SUMMARY_ID", "")

	_, err := Load("testdata/absent.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be set together")
}

func TestValidateRequiresFarmIDForPublication(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/creds.json")
	t.Setenv("GOOGLE_SHEET_SUMMARY_ID", "sheet-1")
	t.Setenv("FARM_ID", "")

	_, err := Load("testdata/absent.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FARM_ID")
}

func TestValidateAcceptsFullSheetsConfig(t *testing.T) {
	t.Setenv("GOOGLE_SHEETS_CREDENTIALS_PATH", "/tmp/creds.json")
	t.Setenv("GOOGLE_SHEET_SUMMARY_ID", "sheet-1")
	t.Setenv("FARM_ID", "farm-1")

	cfg, err := Load("testdata/absent.env")
	require.NoError(t, err)
	assert.True(t, cfg.Sheets.Enabled())
	assert.Equal(t, "farm-1", cfg.Reporting.FarmID)
}
