package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

// clearEnv blanks every variable Load consults so host settings cannot leak
// into the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"APP_ENV", "PORT", "REDIS_URL", "SHEET_ID", "FORMS_SHEET_ID",
		"FORM0_TAB", "FORM1_TAB", "FORM2_TAB", "EXPORT_TAB", "WORKSHEET_TITLE",
		"GOOGLE_SERVICE_ACCOUNT", "GOOGLE_SERVICE_ACCOUNT_FILE",
		"GOOGLE_FORM_URL", "GOOGLE_FORM2_URL", "TEXT_COLUMN",
		"CONTEXTO_GENERAL", "CONTEXTO_FORM0", "OPENAI_API_KEY", "ANTHROPIC_API_KEY",
	} {
		t.Setenv(name, "")
	}
}

func TestLoadAppliesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
sheets:
  spreadsheet_id: sheet-123
  credentials_json: '{"type":"service_account"}'
ai:
  providers:
    - id: primary
      type: openai
      api_key: sk-test
      enabled: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "Formulario 0", cfg.Sheets.Form0Tab)
	assert.Equal(t, "Formulario 1", cfg.Sheets.Form1Tab)
	assert.Equal(t, "Formulario 2", cfg.Sheets.Form2Tab)
	assert.Equal(t, "Normalizado", cfg.Sheets.ExportTab)
	assert.Equal(t, "columna_x", cfg.Workshop.TextColumn)
	assert.Equal(t, 60, cfg.AI.TimeoutSeconds)
	assert.False(t, cfg.IsDev())
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHEET_ID", "env-sheet")
	t.Setenv("GOOGLE_SERVICE_ACCOUNT", `{"type":"service_account"}`)
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("FORM1_TAB", "Respuestas 1")
	t.Setenv("TEXT_COLUMN", "¿Qué te hace sentir inseguridad?")
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "development")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "env-sheet", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "Respuestas 1", cfg.Sheets.Form1Tab)
	assert.Equal(t, "¿Qué te hace sentir inseguridad?", cfg.Workshop.TextColumn)
	assert.Equal(t, 9090, cfg.Port)
	assert.True(t, cfg.IsDev())

	p := EnabledProvider(cfg.AI)
	require.NotNil(t, p)
	assert.Equal(t, "sk-env", p.APIKey)
	assert.Equal(t, "openai", p.Type)
}

func TestLoadReportsAllMissingSettings(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheets.spreadsheet_id")
	assert.Contains(t, err.Error(), "credentials_json")
	assert.Contains(t, err.Error(), "ai.providers")
}

func TestEnabledProviderSkipsDisabledAndKeyless(t *testing.T) {
	ai := AIConfig{Providers: []AIProvider{
		{ID: "off", Type: "openai", APIKey: "sk", Enabled: false},
		{ID: "nokey", Type: "anthropic", Enabled: true},
		{ID: "ok", Type: "anthropic", APIKey: "ak", Enabled: true},
	}}
	p := EnabledProvider(ai)
	require.NotNil(t, p)
	assert.Equal(t, "ok", p.ID)
}

func TestResolveCredentialsPrefersInline(t *testing.T) {
	s := SheetsConfig{CredentialsJSON: `{"a":1}`, CredentialsFile: "/nonexistent"}
	raw, err := s.ResolveCredentials()
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(raw))

	s = SheetsConfig{}
	_, err = s.ResolveCredentials()
	assert.Error(t, err)
}
