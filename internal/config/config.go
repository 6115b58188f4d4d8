package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is where the server looks for its YAML config when no
// -config flag is given.
const DefaultConfigPath = "config.yml"

const (
	defaultPort      = 8080
	defaultForm0Tab  = "Formulario 0"
	defaultForm1Tab  = "Formulario 1"
	defaultForm2Tab  = "Formulario 2"
	defaultExportTab = "Normalizado"
	// Matches the sheet header convention of the deployed forms.
	defaultTextColumn = "columna_x"
	defaultAITimeout  = 60
)

// Load reads the YAML config file (missing file is fine, env can carry
// everything), applies environment overrides and validates presence of the
// required settings. Validation failures are fatal at startup by contract.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// env-only configuration
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsDev reports whether the app runs in development mode.
func (c *AppConfig) IsDev() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), "development") ||
		strings.EqualFold(strings.TrimSpace(c.Env), "dev")
}

// applyEnv keeps the original deployment's variable names so existing
// secrets carry over unchanged.
func applyEnv(cfg *AppConfig) {
	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.RedisURL, "REDIS_URL")
	setString(&cfg.Sheets.SpreadsheetID, "SHEET_ID", "FORMS_SHEET_ID")
	setString(&cfg.Sheets.Form0Tab, "FORM0_TAB")
	setString(&cfg.Sheets.Form1Tab, "FORM1_TAB", "WORKSHEET_TITLE")
	setString(&cfg.Sheets.Form2Tab, "FORM2_TAB")
	setString(&cfg.Sheets.ExportTab, "EXPORT_TAB")
	setString(&cfg.Sheets.CredentialsJSON, "GOOGLE_SERVICE_ACCOUNT")
	setString(&cfg.Sheets.CredentialsFile, "GOOGLE_SERVICE_ACCOUNT_FILE")
	setString(&cfg.Forms.Form1URL, "GOOGLE_FORM_URL")
	setString(&cfg.Forms.Form2URL, "GOOGLE_FORM2_URL")
	setString(&cfg.Workshop.TextColumn, "TEXT_COLUMN")
	setString(&cfg.Workshop.GeneralContext, "CONTEXTO_GENERAL")
	setString(&cfg.Workshop.Form0Context, "CONTEXTO_FORM0")

	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Port = port
		}
	}

	// OPENAI_API_KEY alone is a complete AI configuration.
	if key := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); key != "" {
		found := false
		for i := range cfg.AI.Providers {
			if normalizeProviderType(cfg.AI.Providers[i].Type) == "openai" {
				if strings.TrimSpace(cfg.AI.Providers[i].APIKey) == "" {
					cfg.AI.Providers[i].APIKey = key
				}
				found = true
			}
		}
		if !found {
			cfg.AI.Providers = append(cfg.AI.Providers, AIProvider{
				ID:      "openai-env",
				Type:    "openai",
				APIKey:  key,
				Enabled: true,
			})
		}
	}
	if key := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); key != "" {
		for i := range cfg.AI.Providers {
			if normalizeProviderType(cfg.AI.Providers[i].Type) == "anthropic" &&
				strings.TrimSpace(cfg.AI.Providers[i].APIKey) == "" {
				cfg.AI.Providers[i].APIKey = key
			}
		}
	}
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Port <= 0 {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = "production"
	}
	if cfg.Sheets.Form0Tab == "" {
		cfg.Sheets.Form0Tab = defaultForm0Tab
	}
	if cfg.Sheets.Form1Tab == "" {
		cfg.Sheets.Form1Tab = defaultForm1Tab
	}
	if cfg.Sheets.Form2Tab == "" {
		cfg.Sheets.Form2Tab = defaultForm2Tab
	}
	if cfg.Sheets.ExportTab == "" {
		cfg.Sheets.ExportTab = defaultExportTab
	}
	if cfg.Workshop.TextColumn == "" {
		cfg.Workshop.TextColumn = defaultTextColumn
	}
	if cfg.AI.TimeoutSeconds <= 0 {
		cfg.AI.TimeoutSeconds = defaultAITimeout
	}
}

// Validate performs the startup presence checks. It reports every missing
// setting at once so the facilitator fixes them in one pass.
func Validate(cfg *AppConfig) error {
	var missing []string
	if strings.TrimSpace(cfg.Sheets.SpreadsheetID) == "" {
		missing = append(missing, "sheets.spreadsheet_id (SHEET_ID)")
	}
	if strings.TrimSpace(cfg.Sheets.CredentialsJSON) == "" &&
		strings.TrimSpace(cfg.Sheets.CredentialsFile) == "" {
		missing = append(missing, "sheets.credentials_json (GOOGLE_SERVICE_ACCOUNT)")
	}
	if EnabledProvider(cfg.AI) == nil {
		missing = append(missing, "ai.providers (OPENAI_API_KEY)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// ResolveCredentials returns the service-account JSON, reading the configured
// file when no inline value is present.
func (c *SheetsConfig) ResolveCredentials() ([]byte, error) {
	if v := strings.TrimSpace(c.CredentialsJSON); v != "" {
		return []byte(v), nil
	}
	if c.CredentialsFile != "" {
		raw, err := os.ReadFile(c.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return raw, nil
	}
	return nil, errors.New("no service account credentials configured")
}

// EnabledProvider returns the first enabled provider with an API key, or nil.
func EnabledProvider(ai AIConfig) *AIProvider {
	for i := range ai.Providers {
		p := &ai.Providers[i]
		if p.Enabled && strings.TrimSpace(p.APIKey) != "" {
			return p
		}
	}
	return nil
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}

func setString(dst *string, envNames ...string) {
	for _, name := range envNames {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dst = v
			return
		}
	}
}
