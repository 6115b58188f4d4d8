package config

// AppConfig holds runtime startup configuration loaded from YAML plus
// environment overrides.
type AppConfig struct {
	Port           int            `yaml:"port"`
	Env            string         `yaml:"env"` // "development" | "production"
	RedisURL       string         `yaml:"redis_url"`
	AllowedOrigins []string       `yaml:"allowed_origins"`
	Sheets         SheetsConfig   `yaml:"sheets"`
	Forms          FormsConfig    `yaml:"forms"`
	Workshop       WorkshopConfig `yaml:"workshop"`
	AI             AIConfig       `yaml:"ai"`
}

// SheetsConfig points at the spreadsheet that backs the three Google Forms.
type SheetsConfig struct {
	SpreadsheetID string `yaml:"spreadsheet_id"`
	Form0Tab      string `yaml:"form0_tab"`
	Form1Tab      string `yaml:"form1_tab"`
	Form2Tab      string `yaml:"form2_tab"`
	ExportTab     string `yaml:"export_tab"`
	// Service-account credentials: inline JSON wins over the file path.
	CredentialsJSON string `yaml:"credentials_json"`
	CredentialsFile string `yaml:"credentials_file"`
}

// FormsConfig carries the participant-facing Google Form URLs (QR targets).
type FormsConfig struct {
	Form1URL string `yaml:"form1_url"`
	Form2URL string `yaml:"form2_url"`
}

// WorkshopConfig carries facilitator-provided context for the prompts.
type WorkshopConfig struct {
	// TextColumn is the Form 1 header of the free-text insecurity answer.
	TextColumn     string `yaml:"text_column"`
	GeneralContext string `yaml:"general_context"`
	Form0Context   string `yaml:"form0_context"`
}

// AIConfig mirrors the provider list shape used for completion calls.
type AIConfig struct {
	Providers      []AIProvider `yaml:"providers"`
	TimeoutSeconds int          `yaml:"timeout_seconds"`
}

// AIProvider describes one completion backend.
type AIProvider struct {
	ID           string `yaml:"id"`
	Type         string `yaml:"type"` // "openai" | "anthropic" | "openai-compatible"
	APIKey       string `yaml:"api_key"`
	Endpoint     string `yaml:"endpoint"`
	DefaultModel string `yaml:"default_model"`
	Enabled      bool   `yaml:"enabled"`
}
