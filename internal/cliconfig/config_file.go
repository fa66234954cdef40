package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Env string `toml:"env"`

	BrevoAPIKey             string   `toml:"brevo_api_key"`
	ListID                  int64    `toml:"list_id"`
	CategoryFolder          string   `toml:"category_folder"`
	PhoneAttribute          string   `toml:"phone_attribute"`
	FallbackPhoneAttributes []string `toml:"fallback_phone_attributes"`
	OptOutAttribute         string   `toml:"opt_out_attribute"`

	WhatsAppPhoneNumberID string `toml:"whatsapp_phone_number_id"`
	WhatsAppToken         string `toml:"whatsapp_token"`
	WhatsAppAPIVersion    string `toml:"whatsapp_api_version"`

	TemplateDefault   string `toml:"template_default"`
	TemplateJunior    string `toml:"template_junior"`
	TemplateMid       string `toml:"template_mid"`
	TemplateSenior    string `toml:"template_senior"`
	TemplateExecutive string `toml:"template_executive"`
	TemplateLanguage  string `toml:"template_language"`
	HeaderImageURL    string `toml:"header_image_url"`

	DailyLimit             *int   `toml:"daily_limit"`
	SendDelay              string `toml:"send_delay"`
	MaxRetries             *int   `toml:"max_retries"`
	BackoffBase            string `toml:"backoff_base"`
	MaxConsecutiveFailures int    `toml:"max_consecutive_failures"`
	PageSize               int    `toml:"page_size"`
	MaxPages               int    `toml:"max_pages"`

	LedgerPath  string `toml:"ledger_path"`
	ResultsPath string `toml:"results_path"`

	HTTPTimeout string `toml:"http_timeout"`
	LogLevel    string `toml:"log_level"`

	ServeAddr    string `toml:"serve_addr"`
	CronSchedule string `toml:"cron_schedule"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.sendwave/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if dir := DefaultDataDir(); dir != "" {
		return filepath.Join(dir, "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("env", fc.Env, &cfg.Env)

	s.setString("brevo-api-key", fc.BrevoAPIKey, &cfg.BrevoAPIKey)
	s.setString("category", fc.CategoryFolder, &cfg.CategoryFolder)
	s.setString("phone-attribute", fc.PhoneAttribute, &cfg.PhoneAttribute)
	s.setStrings("fallback-phone-attributes", fc.FallbackPhoneAttributes, &cfg.FallbackPhoneAttributes)
	s.setString("opt-out-attribute", fc.OptOutAttribute, &cfg.OptOutAttribute)
	if fc.ListID > 0 && !changed["list-id"] {
		cfg.ListID = fc.ListID
	}

	s.setString("whatsapp-phone-number-id", fc.WhatsAppPhoneNumberID, &cfg.WhatsAppPhoneNumberID)
	s.setString("whatsapp-token", fc.WhatsAppToken, &cfg.WhatsAppToken)
	s.setString("whatsapp-api-version", fc.WhatsAppAPIVersion, &cfg.WhatsAppAPIVersion)

	s.setString("template-default", fc.TemplateDefault, &cfg.TemplateDefault)
	s.setString("template-junior", fc.TemplateJunior, &cfg.TemplateJunior)
	s.setString("template-mid", fc.TemplateMid, &cfg.TemplateMid)
	s.setString("template-senior", fc.TemplateSenior, &cfg.TemplateSenior)
	s.setString("template-executive", fc.TemplateExecutive, &cfg.TemplateExecutive)
	s.setString("language", fc.TemplateLanguage, &cfg.TemplateLanguage)
	s.setString("image-url", fc.HeaderImageURL, &cfg.HeaderImageURL)

	s.setIntPtr("daily-limit", fc.DailyLimit, &cfg.DailyLimit)
	s.setIntPtr("max-retries", fc.MaxRetries, &cfg.MaxRetries)
	if err := s.setDuration("send-delay", fc.SendDelay, &cfg.SendDelay); err != nil {
		return err
	}
	if err := s.setDuration("backoff-base", fc.BackoffBase, &cfg.BackoffBase); err != nil {
		return err
	}
	s.setInt("max-failures", fc.MaxConsecutiveFailures, &cfg.MaxConsecutiveFailures)
	s.setInt("page-size", fc.PageSize, &cfg.PageSize)
	s.setInt("max-pages", fc.MaxPages, &cfg.MaxPages)

	s.setString("ledger-path", fc.LedgerPath, &cfg.LedgerPath)
	s.setString("results-path", fc.ResultsPath, &cfg.ResultsPath)

	if err := s.setDuration("timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)

	s.setString("serve-addr", fc.ServeAddr, &cfg.ServeAddr)
	s.setString("cron", fc.CronSchedule, &cfg.CronSchedule)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
