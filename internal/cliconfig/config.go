package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Environments the engine may run in. Live sends in EnvProd require an
// explicit confirmation flag.
const (
	EnvTest = "test"
	EnvProd = "prod"
)

// DefaultWhatsAppAPIVersion is the Graph API version used when none is
// configured.
const DefaultWhatsAppAPIVersion = "v21.0"

// Config holds CLI configuration for sendwave.
type Config struct {
	Env string

	BrevoAPIKey             string
	ListID                  int64
	CategoryFolder          string
	PhoneAttribute          string
	FallbackPhoneAttributes []string
	OptOutAttribute         string

	WhatsAppPhoneNumberID string
	WhatsAppToken         string
	WhatsAppAPIVersion    string

	TemplateDefault   string
	TemplateJunior    string
	TemplateMid       string
	TemplateSenior    string
	TemplateExecutive string
	TemplateLanguage  string
	HeaderImageURL    string

	DailyLimit             int
	SendDelay              time.Duration
	MaxRetries             int
	BackoffBase            time.Duration
	MaxConsecutiveFailures int
	PageSize               int
	MaxPages               int

	LedgerPath  string
	ResultsPath string

	HTTPTimeout time.Duration
	LogLevel    string

	ServeAddr    string
	CronSchedule string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Env:                     EnvTest,
		PhoneAttribute:          "SMS",
		FallbackPhoneAttributes: []string{"WHATSAPP", "MOBILE"},
		OptOutAttribute:         "OPT_OUT",
		WhatsAppAPIVersion:      DefaultWhatsAppAPIVersion,
		TemplateLanguage:        "en_US",
		DailyLimit:              100,
		SendDelay:               5 * time.Second,
		MaxRetries:              2,
		BackoffBase:             5 * time.Second,
		MaxConsecutiveFailures:  3,
		PageSize:                100,
		MaxPages:                50,
		HTTPTimeout:             15 * time.Second,
		LogLevel:                "info",
		ServeAddr:               ":8090",
		BrevoAPIKey:             os.Getenv("SENDWAVE_BREVO_API_KEY"),
		WhatsAppToken:           os.Getenv("SENDWAVE_WHATSAPP_TOKEN"),
	}
}

// DefaultDataDir returns ~/.sendwave, or "" when the home directory is not
// accessible.
func DefaultDataDir() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".sendwave")
	}
	return ""
}

// placeholder reports whether a credential still carries an unfilled
// boilerplate value.
func placeholder(v string) bool {
	lower := strings.ToLower(v)
	return strings.Contains(lower, "your_") ||
		strings.Contains(lower, "your-") ||
		strings.Contains(lower, "changeme") ||
		strings.Contains(lower, "<") // e.g. "<token>"
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	if c.Env != EnvTest && c.Env != EnvProd {
		return fmt.Errorf("env must be %q or %q, got %q", EnvTest, EnvProd, c.Env)
	}

	credentials := map[string]string{
		"brevo-api-key":            c.BrevoAPIKey,
		"whatsapp-phone-number-id": c.WhatsAppPhoneNumberID,
		"whatsapp-token":           c.WhatsAppToken,
	}
	for name, v := range credentials {
		if v == "" {
			return fmt.Errorf("%s is required", name)
		}
		if placeholder(v) {
			return fmt.Errorf("%s looks like a placeholder value", name)
		}
	}

	if c.TemplateDefault == "" {
		return fmt.Errorf("template-default is required")
	}
	if c.WhatsAppAPIVersion == "" {
		c.WhatsAppAPIVersion = DefaultWhatsAppAPIVersion
	}
	if c.TemplateLanguage == "" {
		c.TemplateLanguage = "en_US"
	}

	if c.DailyLimit < 0 {
		return fmt.Errorf("daily limit must not be negative")
	}
	if c.SendDelay < 0 {
		return fmt.Errorf("send delay must not be negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative")
	}
	if c.BackoffBase <= 0 {
		return fmt.Errorf("backoff base must be positive")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive")
	}

	if c.LedgerPath == "" || c.ResultsPath == "" {
		dataDir := DefaultDataDir()
		if dataDir == "" {
			return fmt.Errorf("ledger-path and results-path are required when no home directory is available")
		}
		if c.LedgerPath == "" {
			c.LedgerPath = filepath.Join(dataDir, "send_history.db")
		}
		if c.ResultsPath == "" {
			c.ResultsPath = filepath.Join(dataDir, "results.jsonl")
		}
	}

	c.LogLevel = strings.ToLower(c.LogLevel)
	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setStrings sets a string slice if not empty and flag not changed.
func (s *configSetter) setStrings(flag string, value []string, dst *[]string) {
	if len(value) == 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setIntPtr sets an int value from a pointer if not nil and flag not
// changed. Used for fields where zero is a meaningful setting.
func (s *configSetter) setIntPtr(flag string, value *int, dst *int) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i < 0 {
		return nil
	}
	*dst = i
	return nil
}

// setInt64FromString parses a string to int64 and sets the destination if valid.
func (s *configSetter) setInt64FromString(flag, value string, dst *int64) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}
