package cliconfig

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := DefaultConfig()
	cfg.BrevoAPIKey = "xkeysib-abc123"
	cfg.WhatsAppPhoneNumberID = "1055512345"
	cfg.WhatsAppToken = "EAAGtoken"
	cfg.TemplateDefault = "job_alert"
	cfg.LedgerPath = "/tmp/sendwave/send_history.db"
	cfg.ResultsPath = "/tmp/sendwave/results.jsonl"
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "bad env",
			mutate:  func(c *Config) { c.Env = "staging" },
			wantErr: "env must be",
		},
		{
			name:    "missing brevo key",
			mutate:  func(c *Config) { c.BrevoAPIKey = "" },
			wantErr: "brevo-api-key is required",
		},
		{
			name:    "placeholder token",
			mutate:  func(c *Config) { c.WhatsAppToken = "YOUR_WHATSAPP_TOKEN" },
			wantErr: "placeholder",
		},
		{
			name:    "missing default template",
			mutate:  func(c *Config) { c.TemplateDefault = "" },
			wantErr: "template-default is required",
		},
		{
			name:    "negative daily limit",
			mutate:  func(c *Config) { c.DailyLimit = -1 },
			wantErr: "daily limit",
		},
		{
			name:    "negative max retries",
			mutate:  func(c *Config) { c.MaxRetries = -1 },
			wantErr: "max retries",
		},
		{
			name:    "zero backoff base",
			mutate:  func(c *Config) { c.BackoffBase = 0 },
			wantErr: "backoff base",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.LogLevel = "trace" },
			wantErr: "log level",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_NormalizesEnvAndLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Env = " PROD "
	cfg.LogLevel = "DEBUG"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Env != EnvProd {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvProd)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestValidate_DerivesDataPaths(t *testing.T) {
	cfg := validConfig()
	cfg.LedgerPath = ""
	cfg.ResultsPath = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.LedgerPath == "" || !strings.Contains(cfg.LedgerPath, ".sendwave") {
		t.Errorf("LedgerPath = %q, want derived under ~/.sendwave", cfg.LedgerPath)
	}
	if cfg.ResultsPath == "" || !strings.Contains(cfg.ResultsPath, ".sendwave") {
		t.Errorf("ResultsPath = %q, want derived under ~/.sendwave", cfg.ResultsPath)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Env != EnvTest {
		t.Errorf("Env = %q, want %q", cfg.Env, EnvTest)
	}
	if cfg.PageSize != 100 || cfg.MaxPages != 50 {
		t.Errorf("paging defaults = %d/%d, want 100/50", cfg.PageSize, cfg.MaxPages)
	}
	if cfg.MaxConsecutiveFailures != 3 {
		t.Errorf("MaxConsecutiveFailures = %d, want 3", cfg.MaxConsecutiveFailures)
	}
	if cfg.BackoffBase != 5*time.Second {
		t.Errorf("BackoffBase = %v, want 5s", cfg.BackoffBase)
	}
	if cfg.PhoneAttribute != "SMS" || cfg.OptOutAttribute != "OPT_OUT" {
		t.Errorf("attributes = %q/%q", cfg.PhoneAttribute, cfg.OptOutAttribute)
	}
}

func TestConfigSetter_RespectsChangedFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TemplateDefault = "from_flag"
	s := newConfigSetter(map[string]bool{"template-default": true})

	s.setString("template-default", "from_file", &cfg.TemplateDefault)
	if cfg.TemplateDefault != "from_flag" {
		t.Errorf("TemplateDefault = %q, want flag value preserved", cfg.TemplateDefault)
	}

	s.setString("template-senior", "tpl_senior", &cfg.TemplateSenior)
	if cfg.TemplateSenior != "tpl_senior" {
		t.Errorf("TemplateSenior = %q, want file value applied", cfg.TemplateSenior)
	}
}

func TestConfigSetter_ZeroThroughPointer(t *testing.T) {
	cfg := DefaultConfig()
	zero := 0
	s := newConfigSetter(map[string]bool{})

	s.setIntPtr("max-retries", &zero, &cfg.MaxRetries)
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0 applied from pointer", cfg.MaxRetries)
	}

	s.setIntPtr("daily-limit", nil, &cfg.DailyLimit)
	if cfg.DailyLimit != 100 {
		t.Errorf("DailyLimit = %d, want default untouched", cfg.DailyLimit)
	}
}
