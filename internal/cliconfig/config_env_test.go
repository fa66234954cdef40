package cliconfig

import (
	"testing"
	"time"
)

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("SENDWAVE_ENV", "prod")
	t.Setenv("SENDWAVE_BREVO_API_KEY", "xkeysib-env")
	t.Setenv("SENDWAVE_LIST_ID", "42")
	t.Setenv("SENDWAVE_WHATSAPP_PHONE_NUMBER_ID", "1055512345")
	t.Setenv("SENDWAVE_WHATSAPP_TOKEN", "EAAGenv")
	t.Setenv("SENDWAVE_TEMPLATE_DEFAULT", "job_alert")
	t.Setenv("SENDWAVE_DAILY_LIMIT", "25")
	t.Setenv("SENDWAVE_SEND_DELAY", "3s")
	t.Setenv("SENDWAVE_FALLBACK_PHONE_ATTRIBUTES", "WHATSAPP, MOBILE")
	t.Setenv("SENDWAVE_LOG_LEVEL", "debug")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err != nil {
		t.Fatalf("ApplyEnvConfig() error = %v", err)
	}

	if cfg.Env != "prod" || cfg.BrevoAPIKey != "xkeysib-env" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.ListID != 42 {
		t.Errorf("ListID = %d, want 42", cfg.ListID)
	}
	if cfg.DailyLimit != 25 || cfg.SendDelay != 3*time.Second {
		t.Errorf("limit/delay = %d/%v", cfg.DailyLimit, cfg.SendDelay)
	}
	if len(cfg.FallbackPhoneAttributes) != 2 || cfg.FallbackPhoneAttributes[0] != "WHATSAPP" {
		t.Errorf("FallbackPhoneAttributes = %v", cfg.FallbackPhoneAttributes)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestApplyEnvConfig_FlagPrecedence(t *testing.T) {
	t.Setenv("SENDWAVE_TEMPLATE_DEFAULT", "from_env")
	t.Setenv("SENDWAVE_DAILY_LIMIT", "25")

	cfg := DefaultConfig()
	cfg.TemplateDefault = "from_flag"
	cfg.DailyLimit = 7
	changed := map[string]bool{"template-default": true, "daily-limit": true}

	if err := ApplyEnvConfig(&cfg, changed); err != nil {
		t.Fatalf("ApplyEnvConfig() error = %v", err)
	}
	if cfg.TemplateDefault != "from_flag" {
		t.Errorf("TemplateDefault = %q, want flag value", cfg.TemplateDefault)
	}
	if cfg.DailyLimit != 7 {
		t.Errorf("DailyLimit = %d, want flag value", cfg.DailyLimit)
	}
}

func TestApplyEnvConfig_BadValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad daily limit", "SENDWAVE_DAILY_LIMIT", "many"},
		{"bad list id", "SENDWAVE_LIST_ID", "first"},
		{"bad send delay", "SENDWAVE_SEND_DELAY", "soon"},
		{"bad timeout", "SENDWAVE_HTTP_TIMEOUT", "never"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			cfg := DefaultConfig()
			if err := ApplyEnvConfig(&cfg, map[string]bool{}); err == nil {
				t.Errorf("ApplyEnvConfig() error = nil, want parse error for %s", tt.key)
			}
		})
	}
}

func TestApplyEnvConfig_EmptyEnvLeavesDefaults(t *testing.T) {
	cfg := DefaultConfig()
	want := cfg
	if err := ApplyEnvConfig(&cfg, map[string]bool{}); err != nil {
		t.Fatalf("ApplyEnvConfig() error = %v", err)
	}
	if cfg.PageSize != want.PageSize || cfg.Env != want.Env || cfg.SendDelay != want.SendDelay {
		t.Errorf("cfg changed with no env set: %+v", cfg)
	}
}
