package cliconfig

import (
	"os"
	"strings"
)

// ApplyEnvConfig applies SENDWAVE_* environment variables to the Config.
// It respects flags that have been explicitly set (changed map).
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("env", os.Getenv("SENDWAVE_ENV"), &cfg.Env)

	s.setString("brevo-api-key", os.Getenv("SENDWAVE_BREVO_API_KEY"), &cfg.BrevoAPIKey)
	s.setString("category", os.Getenv("SENDWAVE_CATEGORY"), &cfg.CategoryFolder)
	s.setString("phone-attribute", os.Getenv("SENDWAVE_PHONE_ATTRIBUTE"), &cfg.PhoneAttribute)
	s.setStrings("fallback-phone-attributes", splitList(os.Getenv("SENDWAVE_FALLBACK_PHONE_ATTRIBUTES")), &cfg.FallbackPhoneAttributes)
	s.setString("opt-out-attribute", os.Getenv("SENDWAVE_OPT_OUT_ATTRIBUTE"), &cfg.OptOutAttribute)
	if err := s.setInt64FromString("list-id", os.Getenv("SENDWAVE_LIST_ID"), &cfg.ListID); err != nil {
		return err
	}

	s.setString("whatsapp-phone-number-id", os.Getenv("SENDWAVE_WHATSAPP_PHONE_NUMBER_ID"), &cfg.WhatsAppPhoneNumberID)
	s.setString("whatsapp-token", os.Getenv("SENDWAVE_WHATSAPP_TOKEN"), &cfg.WhatsAppToken)
	s.setString("whatsapp-api-version", os.Getenv("SENDWAVE_WHATSAPP_API_VERSION"), &cfg.WhatsAppAPIVersion)

	s.setString("template-default", os.Getenv("SENDWAVE_TEMPLATE_DEFAULT"), &cfg.TemplateDefault)
	s.setString("template-junior", os.Getenv("SENDWAVE_TEMPLATE_JUNIOR"), &cfg.TemplateJunior)
	s.setString("template-mid", os.Getenv("SENDWAVE_TEMPLATE_MID"), &cfg.TemplateMid)
	s.setString("template-senior", os.Getenv("SENDWAVE_TEMPLATE_SENIOR"), &cfg.TemplateSenior)
	s.setString("template-executive", os.Getenv("SENDWAVE_TEMPLATE_EXECUTIVE"), &cfg.TemplateExecutive)
	s.setString("language", os.Getenv("SENDWAVE_TEMPLATE_LANGUAGE"), &cfg.TemplateLanguage)
	s.setString("image-url", os.Getenv("SENDWAVE_HEADER_IMAGE_URL"), &cfg.HeaderImageURL)

	if err := s.setIntFromString("daily-limit", os.Getenv("SENDWAVE_DAILY_LIMIT"), &cfg.DailyLimit); err != nil {
		return err
	}
	if err := s.setIntFromString("max-retries", os.Getenv("SENDWAVE_MAX_RETRIES"), &cfg.MaxRetries); err != nil {
		return err
	}
	if err := s.setDuration("send-delay", os.Getenv("SENDWAVE_SEND_DELAY"), &cfg.SendDelay); err != nil {
		return err
	}
	if err := s.setDuration("backoff-base", os.Getenv("SENDWAVE_BACKOFF_BASE"), &cfg.BackoffBase); err != nil {
		return err
	}
	if err := s.setIntFromString("max-failures", os.Getenv("SENDWAVE_MAX_CONSECUTIVE_FAILURES"), &cfg.MaxConsecutiveFailures); err != nil {
		return err
	}
	if err := s.setIntFromString("page-size", os.Getenv("SENDWAVE_PAGE_SIZE"), &cfg.PageSize); err != nil {
		return err
	}
	if err := s.setIntFromString("max-pages", os.Getenv("SENDWAVE_MAX_PAGES"), &cfg.MaxPages); err != nil {
		return err
	}

	s.setString("ledger-path", os.Getenv("SENDWAVE_LEDGER_PATH"), &cfg.LedgerPath)
	s.setString("results-path", os.Getenv("SENDWAVE_RESULTS_PATH"), &cfg.ResultsPath)

	if err := s.setDuration("timeout", os.Getenv("SENDWAVE_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}
	s.setString("log-level", os.Getenv("SENDWAVE_LOG_LEVEL"), &cfg.LogLevel)

	s.setString("serve-addr", os.Getenv("SENDWAVE_SERVE_ADDR"), &cfg.ServeAddr)
	s.setString("cron", os.Getenv("SENDWAVE_CRON_SCHEDULE"), &cfg.CronSchedule)

	return nil
}

// splitList parses a comma-separated environment value into a slice,
// dropping empty entries.
func splitList(v string) []string {
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
