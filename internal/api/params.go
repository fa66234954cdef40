package api

import (
	"github.com/saltline/sendwave/internal/app"
	"github.com/saltline/sendwave/internal/cliconfig"
)

// EngineParams maps the CLI configuration onto the engine's tunables.
// cmd/sendwave and the API handlers share this mapping so a run behaves
// the same regardless of the surface that started it.
func EngineParams(cfg cliconfig.Config) app.EngineParams {
	return app.EngineParams{
		Resolver: app.ResolverConfig{
			PageSize:                cfg.PageSize,
			MaxPages:                cfg.MaxPages,
			PhoneAttribute:          cfg.PhoneAttribute,
			FallbackPhoneAttributes: cfg.FallbackPhoneAttributes,
			OptOutAttribute:         cfg.OptOutAttribute,
		},
		Admission: app.AdmissionConfig{
			DailyLimit:             cfg.DailyLimit,
			MinInterval:            cfg.SendDelay,
			MaxConsecutiveFailures: cfg.MaxConsecutiveFailures,
		},
		MaxRetries:  cfg.MaxRetries,
		BackoffBase: cfg.BackoffBase,
		Templates: app.TemplateResolver{
			Default:   cfg.TemplateDefault,
			Junior:    cfg.TemplateJunior,
			Mid:       cfg.TemplateMid,
			Senior:    cfg.TemplateSenior,
			Executive: cfg.TemplateExecutive,
		},
		Language:       cfg.TemplateLanguage,
		HeaderImageURL: cfg.HeaderImageURL,
	}
}
