package app

import (
	"time"

	"github.com/saltline/sendwave/internal/ports"
)

// EngineParams bundles the tunables needed to assemble an Orchestrator.
type EngineParams struct {
	Resolver  ResolverConfig
	Admission AdmissionConfig

	// MaxRetries is the number of additional delivery attempts after the
	// first; negative selects the default.
	MaxRetries  int
	BackoffBase time.Duration

	Templates      TemplateResolver
	Language       string
	HeaderImageURL string
}

// NewEngine assembles an Orchestrator with fresh per-run admission state.
// Call it once per campaign run.
func NewEngine(
	dir ports.ContactDirectory,
	sender ports.TemplateSender,
	ledger ports.Ledger,
	reporter ports.ResultReporter,
	params EngineParams,
	log ports.Logger,
) *Orchestrator {
	return NewOrchestrator(
		NewResolver(dir, ledger, params.Resolver, log),
		NewAdmission(params.Admission, log),
		NewAttempter(sender, params.MaxRetries, params.BackoffBase, log),
		ledger,
		reporter,
		params.Templates,
		params.Language,
		params.HeaderImageURL,
		log,
	)
}
