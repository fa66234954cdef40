package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/saltline/sendwave/internal/domain"
	"github.com/saltline/sendwave/internal/ports"
)

// Segment is a named recipient slice (an experience-level list, or a single
// default segment when no segmentation is configured).
type Segment struct {
	Label  string
	ListID int64
}

// RunSpec describes one campaign run.
type RunSpec struct {
	// Segments to process, in order. Empty means one default segment.
	Segments []Segment

	// Limit caps successful sends across the whole run.
	Limit int

	// CampaignID names the campaign; required for live sends.
	CampaignID string

	// Variables substitute the template's body placeholders, in order
	// (e.g. job title, company, location, apply link).
	Variables []string
}

// SegmentReport aggregates outcomes for one segment.
type SegmentReport struct {
	Label    string
	Template string
	Success  int
	Failed   int
	Skipped  int
}

// RunReport aggregates outcomes for one run.
type RunReport struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration

	Success int
	Failed  int
	Skipped int

	// BreakerTripped is set when the consecutive-failure breaker halted
	// the run early.
	BreakerTripped bool

	// LimitReached is set when the global run limit stopped the run.
	LimitReached bool

	Segments []SegmentReport
}

// SegmentPlan is the resolved-but-unsent view of one segment, used by
// dry-run and simulate-send.
type SegmentPlan struct {
	Segment    Segment
	Template   string
	Key        domain.CampaignKey
	Candidates []domain.Candidate
}

// Orchestrator drives one campaign run: per segment it resolves the
// template and candidates, then gates, sends and records each candidate
// sequentially.
type Orchestrator struct {
	resolver  *Resolver
	admission *Admission
	attempter *Attempter
	ledger    ports.Ledger
	reporter  ports.ResultReporter
	templates TemplateResolver

	language string
	imageURL string
	log      ports.Logger
}

// NewOrchestrator wires the engine together. language and imageURL apply
// to every message of the run.
func NewOrchestrator(
	resolver *Resolver,
	admission *Admission,
	attempter *Attempter,
	ledger ports.Ledger,
	reporter ports.ResultReporter,
	templates TemplateResolver,
	language, imageURL string,
	log ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		resolver:  resolver,
		admission: admission,
		attempter: attempter,
		ledger:    ledger,
		reporter:  reporter,
		templates: templates,
		language:  language,
		imageURL:  imageURL,
		log:       log,
	}
}

// Plan resolves each segment's template, campaign key and eligible
// candidates without sending anything.
func (o *Orchestrator) Plan(ctx context.Context, spec RunSpec) ([]SegmentPlan, error) {
	var plans []SegmentPlan
	for _, seg := range segmentsOf(spec) {
		template := o.templates.Resolve(seg.Label)
		key := domain.CampaignKey{CampaignID: spec.CampaignID, Template: template}

		cands, err := o.resolver.Resolve(ctx, spec.Limit, seg.ListID, key, seg.Label)
		if err != nil {
			return nil, err
		}
		plans = append(plans, SegmentPlan{Segment: seg, Template: template, Key: key, Candidates: cands})
	}
	return plans, nil
}

// Run executes the campaign. Per-candidate failures are recorded and never
// abort the run; the returned error is non-nil only for startup-level
// configuration problems or context cancellation.
func (o *Orchestrator) Run(ctx context.Context, spec RunSpec) (RunReport, error) {
	report := RunReport{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
	}

	if spec.CampaignID == "" {
		return report, domain.ErrMissingCampaignID
	}

	o.log.Info("starting campaign run",
		ports.String("run_id", report.RunID),
		ports.String("campaign_id", spec.CampaignID),
		ports.Int("limit", spec.Limit),
	)

	for _, seg := range segmentsOf(spec) {
		if report.BreakerTripped || report.LimitReached {
			break
		}

		template := o.templates.Resolve(seg.Label)
		key := domain.CampaignKey{CampaignID: spec.CampaignID, Template: template}
		segReport := SegmentReport{Label: seg.Label, Template: template}

		remaining := spec.Limit - report.Success
		// Over-fetch so per-candidate validation failures don't starve
		// the segment.
		cands, err := o.resolver.Resolve(ctx, 2*remaining, seg.ListID, key, seg.Label)
		if err != nil {
			o.log.Error("segment resolution failed, skipping segment",
				ports.String("segment", seg.Label),
				ports.Err(err),
			)
			report.Segments = append(report.Segments, segReport)
			continue
		}

		if err := o.runSegment(ctx, spec, seg, key, cands, &report, &segReport); err != nil {
			report.Segments = append(report.Segments, segReport)
			report.Duration = time.Since(report.StartedAt)
			return report, err
		}
		report.Segments = append(report.Segments, segReport)
	}

	report.Duration = time.Since(report.StartedAt)
	o.log.Info("campaign run completed",
		ports.String("run_id", report.RunID),
		ports.Int("success", report.Success),
		ports.Int("failed", report.Failed),
		ports.Int("skipped", report.Skipped),
		ports.Bool("breaker_tripped", report.BreakerTripped),
		ports.Duration("duration", report.Duration),
	)
	return report, nil
}

// runSegment processes one segment's candidates sequentially.
func (o *Orchestrator) runSegment(
	ctx context.Context,
	spec RunSpec,
	seg Segment,
	key domain.CampaignKey,
	cands []domain.Candidate,
	report *RunReport,
	segReport *SegmentReport,
) error {
	for _, cand := range cands {
		if o.admission.ShouldStopDueToErrors() {
			o.log.Error("stopping due to consecutive failures",
				ports.Int("failures", o.admission.ConsecutiveFailures()),
			)
			report.BreakerTripped = true
			return nil
		}
		if report.Success >= spec.Limit {
			o.log.Info("run limit reached, stopping")
			report.LimitReached = true
			return nil
		}

		if !o.admission.CanSend(cand.ExternalID) {
			if o.admission.AtDailyLimit() {
				report.LimitReached = true
				return nil
			}
			report.Skipped++
			segReport.Skipped++
			continue
		}

		// Candidates arrive normalized, but the phone is re-checked at
		// the send boundary.
		phone, err := domain.NormalizePhone(cand.Phone)
		if err != nil {
			o.log.Warn("skipping candidate with invalid phone",
				ports.String("id", cand.ExternalID),
				ports.String("phone", domain.MaskPhone(cand.Phone)),
				ports.Err(err),
			)
			o.report(ctx, report.RunID, cand, key, ports.Result{
				Status: "skipped",
				Error:  "invalid phone: " + err.Error(),
			})
			report.Skipped++
			segReport.Skipped++
			continue
		}

		if err := o.admission.WaitForSlot(ctx); err != nil {
			return err
		}

		o.log.Info("sending",
			ports.String("id", cand.ExternalID),
			ports.String("phone", domain.MaskPhone(phone)),
			ports.String("template", key.Template),
		)

		res := o.attempter.Attempt(ctx, ports.TemplateMessage{
			To:             phone,
			Template:       key.Template,
			Language:       o.language,
			HeaderImageURL: o.imageURL,
			BodyVariables:  spec.Variables,
		})

		rec := domain.SendRecord{
			Phone:             phone,
			Key:               key,
			ExperienceLevel:   seg.Label,
			ListID:            seg.ListID,
			SentAt:            time.Now(),
			Outcome:           res.Outcome,
			ProviderMessageID: res.MessageID,
		}
		if res.Err != nil {
			rec.ErrorDetail = res.Err.Error()
		}
		if err := o.ledger.Upsert(ctx, rec); err != nil {
			// An unrecorded success risks a duplicate on the next run.
			o.log.Warn("ledger write failed, send history may be incomplete",
				ports.String("phone", domain.MaskPhone(phone)),
				ports.Err(err),
			)
		}

		if res.Outcome == domain.OutcomeSuccess {
			o.admission.RecordSuccess(cand.ExternalID)
			report.Success++
			segReport.Success++
			o.report(ctx, report.RunID, cand, key, ports.Result{
				Status:    "success",
				MessageID: res.MessageID,
				HTTPCode:  res.HTTPCode,
			})
			o.log.Info("sent",
				ports.String("id", cand.ExternalID),
				ports.String("message_id", res.MessageID),
			)
		} else {
			o.admission.RecordFailure()
			report.Failed++
			segReport.Failed++
			errText := ""
			if res.Err != nil {
				errText = res.Err.Error()
			}
			o.report(ctx, report.RunID, cand, key, ports.Result{
				Status:   "failed",
				Error:    errText,
				HTTPCode: res.HTTPCode,
			})
			o.log.Error("send failed",
				ports.String("id", cand.ExternalID),
				ports.Int("http_code", res.HTTPCode),
				ports.Err(res.Err),
			)
		}
	}
	return nil
}

// report appends one audit record, logging (but otherwise ignoring)
// reporter failures.
func (o *Orchestrator) report(ctx context.Context, runID string, cand domain.Candidate, key domain.CampaignKey, res ports.Result) {
	res.RunID = runID
	res.UserID = cand.ExternalID
	res.MaskedPhone = domain.MaskPhone(cand.Phone)
	res.Template = key.Template
	if err := o.reporter.Append(ctx, res); err != nil {
		o.log.Warn("result record write failed", ports.Err(err))
	}
}

// segmentsOf returns the run's segments, defaulting to a single unlabeled
// segment when none are configured.
func segmentsOf(spec RunSpec) []Segment {
	if len(spec.Segments) == 0 {
		return []Segment{{Label: "all"}}
	}
	return spec.Segments
}
