package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/saltline/sendwave/internal/domain"
	"github.com/saltline/sendwave/internal/ports"
)

// Resolver paging defaults.
const (
	DefaultPageSize = 100
	DefaultMaxPages = 50
)

// ResolverConfig contains configuration for candidate resolution.
type ResolverConfig struct {
	// PageSize is the directory page size. Zero means DefaultPageSize.
	PageSize int

	// MaxPages is the hard safety bound on pages scanned per resolution.
	// Zero means DefaultMaxPages.
	MaxPages int

	// PhoneAttribute is the contact attribute holding the phone number.
	PhoneAttribute string

	// FallbackPhoneAttributes are tried in order when PhoneAttribute is
	// absent or empty.
	FallbackPhoneAttributes []string

	// OptOutAttribute is the custom opt-out attribute; any truthy value
	// excludes the contact.
	OptOutAttribute string
}

// Resolver pages through the contact directory and yields candidates that
// pass every eligibility filter.
type Resolver struct {
	dir    ports.ContactDirectory
	ledger ports.Ledger
	cfg    ResolverConfig
	log    ports.Logger
}

// NewResolver creates an eligibility resolver.
func NewResolver(dir ports.ContactDirectory, ledger ports.Ledger, cfg ResolverConfig, log ports.Logger) *Resolver {
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.PhoneAttribute == "" {
		cfg.PhoneAttribute = "SMS"
	}
	if cfg.OptOutAttribute == "" {
		cfg.OptOutAttribute = "OPT_OUT"
	}
	return &Resolver{dir: dir, ledger: ledger, cfg: cfg, log: log}
}

// Resolve returns up to limit eligible candidates for the given campaign
// key. It scans directory pages until enough candidates are collected, the
// page bound is hit, or a short page signals end of data.
//
// Per-contact filter failures skip that contact and never abort the scan;
// a directory fetch error aborts resolution (fatal for the segment).
func (r *Resolver) Resolve(ctx context.Context, limit int, listID int64, key domain.CampaignKey, level string) ([]domain.Candidate, error) {
	if limit <= 0 {
		return nil, nil
	}

	var out []domain.Candidate
	offset := 0

	for pages := 0; len(out) < limit && pages < r.cfg.MaxPages; pages++ {
		page, err := r.dir.FetchPage(ctx, offset, r.cfg.PageSize, listID)
		if err != nil {
			return nil, fmt.Errorf("fetch contacts page %d: %w", pages+1, err)
		}
		if len(page.Contacts) == 0 {
			break
		}

		r.log.Debug("processing directory page",
			ports.Int("page", pages+1),
			ports.Int("contacts", len(page.Contacts)),
			ports.Int("offset", offset),
		)

		for _, contact := range page.Contacts {
			if cand, ok := r.admit(ctx, contact, listID, key, level); ok {
				out = append(out, cand)
				if len(out) >= limit {
					break
				}
			}
		}

		offset += r.cfg.PageSize
		if len(page.Contacts) < r.cfg.PageSize {
			break
		}
	}

	r.log.Info("resolved eligible candidates",
		ports.Int("count", len(out)),
		ports.Int64("list_id", listID),
		ports.String("campaign_key", key.String()),
	)
	return out, nil
}

// admit applies the eligibility filters to one contact, in order,
// short-circuiting on the first failure.
func (r *Resolver) admit(ctx context.Context, contact ports.Contact, listID int64, key domain.CampaignKey, level string) (domain.Candidate, bool) {
	id := strconv.FormatInt(contact.ID, 10)

	if listID > 0 && !containsID(contact.ListIDs, listID) {
		r.skip(id, "not subscribed to list")
		return domain.Candidate{}, false
	}

	if contact.EmailBlacklisted || contact.SMSBlacklisted {
		r.skip(id, "blacklisted")
		return domain.Candidate{}, false
	}

	if truthy(contact.Attributes[r.cfg.OptOutAttribute]) {
		r.skip(id, "custom opt-out")
		return domain.Candidate{}, false
	}

	raw := r.phoneOf(contact)
	if raw == "" {
		r.skip(id, "no phone attribute")
		return domain.Candidate{}, false
	}

	phone, err := domain.NormalizePhone(raw)
	if err != nil {
		r.skip(id, "invalid phone")
		return domain.Candidate{}, false
	}

	sent, err := r.ledger.HasSuccess(ctx, phone, key)
	if err != nil {
		// Fail open: an unreadable ledger must not stall the campaign,
		// at the cost of a possible duplicate.
		r.log.Warn("ledger lookup failed", ports.String("id", id), ports.Err(err))
	}
	if sent {
		r.skip(id, "already sent under this campaign key")
		return domain.Candidate{}, false
	}

	return domain.Candidate{
		ExternalID:      id,
		Phone:           phone,
		ExperienceLevel: level,
		ListID:          listID,
	}, true
}

func (r *Resolver) skip(id, reason string) {
	r.log.Debug("skipping contact", ports.String("id", id), ports.String("reason", reason))
}

// phoneOf extracts the raw phone value, trying the configured attribute
// first and then the fallbacks.
func (r *Resolver) phoneOf(contact ports.Contact) string {
	if v := attrString(contact.Attributes[r.cfg.PhoneAttribute]); v != "" {
		return v
	}
	for _, name := range r.cfg.FallbackPhoneAttributes {
		if v := attrString(contact.Attributes[name]); v != "" {
			return v
		}
	}
	return ""
}

// attrString coerces a directory attribute to a string. Directories return
// phone-like attributes as strings or JSON numbers.
func attrString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return ""
	}
}

// truthy interprets a directory attribute as a boolean flag.
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "true", "yes", "1":
			return true
		}
		return false
	case float64:
		return t != 0
	default:
		return false
	}
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
