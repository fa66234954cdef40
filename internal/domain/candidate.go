package domain

// Candidate is a recipient that passed every eligibility filter.
// Candidates are immutable once yielded by the resolver.
type Candidate struct {
	// ExternalID is the contact's identifier in the contact directory.
	ExternalID string

	// Phone is the normalized E.164 digit string (10-15 digits, no "+").
	Phone string

	// ExperienceLevel is the segment label the candidate was resolved
	// under, if any (e.g. "junior", "senior").
	ExperienceLevel string

	// ListID is the directory list the candidate belongs to, 0 if none.
	ListID int64
}

// CampaignKey is the composite identity sends are deduplicated by.
// Two sends under different keys for the same phone are independent.
type CampaignKey struct {
	// CampaignID names the campaign (e.g. "2026-08-backend-roles").
	CampaignID string

	// Template is the provider template variant resolved for the segment.
	Template string
}

// String renders the key in its canonical "campaignID:template" form.
func (k CampaignKey) String() string {
	return k.CampaignID + ":" + k.Template
}

// Zero reports whether the key carries no identity at all.
func (k CampaignKey) Zero() bool {
	return k.CampaignID == "" && k.Template == ""
}
