package localink

import "time"

// maxReportErrors bounds the error list carried by a report.
const maxReportErrors = 50

// ItemError records one (item, locale) pair that could not be synchronized.
type ItemError struct {
	ItemID string `json:"item_id"`
	Locale string `json:"locale"`
	Error  string `json:"error"`
}

// Report is the result contract of a sync run: counts plus a bounded list of
// failures and the identity flags that need human review.
type Report struct {
	ContentType string      `json:"content_type"`
	Created     int         `json:"created"`
	Updated     int         `json:"updated"`
	Skipped     int         `json:"skipped"`
	Errors      []ItemError `json:"errors,omitempty"`
	// TruncatedErrors counts failures dropped beyond maxReportErrors.
	TruncatedErrors int `json:"truncated_errors,omitempty"`
	// Unlinkable lists item ids synchronized as singleton families.
	Unlinkable []string `json:"unlinkable,omitempty"`
	// Collisions lists group keys whose membership was resolved
	// heuristically and should be reviewed.
	Collisions []string  `json:"collisions,omitempty"`
	DryRun     bool      `json:"dry_run,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

func (r *Report) addError(itemID, locale string, err error) {
	if len(r.Errors) >= maxReportErrors {
		r.TruncatedErrors++
		return
	}
	r.Errors = append(r.Errors, ItemError{ItemID: itemID, Locale: locale, Error: err.Error()})
}

func (r *Report) addUnlinkable(itemID string) {
	for _, id := range r.Unlinkable {
		if id == itemID {
			return
		}
	}
	r.Unlinkable = append(r.Unlinkable, itemID)
}

func (r *Report) addCollision(groupKey string) {
	for _, key := range r.Collisions {
		if key == groupKey {
			return
		}
	}
	r.Collisions = append(r.Collisions, groupKey)
}

// HasFailures reports whether any pair failed or was flagged for review.
func (r *Report) HasFailures() bool {
	return len(r.Errors) > 0 || r.TruncatedErrors > 0
}
