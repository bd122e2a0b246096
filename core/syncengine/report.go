package syncengine

import "time"

// Run statuses.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

// ItemFailure describes an item that could not be synchronized.
type ItemFailure struct {
	// ExternalID is the catalog id, 0 when the item had none.
	ExternalID int    `json:"external_id"`
	Reason     string `json:"reason"`
	// Category is the errors.Classify label of the cause.
	Category string `json:"category"`
}

// PageFailure describes a page whose every attempt failed.
type PageFailure struct {
	Page   int    `json:"page"`
	Reason string `json:"reason"`
}

// Report summarizes one sync run.
type Report struct {
	RunID             string        `json:"run_id"`
	Kind              Kind          `json:"kind"`
	Status            string        `json:"status"`
	Attempted         int           `json:"attempted"`
	Created           int           `json:"created"`
	Updated           int           `json:"updated"`
	Failed            int           `json:"failed"`
	Failures          []ItemFailure `json:"failures"`
	Warnings          []string      `json:"warnings"`
	PagesTotal        int           `json:"pages_total"`
	PageFailures      []PageFailure `json:"page_failures"`
	CategoriesCreated int           `json:"categories_created"`
	AssetsCreated     int           `json:"assets_created"`
	// Error is set when the run stopped before processing items.
	Error         string        `json:"error,omitempty"`
	StartedAt     time.Time     `json:"started_at"`
	FinishedAt    time.Time     `json:"finished_at"`
	Duration      time.Duration `json:"-"`
	ExecutionTime string        `json:"execution_time"`
}

func newReport(runID string, kind Kind, started time.Time) *Report {
	return &Report{
		RunID:        runID,
		Kind:         kind,
		Failures:     []ItemFailure{},
		Warnings:     []string{},
		PageFailures: []PageFailure{},
		StartedAt:    started,
	}
}

// ComputeStatus derives the run status from the counters.
func (r *Report) ComputeStatus() string {
	switch {
	case r.Error != "":
		return StatusFailed
	case r.Failed == 0 && len(r.PageFailures) == 0:
		return StatusSuccess
	case r.Created+r.Updated == 0:
		return StatusFailed
	default:
		return StatusPartial
	}
}

func (r *Report) finish(now time.Time) {
	r.FinishedAt = now
	r.Duration = now.Sub(r.StartedAt)
	r.ExecutionTime = r.Duration.Round(time.Millisecond).String()
	r.Status = r.ComputeStatus()
}
