package entity

import "math"

// Stage is a lead's position in the sales-to-delivery pipeline.
type Stage string

const (
	StagePending       Stage = "pending"
	StagePreviewSent   Stage = "preview_sent"
	StageApproved      Stage = "approved"
	StageDepositPaid   Stage = "deposit_paid"
	StageInDevelopment Stage = "in_development"
	StageCompleted     Stage = "completed"
	StageDelivered     Stage = "delivered"
)

// Stages lists the pipeline in order. Progress and status reporting both
// depend on this ordering.
var Stages = []Stage{
	StagePending,
	StagePreviewSent,
	StageApproved,
	StageDepositPaid,
	StageInDevelopment,
	StageCompleted,
	StageDelivered,
}

// StageIndex returns the zero-based pipeline position, or -1 for a status
// that is not part of the pipeline.
func StageIndex(s Stage) int {
	for i, stage := range Stages {
		if stage == s {
			return i
		}
	}
	return -1
}

// Progress maps a stage to its percentage of the pipeline, rounded to the
// nearest integer. pending is already worth one step: the lead exists.
func Progress(s Stage) int {
	idx := StageIndex(s)
	if idx < 0 {
		return 0
	}
	return int(math.Round(float64(idx+1) / float64(len(Stages)) * 100))
}

// stageTransitions is the allowed edge set. Strictly forward, one step at a
// time; delivered has no outgoing edges.
var stageTransitions = map[Stage]map[Stage]bool{
	StagePending:       {StagePreviewSent: true},
	StagePreviewSent:   {StageApproved: true},
	StageApproved:      {StageDepositPaid: true},
	StageDepositPaid:   {StageInDevelopment: true},
	StageInDevelopment: {StageCompleted: true},
	StageCompleted:     {StageDelivered: true},
	StageDelivered:     {},
}

func CanTransition(from, to Stage) bool {
	return stageTransitions[from][to]
}

// Site status values. Sites trail the lead by a stage or two: draft before
// the preview is rendered, preview until the deposit lands.
const (
	SiteStatusDraft         = "draft"
	SiteStatusPreview       = "preview"
	SiteStatusInDevelopment = "in_development"
	SiteStatusCompleted     = "completed"
	SiteStatusDelivered     = "delivered"
)

// Payment status values.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Payment type values.
const (
	PaymentTypeDeposit = "deposit"
	PaymentTypeFull    = "full"
	PaymentTypeRefund  = "refund"
)
