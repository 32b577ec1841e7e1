package domain

type FrustrationLevel string

const (
	FrustrationLow      FrustrationLevel = "low"
	FrustrationModerate FrustrationLevel = "moderate"
	FrustrationHigh     FrustrationLevel = "high"
	FrustrationCritical FrustrationLevel = "critical"
)

// Difficult reports whether a case at this frustration level counts against
// an agent's consecutive-difficult-cases budget.
func (f FrustrationLevel) Difficult() bool {
	return f == FrustrationHigh || f == FrustrationCritical
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Urgent reports whether the priority forces skill-first routing.
func (p Priority) Urgent() bool {
	return p == PriorityHigh || p == PriorityCritical
}

type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// EscalationInput is the raw upstream shape handed to the router: the query
// text plus the frustration/quality analysis results and prior-interaction
// summary produced by out-of-scope collaborators. Missing fields are legal;
// the analyzer degrades them to safe defaults.
type EscalationInput struct {
	QueryText        string           `json:"query_text"`
	EscalationReason string           `json:"escalation_reason,omitempty"`
	FrustrationLevel FrustrationLevel `json:"frustration_level,omitempty"`
	FrustrationScore float64          `json:"frustration_score,omitempty"`
	QualityScore     float64          `json:"quality_score,omitempty"`
	PriorEscalations int              `json:"prior_escalations,omitempty"`
	InteractionCount int              `json:"interaction_count,omitempty"`
	CustomerTier     string           `json:"customer_tier,omitempty"`
}

// EscalationRequest is the derived routing requirement for a single decision.
// It is built fresh per escalation, immutable once built, and discarded after
// the decision is recorded.
type EscalationRequest struct {
	RequiredSkills             []string         `json:"required_skills"`
	Priority                   Priority         `json:"priority"`
	Complexity                 Complexity       `json:"complexity"`
	SpecialRequirements        []string         `json:"special_requirements"`
	CustomerFrustration        FrustrationLevel `json:"customer_frustration_level"`
	EstimatedResolutionMinutes int              `json:"estimated_resolution_minutes"`
}

// TimeSensitive reports whether the urgency flag was derived from the query.
func (r *EscalationRequest) TimeSensitive() bool {
	for _, req := range r.SpecialRequirements {
		if req == "time_sensitive" {
			return true
		}
	}
	return false
}
