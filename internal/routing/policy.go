package routing

import (
	"time"

	"github.com/handoff-sh/handoff/internal/domain"
)

// Policy bundles every tunable the routing pipeline consults. All of the
// thresholds and weights here are coarse heuristics calibrated by hand, not
// laws; they are kept in one typed struct so operators can tune them without
// touching scoring code.
type Policy struct {
	SkillKeywords      map[string][]string
	ComplexityHigh     []string
	ComplexityMedium   []string
	LongQueryChars     int
	UrgencyPhrases     []string
	LanguageIndicators map[string][]string

	Priority PriorityPolicy

	BaseResolutionMinutes map[domain.Complexity]int
	SkillTimeMultipliers  map[string]float64

	// Strategy selection: these sets force skill-first routing.
	SkillFirstPriorities   []domain.Priority
	SkillFirstFrustrations []domain.FrustrationLevel

	Weights   ScoringWeights
	Wellbeing WellbeingPolicy
	Queue     QueuePolicy
}

// PriorityPolicy accumulates an integer priority score from the upstream
// analysis signals and buckets it into a Priority.
type PriorityPolicy struct {
	FrustrationPoints map[domain.FrustrationLevel]int

	QualityPoorThreshold float64
	QualityPoorPoints    int
	QualityWeakThreshold float64
	QualityWeakPoints    int

	PriorEscalationCap    int
	LongConversationTurns int
	LongConversationBonus int

	CriticalAt int
	HighAt     int
	MediumAt   int
}

// ScoringWeights parameterize the three heuristic scoring functions.
type ScoringWeights struct {
	SkillMatch         float64
	SeniorComplexBonus float64
	SatisfactionFactor float64
	EscalationPenalty  float64
	HeadroomBonus      float64

	WellbeingSkillMatch float64
	WellbeingHeadroom   float64
	ToleranceBonus      map[domain.FrustrationTolerance]float64
	FatigueThreshold    int
	FatiguePenalty      float64

	RecentFrustrationWindow  time.Duration
	RecentFrustrationPenalty float64
	RestedWindow             time.Duration
	RestedBonus              float64
}

// WellbeingPolicy governs the post-selection guard that keeps difficult
// cases from piling onto one agent.
type WellbeingPolicy struct {
	GuardDifficultCases   int
	AlternateMaxDifficult int
}

// QueuePolicy models the wait estimate for queued escalations.
type QueuePolicy struct {
	AvgHandleMinutes int
}

// DefaultPolicy returns the stock routing policy.
func DefaultPolicy() Policy {
	return Policy{
		SkillKeywords: map[string][]string{
			"technical": {
				"error", "bug", "crash", "broken", "api", "integration",
				"timeout", "server", "code", "install", "upgrade", "sync",
			},
			"billing": {
				"invoice", "charge", "payment", "refund", "billing",
				"subscription", "price", "credit card", "overcharged",
			},
			"account_management": {
				"account", "password", "login", "access", "locked",
				"profile", "email change", "cancel", "reactivate",
			},
			"product_support": {
				"how to", "how do i", "feature", "usage", "tutorial",
				"getting started", "setup", "configure",
			},
			"compliance": {
				"gdpr", "privacy", "data request", "legal", "regulation",
				"audit", "compliance", "delete my data",
			},
		},
		ComplexityHigh: []string{
			"integration", "api", "enterprise", "migration", "database",
			"architecture", "custom", "multiple systems",
		},
		ComplexityMedium: []string{
			"configuration", "billing", "permissions", "settings",
			"workflow", "report",
		},
		LongQueryChars: 500,
		UrgencyPhrases: []string{
			"urgent", "asap", "emergency", "immediately", "right now",
			"time sensitive", "deadline",
		},
		LanguageIndicators: map[string][]string{
			"spanish": {"en español", "hablar español", "no hablo ingles"},
			"french":  {"en français", "parler français"},
			"german":  {"auf deutsch", "deutsch sprechen"},
		},
		Priority: PriorityPolicy{
			FrustrationPoints: map[domain.FrustrationLevel]int{
				domain.FrustrationCritical: 4,
				domain.FrustrationHigh:     3,
				domain.FrustrationModerate: 2,
				domain.FrustrationLow:      1,
			},
			QualityPoorThreshold:  4.0,
			QualityPoorPoints:     2,
			QualityWeakThreshold:  6.0,
			QualityWeakPoints:     1,
			PriorEscalationCap:    3,
			LongConversationTurns: 5,
			LongConversationBonus: 1,
			CriticalAt:            7,
			HighAt:                5,
			MediumAt:              3,
		},
		BaseResolutionMinutes: map[domain.Complexity]int{
			domain.ComplexityLow:    15,
			domain.ComplexityMedium: 30,
			domain.ComplexityHigh:   60,
		},
		SkillTimeMultipliers: map[string]float64{
			"technical":  1.5,
			"compliance": 2.0,
			"billing":    1.2,
			"general":    1.0,
		},
		SkillFirstPriorities: []domain.Priority{
			domain.PriorityHigh, domain.PriorityCritical,
		},
		SkillFirstFrustrations: []domain.FrustrationLevel{
			domain.FrustrationHigh, domain.FrustrationCritical,
		},
		Weights: ScoringWeights{
			SkillMatch:         10,
			SeniorComplexBonus: 5,
			SatisfactionFactor: 2,
			EscalationPenalty:  10,
			HeadroomBonus:      5,

			WellbeingSkillMatch: 5,
			WellbeingHeadroom:   10,
			ToleranceBonus: map[domain.FrustrationTolerance]float64{
				domain.ToleranceHigh:   8,
				domain.ToleranceMedium: 3,
				domain.ToleranceLow:    0,
			},
			FatigueThreshold: 2,
			FatiguePenalty:   5,

			RecentFrustrationWindow:  2 * time.Hour,
			RecentFrustrationPenalty: 3,
			RestedWindow:             4 * time.Hour,
			RestedBonus:              2,
		},
		Wellbeing: WellbeingPolicy{
			GuardDifficultCases:   3,
			AlternateMaxDifficult: 2,
		},
		Queue: QueuePolicy{
			AvgHandleMinutes: 15,
		},
	}
}

// GeneralSkill is the fallback category when no keyword matches.
const GeneralSkill = "general"
