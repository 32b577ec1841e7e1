package routing

import (
	"sort"
	"strings"

	"github.com/handoff-sh/handoff/internal/domain"
)

// Analyzer derives routing requirements from an incoming escalation. It is
// pure and never fails: absent or malformed inputs degrade to safe defaults
// (general skill, low priority) rather than propagating an error.
type Analyzer struct {
	policy Policy
}

func NewAnalyzer(policy Policy) *Analyzer {
	return &Analyzer{policy: policy}
}

// Analyze builds the immutable EscalationRequest for one routing pass.
// Calling it twice on identical input yields an identical request.
func (a *Analyzer) Analyze(in domain.EscalationInput) domain.EscalationRequest {
	text := strings.ToLower(in.QueryText + " " + in.EscalationReason)

	skills := a.extractSkills(text)
	complexity := a.assessComplexity(text, len(in.QueryText))

	return domain.EscalationRequest{
		RequiredSkills:             skills,
		Priority:                   a.scorePriority(in),
		Complexity:                 complexity,
		SpecialRequirements:        a.specialRequirements(text, in),
		CustomerFrustration:        normalizeFrustration(in.FrustrationLevel),
		EstimatedResolutionMinutes: a.estimateResolution(complexity, skills),
	}
}

// extractSkills keyword-matches the query against the policy's category map.
// Every matching category is kept; there is no precedence between them.
func (a *Analyzer) extractSkills(text string) []string {
	var skills []string
	for category, keywords := range a.policy.SkillKeywords {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				skills = append(skills, category)
				break
			}
		}
	}
	if len(skills) == 0 {
		return []string{GeneralSkill}
	}
	// Map iteration order is random; keep the request deterministic.
	sort.Strings(skills)
	return skills
}

func (a *Analyzer) scorePriority(in domain.EscalationInput) domain.Priority {
	p := a.policy.Priority

	score := p.FrustrationPoints[normalizeFrustration(in.FrustrationLevel)]

	// QualityScore zero means the quality analysis is absent, not abysmal.
	if in.QualityScore > 0 {
		switch {
		case in.QualityScore < p.QualityPoorThreshold:
			score += p.QualityPoorPoints
		case in.QualityScore < p.QualityWeakThreshold:
			score += p.QualityWeakPoints
		}
	}

	if in.PriorEscalations > 1 {
		score += min(in.PriorEscalations, p.PriorEscalationCap)
	}

	if in.InteractionCount > p.LongConversationTurns {
		score += p.LongConversationBonus
	}

	switch {
	case score >= p.CriticalAt:
		return domain.PriorityCritical
	case score >= p.HighAt:
		return domain.PriorityHigh
	case score >= p.MediumAt:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

func (a *Analyzer) assessComplexity(text string, queryLen int) domain.Complexity {
	for _, kw := range a.policy.ComplexityHigh {
		if strings.Contains(text, kw) {
			return domain.ComplexityHigh
		}
	}
	for _, kw := range a.policy.ComplexityMedium {
		if strings.Contains(text, kw) {
			return domain.ComplexityMedium
		}
	}
	if queryLen > a.policy.LongQueryChars {
		return domain.ComplexityMedium
	}
	return domain.ComplexityLow
}

func (a *Analyzer) specialRequirements(text string, in domain.EscalationInput) []string {
	var reqs []string

	var langs []string
	for lang, phrases := range a.policy.LanguageIndicators {
		for _, phrase := range phrases {
			if strings.Contains(text, phrase) {
				langs = append(langs, "language_"+lang)
				break
			}
		}
	}
	sort.Strings(langs)
	reqs = append(reqs, langs...)

	for _, phrase := range a.policy.UrgencyPhrases {
		if strings.Contains(text, phrase) {
			reqs = append(reqs, "time_sensitive")
			break
		}
	}

	tier := in.CustomerTier
	if tier == "" {
		tier = "standard"
	}
	reqs = append(reqs, tier+"_customer")

	return reqs
}

// estimateResolution is base time for the complexity scaled by the slowest
// required skill category.
func (a *Analyzer) estimateResolution(complexity domain.Complexity, skills []string) int {
	base, ok := a.policy.BaseResolutionMinutes[complexity]
	if !ok {
		base = a.policy.BaseResolutionMinutes[domain.ComplexityLow]
	}

	multiplier := 1.0
	for _, skill := range skills {
		if m, found := a.policy.SkillTimeMultipliers[skill]; found && m > multiplier {
			multiplier = m
		}
	}

	return int(float64(base) * multiplier)
}

func normalizeFrustration(f domain.FrustrationLevel) domain.FrustrationLevel {
	switch f {
	case domain.FrustrationLow, domain.FrustrationModerate,
		domain.FrustrationHigh, domain.FrustrationCritical:
		return f
	default:
		return domain.FrustrationLow
	}
}
