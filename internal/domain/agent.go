package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type AgentStatus string

const (
	AgentStatusAvailable AgentStatus = "available"
	AgentStatusBusy      AgentStatus = "busy"
	AgentStatusBreak     AgentStatus = "break"
	AgentStatusOffline   AgentStatus = "offline"
)

type SkillLevel string

const (
	SkillLevelJunior       SkillLevel = "junior"
	SkillLevelIntermediate SkillLevel = "intermediate"
	SkillLevelSenior       SkillLevel = "senior"
)

type FrustrationTolerance string

const (
	ToleranceLow    FrustrationTolerance = "low"
	ToleranceMedium FrustrationTolerance = "medium"
	ToleranceHigh   FrustrationTolerance = "high"
)

// HumanAgent is a support representative in the directory. Agents are never
// hard-deleted; offboarding transitions Status to offline.
type HumanAgent struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`

	Skills          []string   `json:"skills"`
	SkillLevel      SkillLevel `json:"skill_level"`
	Languages       []string   `json:"languages"`
	Specializations []string   `json:"specializations"`

	CurrentWorkload int `json:"current_workload"`
	MaxConcurrent   int `json:"max_concurrent"`

	Status                    AgentStatus          `json:"status"`
	FrustrationTolerance      FrustrationTolerance `json:"frustration_tolerance"`
	ConsecutiveDifficultCases int                  `json:"consecutive_difficult_cases"`
	LastFrustrationAssignment *time.Time           `json:"last_frustration_assignment,omitempty"`

	AvgResolutionMinutes float64 `json:"avg_resolution_time_minutes"`
	CustomerSatisfaction float64 `json:"customer_satisfaction"` // 0-5 scale
	EscalationRate       float64 `json:"escalation_rate"`       // 0-1

	ShiftStart  string         `json:"shift_start"` // "15:04" local time-of-day
	ShiftEnd    string         `json:"shift_end"`
	WorkingDays []time.Weekday `json:"working_days"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WorkloadRatio is the normalized capacity utilisation of the agent.
func (a *HumanAgent) WorkloadRatio() float64 {
	if a.MaxConcurrent <= 0 {
		return 1
	}
	return float64(a.CurrentWorkload) / float64(a.MaxConcurrent)
}

// Selectable reports whether the agent may be chosen for a new assignment.
// The same condition is re-checked atomically at claim time by the repository.
func (a *HumanAgent) Selectable() bool {
	return a.Status == AgentStatusAvailable && a.CurrentWorkload < a.MaxConcurrent
}

// HasSkill reports whether the agent covers the given skill category.
func (a *HumanAgent) HasSkill(skill string) bool {
	for _, s := range a.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// MatchedSkills returns how many of the required skills the agent covers.
func (a *HumanAgent) MatchedSkills(required []string) int {
	n := 0
	for _, skill := range required {
		if a.HasSkill(skill) {
			n++
		}
	}
	return n
}

// OnShift reports whether t falls inside the agent's shift window on one of
// the agent's working days. Overnight shifts (start after end) wrap past
// midnight. Agents with no shift window configured are always on shift.
func (a *HumanAgent) OnShift(t time.Time) bool {
	if a.ShiftStart == "" || a.ShiftEnd == "" {
		return true
	}

	start, err := time.Parse("15:04", a.ShiftStart)
	if err != nil {
		return true
	}
	end, err := time.Parse("15:04", a.ShiftEnd)
	if err != nil {
		return true
	}

	if len(a.WorkingDays) > 0 && !a.worksOn(t.Weekday()) {
		// An overnight shift that started yesterday still counts.
		if !(start.After(end) && a.worksOn(t.AddDate(0, 0, -1).Weekday())) {
			return false
		}
	}

	minutes := t.Hour()*60 + t.Minute()
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()

	if startMin <= endMin {
		return minutes >= startMin && minutes < endMin
	}
	// Overnight window, e.g. 22:00-06:00.
	return minutes >= startMin || minutes < endMin
}

func (a *HumanAgent) worksOn(day time.Weekday) bool {
	for _, d := range a.WorkingDays {
		if d == day {
			return true
		}
	}
	return false
}

// AgentRepository is the persistence boundary for the agent directory.
//
// Claim commits an assignment: it atomically re-checks the selectability
// invariant (status available, workload below capacity) and increments the
// workload in one step, so two concurrent routing calls can never push an
// agent past MaxConcurrent. A claim that loses the race returns ErrConflict.
type AgentRepository interface {
	Create(ctx context.Context, a *HumanAgent) error
	GetByID(ctx context.Context, id uuid.UUID) (*HumanAgent, error)
	List(ctx context.Context) ([]*HumanAgent, error)
	ListAvailable(ctx context.Context) ([]*HumanAgent, error)
	Claim(ctx context.Context, id uuid.UUID, difficult bool) (*HumanAgent, error)
	Release(ctx context.Context, id uuid.UUID) (*HumanAgent, error)
	SetStatus(ctx context.Context, id uuid.UUID, status AgentStatus) error
}
