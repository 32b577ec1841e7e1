// Command handoff-seed loads a demo agent roster into the directory so the
// routing API has someone to assign. Existing agents with the same email are
// skipped.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/handoff-sh/handoff/internal/config"
	"github.com/handoff-sh/handoff/internal/domain"
	"github.com/handoff-sh/handoff/internal/store/postgres"
)

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	rosterPath := flag.String("roster", "", "path to a JSON roster file (defaults to the built-in demo roster)")
	flag.Parse()

	if err := run(*rosterPath); err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
}

func run(rosterPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns))
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	roster := demoRoster()
	if rosterPath != "" {
		roster, err = loadRoster(rosterPath)
		if err != nil {
			return err
		}
	}

	created, skipped := 0, 0
	for _, agent := range roster {
		if agent.ID == uuid.Nil {
			agent.ID = uuid.New()
		}
		err := store.Agents().Create(ctx, agent)
		switch {
		case errors.Is(err, domain.ErrConflict):
			skipped++
			log.Debug().Str("email", agent.Email).Msg("agent already exists")
		case err != nil:
			return err
		default:
			created++
			log.Info().Str("name", agent.Name).Str("email", agent.Email).Msg("agent created")
		}
	}

	log.Info().Int("created", created).Int("skipped", skipped).Msg("roster seeded")
	return nil
}

func loadRoster(path string) ([]*domain.HumanAgent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var roster []*domain.HumanAgent
	if err := json.Unmarshal(data, &roster); err != nil {
		return nil, err
	}
	return roster, nil
}

func demoRoster() []*domain.HumanAgent {
	weekdays := []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

	return []*domain.HumanAgent{
		{
			Name:                 "Sarah Chen",
			Email:                "sarah.chen@example.com",
			Skills:               []string{"technical", "product_support"},
			SkillLevel:           domain.SkillLevelSenior,
			Languages:            []string{"english", "spanish"},
			Specializations:      []string{"api_integrations"},
			MaxConcurrent:        3,
			Status:               domain.AgentStatusAvailable,
			FrustrationTolerance: domain.ToleranceHigh,
			AvgResolutionMinutes: 42,
			CustomerSatisfaction: 4.7,
			EscalationRate:       0.05,
			ShiftStart:           "09:00",
			ShiftEnd:             "17:00",
			WorkingDays:          weekdays,
		},
		{
			Name:                 "Miguel Torres",
			Email:                "miguel.torres@example.com",
			Skills:               []string{"billing", "account_management"},
			SkillLevel:           domain.SkillLevelIntermediate,
			Languages:            []string{"english", "spanish"},
			MaxConcurrent:        4,
			Status:               domain.AgentStatusAvailable,
			FrustrationTolerance: domain.ToleranceMedium,
			AvgResolutionMinutes: 28,
			CustomerSatisfaction: 4.4,
			EscalationRate:       0.09,
			ShiftStart:           "08:00",
			ShiftEnd:             "16:00",
			WorkingDays:          weekdays,
		},
		{
			Name:                 "Amelie Fournier",
			Email:                "amelie.fournier@example.com",
			Skills:               []string{"compliance", "billing"},
			SkillLevel:           domain.SkillLevelSenior,
			Languages:            []string{"english", "french"},
			Specializations:      []string{"gdpr"},
			MaxConcurrent:        2,
			Status:               domain.AgentStatusAvailable,
			FrustrationTolerance: domain.ToleranceMedium,
			AvgResolutionMinutes: 55,
			CustomerSatisfaction: 4.8,
			EscalationRate:       0.03,
			ShiftStart:           "10:00",
			ShiftEnd:             "18:00",
			WorkingDays:          weekdays,
		},
		{
			Name:                 "Dev Patel",
			Email:                "dev.patel@example.com",
			Skills:               []string{"technical", "general"},
			SkillLevel:           domain.SkillLevelJunior,
			Languages:            []string{"english"},
			MaxConcurrent:        3,
			Status:               domain.AgentStatusAvailable,
			FrustrationTolerance: domain.ToleranceLow,
			AvgResolutionMinutes: 35,
			CustomerSatisfaction: 4.1,
			EscalationRate:       0.14,
			ShiftStart:           "12:00",
			ShiftEnd:             "20:00",
			WorkingDays:          weekdays,
		},
		{
			Name:                 "Nadia Okafor",
			Email:                "nadia.okafor@example.com",
			Skills:               []string{"general", "account_management", "product_support"},
			SkillLevel:           domain.SkillLevelIntermediate,
			Languages:            []string{"english", "german"},
			MaxConcurrent:        5,
			Status:               domain.AgentStatusAvailable,
			FrustrationTolerance: domain.ToleranceHigh,
			AvgResolutionMinutes: 24,
			CustomerSatisfaction: 4.5,
			EscalationRate:       0.07,
			ShiftStart:           "22:00",
			ShiftEnd:             "06:00",
			WorkingDays:          weekdays,
		},
	}
}
