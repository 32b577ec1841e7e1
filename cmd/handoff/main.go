package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	slacklib "github.com/slack-go/slack"

	v1 "github.com/handoff-sh/handoff/internal/api/v1"
	"github.com/handoff-sh/handoff/internal/api/ws"
	"github.com/handoff-sh/handoff/internal/config"
	"github.com/handoff-sh/handoff/internal/domain"
	"github.com/handoff-sh/handoff/internal/llm"
	"github.com/handoff-sh/handoff/internal/notify"
	"github.com/handoff-sh/handoff/internal/routing"
	"github.com/handoff-sh/handoff/internal/server"
	"github.com/handoff-sh/handoff/internal/store/memory"
	"github.com/handoff-sh/handoff/internal/store/postgres"
	redisstore "github.com/handoff-sh/handoff/internal/store/redis"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Initialize structured logging from environment.
	logLevel := os.Getenv("HANDOFF_LOG_LEVEL")
	level, parseErr := zerolog.ParseLevel(logLevel)
	if parseErr != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	logFormat := os.Getenv("HANDOFF_LOG_FORMAT")
	if logFormat == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}

	ctx := context.Background()

	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	policy := routing.DefaultPolicy()
	policy.Queue.AvgHandleMinutes = cfg.Router.AvgHandleMinutes

	var (
		agents     domain.AgentRepository
		decisions  domain.DecisionRepository
		queue      routing.WaitQueue
		queueAPI   v1.QueueReader
		stream     ws.DecisionStream
		engineOpts []routing.EngineOption
	)

	switch cfg.Store {
	case config.StoreMemory:
		// Demo mode: everything in process, no external services.
		agents = memory.NewAgentRepo()
		decisions = memory.NewDecisionRepo()
		memQueue := memory.NewWaitQueue()
		queue = memQueue
		queueAPI = memQueue
		log.Warn().Msg("running with in-memory store; state is lost on restart")

	default:
		store, connectErr := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns))
		if connectErr != nil {
			return connectErr
		}
		defer store.Close()

		if schemaErr := store.EnsureSchema(ctx); schemaErr != nil {
			return schemaErr
		}

		redisQueue, redisErr := redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if redisErr != nil {
			return redisErr
		}
		defer redisQueue.Close()

		agents = store.Agents()
		decisions = store.Decisions()
		queue = redisQueue
		queueAPI = redisQueue
		stream = redisQueue
		engineOpts = append(engineOpts, routing.WithEventPublisher(redisQueue))
	}

	if cfg.Router.Mode == config.RouterModeLLM {
		client := llm.New(cfg.Router.LLMBaseURL, cfg.Router.LLMAPIKey, cfg.Router.LLMModel, cfg.Router.LLMTimeout)
		strategy := routing.NewLLMStrategy(client, routing.NewHeuristicStrategy(policy), cfg.Router.LLMTimeout)
		engineOpts = append(engineOpts, routing.WithStrategy(strategy))
		log.Info().Str("model", cfg.Router.LLMModel).Msg("llm router enabled")
	}

	engine := routing.NewEngine(agents, decisions, queue, policy, engineOpts...)

	// Optional Slack notifications for assignments and queued cases.
	var router v1.EscalationRouter = engine
	if cfg.Slack.BotToken != "" {
		registry := notify.NewRegistry()
		registry.Register("slack", notify.NewSlackMessenger(slacklib.New(cfg.Slack.BotToken)))
		router = notify.NewRoutingNotifier(engine, notify.New(registry), agents, cfg.Slack.OpsRecipient)
		log.Info().Msg("slack notifications enabled")
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(ctx, cfg, storeFacade{agents: agents, decisions: decisions}, router, queueAPI, stream)

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		return shutdownErr
	}

	log.Info().Msg("stopped")
	return nil
}

// storeFacade adapts the selected repositories to the API's DataStore.
type storeFacade struct {
	agents    domain.AgentRepository
	decisions domain.DecisionRepository
}

func (s storeFacade) Agents() domain.AgentRepository       { return s.agents }
func (s storeFacade) Decisions() domain.DecisionRepository { return s.decisions }
