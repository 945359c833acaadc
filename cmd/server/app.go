package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/calref/retouch-api/internal/config"
	"github.com/calref/retouch-api/internal/events"
	"github.com/calref/retouch-api/internal/platform/gemini"
	"github.com/calref/retouch-api/internal/platform/memstore"
	"github.com/calref/retouch-api/internal/service"
	"github.com/calref/retouch-api/internal/service/credential"
	"github.com/calref/retouch-api/internal/task"
)

// runEventLogger is an event handler that writes every run and item
// transition to the structured log.
type runEventLogger struct {
	logger *slog.Logger
}

// HandleEvent logs the event type and payload at INFO level.
func (h *runEventLogger) HandleEvent(_ context.Context, event *events.Event) error {
	h.logger.Info("queue event",
		"event_id", event.ID,
		"event_type", event.Type,
		"payload", string(event.Payload))
	return nil
}

// application holds the wired dependencies shared across the server.
type application struct {
	config       *config.Config
	logger       *slog.Logger
	creds        *credential.State
	queueStore   *memstore.QueueStore
	runner       *task.SequentialRunner
	queueService *service.QueueService
}

// newApplication builds the dependency graph: in-memory queue store,
// credential state seeded from configuration, the Gemini editor, the
// sequential runner with a logging event handler, and the queue service.
func newApplication(cfg *config.Config, appLogger *slog.Logger) (*application, error) {
	creds := credential.NewState(cfg.LLM.GeminiAPIKey, appLogger)
	queueStore := memstore.NewQueueStore(appLogger)

	editor, err := gemini.NewEditor(appLogger, creds, cfg.LLM.ModelName)
	if err != nil {
		return nil, fmt.Errorf("failed to create editor: %w", err)
	}

	emitter := events.NewInMemoryEmitter(appLogger)
	emitter.RegisterHandler(&runEventLogger{logger: appLogger})

	runner := task.NewSequentialRunner(queueStore, editor, creds, emitter, appLogger)
	queueService := service.NewQueueService(queueStore, runner, cfg.Queue, appLogger)

	return &application{
		config:       cfg,
		logger:       appLogger,
		creds:        creds,
		queueStore:   queueStore,
		runner:       runner,
		queueService: queueService,
	}, nil
}

// cleanup releases application resources on shutdown, aborting any active
// run and waiting for its goroutine to exit.
func (app *application) cleanup() {
	app.runner.Stop()
}
