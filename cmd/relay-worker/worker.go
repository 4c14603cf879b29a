// Package main provides the Relay worker: it consumes trigger events from
// the bus, dispatches them to the workflow engine and sweeps old execution
// history.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/trace"

	"github.com/relaycrm/relay/pkg/dedup"
	"github.com/relaycrm/relay/pkg/engine"
	"github.com/relaycrm/relay/pkg/eventbus"
	"github.com/relaycrm/relay/pkg/events"
	"github.com/relaycrm/relay/pkg/models"
	"github.com/relaycrm/relay/pkg/persistence"
	"github.com/relaycrm/relay/pkg/registry"
	"github.com/relaycrm/relay/pkg/services"
)

const retentionSweepSchedule = "0 3 * * *"

type WorkerManager struct {
	id          string
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	guard       dedup.Guard
	engine      *engine.Engine
	executions  *services.Executions
	retention   time.Duration
	cron        *cron.Cron
}

func NewWorkerManager(
	id string,
	persistence persistence.Persistence,
	eventBus eventbus.EventBus,
	guard dedup.Guard,
	retention time.Duration,
	logger *slog.Logger,
	registry *registry.Registry,
	tracer trace.Tracer,
) *WorkerManager {
	return &WorkerManager{
		id:          id,
		logger:      logger.With("module", "relay-worker", "worker_id", id),
		persistence: persistence,
		registry:    registry,
		eventBus:    eventBus,
		guard:       guard,
		engine:      engine.NewEngine(persistence, registry, logger).WithTracer(tracer),
		executions:  services.NewExecutions(persistence),
		retention:   retention,
		cron:        cron.New(),
	}
}

func (w *WorkerManager) Start(ctx context.Context) error {
	w.logger.InfoContext(ctx, "Starting worker manager")

	err := w.eventBus.Handle(events.TriggerFiredEvent, w.handleTriggerFired)
	if err != nil {
		return err
	}

	err = w.eventBus.Subscribe(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to subscribe to event bus", "error", err)

		return err
	}

	_, err = w.cron.AddFunc(retentionSweepSchedule, func() {
		w.sweepExecutions(ctx)
	})
	if err != nil {
		return err
	}

	w.cron.Start()

	w.logger.InfoContext(ctx, "Worker started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	w.logger.InfoContext(ctx, "Shutting down worker...")

	<-w.cron.Stop().Done()

	return nil
}

func (w *WorkerManager) handleTriggerFired(ctx context.Context, event any) error {
	triggerEvent, ok := event.(*events.TriggerFired)
	if !ok {
		w.logger.ErrorContext(ctx, "Invalid event type for TriggerFired")

		return nil
	}

	logger := w.logger.With(
		"trigger_kind", triggerEvent.Kind,
		"event_id", triggerEvent.ID,
	)

	first, err := w.guard.FirstDelivery(ctx, triggerEvent.ID)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to check trigger delivery", "error", err)

		return err
	}

	if !first {
		logger.InfoContext(ctx, "Skipping duplicate trigger delivery")

		return nil
	}

	logger.InfoContext(ctx, "Processing trigger event")

	triggerData := make(map[string]any)
	if triggerEvent.TriggerData != nil {
		triggerData = triggerEvent.TriggerData
	}

	outcomes := w.engine.DispatchTrigger(ctx, triggerEvent.Kind, triggerData)

	for _, outcome := range outcomes {
		w.publishOutcome(ctx, logger, outcome)
	}

	return nil
}

func (w *WorkerManager) publishOutcome(ctx context.Context, logger *slog.Logger, outcome models.ExecutionOutcome) {
	var event eventbus.Event

	if outcome.Success {
		event = events.ExecutionCompleted{
			BaseEvent: events.BaseEvent{
				ID:        w.eventBus.GenerateID(),
				Type:      events.ExecutionCompletedEvent,
				Timestamp: time.Now().UTC(),
			},
			WorkflowID:  outcome.WorkflowID,
			ExecutionID: outcome.ExecutionID,
			Status:      models.ExecutionSuccess,
		}
	} else {
		event = events.ExecutionFailed{
			BaseEvent: events.BaseEvent{
				ID:        w.eventBus.GenerateID(),
				Type:      events.ExecutionFailedEvent,
				Timestamp: time.Now().UTC(),
			},
			WorkflowID:  outcome.WorkflowID,
			ExecutionID: outcome.ExecutionID,
			Error:       outcome.Reason,
		}
	}

	err := w.eventBus.Publish(ctx, outcome.WorkflowID, event)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to publish execution event",
			"error", err,
			"workflow_id", outcome.WorkflowID,
		)
	}
}

func (w *WorkerManager) sweepExecutions(ctx context.Context) {
	removed, err := w.executions.PurgeOlderThan(ctx, w.retention)
	if err != nil {
		w.logger.ErrorContext(ctx, "Failed to purge old executions", "error", err)

		return
	}

	w.logger.InfoContext(ctx, "Purged old executions", "removed", removed)
}
