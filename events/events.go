package events

import (
	"context"
	"sync"

	"oversight/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeWorkflowInitiated        EventType = "workflow_initiated"
	EventTypeWorkflowAdvanced         EventType = "workflow_advanced"
	EventTypeWorkflowChangesRequested EventType = "workflow_changes_requested"
	EventTypeWorkflowCompleted        EventType = "workflow_completed"
	EventTypeProgramStatusChanged     EventType = "program_status_changed"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// WorkflowInitiatedEvent is raised when a workflow is created; Approvers is level one
type WorkflowInitiatedEvent struct {
	WorkflowID uuid.UUID
	ItemType   string
	ItemID     uuid.UUID
	Approvers  []string
}

func (e WorkflowInitiatedEvent) Type() EventType {
	return EventTypeWorkflowInitiated
}

// WorkflowAdvancedEvent is raised when a level is approved and the next one opens
type WorkflowAdvancedEvent struct {
	WorkflowID uuid.UUID
	ItemType   string
	ItemID     uuid.UUID
	Level      int
	Approvers  []string
}

func (e WorkflowAdvancedEvent) Type() EventType {
	return EventTypeWorkflowAdvanced
}

// WorkflowChangesRequestedEvent asks the initiator to revise and resubmit
type WorkflowChangesRequestedEvent struct {
	WorkflowID  uuid.UUID
	ItemType    string
	ItemID      uuid.UUID
	InitiatorID string
	ApproverID  string
	Comments    string
}

func (e WorkflowChangesRequestedEvent) Type() EventType {
	return EventTypeWorkflowChangesRequested
}

// WorkflowCompletedEvent is raised on final approval or rejection
type WorkflowCompletedEvent struct {
	WorkflowID  uuid.UUID
	ItemType    string
	ItemID      uuid.UUID
	InitiatorID string
	Status      models.WorkflowStatus
	Comments    string
}

func (e WorkflowCompletedEvent) Type() EventType {
	return EventTypeWorkflowCompleted
}

// ProgramStatusChangedEvent is raised by the automated status pass
type ProgramStatusChangedEvent struct {
	ProgramID   uuid.UUID
	ProgramName string
	EntityID    uuid.UUID
	Director    *uuid.UUID
	OldStatus   models.ProgramStatus
	NewStatus   models.ProgramStatus
	Reason      string
}

func (e ProgramStatusChangedEvent) Type() EventType {
	return EventTypeProgramStatusChanged
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
	wg       sync.WaitGroup
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	// Handlers run asynchronously so a slow subscriber never blocks the request
	for i, handler := range handlers {
		b.wg.Add(1)
		go func(h Handler, handlerIndex int) {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// Wait blocks until in-flight handlers finish or ctx is done
func (b *Bus) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TransactionalBus holds events raised inside a unit of work until it commits.
// Flushes to the underlying event bus.
type TransactionalBus struct {
	real    *Bus
	pending []Event // stashed until Flush
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	log.WithFields(log.Fields{
		"eventType":    e.Type(),
		"pendingCount": len(b.pending),
	}).Debug("Adding event to transactional bus pending queue")
	b.pending = append(b.pending, e)
}

// Pending returns the events waiting for commit
func (b *TransactionalBus) Pending() []Event {
	return b.pending
}

// called after successful DB commit
func (b *TransactionalBus) Flush(ctx context.Context) error {
	log.WithFields(log.Fields{
		"pendingEventCount": len(b.pending),
	}).Debug("Flushing pending events from transactional bus")

	// Handlers outlive the request, so they get a context detached from its cancellation
	eventCtx := context.WithoutCancel(ctx)

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// called after db rollback or to clear state.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
