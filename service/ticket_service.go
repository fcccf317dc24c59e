package service

import (
	"context"
	"fmt"
	"time"

	"oversight/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

var (
	ticketStatuses = []string{
		models.TicketStatusOpen, models.TicketStatusInProgress, models.TicketStatusResolved, models.TicketStatusClosed,
	}
	ticketPriorities = []string{"Low", "Medium", "High", "Critical"}
)

type ticketService struct {
	uowFactory UnitOfWorkFactory
	now        func() time.Time
}

// NewTicketService creates a new ticket service
func NewTicketService(uowFactory UnitOfWorkFactory) TicketService {
	return &ticketService{
		uowFactory: uowFactory,
		now:        time.Now,
	}
}

func (s *ticketService) List(ctx context.Context, filter models.TicketFilter, page models.PageRequest) ([]*models.Ticket, models.Pagination, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tickets, total, err := uow.TicketRepository().List(ctx, filter, page)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, models.NewPagination(page, total), nil
}

// Create numbers the ticket from the sequence and records the caller as its creator
func (s *ticketService) Create(ctx context.Context, ticket *models.Ticket, creator models.Identity) (*models.Ticket, error) {
	if err := required(
		[2]string{"subject", ticket.Subject},
		[2]string{"description", ticket.Description},
		[2]string{"category", ticket.Category},
	); err != nil {
		return nil, err
	}
	if !oneOf(ticket.Category, models.TicketCategories) {
		return nil, NewValidationError("category", "must be one of %v", models.TicketCategories)
	}
	if ticket.Priority == "" {
		ticket.Priority = "Medium"
	}
	if !oneOf(ticket.Priority, ticketPriorities) {
		return nil, NewValidationError("priority", "must be one of %v", ticketPriorities)
	}
	creatorID, err := uuid.Parse(creator.UserID)
	if err != nil {
		return nil, fmt.Errorf("ticket creator %q: %w", creator.UserID, ErrUnauthorized)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	seq, err := uow.TicketRepository().NextNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate ticket number: %w", err)
	}

	ticket.Number = models.FormatTicketNumber(s.now().Year(), seq)
	ticket.CreatedBy = creatorID
	ticket.Status = models.TicketStatusOpen

	if err := uow.TicketRepository().Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"ticketNumber": ticket.Number,
		"createdBy":    creatorID,
		"priority":     ticket.Priority,
	}).Info("Ticket created")
	return ticket, nil
}

// Update applies whitelisted changes; moving to Resolved stamps resolved_at
func (s *ticketService) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Ticket, error) {
	fields, err := coerceUpdates(models.TicketFields, updates)
	if err != nil {
		return nil, err
	}
	if status, ok := fields["status"].(string); ok {
		if !oneOf(status, ticketStatuses) {
			return nil, NewValidationError("status", "must be one of %v", ticketStatuses)
		}
		if status == models.TicketStatusResolved {
			fields["resolved_at"] = s.now().UTC()
		}
	}
	if priority, ok := fields["priority"].(string); ok && !oneOf(priority, ticketPriorities) {
		return nil, NewValidationError("priority", "must be one of %v", ticketPriorities)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ticket, err := uow.TicketRepository().Update(ctx, id, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to update ticket: %w", err)
	}
	if ticket == nil {
		return nil, notFound("ticket", id)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return ticket, nil
}
