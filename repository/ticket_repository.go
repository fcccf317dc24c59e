package repository

import (
	"context"
	"fmt"

	"oversight/database"
	"oversight/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const ticketColumns = `ticket_id, ticket_number, entity_id, program_id, created_by, assigned_to, subject,
	description, category, priority, status, resolution, resolved_at, created_at, updated_at`

// TicketRepository implements the TicketRepository interface
type TicketRepository struct {
	q queryable
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{q: db.Pool}
}

// newTicketRepositoryWithTx creates a new ticket repository with a transaction
func newTicketRepositoryWithTx(tx queryable) *TicketRepository {
	return &TicketRepository{q: tx}
}

func ticketDest(t *models.Ticket) []any {
	return []any{
		&t.ID,
		&t.Number,
		&t.EntityID,
		&t.ProgramID,
		&t.CreatedBy,
		&t.AssignedTo,
		&t.Subject,
		&t.Description,
		&t.Category,
		&t.Priority,
		&t.Status,
		&t.Resolution,
		&t.ResolvedAt,
		&t.CreatedAt,
		&t.UpdatedAt,
	}
}

func scanTicket(row scanner) (*models.Ticket, error) {
	var t models.Ticket
	if err := row.Scan(ticketDest(&t)...); err != nil {
		return nil, err
	}
	return &t, nil
}

// List returns one page of tickets with their creator's name, newest first
func (r *TicketRepository) List(ctx context.Context, filter models.TicketFilter, page models.PageRequest) ([]*models.Ticket, int, error) {
	where := sq.And{}
	if filter.Status != "" {
		where = append(where, sq.Eq{"t.status": filter.Status})
	}
	if filter.Priority != "" {
		where = append(where, sq.Eq{"t.priority": filter.Priority})
	}

	total, err := queryCount(ctx, r.q, psql.Select("COUNT(*)").From("dga_tickets t").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	builder := psql.Select(
		"t.ticket_id", "t.ticket_number", "t.entity_id", "t.program_id", "t.created_by", "t.assigned_to",
		"t.subject", "t.description", "t.category", "t.priority", "t.status", "t.resolution",
		"t.resolved_at", "t.created_at", "t.updated_at", "COALESCE(u.full_name, '')",
	).
		From("dga_tickets t").
		LeftJoin("users u ON u.user_id = t.created_by").
		Where(where).
		OrderBy("t.created_at DESC").
		Limit(uint64(page.Limit)).
		Offset(uint64(page.Offset()))

	tickets, err := queryList(ctx, r.q, builder, func(row scanner) (*models.Ticket, error) {
		var t models.Ticket
		if err := row.Scan(append(ticketDest(&t), &t.CreatorName)...); err != nil {
			return nil, err
		}
		return &t, nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, total, nil
}

// GetByID retrieves a ticket by its ID
func (r *TicketRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM dga_tickets WHERE ticket_id = $1`

	ticket, err := scanTicket(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %s: %w", id, err)
	}
	return ticket, nil
}

// NextNumber draws the next value of the ticket number sequence
func (r *TicketRepository) NextNumber(ctx context.Context) (int64, error) {
	var seq int64
	if err := r.q.QueryRow(ctx, `SELECT nextval('dga_ticket_number_seq')`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("failed to draw ticket number: %w", err)
	}
	return seq, nil
}

// Create inserts a new ticket
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	query := `
		INSERT INTO dga_tickets (
			ticket_number, entity_id, program_id, created_by, assigned_to, subject,
			description, category, priority, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + ticketColumns

	created, err := scanTicket(r.q.QueryRow(ctx, query,
		ticket.Number,
		ticket.EntityID,
		ticket.ProgramID,
		ticket.CreatedBy,
		ticket.AssignedTo,
		ticket.Subject,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status,
	))
	if err != nil {
		return fmt.Errorf("failed to create ticket %s: %w", ticket.Number, err)
	}

	*ticket = *created
	return nil
}

// Update applies whitelisted column changes; the caller supplies resolved_at when resolving
func (r *TicketRepository) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*models.Ticket, error) {
	ticket, err := updateReturning(ctx, r.q, "dga_tickets", "ticket_id", id, fields, ticketColumns, scanTicket)
	if err != nil {
		return nil, fmt.Errorf("failed to update ticket %s: %w", id, err)
	}
	return ticket, nil
}
