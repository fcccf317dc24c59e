package service

import (
	"context"
	"fmt"

	"oversight/models"
)

type auditRecorder struct {
	uowFactory UnitOfWorkFactory
}

// NewAuditRecorder creates a recorder that writes each entry in its own transaction
func NewAuditRecorder(uowFactory UnitOfWorkFactory) AuditRecorder {
	return &auditRecorder{uowFactory: uowFactory}
}

func (r *auditRecorder) Record(ctx context.Context, entry *models.AuditEntry) error {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.AuditRepository().Record(ctx, entry); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return uow.Commit()
}
