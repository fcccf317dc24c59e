package service

import (
	"context"
	"fmt"

	"oversight/events"
	"oversight/models"

	log "github.com/sirupsen/logrus"
)

// SubscribeNotifications turns workflow and program status events into user notifications.
// Handlers run after the originating transaction committed, so a failure here only loses
// the notification.
func SubscribeNotifications(bus *events.Bus, notifications NotificationService) {
	send := func(ctx context.Context, event events.Event, req *models.NotificationRequest) {
		if len(req.UserIDs) == 0 {
			return
		}
		if _, err := notifications.Send(ctx, req); err != nil {
			log.WithError(err).WithField("event", event.Type()).Error("Failed to send event notification")
		}
	}

	bus.Subscribe(events.EventTypeWorkflowInitiated, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.WorkflowInitiatedEvent)
		if !ok {
			return
		}
		send(ctx, event, &models.NotificationRequest{
			UserIDs:  e.Approvers,
			Title:    "Approval required",
			Message:  fmt.Sprintf("A %s is awaiting your approval (workflow %s)", e.ItemType, e.WorkflowID),
			Type:     models.NotificationInfo,
			Priority: "high",
		})
	})

	bus.Subscribe(events.EventTypeWorkflowAdvanced, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.WorkflowAdvancedEvent)
		if !ok {
			return
		}
		send(ctx, event, &models.NotificationRequest{
			UserIDs:  e.Approvers,
			Title:    "Approval required",
			Message:  fmt.Sprintf("A %s reached approval level %d (workflow %s)", e.ItemType, e.Level, e.WorkflowID),
			Type:     models.NotificationInfo,
			Priority: "high",
		})
	})

	bus.Subscribe(events.EventTypeWorkflowChangesRequested, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.WorkflowChangesRequestedEvent)
		if !ok {
			return
		}
		send(ctx, event, &models.NotificationRequest{
			UserIDs:  []string{e.InitiatorID},
			Title:    "Changes requested",
			Message:  fmt.Sprintf("Changes were requested on your %s: %s", e.ItemType, e.Comments),
			Type:     models.NotificationWarning,
			Priority: "medium",
		})
	})

	bus.Subscribe(events.EventTypeWorkflowCompleted, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.WorkflowCompletedEvent)
		if !ok {
			return
		}
		req := &models.NotificationRequest{
			UserIDs:  []string{e.InitiatorID},
			Title:    "Workflow approved",
			Message:  fmt.Sprintf("Your %s was fully approved", e.ItemType),
			Type:     models.NotificationSuccess,
			Priority: "medium",
		}
		if e.Status == models.WorkflowStatusRejected {
			req.Title = "Workflow rejected"
			req.Message = fmt.Sprintf("Your %s was rejected", e.ItemType)
			if e.Comments != "" {
				req.Message += ": " + e.Comments
			}
			req.Type = models.NotificationAlert
		}
		send(ctx, event, req)
	})

	bus.Subscribe(events.EventTypeProgramStatusChanged, func(ctx context.Context, event events.Event) {
		e, ok := event.(events.ProgramStatusChangedEvent)
		if !ok || e.Director == nil {
			return
		}
		notificationType := models.NotificationSuccess
		if e.NewStatus == models.ProgramStatusDelayed {
			notificationType = models.NotificationWarning
		}
		entityID := e.EntityID
		send(ctx, event, &models.NotificationRequest{
			UserIDs:  []string{e.Director.String()},
			Title:    fmt.Sprintf("Program %s", e.NewStatus),
			Message:  fmt.Sprintf("%s moved from %s to %s: %s", e.ProgramName, e.OldStatus, e.NewStatus, e.Reason),
			Type:     notificationType,
			Priority: "medium",
			EntityID: &entityID,
		})
	})
}
