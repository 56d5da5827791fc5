package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/pragyatmika/hrms-backend-go/internal/domain/notification"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/email"
	"github.com/pragyatmika/hrms-backend-go/internal/pkg/eventbus"
)

// EmailSink renders events into emails for their human recipient.
type EmailSink struct {
	email email.EmailService
}

func NewEmailSink(svc email.EmailService) *EmailSink {
	return &EmailSink{email: svc}
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Deliver(ctx context.Context, event notification.Event) error {
	switch e := event.(type) {
	case notification.ExceptionRequestCreated:
		if e.AdminEmail == "" {
			slog.Warn("no admin recipient configured, skipping exception request email", "request_id", e.RequestID)
			return nil
		}
		return s.email.SendExceptionRequest(e.AdminEmail, email.ExceptionRequestData{
			RequestID:    e.RequestID,
			EmployeeID:   e.EmployeeID,
			EmployeeName: e.EmployeeName,
			RequestType:  e.RequestType,
			Reason:       e.Reason,
			Latitude:     e.Latitude,
			Longitude:    e.Longitude,
		})
	case notification.RequestResolved:
		return s.email.SendRequestResolved(e.EmployeeOrgEmail, email.RequestResolvedData{
			EmployeeName:  e.EmployeeName,
			ResolverEmail: e.ResolverEmail,
			Status:        e.Status,
			RequestType:   e.RequestType,
			Date:          e.Date,
		})
	case notification.CredentialsIssued:
		return s.email.SendCredentials(e.PersonalEmail, email.CredentialsData{
			EmployeeName:      e.EmployeeName,
			EmployeeID:        e.EmployeeID,
			LoginEmail:        e.LoginEmail,
			TemporaryPassword: e.TemporaryPassword,
		})
	case notification.LeaveResolved:
		return s.email.SendLeaveResolved(e.EmployeeOrgEmail, email.LeaveResolvedData{
			EmployeeName:  e.EmployeeName,
			ResolverEmail: e.ResolverEmail,
			Status:        e.Status,
			Category:      e.Category,
			FromDate:      e.FromDate,
			ToDate:        e.ToDate,
		})
	default:
		return fmt.Errorf("%w: %s", notification.ErrUnsupportedEvent, event.Type())
	}
}

// PubSubSink publishes every event as JSON for downstream consumers.
type PubSubSink struct {
	publisher eventbus.Publisher
}

func NewPubSubSink(p eventbus.Publisher) *PubSubSink {
	return &PubSubSink{publisher: p}
}

func (s *PubSubSink) Name() string { return "pubsub" }

func (s *PubSubSink) Deliver(ctx context.Context, event notification.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", event.Type(), err)
	}
	_, err = s.publisher.Publish(ctx, string(event.Type()), data)
	return err
}
