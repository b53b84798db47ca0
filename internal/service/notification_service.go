package service

import (
	"context"
	"log/slog"
	"time"

	"go-blog-ai/internal/event"
	"go-blog-ai/internal/mailer"
)

const mailSendTimeout = 30 * time.Second

// NotificationService turns bus events into e-mails.
type NotificationService struct {
	bus    event.Bus
	mailer mailer.Mailer
}

func NewNotificationService(bus event.Bus, m mailer.Mailer) *NotificationService {
	return &NotificationService{bus: bus, mailer: m}
}

// Start subscribes to the bus and delivers mail in a background goroutine
// until ctx is cancelled. The returned channel closes when the loop exits.
func (s *NotificationService) Start(ctx context.Context) <-chan struct{} {
	events, unsubscribe := s.bus.Subscribe()
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer unsubscribe()
		s.run(ctx, events)
	}()

	return done
}

func (s *NotificationService) run(ctx context.Context, events <-chan event.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			s.handle(ctx, e)
		}
	}
}

func (s *NotificationService) handle(ctx context.Context, e event.Event) {
	var msg mailer.Message

	switch payload := e.Payload.(type) {
	case event.AccountCreated:
		msg = mailer.Welcome(payload.Email, payload.Name)
	case event.PostShared:
		msg = mailer.SharedPost(payload.Recipient, payload.SharedBy, payload.Title, payload.Excerpt)
	default:
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, mailSendTimeout)
	defer cancel()

	if err := s.mailer.Send(sendCtx, msg); err != nil {
		slog.Error("notification not delivered", "event_type", e.Type, "event_id", e.ID, "error", err)
	}
}
