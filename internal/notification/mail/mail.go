// Package mail emails shift owners when a manager acts on their shifts.
package mail

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"

	"github.com/resend/resend-go/v3"

	"github.com/frahmantamala/shift-scheduler/internal/core/events"
)

type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) Send(_ context.Context, to, subject, htmlBody string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("Shift Scheduler <%s>", s.from),
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	}
	_, err := s.client.Emails.Send(params)
	return err
}

// EmailLookup resolves the address stored on a user record.
type EmailLookup interface {
	EmailForUsername(ctx context.Context, username string) (string, error)
}

type Subscriber struct {
	sender Sender
	emails EmailLookup
	logger *slog.Logger
}

func NewSubscriber(sender Sender, emails EmailLookup, logger *slog.Logger) *Subscriber {
	return &Subscriber{sender: sender, emails: emails, logger: logger}
}

// Register attaches the subscriber to every shift decision event.
func (s *Subscriber) Register(bus *events.EventBus) {
	for _, t := range []string{events.EventTypeShiftApproved, events.EventTypeShiftRejected, events.EventTypeShiftDeleted} {
		bus.Subscribe(t, s.Handle)
	}
}

var subjects = map[string]string{
	events.EventTypeShiftApproved: "シフトが承認されました",
	events.EventTypeShiftRejected: "シフトが却下されました",
	events.EventTypeShiftDeleted:  "管理者によりシフトが削除されました",
}

func (s *Subscriber) Handle(ctx context.Context, event events.Event) error {
	ev, ok := event.(*events.ShiftReviewedEvent)
	if !ok {
		return errors.New("mail: unexpected event payload")
	}
	subject, ok := subjects[ev.EventType()]
	if !ok {
		return nil
	}

	to, err := s.emails.EmailForUsername(ctx, ev.Owner)
	if err != nil {
		return fmt.Errorf("mail: lookup %s: %w", ev.Owner, err)
	}
	if to == "" {
		s.logger.Debug("owner has no email address, skipping", "username", ev.Owner, "event_id", ev.EventID())
		return nil
	}

	body := fmt.Sprintf("<p>%s</p><p>%s %s-%s</p><p>担当: %s</p>",
		html.EscapeString(subject),
		html.EscapeString(ev.Date),
		html.EscapeString(ev.StartTime),
		html.EscapeString(ev.EndTime),
		html.EscapeString(ev.Actor))

	if err := s.sender.Send(ctx, to, subject, body); err != nil {
		return fmt.Errorf("mail: send to %s: %w", ev.Owner, err)
	}
	s.logger.Info("shift mail sent", "username", ev.Owner, "event_type", ev.EventType())
	return nil
}
