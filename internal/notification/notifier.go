package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"go-leave/internal/events"

	"go.uber.org/zap"
)

// Notifier delivers lifecycle notifications to the requester. Delivery
// is fire-and-forget: a failure is logged and never retried into the
// workflow.
//
//go:generate mockgen -source=notifier.go -destination=mock/notifier_mock.go -package=mock
type Notifier interface {
	Notify(ctx context.Context, event events.LeaveRequestLifecycleEvent, recipientEmail string) error
}

type notifier struct {
	webhookURL string
	client     *http.Client
	logger     *zap.Logger
}

// NewNotifier reads NOTIFY_WEBHOOK_URL; when unset, notifications are
// log-only.
func NewNotifier(logger ...*zap.Logger) Notifier {
	l := zap.L().Named("notification")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification")
	}
	return &notifier{
		webhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		client:     &http.Client{Timeout: 5 * time.Second},
		logger:     l,
	}
}

func (n *notifier) Notify(ctx context.Context, event events.LeaveRequestLifecycleEvent, recipientEmail string) error {
	n.logger.Info("leave request notification",
		zap.String("event_type", event.EventType),
		zap.String("leave_request_id", event.RequestID),
		zap.String("recipient", recipientEmail),
		zap.String("status", event.Status),
		zap.String("days", event.Days),
	)

	if n.webhookURL == "" {
		return nil
	}

	body := struct {
		Recipient string                            `json:"recipient"`
		Event     events.LeaveRequestLifecycleEvent `json:"event"`
	}{
		Recipient: recipientEmail,
		Event:     event,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("notification webhook returned status %d", resp.StatusCode)
}
