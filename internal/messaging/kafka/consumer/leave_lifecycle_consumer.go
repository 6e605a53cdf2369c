package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"go-leave/internal/events"
	"go-leave/internal/notification"
	"go-leave/internal/user"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Reader is the subset of *kafkago.Reader the consumer loop needs.
type Reader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeLeaveRequestLifecycle turns lifecycle events into requester
// notifications. Notification failures are logged and the message is
// committed anyway: the event stream never blocks on a broken mailbox.
func ConsumeLeaveRequestLifecycle(
	ctx context.Context,
	reader Reader,
	userRepo user.Repository,
	notifier notification.Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_lifecycle")
	log.Info("leave request lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave request lifecycle consumer stopped")
				return
			}
			log.Error("fetch leave lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveRequestLifecycleEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		// A submission goes to the manager who has to act on it;
		// a decision goes back to the requester.
		recipient := ""
		var u *user.User
		var lookupErr error
		if event.EventType == events.EventTypeLeaveRequestSubmitted {
			u, lookupErr = userRepo.FindManagerOf(ctx, event.UserID)
		} else {
			u, lookupErr = userRepo.FindByID(ctx, event.UserID)
		}
		switch {
		case lookupErr == nil:
			recipient = u.Email
		case errors.Is(lookupErr, gorm.ErrRecordNotFound):
			log.Warn("no notification recipient for lifecycle event",
				zap.String("event_type", event.EventType),
				zap.String("user_id", event.UserID),
				zap.String("leave_request_id", event.RequestID),
			)
		default:
			log.Error("resolve notification recipient failed",
				zap.String("user_id", event.UserID),
				zap.Error(lookupErr),
			)
			continue
		}

		if recipient != "" {
			if err := notifier.Notify(ctx, event, recipient); err != nil {
				log.Error("deliver leave notification failed",
					zap.String("leave_request_id", event.RequestID),
					zap.String("recipient", recipient),
					zap.Error(err),
				)
			}
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave lifecycle message failed", zap.Error(err))
			continue
		}

		log.Info("leave lifecycle event handled",
			zap.String("event_type", event.EventType),
			zap.String("leave_request_id", event.RequestID),
		)
	}
}
