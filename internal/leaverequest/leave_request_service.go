package leaverequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"mime/multipart"
	"time"

	"go-leave/internal/balance"
	"go-leave/internal/document"
	"go-leave/internal/events"
	leaverequesterrors "go-leave/internal/leaverequest/errors"
	"go-leave/internal/messaging/kafka"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_request_service.go -destination=mock/leave_request_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, userID string, req CreateLeaveRequestRequest, files []*multipart.FileHeader) (LeaveRequestResponse, error)
	GetAll(ctx context.Context, userID, role string) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, userID, role, id string) (LeaveRequestResponse, error)
	Approve(ctx context.Context, approverID, id string, req DecisionRequest) (LeaveRequestResponse, error)
	Reject(ctx context.Context, approverID, id string, req DecisionRequest) (LeaveRequestResponse, error)
}

type service struct {
	db         *sql.DB
	repo       Repository
	validator  *Validator
	balanceSvc balance.Service
	userRepo   user.Repository
	documents  document.Store
	outbox     kafka.OutboxRepository
	logger     *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	validator *Validator,
	balanceSvc balance.Service,
	userRepo user.Repository,
	documents document.Store,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{
		db:         db,
		repo:       repo,
		validator:  validator,
		balanceSvc: balanceSvc,
		userRepo:   userRepo,
		documents:  documents,
		outbox:     outbox,
		logger:     l,
	}
}

func (s *service) Create(ctx context.Context, userID string, req CreateLeaveRequestRequest, files []*multipart.FileHeader) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create leave request",
		zap.String("request_id", rid),
		zap.String("user_id", userID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidUserID
	}

	validated, err := s.validator.Validate(ctx, userID, req, time.Now().UTC())
	if err != nil {
		s.logger.Warn("leave request validation failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	var docURLs []string
	if len(files) > 0 {
		if s.documents == nil {
			return LeaveRequestResponse{}, document.ErrStoreFailure
		}
		docURLs, err = s.documents.StoreMany(ctx, files)
		if err != nil {
			s.logger.Error("store leave documents failed",
				zap.String("user_id", userID),
				zap.Int("files", len(files)),
				zap.Error(err),
			)
			return LeaveRequestResponse{}, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr := &LeaveRequest{
		ID:            uuid.New(),
		UserID:        userUUID,
		LeaveTypeID:   validated.leaveType.ID,
		StartDate:     validated.startDate,
		EndDate:       validated.endDate,
		DaysRequested: validated.duration,
		Reason:        req.Reason,
		Status:        StatusPending,
		DocumentURLs:  docURLs,
	}

	if err := qtx.Create(ctx, lr); err != nil {
		s.logger.Error("create leave request persist failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if err := s.queueLifecycleEvent(ctx, tx, rid, lr, events.EventTypeLeaveRequestSubmitted, nil); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave request commit failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request created",
		zap.String("leave_request_id", lr.ID.String()),
		zap.String("user_id", userID),
		zap.String("days", lr.DaysRequested.String()),
	)

	resp := mapToResponse(*lr)
	resp.LeaveType = validated.leaveType.Name
	return resp, nil
}

func (s *service) GetAll(ctx context.Context, userID, role string) ([]LeaveRequestResponse, error) {
	var (
		requests []LeaveRequest
		err      error
	)
	// Approver roles see everyone's requests, requesters only their own.
	if role == user.RoleManager || role == user.RoleAdmin {
		requests, err = s.repo.FindAll(ctx)
	} else {
		requests, err = s.repo.FindAllByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return mapToListResponse(requests), nil
}

func (s *service) GetByID(ctx context.Context, userID, role, id string) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}

	lr, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	if lr.UserID.String() != userID && role != user.RoleManager && role != user.RoleAdmin {
		return LeaveRequestResponse{}, apperror.ErrForbidden
	}

	return mapToResponse(*lr), nil
}

func (s *service) Approve(ctx context.Context, approverID, id string, req DecisionRequest) (LeaveRequestResponse, error) {
	return s.decide(ctx, approverID, id, req.Comment, true)
}

func (s *service) Reject(ctx context.Context, approverID, id string, req DecisionRequest) (LeaveRequestResponse, error) {
	return s.decide(ctx, approverID, id, req.Comment, false)
}

// decide runs the approval state machine. The request row and, on
// approval, the balance row commit in one transaction: the debit here is
// the authoritative gate, submission-time validation may be stale by now.
func (s *service) decide(ctx context.Context, approverID, id, comment string, approve bool) (LeaveRequestResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidApproverID
	}
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidRequestID
	}

	approver, err := s.userRepo.FindByID(ctx, approverID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrApproverNotAllowed
		}
		return LeaveRequestResponse{}, err
	}
	// A deactivated account keeps its role; it must not keep the authority.
	if !approver.Active || !approver.IsApprover() {
		return LeaveRequestResponse{}, leaverequesterrors.ErrApproverNotAllowed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("decide leave request begin tx failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	lr, err := qtx.FindByIDForUpdate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
		}
		return LeaveRequestResponse{}, err
	}

	if lr.UserID == approverUUID {
		return LeaveRequestResponse{}, leaverequesterrors.ErrSelfApproval
	}

	now := time.Now().UTC()
	eventType := events.EventTypeLeaveRequestRejected
	if approve {
		eventType = events.EventTypeLeaveRequestApproved

		if err := lr.Approve(approverUUID, comment, now); err != nil {
			return LeaveRequestResponse{}, err
		}

		// Recomputed rather than trusted from the stored row.
		duration := inclusiveDays(lr.StartDate, lr.EndDate)
		if err := s.balanceSvc.DebitTx(ctx, tx, lr.UserID.String(), lr.LeaveTypeID.String(), duration); err != nil {
			return LeaveRequestResponse{}, err
		}
	} else {
		if err := lr.Reject(approverUUID, comment, now); err != nil {
			return LeaveRequestResponse{}, err
		}
	}

	if err := qtx.Update(ctx, lr); err != nil {
		s.logger.Error("decide leave request persist failed",
			zap.String("leave_request_id", id),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	if err := s.queueLifecycleEvent(ctx, tx, rid, lr, eventType, &approverID); err != nil {
		return LeaveRequestResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("decide leave request commit failed",
			zap.String("leave_request_id", id),
			zap.Error(err),
		)
		return LeaveRequestResponse{}, err
	}

	if approve {
		s.balanceSvc.InvalidateCache(ctx, lr.UserID.String())
	}

	s.logger.Info("leave request decided",
		zap.String("leave_request_id", id),
		zap.String("status", lr.Status),
		zap.String("approver_id", approverID),
	)

	return mapToResponse(*lr), nil
}

func (s *service) queueLifecycleEvent(ctx context.Context, tx *sql.Tx, rid string, lr *LeaveRequest, eventType string, approverID *string) error {
	if s.outbox == nil {
		return nil
	}

	event := events.LeaveRequestLifecycleEvent{
		EventType:   eventType,
		RequestID:   lr.ID.String(),
		UserID:      lr.UserID.String(),
		LeaveTypeID: lr.LeaveTypeID.String(),
		Status:      lr.Status,
		StartDate:   lr.StartDate.Format("2006-01-02"),
		EndDate:     lr.EndDate.Format("2006-01-02"),
		Days:        lr.DaysRequested.String(),
		OccurredAt:  time.Now().UTC(),
	}
	if approverID != nil {
		event.ApproverID = *approverID
	}
	if lr.ApproverComment != nil {
		event.Comment = *lr.ApproverComment
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal lifecycle event failed",
			zap.String("leave_request_id", lr.ID.String()),
			zap.Error(err),
		)
		return err
	}

	outboxEvent := kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "leave_request",
		AggregateID:   lr.ID.String(),
		EventType:     eventType,
		Topic:         events.LeaveRequestLifecycleTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}
	if err := kafka.ValidateOutboxEvent(outboxEvent); err != nil {
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		s.logger.Error("queue lifecycle event failed",
			zap.String("leave_request_id", lr.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}
