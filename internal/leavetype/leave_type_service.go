package leavetype

import (
	"context"
	"errors"

	"go-leave/internal/shared/apperror"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service is the read-only catalog lookup used by the validator, the
// accrual engine, and the catalog endpoint. Administrative mutation of
// the catalog is handled elsewhere.
type Service interface {
	GetAll(ctx context.Context) ([]LeaveTypeResponse, error)
	GetByName(ctx context.Context, name string) (LeaveTypeResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) GetAll(ctx context.Context) ([]LeaveTypeResponse, error) {
	types, err := s.repo.FindActive(ctx)
	if err != nil {
		s.logger.Error("get leave types failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(types), nil
}

func (s *service) GetByName(ctx context.Context, name string) (LeaveTypeResponse, error) {
	t, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, apperror.ErrNotFound
		}
		return LeaveTypeResponse{}, err
	}
	return mapToResponse(*t), nil
}
