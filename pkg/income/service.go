package income

import (
	"context"
	"fmt"

	"github.com/payplan/payplan/pkg/user"
)

type Service interface {
	CreateSource(ctx context.Context, src Source) (Source, error)
	GetSource(ctx context.Context, sourceId int) (Source, error)
	ListSources(ctx context.Context) ([]Source, error)
	ListActiveSources(ctx context.Context) ([]Source, error)
	UpdateSource(ctx context.Context, src Source) (Source, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) CreateSource(ctx context.Context, src Source) (Source, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Source{}, fmt.Errorf("failed to get current user: %w", err)
	}
	src.UserId = userId
	src.IsActive = true
	return s.repo.CreateSource(ctx, src)
}

func (s *ServiceImpl) GetSource(ctx context.Context, sourceId int) (Source, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return Source{}, fmt.Errorf("failed to get current user: %w", err)
	}
	src, err := s.repo.GetSource(ctx, sourceId)
	if err != nil {
		return Source{}, err
	}
	if src.UserId != userId {
		return Source{}, ErrSourceNotFound
	}
	return src, nil
}

func (s *ServiceImpl) ListSources(ctx context.Context) ([]Source, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListSourcesForUser(ctx, userId)
}

func (s *ServiceImpl) ListActiveSources(ctx context.Context) ([]Source, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListActiveForUser(ctx, userId)
}

func (s *ServiceImpl) UpdateSource(ctx context.Context, src Source) (Source, error) {
	existing, err := s.GetSource(ctx, src.Id)
	if err != nil {
		return Source{}, err
	}
	src.UserId = existing.UserId
	return s.repo.UpdateSource(ctx, src)
}
