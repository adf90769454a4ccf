package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetCurrentUser(ctx context.Context) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateCurrentUser(ctx context.Context, username string, displayName string) (User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
}

type ServiceImpl struct {
	repo Repo
}

func NewService(repo Repo) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) CreateUser(ctx context.Context, u User) (User, error) {
	u.Uid = uuid.NewString()
	return s.repo.CreateUser(ctx, u)
}

func (s *ServiceImpl) GetCurrentUser(ctx context.Context) (User, error) {
	userId, err := CurrentId(ctx)
	if err != nil {
		return User{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetUser(ctx, userId)
}

func (s *ServiceImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	return s.repo.GetUserByUid(ctx, uid)
}

func (s *ServiceImpl) UpdateCurrentUser(ctx context.Context, username string, displayName string) (User, error) {
	current, err := s.GetCurrentUser(ctx)
	if err != nil {
		return User{}, err
	}
	current.Username = username
	current.DisplayName = displayName
	return s.repo.UpdateUser(ctx, current)
}

func (s *ServiceImpl) GetAllUsers(ctx context.Context) ([]User, error) {
	return s.repo.GetAllUsers(ctx)
}
