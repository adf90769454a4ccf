package account

import (
	"context"
	"fmt"

	"github.com/payplan/payplan/pkg/user"
)

type Service interface {
	CreateAccount(ctx context.Context, name string) (BudgetAccount, error)
	GetAccount(ctx context.Context, accountId int) (BudgetAccount, error)
	ListAccounts(ctx context.Context) ([]BudgetAccount, error)
	AddMember(ctx context.Context, accountId int, userId int) error
	ListMembers(ctx context.Context, accountId int) ([]Member, error)
	RequireMember(ctx context.Context, accountId int) (int, error)
}

type ServiceImpl struct {
	repo Repository
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo}
}

func (s *ServiceImpl) CreateAccount(ctx context.Context, name string) (BudgetAccount, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return BudgetAccount{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.CreateAccount(ctx, name, userId)
}

func (s *ServiceImpl) GetAccount(ctx context.Context, accountId int) (BudgetAccount, error) {
	if _, err := s.RequireMember(ctx, accountId); err != nil {
		return BudgetAccount{}, err
	}
	return s.repo.GetAccount(ctx, accountId)
}

func (s *ServiceImpl) ListAccounts(ctx context.Context) ([]BudgetAccount, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListAccountsForUser(ctx, userId)
}

func (s *ServiceImpl) AddMember(ctx context.Context, accountId int, userId int) error {
	if _, err := s.RequireMember(ctx, accountId); err != nil {
		return err
	}
	return s.repo.AddMember(ctx, accountId, userId)
}

func (s *ServiceImpl) ListMembers(ctx context.Context, accountId int) ([]Member, error) {
	if _, err := s.RequireMember(ctx, accountId); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(ctx, accountId)
}

// RequireMember verifies that the current user belongs to the given budget
// account and returns their user id. Every account-scoped operation calls
// this before touching any data.
func (s *ServiceImpl) RequireMember(ctx context.Context, accountId int) (int, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get current user: %w", err)
	}
	member, err := s.repo.IsMember(ctx, accountId, userId)
	if err != nil {
		return 0, fmt.Errorf("failed to check account membership: %w", err)
	}
	if !member {
		return 0, ErrNotMember
	}
	return userId, nil
}
