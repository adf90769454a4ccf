package warning

import (
	"context"
	"errors"

	"github.com/payplan/payplan/pkg/account"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	Dismiss(ctx context.Context, accountId int, warningType Type, key string) error
	FilterDismissed(ctx context.Context, accountId int, warnings []Warning) ([]Warning, error)
}

type ServiceImpl struct {
	repo           Repository
	accountService account.Service
}

func NewService(repo Repository, accountService account.Service) *ServiceImpl {
	return &ServiceImpl{repo: repo, accountService: accountService}
}

// Dismiss suppresses a warning for the current user. Dismissing the same
// warning again changes nothing.
func (s *ServiceImpl) Dismiss(ctx context.Context, accountId int, warningType Type, key string) error {
	userId, err := s.accountService.RequireMember(ctx, accountId)
	if err != nil {
		return err
	}
	err = s.repo.CreateDismissal(ctx, Dismissal{
		AccountId: accountId,
		UserId:    userId,
		Type:      warningType,
		Key:       key,
	})
	if errors.Is(err, ErrDuplicateDismissal) {
		log.Debugf("Warning %s/%s already dismissed by user %d", warningType, key, userId)
		return nil
	}
	return err
}

// FilterDismissed removes the warnings the current user has dismissed.
func (s *ServiceImpl) FilterDismissed(ctx context.Context, accountId int, warnings []Warning) ([]Warning, error) {
	userId, err := s.accountService.RequireMember(ctx, accountId)
	if err != nil {
		return nil, err
	}
	dismissals, err := s.repo.ListDismissals(ctx, accountId, userId)
	if err != nil {
		return nil, err
	}
	return FilterDismissed(warnings, dismissals), nil
}
