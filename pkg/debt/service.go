package debt

import (
	"context"
	"errors"
	"fmt"

	"github.com/payplan/payplan/internal/dates"
	"github.com/payplan/payplan/pkg/account"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	CreateDebt(ctx context.Context, d Debt) (Debt, error)
	GetDebt(ctx context.Context, debtId int) (Debt, error)
	ListDebts(ctx context.Context, accountId int) ([]Debt, error)
	UpdateDebt(ctx context.Context, d Debt) (Debt, error)
	PopulateMonthlyInstances(ctx context.Context, accountId int, start dates.YearMonth, windowMonths int) error
	ListInstancesForWindow(ctx context.Context, accountId int, start dates.YearMonth, windowMonths int) ([]InstanceView, error)
	ListHiddenInstances(ctx context.Context, accountId int, start dates.YearMonth, windowMonths int) ([]InstanceView, error)
	SetInstanceActive(ctx context.Context, accountId int, instanceId int, isActive bool) error
}

type ServiceImpl struct {
	repo           Repository
	accountService account.Service
}

func NewService(repo Repository, accountService account.Service) *ServiceImpl {
	return &ServiceImpl{repo: repo, accountService: accountService}
}

func (s *ServiceImpl) CreateDebt(ctx context.Context, d Debt) (Debt, error) {
	if _, err := s.accountService.RequireMember(ctx, d.AccountId); err != nil {
		return Debt{}, err
	}
	return s.repo.CreateDebt(ctx, d)
}

func (s *ServiceImpl) GetDebt(ctx context.Context, debtId int) (Debt, error) {
	d, err := s.repo.GetDebt(ctx, debtId)
	if err != nil {
		return Debt{}, err
	}
	if _, err := s.accountService.RequireMember(ctx, d.AccountId); err != nil {
		return Debt{}, err
	}
	return d, nil
}

func (s *ServiceImpl) ListDebts(ctx context.Context, accountId int) ([]Debt, error) {
	if _, err := s.accountService.RequireMember(ctx, accountId); err != nil {
		return nil, err
	}
	return s.repo.ListDebts(ctx, accountId)
}

func (s *ServiceImpl) UpdateDebt(ctx context.Context, d Debt) (Debt, error) {
	if _, err := s.accountService.RequireMember(ctx, d.AccountId); err != nil {
		return Debt{}, err
	}
	return s.repo.UpdateDebt(ctx, d)
}

type instanceKey struct {
	debtId int
	year   int
	month  int
}

// PopulateMonthlyInstances expands every debt template of the account into
// monthly instances for the months start..start+windowMonths inclusive. It is
// idempotent and safe to call concurrently: existing instances are skipped up
// front, and an insert losing the race to another populate run is treated as
// already done.
func (s *ServiceImpl) PopulateMonthlyInstances(ctx context.Context, accountId int, start dates.YearMonth, windowMonths int) error {
	if _, err := s.accountService.RequireMember(ctx, accountId); err != nil {
		return err
	}

	debts, err := s.repo.ListDebts(ctx, accountId)
	if err != nil {
		return fmt.Errorf("failed to load debts: %w", err)
	}
	existing, err := s.repo.ListInstances(ctx, accountId)
	if err != nil {
		return fmt.Errorf("failed to load existing instances: %w", err)
	}

	known := make(map[instanceKey]bool, len(existing))
	for _, inst := range existing {
		known[instanceKey{inst.DebtId, inst.Year, inst.Month}] = true
	}

	for _, d := range debts {
		dueMonth := dates.YearMonthOf(d.DueDate)
		dayOfMonth := d.DueDate.Day()
		for offset := 0; offset <= windowMonths; offset++ {
			target := start.AddMonths(offset)
			// A debt must not appear before its due-date month.
			if target.Before(dueMonth) {
				continue
			}
			key := instanceKey{d.Id, target.Year, target.Month}
			if known[key] {
				continue
			}
			_, err := s.repo.CreateInstance(ctx, MonthlyInstance{
				AccountId: accountId,
				DebtId:    d.Id,
				Year:      target.Year,
				Month:     target.Month,
				DueDate:   dates.DayInMonth(target, dayOfMonth),
				IsActive:  true,
			})
			if errors.Is(err, ErrDuplicateInstance) {
				log.Debugf("Monthly instance for debt %d in %s already created concurrently", d.Id, target)
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to create monthly instance: %w", err)
			}
			known[key] = true
		}
	}
	return nil
}

func (s *ServiceImpl) ListInstancesForWindow(ctx context.Context, accountId int, start dates.YearMonth, windowMonths int) ([]InstanceView, error) {
	return s.listWindow(ctx, accountId, start, windowMonths, true)
}

// ListHiddenInstances mirrors the planning query but returns the instances
// the user has hidden instead of the visible ones.
func (s *ServiceImpl) ListHiddenInstances(ctx context.Context, accountId int, start dates.YearMonth, windowMonths int) ([]InstanceView, error) {
	return s.listWindow(ctx, accountId, start, windowMonths, false)
}

func (s *ServiceImpl) listWindow(ctx context.Context, accountId int, start dates.YearMonth, windowMonths int, active bool) ([]InstanceView, error) {
	if _, err := s.accountService.RequireMember(ctx, accountId); err != nil {
		return nil, err
	}
	return s.repo.ListInstanceViews(ctx, accountId, start, start.AddMonths(windowMonths), active)
}

// SetInstanceActive flips the visibility of one instance. A missing instance
// is a no-op, matching the delete-like semantics of hiding.
func (s *ServiceImpl) SetInstanceActive(ctx context.Context, accountId int, instanceId int, isActive bool) error {
	if _, err := s.accountService.RequireMember(ctx, accountId); err != nil {
		return err
	}
	found, err := s.repo.SetInstanceActive(ctx, accountId, instanceId, isActive)
	if err != nil {
		return err
	}
	if !found {
		log.Debugf("Monthly instance %d not found in account %d, nothing to update", instanceId, accountId)
	}
	return nil
}
