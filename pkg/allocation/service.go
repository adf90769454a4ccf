package allocation

import (
	"context"
	"errors"
	"time"

	"github.com/payplan/payplan/internal/dates"
	"github.com/payplan/payplan/internal/utils"
	"github.com/payplan/payplan/pkg/account"
	"github.com/shopspring/decimal"
)

type Service interface {
	Allocate(ctx context.Context, accountId int, instanceId int, paycheckId string, amount *decimal.Decimal, date *time.Time) error
	Update(ctx context.Context, accountId int, instanceId int, paycheckId string, amount *decimal.Decimal, date *time.Time, note string) error
	Unallocate(ctx context.Context, accountId int, instanceId int, paycheckId string) error
	Move(ctx context.Context, accountId int, instanceId int, fromPaycheckId string, toPaycheckId string, amount *decimal.Decimal, date *time.Time) error
	MarkPaid(ctx context.Context, accountId int, instanceId int, allocationId int, amount *decimal.Decimal, date *time.Time) error
	ListForWindow(ctx context.Context, accountId int, start dates.YearMonth, windowMonths int) ([]Allocation, error)
}

type ServiceImpl struct {
	repo           Repository
	accountService account.Service
	clock          utils.Clock
}

func NewService(repo Repository, accountService account.Service, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, accountService: accountService, clock: clock}
}

// Allocate assigns an instance to a paycheck. If an allocation for the pair
// already exists, including one created by a racing request, the call falls
// through to updating its amount and date instead of failing.
func (s *ServiceImpl) Allocate(ctx context.Context, accountId int, instanceId int, paycheckId string, amount *decimal.Decimal, date *time.Time) error {
	userId, err := s.accountService.RequireMember(ctx, accountId)
	if err != nil {
		return err
	}
	return s.createOrUpdate(ctx, userId, accountId, instanceId, paycheckId, amount, date)
}

func (s *ServiceImpl) createOrUpdate(ctx context.Context, userId int, accountId int, instanceId int, paycheckId string, amount *decimal.Decimal, date *time.Time) error {
	_, err := s.repo.CreateAllocation(ctx, Allocation{
		AccountId:     accountId,
		InstanceId:    instanceId,
		PaycheckId:    paycheckId,
		UserId:        userId,
		PaymentAmount: amount,
		PaymentDate:   date,
	})
	if !errors.Is(err, ErrDuplicateAllocation) {
		return err
	}
	existing, err := s.repo.GetByPair(ctx, accountId, instanceId, paycheckId)
	if err != nil {
		return err
	}
	existing.PaymentAmount = amount
	existing.PaymentDate = date
	_, err = s.repo.UpdateAllocation(ctx, existing)
	return err
}

// Update overwrites amount, date and note on an existing allocation. Unlike
// Allocate it does not create anything; a missing allocation is an error.
func (s *ServiceImpl) Update(ctx context.Context, accountId int, instanceId int, paycheckId string, amount *decimal.Decimal, date *time.Time, note string) error {
	if _, err := s.accountService.RequireMember(ctx, accountId); err != nil {
		return err
	}
	existing, err := s.repo.GetByPair(ctx, accountId, instanceId, paycheckId)
	if err != nil {
		return err
	}
	existing.PaymentAmount = amount
	existing.PaymentDate = date
	existing.Note = note
	_, err = s.repo.UpdateAllocation(ctx, existing)
	return err
}

// Unallocate removes the allocation for the pair. Deleting a missing
// allocation is a no-op.
func (s *ServiceImpl) Unallocate(ctx context.Context, accountId int, instanceId int, paycheckId string) error {
	if _, err := s.accountService.RequireMember(ctx, accountId); err != nil {
		return err
	}
	_, err := s.repo.DeleteByPair(ctx, accountId, instanceId, paycheckId)
	return err
}

// Move reassigns an instance from one paycheck to another: unallocate at the
// source, then allocate at the target with the given amount and date. An
// existing allocation at the target is updated rather than duplicated.
func (s *ServiceImpl) Move(ctx context.Context, accountId int, instanceId int, fromPaycheckId string, toPaycheckId string, amount *decimal.Decimal, date *time.Time) error {
	userId, err := s.accountService.RequireMember(ctx, accountId)
	if err != nil {
		return err
	}
	if _, err := s.repo.DeleteByPair(ctx, accountId, instanceId, fromPaycheckId); err != nil {
		return err
	}
	return s.createOrUpdate(ctx, userId, accountId, instanceId, toPaycheckId, amount, date)
}

// MarkPaid flags an allocation as paid, recording the payment date (today
// when omitted) and optionally a corrected amount, and appends a note line.
func (s *ServiceImpl) MarkPaid(ctx context.Context, accountId int, instanceId int, allocationId int, amount *decimal.Decimal, date *time.Time) error {
	if _, err := s.accountService.RequireMember(ctx, accountId); err != nil {
		return err
	}
	existing, err := s.repo.GetAllocation(ctx, accountId, allocationId)
	if err != nil {
		return err
	}
	if existing.InstanceId != instanceId {
		return ErrAllocationNotFound
	}

	paymentDate := utils.Today(s.clock)
	if date != nil {
		paymentDate = *date
	}
	existing.Paid = true
	existing.PaymentDate = &paymentDate
	if amount != nil {
		existing.PaymentAmount = amount
	}
	notice := "Marked paid on " + dates.Format(paymentDate)
	if existing.Note != "" {
		existing.Note += "\n" + notice
	} else {
		existing.Note = notice
	}
	_, err = s.repo.UpdateAllocation(ctx, existing)
	return err
}

func (s *ServiceImpl) ListForWindow(ctx context.Context, accountId int, start dates.YearMonth, windowMonths int) ([]Allocation, error) {
	if _, err := s.accountService.RequireMember(ctx, accountId); err != nil {
		return nil, err
	}
	return s.repo.ListForWindow(ctx, accountId, start, start.AddMonths(windowMonths))
}
