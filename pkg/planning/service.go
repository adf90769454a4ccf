package planning

import (
	"context"
	"fmt"

	"github.com/payplan/payplan/internal/dates"
	"github.com/payplan/payplan/pkg/account"
	"github.com/payplan/payplan/pkg/allocation"
	"github.com/payplan/payplan/pkg/debt"
	"github.com/payplan/payplan/pkg/paycheck"
	"github.com/payplan/payplan/pkg/warning"
)

// PlanningData is the full planning picture for one account, month and
// window: the current user's paychecks with their allocations, the visible
// debt instances, and the warnings the user has not dismissed.
type PlanningData struct {
	CurrentMonth []allocation.PaycheckView
	Future       []allocation.PaycheckView
	Instances    []debt.InstanceView
	Warnings     []warning.Warning
}

type Service interface {
	GetPlanningData(ctx context.Context, accountId int, start dates.YearMonth, windowMonths int) (PlanningData, error)
}

type ServiceImpl struct {
	accountService    account.Service
	debtService       debt.Service
	paycheckService   paycheck.Service
	allocationService allocation.Service
	warningService    warning.Service
}

func NewService(
	accountService account.Service,
	debtService debt.Service,
	paycheckService paycheck.Service,
	allocationService allocation.Service,
	warningService warning.Service,
) *ServiceImpl {
	return &ServiceImpl{
		accountService:    accountService,
		debtService:       debtService,
		paycheckService:   paycheckService,
		allocationService: allocationService,
		warningService:    warningService,
	}
}

// GetPlanningData ensures the window's instances exist, projects the current
// user's paychecks over it, joins the stored allocations onto them and
// evaluates warnings over the combined result. The steps are not one
// transaction; a failure aborts the rest and the caller simply retries the
// request.
func (s *ServiceImpl) GetPlanningData(ctx context.Context, accountId int, start dates.YearMonth, windowMonths int) (PlanningData, error) {
	if _, err := s.accountService.RequireMember(ctx, accountId); err != nil {
		return PlanningData{}, err
	}

	if err := s.debtService.PopulateMonthlyInstances(ctx, accountId, start, windowMonths); err != nil {
		return PlanningData{}, fmt.Errorf("failed to populate monthly instances: %w", err)
	}

	projection, err := s.paycheckService.ProjectPaychecks(ctx, start, windowMonths)
	if err != nil {
		return PlanningData{}, fmt.Errorf("failed to project paychecks: %w", err)
	}

	instances, err := s.debtService.ListInstancesForWindow(ctx, accountId, start, windowMonths)
	if err != nil {
		return PlanningData{}, fmt.Errorf("failed to load debt instances: %w", err)
	}

	allocations, err := s.allocationService.ListForWindow(ctx, accountId, start, windowMonths)
	if err != nil {
		return PlanningData{}, fmt.Errorf("failed to load allocations: %w", err)
	}

	warnings, err := s.warningService.FilterDismissed(ctx, accountId,
		warning.Evaluate(projection.All(), instances, allocations))
	if err != nil {
		return PlanningData{}, fmt.Errorf("failed to filter dismissed warnings: %w", err)
	}

	return PlanningData{
		CurrentMonth: allocation.BuildPaycheckViews(projection.CurrentMonth, instances, allocations),
		Future:       allocation.BuildPaycheckViews(projection.Future, instances, allocations),
		Instances:    instances,
		Warnings:     warnings,
	}, nil
}
