package paycheck

import (
	"context"

	"github.com/payplan/payplan/internal/dates"
	"github.com/payplan/payplan/pkg/income"
)

type Service interface {
	ProjectPaychecks(ctx context.Context, target dates.YearMonth, lookaheadMonths int) (Projection, error)
}

type ServiceImpl struct {
	incomeService income.Service
}

func NewService(incomeService income.Service) *ServiceImpl {
	return &ServiceImpl{incomeService: incomeService}
}

// ProjectPaychecks projects the current user's active income sources over the
// target month plus the lookahead window.
func (s *ServiceImpl) ProjectPaychecks(ctx context.Context, target dates.YearMonth, lookaheadMonths int) (Projection, error) {
	sources, err := s.incomeService.ListActiveSources(ctx)
	if err != nil {
		return Projection{}, err
	}
	return Project(sources, target, lookaheadMonths), nil
}
