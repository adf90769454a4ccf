package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/payplan/payplan/internal/config"
	"github.com/payplan/payplan/internal/utils"
	"github.com/payplan/payplan/pkg/account"
	"github.com/payplan/payplan/pkg/allocation"
	"github.com/payplan/payplan/pkg/debt"
	"github.com/payplan/payplan/pkg/income"
	"github.com/payplan/payplan/pkg/paycheck"
	"github.com/payplan/payplan/pkg/planning"
	"github.com/payplan/payplan/pkg/user"
	"github.com/payplan/payplan/pkg/warning"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	UserService user.Service
	UserHandler *user.Handler

	AccountRepo    account.Repository
	AccountService account.Service
	AccountHandler *account.Handler

	IncomeRepo    income.Repository
	IncomeService income.Service
	IncomeHandler *income.Handler

	PaycheckService paycheck.Service
	PaycheckHandler *paycheck.Handler

	DebtRepo    debt.Repository
	DebtService debt.Service
	DebtHandler *debt.Handler

	AllocationRepo    allocation.Repository
	AllocationService allocation.Service
	AllocationHandler *allocation.Handler

	WarningRepo    warning.Repository
	WarningService warning.Service
	WarningHandler *warning.Handler

	PlanningService planning.Service
	PlanningHandler *planning.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewService(user.NewRepo(db))
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.AccountRepo = account.NewRepository(db)
	deps.AccountService = account.NewService(deps.AccountRepo)
	deps.AccountHandler = account.NewHandler(deps.AccountService)

	deps.IncomeRepo = income.NewRepository(db)
	deps.IncomeService = income.NewService(deps.IncomeRepo)
	deps.IncomeHandler = income.NewHandler(deps.IncomeService)

	deps.PaycheckService = paycheck.NewService(deps.IncomeService)
	deps.PaycheckHandler = paycheck.NewHandler(deps.PaycheckService)

	deps.DebtRepo = debt.NewRepository(db)
	deps.DebtService = debt.NewService(deps.DebtRepo, deps.AccountService)
	deps.DebtHandler = debt.NewHandler(deps.DebtService)

	deps.AllocationRepo = allocation.NewRepository(db)
	deps.AllocationService = allocation.NewService(deps.AllocationRepo, deps.AccountService, deps.Clock)
	deps.AllocationHandler = allocation.NewHandler(deps.AllocationService)

	deps.WarningRepo = warning.NewRepository(db)
	deps.WarningService = warning.NewService(deps.WarningRepo, deps.AccountService)
	deps.WarningHandler = warning.NewHandler(deps.WarningService)

	deps.PlanningService = planning.NewService(deps.AccountService, deps.DebtService, deps.PaycheckService, deps.AllocationService, deps.WarningService)
	deps.PlanningHandler = planning.NewHandler(deps.PlanningService)

	return deps
}
