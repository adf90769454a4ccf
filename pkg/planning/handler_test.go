package planning

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/payplan/payplan/internal/test_utils"
	"github.com/payplan/payplan/internal/utils"
	"github.com/payplan/payplan/pkg/account"
	"github.com/payplan/payplan/pkg/allocation"
	"github.com/payplan/payplan/pkg/debt"
	"github.com/payplan/payplan/pkg/income"
	"github.com/payplan/payplan/pkg/paycheck"
	"github.com/payplan/payplan/pkg/user"
	"github.com/payplan/payplan/pkg/warning"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A middleware that sets the user in the context
func withUser(u user.User, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := user.WithUser(r.Context(), u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Test setup helper
func setupHandlerTest(t *testing.T) (*Handler, *fixture) {
	t.Helper()
	ctx := test_utils.ContextWithTestUser(context.Background())
	accountService := account.NewService(account.NewStubRepository())
	acc, err := accountService.CreateAccount(ctx, "Household")
	require.NoError(t, err)

	incomeService := income.NewService(income.NewStubRepository())
	debtRepo := debt.NewStubRepository()
	debtService := debt.NewService(debtRepo, accountService)
	paycheckService := paycheck.NewService(incomeService)
	clock := &utils.MockClock{FixedNow: time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)}
	allocationService := allocation.NewService(allocation.NewStubRepository(), accountService, clock)
	warningService := warning.NewService(warning.NewStubRepository(), accountService)
	service := NewService(accountService, debtService, paycheckService, allocationService, warningService)

	f := &fixture{
		ctx:               ctx,
		accountId:         acc.Id,
		incomeService:     incomeService,
		debtRepo:          debtRepo,
		debtService:       debtService,
		allocationService: allocationService,
		warningService:    warningService,
		planning:          service,
	}
	return NewHandler(service), f
}

func TestGetPlanningData_MissingAccountId(t *testing.T) {
	// Setup
	handler, _ := setupHandlerTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/planning?year=2025&month=1", nil)
	w := httptest.NewRecorder()

	// Call the handler
	handler.GetPlanningData(w, req)

	// Verify response
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPlanningData_InvalidMonth(t *testing.T) {
	// Setup
	handler, f := setupHandlerTest(t)

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/planning?accountId=%d&year=2025&month=13", f.accountId), nil)
	w := httptest.NewRecorder()

	// Call the handler
	handler.GetPlanningData(w, req)

	// Verify response
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetPlanningData_UserAuthError(t *testing.T) {
	// Setup
	handler, f := setupHandlerTest(t)

	// Request with valid parameters but no user in the context
	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/planning?accountId=%d&year=2025&month=1", f.accountId), nil)
	w := httptest.NewRecorder()

	// Call the handler directly - no user in context
	handler.GetPlanningData(w, req)

	// Verify response
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetPlanningData_NotMember(t *testing.T) {
	// Setup
	handler, f := setupHandlerTest(t)

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/planning?accountId=%d&year=2025&month=1", f.accountId), nil)
	w := httptest.NewRecorder()

	// Call the handler as a user who is not a member of the account
	outsider := user.User{Id: 999, Username: "outsider"}
	middleware := withUser(outsider, http.HandlerFunc(handler.GetPlanningData))
	middleware.ServeHTTP(w, req)

	// Verify response
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestGetPlanningData_Success(t *testing.T) {
	// Setup
	handler, f := setupHandlerTest(t)
	f.addIncome(t, 5000)
	f.addDebt(t, 3000, "2025-01-15")

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/planning?accountId=%d&year=2025&month=1&window=0", f.accountId), nil)
	w := httptest.NewRecorder()

	middleware := withUser(test_utils.TestUser, http.HandlerFunc(handler.GetPlanningData))
	middleware.ServeHTTP(w, req)

	// Verify response
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var dto PlanningDataDTO
	err := json.NewDecoder(w.Body).Decode(&dto)
	assert.NoError(t, err)

	require.Len(t, dto.CurrentMonth, 1)
	assert.Equal(t, "1-2025-01-01", dto.CurrentMonth[0].Paycheck.Id)
	assert.Equal(t, "2025-01-01", dto.CurrentMonth[0].Paycheck.Date)
	assert.True(t, dto.CurrentMonth[0].RemainingAmount.Equal(decimal.NewFromInt(5000)))
	assert.Empty(t, dto.Future)
	require.Len(t, dto.Instances, 1)
	assert.Equal(t, "Rent", dto.Instances[0].DebtName)
	assert.Equal(t, "2025-01-15", dto.Instances[0].DueDate)
	assert.Empty(t, dto.Warnings)
}

func TestGetPlanningData_DefaultWindow(t *testing.T) {
	// Setup
	handler, f := setupHandlerTest(t)
	f.addIncome(t, 5000)
	f.addDebt(t, 3000, "2025-01-15")

	// No window parameter: the default lookahead of four months applies
	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/planning?accountId=%d&year=2025&month=1", f.accountId), nil)
	w := httptest.NewRecorder()

	middleware := withUser(test_utils.TestUser, http.HandlerFunc(handler.GetPlanningData))
	middleware.ServeHTTP(w, req)

	// Verify response
	assert.Equal(t, http.StatusOK, w.Code)

	var dto PlanningDataDTO
	err := json.NewDecoder(w.Body).Decode(&dto)
	assert.NoError(t, err)

	// One instance per month from January through May
	assert.Len(t, dto.Instances, 5)
	require.Len(t, dto.CurrentMonth, 1)
	assert.Len(t, dto.Future, 4)
}
