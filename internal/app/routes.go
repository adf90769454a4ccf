package app

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/payplan/payplan/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Planning
	r.HandleFunc("/api/planning", deps.PlanningHandler.GetPlanningData).Methods("GET")
	r.HandleFunc("/api/planning/paychecks", deps.PaycheckHandler.GetProjectedPaychecks).Methods("GET")

	// Income sources
	r.HandleFunc("/api/income", deps.IncomeHandler.CreateSource).Methods("POST")
	r.HandleFunc("/api/income", deps.IncomeHandler.ListSources).Methods("GET")
	r.HandleFunc("/api/income/{incomeId}", deps.IncomeHandler.GetSource).Methods("GET")
	r.HandleFunc("/api/income/{incomeId}", deps.IncomeHandler.UpdateSource).Methods("PUT")

	// Debts and their monthly instances
	r.HandleFunc("/api/debt", deps.DebtHandler.CreateDebt).Methods("POST")
	r.HandleFunc("/api/debt", deps.DebtHandler.ListDebts).Methods("GET")
	r.HandleFunc("/api/debt/instance/populate", deps.DebtHandler.PopulateInstances).Methods("POST")
	r.HandleFunc("/api/debt/instance/hidden", deps.DebtHandler.GetHiddenInstances).Methods("GET")
	r.HandleFunc("/api/debt/instance/{instanceId}/active", deps.DebtHandler.SetInstanceActive).Methods("PUT")
	r.HandleFunc("/api/debt/{debtId}", deps.DebtHandler.UpdateDebt).Methods("PUT")

	// Allocations
	r.HandleFunc("/api/allocation", deps.AllocationHandler.Allocate).Methods("POST")
	r.HandleFunc("/api/allocation", deps.AllocationHandler.Update).Methods("PUT")
	r.HandleFunc("/api/allocation", deps.AllocationHandler.Unallocate).Methods("DELETE")
	r.HandleFunc("/api/allocation/move", deps.AllocationHandler.Move).Methods("POST")
	r.HandleFunc("/api/allocation/{allocationId}/paid", deps.AllocationHandler.MarkPaid).Methods("POST")

	// Warnings
	r.HandleFunc("/api/warning/dismiss", deps.WarningHandler.Dismiss).Methods("POST")

	// Budget accounts
	r.HandleFunc("/api/account", deps.AccountHandler.CreateAccount).Methods("POST")
	r.HandleFunc("/api/account", deps.AccountHandler.ListAccounts).Methods("GET")
	r.HandleFunc("/api/account/{accountId}/member", deps.AccountHandler.AddMember).Methods("POST")
	r.HandleFunc("/api/account/{accountId}/member", deps.AccountHandler.ListMembers).Methods("GET")

	// User management
	r.HandleFunc("/api/user/current", deps.UserHandler.GetCurrentUser).Methods("GET")
	r.HandleFunc("/api/user/current", deps.UserHandler.UpdateCurrentUser).Methods("PUT")
	r.HandleFunc("/api/user", deps.UserHandler.CreateUser).Methods("POST")
	r.HandleFunc("/api/user", deps.UserHandler.GetAvailableUsers).Methods("GET")

	r.HandleFunc("/api/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
}
