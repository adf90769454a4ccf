package planning

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/payplan/payplan/internal/dates"
	"github.com/payplan/payplan/pkg/account"
	"github.com/payplan/payplan/pkg/allocation"
	"github.com/payplan/payplan/pkg/debt"
	"github.com/payplan/payplan/pkg/paycheck"
	"github.com/payplan/payplan/pkg/user"
	"github.com/payplan/payplan/pkg/warning"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type AllocatedDebtDTO struct {
	AllocationId    int             `json:"allocationId"`
	InstanceId      int             `json:"instanceId"`
	DebtId          int             `json:"debtId"`
	DebtName        string          `json:"debtName"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentDate     string          `json:"paymentDate,omitempty"`
	Paid            bool            `json:"paid"`
	Note            string          `json:"note,omitempty"`
	DueDate         string          `json:"dueDate"`
	TemplateDueDate string          `json:"templateDueDate"`
}

type PaycheckViewDTO struct {
	Paycheck        paycheck.PaycheckDTO `json:"paycheck"`
	AllocatedDebts  []AllocatedDebtDTO   `json:"allocatedDebts"`
	RemainingAmount decimal.Decimal      `json:"remainingAmount"`
}

type PlanningDataDTO struct {
	CurrentMonth []PaycheckViewDTO      `json:"currentMonth"`
	Future       []PaycheckViewDTO      `json:"future"`
	Instances    []debt.InstanceViewDTO `json:"instances"`
	Warnings     []warning.WarningDTO   `json:"warnings"`
}

func formatOptionalDate(d *time.Time) string {
	if d == nil {
		return ""
	}
	return dates.Format(*d)
}

func toViewDTOs(views []allocation.PaycheckView) []PaycheckViewDTO {
	dtos := make([]PaycheckViewDTO, 0, len(views))
	for _, v := range views {
		entries := make([]AllocatedDebtDTO, 0, len(v.AllocatedDebts))
		for _, d := range v.AllocatedDebts {
			entries = append(entries, AllocatedDebtDTO{
				AllocationId:    d.AllocationId,
				InstanceId:      d.InstanceId,
				DebtId:          d.DebtId,
				DebtName:        d.DebtName,
				Amount:          d.Amount,
				PaymentDate:     formatOptionalDate(d.PaymentDate),
				Paid:            d.Paid,
				Note:            d.Note,
				DueDate:         dates.Format(d.DueDate),
				TemplateDueDate: dates.Format(d.TemplateDueDate),
			})
		}
		dtos = append(dtos, PaycheckViewDTO{
			Paycheck:        paycheck.ToDTO(v.Paycheck),
			AllocatedDebts:  entries,
			RemainingAmount: v.RemainingAmount,
		})
	}
	return dtos
}

// @Summary Get the full planning view
// @Description Populate instances, project paychecks, join allocations, and evaluate warnings for one account, month, and lookahead window
// @Tags Planning
// @Produce json
// @Param accountId query int true "Budget account id"
// @Param year query int true "Target year"
// @Param month query int true "Target month (1-12)"
// @Param window query int false "Lookahead months, defaults to 4"
// @Success 200 {object} PlanningDataDTO
// @Failure 400 {string} string "Invalid request"
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "Forbidden"
// @Router /api/planning [get]
// @Security XUserId
func (h *Handler) GetPlanningData(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	accountId, err := strconv.Atoi(query.Get("accountId"))
	if err != nil {
		http.Error(w, "accountId query parameter is required", http.StatusBadRequest)
		return
	}
	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		http.Error(w, "year query parameter is required", http.StatusBadRequest)
		return
	}
	month, err := strconv.Atoi(query.Get("month"))
	if err != nil || month < 1 || month > 12 {
		http.Error(w, "month query parameter must be 1-12", http.StatusBadRequest)
		return
	}
	window := paycheck.DefaultLookaheadMonths
	if raw := query.Get("window"); raw != "" {
		window, err = strconv.Atoi(raw)
		if err != nil || window < 0 {
			http.Error(w, "window query parameter must be a non-negative number", http.StatusBadRequest)
			return
		}
	}

	data, err := h.service.GetPlanningData(r.Context(), accountId, dates.YearMonth{Year: year, Month: month}, window)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNoUser):
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		case errors.Is(err, account.ErrNotMember):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Errorf("Error building planning data: %v", err)
			http.Error(w, "Failed to build planning data", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(PlanningDataDTO{
		CurrentMonth: toViewDTOs(data.CurrentMonth),
		Future:       toViewDTOs(data.Future),
		Instances:    debt.ToInstanceViewDTOs(data.Instances),
		Warnings:     warning.ToDTOs(data.Warnings),
	}); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}
