package debt

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/payplan/payplan/internal/dates"
	"github.com/payplan/payplan/internal/rest"
	"github.com/payplan/payplan/pkg/account"
	"github.com/payplan/payplan/pkg/paycheck"
	"github.com/payplan/payplan/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type DebtDTO struct {
	Id           int             `json:"id,omitempty"`
	AccountId    int             `json:"accountId"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interestRate"`
	DueDate      string          `json:"dueDate"`
	CategoryId   *int            `json:"categoryId,omitempty"`
}

type InstanceViewDTO struct {
	Id              int             `json:"id"`
	DebtId          int             `json:"debtId"`
	AccountId       int             `json:"accountId"`
	Year            int             `json:"year"`
	Month           int             `json:"month"`
	DueDate         string          `json:"dueDate"`
	IsActive        bool            `json:"isActive"`
	DebtName        string          `json:"debtName"`
	Amount          decimal.Decimal `json:"amount"`
	TemplateDueDate string          `json:"templateDueDate"`
}

type PopulateRequestDTO struct {
	AccountId int `json:"accountId"`
	Year      int `json:"year"`
	Month     int `json:"month"`
	Window    int `json:"window"`
}

type SetActiveDTO struct {
	AccountId int  `json:"accountId"`
	IsActive  bool `json:"isActive"`
}

func toDebtDTO(d Debt) DebtDTO {
	return DebtDTO{
		Id:           d.Id,
		AccountId:    d.AccountId,
		Name:         d.Name,
		Amount:       d.Amount,
		InterestRate: d.InterestRate,
		DueDate:      dates.Format(d.DueDate),
		CategoryId:   d.CategoryId,
	}
}

func ToInstanceViewDTOs(views []InstanceView) []InstanceViewDTO {
	dtos := make([]InstanceViewDTO, 0, len(views))
	for _, v := range views {
		dtos = append(dtos, InstanceViewDTO{
			Id:              v.Id,
			DebtId:          v.DebtId,
			AccountId:       v.AccountId,
			Year:            v.Year,
			Month:           v.Month,
			DueDate:         dates.Format(v.DueDate),
			IsActive:        v.IsActive,
			DebtName:        v.DebtName,
			Amount:          v.Amount,
			TemplateDueDate: dates.Format(v.TemplateDueDate),
		})
	}
	return dtos
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, account.ErrNotMember):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, ErrDebtNotFound):
		http.Error(w, "Debt not found", http.StatusNotFound)
	case errors.Is(err, ErrInstanceNotFound):
		http.Error(w, "Monthly debt instance not found", http.StatusNotFound)
	default:
		log.Errorf("%s: %v", fallback, err)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}

// @Summary Register a recurring debt for a budget account
// @Description The created template seeds one monthly instance per month from its due date onward
// @Tags Debt
// @Accept json
// @Produce json
// @Param debt body DebtDTO true "Debt"
// @Success 201 {object} DebtDTO
// @Failure 400 {string} string "Invalid request"
// @Failure 403 {string} string "Forbidden"
// @Router /api/debt [post]
// @Security XUserId
func (h *Handler) CreateDebt(w http.ResponseWriter, r *http.Request) {
	var dto DebtDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if dto.Name == "" {
		http.Error(w, "Debt name is required", http.StatusBadRequest)
		return
	}
	dueDate, err := dates.Parse(dto.DueDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateDebt(r.Context(), Debt{
		AccountId:    dto.AccountId,
		Name:         dto.Name,
		Amount:       dto.Amount,
		InterestRate: dto.InterestRate,
		DueDate:      dueDate,
		CategoryId:   dto.CategoryId,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to create debt")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDebtDTO(created)); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

func (h *Handler) ListDebts(w http.ResponseWriter, r *http.Request) {
	accountId, err := strconv.Atoi(r.URL.Query().Get("accountId"))
	if err != nil {
		http.Error(w, "accountId query parameter is required", http.StatusBadRequest)
		return
	}

	debts, err := h.service.ListDebts(r.Context(), accountId)
	if err != nil {
		writeServiceError(w, err, "Failed to fetch debts")
		return
	}

	dtos := make([]DebtDTO, 0, len(debts))
	for _, d := range debts {
		dtos = append(dtos, toDebtDTO(d))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

func (h *Handler) UpdateDebt(w http.ResponseWriter, r *http.Request) {
	debtId, err := strconv.Atoi(mux.Vars(r)["debtId"])
	if err != nil {
		http.Error(w, "Invalid debt id", http.StatusBadRequest)
		return
	}
	var dto DebtDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	dueDate, err := dates.Parse(dto.DueDate)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateDebt(r.Context(), Debt{
		Id:           debtId,
		AccountId:    dto.AccountId,
		Name:         dto.Name,
		Amount:       dto.Amount,
		InterestRate: dto.InterestRate,
		DueDate:      dueDate,
		CategoryId:   dto.CategoryId,
	})
	if err != nil {
		writeServiceError(w, err, "Failed to update debt")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toDebtDTO(updated)); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

// @Summary Expand debt templates into monthly instances
// @Description Idempotently creates missing instances for every month of the planning window
// @Tags Debt
// @Accept json
// @Produce json
// @Param window body PopulateRequestDTO true "Planning window"
// @Success 200 {object} rest.Ack
// @Failure 400 {string} string "Invalid request"
// @Failure 403 {string} string "Forbidden"
// @Router /api/debt/instance/populate [post]
// @Security XUserId
func (h *Handler) PopulateInstances(w http.ResponseWriter, r *http.Request) {
	var dto PopulateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if dto.Month < 1 || dto.Month > 12 {
		http.Error(w, "month must be 1-12", http.StatusBadRequest)
		return
	}
	if dto.Window < 0 {
		http.Error(w, "window must be a non-negative number", http.StatusBadRequest)
		return
	}

	start := dates.YearMonth{Year: dto.Year, Month: dto.Month}
	if err := h.service.PopulateMonthlyInstances(r.Context(), dto.AccountId, start, dto.Window); err != nil {
		writeServiceError(w, err, "Failed to populate monthly instances")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rest.Ack{Success: true}); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

// @Summary List hidden monthly debt instances
// @Description Returns instances of the planning window whose visibility was switched off
// @Tags Debt
// @Produce json
// @Param accountId query int true "Budget account id"
// @Param year query int true "Window start year"
// @Param month query int true "Window start month (1-12)"
// @Param window query int false "Window length in months, defaults to 4"
// @Success 200 {array} InstanceViewDTO
// @Failure 400 {string} string "Invalid request"
// @Failure 403 {string} string "Forbidden"
// @Router /api/debt/instance/hidden [get]
// @Security XUserId
func (h *Handler) GetHiddenInstances(w http.ResponseWriter, r *http.Request) {
	accountId, start, window, err := parsePlanningQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	hidden, err := h.service.ListHiddenInstances(r.Context(), accountId, start, window)
	if err != nil {
		writeServiceError(w, err, "Failed to fetch hidden instances")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ToInstanceViewDTOs(hidden)); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

func (h *Handler) SetInstanceActive(w http.ResponseWriter, r *http.Request) {
	instanceId, err := strconv.Atoi(mux.Vars(r)["instanceId"])
	if err != nil {
		http.Error(w, "Invalid instance id", http.StatusBadRequest)
		return
	}
	var dto SetActiveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.service.SetInstanceActive(r.Context(), dto.AccountId, instanceId, dto.IsActive); err != nil {
		writeServiceError(w, err, "Failed to update instance visibility")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rest.Ack{Success: true}); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

func parsePlanningQuery(r *http.Request) (int, dates.YearMonth, int, error) {
	query := r.URL.Query()
	accountId, err := strconv.Atoi(query.Get("accountId"))
	if err != nil {
		return 0, dates.YearMonth{}, 0, errors.New("accountId query parameter is required")
	}
	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		return 0, dates.YearMonth{}, 0, errors.New("year query parameter is required")
	}
	month, err := strconv.Atoi(query.Get("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, dates.YearMonth{}, 0, errors.New("month query parameter must be 1-12")
	}
	window := paycheck.DefaultLookaheadMonths
	if raw := query.Get("window"); raw != "" {
		window, err = strconv.Atoi(raw)
		if err != nil || window < 0 {
			return 0, dates.YearMonth{}, 0, errors.New("window query parameter must be a non-negative number")
		}
	}
	return accountId, dates.YearMonth{Year: year, Month: month}, window, nil
}
