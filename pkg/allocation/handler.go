package allocation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/payplan/payplan/internal/dates"
	"github.com/payplan/payplan/internal/rest"
	"github.com/payplan/payplan/pkg/account"
	"github.com/payplan/payplan/pkg/debt"
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

type AllocateRequestDTO struct {
	AccountId  int              `json:"accountId"`
	InstanceId int              `json:"instanceId"`
	PaycheckId string           `json:"paycheckId"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Date       string           `json:"date,omitempty"`
	Note       string           `json:"note,omitempty"`
}

type MoveRequestDTO struct {
	AccountId      int              `json:"accountId"`
	InstanceId     int              `json:"instanceId"`
	FromPaycheckId string           `json:"fromPaycheckId"`
	ToPaycheckId   string           `json:"toPaycheckId"`
	Amount         *decimal.Decimal `json:"amount,omitempty"`
	Date           string           `json:"date,omitempty"`
}

type MarkPaidRequestDTO struct {
	AccountId  int              `json:"accountId"`
	InstanceId int              `json:"instanceId"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Date       string           `json:"date,omitempty"`
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := dates.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, user.ErrNoUser):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	case errors.Is(err, account.ErrNotMember):
		http.Error(w, "Forbidden", http.StatusForbidden)
	case errors.Is(err, ErrAllocationNotFound):
		http.Error(w, "Allocation not found", http.StatusNotFound)
	case errors.Is(err, debt.ErrInstanceNotFound):
		http.Error(w, "Monthly debt instance not found", http.StatusNotFound)
	default:
		log.Errorf("%s: %v", fallback, err)
		http.Error(w, fallback, http.StatusInternalServerError)
	}
}

func writeAck(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rest.Ack{Success: true}); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

// @Summary Allocate a monthly debt instance to a paycheck
// @Description Create the allocation, or update it when the instance and paycheck are already linked
// @Tags Allocation
// @Accept json
// @Produce json
// @Param allocation body AllocateRequestDTO true "Allocation"
// @Success 200 {object} rest.Ack
// @Failure 400 {string} string "Invalid request"
// @Failure 404 {string} string "Monthly debt instance not found"
// @Router /api/allocation [post]
// @Security XUserId
func (h *Handler) Allocate(w http.ResponseWriter, r *http.Request) {
	var dto AllocateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if dto.PaycheckId == "" {
		http.Error(w, "paycheckId is required", http.StatusBadRequest)
		return
	}
	date, err := parseOptionalDate(dto.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Allocate(r.Context(), dto.AccountId, dto.InstanceId, dto.PaycheckId, dto.Amount, date); err != nil {
		writeServiceError(w, err, "Failed to allocate debt instance")
		return
	}
	writeAck(w)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var dto AllocateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	date, err := parseOptionalDate(dto.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Update(r.Context(), dto.AccountId, dto.InstanceId, dto.PaycheckId, dto.Amount, date, dto.Note); err != nil {
		writeServiceError(w, err, "Failed to update allocation")
		return
	}
	writeAck(w)
}

// @Summary Remove the allocation between an instance and a paycheck
// @Description Deleting an allocation that does not exist is not an error
// @Tags Allocation
// @Produce json
// @Param accountId query int true "Budget account id"
// @Param instanceId query int true "Monthly debt instance id"
// @Param paycheckId query string true "Paycheck occurrence id"
// @Success 200 {object} rest.Ack
// @Failure 400 {string} string "Invalid request"
// @Router /api/allocation [delete]
// @Security XUserId
func (h *Handler) Unallocate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	accountId, err := strconv.Atoi(query.Get("accountId"))
	if err != nil {
		http.Error(w, "accountId query parameter is required", http.StatusBadRequest)
		return
	}
	instanceId, err := strconv.Atoi(query.Get("instanceId"))
	if err != nil {
		http.Error(w, "instanceId query parameter is required", http.StatusBadRequest)
		return
	}
	paycheckId := query.Get("paycheckId")
	if paycheckId == "" {
		http.Error(w, "paycheckId query parameter is required", http.StatusBadRequest)
		return
	}

	if err := h.service.Unallocate(r.Context(), accountId, instanceId, paycheckId); err != nil {
		writeServiceError(w, err, "Failed to remove allocation")
		return
	}
	writeAck(w)
}

func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	var dto MoveRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if dto.FromPaycheckId == "" || dto.ToPaycheckId == "" {
		http.Error(w, "fromPaycheckId and toPaycheckId are required", http.StatusBadRequest)
		return
	}
	date, err := parseOptionalDate(dto.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Move(r.Context(), dto.AccountId, dto.InstanceId, dto.FromPaycheckId, dto.ToPaycheckId, dto.Amount, date); err != nil {
		writeServiceError(w, err, "Failed to move allocation")
		return
	}
	writeAck(w)
}

func (h *Handler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	allocationId, err := strconv.Atoi(mux.Vars(r)["allocationId"])
	if err != nil {
		http.Error(w, "Invalid allocation id", http.StatusBadRequest)
		return
	}
	var dto MarkPaidRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	date, err := parseOptionalDate(dto.Date)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.MarkPaid(r.Context(), dto.AccountId, dto.InstanceId, allocationId, dto.Amount, date); err != nil {
		writeServiceError(w, err, "Failed to mark allocation as paid")
		return
	}
	writeAck(w)
}
