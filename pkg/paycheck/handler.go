package paycheck

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/payplan/payplan/internal/dates"
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

type PaycheckDTO struct {
	Id        string          `json:"id"`
	SourceId  int             `json:"sourceId"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	Frequency string          `json:"frequency"`
}

type ProjectionDTO struct {
	CurrentMonth []PaycheckDTO `json:"currentMonth"`
	Future       []PaycheckDTO `json:"future"`
}

func ToDTO(p Paycheck) PaycheckDTO {
	return PaycheckDTO{
		Id:        p.Id,
		SourceId:  p.SourceId,
		Name:      p.Name,
		Amount:    p.Amount,
		Date:      dates.Format(p.Date),
		Frequency: string(p.Frequency),
	}
}

func ToDTOs(paychecks []Paycheck) []PaycheckDTO {
	dtos := make([]PaycheckDTO, 0, len(paychecks))
	for _, p := range paychecks {
		dtos = append(dtos, ToDTO(p))
	}
	return dtos
}

// @Summary Project the current user's paychecks
// @Description Derive paycheck occurrences from active income sources for a month and lookahead window
// @Tags Planning
// @Produce json
// @Param year query int true "Target year"
// @Param month query int true "Target month (1-12)"
// @Param window query int false "Lookahead months, defaults to 4"
// @Success 200 {object} ProjectionDTO
// @Failure 400 {string} string "Invalid request"
// @Failure 401 {string} string "Unauthorized"
// @Router /api/planning/paychecks [get]
// @Security XUserId
func (h *Handler) GetProjectedPaychecks(w http.ResponseWriter, r *http.Request) {
	target, lookaheadMonths, err := parseWindow(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	projection, err := h.service.ProjectPaychecks(r.Context(), target, lookaheadMonths)
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		log.Errorf("Error projecting paychecks: %v", err)
		http.Error(w, "Failed to project paychecks", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(ProjectionDTO{
		CurrentMonth: ToDTOs(projection.CurrentMonth),
		Future:       ToDTOs(projection.Future),
	}); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

func parseWindow(r *http.Request) (dates.YearMonth, int, error) {
	query := r.URL.Query()
	year, err := strconv.Atoi(query.Get("year"))
	if err != nil {
		return dates.YearMonth{}, 0, errors.New("year query parameter is required")
	}
	month, err := strconv.Atoi(query.Get("month"))
	if err != nil || month < 1 || month > 12 {
		return dates.YearMonth{}, 0, errors.New("month query parameter must be 1-12")
	}
	lookaheadMonths := DefaultLookaheadMonths
	if raw := query.Get("window"); raw != "" {
		lookaheadMonths, err = strconv.Atoi(raw)
		if err != nil || lookaheadMonths < 0 {
			return dates.YearMonth{}, 0, errors.New("window query parameter must be a non-negative number")
		}
	}
	return dates.YearMonth{Year: year, Month: month}, lookaheadMonths, nil
}
