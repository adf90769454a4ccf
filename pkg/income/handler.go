package income

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
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

type SourceDTO struct {
	Id        int             `json:"id,omitempty"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Frequency string          `json:"frequency"`
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate,omitempty"`
	IsActive  bool            `json:"isActive"`
}

func toDTO(src Source) SourceDTO {
	dto := SourceDTO{
		Id:        src.Id,
		Name:      src.Name,
		Amount:    src.Amount,
		Frequency: string(src.Frequency),
		StartDate: dates.Format(src.StartDate),
		IsActive:  src.IsActive,
	}
	if src.EndDate != nil {
		dto.EndDate = dates.Format(*src.EndDate)
	}
	return dto
}

func fromDTO(dto SourceDTO) (Source, error) {
	frequency, err := dates.ParseFrequency(dto.Frequency)
	if err != nil {
		return Source{}, err
	}
	startDate, err := dates.Parse(dto.StartDate)
	if err != nil {
		return Source{}, err
	}
	src := Source{
		Id:        dto.Id,
		Name:      dto.Name,
		Amount:    dto.Amount,
		Frequency: frequency,
		StartDate: startDate,
		IsActive:  dto.IsActive,
	}
	if dto.EndDate != "" {
		endDate, err := dates.Parse(dto.EndDate)
		if err != nil {
			return Source{}, err
		}
		src.EndDate = &endDate
	}
	return src, nil
}

// @Summary Register a recurring income source
// @Description Create an income source for the current user; paychecks are projected from it
// @Tags Income
// @Accept json
// @Produce json
// @Param source body SourceDTO true "Income source"
// @Success 201 {object} SourceDTO
// @Failure 400 {string} string "Invalid request"
// @Failure 401 {string} string "Unauthorized"
// @Router /api/income [post]
// @Security XUserId
func (h *Handler) CreateSource(w http.ResponseWriter, r *http.Request) {
	var dto SourceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if dto.Name == "" {
		http.Error(w, "Income source name is required", http.StatusBadRequest)
		return
	}
	src, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateSource(r.Context(), src)
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		log.Errorf("Error creating income source: %v", err)
		http.Error(w, "Failed to create income source", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

func (h *Handler) GetSource(w http.ResponseWriter, r *http.Request) {
	sourceId, err := strconv.Atoi(mux.Vars(r)["incomeId"])
	if err != nil {
		http.Error(w, "Invalid income source id", http.StatusBadRequest)
		return
	}

	src, err := h.service.GetSource(r.Context(), sourceId)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNoUser):
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		case errors.Is(err, ErrSourceNotFound):
			http.Error(w, "Income source not found", http.StatusNotFound)
		default:
			log.Errorf("Error fetching income source %d: %v", sourceId, err)
			http.Error(w, "Failed to fetch income source", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toDTO(src)); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

func (h *Handler) ListSources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.service.ListSources(r.Context())
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		log.Errorf("Error fetching income sources: %v", err)
		http.Error(w, "Failed to fetch income sources", http.StatusInternalServerError)
		return
	}

	dtos := make([]SourceDTO, 0, len(sources))
	for _, src := range sources {
		dtos = append(dtos, toDTO(src))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

func (h *Handler) UpdateSource(w http.ResponseWriter, r *http.Request) {
	sourceId, err := strconv.Atoi(mux.Vars(r)["incomeId"])
	if err != nil {
		http.Error(w, "Invalid income source id", http.StatusBadRequest)
		return
	}
	var dto SourceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	src, err := fromDTO(dto)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	src.Id = sourceId

	updated, err := h.service.UpdateSource(r.Context(), src)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNoUser):
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		case errors.Is(err, ErrSourceNotFound):
			http.Error(w, "Income source not found", http.StatusNotFound)
		default:
			log.Errorf("Error updating income source %d: %v", sourceId, err)
			http.Error(w, "Failed to update income source", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}
