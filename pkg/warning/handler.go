package warning

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/payplan/payplan/internal/rest"
	"github.com/payplan/payplan/pkg/account"
	"github.com/payplan/payplan/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type WarningDTO struct {
	Type     string `json:"type"`
	Key      string `json:"key"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

type DismissRequestDTO struct {
	AccountId int    `json:"accountId"`
	Type      string `json:"type"`
	Key       string `json:"key"`
}

func ToDTOs(warnings []Warning) []WarningDTO {
	dtos := make([]WarningDTO, 0, len(warnings))
	for _, w := range warnings {
		dtos = append(dtos, WarningDTO{
			Type:     string(w.Type),
			Key:      w.Key,
			Severity: string(w.Severity),
			Message:  w.Message,
		})
	}
	return dtos
}

// @Summary Dismiss a warning
// @Description Hide a derived warning for the current user; dismissing twice is not an error
// @Tags Warning
// @Accept json
// @Produce json
// @Param dismissal body DismissRequestDTO true "Warning reference"
// @Success 200 {object} rest.Ack
// @Failure 400 {string} string "Invalid request"
// @Failure 403 {string} string "Forbidden"
// @Router /api/warning/dismiss [post]
// @Security XUserId
func (h *Handler) Dismiss(w http.ResponseWriter, r *http.Request) {
	var dto DismissRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	warningType, err := ParseType(dto.Type)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.service.Dismiss(r.Context(), dto.AccountId, warningType, dto.Key); err != nil {
		switch {
		case errors.Is(err, user.ErrNoUser):
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		case errors.Is(err, account.ErrNotMember):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Errorf("Error dismissing warning: %v", err)
			http.Error(w, "Failed to dismiss warning", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(rest.Ack{Success: true}); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}
