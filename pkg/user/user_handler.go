package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/payplan/payplan/internal/rest"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type UserDTO struct {
	Id          int    `json:"id,omitempty"`
	Uid         string `json:"uid,omitempty"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

func toDTO(u User) UserDTO {
	return UserDTO{
		Id:          u.Id,
		Uid:         u.Uid,
		Username:    u.Username,
		DisplayName: u.DisplayName,
	}
}

// @Summary Create a new user
// @Description Register a new user in the system
// @Tags User
// @Accept json
// @Produce json
// @Param user body UserDTO true "User"
// @Success 201 {object} UserDTO
// @Failure 400 {string} string "Invalid request"
// @Failure 409 {string} string "Username is already taken"
// @Router /api/user [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var dto UserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if dto.Username == "" {
		http.Error(w, "Username is required", http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateUser(r.Context(), User{
		Username:    dto.Username,
		DisplayName: dto.DisplayName,
	})
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			http.Error(w, "Username is already taken", http.StatusConflict)
			return
		}
		log.Errorf("Error creating user: %v", err)
		http.Error(w, "Failed to create user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(toDTO(created)); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

// @Summary Get current user
// @Description Retrieve the user identified by the current request
// @Tags User
// @Produce json
// @Success 200 {object} UserDTO
// @Failure 401 {string} string "Unauthorized"
// @Router /api/user/current [get]
// @Security XUserId
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	current, err := h.service.GetCurrentUser(r.Context())
	if err != nil {
		if errors.Is(err, ErrNoUser) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		log.Errorf("Error fetching current user: %v", err)
		http.Error(w, "Failed to fetch current user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toDTO(current)); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

func (h *Handler) UpdateCurrentUser(w http.ResponseWriter, r *http.Request) {
	var dto UserDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateCurrentUser(r.Context(), dto.Username, dto.DisplayName)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoUser):
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		case errors.Is(err, ErrUsernameTaken):
			http.Error(w, "Username is already taken", http.StatusConflict)
		default:
			log.Errorf("Error updating current user: %v", err)
			http.Error(w, "Failed to update user", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(toDTO(updated)); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

// @Summary Get all users
// @Description Retrieve a list of all registered users
// @Tags User
// @Produce json
// @Success 200 {array} UserDTO
// @Failure 500 {object} rest.ErrorResponse "Failed to fetch users"
// @Router /api/user [get]
func (h *Handler) GetAvailableUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllUsers(r.Context())
	if err != nil {
		log.Errorf("Error fetching users: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(rest.ErrorResponse{Error: "Failed to fetch users"})
		return
	}

	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, toDTO(u))
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}
