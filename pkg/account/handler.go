package account

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/payplan/payplan/internal/rest"
	"github.com/payplan/payplan/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type AccountDTO struct {
	Id   int    `json:"id,omitempty"`
	Name string `json:"name"`
}

type MemberDTO struct {
	UserId      int    `json:"userId"`
	Role        string `json:"role,omitempty"`
	Username    string `json:"username,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var dto AccountDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if dto.Name == "" {
		http.Error(w, "Account name is required", http.StatusBadRequest)
		return
	}

	created, err := h.service.CreateAccount(r.Context(), dto.Name)
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		log.Errorf("Error creating budget account: %v", err)
		http.Error(w, "Failed to create budget account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(AccountDTO{Id: created.Id, Name: created.Name}); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.service.ListAccounts(r.Context())
	if err != nil {
		if errors.Is(err, user.ErrNoUser) {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		log.Errorf("Error fetching budget accounts: %v", err)
		http.Error(w, "Failed to fetch budget accounts", http.StatusInternalServerError)
		return
	}

	dtos := make([]AccountDTO, 0, len(accounts))
	for _, acc := range accounts {
		dtos = append(dtos, AccountDTO{Id: acc.Id, Name: acc.Name})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	accountId, err := strconv.Atoi(mux.Vars(r)["accountId"])
	if err != nil {
		http.Error(w, "Invalid account id", http.StatusBadRequest)
		return
	}
	var dto MemberDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := h.service.AddMember(r.Context(), accountId, dto.UserId); err != nil {
		switch {
		case errors.Is(err, user.ErrNoUser):
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		case errors.Is(err, ErrNotMember):
			http.Error(w, "Forbidden", http.StatusForbidden)
		case errors.Is(err, ErrAlreadyMember):
			http.Error(w, "User is already a member", http.StatusConflict)
		default:
			log.Errorf("Error adding member to budget account %d: %v", accountId, err)
			http.Error(w, "Failed to add member", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(rest.Ack{Success: true}); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	accountId, err := strconv.Atoi(mux.Vars(r)["accountId"])
	if err != nil {
		http.Error(w, "Invalid account id", http.StatusBadRequest)
		return
	}

	members, err := h.service.ListMembers(r.Context(), accountId)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNoUser):
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
		case errors.Is(err, ErrNotMember):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Errorf("Error fetching members of budget account %d: %v", accountId, err)
			http.Error(w, "Failed to fetch members", http.StatusInternalServerError)
		}
		return
	}

	dtos := make([]MemberDTO, 0, len(members))
	for _, m := range members {
		dtos = append(dtos, MemberDTO{UserId: m.UserId, Role: m.Role, Username: m.Username, DisplayName: m.DisplayName})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dtos); err != nil {
		log.Errorf("Error encoding response: %v", err)
	}
}
