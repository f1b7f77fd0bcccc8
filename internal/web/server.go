package web

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"arogyapath/internal/accounts"
	"arogyapath/internal/nearby"
	"arogyapath/internal/storage"
)

type PlaceResolver interface {
	Resolve(ctx context.Context, req nearby.Request) nearby.Result
}

type Server struct {
	accounts *accounts.Service
	places   PlaceResolver
}

type AuthResponse struct {
	UserID   int64  `json:"user_id"`
	Redirect string `json:"redirect"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type UserView struct {
	ID                int64              `json:"id"`
	Name              string             `json:"name"`
	Age               int                `json:"age"`
	Gender            string             `json:"gender"`
	Mobile            string             `json:"mobile"`
	Category          string             `json:"category"`
	DisabilityType    string             `json:"disability_type,omitempty"`
	EmergencyContacts []accounts.Contact `json:"emergency_contacts"`
	Home              string             `json:"home"`
}

func NewServer(accountService *accounts.Service, places PlaceResolver) *Server {
	return &Server{accounts: accountService, places: places}
}

// Routes registers every handler on mux.
func (s *Server) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/api/nearby", s.Nearby)
	mux.HandleFunc("/api/signup", s.Signup)
	mux.HandleFunc("/api/login", s.Login)
	mux.HandleFunc("/api/users/", s.User)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func (s *Server) Nearby(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/nearby" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	q := r.URL.Query()
	asGeoJSON := q.Get("format") == "geojson"

	req, err := nearby.ParseRequest(q.Get("lat"), q.Get("lng"), q.Get("filter"))
	if err != nil {
		result := nearby.Result{Places: []nearby.Place{}, Error: err.Error()}
		s.writeNearby(w, http.StatusBadRequest, result, asGeoJSON)
		return
	}

	// Upstream failures still answer 200 with an error payload.
	result := s.places.Resolve(r.Context(), req)
	s.writeNearby(w, http.StatusOK, result, asGeoJSON)
}

func (s *Server) writeNearby(w http.ResponseWriter, status int, result nearby.Result, asGeoJSON bool) {
	if asGeoJSON {
		w.Header().Set("Content-Type", "application/geo+json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(result.FeatureCollection())
		return
	}
	writeJSON(w, status, result)
}

func (s *Server) Signup(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/signup" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid form"})
		return
	}

	age, err := strconv.Atoi(strings.TrimSpace(r.FormValue("age")))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Please enter a valid age."})
		return
	}

	user, err := s.accounts.Register(r.Context(), accounts.Registration{
		Name:              r.FormValue("name"),
		Age:               age,
		Gender:            r.FormValue("gender"),
		Mobile:            r.FormValue("mobile"),
		Password:          r.FormValue("password"),
		Category:          r.FormValue("category"),
		DisabilityType:    r.FormValue("disability_type"),
		EmergencyContacts: r.FormValue("emergency_contacts"),
	})
	if err != nil {
		s.writeAccountError(w, err)
		return
	}

	log.Printf("signup: user=%d category=%s", user.ID, user.Category)
	writeJSON(w, http.StatusCreated, AuthResponse{UserID: user.ID, Redirect: accounts.HomePath(user)})
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/login" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid form"})
		return
	}

	user, err := s.accounts.Authenticate(r.Context(), r.FormValue("mobile"), r.FormValue("password"))
	if err != nil {
		s.writeAccountError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{UserID: user.ID, Redirect: accounts.HomePath(user)})
}

func (s *Server) User(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	idValue := strings.TrimPrefix(r.URL.Path, "/api/users/")
	userID, err := strconv.ParseInt(idValue, 10, 64)
	if err != nil || userID <= 0 {
		http.NotFound(w, r)
		return
	}

	user, err := s.accounts.Lookup(r.Context(), userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		log.Printf("load user %d: %v", userID, err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to load user"})
		return
	}

	writeJSON(w, http.StatusOK, UserView{
		ID:                user.ID,
		Name:              user.Name,
		Age:               user.Age,
		Gender:            user.Gender,
		Mobile:            user.Mobile,
		Category:          user.Category,
		DisabilityType:    user.DisabilityType,
		EmergencyContacts: accounts.ParseEmergencyContacts(user.EmergencyContacts),
		Home:              accounts.HomePath(user),
	})
}

func (s *Server) writeAccountError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, accounts.ErrInvalidCategory), errors.Is(err, accounts.ErrMissingField):
		status = http.StatusBadRequest
	case errors.Is(err, accounts.ErrMobileTaken):
		status = http.StatusConflict
	case errors.Is(err, accounts.ErrMobileNotFound):
		status = http.StatusNotFound
	case errors.Is(err, accounts.ErrIncorrectPassword):
		status = http.StatusUnauthorized
	default:
		log.Printf("account request failed: %v", err)
	}
	writeJSON(w, status, ErrorResponse{Error: accounts.Message(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}
