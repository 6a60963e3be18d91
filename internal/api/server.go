// Package api exposes the trip store and scoring pipeline over HTTP. All
// endpoints exchange JSON; chart endpoints return self-contained HTML.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/NiranjanKaithota/InsurTech/internal/analysis"
	"github.com/NiranjanKaithota/InsurTech/internal/db"
	"github.com/NiranjanKaithota/InsurTech/internal/httputil"
	"github.com/NiranjanKaithota/InsurTech/internal/monitoring"
	"github.com/NiranjanKaithota/InsurTech/internal/scoring"
	"github.com/NiranjanKaithota/InsurTech/internal/timeutil"
	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

type Server struct {
	db        *db.DB
	scorer    scoring.Scorer
	explainer *analysis.EventExplainer
	timesteps int
	clock     timeutil.Clock
}

// NewServer wires the trip store to a scorer. The scorer receives the raw
// feature matrix; any normalization the model needs is the scorer's own
// concern (RemoteScorer carries its fitted scaler).
func NewServer(database *db.DB, scorer scoring.Scorer, explainer *analysis.EventExplainer, timesteps int) *Server {
	if timesteps <= 0 {
		timesteps = analysis.DefaultTimesteps
	}
	return &Server{
		db:        database,
		scorer:    scorer,
		explainer: explainer,
		timesteps: timesteps,
		clock:     timeutil.RealClock{},
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Flush() {
	if flusher, ok := lrw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/users", s.listUsers)
	mux.HandleFunc("/api/trips", s.handleTrips)
	mux.HandleFunc("/api/trip", s.showTrip)
	mux.HandleFunc("/api/assess", s.assessTrip)
	mux.HandleFunc("/api/chart/speed", s.speedChart)
	mux.HandleFunc("/api/config", s.showConfig)
	return mux
}

func (s *Server) writeJSONError(w http.ResponseWriter, status int, msg string) {
	httputil.WriteJSONError(w, status, msg)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	users, err := s.db.ListUsers()
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve users: %v", err))
		return
	}

	if err := json.NewEncoder(w).Encode(users); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write users")
		return
	}
}

func (s *Server) handleTrips(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listTrips(w, r)
	case http.MethodPost:
		s.uploadTrip(w, r)
	default:
		w.Header().Set("Content-Type", "application/json")
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

func (s *Server) listTrips(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'user_id' parameter")
		return
	}

	records, err := s.db.ListTripsForUser(userID)
	if err != nil {
		s.writeJSONError(w, http.StatusInternalServerError,
			fmt.Sprintf("Failed to retrieve trips: %v", err))
		return
	}
	if records == nil {
		records = []db.TripRecord{}
	}

	if err := json.NewEncoder(w).Encode(records); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write trips")
		return
	}
}

// uploadTrip accepts a trip in interchange form and stores it unscored.
// Captured trips arrive without a risk label; the assess endpoint fills
// it in later.
func (s *Server) uploadTrip(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'user_id' parameter")
		return
	}
	if _, err := s.db.GetUser(userID); err != nil {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("Unknown user: %v", err))
		return
	}

	var tr trip.Trip
	if err := json.NewDecoder(r.Body).Decode(&tr); err != nil {
		s.writeJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid trip payload: %v", err))
		return
	}
	if tr.ID == "" || len(tr.Sequence) == 0 {
		s.writeJSONError(w, http.StatusBadRequest, "Trip must have an id and a non-empty sequence")
		return
	}

	if err := s.db.SaveTrip(userID, &tr, s.clock.Now()); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save trip: %v", err))
		return
	}

	w.WriteHeader(http.StatusCreated)
	// The 201 status is already on the wire; an encode failure can only be logged.
	if err := json.NewEncoder(w).Encode(map[string]string{"trip_id": tr.ID, "status": "stored"}); err != nil {
		monitoring.Logf("failed to write upload response for trip %s: %v", tr.ID, err)
	}
}

func (s *Server) showTrip(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	tripID := r.URL.Query().Get("trip_id")
	if tripID == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'trip_id' parameter")
		return
	}

	tr, rec, err := s.db.GetTrip(tripID)
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("Failed to retrieve trip: %v", err))
		return
	}

	resp := struct {
		Record *db.TripRecord `json:"record"`
		Trip   *trip.Trip     `json:"trip"`
	}{rec, tr}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write trip")
		return
	}
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	config := map[string]interface{}{
		"timesteps": s.timesteps,
	}

	if err := json.NewEncoder(w).Encode(config); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write config")
		return
	}
}
