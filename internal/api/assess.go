package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/NiranjanKaithota/InsurTech/internal/analysis"
	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

// AssessmentResponse is the full risk report for one trip: the model score,
// the verdict it falls into, and the rule-based event explanations.
type AssessmentResponse struct {
	TripID  string                     `json:"trip_id"`
	Score   float64                    `json:"score"`
	Verdict analysis.RiskVerdict       `json:"verdict"`
	Events  []analysis.RiskEvent       `json:"events"`
	Summary map[analysis.EventType]int `json:"summary"`
}

// assessTrip runs the scoring pipeline over a stored trip and writes the
// score back so the trip no longer shows up as pending.
func (s *Server) assessTrip(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		s.writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	tripID := r.URL.Query().Get("trip_id")
	if tripID == "" {
		s.writeJSONError(w, http.StatusBadRequest, "Missing 'trip_id' parameter")
		return
	}

	tr, _, err := s.db.GetTrip(tripID)
	if err != nil {
		s.writeJSONError(w, http.StatusNotFound, fmt.Sprintf("Failed to retrieve trip: %v", err))
		return
	}

	resp, err := s.assess(tr)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, trip.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		s.writeJSONError(w, status, fmt.Sprintf("Failed to assess trip: %v", err))
		return
	}

	if err := s.db.SetTripRiskScore(tripID, resp.Score); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to store risk score: %v", err))
		return
	}

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.writeJSONError(w, http.StatusInternalServerError, "Failed to write assessment")
		return
	}
}

func (s *Server) assess(tr *trip.Trip) (*AssessmentResponse, error) {
	matrix, err := analysis.Vectorize(tr.Sequence, s.timesteps)
	if err != nil {
		return nil, err
	}

	score, err := s.scorer.Score(matrix)
	if err != nil {
		return nil, err
	}
	verdict, err := analysis.Assess(score)
	if err != nil {
		return nil, err
	}

	events := s.explainer.Explain(tr)
	if events == nil {
		events = []analysis.RiskEvent{}
	}

	return &AssessmentResponse{
		TripID:  tr.ID,
		Score:   score,
		Verdict: verdict,
		Events:  events,
		Summary: analysis.Summary(events),
	}, nil
}
