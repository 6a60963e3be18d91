package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/NiranjanKaithota/InsurTech/internal/analysis"
	"github.com/NiranjanKaithota/InsurTech/internal/httputil"
	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

// RemoteScorer sends the feature matrix to a model server over HTTP.
// The server is expected to run the trained sequence model and reply with
// {"score": x}. Retry policy belongs to the caller; scoring a trip is
// cheap to recompute so failures surface immediately.
//
// The trained model consumes min-max-scaled features, so the scaler fitted
// over the training corpus travels with this scorer and is applied before
// every request. Normalization is part of the model contract, not of
// scoring in general: HeuristicScorer thresholds raw physical values and
// must never see scaled input.
type RemoteScorer struct {
	URL    string
	Client httputil.HTTPClient
	Scaler *analysis.MinMaxScaler // nil posts raw features
}

// NewRemoteScorer builds a scorer for the given model-server URL. A nil
// client falls back to the standard library default client; a nil scaler
// posts features unscaled for model servers that normalize server-side.
func NewRemoteScorer(url string, client httputil.HTTPClient, scaler *analysis.MinMaxScaler) *RemoteScorer {
	if client == nil {
		client = httputil.NewStandardClient(nil)
	}
	return &RemoteScorer{URL: url, Client: client, Scaler: scaler}
}

type scoreRequest struct {
	Features [][]float64 `json:"features"`
}

type scoreResponse struct {
	Score float64 `json:"score"`
}

// Score posts the matrix and validates the returned score into [0,1].
func (r *RemoteScorer) Score(matrix [][]float64) (float64, error) {
	if err := validateMatrix(matrix); err != nil {
		return 0, err
	}

	if r.Scaler != nil {
		var err error
		matrix, err = r.Scaler.Transform(matrix)
		if err != nil {
			return 0, fmt.Errorf("failed to scale features: %w", err)
		}
	}

	payload, err := json.Marshal(scoreRequest{Features: matrix})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal score request: %w", err)
	}

	resp, err := r.Client.Post(r.URL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("model server request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("model server returned status %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}

	var out scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("failed to decode model server response: %w", err)
	}
	if out.Score < 0 || out.Score > 1 {
		return 0, fmt.Errorf("model server score %v outside [0,1]: %w", out.Score, trip.ErrContractViolation)
	}
	return out.Score, nil
}
