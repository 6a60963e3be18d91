package db

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NiranjanKaithota/InsurTech/internal/trip"
)

// TripRecord is a stored trip. RiskLabel stays NULL until the scoring
// pipeline runs, which is how pending trips are found.
type TripRecord struct {
	TripID     string    `json:"trip_id"`
	UserID     string    `json:"user_id"`
	Style      string    `json:"style"`
	RiskLabel  *float64  `json:"risk_label"`
	RecordedAt time.Time `json:"recorded_at"`
}

// SaveTrip stores a trip for a policy holder. The trip's interchange JSON
// is persisted verbatim as the payload.
func (db *DB) SaveTrip(userID string, tr *trip.Trip, recordedAt time.Time) error {
	payload, err := json.Marshal(tr)
	if err != nil {
		return fmt.Errorf("failed to marshal trip %s: %w", tr.ID, err)
	}
	_, err = db.Exec(`
		INSERT INTO trips (trip_id, user_id, style, risk_label, recorded_at, payload)
		VALUES (?, ?, ?, ?, ?, ?)
	`, tr.ID, userID, tr.Style, tr.RiskLabel, recordedAt.Unix(), string(payload))
	if err != nil {
		return fmt.Errorf("failed to save trip %s: %w", tr.ID, err)
	}
	return nil
}

// GetTrip loads a stored trip and its metadata.
func (db *DB) GetTrip(tripID string) (*trip.Trip, *TripRecord, error) {
	var rec TripRecord
	var recordedUnix int64
	var payload string
	err := db.QueryRow(`
		SELECT trip_id, user_id, style, risk_label, recorded_at, payload
		FROM trips WHERE trip_id = ?
	`, tripID).Scan(&rec.TripID, &rec.UserID, &rec.Style, &rec.RiskLabel, &recordedUnix, &payload)
	if err == sql.ErrNoRows {
		return nil, nil, fmt.Errorf("trip %s not found", tripID)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trip: %w", err)
	}
	rec.RecordedAt = time.Unix(recordedUnix, 0).UTC()

	var tr trip.Trip
	if err := json.Unmarshal([]byte(payload), &tr); err != nil {
		return nil, nil, fmt.Errorf("failed to parse stored trip %s: %w", tripID, err)
	}
	return &tr, &rec, nil
}

// ListTripsForUser returns trip metadata for a policy holder, newest first.
func (db *DB) ListTripsForUser(userID string) ([]TripRecord, error) {
	rows, err := db.Query(`
		SELECT trip_id, user_id, style, risk_label, recorded_at
		FROM trips WHERE user_id = ? ORDER BY recorded_at DESC, trip_id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips: %w", err)
	}
	defer rows.Close()
	return scanTripRecords(rows)
}

// ListPendingTrips returns metadata for trips that have not been scored.
func (db *DB) ListPendingTrips() ([]TripRecord, error) {
	rows, err := db.Query(`
		SELECT trip_id, user_id, style, risk_label, recorded_at
		FROM trips WHERE risk_label IS NULL ORDER BY recorded_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending trips: %w", err)
	}
	defer rows.Close()
	return scanTripRecords(rows)
}

// SetTripRiskScore writes the model's score back onto a stored trip.
func (db *DB) SetTripRiskScore(tripID string, score float64) error {
	result, err := db.Exec(`UPDATE trips SET risk_label = ? WHERE trip_id = ?`, score, tripID)
	if err != nil {
		return fmt.Errorf("failed to update risk score: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("trip %s not found", tripID)
	}
	return nil
}

func scanTripRecords(rows *sql.Rows) ([]TripRecord, error) {
	var records []TripRecord
	for rows.Next() {
		var rec TripRecord
		var recordedUnix int64
		if err := rows.Scan(&rec.TripID, &rec.UserID, &rec.Style, &rec.RiskLabel, &recordedUnix); err != nil {
			return nil, fmt.Errorf("failed to scan trip record: %w", err)
		}
		rec.RecordedAt = time.Unix(recordedUnix, 0).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}
