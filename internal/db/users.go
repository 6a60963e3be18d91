package db

import (
	"database/sql"
	"fmt"
	"time"
)

// User is a policy holder whose trips accumulate into a risk profile.
type User struct {
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	PolicyNo    string    `json:"policy_no"`
	Vehicle     string    `json:"vehicle"`
	JoinedAt    time.Time `json:"joined_at"`
	RiskProfile string    `json:"risk_profile"` // "Unknown" until trips are scored
}

// CreateUser inserts a new policy holder.
func (db *DB) CreateUser(u *User) error {
	if u.RiskProfile == "" {
		u.RiskProfile = "Unknown"
	}
	_, err := db.Exec(`
		INSERT INTO users (user_id, name, policy_no, vehicle, joined_at, risk_profile)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.UserID, u.Name, u.PolicyNo, u.Vehicle, u.JoinedAt.Unix(), u.RiskProfile)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUser retrieves a policy holder by id.
func (db *DB) GetUser(userID string) (*User, error) {
	var u User
	var joinedUnix int64
	err := db.QueryRow(`
		SELECT user_id, name, policy_no, vehicle, joined_at, risk_profile
		FROM users WHERE user_id = ?
	`, userID).Scan(&u.UserID, &u.Name, &u.PolicyNo, &u.Vehicle, &joinedUnix, &u.RiskProfile)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %s not found", userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	u.JoinedAt = time.Unix(joinedUnix, 0).UTC()
	return &u, nil
}

// ListUsers returns all policy holders ordered by join date.
func (db *DB) ListUsers() ([]User, error) {
	rows, err := db.Query(`
		SELECT user_id, name, policy_no, vehicle, joined_at, risk_profile
		FROM users ORDER BY joined_at ASC, user_id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		var joinedUnix int64
		if err := rows.Scan(&u.UserID, &u.Name, &u.PolicyNo, &u.Vehicle, &joinedUnix, &u.RiskProfile); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u.JoinedAt = time.Unix(joinedUnix, 0).UTC()
		users = append(users, u)
	}
	return users, rows.Err()
}

// SeedUsers inserts the demo policy holders if they do not already exist.
func (db *DB) SeedUsers(now time.Time) error {
	seed := []User{
		{UserID: "u_001", Name: "Niranjan", PolicyNo: "POL-8842-X", Vehicle: "Honda City"},
		{UserID: "u_002", Name: "Iranna GG", PolicyNo: "POL-1129-A", Vehicle: "Hyundai Creta"},
		{UserID: "u_003", Name: "Rushil Shod", PolicyNo: "POL-9933-B", Vehicle: "Tata Nexon"},
	}
	for _, u := range seed {
		var exists int
		err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE user_id = ?`, u.UserID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check for user %s: %w", u.UserID, err)
		}
		if exists > 0 {
			continue
		}
		u.JoinedAt = now
		if err := db.CreateUser(&u); err != nil {
			return err
		}
	}
	return nil
}
