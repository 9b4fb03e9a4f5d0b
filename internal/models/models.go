package models

import (
	"errors"
	"time"
)

// MatchResult is one finished match as reported by a client process.
type MatchResult struct {
	ID         string    `db:"id" json:"id"`
	RoomID     string    `db:"room_id" json:"room_id"`
	HomeScore  int       `db:"home_score" json:"home_score"`
	AwayScore  int       `db:"away_score" json:"away_score"`
	Winner     string    `db:"winner" json:"winner"`
	DurationMS int64     `db:"duration_ms" json:"duration_ms"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Validate checks the fields a client may set.
func (r MatchResult) Validate() error {
	if r.RoomID == "" {
		return errors.New("room_id is required")
	}
	if r.HomeScore < 0 || r.AwayScore < 0 {
		return errors.New("scores must not be negative")
	}
	if r.DurationMS < 0 {
		return errors.New("duration_ms must not be negative")
	}
	switch r.Winner {
	case "", "home", "away":
	default:
		return errors.New("winner must be home, away or empty")
	}
	return nil
}
