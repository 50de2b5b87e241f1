package models

import (
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Canonical issue statuses. Submitted is the initial state; resolved and
// rejected are terminal. The API accepts arbitrary status strings unless
// a strict StatusPolicy is configured.
const (
	StatusSubmitted = "submitted"
	StatusInReview  = "in_review"
	StatusResolved  = "resolved"
	StatusRejected  = "rejected"
)

// Issue represents a civic issue reported by a citizen. CreatedBy is nil
// for anonymous or seeded reports; it is set once at creation and is never
// writable through the API. CreatedAt is assigned by the store.
type Issue struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CreatedBy   *primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	Title       string              `bson:"title" json:"title"`
	Category    string              `bson:"category" json:"category"`
	Description string              `bson:"description" json:"description"`
	Image       string              `bson:"image,omitempty" json:"image,omitempty"`
	Latitude    float64             `bson:"latitude" json:"latitude"`
	Longitude   float64             `bson:"longitude" json:"longitude"`
	Address     string              `bson:"address" json:"address"`
	Status      string              `bson:"status" json:"status"`
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
}

// IsTerminalStatus reports whether no further transition is expected
// from the given status.
func IsTerminalStatus(s string) bool {
	return s == StatusResolved || s == StatusRejected
}

// StatusPolicy validates status values supplied on a transition. The
// default (permissive) policy accepts any non-empty string for
// compatibility with existing clients; Strict restricts transitions to
// the canonical set.
type StatusPolicy struct {
	Strict bool
}

func (p StatusPolicy) Validate(status string) error {
	if status == "" {
		return fmt.Errorf("status must not be empty")
	}
	if !p.Strict {
		return nil
	}
	switch status {
	case StatusSubmitted, StatusInReview, StatusResolved, StatusRejected:
		return nil
	default:
		return fmt.Errorf("unknown status %q", status)
	}
}

// ValidateCoordinates checks that a latitude/longitude pair is on the globe.
func ValidateCoordinates(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90, 90]", lat)
	}
	if lng < -180 || lng > 180 {
		return fmt.Errorf("longitude %v out of range [-180, 180]", lng)
	}
	return nil
}

// RoundCoordinate truncates a coordinate to the stored precision of six
// fractional digits.
func RoundCoordinate(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
