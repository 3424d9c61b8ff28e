package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Location is a user-submitted place with a geocoded postal address.
type Location struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Address   string    `db:"address" json:"address"`
	City      string    `db:"city" json:"city"`
	State     string    `db:"state" json:"state"`
	Zip       string    `db:"zip" json:"zip"`
	Country   string    `db:"country" json:"country"`
	Latitude  *float64  `db:"latitude" json:"latitude"`
	Longitude *float64  `db:"longitude" json:"longitude"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Features []Feature `db:"-" json:"features,omitempty"`
	Pictures []Picture `db:"-" json:"pictures,omitempty"`
}

// FullAddress joins the non-blank address components with ", ".
// The result is the geocoding query string.
func (l *Location) FullAddress() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{l.Address, l.City, l.State, l.Zip, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// HasCoordinates reports whether both coordinates are present.
func (l *Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// AddressSnapshot captures the five address components of a location.
// A save attempt compares the persisted snapshot against the incoming one
// to decide whether geocoding must re-run.
type AddressSnapshot struct {
	Address string
	City    string
	State   string
	Zip     string
	Country string
}

// Snapshot returns the current address components of the location.
func (l *Location) Snapshot() AddressSnapshot {
	return AddressSnapshot{
		Address: l.Address,
		City:    l.City,
		State:   l.State,
		Zip:     l.Zip,
		Country: l.Country,
	}
}

// Equal reports whether two snapshots carry identical address components.
func (s AddressSnapshot) Equal(other AddressSnapshot) bool {
	return s == other
}

// GeocodeResult is the best match returned by the geocoding provider.
type GeocodeResult struct {
	Latitude   float64
	Longitude  float64
	PostalCode string
}

// LocationFilter describes the combinable predicates of a location query.
// Predicates combine with AND; FeatureIDs combine with OR among themselves.
type LocationFilter struct {
	Query      string
	UserID     *uuid.UUID // set together with FavoritesOnly
	Favorites  bool
	FeatureIDs []uuid.UUID
}
