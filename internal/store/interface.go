// Package store persists leasing contracts and caches computed reports.
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/leasing-calc/internal/config"
)

// ErrNotFound is returned when no leasing matches an id.
var ErrNotFound = errors.New("leasing not found")

// Leasing is a saved contract together with its grace schedule.
type Leasing struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Config    config.Leasing `json:"leasing"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Storage defines the interface for database operations related to leasings.
type Storage interface {
	CreateLeasing(leasing *Leasing) error
	GetLeasing(id uuid.UUID) (*Leasing, error)
	UpdateLeasing(leasing *Leasing) error
	DeleteLeasing(id uuid.UUID) error
	ListLeasings(limit, offset int) ([]*Leasing, error)
	CountLeasings() (int, error)

	Close() error
}
