package domain

import (
	"context"

	"github.com/google/uuid"
)

// BusinessManagerRepository persists BusinessManager rows.
// GetByID returns ErrNotFound for a missing row.
type BusinessManagerRepository interface {
	Create(ctx context.Context, bm *BusinessManager) error
	GetByID(ctx context.Context, id uuid.UUID) (*BusinessManager, error)
	List(ctx context.Context) ([]*BusinessManager, error)
	// ListWithAccessToken returns every manager with a non-empty access
	// token, active or not; the sync job decides what to skip.
	ListWithAccessToken(ctx context.Context) ([]*BusinessManager, error)
	Update(ctx context.Context, bm *BusinessManager) error
}

// WABARepository persists WABA rows. FindByMetaWABAID returns (nil, nil)
// when no row carries the remote identifier.
type WABARepository interface {
	Create(ctx context.Context, w *WABA) error
	GetByID(ctx context.Context, id uuid.UUID) (*WABA, error)
	FindByMetaWABAID(ctx context.Context, metaWABAID string) (*WABA, error)
	ListByBusinessManagerID(ctx context.Context, businessManagerID uuid.UUID) ([]*WABA, error)
	Update(ctx context.Context, w *WABA) error
}

// PhoneNumberRepository persists PhoneNumber rows. FindByMetaPhoneNumberID
// returns (nil, nil) when no row carries the remote identifier.
type PhoneNumberRepository interface {
	Create(ctx context.Context, pn *PhoneNumber) error
	FindByMetaPhoneNumberID(ctx context.Context, metaPhoneNumberID string) (*PhoneNumber, error)
	ListByWABAID(ctx context.Context, wabaID uuid.UUID) ([]*PhoneNumber, error)
	Update(ctx context.Context, pn *PhoneNumber) error
}
