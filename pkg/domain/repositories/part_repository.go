package repositories

import (
	"context"

	"github.com/vsinha/prodplan/pkg/domain/entities"
)

// PartRepository provides access to part master data
type PartRepository interface {
	// GetPart returns entities.ErrPartNotFound for unknown codes
	GetPart(ctx context.Context, code entities.PartCode) (*entities.Part, error)
	LoadParts(ctx context.Context, parts []*entities.Part) error
}
