package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
)

// PartRepository provides in-memory part master storage
type PartRepository struct {
	mu       sync.RWMutex
	parts    []entities.Part
	partsMap map[entities.PartCode]int
}

// NewPartRepository creates a new in-memory part repository
func NewPartRepository(expectedParts int) *PartRepository {
	return &PartRepository{
		parts:    make([]entities.Part, 0, expectedParts),
		partsMap: make(map[entities.PartCode]int, expectedParts),
	}
}

// Verify interface compliance
var _ repositories.PartRepository = (*PartRepository)(nil)

// LoadParts loads parts into the repository
func (r *PartRepository) LoadParts(ctx context.Context, parts []*entities.Part) error {
	for _, part := range parts {
		r.AddPart(*part)
	}
	return nil
}

// AddPart adds or replaces a part
func (r *PartRepository) AddPart(part entities.Part) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index, exists := r.partsMap[part.Code]; exists {
		r.parts[index] = part
		return
	}
	r.partsMap[part.Code] = len(r.parts)
	r.parts = append(r.parts, part)
}

// GetPart returns part master data for a part code
func (r *PartRepository) GetPart(ctx context.Context, code entities.PartCode) (*entities.Part, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	index, exists := r.partsMap[code]
	if !exists {
		return nil, fmt.Errorf("%w: %s", entities.ErrPartNotFound, code)
	}
	part := r.parts[index]
	return &part, nil
}

