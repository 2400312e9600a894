package bomindex

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
)

// Entry is one raw BOM row of a product
type Entry struct {
	StationCode     entities.StationCode
	PartCode        entities.PartCode
	QuantityPerUnit entities.Quantity
}

// Config holds configuration for the BOM index
type Config struct {
	// CacheTTL memoizes resolved products; 0 disables caching
	CacheTTL time.Duration
	Logger   zerolog.Logger
}

// Service resolves product codes into their BOM rows
type Service struct {
	bomRepo repositories.BOMRepository
	cache   *cache.Cache
	logger  zerolog.Logger
}

// NewService creates a BOM index without caching
func NewService(bomRepo repositories.BOMRepository) *Service {
	return NewServiceWithConfig(bomRepo, Config{Logger: zerolog.Nop()})
}

// NewServiceWithConfig creates a BOM index with custom configuration
func NewServiceWithConfig(bomRepo repositories.BOMRepository, config Config) *Service {
	s := &Service{
		bomRepo: bomRepo,
		logger:  config.Logger.With().Str("component", "bom-index").Logger(),
	}
	if config.CacheTTL > 0 {
		s.cache = cache.New(config.CacheTTL, 2*config.CacheTTL)
	}
	return s
}

// ResolveParts returns the rows of a product ordered by station then part.
// It fails with entities.ErrProductNotFound when the product has no rows.
func (s *Service) ResolveParts(ctx context.Context, product entities.ProductCode) ([]Entry, error) {
	if s.cache != nil {
		if cached, found := s.cache.Get(string(product)); found {
			return copyEntries(cached.([]Entry)), nil
		}
	}

	items, err := s.bomRepo.GetBOMItems(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to load BOM for %s: %w: %w", product, entities.ErrUnavailableDependency, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: %s", entities.ErrProductNotFound, product)
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		entries = append(entries, Entry{
			StationCode:     item.StationCode,
			PartCode:        item.PartCode,
			QuantityPerUnit: item.QtyPerUnit,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].StationCode != entries[j].StationCode {
			return entries[i].StationCode < entries[j].StationCode
		}
		return entries[i].PartCode < entries[j].PartCode
	})

	if s.cache != nil {
		s.cache.Set(string(product), copyEntries(entries), cache.DefaultExpiration)
		s.logger.Debug().Str("product", string(product)).Int("rows", len(entries)).Msg("cached BOM")
	}

	return entries, nil
}

// Invalidate drops the cached rows of a product after its BOM was edited
func (s *Service) Invalidate(product entities.ProductCode) {
	if s.cache != nil {
		s.cache.Delete(string(product))
	}
}

// Flush drops every cached product
func (s *Service) Flush() {
	if s.cache != nil {
		s.cache.Flush()
	}
}

func copyEntries(entries []Entry) []Entry {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}

// PartRequirement is the aggregated demand for one distinct part
type PartRequirement struct {
	PartCode         entities.PartCode
	RequiredQuantity entities.Quantity
	UsedInStations   []entities.StationCode
}

// Aggregate multiplies rows by the planned quantity and merges rows of the
// same part across stations. The result is ordered by part code and each
// station list is sorted and deduplicated.
func Aggregate(entries []Entry, plannedQuantity int64) []PartRequirement {
	multiplier := entities.Qty(plannedQuantity)
	byPart := make(map[entities.PartCode]*PartRequirement)
	stations := make(map[entities.PartCode]map[entities.StationCode]struct{})

	for _, entry := range entries {
		req, exists := byPart[entry.PartCode]
		if !exists {
			req = &PartRequirement{PartCode: entry.PartCode, RequiredQuantity: entities.ZeroQty}
			byPart[entry.PartCode] = req
			stations[entry.PartCode] = make(map[entities.StationCode]struct{})
		}
		req.RequiredQuantity = req.RequiredQuantity.Add(entry.QuantityPerUnit.Mul(multiplier))
		stations[entry.PartCode][entry.StationCode] = struct{}{}
	}

	result := make([]PartRequirement, 0, len(byPart))
	for part, req := range byPart {
		req.UsedInStations = make([]entities.StationCode, 0, len(stations[part]))
		for station := range stations[part] {
			req.UsedInStations = append(req.UsedInStations, station)
		}
		sort.Slice(req.UsedInStations, func(i, j int) bool {
			return req.UsedInStations[i] < req.UsedInStations[j]
		})
		result = append(result, *req)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PartCode < result[j].PartCode
	})
	return result
}
