package bomindex

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/infrastructure/repositories/memory"
)

type failingBOMRepository struct {
	memory.BOMRepository
	calls int
}

func (r *failingBOMRepository) GetBOMItems(ctx context.Context, product entities.ProductCode) ([]*entities.BOMItem, error) {
	r.calls++
	return nil, errors.New("connection refused")
}

type countingBOMRepository struct {
	*memory.BOMRepository
	calls int
}

func (r *countingBOMRepository) GetBOMItems(ctx context.Context, product entities.ProductCode) ([]*entities.BOMItem, error) {
	r.calls++
	return r.BOMRepository.GetBOMItems(ctx, product)
}

func newPumpBOM() *memory.BOMRepository {
	repo := memory.NewBOMRepository(4)
	repo.AddBOMItem(entities.BOMItem{ProductCode: "PUMP", StationCode: "ST20", PartCode: "BOLT", QtyPerUnit: entities.Qty(2)})
	repo.AddBOMItem(entities.BOMItem{ProductCode: "PUMP", StationCode: "ST10", PartCode: "BOLT", QtyPerUnit: entities.Qty(4)})
	repo.AddBOMItem(entities.BOMItem{ProductCode: "PUMP", StationCode: "ST10", PartCode: "SEAL", QtyPerUnit: entities.Qty(1)})
	return repo
}

func TestResolveParts_ReturnsRawRows(t *testing.T) {
	service := NewService(newPumpBOM())

	entries, err := service.ResolveParts(context.Background(), "PUMP")
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, Entry{StationCode: "ST10", PartCode: "BOLT", QuantityPerUnit: entities.Qty(4)}, entries[0])
	assert.Equal(t, entities.PartCode("SEAL"), entries[1].PartCode)
	assert.Equal(t, entities.StationCode("ST20"), entries[2].StationCode)
}

func TestResolveParts_ProductNotFound(t *testing.T) {
	service := NewService(newPumpBOM())

	_, err := service.ResolveParts(context.Background(), "VALVE")
	assert.True(t, errors.Is(err, entities.ErrProductNotFound))
}

func TestResolveParts_WrapsStorageFailure(t *testing.T) {
	service := NewService(&failingBOMRepository{})

	_, err := service.ResolveParts(context.Background(), "PUMP")
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrUnavailableDependency)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestResolveParts_CachesAndInvalidates(t *testing.T) {
	repo := &countingBOMRepository{BOMRepository: newPumpBOM()}
	service := NewServiceWithConfig(repo, Config{CacheTTL: time.Minute})
	ctx := context.Background()

	first, err := service.ResolveParts(ctx, "PUMP")
	require.NoError(t, err)
	// Mutating the returned slice must not poison the cache
	first[0].QuantityPerUnit = entities.Qty(999)

	second, err := service.ResolveParts(ctx, "PUMP")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls)
	assert.True(t, second[0].QuantityPerUnit.Equal(entities.Qty(4)))

	repo.AddBOMItem(entities.BOMItem{ProductCode: "PUMP", StationCode: "ST30", PartCode: "CABLE", QtyPerUnit: entities.Qty(1)})
	service.Invalidate("PUMP")

	third, err := service.ResolveParts(ctx, "PUMP")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
	assert.Len(t, third, 4)

	service.Flush()
	_, _ = service.ResolveParts(ctx, "PUMP")
	assert.Equal(t, 3, repo.calls)
}

func TestResolveParts_NotFoundIsNotCached(t *testing.T) {
	repo := &countingBOMRepository{BOMRepository: memory.NewBOMRepository(1)}
	service := NewServiceWithConfig(repo, Config{CacheTTL: time.Minute})
	ctx := context.Background()

	_, err := service.ResolveParts(ctx, "PUMP")
	require.ErrorIs(t, err, entities.ErrProductNotFound)

	repo.AddBOMItem(entities.BOMItem{ProductCode: "PUMP", StationCode: "ST10", PartCode: "BOLT", QtyPerUnit: entities.Qty(1)})
	entries, err := service.ResolveParts(ctx, "PUMP")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAggregate(t *testing.T) {
	entries := []Entry{
		{StationCode: "ST10", PartCode: "BOLT", QuantityPerUnit: entities.Qty(4)},
		{StationCode: "ST10", PartCode: "CABLE", QuantityPerUnit: decimal.RequireFromString("0.75")},
		{StationCode: "ST20", PartCode: "BOLT", QuantityPerUnit: entities.Qty(2)},
		{StationCode: "ST05", PartCode: "ANCHOR", QuantityPerUnit: entities.Qty(1)},
	}

	result := Aggregate(entries, 10)
	require.Len(t, result, 3)

	assert.Equal(t, entities.PartCode("ANCHOR"), result[0].PartCode)
	assert.True(t, result[0].RequiredQuantity.Equal(entities.Qty(10)))

	bolt := result[1]
	assert.Equal(t, entities.PartCode("BOLT"), bolt.PartCode)
	assert.True(t, bolt.RequiredQuantity.Equal(entities.Qty(60)), "got %s", bolt.RequiredQuantity)
	assert.Equal(t, []entities.StationCode{"ST10", "ST20"}, bolt.UsedInStations)

	assert.Equal(t, "7.5", result[2].RequiredQuantity.String())
}
