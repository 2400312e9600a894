package stock

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vsinha/prodplan/pkg/domain/entities"
	"github.com/vsinha/prodplan/pkg/domain/repositories"
	"github.com/vsinha/prodplan/pkg/infrastructure/events"
	"github.com/vsinha/prodplan/pkg/infrastructure/locking"
	"github.com/vsinha/prodplan/pkg/infrastructure/metrics"
)

// Config holds the collaborators of the stock ledger
type Config struct {
	Locker *locking.PartLocker
	Events events.Publisher
	Logger zerolog.Logger
}

// Ledger owns on-hand stock movements
type Ledger struct {
	inventory repositories.InventoryRepository
	receipts  repositories.ReceiptRepository
	locker    *locking.PartLocker
	events    events.Publisher
	logger    zerolog.Logger
}

// NewLedger creates a stock ledger
func NewLedger(inventory repositories.InventoryRepository, receipts repositories.ReceiptRepository, config Config) *Ledger {
	if config.Locker == nil {
		config.Locker = locking.NewPartLocker(locking.DefaultConfig())
	}
	if config.Events == nil {
		config.Events = events.Discard
	}
	return &Ledger{
		inventory: inventory,
		receipts:  receipts,
		locker:    config.Locker,
		events:    config.Events,
		logger:    config.Logger.With().Str("component", "stock").Logger(),
	}
}

// Adjust adds delta to the on-hand quantity of part and returns the new quantity.
// Adjustments that would leave negative stock fail with entities.ErrInsufficientStock.
func (l *Ledger) Adjust(ctx context.Context, part entities.PartCode, delta entities.Quantity, reason string) (entities.Quantity, error) {
	if string(part) == "" {
		return entities.ZeroQty, fmt.Errorf("part code cannot be empty")
	}
	if delta.IsZero() {
		return l.inventory.GetStock(ctx, part)
	}

	var onHand entities.Quantity
	err := l.locker.WithLock(ctx, part, func() error {
		var err error
		onHand, err = l.adjustLocked(ctx, part, delta)
		if err != nil {
			return err
		}
		l.recordAdjustment(part, delta, onHand, reason)
		return nil
	})
	return onHand, err
}

// Receive books a scheduled receipt into stock and removes it from the open
// receipts. Either both writes take effect or neither does.
func (l *Ledger) Receive(ctx context.Context, receiptID string) (entities.Quantity, error) {
	receipt, err := l.receipts.GetReceipt(ctx, receiptID)
	if err != nil {
		return entities.ZeroQty, l.wrapReceiptError(receiptID, err)
	}

	var onHand entities.Quantity
	err = l.locker.WithLock(ctx, receipt.PartCode, func() error {
		// Re-read under the lock; a concurrent Receive may have booked it already
		current, err := l.receipts.GetReceipt(ctx, receiptID)
		if err != nil {
			return l.wrapReceiptError(receiptID, err)
		}

		onHand, err = l.adjustLocked(ctx, current.PartCode, current.Quantity)
		if err != nil {
			return err
		}
		if err := l.receipts.DeleteReceipt(ctx, receiptID); err != nil {
			l.undoLocked(ctx, current.PartCode, current.Quantity, receiptID)
			return l.wrapReceiptError(receiptID, err)
		}

		l.recordAdjustment(current.PartCode, current.Quantity, onHand, "receipt "+receiptID)
		return nil
	})
	return onHand, err
}

func (l *Ledger) adjustLocked(ctx context.Context, part entities.PartCode, delta entities.Quantity) (entities.Quantity, error) {
	onHand, err := l.inventory.AdjustStock(ctx, part, delta)
	if err != nil {
		if errors.Is(err, entities.ErrInsufficientStock) {
			return onHand, err
		}
		return onHand, fmt.Errorf("failed to adjust stock of %s: %w: %w", part, entities.ErrUnavailableDependency, err)
	}
	return onHand, nil
}

// undoLocked reverts a receipt booking whose receipt could not be closed
func (l *Ledger) undoLocked(ctx context.Context, part entities.PartCode, delta entities.Quantity, receiptID string) {
	// The request context may be what failed the delete
	if _, err := l.inventory.AdjustStock(context.WithoutCancel(ctx), part, delta.Neg()); err != nil {
		l.logger.Error().
			Err(err).
			Str("part", string(part)).
			Str("receipt", receiptID).
			Str("delta", delta.String()).
			Msg("failed to revert receipt booking; stock and receipts disagree")
		return
	}
	l.logger.Warn().Str("part", string(part)).Str("receipt", receiptID).Msg("receipt booking reverted")
}

func (l *Ledger) recordAdjustment(part entities.PartCode, delta, onHand entities.Quantity, reason string) {
	metrics.RecordStockAdjustment()
	event := events.NewStockAdjustedEvent(part, delta, onHand, reason)
	if err := l.events.AppendEvent(event.StreamID(), event); err != nil {
		l.logger.Error().Err(err).Msg("failed to append event")
	}
	l.logger.Info().
		Str("part", string(part)).
		Str("delta", delta.String()).
		Str("on_hand", onHand.String()).
		Str("reason", reason).
		Msg("stock adjusted")
}

func (l *Ledger) wrapReceiptError(receiptID string, err error) error {
	if errors.Is(err, entities.ErrReceiptNotFound) {
		return err
	}
	return fmt.Errorf("failed to access receipt %s: %w: %w", receiptID, entities.ErrUnavailableDependency, err)
}
