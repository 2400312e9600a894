package repositories

import (
	"context"
	"time"

	"github.com/vsinha/prodplan/pkg/domain/entities"
)

// ReceiptRepository provides access to scheduled (not yet received) receipts
type ReceiptRepository interface {
	// ListReceipts returns receipts for the part expected on or before notAfter
	ListReceipts(ctx context.Context, part entities.PartCode, notAfter time.Time) ([]*entities.ScheduledReceipt, error)
	GetReceipt(ctx context.Context, id string) (*entities.ScheduledReceipt, error)
	DeleteReceipt(ctx context.Context, id string) error
	LoadReceipts(ctx context.Context, receipts []*entities.ScheduledReceipt) error
}
