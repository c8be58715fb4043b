package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerbazaar-backend/internal/orders"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/outbox"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/outbox/payloads"
)

const (
	OrphanOrderJobName     = "orphan-order-reconcile"
	defaultOrphanGrace     = 30 * time.Minute
	defaultOrphanBatchSize = 200
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type reconcileCounter interface {
	AddReconciled(n int)
}

// OrphanOrderJobParams configure the reconciliation of order headers that were
// committed without any lines.
type OrphanOrderJobParams struct {
	Logger    *logger.Logger
	DB        txRunner
	Orders    orders.Repository
	Outbox    outboxEmitter
	Metrics   reconcileCounter
	Grace     time.Duration
	BatchSize int
}

type orphanOrderJob struct {
	logg      *logger.Logger
	db        txRunner
	orders    orders.Repository
	outbox    outboxEmitter
	metrics   reconcileCounter
	grace     time.Duration
	batchSize int
	now       func() time.Time
}

func NewOrphanOrderJob(params OrphanOrderJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	grace := params.Grace
	if grace <= 0 {
		grace = defaultOrphanGrace
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultOrphanBatchSize
	}
	return &orphanOrderJob{
		logg:      params.Logger,
		db:        params.DB,
		orders:    params.Orders,
		outbox:    params.Outbox,
		metrics:   params.Metrics,
		grace:     grace,
		batchSize: batch,
		now:       time.Now,
	}, nil
}

func (j *orphanOrderJob) Name() string { return OrphanOrderJobName }

// Run marks every placed header older than the grace period that has no lines
// as incomplete. One failing order does not stop the others.
func (j *orphanOrderJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	cutoff := now.Add(-j.grace)
	headers, err := j.orders.FindHeadersWithoutLines(ctx, cutoff, j.batchSize)
	if err != nil {
		return fmt.Errorf("query orphaned orders: %w", err)
	}

	var errs error
	marked := 0
	for _, order := range headers {
		ok, err := j.markIncomplete(ctx, order, now)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("order %s: %w", order.ID, err))
			continue
		}
		if ok {
			marked++
		}
	}

	if j.metrics != nil {
		j.metrics.AddReconciled(marked)
	}
	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"cutoff": cutoff,
		"found":  len(headers),
		"marked": marked,
		"failed": len(multierr.Errors(errs)),
	}), "orphaned order reconciliation complete")
	return errs
}

func (j *orphanOrderJob) markIncomplete(ctx context.Context, order models.Order, now time.Time) (bool, error) {
	changed := false
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		ok, err := j.orders.WithTx(tx).MarkIncomplete(ctx, order.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		changed = true
		return j.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:   enums.EventOrderIncomplete,
			AggregateID: order.ID,
			Data: payloads.OrderIncompleteEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				ShopperID:   order.ShopperID,
				DetectedAt:  now,
			},
			OccurredAt: now,
		})
	})
	if err != nil {
		return false, err
	}
	return changed, nil
}
