package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/sellerbazaar-backend/internal/orders"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/outbox"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/pagination"
)

type orphanRepo struct {
	headers  []models.Order
	cutoff   time.Time
	failFor  map[uuid.UUID]bool
	stale    map[uuid.UUID]bool
	marked   []uuid.UUID
	queryErr error
}

func (r *orphanRepo) WithTx(*gorm.DB) orders.Repository { return r }
func (r *orphanRepo) CreateOrder(context.Context, *models.Order, []models.OrderLine) error {
	return nil
}
func (r *orphanRepo) FindByIdempotencyKey(context.Context, string) (*models.Order, error) {
	return nil, nil
}
func (r *orphanRepo) FindByID(context.Context, uuid.UUID, uuid.UUID) (*models.Order, error) {
	return nil, nil
}
func (r *orphanRepo) ListByShopper(context.Context, uuid.UUID, int, *pagination.Cursor) ([]models.Order, error) {
	return nil, nil
}
func (r *orphanRepo) FindHeadersWithoutLines(_ context.Context, cutoff time.Time, _ int) ([]models.Order, error) {
	r.cutoff = cutoff
	return r.headers, r.queryErr
}
func (r *orphanRepo) MarkIncomplete(_ context.Context, id uuid.UUID, _ time.Time) (bool, error) {
	if r.failFor[id] {
		return false, errors.New("deadlock detected")
	}
	if r.stale[id] {
		return false, nil
	}
	r.marked = append(r.marked, id)
	return true, nil
}

type passthroughTx struct{}

func (passthroughTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type capturingOutbox struct {
	events []outbox.DomainEvent
}

func (c *capturingOutbox) Emit(_ context.Context, _ *gorm.DB, event outbox.DomainEvent) error {
	c.events = append(c.events, event)
	return nil
}

type reconcileTally struct{ total int }

func (r *reconcileTally) AddReconciled(n int) { r.total += n }

func TestOrphanOrderJobMarksHeadersAndEmits(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	good, failing, alreadyHandled := uuid.New(), uuid.New(), uuid.New()
	repo := &orphanRepo{
		headers: []models.Order{
			{ID: good, OrderNumber: "SB-20260302-AAAA0001", ShopperID: uuid.New()},
			{ID: failing, OrderNumber: "SB-20260302-AAAA0002"},
			{ID: alreadyHandled, OrderNumber: "SB-20260302-AAAA0003"},
		},
		failFor: map[uuid.UUID]bool{failing: true},
		stale:   map[uuid.UUID]bool{alreadyHandled: true},
	}
	box := &capturingOutbox{}
	tally := &reconcileTally{}
	job, err := NewOrphanOrderJob(OrphanOrderJobParams{
		Logger:  logger.Nop(),
		DB:      passthroughTx{},
		Orders:  repo,
		Outbox:  box,
		Metrics: tally,
		Grace:   time.Hour,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	job.(*orphanOrderJob).now = func() time.Time { return now }

	err = job.Run(context.Background())
	if errs := multierr.Errors(err); len(errs) != 1 {
		t.Fatalf("expected one combined failure, got %v", err)
	}
	if !repo.cutoff.Equal(now.Add(-time.Hour)) {
		t.Fatalf("unexpected cutoff %s", repo.cutoff)
	}
	if len(repo.marked) != 1 || repo.marked[0] != good {
		t.Fatalf("unexpected marked orders %v", repo.marked)
	}
	if len(box.events) != 1 {
		t.Fatalf("expected one event, got %d", len(box.events))
	}
	if tally.total != 1 {
		t.Fatalf("expected one reconciled order counted, got %d", tally.total)
	}
	event := box.events[0]
	if event.EventType != enums.EventOrderIncomplete || event.AggregateID != good {
		t.Fatalf("unexpected event %+v", event)
	}
	payload, ok := event.Data.(payloads.OrderIncompleteEvent)
	if !ok || payload.OrderNumber != "SB-20260302-AAAA0001" || !payload.DetectedAt.Equal(now) {
		t.Fatalf("unexpected payload %+v", event.Data)
	}
}

func TestOrphanOrderJobQueryFailure(t *testing.T) {
	job, _ := NewOrphanOrderJob(OrphanOrderJobParams{
		Logger: logger.Nop(),
		DB:     passthroughTx{},
		Orders: &orphanRepo{queryErr: errors.New("db down")},
		Outbox: &capturingOutbox{},
	})
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected query error")
	}
	if job.Name() != OrphanOrderJobName {
		t.Fatalf("unexpected name %s", job.Name())
	}
}
