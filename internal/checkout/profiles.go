package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/metrics"
)

type profileReader interface {
	FetchPaymentProfiles(ctx context.Context, sellerIDs []uuid.UUID) ([]models.SellerPaymentProfile, error)
}

type profileMetrics interface {
	AddProfileFallbacks(reason string, sellers int)
}

type profileResult struct {
	profiles []models.SellerPaymentProfile
	err      error
}

// profileFetcher bounds the profile lookup and never fails: sellers it cannot
// resolve are priced with default charges by Aggregate.
type profileFetcher struct {
	reader  profileReader
	timeout time.Duration
	logg    *logger.Logger
	metrics profileMetrics
}

func (f profileFetcher) fetch(ctx context.Context, sellerIDs []uuid.UUID) []models.SellerPaymentProfile {
	if len(sellerIDs) == 0 {
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	done := make(chan profileResult, 1)
	go func() {
		profiles, err := f.reader.FetchPaymentProfiles(fetchCtx, sellerIDs)
		done <- profileResult{profiles: profiles, err: err}
	}()

	var res profileResult
	select {
	case res = <-done:
	case <-fetchCtx.Done():
		res = profileResult{err: fetchCtx.Err()}
	}

	if res.err != nil {
		reason := metrics.FallbackError
		if errors.Is(res.err, context.DeadlineExceeded) {
			reason = metrics.FallbackTimeout
		}
		f.fallback(ctx, reason, len(sellerIDs), res.err)
		return nil
	}

	if missing := countMissing(sellerIDs, res.profiles); missing > 0 {
		f.fallback(ctx, metrics.FallbackMissing, missing, nil)
	}
	return res.profiles
}

func (f profileFetcher) fallback(ctx context.Context, reason string, sellers int, err error) {
	if f.metrics != nil {
		f.metrics.AddProfileFallbacks(reason, sellers)
	}
	if f.logg == nil {
		return
	}
	fields := map[string]any{"reason": reason, "sellers": sellers}
	if err != nil {
		fields["error"] = err.Error()
	}
	f.logg.Warn(f.logg.WithFields(ctx, fields), "seller profiles unavailable, using default charges")
}

func countMissing(sellerIDs []uuid.UUID, profiles []models.SellerPaymentProfile) int {
	found := make(map[uuid.UUID]struct{}, len(profiles))
	for _, p := range profiles {
		found[p.SellerID] = struct{}{}
	}
	missing := 0
	for _, id := range sellerIDs {
		if _, ok := found[id]; !ok {
			missing++
		}
	}
	return missing
}
