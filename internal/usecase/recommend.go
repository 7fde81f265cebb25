package usecase

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"dining-concierge/internal/domain"
)

// sampleSize is the maximum number of suggestions per notification.
const sampleSize = 3

type SearchIndex interface {
	QueryByCuisine(ctx context.Context, cuisine string) ([]string, error)
}

type RecordGetter interface {
	GetRestaurant(ctx context.Context, id string) (*domain.RestaurantRecord, error)
}

type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) (string, error)
}

// RecommendInput describes one notification to produce. PartySize,
// DiningDate and DiningTime are left zero on the returning-user path, which
// only carries the stored location and cuisine.
type RecommendInput struct {
	Email      string
	Location   string
	Cuisine    string
	PartySize  int
	DiningDate string
	DiningTime string

	// FromPreviousSearch selects the returning-user subject line and text
	// fallback instead of the first-time ones.
	FromPreviousSearch bool
}

type RecommendResult struct {
	Candidates int
	Resolved   int
	Notified   bool
	MessageID  string
}

// RecommendService runs the search, sample, resolve and notify sequence
// shared by the queue worker and the returning-user greeting path.
type RecommendService struct {
	search   SearchIndex
	records  RecordGetter
	notifier Notifier
	randInt  func(n int) int
}

// NewRecommendService creates a RecommendService. randInt draws a uniform
// value in [0, n) and may be nil, in which case an unseeded package source is
// used; tests inject a deterministic one.
func NewRecommendService(search SearchIndex, records RecordGetter, notifier Notifier, randInt func(n int) int) (*RecommendService, error) {
	if search == nil {
		return nil, errors.New("usecase: search index must not be nil")
	}
	if records == nil {
		return nil, errors.New("usecase: record getter must not be nil")
	}
	if notifier == nil {
		return nil, errors.New("usecase: notifier must not be nil")
	}
	if randInt == nil {
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		randInt = rng.Intn
	}
	return &RecommendService{
		search:   search,
		records:  records,
		notifier: notifier,
		randInt:  randInt,
	}, nil
}

// Recommend searches the index for the requested cuisine, samples up to
// three candidates, resolves them and emails the result. A search failure
// degrades to "no matches"; a candidate that fails to resolve is skipped,
// not fatal to the batch.
func (s *RecommendService) Recommend(ctx context.Context, in RecommendInput) (RecommendResult, error) {
	if strings.TrimSpace(in.Email) == "" {
		return RecommendResult{}, newError(ErrorInvalidInput, "missing_email", nil)
	}
	if strings.TrimSpace(in.Cuisine) == "" {
		return RecommendResult{}, newError(ErrorInvalidInput, "missing_cuisine", nil)
	}

	ids, err := s.search.QueryByCuisine(ctx, in.Cuisine)
	if err != nil {
		slog.Warn("search query failed, treating as no matches", "cuisine", in.Cuisine, "err", err)
		ids = nil
	}
	out := RecommendResult{Candidates: len(ids)}

	restaurants := make([]domain.RestaurantRecord, 0, sampleSize)
	for _, id := range sampleIDs(ids, sampleSize, s.randInt) {
		rec, err := s.records.GetRestaurant(ctx, id)
		if err != nil {
			slog.Warn("skipping restaurant that failed to resolve", "restaurantId", id, "err", err)
			continue
		}
		if rec == nil {
			slog.Warn("restaurant id not found in record store", "restaurantId", id)
			continue
		}
		restaurants = append(restaurants, *rec)
	}
	out.Resolved = len(restaurants)

	htmlBody, err := renderSuggestionsEmail(in, restaurants)
	if err != nil {
		return out, newError(ErrorInternal, "render_email_error", err)
	}
	subject, textBody := notificationText(in.FromPreviousSearch)

	msgID, err := s.notifier.Send(ctx, in.Email, subject, htmlBody, textBody)
	if err != nil {
		return out, newError(ErrorUpstream, "notify_error", err)
	}
	out.Notified = true
	out.MessageID = msgID
	return out, nil
}

// sampleIDs draws up to k distinct ids uniformly without replacement using a
// partial Fisher-Yates shuffle. The input slice is not modified.
func sampleIDs(ids []string, k int, randInt func(n int) int) []string {
	picked := append([]string(nil), ids...)
	if len(picked) <= k {
		return picked
	}
	for i := 0; i < k; i++ {
		j := i + randInt(len(picked)-i)
		picked[i], picked[j] = picked[j], picked[i]
	}
	return picked[:k]
}
