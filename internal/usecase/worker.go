package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"dining-concierge/internal/domain"
)

type QueueConsumer interface {
	ReceiveOne(ctx context.Context) (*domain.QueueMessage, error)
	Acknowledge(ctx context.Context, msg *domain.QueueMessage) error
}

type PreferenceWriter interface {
	PutPreference(ctx context.Context, rec domain.PreferenceRecord) error
}

// FulfillmentService consumes validated requests from the queue and turns
// each into one notification. It is safe to run several instances
// concurrently: the queue's visibility timeout serializes a message to one
// consumer at a time, and the preference write is a last-write-wins
// overwrite, so a redelivered message repeats the same effect.
type FulfillmentService struct {
	queue       QueueConsumer
	recommender Recommender
	prefs       PreferenceWriter
}

func NewFulfillmentService(queue QueueConsumer, recommender Recommender, prefs PreferenceWriter) (*FulfillmentService, error) {
	if queue == nil {
		return nil, errors.New("usecase: queue consumer must not be nil")
	}
	if recommender == nil {
		return nil, errors.New("usecase: recommender must not be nil")
	}
	if prefs == nil {
		return nil, errors.New("usecase: preference writer must not be nil")
	}
	return &FulfillmentService{queue: queue, recommender: recommender, prefs: prefs}, nil
}

// PollResult reports what one cycle did. Processed is false when the queue
// was empty.
type PollResult struct {
	Processed        bool
	MessageID        string
	RequestID        string
	Candidates       int
	Notified         bool
	PreferencesSaved bool
	Acknowledged     bool
}

// PollOnce receives at most one message and processes it end to end:
// search, sample, resolve, notify, save preferences, acknowledge. Every
// failure after receipt is a degrade-and-continue decision; the message is
// acknowledged regardless so a request with no usable outcome cannot loop
// forever as a poison message. Redelivery only happens if the process dies
// before the acknowledge call.
func (s *FulfillmentService) PollOnce(ctx context.Context) (PollResult, error) {
	msg, err := s.queue.ReceiveOne(ctx)
	if err != nil {
		return PollResult{}, newError(ErrorUpstream, "queue_receive_error", err)
	}
	if msg == nil {
		return PollResult{}, nil
	}
	out := PollResult{Processed: true, MessageID: msg.MessageID, RequestID: msg.RequestID}

	in := RecommendInput{
		Email:      deref(msg.Email),
		Location:   deref(msg.Location),
		Cuisine:    deref(msg.Cuisine),
		DiningDate: deref(msg.DiningDate),
		DiningTime: deref(msg.DiningTime),
	}
	if msg.PartySize != nil {
		if n, convErr := strconv.Atoi(strings.TrimSpace(*msg.PartySize)); convErr == nil {
			in.PartySize = n
		}
	}

	res, err := s.recommender.Recommend(ctx, in)
	if err != nil {
		slog.Warn("fulfillment degraded, acknowledging anyway",
			"messageId", msg.MessageID, "requestId", msg.RequestID, "err", err)
	}
	out.Candidates = res.Candidates
	out.Notified = res.Notified

	if in.Email != "" && in.Cuisine != "" {
		rec := domain.PreferenceRecord{Email: in.Email, Location: in.Location, Cuisine: in.Cuisine}
		if err := s.prefs.PutPreference(ctx, rec); err != nil {
			slog.Warn("failed to save last-used preferences", "email", in.Email, "err", err)
		} else {
			out.PreferencesSaved = true
		}
	}

	if err := s.queue.Acknowledge(ctx, msg); err != nil {
		// The message will reappear after the visibility timeout; the next
		// delivery repeats the same overwrite, so no state is corrupted.
		return out, newError(ErrorUpstream, "queue_ack_error", err)
	}
	out.Acknowledged = true
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
