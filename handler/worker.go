package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"dining-concierge/internal/usecase"
)

// Response is the envelope returned to the scheduled trigger.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// WorkerHandler runs one queue poll cycle per scheduled invocation.
type WorkerHandler struct {
	svc *usecase.FulfillmentService
}

func NewWorkerHandler(svc *usecase.FulfillmentService) (*WorkerHandler, error) {
	if svc == nil {
		return nil, errors.New("handler: fulfillment service must not be nil")
	}
	return &WorkerHandler{svc: svc}, nil
}

// Handle polls the queue once. Cycle failures are reported in the response
// body, never as a handler error: the queue's visibility timeout is the
// retry mechanism, not the scheduler.
func (h *WorkerHandler) Handle(ctx context.Context) (Response, error) {
	result, err := h.svc.PollOnce(ctx)
	if err != nil {
		slog.Error("poll cycle failed", "messageId", result.MessageID, "err", err)
		return jsonResponse(500, map[string]string{"message": "poll cycle failed"}), nil
	}
	if !result.Processed {
		return jsonResponse(200, map[string]string{"message": "no message in queue"}), nil
	}

	slog.Info("processed dining request",
		"messageId", result.MessageID,
		"requestId", result.RequestID,
		"candidates", result.Candidates,
		"notified", result.Notified,
		"preferencesSaved", result.PreferencesSaved)
	return jsonResponse(200, map[string]string{"message": "suggestions sent"}), nil
}

func jsonResponse(status int, payload map[string]string) Response {
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{StatusCode: status}
	}
	return Response{StatusCode: status, Body: string(body)}
}
