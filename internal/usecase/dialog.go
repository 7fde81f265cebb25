package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"dining-concierge/internal/domain"
)

// InvocationSource mirrors the hosting framework's code-hook sources.
type InvocationSource string

const (
	SourceDialogHook      InvocationSource = "DialogCodeHook"
	SourceFulfillmentHook InvocationSource = "FulfillmentCodeHook"
)

// Fulfillment states carried by a close directive.
const (
	StateFulfilled = "Fulfilled"
	StateFailed    = "Failed"
)

type DirectiveKind string

const (
	DirectiveElicitSlot DirectiveKind = "ElicitSlot"
	DirectiveDelegate   DirectiveKind = "Delegate"
	DirectiveClose      DirectiveKind = "Close"
)

// Directive is the next dialog action decided by the controller. Message is
// nil when the framework should use its own prompt (delegate, or an elicit
// for a slot whose prompt lives on the bot model).
type Directive struct {
	Kind             DirectiveKind
	SlotToElicit     domain.Field
	Slots            domain.SlotValues
	Message          *string
	FulfillmentState string
}

type Enqueuer interface {
	Enqueue(ctx context.Context, req domain.DiningRequest) (string, error)
}

type PreferenceReader interface {
	GetPreference(ctx context.Context, email string) (*domain.PreferenceRecord, error)
}

type Recommender interface {
	Recommend(ctx context.Context, in RecommendInput) (RecommendResult, error)
}

// DialogService drives the per-conversation slot-filling state machine and
// the single-turn greeting flow.
type DialogService struct {
	queue       Enqueuer
	prefs       PreferenceReader
	recommender Recommender
	now         func() time.Time
}

// NewDialogService creates a DialogService. now may be nil, in which case
// time.Now is used; tests inject a fixed clock.
func NewDialogService(queue Enqueuer, prefs PreferenceReader, recommender Recommender, now func() time.Time) (*DialogService, error) {
	if queue == nil {
		return nil, errors.New("usecase: enqueuer must not be nil")
	}
	if prefs == nil {
		return nil, errors.New("usecase: preference reader must not be nil")
	}
	if recommender == nil {
		return nil, errors.New("usecase: recommender must not be nil")
	}
	if now == nil {
		now = time.Now
	}
	return &DialogService{queue: queue, prefs: prefs, recommender: recommender, now: now}, nil
}

// DiningTurnInput is one turn of the dining-suggestions intent. Email is the
// identity captured during greeting, threaded through session state by the
// handler rather than held anywhere ambient.
type DiningTurnInput struct {
	Source InvocationSource
	Slots  domain.SlotValues
	Email  *string
}

// DiningTurn advances the slot-filling state machine. Mid-dialog it
// validates the slots collected so far, clearing and re-eliciting the first
// violating one, or delegates when everything supplied passes. At
// fulfillment time it enqueues the completed request; the closing message is
// conditional on the enqueue actually succeeding.
func (s *DialogService) DiningTurn(ctx context.Context, in DiningTurnInput) (Directive, error) {
	if in.Source == SourceDialogHook {
		result := ValidateDiningRequest(in.Slots, s.now())
		if !result.Valid {
			return Directive{
				Kind:         DirectiveElicitSlot,
				SlotToElicit: result.ViolatedField,
				Slots:        clearField(in.Slots, result.ViolatedField),
				Message:      result.Message,
			}, nil
		}
		return Directive{Kind: DirectiveDelegate, Slots: in.Slots}, nil
	}

	req, err := buildDiningRequest(in.Slots, in.Email)
	if err != nil {
		slog.Warn("fulfillment invoked with an incomplete request", "err", err)
		return closeDirective(StateFailed,
			"Something went wrong collecting your request. Please start over."), nil
	}
	if _, err := s.queue.Enqueue(ctx, req); err != nil {
		slog.Error("failed to enqueue dining request", "email", req.Email, "err", err)
		return closeDirective(StateFailed,
			"I could not submit your request just now. Please try again in a little while."), nil
	}
	return closeDirective(StateFulfilled, fmt.Sprintf(
		"You are all set! I will email your suggestions to %s shortly. Have a good day!", req.Email)), nil
}

// GreetResult carries the greeting directive plus the captured identity,
// which the handler stores in session attributes for the dining intent.
type GreetResult struct {
	Directive
	Email string
}

// Greet handles the single-turn greeting flow: capture an email identity,
// and when it belongs to a known requester, synchronously re-run the stored
// search and email fresh recommendations.
func (s *DialogService) Greet(ctx context.Context, email *string) (GreetResult, error) {
	if email == nil || strings.TrimSpace(*email) == "" {
		return GreetResult{Directive: elicitEmail(
			"Welcome to the Dining Concierge bot! Please enter your email address to continue.")}, nil
	}
	addr := strings.TrimSpace(*email)
	if !validEmail(addr) {
		return GreetResult{Directive: elicitEmail(
			"That does not look like a valid email address. Please enter your email address to continue.")}, nil
	}

	pref, err := s.prefs.GetPreference(ctx, addr)
	if err != nil {
		// Degrade to the new-user path rather than surfacing a system error.
		slog.Warn("preference lookup failed", "email", addr, "err", err)
		pref = nil
	}
	if pref == nil {
		return GreetResult{
			Directive: closeDirective(StateFulfilled, "You are a new user. How can I help?"),
			Email:     addr,
		}, nil
	}

	// The stored preference is reused, never rewritten, on this path.
	_, err = s.recommender.Recommend(ctx, RecommendInput{
		Email:              addr,
		Location:           pref.Location,
		Cuisine:            pref.Cuisine,
		FromPreviousSearch: true,
	})
	if err != nil {
		slog.Warn("returning-user recommendation failed", "email", addr, "err", err)
		return GreetResult{
			Directive: closeDirective(StateFulfilled,
				"I could not refresh your recommendations just now. How can I help?"),
			Email: addr,
		}, nil
	}
	return GreetResult{
		Directive: closeDirective(StateFulfilled,
			"Fresh restaurant recommendations have been emailed to you based on your previous search. How can I help again?"),
		Email: addr,
	}, nil
}

// ThankYou closes the thank-you intent.
func (s *DialogService) ThankYou() Directive {
	return closeDirective(StateFulfilled, "You're welcome.")
}

var validate = validator.New()

func validEmail(addr string) bool {
	return validate.Var(addr, "required,email") == nil
}

// buildDiningRequest converts the completed slot set into an immutable
// request. The framework has already validated the slots by the time the
// fulfillment hook fires, so any gap here is a hard error, not a re-prompt.
func buildDiningRequest(slots domain.SlotValues, email *string) (domain.DiningRequest, error) {
	missing := func(f domain.Field) (domain.DiningRequest, error) {
		return domain.DiningRequest{}, fmt.Errorf("usecase: slot %s missing at fulfillment time", f)
	}
	if slots.Location == nil {
		return missing(domain.FieldLocation)
	}
	if slots.Cuisine == nil {
		return missing(domain.FieldCuisine)
	}
	if slots.PartySize == nil {
		return missing(domain.FieldPartySize)
	}
	if slots.DiningDate == nil {
		return missing(domain.FieldDiningDate)
	}
	if slots.DiningTime == nil {
		return missing(domain.FieldDiningTime)
	}
	if email == nil || !validEmail(strings.TrimSpace(*email)) {
		return missing(domain.FieldEmail)
	}
	partySize, err := strconv.Atoi(strings.TrimSpace(*slots.PartySize))
	if err != nil {
		return domain.DiningRequest{}, fmt.Errorf("usecase: parse party size: %w", err)
	}
	return domain.DiningRequest{
		Location:   *slots.Location,
		Cuisine:    *slots.Cuisine,
		PartySize:  partySize,
		DiningDate: *slots.DiningDate,
		DiningTime: *slots.DiningTime,
		Email:      strings.TrimSpace(*email),
	}, nil
}

func clearField(slots domain.SlotValues, field domain.Field) domain.SlotValues {
	switch field {
	case domain.FieldLocation:
		slots.Location = nil
	case domain.FieldCuisine:
		slots.Cuisine = nil
	case domain.FieldPartySize:
		slots.PartySize = nil
	case domain.FieldDiningDate:
		slots.DiningDate = nil
	case domain.FieldDiningTime:
		slots.DiningTime = nil
	}
	return slots
}

func closeDirective(state, message string) Directive {
	return Directive{Kind: DirectiveClose, FulfillmentState: state, Message: &message}
}

func elicitEmail(message string) Directive {
	return Directive{Kind: DirectiveElicitSlot, SlotToElicit: domain.FieldEmail, Message: &message}
}
