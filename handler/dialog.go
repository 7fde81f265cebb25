package handler

import (
	"context"
	"errors"
	"log/slog"

	"dining-concierge/internal/domain"
	"dining-concierge/internal/lex"
	"dining-concierge/internal/usecase"
)

// Intent names defined on the bot model.
const (
	intentDiningSuggestions = "DiningSuggestionsIntent"
	intentGreeting          = "GreetingIntent"
	intentThankYou          = "ThankYouIntent"
)

const (
	emailSlot        = "email"
	sessionEmailAttr = "email"
)

// DialogHandler adapts the Lex code-hook event to the dialog service and its
// directives back to the wire shape.
type DialogHandler struct {
	svc *usecase.DialogService
}

func NewDialogHandler(svc *usecase.DialogService) (*DialogHandler, error) {
	if svc == nil {
		return nil, errors.New("handler: dialog service must not be nil")
	}
	return &DialogHandler{svc: svc}, nil
}

// Handle dispatches one conversational turn by intent name.
func (h *DialogHandler) Handle(ctx context.Context, event lex.Event) (lex.Response, error) {
	switch event.CurrentIntent.Name {
	case intentDiningSuggestions:
		return h.diningSuggestions(ctx, event)
	case intentGreeting:
		return h.greeting(ctx, event)
	case intentThankYou:
		return h.directiveResponse(h.svc.ThankYou(), event), nil
	default:
		slog.Warn("unrecognized intent", "intent", event.CurrentIntent.Name)
		return lex.Close(event.SessionAttributes, lex.StateFailed,
			lex.PlainText("Sorry, I can't help with that.")), nil
	}
}

func (h *DialogHandler) diningSuggestions(ctx context.Context, event lex.Event) (lex.Response, error) {
	in := usecase.DiningTurnInput{
		Source: usecase.InvocationSource(event.InvocationSource),
		Slots:  slotValues(event.CurrentIntent.Slots),
		Email:  sessionValue(event.SessionAttributes, sessionEmailAttr),
	}
	directive, err := h.svc.DiningTurn(ctx, in)
	if err != nil {
		return lex.Response{}, err
	}
	return h.directiveResponse(directive, event), nil
}

func (h *DialogHandler) greeting(ctx context.Context, event lex.Event) (lex.Response, error) {
	result, err := h.svc.Greet(ctx, event.CurrentIntent.Slots[emailSlot])
	if err != nil {
		return lex.Response{}, err
	}

	session := copySession(event.SessionAttributes)
	if result.Email != "" {
		// Thread the captured identity to the dining intent through session
		// state instead of anything process-global.
		session[sessionEmailAttr] = result.Email
	}

	if result.Kind == usecase.DirectiveElicitSlot {
		slots := copySlots(event.CurrentIntent.Slots)
		slots[emailSlot] = nil
		return lex.ElicitSlot(session, event.CurrentIntent.Name, slots, emailSlot,
			messageOrNil(result.Message)), nil
	}
	return lex.Close(session, result.FulfillmentState, messageOrNil(result.Message)), nil
}

func (h *DialogHandler) directiveResponse(d usecase.Directive, event lex.Event) lex.Response {
	switch d.Kind {
	case usecase.DirectiveElicitSlot:
		return lex.ElicitSlot(event.SessionAttributes, event.CurrentIntent.Name,
			slotsMap(d.Slots), string(d.SlotToElicit), messageOrNil(d.Message))
	case usecase.DirectiveDelegate:
		return lex.Delegate(event.SessionAttributes, slotsMap(d.Slots))
	default:
		return lex.Close(event.SessionAttributes, d.FulfillmentState, messageOrNil(d.Message))
	}
}

func slotValues(slots map[string]*string) domain.SlotValues {
	return domain.SlotValues{
		Location:   slots[string(domain.FieldLocation)],
		Cuisine:    slots[string(domain.FieldCuisine)],
		PartySize:  slots[string(domain.FieldPartySize)],
		DiningDate: slots[string(domain.FieldDiningDate)],
		DiningTime: slots[string(domain.FieldDiningTime)],
	}
}

func slotsMap(slots domain.SlotValues) map[string]*string {
	return map[string]*string{
		string(domain.FieldLocation):   slots.Location,
		string(domain.FieldCuisine):    slots.Cuisine,
		string(domain.FieldPartySize):  slots.PartySize,
		string(domain.FieldDiningDate): slots.DiningDate,
		string(domain.FieldDiningTime): slots.DiningTime,
	}
}

func sessionValue(session map[string]string, key string) *string {
	v, ok := session[key]
	if !ok {
		return nil
	}
	return &v
}

func copySession(session map[string]string) map[string]string {
	out := make(map[string]string, len(session)+1)
	for k, v := range session {
		out[k] = v
	}
	return out
}

func copySlots(slots map[string]*string) map[string]*string {
	out := make(map[string]*string, len(slots)+1)
	for k, v := range slots {
		out[k] = v
	}
	return out
}

func messageOrNil(content *string) *lex.Message {
	if content == nil {
		return nil
	}
	return lex.PlainText(*content)
}
