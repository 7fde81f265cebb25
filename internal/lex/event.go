// Package lex holds the Lex V1 code-hook wire shapes and the directive
// constructors the dialog handler responds with.
package lex

// Invocation sources with which the hosting framework calls the code hook.
const (
	SourceDialog      = "DialogCodeHook"
	SourceFulfillment = "FulfillmentCodeHook"
)

// Fulfillment states carried by a Close directive.
const (
	StateFulfilled = "Fulfilled"
	StateFailed    = "Failed"
)

const contentTypePlainText = "PlainText"

// Event is the turn payload delivered by the hosting framework.
type Event struct {
	MessageVersion    string            `json:"messageVersion"`
	InvocationSource  string            `json:"invocationSource"`
	UserID            string            `json:"userId"`
	InputTranscript   string            `json:"inputTranscript"`
	SessionAttributes map[string]string `json:"sessionAttributes"`
	CurrentIntent     CurrentIntent     `json:"currentIntent"`
}

// CurrentIntent is the recognized intent plus the slot map as collected so
// far. Slot values are nil until supplied by the user.
type CurrentIntent struct {
	Name  string             `json:"name"`
	Slots map[string]*string `json:"slots"`
}

// Message is a plain-text message shown to the user.
type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Response is the directive returned to the hosting framework.
type Response struct {
	SessionAttributes map[string]string `json:"sessionAttributes"`
	DialogAction      DialogAction      `json:"dialogAction"`
}

type DialogAction struct {
	Type             string             `json:"type"`
	IntentName       string             `json:"intentName,omitempty"`
	Slots            map[string]*string `json:"slots,omitempty"`
	SlotToElicit     string             `json:"slotToElicit,omitempty"`
	FulfillmentState string             `json:"fulfillmentState,omitempty"`
	Message          *Message           `json:"message,omitempty"`
}

// PlainText wraps content in a plain-text message.
func PlainText(content string) *Message {
	return &Message{ContentType: contentTypePlainText, Content: content}
}

// ElicitSlot asks the user for one named slot again. A nil message tells the
// framework to use the prompt defined on the bot model.
func ElicitSlot(session map[string]string, intentName string, slots map[string]*string, slotToElicit string, msg *Message) Response {
	return Response{
		SessionAttributes: session,
		DialogAction: DialogAction{
			Type:         "ElicitSlot",
			IntentName:   intentName,
			Slots:        slots,
			SlotToElicit: slotToElicit,
			Message:      msg,
		},
	}
}

// Delegate hands control back to the framework with the current slot map.
func Delegate(session map[string]string, slots map[string]*string) Response {
	return Response{
		SessionAttributes: session,
		DialogAction: DialogAction{
			Type:  "Delegate",
			Slots: slots,
		},
	}
}

// Close ends the intent with a fulfillment state and a final message.
func Close(session map[string]string, fulfillmentState string, msg *Message) Response {
	return Response{
		SessionAttributes: session,
		DialogAction: DialogAction{
			Type:             "Close",
			FulfillmentState: fulfillmentState,
			Message:          msg,
		},
	}
}
