package domain

// Field names a dining suggestion request is collected from, matching the
// slot names defined on the bot model.
type Field string

const (
	FieldLocation   Field = "Location"
	FieldCuisine    Field = "Cuisine"
	FieldPartySize  Field = "NumberOfPeople"
	FieldDiningDate Field = "DiningDate"
	FieldDiningTime Field = "DiningTime"
	FieldEmail      Field = "Email"
)

// SlotValues holds the raw conversational slot values supplied so far.
// A nil field means the user has not been asked for it yet, or the previous
// answer was cleared after failing validation.
type SlotValues struct {
	Location   *string
	Cuisine    *string
	PartySize  *string
	DiningDate *string
	DiningTime *string
}

// DiningRequest is a fully validated request. It is only ever constructed
// once every field has passed validation, and is immutable from the moment
// it is enqueued.
type DiningRequest struct {
	Location   string
	Cuisine    string
	PartySize  int
	DiningDate string // YYYY-MM-DD
	DiningTime string // HH:MM
	Email      string
}
