package domain

// RestaurantRecord is immutable reference data owned by the restaurants
// table; read-only from this service's perspective.
type RestaurantRecord struct {
	ID          string
	Name        string
	Cuisine     string
	Rating      float64
	ReviewCount int
	Address     string
	ZipCode     string
}

// PreferenceRecord is the last-used search for an identity. A single current
// snapshot per email, overwritten on every completed fulfillment.
type PreferenceRecord struct {
	Email    string
	Location string
	Cuisine  string
}
