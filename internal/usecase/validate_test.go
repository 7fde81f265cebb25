package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dining-concierge/internal/domain"
)

func ptr(s string) *string { return &s }

// testNow is a fixed clock: Sunday 2025-06-15 12:30 UTC.
var testNow = time.Date(2025, 6, 15, 12, 30, 0, 0, time.UTC)

func completeSlots() domain.SlotValues {
	return domain.SlotValues{
		Location:   ptr("Manhattan"),
		Cuisine:    ptr("Italian"),
		PartySize:  ptr("4"),
		DiningDate: ptr("2025-06-16"),
		DiningTime: ptr("19:00"),
	}
}

func TestValidate_AbsentSlotsPass(t *testing.T) {
	result := ValidateDiningRequest(domain.SlotValues{}, testNow)
	require.True(t, result.Valid)
	require.Empty(t, result.ViolatedField)
}

func TestValidate_CompleteValidRequestPasses(t *testing.T) {
	result := ValidateDiningRequest(completeSlots(), testNow)
	require.True(t, result.Valid)
}

func TestValidate_SingleBadFieldReportedIndependently(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*domain.SlotValues)
		field   domain.Field
		message bool
	}{
		{"location", func(s *domain.SlotValues) { s.Location = ptr("Brooklyn") }, domain.FieldLocation, true},
		{"cuisine", func(s *domain.SlotValues) { s.Cuisine = ptr("thai") }, domain.FieldCuisine, true},
		{"partySize", func(s *domain.SlotValues) { s.PartySize = ptr("45") }, domain.FieldPartySize, true},
		{"diningDate", func(s *domain.SlotValues) { s.DiningDate = ptr("2024-01-01") }, domain.FieldDiningDate, true},
		{"diningTime", func(s *domain.SlotValues) { s.DiningTime = ptr("7 pm") }, domain.FieldDiningTime, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slots := completeSlots()
			tc.mutate(&slots)
			result := ValidateDiningRequest(slots, testNow)
			require.False(t, result.Valid)
			require.Equal(t, tc.field, result.ViolatedField)
			if tc.message {
				require.NotNil(t, result.Message)
				require.NotEmpty(t, *result.Message)
			} else {
				require.Nil(t, result.Message)
			}
		})
	}
}

func TestValidate_LocationCaseInsensitive(t *testing.T) {
	for _, v := range []string{"manhattan", "Manhattan", "MANHATTAN", " Manhattan "} {
		slots := domain.SlotValues{Location: ptr(v)}
		require.True(t, ValidateDiningRequest(slots, testNow).Valid, "location=%q", v)
	}

	result := ValidateDiningRequest(domain.SlotValues{Location: ptr("Brooklyn")}, testNow)
	require.False(t, result.Valid)
	require.Equal(t, domain.FieldLocation, result.ViolatedField)
	require.Contains(t, *result.Message, "Manhattan")
}

func TestValidate_CuisineCaseInsensitive(t *testing.T) {
	for _, v := range []string{"chinese", "Italian", "MEXICAN"} {
		slots := domain.SlotValues{Cuisine: ptr(v)}
		require.True(t, ValidateDiningRequest(slots, testNow).Valid, "cuisine=%q", v)
	}

	result := ValidateDiningRequest(domain.SlotValues{Cuisine: ptr("french")}, testNow)
	require.False(t, result.Valid)
	require.Equal(t, domain.FieldCuisine, result.ViolatedField)
	require.Contains(t, *result.Message, "Italian")
}

func TestValidate_PartySizeBoundaries(t *testing.T) {
	for _, v := range []string{"1", "29", "15"} {
		slots := domain.SlotValues{PartySize: ptr(v)}
		require.True(t, ValidateDiningRequest(slots, testNow).Valid, "partySize=%q", v)
	}
	for _, v := range []string{"0", "30", "-3", "twelve", "4.5"} {
		result := ValidateDiningRequest(domain.SlotValues{PartySize: ptr(v)}, testNow)
		require.False(t, result.Valid, "partySize=%q", v)
		require.Equal(t, domain.FieldPartySize, result.ViolatedField)
		require.Contains(t, *result.Message, "30")
	}
}

func TestValidate_DiningDate(t *testing.T) {
	result := ValidateDiningRequest(domain.SlotValues{DiningDate: ptr("next friday")}, testNow)
	require.False(t, result.Valid)
	require.Equal(t, domain.FieldDiningDate, result.ViolatedField)
	require.Contains(t, *result.Message, "did not understand")

	result = ValidateDiningRequest(domain.SlotValues{DiningDate: ptr("2025-06-14")}, testNow)
	require.False(t, result.Valid)
	require.Equal(t, domain.FieldDiningDate, result.ViolatedField)
	require.Contains(t, *result.Message, "today onwards")

	// Today and future dates are both acceptable.
	require.True(t, ValidateDiningRequest(domain.SlotValues{DiningDate: ptr("2025-06-15")}, testNow).Valid)
	require.True(t, ValidateDiningRequest(domain.SlotValues{DiningDate: ptr("2026-01-01")}, testNow).Valid)
}

func TestValidate_DiningTimeMalformedHasNilMessage(t *testing.T) {
	for _, v := range []string{"9:30", "25:99", "19-00", "7 pm", "ab:cd", "12:60", "124:5"} {
		result := ValidateDiningRequest(domain.SlotValues{DiningTime: ptr(v)}, testNow)
		require.False(t, result.Valid, "diningTime=%q", v)
		require.Equal(t, domain.FieldDiningTime, result.ViolatedField)
		require.Nil(t, result.Message, "diningTime=%q", v)
	}
}

func TestValidate_DiningTimeSameDay(t *testing.T) {
	today := ptr("2025-06-15")

	// Earlier than or equal to the current 12:30 wall clock.
	for _, v := range []string{"09:00", "12:30", "12:29"} {
		result := ValidateDiningRequest(domain.SlotValues{DiningDate: today, DiningTime: ptr(v)}, testNow)
		require.False(t, result.Valid, "diningTime=%q", v)
		require.Equal(t, domain.FieldDiningTime, result.ViolatedField)
		require.NotNil(t, result.Message)
		require.Contains(t, *result.Message, "future")
	}

	// Strictly later passes.
	for _, v := range []string{"12:31", "19:00", "23:59"} {
		result := ValidateDiningRequest(domain.SlotValues{DiningDate: today, DiningTime: ptr(v)}, testNow)
		require.True(t, result.Valid, "diningTime=%q", v)
	}

	// A future date lifts the wall-clock constraint entirely.
	result := ValidateDiningRequest(domain.SlotValues{DiningDate: ptr("2025-06-16"), DiningTime: ptr("09:00")}, testNow)
	require.True(t, result.Valid)
}

func TestValidate_FirstFailureWins(t *testing.T) {
	slots := domain.SlotValues{
		Location: ptr("Brooklyn"),
		Cuisine:  ptr("thai"),
	}
	result := ValidateDiningRequest(slots, testNow)
	require.False(t, result.Valid)
	require.Equal(t, domain.FieldLocation, result.ViolatedField)
}
