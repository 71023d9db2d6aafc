package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolver_Resolve(t *testing.T) {
	r := NewResolver(DefaultZone)

	tests := []struct {
		name       string
		branchZone string
		clientZone string
		coords     *Coordinates
		expected   string
	}{
		{"branch zone wins", "America/New_York", "Europe/London", &Coordinates{35.6762, 139.6503}, "America/New_York"},
		{"invalid branch falls to client", "Mars/Olympus", "Europe/London", nil, "Europe/London"},
		{"coordinates when no zones", "", "", &Coordinates{35.7, 139.7}, "Asia/Tokyo"},
		{"coordinates near new york", "", "", &Coordinates{40.73, -73.93}, "America/New_York"},
		{"coordinates in borneo", "", "not-a-zone", &Coordinates{-1.0, 114.0}, "Asia/Jakarta"},
		{"nothing known", "", "", nil, DefaultZone},
		{"host local rejected", "Local", "", nil, DefaultZone},
		{"whitespace trimmed", "  Asia/Tokyo ", "", nil, "Asia/Tokyo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Resolve(tt.branchZone, tt.clientZone, tt.coords))
		})
	}
}

func TestResolver_FallbackIsStable(t *testing.T) {
	r := NewResolver("")
	for i := 0; i < 5; i++ {
		assert.Equal(t, DefaultZone, r.Resolve("", "", nil))
	}
}

func TestNewResolver_InvalidFallback(t *testing.T) {
	r := NewResolver("Nowhere/Special")
	assert.Equal(t, DefaultZone, r.Default())

	r = NewResolver("Europe/Berlin")
	assert.Equal(t, "Europe/Berlin", r.Default())
	assert.Equal(t, "Europe/Berlin", r.Validate("bogus"))
}

func TestResolver_Location(t *testing.T) {
	r := NewResolver(DefaultZone)

	loc := r.Location("America/New_York")
	require.NotNil(t, loc)
	assert.Equal(t, "America/New_York", loc.String())

	fallback := r.Location("invalid")
	require.NotNil(t, fallback)
	assert.Equal(t, DefaultZone, fallback.String())
}

func TestLocalDate(t *testing.T) {
	r := NewResolver(DefaultZone)
	// 20:00 UTC is already the next day in India.
	instant := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), LocalDate(instant, r.Location("Asia/Kolkata")))
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), LocalDate(instant, r.Location("America/New_York")))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "India Standard Time (IST)", DisplayName("Asia/Kolkata"))
	assert.Equal(t, "Africa/Lagos", DisplayName("Africa/Lagos"))
}
