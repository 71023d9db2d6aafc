package timezone

import (
	"math"
	"strings"
	"sync"
	"time"
	_ "time/tzdata"
)

// DefaultZone is used whenever no valid zone can be derived for an employee.
const DefaultZone = "Asia/Kolkata"

type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Resolver determines the IANA zone that defines an employee's attendance day.
// It never fails: every unusable input degrades to the fallback zone.
type Resolver struct {
	fallback string
	cache    sync.Map
}

func NewResolver(fallback string) *Resolver {
	r := &Resolver{fallback: DefaultZone}
	if _, ok := r.load(fallback); ok {
		r.fallback = fallback
	}
	return r
}

// Default returns the fallback zone name.
func (r *Resolver) Default() string {
	return r.fallback
}

// Resolve picks, in order: the branch zone, the client-declared zone, the
// nearest reference zone to coords, and finally the fallback zone.
func (r *Resolver) Resolve(branchZone, clientZone string, coords *Coordinates) string {
	if _, ok := r.load(branchZone); ok {
		return strings.TrimSpace(branchZone)
	}
	if _, ok := r.load(clientZone); ok {
		return strings.TrimSpace(clientZone)
	}
	if coords != nil {
		return r.Nearest(*coords)
	}
	return r.fallback
}

// Nearest returns the zone of the closest reference coordinate using planar
// Euclidean distance on raw degrees.
func (r *Resolver) Nearest(c Coordinates) string {
	if math.IsNaN(c.Latitude) || math.IsNaN(c.Longitude) {
		return r.fallback
	}

	best := r.fallback
	minDistance := math.Inf(1)
	for _, ref := range references {
		d := math.Hypot(c.Latitude-ref.Lat, c.Longitude-ref.Lng)
		if d < minDistance {
			minDistance = d
			best = ref.Zone
		}
	}
	return best
}

// Validate returns name when it is a loadable IANA zone, otherwise the fallback.
func (r *Resolver) Validate(name string) string {
	if _, ok := r.load(name); ok {
		return strings.TrimSpace(name)
	}
	return r.fallback
}

// Location returns the *time.Location for name, or the fallback location.
func (r *Resolver) Location(name string) *time.Location {
	if loc, ok := r.load(name); ok {
		return loc
	}
	loc, _ := r.load(r.fallback)
	return loc
}

func (r *Resolver) load(name string) (*time.Location, bool) {
	name = strings.TrimSpace(name)
	// "" and "Local" load without error but depend on the host.
	if name == "" || name == "Local" {
		return nil, false
	}
	if cached, ok := r.cache.Load(name); ok {
		return cached.(*time.Location), true
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, false
	}
	r.cache.Store(name, loc)
	return loc, true
}

// DisplayName returns a human readable label for known zones and the zone name
// itself otherwise.
func DisplayName(name string) string {
	if label, ok := displayNames[name]; ok {
		return label
	}
	return name
}

// LocalDate converts t into loc and returns that calendar date at midnight UTC,
// the representation stored in DATE columns.
func LocalDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
