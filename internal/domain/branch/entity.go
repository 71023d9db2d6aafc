package branch

// Branch is an employee's work location. Timezone is optional; coordinates
// and radius define the on-site geofence.
type Branch struct {
	ID           string
	CompanyID    string
	Name         string
	Address      *string
	Timezone     *string
	Latitude     *float64
	Longitude    *float64
	RadiusMeters int
}

func (b Branch) TimezoneName() string {
	if b.Timezone == nil {
		return ""
	}
	return *b.Timezone
}

func (b Branch) HasGeofence() bool {
	return b.Latitude != nil && b.Longitude != nil && b.RadiusMeters > 0
}
