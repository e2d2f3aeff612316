package constants

// HealthFlag is the two-valued verdict attached to an evaluated label.
type HealthFlag string

const (
	Healthy   HealthFlag = "healthy"
	Unhealthy HealthFlag = "unhealthy"
)

// Label is the human text shown on chips and under the meter.
func (f HealthFlag) Label() string {
	if f == Healthy {
		return "Healthy"
	}
	return "Contains Additives"
}

// Color is the meter arc stroke for the flag.
func (f HealthFlag) Color() string {
	if f == Healthy {
		return "#44c796"
	}
	return "#fd8e5e"
}

// IsValid reports whether f is one of the known flags.
func (f HealthFlag) IsValid() bool {
	return f == Healthy || f == Unhealthy
}
