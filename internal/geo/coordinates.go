package geo

import (
	"math"

	"mirathi/pkg/domain"
	dErrors "mirathi/pkg/domain-errors"
)

// National bounding box. A point outside it cannot be a registry
// location, so construction rejects it citing the offending axis.
const (
	MinLatitude  = -4.9
	MaxLatitude  = 5.1
	MinLongitude = 33.9
	MaxLongitude = 41.9
)

// LowAccuracyThresholdMeters is where positional accuracy becomes an
// advisory data-quality observation.
const LowAccuracyThresholdMeters = 100.0

const earthRadiusKm = 6371.0

// Coordinates is a WGS84 point within Kenya with optional accuracy
// metadata.
type Coordinates struct {
	latitude       float64
	longitude      float64
	accuracyMeters float64
	warnings       []domain.Warning
}

// NewCoordinates validates and constructs a point. accuracyMeters of
// zero means unknown; a negative accuracy is invalid; an accuracy
// worse than LowAccuracyThresholdMeters is advisory.
func NewCoordinates(latitude, longitude, accuracyMeters float64) (Coordinates, error) {
	if latitude < MinLatitude || latitude > MaxLatitude {
		return Coordinates{}, dErrors.Newf(dErrors.CodeValidation, "latitude outside national bounds [%.1f, %.1f]", MinLatitude, MaxLatitude).
			WithField("coordinates.latitude").
			WithContext("latitude", latitude)
	}
	if longitude < MinLongitude || longitude > MaxLongitude {
		return Coordinates{}, dErrors.Newf(dErrors.CodeValidation, "longitude outside national bounds [%.1f, %.1f]", MinLongitude, MaxLongitude).
			WithField("coordinates.longitude").
			WithContext("longitude", longitude)
	}
	if accuracyMeters < 0 {
		return Coordinates{}, dErrors.New(dErrors.CodeValidation, "accuracy cannot be negative").
			WithField("coordinates.accuracy_meters").
			WithContext("accuracy_meters", accuracyMeters)
	}

	c := Coordinates{latitude: latitude, longitude: longitude, accuracyMeters: accuracyMeters}
	if accuracyMeters > LowAccuracyThresholdMeters {
		c.warnings = append(c.warnings, domain.NewWarning(
			"coordinates.accuracy_meters",
			"positional accuracy is unusually low",
		))
	}
	return c, nil
}

func (c Coordinates) Latitude() float64       { return c.latitude }
func (c Coordinates) Longitude() float64      { return c.longitude }
func (c Coordinates) AccuracyMeters() float64 { return c.accuracyMeters }

// IsWithinKenya is recomputed from the stored point; construction
// guarantees it is true for every live instance.
func (c Coordinates) IsWithinKenya() bool {
	return c.latitude >= MinLatitude && c.latitude <= MaxLatitude &&
		c.longitude >= MinLongitude && c.longitude <= MaxLongitude
}

// Warnings returns the advisory observations recorded at construction.
func (c Coordinates) Warnings() []domain.Warning {
	out := make([]domain.Warning, len(c.warnings))
	copy(out, c.warnings)
	return out
}

// DistanceKm is the great-circle distance to other using the haversine
// formula. Approximate: assumes a spherical earth.
func (c Coordinates) DistanceKm(other Coordinates) float64 {
	lat1 := radians(c.latitude)
	lat2 := radians(other.latitude)
	dLat := radians(other.latitude - c.latitude)
	dLng := radians(other.longitude - c.longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// BearingDegrees is the initial great-circle bearing to other,
// normalized to [0, 360).
func (c Coordinates) BearingDegrees(other Coordinates) float64 {
	lat1 := radians(c.latitude)
	lat2 := radians(other.latitude)
	dLng := radians(other.longitude - c.longitude)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	deg := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(deg+360, 360)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// Equals compares points structurally. Accuracy is part of the value.
func (c Coordinates) Equals(other Coordinates) bool {
	return c.latitude == other.latitude &&
		c.longitude == other.longitude &&
		c.accuracyMeters == other.accuracyMeters
}

// CoordinatesProjection is the plain snapshot of a point.
type CoordinatesProjection struct {
	Latitude       float64          `json:"latitude"`
	Longitude      float64          `json:"longitude"`
	AccuracyMeters float64          `json:"accuracy_meters,omitempty"`
	WithinKenya    bool             `json:"within_kenya"`
	Warnings       []domain.Warning `json:"warnings,omitempty"`
}

func (c Coordinates) Projection() CoordinatesProjection {
	return CoordinatesProjection{
		Latitude:       c.latitude,
		Longitude:      c.longitude,
		AccuracyMeters: c.accuracyMeters,
		WithinKenya:    c.IsWithinKenya(),
		Warnings:       c.Warnings(),
	}
}
