package geo

import (
	"strings"

	dErrors "mirathi/pkg/domain-errors"
)

// County is one of the 47 devolved counties, or Unknown for legacy
// records that predate county capture.
type County string

// CountyUnknown is the documented default for reconstruction of legacy
// records with no county on file.
const CountyUnknown County = "UNKNOWN"

var counties = map[County]struct{}{
	"MOMBASA": {}, "KWALE": {}, "KILIFI": {}, "TANA RIVER": {},
	"LAMU": {}, "TAITA TAVETA": {}, "GARISSA": {}, "WAJIR": {},
	"MANDERA": {}, "MARSABIT": {}, "ISIOLO": {}, "MERU": {},
	"THARAKA NITHI": {}, "EMBU": {}, "KITUI": {}, "MACHAKOS": {},
	"MAKUENI": {}, "NYANDARUA": {}, "NYERI": {}, "KIRINYAGA": {},
	"MURANG'A": {}, "KIAMBU": {}, "TURKANA": {}, "WEST POKOT": {},
	"SAMBURU": {}, "TRANS NZOIA": {}, "UASIN GISHU": {},
	"ELGEYO MARAKWET": {}, "NANDI": {}, "BARINGO": {}, "LAIKIPIA": {},
	"NAKURU": {}, "NAROK": {}, "KAJIADO": {}, "KERICHO": {},
	"BOMET": {}, "KAKAMEGA": {}, "VIHIGA": {}, "BUNGOMA": {},
	"BUSIA": {}, "SIAYA": {}, "KISUMU": {}, "HOMA BAY": {},
	"MIGORI": {}, "KISII": {}, "NYAMIRA": {}, "NAIROBI": {},
}

// ParseCounty normalizes and validates a county name. Empty input maps
// to CountyUnknown: legacy reconstruction must not fail on a missing
// county.
func ParseCounty(s string) (County, error) {
	c := County(strings.ToUpper(strings.TrimSpace(s)))
	if c == "" || c == CountyUnknown {
		return CountyUnknown, nil
	}
	if _, ok := counties[c]; !ok {
		return "", dErrors.New(dErrors.CodeValidation, "unknown county").
			WithField("location.county").
			WithContext("county", s)
	}
	return c, nil
}

// IsKnown reports whether the county is a real county rather than the
// legacy default.
func (c County) IsKnown() bool {
	_, ok := counties[c]
	return ok
}

// Location is a place within Kenya: county, free-form locality, and
// optional coordinates.
type Location struct {
	county      County
	locality    string
	coordinates *Coordinates
}

// NewLocation validates and constructs a location. Coordinates are
// optional; county defaults to Unknown when empty.
func NewLocation(county string, locality string, coordinates *Coordinates) (Location, error) {
	c, err := ParseCounty(county)
	if err != nil {
		return Location{}, err
	}
	loc := Location{county: c, locality: strings.TrimSpace(locality)}
	if coordinates != nil {
		coords := *coordinates
		loc.coordinates = &coords
	}
	return loc, nil
}

func (l Location) County() County   { return l.county }
func (l Location) Locality() string { return l.locality }

func (l Location) Coordinates() (Coordinates, bool) {
	if l.coordinates == nil {
		return Coordinates{}, false
	}
	return *l.coordinates, true
}

// Equals compares locations structurally.
func (l Location) Equals(other Location) bool {
	if l.county != other.county || l.locality != other.locality {
		return false
	}
	if (l.coordinates == nil) != (other.coordinates == nil) {
		return false
	}
	if l.coordinates == nil {
		return true
	}
	return l.coordinates.Equals(*other.coordinates)
}

// LocationProjection is the plain snapshot of a location.
type LocationProjection struct {
	County      string                 `json:"county"`
	Locality    string                 `json:"locality,omitempty"`
	Coordinates *CoordinatesProjection `json:"coordinates,omitempty"`
}

func (l Location) Projection() LocationProjection {
	county := l.county
	if county == "" {
		county = CountyUnknown
	}
	p := LocationProjection{County: string(county), Locality: l.locality}
	if l.coordinates != nil {
		cp := l.coordinates.Projection()
		p.Coordinates = &cp
	}
	return p
}

// ReconstructLocation rebuilds a location from a persisted projection,
// applying the unknown-county default for legacy records.
func ReconstructLocation(p LocationProjection) (Location, error) {
	var coords *Coordinates
	if p.Coordinates != nil {
		c, err := NewCoordinates(p.Coordinates.Latitude, p.Coordinates.Longitude, p.Coordinates.AccuracyMeters)
		if err != nil {
			return Location{}, err
		}
		coords = &c
	}
	return NewLocation(p.County, p.Locality, coords)
}
