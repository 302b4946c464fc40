// Package geo models where registry facts happened: coordinates
// bounded to Kenyan territory, counties, and locations. The geodetic
// helpers (distance, bearing) are deliberately approximate: good
// enough for "which registry office is closest", not for survey work.
package geo
