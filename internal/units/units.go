// Package units converts linear distances between meters and degrees.
//
// The conversion uses a constant 111320 meters per degree at the equator,
// optionally scaled by the cosine of a latitude. It is an approximation,
// not an ellipsoidal computation.
package units

import "math"

// MetersPerDegree is the length of one degree at the equator.
const MetersPerDegree = 111320.0

// Kind is the unit measure of a coordinate reference system.
type Kind string

const (
	// Degrees is the unit of geographic systems.
	Degrees Kind = "dg"
	// Meters is the unit of projected systems.
	Meters Kind = "m"
)

// MetersToDegrees converts meters to degrees at the equator.
func MetersToDegrees(m float64) float64 {
	return m / MetersPerDegree
}

// MetersToDegreesAt converts meters to degrees at the given latitude.
// At the poles the divisor is zero and the result is +Inf.
func MetersToDegreesAt(m, lat float64) float64 {
	return m / (MetersPerDegree * math.Abs(math.Cos(lat*(math.Pi/180))))
}

// DegreesToMeters converts degrees to meters at the equator.
func DegreesToMeters(dg float64) float64 {
	return dg * MetersPerDegree
}

// DegreesToMetersAt converts degrees to meters at the given latitude.
func DegreesToMetersAt(dg, lat float64) float64 {
	return dg * (MetersPerDegree * math.Abs(math.Cos(lat*(math.Pi/180))))
}
