package world

import "errors"

var (
	ErrDistrictNotFound = errors.New("district not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrMapNotFound      = errors.New("map not found")

	// Travel preconditions. These are reported through TravelResult, never returned.
	ErrInvalidLocation = errors.New("Invalid location(s)")
	ErrInaccessible    = errors.New("Destination is not accessible")

	ErrSerialization = errors.New("malformed map data")
	ErrInvalidQuery  = errors.New("exactly one of origin, district or from location must be set")
	ErrInvalidID     = errors.New("id is required")
)
