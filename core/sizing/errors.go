package sizing

import (
	"errors"
	"fmt"
	"math"
)

// ErrEmptyCatalog is returned when no vehicle type is available at all.
var ErrEmptyCatalog = errors.New("vehicle catalog is empty")

// MaxVehiclesPerRoute bounds the requirement of a single route and the
// fleet total.
const MaxVehiclesPerRoute = math.MaxInt32

// ErrRequirementTooLarge marks a route whose vehicle requirement exceeds
// MaxVehiclesPerRoute, usually from a nonsensical throughput.
var ErrRequirementTooLarge = errors.New("vehicle requirement too large")

// VehicleNotFoundError reports a route referencing an unknown vehicle code.
type VehicleNotFoundError struct {
	Route       string
	VehicleType string
}

func (e *VehicleNotFoundError) Error() string {
	return fmt.Sprintf("vehicle type %q not found for route %q", e.VehicleType, e.Route)
}

// RouteError records a route that was excluded from sizing.
type RouteError struct {
	Index       int    `json:"index"`
	Route       string `json:"route"`
	VehicleType string `json:"vehicleType"`
	Message     string `json:"message"`
	err         error
}

func newRouteError(index int, route, vehicleType string, err error) RouteError {
	return RouteError{Index: index, Route: route, VehicleType: vehicleType, Message: err.Error(), err: err}
}

func (e RouteError) Error() string {
	return fmt.Sprintf("route %d (%s): %s", e.Index, e.Route, e.Message)
}

// Unwrap exposes the cause, e.g. a *VehicleNotFoundError.
func (e RouteError) Unwrap() error { return e.err }
