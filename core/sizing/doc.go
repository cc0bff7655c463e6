// Package sizing estimates the number of AGVs needed to serve a set of routes.
//
// For every complete route the Engine derives a round-trip cycle time from the
// kinematics model, stretches it by a traffic multiplier, converts it into the
// number of trips a single vehicle can run per hour and inflates the resulting
// requirement by the availability target. Per-route battery use comes from the
// battery model using every accessory of the vehicle type.
//
// Routes are sized independently: no spare capacity is pooled across routes
// sharing a vehicle type. A route referencing an unknown vehicle type is
// reported in Result.RouteErrors and excluded, the rest of the fleet is still
// sized. Only an empty catalog fails the whole call.
//
// The engine keeps no state between calls. Calling SizeFleet twice with the
// same arguments returns identical results, so what-if comparisons simply call
// it again with other parameters.
package sizing
