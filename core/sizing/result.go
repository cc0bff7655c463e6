package sizing

// Params are the scalar inputs of a sizing run.
type Params struct {
	OperatingHours     int            `json:"operatingHours" yaml:"operating_hours"`
	AvailabilityTarget float64        `json:"availabilityTarget" yaml:"availability_target"`
	TrafficDensity     TrafficDensity `json:"trafficDensity" yaml:"traffic_density"`
}

// RouteAnalysis summarises the sizing of one route.
type RouteAnalysis struct {
	Route            string  `json:"route"`
	VehicleType      string  `json:"vehicleType"`
	Distance         float64 `json:"distance"`
	Throughput       float64 `json:"throughput"`
	CycleTime        float64 `json:"cycleTime"` // effective round trip, minutes
	VehiclesRequired int     `json:"vehiclesRequired"`
	Utilization      float64 `json:"utilization"`
	OneWaySeconds    float64 `json:"oneWaySeconds"`
	ReachesMaxSpeed  bool    `json:"reachesMaxSpeed"`
}

// BatteryAnalysis summarises the battery use of one traversal of a route.
type BatteryAnalysis struct {
	Route            string  `json:"route"`
	VehicleType      string  `json:"vehicleType"`
	BatteryUsed      float64 `json:"batteryUsed"`      // Ah
	BatteryRemaining float64 `json:"batteryRemaining"` // percent
	ChargeTimeNeeded float64 `json:"chargeTimeNeeded"` // hours
}

// DepletionPoint is one sample of the illustrative battery curve.
type DepletionPoint struct {
	Hour         int     `json:"hour"`
	BatteryLevel float64 `json:"batteryLevel"`
}

// Result is the output of a sizing run. Params echoes the normalised inputs
// that were actually used.
type Result struct {
	TotalFleet           int               `json:"totalFleet"`
	FleetByVehicleType   map[string]int    `json:"fleetByVehicleType"`
	Utilization          float64           `json:"utilization"`
	ChargingStations     int               `json:"chargingStations"`
	RouteAnalysis        []RouteAnalysis   `json:"routeAnalysis"`
	BatteryAnalysis      []BatteryAnalysis `json:"batteryAnalysis"`
	BatteryDepletionData []DepletionPoint  `json:"batteryDepletionData"`
	RouteErrors          []RouteError      `json:"routeErrors,omitempty"`

	OperatingHours     int            `json:"operatingHours"`
	AvailabilityTarget float64        `json:"availabilityTarget"`
	TrafficDensity     TrafficDensity `json:"trafficDensity"`
}

// Params returns the normalised parameters the result was computed with.
func (r Result) Params() Params {
	return Params{
		OperatingHours:     r.OperatingHours,
		AvailabilityTarget: r.AvailabilityTarget,
		TrafficDensity:     r.TrafficDensity,
	}
}
