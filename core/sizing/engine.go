package sizing

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/agvfleet/core/battery"
	"github.com/kilianp07/agvfleet/core/kinematics"
	"github.com/kilianp07/agvfleet/core/logger"
	"github.com/kilianp07/agvfleet/core/model"
)

// Engine sizes AGV fleets. It only holds immutable configuration and is safe
// for concurrent use.
type Engine struct {
	cfg Config
	log logger.Logger
}

// Option customises an Engine.
type Option func(*Engine)

// WithLogger routes the engine's diagnostics to l.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// New validates cfg and returns an Engine using it. Zero fields take their
// reference values.
func New(cfg Config, opts ...Option) (*Engine, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sizing config: %w", err)
	}
	mult := make(map[TrafficDensity]float64, len(cfg.TrafficMultipliers))
	for k, v := range cfg.TrafficMultipliers {
		mult[k] = v
	}
	cfg.TrafficMultipliers = mult

	e := &Engine{cfg: cfg, log: logger.Nop{}}
	for _, o := range opts {
		o(e)
	}
	return e, nil
}

// NewDefault returns an Engine using DefaultConfig.
func NewDefault(opts ...Option) *Engine {
	e, err := New(DefaultConfig(), opts...)
	if err != nil {
		panic(err)
	}
	return e
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	cfg := e.cfg
	cfg.TrafficMultipliers = make(map[TrafficDensity]float64, len(e.cfg.TrafficMultipliers))
	for k, v := range e.cfg.TrafficMultipliers {
		cfg.TrafficMultipliers[k] = v
	}
	return cfg
}

// Normalize clamps p into the configured bounds. Unset availability takes the
// default, unknown traffic densities the fallback density.
func (e *Engine) Normalize(p Params) Params {
	if p.OperatingHours < e.cfg.MinOperatingHours {
		p.OperatingHours = e.cfg.MinOperatingHours
	}
	if p.OperatingHours > e.cfg.MaxOperatingHours {
		p.OperatingHours = e.cfg.MaxOperatingHours
	}

	a := p.AvailabilityTarget
	if a == 0 || math.IsNaN(a) {
		a = e.cfg.DefaultAvailability
	}
	p.AvailabilityTarget = math.Min(math.Max(a, e.cfg.MinAvailability), e.cfg.MaxAvailability)

	density := TrafficDensity(strings.ToLower(strings.TrimSpace(string(p.TrafficDensity))))
	if _, ok := e.cfg.TrafficMultipliers[density]; !ok {
		density = e.cfg.FallbackTraffic
	}
	p.TrafficDensity = density
	return p
}

// SizeFleet computes the fleet required to serve connections with vehicles
// from catalog. Incomplete connections are skipped silently; connections with
// an unknown vehicle type or a requirement above MaxVehiclesPerRoute are
// listed in Result.RouteErrors. The only error returned is ErrEmptyCatalog.
func (e *Engine) SizeFleet(connections []model.Connection, catalog model.Catalog, p Params) (Result, error) {
	if len(catalog) == 0 {
		return Result{}, ErrEmptyCatalog
	}
	p = e.Normalize(p)
	availability := p.AvailabilityTarget / 100
	traffic := e.cfg.Multiplier(p.TrafficDensity)

	res := Result{
		FleetByVehicleType: map[string]int{},
		RouteAnalysis:      []RouteAnalysis{},
		BatteryAnalysis:    []BatteryAnalysis{},
		OperatingHours:     p.OperatingHours,
		AvailabilityTarget: p.AvailabilityTarget,
		TrafficDensity:     p.TrafficDensity,
	}

	var utilization []float64
	for i, conn := range connections {
		if !conn.Complete() {
			e.log.Debugw("skipping incomplete route", map[string]any{
				"index": i, "route": conn.Label(),
			})
			continue
		}
		vehicle, ok := catalog.Lookup(conn.VehicleType)
		if !ok {
			err := &VehicleNotFoundError{Route: conn.Label(), VehicleType: conn.VehicleType}
			e.log.Warnf("route %d excluded: %v", i, err)
			res.RouteErrors = append(res.RouteErrors, newRouteError(i, conn.Label(), conn.VehicleType, err))
			continue
		}

		route, bat, err := e.sizeRoute(conn, vehicle, availability, traffic)
		if err == nil && route.VehiclesRequired > MaxVehiclesPerRoute-res.TotalFleet {
			err = fmt.Errorf("%w: fleet total exceeds %d", ErrRequirementTooLarge, MaxVehiclesPerRoute)
		}
		if err != nil {
			e.log.Warnf("route %d excluded: %v", i, err)
			res.RouteErrors = append(res.RouteErrors, newRouteError(i, conn.Label(), conn.VehicleType, err))
			continue
		}
		res.TotalFleet += route.VehiclesRequired
		res.FleetByVehicleType[conn.VehicleType] += route.VehiclesRequired
		res.RouteAnalysis = append(res.RouteAnalysis, route)
		res.BatteryAnalysis = append(res.BatteryAnalysis, bat)
		utilization = append(utilization, route.Utilization)
	}

	res.Utilization = e.cfg.IdleUtilization
	if len(utilization) > 0 {
		res.Utilization = stat.Mean(utilization, nil)
	}
	res.Utilization = math.Round(res.Utilization)

	per := e.cfg.VehiclesPerStation
	res.ChargingStations = res.TotalFleet / per
	if res.TotalFleet%per != 0 {
		res.ChargingStations++
	}
	res.BatteryDepletionData = DepletionCurve(p.OperatingHours, e.cfg.DepletionPerHour)
	return res, nil
}

func (e *Engine) sizeRoute(conn model.Connection, v model.VehicleType, availability, traffic float64) (RouteAnalysis, BatteryAnalysis, error) {
	tt := kinematics.ForVehicle(v).TravelTime(conn.Distance, conn.TurnCount)

	cycle := tt.TotalMinutes * e.cfg.LegsPerCycle
	effective := cycle * traffic
	perHour := 60 / effective
	need := math.Ceil((conn.Throughput / perHour) / availability)
	if !(need <= MaxVehiclesPerRoute) {
		return RouteAnalysis{}, BatteryAnalysis{}, fmt.Errorf("%w: %g vehicles for %g trips per hour", ErrRequirementTooLarge, need, conn.Throughput)
	}
	required := int(need)
	util := math.Min(e.cfg.UtilizationCap, conn.Throughput/(perHour*float64(required))*100)

	// Accessories cannot be selected per route; every one of them is counted.
	cons := battery.Compute(v, tt, v.Accessories)

	label := conn.Label()
	route := RouteAnalysis{
		Route:            label,
		VehicleType:      conn.VehicleType,
		Distance:         conn.Distance,
		Throughput:       conn.Throughput,
		CycleTime:        effective,
		VehiclesRequired: required,
		Utilization:      util,
		OneWaySeconds:    tt.TotalSeconds,
		ReachesMaxSpeed:  tt.ReachesMaxSpeed,
	}
	bat := BatteryAnalysis{
		Route:            label,
		VehicleType:      conn.VehicleType,
		BatteryUsed:      cons.TotalConsumption,
		BatteryRemaining: cons.BatteryPercentage,
		ChargeTimeNeeded: cons.ChargeTime,
	}
	return route, bat, nil
}
