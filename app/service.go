package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/agvfleet/config"
	corecatalog "github.com/kilianp07/agvfleet/core/catalog"
	coremetrics "github.com/kilianp07/agvfleet/core/metrics"
	"github.com/kilianp07/agvfleet/core/model"
	"github.com/kilianp07/agvfleet/core/monitoring"
	"github.com/kilianp07/agvfleet/core/sizing"
	"github.com/kilianp07/agvfleet/core/whatif"
	_ "github.com/kilianp07/agvfleet/infra/catalog" // sqlite and postgres catalog sources
	"github.com/kilianp07/agvfleet/infra/logger"
	"github.com/kilianp07/agvfleet/infra/metrics"
	"github.com/kilianp07/agvfleet/infra/mqtt"
	"github.com/kilianp07/agvfleet/internal/eventbus"
)

// Publisher forwards sizing results to downstream consumers.
type Publisher interface {
	PublishResult(ctx context.Context, runID string, res sizing.Result) error
	Close() error
}

// Run is the outcome of Service.Size.
type Run struct {
	RunID  string        `json:"runId"`
	Result sizing.Result `json:"result"`
}

// WhatIfRun is the outcome of Service.WhatIf.
type WhatIfRun struct {
	RunID  string        `json:"runId"`
	Report whatif.Report `json:"report"`
}

// Service owns the sizing engine, the vehicle catalog and the outputs every
// run is reported to.
type Service struct {
	cfg      *config.Config
	engine   *sizing.Engine
	catalog  model.Catalog
	defaults sizing.Params
	sink     coremetrics.MetricsSink
	bus      *eventbus.TypedBus[coremetrics.Event]
	pub      Publisher
	log      logger.Logger

	stopCollector context.CancelFunc
	collector     *sync.WaitGroup
	closeOnce     sync.Once
	now           func() time.Time
	newID         func() string
}

// Option customises a Service.
type Option func(*Service)

// WithCatalog bypasses the configured catalog source.
func WithCatalog(cat model.Catalog) Option {
	return func(s *Service) { s.catalog = cat.Clone() }
}

// WithSink bypasses the configured metrics sinks.
func WithSink(sink coremetrics.MetricsSink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithPublisher bypasses the configured MQTT publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Service) { s.pub = p }
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New creates a Service from the configuration.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Service{
		cfg:      cfg,
		defaults: cfg.Defaults.Params(),
		bus:      eventbus.NewTyped[coremetrics.Event](),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = logger.New("service")
	}

	engine, err := sizing.New(cfg.Sizing, sizing.WithLogger(logger.New("sizing")))
	if err != nil {
		return nil, fmt.Errorf("sizing engine: %w", err)
	}
	s.engine = engine

	if s.catalog == nil {
		src, err := corecatalog.NewSource(cfg.Catalog)
		if err != nil {
			return nil, fmt.Errorf("catalog source: %w", err)
		}
		cat, err := src.Load(ctx)
		if closer, ok := src.(io.Closer); ok {
			_ = closer.Close()
		}
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		s.catalog = cat
	}
	warnings, err := corecatalog.Validate(s.catalog)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		s.log.Warnf("catalog: %v", w)
	}

	if s.sink == nil {
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
		s.sink = sink
	}

	if s.pub == nil && cfg.MQTT.Enabled() {
		pub, err := mqtt.NewPahoPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		s.pub = pub
	}

	collectCtx, cancel := context.WithCancel(context.Background())
	s.stopCollector = cancel
	s.collector = metrics.StartEventCollector(collectCtx, s.bus, s.sink)

	s.log.Infof("service ready with %d vehicle types", len(s.catalog))
	return s, nil
}

// Catalog returns a copy of the vehicle catalog in use.
func (s *Service) Catalog() model.Catalog { return s.catalog.Clone() }

// Defaults returns the parameters applied when a request omits them.
func (s *Service) Defaults() sizing.Params { return s.defaults }

// Bus exposes the event bus, mostly for additional subscribers.
func (s *Service) Bus() *eventbus.TypedBus[coremetrics.Event] { return s.bus }

// Size runs the engine for req. Excluded routes are reported to the monitor
// and the metrics bus; the result is published when a publisher is set.
func (s *Service) Size(ctx context.Context, req Request) (Run, error) {
	runID := s.newID()
	start := s.now()
	res, err := s.engine.SizeFleet(req.Connections, s.catalog, req.Params(s.defaults))
	if err != nil {
		monitoring.CaptureException(err, map[string]string{"run_id": runID})
		return Run{}, fmt.Errorf("size fleet: %w", err)
	}
	elapsed := s.now().Sub(start)

	for _, re := range res.RouteErrors {
		monitoring.CaptureException(re, map[string]string{
			"run_id":       runID,
			"route":        re.Route,
			"vehicle_type": re.VehicleType,
			"index":        strconv.Itoa(re.Index),
		})
		s.bus.Publish(coremetrics.RouteErrorEvent{
			RunID:       runID,
			Route:       re.Route,
			VehicleType: re.VehicleType,
			Reason:      reason(re),
			Time:        start,
		})
	}
	s.bus.Publish(coremetrics.NewSizingEvent(runID, source(req), res, elapsed, start))

	if s.pub != nil {
		if err := s.pub.PublishResult(ctx, runID, res); err != nil {
			s.log.Warnf("run %s: %v", runID, err)
		}
	}
	s.log.Infof("run %s: %d vehicles, %d stations, %.1f%% utilization",
		runID, res.TotalFleet, res.ChargingStations, res.Utilization)
	return Run{RunID: runID, Result: res}, nil
}

// WhatIf sizes the request and every scenario (the defaults when none are
// given) and records each scenario on the metrics bus.
func (s *Service) WhatIf(ctx context.Context, req Request, scenarios []whatif.Scenario) (WhatIfRun, error) {
	if len(scenarios) == 0 {
		scenarios = req.Scenarios
	}
	runID := s.newID()
	rep, err := whatif.Run(ctx, s.engine, req.Connections, s.catalog, req.Params(s.defaults), scenarios)
	if err != nil {
		monitoring.CaptureException(err, map[string]string{"run_id": runID, "module": "whatif"})
		return WhatIfRun{}, fmt.Errorf("what-if: %w", err)
	}
	at := s.now()
	for _, o := range rep.Outcomes {
		s.bus.Publish(coremetrics.WhatIfEvent{
			RunID:            runID,
			Scenario:         o.Scenario.Name,
			TotalFleet:       o.Result.TotalFleet,
			FleetDelta:       o.FleetDelta,
			StationDelta:     o.StationDelta,
			UtilizationDelta: o.UtilizationDelta,
			Time:             at,
		})
	}
	s.log.Infof("what-if %s: %d scenarios, fleet %d to %d", runID, len(rep.Outcomes), rep.MinFleet, rep.MaxFleet)
	return WhatIfRun{RunID: runID, Report: rep}, nil
}

// Run serves h on the configured address, plus the Prometheus endpoint when
// enabled, and blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context, h http.Handler) error {
	if addr := s.cfg.Metrics.PrometheusAddr; addr != "" {
		go func() {
			defer monitoring.Recover()
			if err := metrics.StartPromServer(ctx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	srv := &http.Server{Addr: s.cfg.Server.Addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		timeout := time.Duration(s.cfg.Server.ShutdownTimeoutSeconds) * time.Second
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("serving API on %s", s.cfg.Server.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close stops the metrics collector and releases the publisher and sinks.
// Events published before Close are recorded.
func (s *Service) Close() error {
	var errs []error
	s.closeOnce.Do(func() {
		s.bus.Close()
		s.collector.Wait()
		s.stopCollector()
		if s.pub != nil {
			errs = append(errs, s.pub.Close())
		}
		switch c := s.sink.(type) {
		case io.Closer:
			errs = append(errs, c.Close())
		case interface{ Close() }:
			c.Close()
		}
	})
	return errors.Join(errs...)
}

func source(req Request) string {
	if req.Source == "" {
		return "request"
	}
	return req.Source
}

func reason(re sizing.RouteError) string {
	var nf *sizing.VehicleNotFoundError
	switch {
	case errors.As(re, &nf):
		return "vehicle_not_found"
	case errors.Is(re, sizing.ErrRequirementTooLarge):
		return "requirement_too_large"
	default:
		return "invalid_route"
	}
}
