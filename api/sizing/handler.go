// Package sizing exposes the fleet sizing service over HTTP.
package sizing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/kilianp07/agvfleet/app"
	"github.com/kilianp07/agvfleet/core/catalog"
	"github.com/kilianp07/agvfleet/core/model"
	coresizing "github.com/kilianp07/agvfleet/core/sizing"
	"github.com/kilianp07/agvfleet/core/whatif"
)

// MaxBodyBytes bounds request bodies.
const MaxBodyBytes = 1 << 20

// Service is the part of *app.Service the handlers use.
type Service interface {
	Catalog() model.Catalog
	Size(ctx context.Context, req app.Request) (app.Run, error)
	WhatIf(ctx context.Context, req app.Request, scenarios []whatif.Scenario) (app.WhatIfRun, error)
}

// NewMux routes every endpoint:
//
//	GET  /api/vehicles
//	POST /api/fleet/size
//	POST /api/fleet/whatif
//	GET  /healthz
func NewMux(svc Service) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/vehicles", NewVehiclesHandler(svc))
	mux.Handle("/api/fleet/size", NewSizeHandler(svc))
	mux.Handle("/api/fleet/whatif", NewWhatIfHandler(svc))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return mux
}

// NewVehiclesHandler lists the catalog as a code → vehicle object.
func NewVehiclesHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, svc.Catalog())
	})
}

// NewSizeHandler sizes the fleet for the posted request.
func NewSizeHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode(w, r)
		if !ok {
			return
		}
		run, err := svc.Size(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, http.StatusOK, run)
	})
}

// NewWhatIfHandler compares the posted request against its scenarios, or the
// default scenarios when it lists none.
func NewWhatIfHandler(svc Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, ok := decode(w, r)
		if !ok {
			return
		}
		run, err := svc.WhatIf(r.Context(), req, req.Scenarios)
		if err != nil {
			http.Error(w, err.Error(), statusFor(err))
			return
		}
		writeJSON(w, http.StatusOK, run)
	})
}

func decode(w http.ResponseWriter, r *http.Request) (app.Request, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return app.Request{}, false
	}
	req, err := app.DecodeRequest(http.MaxBytesReader(w, r.Body, MaxBodyBytes), catalog.FormatJSON)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return app.Request{}, false
	}
	req.Source = "api"
	return req, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, coresizing.ErrEmptyCatalog):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
