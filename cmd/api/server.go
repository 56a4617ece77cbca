package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/FACorreiaa/sms-finance-logger/pkg/middleware"
)

// Routes builds the HTTP handler with every route and the middleware chain.
func (d *Dependencies) Routes() http.Handler {
	mux := http.NewServeMux()
	d.LedgerHandler.Register(mux)
	d.CategorizationHandler.Register(mux)

	obs := d.Config.Observability
	if d.Metrics != nil {
		mux.Handle("GET "+obs.MetricsPath, d.Metrics.Handler())
	}

	srv := d.Config.Server
	mws := []middleware.Middleware{
		middleware.Recovery(d.Logger),
		middleware.RequestID,
		middleware.Logger(d.Logger),
		middleware.Tracing(obs.ServiceName),
		middleware.CORS(srv.CORSOrigins),
		middleware.RateLimit(srv.APIPrefix(), float64(srv.RateLimitPerSecond), srv.RateLimitBurst),
		middleware.APIKey(srv.APIPrefix(), srv.APIKey, d.Logger),
	}
	if d.Metrics != nil {
		mws = append(mws, middleware.Metrics(d.Metrics))
	}

	return middleware.Chain(middleware.JSONFallback(mux), mws...)
}

// NewServer returns the HTTP server for the configured address.
func (d *Dependencies) NewServer() *http.Server {
	srv := d.Config.Server
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", srv.Host, srv.Port),
		Handler:      d.Routes(),
		ReadTimeout:  srv.ReadTimeout,
		WriteTimeout: srv.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
}
