package net

import (
	"encoding/json"
	nethttp "net/http"
	"time"

	"github.com/devsilvver/corrida-das-gemas/internal/observability"
	"github.com/devsilvver/corrida-das-gemas/internal/telemetry"
)

// PeerPath is where the host serves the guest websocket.
const PeerPath = "/peer"

type HTTPHandlerConfig struct {
	Logger telemetry.Logger
	// Peer upgrades the guest connection; nil disables the endpoint.
	Peer nethttp.HandlerFunc
	// Diagnostics returns the payload served at /diagnostics.
	Diagnostics func() any
	TickRate    int
	// Observability mounts opt-in debug endpoints.
	Observability observability.Config
}

func NewHTTPHandler(cfg HTTPHandlerConfig) nethttp.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/health", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	mux.HandleFunc("/diagnostics", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		var details any
		if cfg.Diagnostics != nil {
			details = cfg.Diagnostics()
		}
		payload := struct {
			Status     string `json:"status"`
			ServerTime int64  `json:"serverTime"`
			TickRate   int    `json:"tickRate"`
			Match      any    `json:"match"`
		}{
			Status:     "ok",
			ServerTime: time.Now().UnixMilli(),
			TickRate:   cfg.TickRate,
			Match:      details,
		}

		data, err := json.Marshal(payload)
		if err != nil {
			logger.Printf("failed to encode diagnostics: %v", err)
			httpError(w, "failed to encode", nethttp.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	cfg.Observability.Register(mux)

	if cfg.Peer != nil {
		mux.HandleFunc(PeerPath, cfg.Peer)
	}

	return mux
}

func httpError(w nethttp.ResponseWriter, msg string, code int) {
	nethttp.Error(w, msg, code)
}
