package ws

import (
	"context"
	nethttp "net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"

	"github.com/devsilvver/corrida-das-gemas/internal/net/peer"
	"github.com/devsilvver/corrida-das-gemas/internal/net/proto"
	"github.com/devsilvver/corrida-das-gemas/internal/telemetry"
)

// CodecParam is the query parameter a guest uses to pick the frame codec.
const CodecParam = "codec"

type HandlerConfig struct {
	Logger  telemetry.Logger
	Codec   proto.Codec
	Metrics telemetry.Metrics
}

// Handler upgrades the single guest connection a host match accepts.
type Handler struct {
	logger   telemetry.Logger
	codec    proto.Codec
	metrics  telemetry.Metrics
	upgrader websocket.Upgrader
	accepted chan *peer.Conn
	taken    atomic.Bool
}

func NewHandler(cfg HandlerConfig) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = telemetry.LoggerFunc(nil)
	}
	codec := cfg.Codec
	if codec == nil {
		codec = proto.JSONCodec{}
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *nethttp.Request) bool {
			return true
		},
	}

	return &Handler{
		logger:   logger,
		codec:    codec,
		metrics:  cfg.Metrics,
		upgrader: upgrader,
		accepted: make(chan *peer.Conn, 1),
	}
}

// Accept waits for the guest to connect.
func (h *Handler) Accept(ctx context.Context) (*peer.Conn, error) {
	select {
	case conn := <-h.accepted:
		return conn, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (h *Handler) Handle(w nethttp.ResponseWriter, r *nethttp.Request) {
	codec := h.codec
	if name := r.URL.Query().Get(CodecParam); name != "" {
		chosen, err := proto.NewCodec(name)
		if err != nil {
			nethttp.Error(w, err.Error(), nethttp.StatusBadRequest)
			return
		}
		codec = chosen
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	if !h.taken.CompareAndSwap(false, true) {
		message := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "match full")
		ws.WriteMessage(websocket.CloseMessage, message)
		ws.Close()
		return
	}

	conn := peer.NewConn(ws, codec, peer.Options{Logger: h.logger, Metrics: h.metrics})
	h.logger.Printf("guest connected from %s codec=%s", r.RemoteAddr, codec.Name())
	h.accepted <- conn
	<-conn.Done()
}
