package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/devsilvver/corrida-das-gemas/internal/catalog"
	"github.com/devsilvver/corrida-das-gemas/internal/config"
	"github.com/devsilvver/corrida-das-gemas/internal/match"
	netpkg "github.com/devsilvver/corrida-das-gemas/internal/net"
	"github.com/devsilvver/corrida-das-gemas/internal/net/peer"
	"github.com/devsilvver/corrida-das-gemas/internal/net/proto"
	"github.com/devsilvver/corrida-das-gemas/internal/net/ws"
	"github.com/devsilvver/corrida-das-gemas/internal/pvp"
	"github.com/devsilvver/corrida-das-gemas/internal/sim"
	"github.com/devsilvver/corrida-das-gemas/internal/simutil"
	"github.com/devsilvver/corrida-das-gemas/internal/telemetry"
	"github.com/devsilvver/corrida-das-gemas/logging"
)

const shutdownTimeout = 5 * time.Second

// Options carries the collaborators a run talks to. Zero values fall back
// to the process's stdio.
type Options struct {
	Logger telemetry.Logger
	// Render receives a snapshot after every tick, on the loop goroutine.
	Render func(match.Snapshot)
	// Input is read line by line for player commands.
	Input io.Reader
	// Console receives the console log sink.
	Console io.Writer
}

// runner is the state shared by a single run.
type runner struct {
	cfg      config.Config
	opts     Options
	logger   telemetry.Logger
	router   *logging.Router
	counters *telemetry.Counters
	catalog  *catalog.Catalog
	deck     catalog.Deck
	rng      *rand.Rand
	tick     atomic.Uint64
	current  atomic.Pointer[match.Snapshot]
}

// Run plays one match in the configured mode and returns when it ends, the
// peer goes away, or ctx is cancelled.
func Run(ctx context.Context, cfg config.Config, opts Options) error {
	rt, err := newRunner(cfg, opts)
	if err != nil {
		return err
	}
	defer rt.close()

	switch cfg.Mode {
	case config.ModePvE, config.ModeTraining:
		return rt.runLocal(ctx)
	case config.ModeHost:
		return rt.runHost(ctx)
	case config.ModeGuest:
		return rt.runGuest(ctx)
	}
	return fmt.Errorf("unknown mode %q", cfg.Mode)
}

func newRunner(cfg config.Config, opts Options) (*runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = telemetry.WrapLogger(log.Default())
	}

	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		loaded, err := catalog.Load(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		cat = loaded
	}
	deck, err := cat.Deck(cfg.Deck)
	if err != nil {
		return nil, fmt.Errorf("deck: %w", err)
	}

	router, err := buildRouter(cfg.Logging, nil, opts.Console)
	if err != nil {
		return nil, fmt.Errorf("failed to construct logging router: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &runner{
		cfg:      cfg,
		opts:     opts,
		logger:   logger,
		router:   router,
		counters: telemetry.NewCounters(),
		catalog:  cat,
		deck:     deck,
		rng:      simutil.NewRNG(seed, cfg.Mode),
	}, nil
}

func (rt *runner) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := rt.router.Close(ctx); err != nil {
		rt.logger.Printf("failed to close logging router: %v", err)
	}
}

func (rt *runner) withMatchID(id string) logging.Publisher {
	return logging.WithFields(rt.router, map[string]any{"matchId": id, "mode": rt.cfg.Mode})
}

func (rt *runner) runLocal(ctx context.Context) error {
	id := uuid.NewString()
	publisher := rt.withMatchID(id)
	m, err := match.New(match.Config{
		Mode:       match.Mode(rt.cfg.Mode),
		PlayerDeck: rt.deck,
		RNG:        rt.rng,
		Publisher:  publisher,
	})
	if err != nil {
		return err
	}
	rt.logger.Printf("starting %s match %s", rt.cfg.Mode, id)
	loop := rt.newLoop(match.NewLocalEngine(m), m)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return rt.runLoop(groupCtx, loop, m) })
	rt.readInput(groupCtx, loop)
	return group.Wait()
}

func (rt *runner) runHost(ctx context.Context) error {
	codec, err := proto.NewCodec(rt.cfg.Codec)
	if err != nil {
		return err
	}
	handler := ws.NewHandler(ws.HandlerConfig{Logger: rt.logger, Codec: codec, Metrics: rt.counters})
	server := &http.Server{
		Addr: rt.cfg.ListenAddr,
		Handler: netpkg.NewHTTPHandler(netpkg.HTTPHandlerConfig{
			Logger:        rt.logger,
			Peer:          handler.Handle,
			Diagnostics:   rt.diagnostics,
			TickRate:      rt.cfg.TickRate,
			Observability: rt.cfg.Observability,
		}),
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		rt.logger.Printf("host listening on %s", rt.cfg.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				rt.logger.Printf("http shutdown: %v", err)
			}
		}()
		conn, err := handler.Accept(groupCtx)
		if err != nil {
			return ignoreCanceled(err)
		}
		rt.logger.Printf("guest connected")
		return rt.playPvP(groupCtx, pvp.RoleHost, conn)
	})
	return group.Wait()
}

func (rt *runner) runGuest(ctx context.Context) error {
	codec, err := proto.NewCodec(rt.cfg.Codec)
	if err != nil {
		return err
	}
	dialCtx, cancel := context.WithTimeout(ctx, rt.cfg.HandshakeTimeout)
	defer cancel()
	conn, err := ws.Dial(dialCtx, rt.cfg.PeerURL, codec, peer.Options{Logger: rt.logger, Metrics: rt.counters})
	if err != nil {
		return err
	}
	rt.logger.Printf("connected to host %s", rt.cfg.PeerURL)
	return rt.playPvP(ctx, pvp.RoleGuest, conn)
}

// playPvP runs the lobby handshake over ch and then the match until it ends
// or the channel is lost.
func (rt *runner) playPvP(ctx context.Context, role pvp.Role, ch peer.Channel) error {
	link := pvp.NewLink(role, ch, rt.router)
	defer link.Close()

	handshakeCtx, cancel := context.WithTimeout(ctx, rt.cfg.HandshakeTimeout)
	start, err := pvp.Handshake(handshakeCtx, link, rt.catalog, rt.deck)
	cancel()
	if err != nil {
		return err
	}

	publisher := logging.WithFields(rt.withMatchID(start.MatchID), map[string]any{"role": string(role)})
	m, err := pvp.NewMatch(role, start, rt.rng, publisher)
	if err != nil {
		return err
	}
	engine := pvp.NewEngine(role, m, link, pvp.EngineConfig{
		Publisher:          publisher,
		Logger:             rt.logger,
		StateIntervalTicks: rt.cfg.StateIntervalTicks,
	})
	rt.logger.Printf("starting pvp match %s as %s", start.MatchID, role)
	loop := rt.newLoop(engine, m)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer link.Close()
		return rt.runLoop(groupCtx, loop, m)
	})
	group.Go(func() error {
		return link.Pump(groupCtx, loop, rt.tick.Load)
	})
	rt.readInput(groupCtx, loop)
	return group.Wait()
}

func (rt *runner) newLoop(engine sim.Engine, m *match.Match) *sim.Loop {
	return sim.NewLoop(engine, sim.LoopConfig{
		TickRate:        rt.cfg.TickRate,
		CommandCapacity: rt.cfg.CommandCapacity,
		WarningStep:     rt.cfg.CommandCapacity / 4,
	}, sim.LoopHooks{
		AfterStep: func(result sim.LoopStepResult) {
			rt.tick.Store(result.Tick)
			snap := m.Snapshot()
			rt.current.Store(&snap)
			if rt.opts.Render != nil {
				rt.opts.Render(snap)
			}
		},
		OnQueueWarning: func(length int) {
			rt.logger.Printf("[backpressure] command queue length=%d", length)
		},
	}, nil, rt.logger, rt.counters)
}

func (rt *runner) runLoop(ctx context.Context, loop *sim.Loop, m *match.Match) error {
	err := loop.Run(ctx)
	if m.Done() {
		rt.logger.Printf("match over: winner=%s reason=%s", m.Winner(), m.EndReason())
	}
	return ignoreCanceled(err)
}

// readInput feeds Options.Input, or stdin, into the loop in the background.
// The reader goroutine is not joined because a blocked stdin read cannot be
// interrupted.
func (rt *runner) readInput(ctx context.Context, loop *sim.Loop) {
	input := rt.opts.Input
	if input == nil {
		input = os.Stdin
	}
	go func() {
		if err := scanCommands(ctx, input, loop.Enqueue, rt.logger.Printf); err != nil {
			rt.logger.Printf("input closed: %v", err)
		}
	}()
}

func (rt *runner) diagnostics() any {
	return map[string]any{
		"metrics": rt.counters.Snapshot(),
		"logging": rt.router.Stats(),
		"match":   rt.current.Load(),
	}
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
