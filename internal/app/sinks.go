package app

import (
	"fmt"
	"io"
	"os"

	"github.com/devsilvver/corrida-das-gemas/logging"
	"github.com/devsilvver/corrida-das-gemas/logging/sinks"
)

// buildRouter constructs the event router and the sinks cfg enables.
func buildRouter(cfg logging.Config, clock logging.Clock, console io.Writer) (*logging.Router, error) {
	if console == nil {
		console = os.Stdout
	}
	var named []logging.NamedSink
	for _, name := range cfg.EnabledSinks {
		switch name {
		case logging.SinkConsole:
			named = append(named, logging.NamedSink{Name: name, Sink: sinks.NewConsoleSink(console)})
		case logging.SinkJSON:
			// The console is shared, so the sink must not close it.
			w := io.Writer(struct{ io.Writer }{console})
			if path := cfg.JSON.FilePath; path != "" {
				file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return nil, fmt.Errorf("open json log %s: %w", path, err)
				}
				w = file
			}
			named = append(named, logging.NamedSink{Name: name, Sink: sinks.NewJSON(w, cfg.JSON.FlushInterval)})
		case logging.SinkZap:
			sink, err := sinks.NewZap(nil, cfg.Zap.Development)
			if err != nil {
				return nil, fmt.Errorf("build zap sink: %w", err)
			}
			named = append(named, logging.NamedSink{Name: name, Sink: sink})
		case logging.SinkMemory:
			named = append(named, logging.NamedSink{Name: name, Sink: sinks.NewMemorySink()})
		default:
			return nil, fmt.Errorf("unknown log sink %q", name)
		}
	}
	return logging.NewRouter(clock, cfg, named)
}
