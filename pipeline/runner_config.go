package pipeline

import (
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/KotobaMedia/jp-estat-to-sql/accumulate"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/metrics"
	"github.com/KotobaMedia/jp-estat-to-sql/internal/options"
	"github.com/KotobaMedia/jp-estat-to-sql/tileset"
)

// RunnerConfig holds the collaborators of a Runner.
type RunnerConfig struct {
	fetcher    Fetcher
	classifier accumulate.LevelClassifier
	codec      tileset.Codec
	logger     *slog.Logger
	metrics    *metrics.Metrics
	clock      clockwork.Clock
}

// RunnerOption represents a functional option for configuring the RunnerConfig.
type RunnerOption = options.Option[*RunnerConfig]

// WithFetcher sets the archive retrieval used when no input files are given.
func WithFetcher(f Fetcher) RunnerOption {
	return options.NoError(func(c *RunnerConfig) { c.fetcher = f })
}

// WithClassifier replaces the mesh level classifier.
func WithClassifier(cl accumulate.LevelClassifier) RunnerOption {
	return options.NoError(func(c *RunnerConfig) { c.classifier = cl })
}

// WithCodec replaces the tile codec.
func WithCodec(codec tileset.Codec) RunnerOption {
	return options.NoError(func(c *RunnerConfig) { c.codec = codec })
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) RunnerOption {
	return options.NoError(func(c *RunnerConfig) { c.logger = l })
}

// WithMetrics sets the metrics the run reports into.
func WithMetrics(m *metrics.Metrics) RunnerOption {
	return options.NoError(func(c *RunnerConfig) { c.metrics = m })
}

// WithClock sets the time source for run durations.
func WithClock(clock clockwork.Clock) RunnerOption {
	return options.NoError(func(c *RunnerConfig) { c.clock = clock })
}
