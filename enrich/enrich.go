// Package enrich implements the AI-assisted context-disambiguation pipeline.
// It partitions a document's content blocks into overlapping windows sized to
// the model's usable context budget, batches blocks within each window,
// dispatches concurrent enrichment calls against a window-scoped cached
// context, validates that enrichment never alters original wording, retries
// only the blocks that fail, and reassembles results in original block order
// with per-block fallback to the original text.
package enrich

import "time"

// Defaults for Config fields left at their zero value.
const (
	DefaultContextTokens    = 128000
	DefaultUtilization      = 0.8
	DefaultTokenWordRatio   = 0.75
	DefaultReserveTokens    = 2000
	DefaultMinWindowWords   = 1000
	DefaultMaxWindowWords   = 5000
	DefaultOverlapFraction  = 0.5
	DefaultTargetBatchWords = 800
	DefaultMinBlockChars    = 30
	DefaultConcurrency      = 10
	DefaultMaxRetries       = 3
	DefaultStaggerStep      = 50 * time.Millisecond
	DefaultStaggerMax       = 400 * time.Millisecond
	DefaultCallTimeout      = 30 * time.Second
)

// Config controls the enrichment pipeline. The zero value is usable; unset
// fields assume the defaults above.
type Config struct {
	// ContextTokens is the target model's context window size in tokens.
	ContextTokens int

	// Utilization is the fraction of the context window considered usable.
	Utilization float64

	// TokenWordRatio converts tokens to words (words per token).
	TokenWordRatio float64

	// ReserveTokens is held back for instructions, metadata and the response.
	ReserveTokens int

	// MinWindowWords and MaxWindowWords clamp the computed window capacity.
	MinWindowWords int
	MaxWindowWords int

	// OverlapFraction is the share of window capacity shared by adjacent
	// windows, measured in words and snapped to block boundaries.
	OverlapFraction float64

	// TargetBatchWords is the word budget for a single enrichment call.
	TargetBatchWords int

	// MinBlockChars is the minimum real-text length for a block to be
	// eligible for enrichment. Shorter blocks pass through untouched.
	MinBlockChars int

	// Concurrency bounds simultaneous in-flight enrichment calls.
	Concurrency int

	// MaxRetries bounds resubmissions of failed blocks per batch.
	MaxRetries int

	// RetryDelays overrides the backoff schedule between attempts. When nil,
	// attempt n waits n seconds. Tests pass zero delays.
	RetryDelays []time.Duration

	// StaggerStep and StaggerMax shape the politeness delay applied to batch
	// start times: min(StaggerMax, index * StaggerStep).
	StaggerStep time.Duration
	StaggerMax  time.Duration

	// CallTimeout bounds each enrichment call. Timeouts are retryable.
	CallTimeout time.Duration
}

// withDefaults returns a copy of c with zero fields replaced by defaults.
func (c Config) withDefaults() Config {
	if c.ContextTokens <= 0 {
		c.ContextTokens = DefaultContextTokens
	}
	if c.Utilization <= 0 {
		c.Utilization = DefaultUtilization
	}
	if c.TokenWordRatio <= 0 {
		c.TokenWordRatio = DefaultTokenWordRatio
	}
	if c.ReserveTokens <= 0 {
		c.ReserveTokens = DefaultReserveTokens
	}
	if c.MinWindowWords <= 0 {
		c.MinWindowWords = DefaultMinWindowWords
	}
	if c.MaxWindowWords <= 0 {
		c.MaxWindowWords = DefaultMaxWindowWords
	}
	if c.OverlapFraction <= 0 {
		c.OverlapFraction = DefaultOverlapFraction
	}
	if c.TargetBatchWords <= 0 {
		c.TargetBatchWords = DefaultTargetBatchWords
	}
	if c.MinBlockChars <= 0 {
		c.MinBlockChars = DefaultMinBlockChars
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.StaggerStep <= 0 {
		c.StaggerStep = DefaultStaggerStep
	}
	if c.StaggerMax <= 0 {
		c.StaggerMax = DefaultStaggerMax
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = DefaultCallTimeout
	}
	return c
}

// retryDelay returns the backoff before retry attempt n (zero-based).
func (c Config) retryDelay(n int) time.Duration {
	if len(c.RetryDelays) > 0 {
		if n >= len(c.RetryDelays) {
			n = len(c.RetryDelays) - 1
		}
		return c.RetryDelays[n]
	}
	return time.Duration(n+1) * time.Second
}

// staggerDelay returns the politeness delay before dispatching the batch at
// the given index within its window.
func (c Config) staggerDelay(index int) time.Duration {
	d := time.Duration(index) * c.StaggerStep
	if d > c.StaggerMax {
		return c.StaggerMax
	}
	return d
}
