package enrich

import (
	"context"
	"time"

	"github.com/fwojciec/ragmark"
	"golang.org/x/sync/errgroup"
)

// ProgressFunc is invoked after each completed batch with the number of
// settled eligible blocks and the eligible total.
type ProgressFunc func(processed, total int)

// Result summarizes one enrichment run.
type Result struct {
	// Pairs holds one entry per input block, in input order.
	Pairs []ragmark.BlockPair

	// Enhanced counts blocks that passed validation.
	Enhanced int

	// Fallback counts eligible blocks that fell back to their original text
	// after exhausting retries.
	Fallback int

	// PassThrough counts blocks that were never sent to the model.
	PassThrough int

	Windows int
	Batches int

	// Metrics carries the session's cached-context hit/miss counters.
	Metrics ragmark.SessionMetrics
}

// Markdown joins the enriched block texts back into a single document.
func (r *Result) Markdown() string {
	out := ""
	for i, p := range r.Pairs {
		if i > 0 {
			out += "\n\n"
		}
		out += p.Enhanced
	}
	return out
}

// Pipeline enriches one document's content blocks.
//
// Windows are processed strictly sequentially because the cached context is
// window-scoped; batches within a window run concurrently behind the
// session's gate. Block-level failures degrade to the original text and
// never abort the document; only a cached-context setup failure is fatal.
// Cancellation halts new dispatch and the remaining blocks fall back to
// their originals.
type Pipeline struct {
	Session *Session
	Config  Config

	// Cache memoizes validation outcomes across retries. Optional.
	Cache *ValidationCache
}

// Run enriches the given block texts and returns per-block pairs in input
// order. The output always has exactly one pair per input block.
func (p *Pipeline) Run(ctx context.Context, texts []string, progress ProgressFunc) (*Result, error) {
	cfg := p.Config.withDefaults()

	blocks := Segment(texts, cfg.MinBlockChars)
	eligible := Eligible(blocks)
	windows := PlanWindows(eligible, cfg.WindowCapacity(), cfg.OverlapFraction)

	resolved := make(map[string]string) // key → validated enhanced text
	settled := make(map[string]bool)    // key → validated or retries exhausted

	batchCount := 0
	for _, w := range windows {
		if ctx.Err() != nil {
			break // stop dispatching; unresolved blocks fall back below
		}

		if err := p.Session.SetCachedContext(ctx, w.Text()); err != nil {
			_ = p.Session.Close()
			return nil, ragmark.Errorf(ragmark.EUNAVAILABLE,
				"cached context setup failed: %v", err)
		}

		// Overlap blocks already validated in the previous window are not
		// resubmitted; they served their purpose as shared context.
		pending := make([]ragmark.Block, 0, len(w.Blocks))
		for _, b := range w.Blocks {
			if _, ok := resolved[b.Key]; !ok {
				pending = append(pending, b)
			}
		}

		batches := BuildBatches(pending, cfg.TargetBatchWords)
		batchCount += len(batches)
		p.runWindow(ctx, batches, cfg, resolved, settled, progress, len(eligible))
	}

	result := &Result{
		Pairs:   make([]ragmark.BlockPair, 0, len(blocks)),
		Windows: len(windows),
		Batches: batchCount,
		Metrics: p.Session.Metrics(),
	}

	// Reassemble in original block order: pass-through blocks unchanged,
	// eligible blocks enhanced or falling back to their original text.
	for _, b := range blocks {
		pair := ragmark.BlockPair{Original: b.Text, Enhanced: b.Text}
		switch {
		case b.PassThrough():
			result.PassThrough++
		default:
			if text, ok := resolved[b.Key]; ok {
				pair.Enhanced = text
				result.Enhanced++
			} else {
				result.Fallback++
			}
		}
		result.Pairs = append(result.Pairs, pair)
	}

	return result, nil
}

// batchOutcome carries one batch's merged results back to the collector.
type batchOutcome struct {
	index     int
	validated map[string]string
	attempted []string
}

// runWindow dispatches the window's batches concurrently and merges their
// results by key. Completion order within a window is irrelevant.
func (p *Pipeline) runWindow(
	ctx context.Context,
	batches []Batch,
	cfg Config,
	resolved map[string]string,
	settled map[string]bool,
	progress ProgressFunc,
	total int,
) {
	if len(batches) == 0 {
		return
	}

	outcomes := make(chan batchOutcome, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	go func() {
		for i, b := range batches {
			g.Go(func() error {
				// Capped stagger spreads call starts as backpressure against
				// provider rate limits; not a correctness requirement.
				if d := cfg.staggerDelay(i); d > 0 {
					select {
					case <-gctx.Done():
						outcomes <- batchOutcome{index: i, attempted: b.Keys}
						return nil
					case <-time.After(d):
					}
				}

				validated := p.processBatch(gctx, b, cfg)
				outcomes <- batchOutcome{index: i, validated: validated, attempted: b.Keys}
				return nil
			})
		}
		_ = g.Wait()
		close(outcomes)
	}()

	for out := range outcomes {
		for k, v := range out.validated {
			resolved[k] = v
		}
		for _, k := range out.attempted {
			settled[k] = true
		}
		if progress != nil {
			progress(len(settled), total)
		}
	}
}

// processBatch dispatches one batch and retries only the failing blocks,
// up to cfg.MaxRetries with backoff. Each attempt operates on a fresh batch
// value; nothing is shared or mutated across attempts. Returns the validated
// key → enhanced text mapping; keys absent from it fall back to originals.
func (p *Pipeline) processBatch(ctx context.Context, batch Batch, cfg Config) map[string]string {
	validated := make(map[string]string)

	attempt := batch
	for retry := 0; ; retry++ {
		failed := p.callAndValidate(ctx, attempt, cfg, validated)
		if len(failed) == 0 || retry >= cfg.MaxRetries {
			return validated
		}

		select {
		case <-ctx.Done():
			return validated
		case <-time.After(cfg.retryDelay(retry)):
		}

		attempt = attempt.subset(failed)
	}
}

// callAndValidate performs a single enrichment call for the batch, records
// validated blocks, and returns the keys that failed. A call-level error
// (timeout, transport failure, malformed response) fails every key in the
// attempt; missing keys and word-preservation failures fail individually.
func (p *Pipeline) callAndValidate(ctx context.Context, b Batch, cfg Config, validated map[string]string) []string {
	cctx := ctx
	if cfg.CallTimeout > 0 {
		var cancel context.CancelFunc
		cctx, cancel = context.WithTimeout(ctx, cfg.CallTimeout)
		defer cancel()
	}

	result, err := p.Session.Call(cctx, b.Texts)
	if err != nil {
		return append([]string(nil), b.Keys...)
	}

	var failed []string
	for _, key := range b.Keys {
		enhanced, ok := result[key]
		if !ok {
			failed = append(failed, key)
			continue
		}
		if out := p.validate(b.Texts[key], enhanced); out.Valid {
			validated[key] = enhanced
		} else {
			failed = append(failed, key)
		}
	}
	return failed
}

func (p *Pipeline) validate(original, enhanced string) Outcome {
	if p.Cache != nil {
		return p.Cache.Validate(original, enhanced)
	}
	return Validate(original, enhanced)
}
