// Package batch runs extraction over many documents with a worker pool.
// A failing document never aborts the run: each item carries its own error
// and the remaining documents are still processed.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/FACorreiaa/invoice-recon/internal/domain/extraction"
)

// TextSource resolves a document reference to its raw text.
type TextSource interface {
	Text(ctx context.Context, ref string) (string, error)
}

// Item is the outcome for a single document. When Err is non-nil the result
// still carries the document and supplier tags with every field null, so
// downstream joins and exports keep one row per input.
type Item struct {
	Document string
	Result   extraction.Result
	Err      error
}

// Stats summarizes a completed run.
type Stats struct {
	Total     int64
	Extracted int64
	Failed    int64
}

// Processor fans documents out to extraction workers.
type Processor struct {
	engine  *extraction.Engine
	source  TextSource
	workers int
	logger  *slog.Logger

	// OnProgress, when set, is called after each document completes with
	// the number done so far and the total. Calls may arrive from any
	// worker goroutine.
	OnProgress func(done, total int)
}

// NewProcessor creates a processor. A non-positive worker count falls back
// to GOMAXPROCS.
func NewProcessor(engine *extraction.Engine, source TextSource, workers int, logger *slog.Logger) *Processor {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		engine:  engine,
		source:  source,
		workers: workers,
		logger:  logger,
	}
}

type job struct {
	index    int
	document string
}

// Run extracts the requested fields from every document. Results come back
// in input order, one item per document, regardless of worker scheduling.
// Context cancellation stops dispatching new documents; items not yet
// processed report the context error.
func (p *Processor) Run(ctx context.Context, documents []string, supplier string, fields []string) ([]Item, Stats) {
	runID := uuid.New().String()
	log := p.logger.With(slog.String("run_id", runID), slog.String("supplier", supplier))
	log.Info("batch run starting",
		slog.Int("documents", len(documents)),
		slog.Int("workers", p.workers))

	items := make([]Item, len(documents))
	stats := Stats{Total: int64(len(documents))}
	var done atomic.Int64

	jobs := make(chan job, p.workers)
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				items[j.index] = p.processOne(ctx, log, j.document, supplier, fields)
				if items[j.index].Err != nil {
					stats.addFailed()
				} else {
					stats.addExtracted()
				}
				if p.OnProgress != nil {
					p.OnProgress(int(done.Add(1)), len(documents))
				}
			}
		}()
	}

dispatch:
	for i, doc := range documents {
		select {
		case <-ctx.Done():
			// Mark everything not yet dispatched as cancelled.
			for k := i; k < len(documents); k++ {
				items[k] = failedItem(documents[k], supplier, fields, ctx.Err())
				stats.addFailed()
			}
			break dispatch
		case jobs <- job{index: i, document: doc}:
		}
	}
	close(jobs)
	wg.Wait()

	log.Info("batch run finished",
		slog.Int64("extracted", stats.Extracted),
		slog.Int64("failed", stats.Failed))
	return items, stats
}

// processOne isolates a single document: source errors and panics from a
// pathological pattern or input are captured on the item, never propagated.
func (p *Processor) processOne(ctx context.Context, log *slog.Logger, document, supplier string, fields []string) (item Item) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("document processing panicked",
				slog.String("document", document),
				slog.Any("panic", r))
			item = failedItem(document, supplier, fields, fmt.Errorf("process %s: panic: %v", document, r))
		}
	}()

	text, err := p.source.Text(ctx, document)
	if err != nil {
		log.Warn("document text unavailable",
			slog.String("document", document),
			slog.Any("error", err))
		return failedItem(document, supplier, fields, fmt.Errorf("read %s: %w", document, err))
	}

	res := p.engine.Extract(text, supplier, fields)
	res.Document = document
	return Item{Document: document, Result: res}
}

// failedItem keeps the one-row-per-document contract: the result is fully
// null but still tagged with the document and supplier.
func failedItem(document, supplier string, fields []string, err error) Item {
	res := extraction.Result{
		Supplier:  supplier,
		Document:  document,
		Requested: append([]string(nil), fields...),
		Fields:    make(map[string]extraction.FieldValue, len(fields)),
	}
	for _, name := range fields {
		res.Fields[name] = extraction.NullValue()
	}
	return Item{Document: document, Result: res, Err: err}
}

// Results strips items down to their extraction results, preserving order.
func Results(items []Item) []extraction.Result {
	out := make([]extraction.Result, len(items))
	for i, it := range items {
		out[i] = it.Result
	}
	return out
}

func (s *Stats) addExtracted() { atomic.AddInt64(&s.Extracted, 1) }
func (s *Stats) addFailed()    { atomic.AddInt64(&s.Failed, 1) }
