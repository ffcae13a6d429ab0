// Package parse dispatches statement text to the right extractor and
// assembles the final normalized record.
package parse

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/rumor-ml/commons.systems/cardparse/internal/dialect"
	"github.com/rumor-ml/commons.systems/cardparse/internal/domain"
	"github.com/rumor-ml/commons.systems/cardparse/internal/extract"
	"github.com/rumor-ml/commons.systems/cardparse/internal/rules"
)

// ErrEmptyDocument is returned when the input text is empty or whitespace.
var ErrEmptyDocument = errors.New("document contains no text")

// DefaultMinConfidence is the score a dialect must reach before its
// extractor is trusted over the generic one. One signature match scores
// the full threshold.
const DefaultMinConfidence = dialect.MatchWeight

// Options configures a Dispatcher.
type Options struct {
	// MinConfidence overrides DefaultMinConfidence when positive.
	MinConfidence int
	// Extract carries the search bounds shared by all extractors.
	Extract extract.Options
	// Rules overrides the embedded taxonomy when non-nil.
	Rules *rules.Engine
	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Dispatcher routes statement text through dialect detection to an
// extractor and attaches classification results. It is immutable after
// construction and safe for concurrent use.
type Dispatcher struct {
	registry      map[string]extract.Extractor
	generic       *extract.Generic
	dialects      *dialect.Registry
	engine        *rules.Engine
	minConfidence int
	log           *slog.Logger
}

// NewDispatcher builds a dispatcher with the embedded taxonomy unless
// Options.Rules supplies one.
func NewDispatcher(opts Options) (*Dispatcher, error) {
	engine := opts.Rules
	if engine == nil {
		var err error
		engine, err = rules.LoadEmbedded()
		if err != nil {
			return nil, err
		}
	}

	minConfidence := opts.MinConfidence
	if minConfidence <= 0 {
		minConfidence = DefaultMinConfidence
	}

	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		registry:      extract.Registry(opts.Extract),
		generic:       extract.NewGeneric(opts.Extract),
		dialects:      dialect.NewRegistry(),
		engine:        engine,
		minConfidence: minConfidence,
		log:           log,
	}, nil
}

// Parse runs the full pipeline over one document's text: dialect
// detection, extractor dispatch, category classification, and provenance.
// The only failure is an empty document; extraction itself degrades
// field by field instead of erroring.
func (d *Dispatcher) Parse(text string) (*domain.StatementRecord, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyDocument
	}

	bank, confidence := d.dialects.Detect(text)

	var extractor extract.Extractor = d.generic
	if confidence >= d.minConfidence {
		if e, ok := d.registry[bank]; ok {
			extractor = e
		}
	}

	d.log.Debug("dispatching document",
		"bank", bank,
		"confidence", confidence,
		"extractor", extractor.ID())

	rec := extractor.Extract(text)

	rec.Categories = d.engine.Categorize(rec.Transactions)
	if bank == "" {
		bank = domain.BankUnknown
	}
	rec.BankDetected = bank
	rec.Confidence = confidence
	rec.ExtractionMethod = domain.MethodNative

	return rec, nil
}
