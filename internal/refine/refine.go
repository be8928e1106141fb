// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package refine assembles a RefinedPrompt from a set of inputs: it extracts
// each source, joins the text into one corpus, runs segmentation and the
// heuristic classifiers, derives assumptions and open questions, and scores
// coverage.
package refine

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/refine-engine/internal/classify"
	"github.com/pdiddy/refine-engine/internal/extract"
	"github.com/pdiddy/refine-engine/internal/segment"
	"github.com/pdiddy/refine-engine/pkg/types"
)

// Follow-up prompts added when a category is empty.
const (
	QuestionDeliverables = "What are the expected deliverables/artifacts?"
	QuestionRequirements = "What are the core functional requirements?"
	AssumptionNoLimits   = "No strict technical constraints provided; flexibility assumed."
)

const (
	baseConfidence    = 0.3
	confidencePerPart = 0.15
)

// TimestampLayout renders UTC instants with microseconds and a trailing "Z".
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// Extractor turns a path into text and metadata.
type Extractor interface {
	Extract(ctx context.Context, path string) extract.Result
}

// Clock supplies the run timestamp.
type Clock interface {
	Now() time.Time
}

// IDGenerator supplies the run request id.
type IDGenerator interface {
	NewID() string
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

type uuidGenerator struct{}

func (uuidGenerator) NewID() string { return uuid.NewString() }

// Refiner runs the refinement pipeline. It holds no per-run state and may
// be reused.
type Refiner struct {
	extractor Extractor
	clock     Clock
	ids       IDGenerator
	log       *zap.Logger
}

// Option configures a Refiner.
type Option func(*Refiner)

// WithClock overrides the wall clock.
func WithClock(c Clock) Option {
	return func(r *Refiner) { r.clock = c }
}

// WithIDGenerator overrides random UUID request ids.
func WithIDGenerator(g IDGenerator) Option {
	return func(r *Refiner) { r.ids = g }
}

// WithLogger sets the logger used for per-source and summary lines.
func WithLogger(l *zap.Logger) Option {
	return func(r *Refiner) {
		if l != nil {
			r.log = l
		}
	}
}

// New creates a Refiner that extracts files with ext.
func New(ext Extractor, opts ...Option) *Refiner {
	r := &Refiner{
		extractor: ext,
		clock:     systemClock{},
		ids:       uuidGenerator{},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Refine processes inline text (when non-blank) followed by inputs in
// order. Extraction failures are recorded in the per-source status and
// never stop the run. The returned slice is the same sequence as the
// record's meta.sources.
func (r *Refiner) Refine(ctx context.Context, inputs []string, inline string) (types.RefinedPrompt, []types.SourceMeta) {
	parts := make([]string, 0, len(inputs)+1)
	sources := make([]types.SourceMeta, 0, len(inputs)+1)

	if strings.TrimSpace(inline) != "" {
		res := extract.FromString(inline)
		parts = append(parts, res.Text)
		sources = append(sources, r.source(types.SourceText, types.InlinePath, res))
	}

	for _, path := range inputs {
		res := r.extractor.Extract(ctx, path)
		parts = append(parts, res.Text)
		sources = append(sources, r.source(extract.DetectType(path), path, res))
	}

	corpus := joinNonEmpty(parts, "\n\n")
	sentences := segment.Sentences(corpus)

	rp := types.RefinedPrompt{
		Meta: types.Meta{
			RequestID: r.ids.NewID(),
			Timestamp: r.clock.Now().UTC().Format(TimestampLayout),
			Sources:   sources,
		},
		Intent:        classify.Intent(sentences, corpus),
		Requirements:  classify.Requirements(sentences),
		Constraints:   classify.Constraints(sentences),
		Deliverables:  classify.Deliverables(sentences),
		Assumptions:   []string{},
		Ambiguities:   classify.Ambiguities(corpus),
		OpenQuestions: []string{},
	}

	if len(rp.Deliverables) == 0 {
		rp.OpenQuestions = append(rp.OpenQuestions, QuestionDeliverables)
	}
	if len(rp.Constraints) == 0 {
		rp.Assumptions = append(rp.Assumptions, AssumptionNoLimits)
	}
	if len(rp.Requirements) == 0 {
		rp.OpenQuestions = append(rp.OpenQuestions, QuestionRequirements)
	}
	rp.Confidence = Confidence(rp)

	r.log.Info("refined",
		zap.String("request_id", rp.Meta.RequestID),
		zap.Int("sources", len(sources)),
		zap.Int("sentences", len(sentences)),
		zap.Int("requirements", len(rp.Requirements)),
		zap.Int("constraints", len(rp.Constraints)),
		zap.Int("deliverables", len(rp.Deliverables)),
		zap.Float64("confidence", rp.Confidence),
	)
	return rp, sources
}

// Confidence scores how many of intent, requirements, constraints and
// deliverables are present, clamped to [0,1].
func Confidence(rp types.RefinedPrompt) float64 {
	covered := 0
	if rp.Intent != "" {
		covered++
	}
	for _, bucket := range [][]string{rp.Requirements, rp.Constraints, rp.Deliverables} {
		if len(bucket) > 0 {
			covered++
		}
	}
	c := baseConfidence + confidencePerPart*float64(covered)
	return min(max(c, 0), 1)
}

func (r *Refiner) source(t types.SourceType, path string, res extract.Result) types.SourceMeta {
	sm := types.SourceMeta{
		Type:             t,
		Path:             path,
		ExtractionMethod: orUnknown(res.Method),
		Status:           orUnknown(res.Status),
	}
	fields := []zap.Field{
		zap.String("path", sm.Path),
		zap.String("type", string(sm.Type)),
		zap.String("method", sm.ExtractionMethod),
		zap.String("status", sm.Status),
	}
	if res.Failed() {
		r.log.Warn("source extraction failed", fields...)
	} else {
		r.log.Debug("source extracted", fields...)
	}
	return sm
}

func orUnknown(s string) string {
	if s == "" {
		return types.StatusUnknown
	}
	return s
}

func joinNonEmpty(parts []string, sep string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
