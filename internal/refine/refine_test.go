// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package refine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/refine-engine/internal/extract"
	"github.com/pdiddy/refine-engine/internal/validate"
	"github.com/pdiddy/refine-engine/pkg/types"
)

// fakeExtractor serves canned results keyed by path.
type fakeExtractor struct {
	results map[string]extract.Result
	calls   []string
}

func (f *fakeExtractor) Extract(_ context.Context, path string) extract.Result {
	f.calls = append(f.calls, path)
	if r, ok := f.results[path]; ok {
		return r
	}
	return extract.Result{Method: extract.MethodNone, Status: "error: File not found: " + path}
}

type fixedClock time.Time

func (c fixedClock) Now() time.Time { return time.Time(c) }

type seqIDs struct{ n int }

func (s *seqIDs) NewID() string {
	s.n++
	return fmt.Sprintf("req-%d", s.n)
}

func newRefiner(ext Extractor, opts ...Option) *Refiner {
	base := []Option{
		WithClock(fixedClock(time.Date(2026, 10, 18, 9, 30, 0, 123456789, time.FixedZone("CEST", 2*3600)))),
		WithIDGenerator(&seqIDs{}),
	}
	return New(ext, append(base, opts...)...)
}

func TestRefine_InlineDashboard(t *testing.T) {
	r := newRefiner(&fakeExtractor{})
	rp, sources := r.Refine(context.Background(), nil, "Build a web dashboard for IoT telemetry. Must support charts.")

	assert.Equal(t, "Build a web dashboard for IoT telemetry.", rp.Intent)
	assert.Equal(t, []string{"Must support charts."}, rp.Requirements)
	assert.Empty(t, rp.Constraints)
	assert.Empty(t, rp.Deliverables)
	assert.Equal(t, []string{AssumptionNoLimits}, rp.Assumptions)
	assert.Equal(t, []string{QuestionDeliverables}, rp.OpenQuestions)
	assert.InDelta(t, 0.6, rp.Confidence, 1e-9)

	require.Len(t, sources, 1)
	assert.Equal(t, types.SourceMeta{Type: types.SourceText, Path: "<inline>", ExtractionMethod: "raw_text", Status: "ok"}, sources[0])
	assert.Equal(t, sources, rp.Meta.Sources)
}

func TestRefine_Meta(t *testing.T) {
	r := newRefiner(&fakeExtractor{})
	rp, _ := r.Refine(context.Background(), nil, "Make a thing.")
	assert.Equal(t, "req-1", rp.Meta.RequestID)
	assert.Equal(t, "2026-10-18T07:30:00.123456Z", rp.Meta.Timestamp)

	rp, _ = r.Refine(context.Background(), nil, "Make a thing.")
	assert.Equal(t, "req-2", rp.Meta.RequestID)
}

func TestRefine_DefaultIdentityAndClock(t *testing.T) {
	r := New(&fakeExtractor{})
	a, _ := r.Refine(context.Background(), nil, "x")
	b, _ := r.Refine(context.Background(), nil, "x")
	assert.NotEqual(t, a.Meta.RequestID, b.Meta.RequestID)
	assert.Len(t, a.Meta.RequestID, 36)

	ts, err := time.Parse(TimestampLayout, a.Meta.Timestamp)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), ts, time.Minute)
}

func TestRefine_EmptyCorpus(t *testing.T) {
	r := newRefiner(&fakeExtractor{})
	rp, sources := r.Refine(context.Background(), nil, "   \n\t")

	assert.Empty(t, sources)
	assert.NotNil(t, rp.Meta.Sources)
	assert.Equal(t, "", rp.Intent)
	assert.Empty(t, rp.Requirements)
	assert.Empty(t, rp.Constraints)
	assert.Empty(t, rp.Deliverables)
	assert.Empty(t, rp.Ambiguities)
	assert.Equal(t, []string{QuestionDeliverables, QuestionRequirements}, rp.OpenQuestions)
	assert.Equal(t, []string{AssumptionNoLimits}, rp.Assumptions)
	assert.InDelta(t, 0.3, rp.Confidence, 1e-9)
}

func TestRefine_MissingFileDoesNotAbort(t *testing.T) {
	ext := &fakeExtractor{results: map[string]extract.Result{
		"inputs/idea.txt": {Text: "Create a CLI. Deliver a report.", Method: "file-text", Status: "ok"},
	}}
	r := newRefiner(ext)
	rp, sources := r.Refine(context.Background(), []string{"inputs/missing.pdf", "inputs/idea.txt"}, "")

	require.Len(t, sources, 2)
	assert.Equal(t, types.SourcePDF, sources[0].Type)
	assert.Equal(t, "none", sources[0].ExtractionMethod)
	assert.Regexp(t, `^error:`, sources[0].Status)
	assert.Equal(t, types.SourceText, sources[1].Type)

	assert.Equal(t, "Create a CLI.", rp.Intent)
	assert.Equal(t, []string{"Deliver a report."}, rp.Deliverables)
	assert.Equal(t, []string{"inputs/missing.pdf", "inputs/idea.txt"}, ext.calls)
}

func TestRefine_SourceOrderAndCount(t *testing.T) {
	ext := &fakeExtractor{results: map[string]extract.Result{
		"a.docx": {Text: "Must import statements.", Method: "docx-native", Status: "ok"},
		"b.png":  {Text: "wireframe", Method: "image-info", Status: "ok"},
		"c.txt":  {Text: "", Method: "file-text", Status: "ok"},
	}}
	tests := []struct {
		name   string
		inputs []string
		inline string
		want   int
	}{
		{"files only", []string{"a.docx", "b.png", "c.txt"}, "", 3},
		{"inline plus files", []string{"a.docx", "b.png"}, "Build it.", 3},
		{"blank inline not counted", []string{"c.txt"}, "  ", 1},
		{"duplicates kept", []string{"a.docx", "a.docx"}, "", 2},
		{"nothing", nil, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rp, sources := newRefiner(ext).Refine(context.Background(), tt.inputs, tt.inline)
			assert.Len(t, sources, tt.want)
			assert.GreaterOrEqual(t, rp.Confidence, 0.0)
			assert.LessOrEqual(t, rp.Confidence, 1.0)
			if tt.inline != "" && len(sources) > 0 && sources[0].Path == types.InlinePath {
				assert.Equal(t, types.SourceText, sources[0].Type)
			}
		})
	}
}

func TestRefine_UnknownMetadataDefaults(t *testing.T) {
	ext := &fakeExtractor{results: map[string]extract.Result{"notes.txt": {Text: "Hello."}}}
	_, sources := newRefiner(ext).Refine(context.Background(), []string{"notes.txt"}, "")
	require.Len(t, sources, 1)
	assert.Equal(t, "unknown", sources[0].ExtractionMethod)
	assert.Equal(t, "unknown", sources[0].Status)
}

func TestRefine_CorpusJoinsNonEmptyParts(t *testing.T) {
	ext := &fakeExtractor{results: map[string]extract.Result{
		"one.txt":   {Text: "Develop a tracker", Method: "file-text", Status: "ok"},
		"empty.txt": {Text: "", Method: "file-text", Status: "ok"},
		"two.txt":   {Text: "Budget is $500", Method: "file-text", Status: "ok"},
	}}
	rp, _ := newRefiner(ext).Refine(context.Background(), []string{"one.txt", "empty.txt", "two.txt"}, "")

	// The part separator is whitespace, but without a terminal mark the
	// parts stay in one sentence.
	assert.Equal(t, "Develop a tracker\n\nBudget is $500", rp.Intent)
	assert.Equal(t, []string{"Develop a tracker\n\nBudget is $500"}, rp.Constraints)
}

func TestRefine_SampleSet(t *testing.T) {
	ext := &fakeExtractor{results: map[string]extract.Result{
		"samples/inputs/text_idea.txt": {
			Text: "Design a smartwatch companion app to manage health metrics and notifications.\n" +
				"Must support step tracking, heart-rate monitoring, and sleep analysis.\n" +
				"Should integrate with existing wearable APIs.\n" +
				"Deliver weekly summary reports and export data as CSV.\n" +
				"Constraints: Android 11+, iOS 15+, limited budget; initial prototype in 4 weeks.",
			Method: "file-text", Status: "ok",
		},
	}}
	rp, _ := newRefiner(ext).Refine(context.Background(), []string{"samples/inputs/text_idea.txt"}, "")

	assert.Equal(t, "Design a smartwatch companion app to manage health metrics and notifications.", rp.Intent)
	assert.Equal(t, []string{
		"Must support step tracking, heart-rate monitoring, and sleep analysis.",
		"Should integrate with existing wearable APIs.",
	}, rp.Requirements)
	assert.Equal(t, []string{"Constraints: Android 11+, iOS 15+, limited budget; initial prototype in 4 weeks."}, rp.Constraints)
	assert.Equal(t, []string{
		"Deliver weekly summary reports and export data as CSV.",
		"Constraints: Android 11+, iOS 15+, limited budget; initial prototype in 4 weeks.",
	}, rp.Deliverables)
	assert.Equal(t, []string{"Numeric values might be constraints; verify"}, rp.Ambiguities)
	assert.Empty(t, rp.OpenQuestions)
	assert.Empty(t, rp.Assumptions)
	assert.InDelta(t, 0.9, rp.Confidence, 1e-9)
}

func TestRefine_RecordValidates(t *testing.T) {
	ext := &fakeExtractor{results: map[string]extract.Result{
		"x.txt": {Text: "Create a report. Only Go. TBD etc and so on.", Method: "file-text", Status: "ok"},
	}}
	rp, _ := newRefiner(ext).Refine(context.Background(), []string{"x.txt", "gone.docx"}, "Make it fast.")
	errs, err := validate.Report(rp)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestRefine_WithRealExtractor(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "in/brief.md", []byte("Price is $5.00. Next step is testing."), 0o644))
	ext, err := extract.New(fsys)
	require.NoError(t, err)

	rp, sources := newRefiner(ext).Refine(context.Background(), []string{"in/brief.md", "in/absent.txt"}, "")
	require.Len(t, sources, 2)
	assert.Equal(t, "file-text", sources[0].ExtractionMethod)
	assert.Equal(t, "error: File not found: in/absent.txt", sources[1].Status)
	assert.Equal(t, "Price is $5.00.", rp.Intent)
	assert.Equal(t, []string{"Price is $5.00."}, rp.Constraints)
}

func TestRefine_LogsPerSource(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	r := newRefiner(&fakeExtractor{}, WithLogger(zap.New(core)))
	r.Refine(context.Background(), []string{"missing.txt"}, "Build it.")

	assert.Equal(t, 1, logs.FilterMessage("source extraction failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("source extracted").Len())
	summary := logs.FilterMessage("refined").All()
	require.Len(t, summary, 1)
	assert.Equal(t, int64(2), summary[0].ContextMap()["sources"])
}

func TestConfidence(t *testing.T) {
	one := []string{"x"}
	tests := []struct {
		name string
		rp   types.RefinedPrompt
		want float64
	}{
		{"nothing", types.RefinedPrompt{}, 0.3},
		{"intent only", types.RefinedPrompt{Intent: "Build."}, 0.45},
		{"intent and requirements", types.RefinedPrompt{Intent: "Build.", Requirements: one}, 0.6},
		{"three", types.RefinedPrompt{Intent: "Build.", Requirements: one, Constraints: one}, 0.75},
		{"all four", types.RefinedPrompt{Intent: "Build.", Requirements: one, Constraints: one, Deliverables: one}, 0.9},
		{"empty slices do not count", types.RefinedPrompt{Requirements: []string{}, Deliverables: one}, 0.45},
	}
	prev := 0.0
	for _, tt := range tests[:5] {
		got := Confidence(tt.rp)
		assert.GreaterOrEqual(t, got, prev, "confidence must not decrease as coverage grows")
		prev = got
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Confidence(tt.rp), 1e-9)
		})
	}
}
