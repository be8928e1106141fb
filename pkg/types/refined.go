// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the records produced by the refine-engine pipeline
// and the configuration that drives it.
package types

// SourceType classifies an input artifact by the extractor that handles it.
type SourceType string

const (
	SourceText  SourceType = "text"
	SourcePDF   SourceType = "pdf"
	SourceDOCX  SourceType = "docx"
	SourceImage SourceType = "image"
)

// InlinePath is the synthetic path recorded for text passed on the command line.
const InlinePath = "<inline>"

// Extraction status values. Failures use StatusErrorPrefix followed by the cause.
const (
	StatusOK          = "ok"
	StatusPartial     = "partial"
	StatusErrorPrefix = "error: "
	StatusUnknown     = "unknown"
)

// SourceMeta describes one input artifact and how its text was obtained.
// One SourceMeta exists per processed input, including inline text.
type SourceMeta struct {
	// Type is the source kind detected from the path extension.
	Type SourceType `json:"type" yaml:"type"`

	// Path is the input locator as supplied, or InlinePath.
	Path string `json:"path" yaml:"path"`

	// ExtractionMethod names the backend that produced the text
	// (e.g. "raw_text", "file-text", "pdf-native", "markitdown").
	ExtractionMethod string `json:"extraction_method" yaml:"extraction_method"`

	// Status is "ok", "partial", or "error: <detail>".
	Status string `json:"status" yaml:"status"`
}

// Meta identifies a refinement run and lists its sources in processing order.
type Meta struct {
	// RequestID is unique per run.
	RequestID string `json:"request_id" yaml:"request_id"`

	// Timestamp is the UTC creation time in ISO-8601 with a trailing "Z".
	Timestamp string `json:"timestamp" yaml:"timestamp"`

	// Sources lists every processed input: inline text first, then files
	// in caller order.
	Sources []SourceMeta `json:"sources" yaml:"sources"`
}

// RefinedPrompt is the structured result of one refinement run. It is
// assembled once and not modified afterwards.
type RefinedPrompt struct {
	Meta Meta `json:"meta" yaml:"meta"`

	// Intent is the single sentence judged most likely to state the purpose.
	Intent string `json:"intent" yaml:"intent"`

	Requirements []string `json:"requirements" yaml:"requirements"`

	// Constraints is deduplicated, first occurrence wins.
	Constraints []string `json:"constraints" yaml:"constraints"`

	Deliverables []string `json:"deliverables" yaml:"deliverables"`
	Assumptions  []string `json:"assumptions" yaml:"assumptions"`

	// Ambiguities is deduplicated and ordered by check, not by position in the text.
	Ambiguities []string `json:"ambiguities" yaml:"ambiguities"`

	OpenQuestions []string `json:"open_questions" yaml:"open_questions"`

	// Confidence is in [0,1] and grows with the number of non-empty
	// categories among intent, requirements, constraints and deliverables.
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Report is the emitted document: the refined prompt plus any validation
// errors found on the serialized record.
type Report struct {
	RefinedPrompt `yaml:",inline"`

	// ValidationErrors is omitted when the record is valid.
	ValidationErrors []string `json:"validation_errors,omitempty" yaml:"validation_errors,omitempty"`
}
