// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/refine-engine/pkg/types"
)

func sampleReport() types.Report {
	return types.Report{
		RefinedPrompt: types.RefinedPrompt{
			Meta: types.Meta{
				RequestID: "9f1c",
				Timestamp: "2026-10-18T09:30:00.123456Z",
				Sources: []types.SourceMeta{
					{Type: types.SourceText, Path: types.InlinePath, ExtractionMethod: "raw_text", Status: "ok"},
				},
			},
			Intent:        "Créer une application.",
			Requirements:  []string{},
			Constraints:   []string{},
			Deliverables:  []string{},
			Assumptions:   []string{},
			Ambiguities:   []string{},
			OpenQuestions: []string{},
			Confidence:    0.45,
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatJSON},
		{in: "json", want: FormatJSON},
		{in: "JSON", want: FormatJSON},
		{in: "yaml", want: FormatYAML},
		{in: "yml", want: FormatYAML},
		{in: "toml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	data, err := Marshal(sampleReport(), FormatJSON)
	require.NoError(t, err)
	s := string(data)

	assert.Contains(t, s, `"path": "<inline>"`)
	assert.Contains(t, s, "Créer une application.")
	assert.Contains(t, s, `"requirements": []`)
	assert.Contains(t, s, "\n  \"intent\"")
	assert.NotContains(t, s, "validation_errors")
	assert.False(t, strings.HasSuffix(s, "\n"))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 0.45, decoded["confidence"])
}

func TestMarshalJSON_ValidationErrors(t *testing.T) {
	r := sampleReport()
	r.ValidationErrors = []string{"Validation error at confidence: 1.5 is greater than the maximum of 1"}

	data, err := Marshal(r, FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"validation_errors": [`)
}

func TestMarshalYAML(t *testing.T) {
	data, err := Marshal(sampleReport(), FormatYAML)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "Créer une application.", decoded["intent"])
	assert.Contains(t, decoded, "meta")
	assert.Contains(t, decoded, "open_questions")
	assert.NotContains(t, decoded, "validation_errors")
	assert.NotContains(t, decoded, "refinedprompt")
}

func TestMarshal_UnknownFormat(t *testing.T) {
	_, err := Marshal(sampleReport(), Format("xml"))
	assert.Error(t, err)
}
