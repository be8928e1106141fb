// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package validate checks a serialized refined-prompt record field by field
// and reports every violation as a path-qualified message.
package validate

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/pdiddy/refine-engine/pkg/types"
)

// Field lists, in the order violations are reported.
var (
	requiredTopLevel = []string{"meta", "intent", "requirements", "constraints", "deliverables", "confidence"}
	requiredMeta     = []string{"request_id", "timestamp", "sources"}
	requiredSource   = []string{"type", "path", "extraction_method", "status"}

	stringListFields = []string{"requirements", "constraints", "deliverables", "assumptions", "ambiguities", "open_questions"}
)

const (
	minConfidence = 0.0
	maxConfidence = 1.0
)

type violation struct {
	path    []string
	message string
}

// violations accumulates messages; messages sorts them by path.
type violations []violation

func (v *violations) add(path []string, format string, args ...any) {
	p := append([]string(nil), path...)
	*v = append(*v, violation{path: p, message: fmt.Sprintf(format, args...)})
}

// messages renders each violation as "Validation error at <path>: <msg>",
// ordered by path with discovery order kept for equal paths. The root path
// renders as an empty string.
func (v violations) messages() []string {
	sorted := slices.Clone(v)
	slices.SortStableFunc(sorted, func(a, b violation) int {
		return comparePaths(a.path, b.path)
	})
	out := make([]string, 0, len(sorted))
	for _, e := range sorted {
		out = append(out, fmt.Sprintf("Validation error at %s: %s", strings.Join(e.path, "/"), e.message))
	}
	return out
}

// comparePaths orders paths element by element, a prefix before its
// extensions. Array indexes compare numerically.
func comparePaths(a, b []string) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := compareElem(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareElem(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	if aErr == nil && bErr == nil {
		return cmp.Compare(ai, bi)
	}
	return strings.Compare(a, b)
}

// Validate checks record, the JSON object form of a RefinedPrompt, and
// returns one message per violation. A valid record yields an empty slice.
func Validate(record map[string]any) []string {
	errs := violations{}
	if record == nil {
		errs.add(nil, "None is not of type 'object'")
		return errs.messages()
	}

	requireKeys(&errs, nil, record, requiredTopLevel)

	if meta, ok := record["meta"]; ok {
		checkMeta(&errs, meta)
	}
	if intent, ok := record["intent"]; ok {
		checkString(&errs, []string{"intent"}, intent)
	}
	for _, field := range stringListFields {
		if v, ok := record[field]; ok {
			checkStringList(&errs, []string{field}, v)
		}
	}
	if c, ok := record["confidence"]; ok {
		checkConfidence(&errs, c)
	}
	return errs.messages()
}

// Report serializes rp to its JSON object form and validates the result.
func Report(rp types.RefinedPrompt) ([]string, error) {
	data, err := json.Marshal(rp)
	if err != nil {
		return nil, fmt.Errorf("serializing refined prompt: %w", err)
	}
	var record map[string]any
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decoding refined prompt record: %w", err)
	}
	return Validate(record), nil
}

func requireKeys(errs *violations, path []string, obj map[string]any, keys []string) {
	for _, k := range keys {
		if _, ok := obj[k]; !ok {
			errs.add(path, "'%s' is a required property", k)
		}
	}
}

func checkMeta(errs *violations, v any) {
	path := []string{"meta"}
	meta, ok := v.(map[string]any)
	if !ok {
		errs.add(path, "%s is not of type 'object'", repr(v))
		return
	}
	requireKeys(errs, path, meta, requiredMeta)
	for _, k := range []string{"request_id", "timestamp"} {
		if s, ok := meta[k]; ok {
			checkString(errs, append(path, k), s)
		}
	}
	raw, ok := meta["sources"]
	if !ok {
		return
	}
	sourcesPath := []string{"meta", "sources"}
	sources, ok := raw.([]any)
	if !ok {
		errs.add(sourcesPath, "%s is not of type 'array'", repr(raw))
		return
	}
	for i, item := range sources {
		itemPath := []string{"meta", "sources", strconv.Itoa(i)}
		src, ok := item.(map[string]any)
		if !ok {
			errs.add(itemPath, "%s is not of type 'object'", repr(item))
			continue
		}
		requireKeys(errs, itemPath, src, requiredSource)
		for _, k := range requiredSource {
			if s, ok := src[k]; ok {
				checkString(errs, append(itemPath[:len(itemPath):len(itemPath)], k), s)
			}
		}
	}
}

func checkString(errs *violations, path []string, v any) {
	if _, ok := v.(string); !ok {
		errs.add(path, "%s is not of type 'string'", repr(v))
	}
}

func checkStringList(errs *violations, path []string, v any) {
	if _, ok := v.([]string); ok {
		return
	}
	items, ok := v.([]any)
	if !ok {
		errs.add(path, "%s is not of type 'array'", repr(v))
		return
	}
	for i, item := range items {
		checkString(errs, append(path[:len(path):len(path)], strconv.Itoa(i)), item)
	}
}

func checkConfidence(errs *violations, v any) {
	path := []string{"confidence"}
	f, ok := asNumber(v)
	if !ok {
		errs.add(path, "%s is not of type 'number'", repr(v))
		return
	}
	if f < minConfidence {
		errs.add(path, "%s is less than the minimum of %s", formatNumber(f), formatNumber(minConfidence))
	}
	if f > maxConfidence {
		errs.add(path, "%s is greater than the maximum of %s", formatNumber(f), formatNumber(maxConfidence))
	}
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// repr renders a decoded JSON value for messages.
func repr(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return "'" + x + "'"
	case bool:
		if x {
			return "True"
		}
		return "False"
	}
	if f, ok := asNumber(v); ok {
		return formatNumber(f)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
