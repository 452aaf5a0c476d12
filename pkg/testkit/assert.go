package testkit

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AnyValue in an expected body matches any present value during a
// partial match.
const AnyValue = "<any>"

// AssertStatusCode checks the response code with testify.
func AssertStatusCode(t *testing.T, label string, want, got int) bool {
	t.Helper()
	return assert.Equal(t, want, got, "[%s] HTTP status code mismatch", label)
}

// AssertJSONBody deep-compares actual response bytes against the expected
// JSON after normalising both through JSON unmarshal (so key order and
// whitespace never matter).
func AssertJSONBody(t *testing.T, label string, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	expVal, actVal, ok := decodePair(t, label, expected, actual)
	if !ok {
		return
	}

	assert.Equal(t, expVal, actVal, "[%s] response body mismatch", label)
}

// AssertJSONSubset checks that every key in expected is present in actual
// with an equal value. Arrays must have the same length and match
// element-wise; AnyValue matches anything.
func AssertJSONSubset(t *testing.T, label string, expected, actual []byte) {
	t.Helper()
	if len(expected) == 0 {
		return
	}

	expVal, actVal, ok := decodePair(t, label, expected, actual)
	if !ok {
		return
	}

	if diffs := DiffJSON("", expVal, actVal); len(diffs) > 0 {
		assert.Fail(t, fmt.Sprintf("[%s] response body mismatch", label),
			"%s\nactual: %s", strings.Join(diffs, "\n"), string(actual))
	}
}

func decodePair(t *testing.T, label string, expected, actual []byte) (interface{}, interface{}, bool) {
	t.Helper()
	var expVal, actVal interface{}

	require.NoError(t,
		json.Unmarshal(expected, &expVal),
		"[%s] expected response is not valid JSON", label,
	)

	if !assert.NoError(t,
		json.Unmarshal(actual, &actVal),
		"[%s] actual response is not valid JSON\nbody: %s", label, string(actual),
	) {
		return nil, nil, false
	}
	return expVal, actVal, true
}

// DiffJSON returns a list of human-readable differences between two
// JSON-decoded values, treating expected as a subset of actual.
func DiffJSON(path string, expected, actual interface{}) []string {
	if s, ok := expected.(string); ok && s == AnyValue {
		return nil
	}

	var diffs []string
	switch exp := expected.(type) {
	case map[string]interface{}:
		act, ok := actual.(map[string]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected object, got %T", keyPath(path), actual))
		}
		for k, ev := range exp {
			p := keyPath(path) + "." + k
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("  %s: missing in actual", p))
				continue
			}
			diffs = append(diffs, DiffJSON(p, ev, av)...)
		}
	case []interface{}:
		act, ok := actual.([]interface{})
		if !ok {
			return append(diffs, fmt.Sprintf("  %s: expected array, got %T", keyPath(path), actual))
		}
		if len(exp) != len(act) {
			diffs = append(diffs, fmt.Sprintf("  %s: array length expected=%d actual=%d", keyPath(path), len(exp), len(act)))
		}
		for i := 0; i < len(exp) && i < len(act); i++ {
			diffs = append(diffs, DiffJSON(fmt.Sprintf("%s[%d]", keyPath(path), i), exp[i], act[i])...)
		}
	default:
		if fmt.Sprintf("%v", expected) != fmt.Sprintf("%v", actual) {
			diffs = append(diffs, fmt.Sprintf("  %s:\n    - %v\n    + %v", keyPath(path), expected, actual))
		}
	}
	return diffs
}

func keyPath(path string) string {
	if path == "" {
		return "root"
	}
	return strings.TrimPrefix(path, ".")
}
