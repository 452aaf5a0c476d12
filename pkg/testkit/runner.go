package testkit

// Run executes a single scenario against an http.Handler.
// RunDir discovers all scenarios in a directory and runs them as subtests.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Option configures a run.
type Option func(*config)

type config struct {
	vars       map[string]string
	beforeEach func(t *testing.T)
}

// WithVars makes vars available as {{NAME}} in every scenario.
func WithVars(vars map[string]string) Option {
	return func(c *config) {
		for k, v := range vars {
			c.vars[k] = v
		}
	}
}

// BeforeEach runs fn before every scenario, e.g. to reset in-memory stores.
func BeforeEach(fn func(t *testing.T)) Option {
	return func(c *config) { c.beforeEach = fn }
}

func newConfig(opts []Option) *config {
	c := &config{vars: make(map[string]string)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes a single scenario from a JSON file against the provided handler.
//
// Lifecycle per scenario:
//  1. Load the scenario JSON file.
//  2. Run the BeforeEach hook.
//  3. For each step: substitute variables, fire the request using
//     httptest, assert status code and body, capture variables.
func Run(t *testing.T, handler http.Handler, scenarioPath string, opts ...Option) {
	t.Helper()

	s, err := LoadScenario(scenarioPath)
	if err != nil {
		t.Fatalf("testkit: load scenario %q: %v", scenarioPath, err)
	}

	cfg := newConfig(opts)
	t.Run(s.Name, func(t *testing.T) {
		runScenario(t, handler, s, cfg)
	})
}

// RunDir discovers every scenario in dir and runs each as a t.Run subtest.
// Scenario files that fail to parse are reported as test failures (not fatal).
func RunDir(t *testing.T, handler http.Handler, dir string, opts ...Option) {
	t.Helper()

	scenarios, errs := LoadAllFromDir(dir)
	for _, err := range errs {
		t.Errorf("testkit: %v", err)
	}
	if len(scenarios) == 0 {
		t.Fatalf("testkit: no scenarios loaded from %q", dir)
	}

	cfg := newConfig(opts)
	for _, s := range scenarios {
		s := s
		t.Run(s.Name, func(t *testing.T) {
			runScenario(t, handler, s, cfg)
		})
	}
}

func runScenario(t *testing.T, handler http.Handler, s *Scenario, cfg *config) {
	t.Helper()

	if cfg.beforeEach != nil {
		cfg.beforeEach(t)
	}

	vars := make(map[string]string, len(cfg.vars))
	for k, v := range cfg.vars {
		vars[k] = v
	}

	for i, step := range s.AllSteps() {
		label := fmt.Sprintf("%s#%d", s.Name, i)
		if !runStep(t, handler, s, step, vars, label) {
			return
		}
	}
}

// runStep reports false when later steps cannot meaningfully run.
func runStep(t *testing.T, handler http.Handler, s *Scenario, step Step, vars map[string]string, label string) bool {
	t.Helper()

	body, err := requestBody(s, step, vars)
	if err != nil {
		t.Fatalf("[%s] %v", label, err)
	}

	method := strings.ToUpper(step.RequestMethod)
	if method == "" {
		method = http.MethodGet
	}

	req := httptest.NewRequest(method, expand(step.RequestURL, vars), body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range step.Headers {
		req.Header.Set(k, expand(v, vars))
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !AssertStatusCode(t, label, step.ExpectedCode, rec.Code) {
		t.Logf("[%s] body: %s", label, rec.Body.String())
		return false
	}

	expected, err := expectedBody(s, step, vars)
	if err != nil {
		t.Fatalf("[%s] %v", label, err)
	}
	if len(expected) > 0 {
		if step.PartialMatch {
			AssertJSONSubset(t, label, expected, rec.Body.Bytes())
		} else {
			AssertJSONBody(t, label, expected, rec.Body.Bytes())
		}
	}

	return capture(t, label, step.Capture, rec.Body.Bytes(), vars)
}

func requestBody(s *Scenario, step Step, vars map[string]string) (io.Reader, error) {
	switch {
	case step.RawBody != nil:
		return strings.NewReader(expand(*step.RawBody, vars)), nil
	case len(step.RequestBody) > 0:
		return strings.NewReader(expand(string(step.RequestBody), vars)), nil
	case step.RequestFileName != "":
		data, err := os.ReadFile(s.resolve(step.RequestFileName))
		if err != nil {
			return nil, fmt.Errorf("read request file: %w", err)
		}
		return bytes.NewReader([]byte(expand(string(data), vars))), nil
	}
	return nil, nil
}

func expectedBody(s *Scenario, step Step, vars map[string]string) ([]byte, error) {
	switch {
	case len(step.ResponseBody) > 0:
		return []byte(expand(string(step.ResponseBody), vars)), nil
	case step.ResponseFileName != "":
		data, err := os.ReadFile(s.resolve(step.ResponseFileName))
		if err != nil {
			return nil, fmt.Errorf("read response file: %w", err)
		}
		return []byte(expand(string(data), vars)), nil
	}
	return nil, nil
}

func capture(t *testing.T, label string, paths map[string]string, body []byte, vars map[string]string) bool {
	t.Helper()
	if len(paths) == 0 {
		return true
	}

	var doc interface{}
	if !assert.NoError(t, json.Unmarshal(body, &doc), "[%s] capture needs a JSON body", label) {
		return false
	}

	for name, path := range paths {
		v, ok := Lookup(doc, path)
		if !assert.True(t, ok, "[%s] capture %s: path %q not found", label, name, path) {
			return false
		}
		switch val := v.(type) {
		case string:
			vars[name] = val
		default:
			encoded, err := json.Marshal(val)
			require.NoError(t, err)
			vars[name] = string(encoded)
		}
	}
	return true
}

// Lookup walks a decoded JSON document along a dotted path. Numeric
// segments index arrays.
func Lookup(doc interface{}, path string) (interface{}, bool) {
	cur := doc
	if path == "" {
		return cur, true
	}
	for _, seg := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]interface{}:
			next, ok := node[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []interface{}:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return nil, false
			}
			cur = node[i]
		default:
			return nil, false
		}
	}
	return cur, true
}

// expand replaces {{NAME}} with vars[NAME]. Unknown names are left as is.
func expand(s string, vars map[string]string) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	for k, v := range vars {
		s = strings.ReplaceAll(s, "{{"+k+"}}", v)
	}
	return s
}

// DumpScenario prints a human-readable summary of the scenario to stdout.
// Useful during test development to inspect what was loaded.
func DumpScenario(s *Scenario) {
	fmt.Printf("Scenario: %s\n", s.Name)
	for i, step := range s.AllSteps() {
		fmt.Printf("  [%d] %s %s → %d\n", i, step.RequestMethod, step.RequestURL, step.ExpectedCode)
		if step.RequestFileName != "" {
			fmt.Printf("      requestFile:  %s\n", step.RequestFileName)
		}
		if step.ResponseFileName != "" {
			fmt.Printf("      responseFile: %s\n", step.ResponseFileName)
		}
		for name, path := range step.Capture {
			fmt.Printf("      capture %s ← %s\n", name, path)
		}
	}
}
