// Package testkit provides a JSON-scenario-driven REST API testing framework.
//
// Each scenario is a JSON file that describes one or more HTTP exchanges:
//   - The request to fire (method, URL, inline body or body file, headers)
//   - The expected status code
//   - The expected response body (inline or file), compared exactly or as a
//     subset when partialMatch is set
//   - Values to capture from the response for later steps
//
// Strings may reference variables as {{NAME}}. Variables come from
// WithVars and from earlier steps' captures.
//
// Scenario files live next to your *_test.go files:
//
//	testdata/
//	  create_product.json        ← scenario
//	  create_product_req.json    ← request body
//	  create_product_res.json    ← expected response body
//
// Example _test.go:
//
//	func TestAPI(t *testing.T) {
//	    handler := kernel.NewHTTPKernel(deps).Handler()
//	    testkit.RunDir(t, handler, "testdata", testkit.WithVars(vars))
//	}
package testkit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Scenario describes a REST API test case loaded from a JSON file.
type Scenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	// A scenario is either a single exchange described inline by the
	// embedded Step, or an ordered list of Steps.
	Step
	Steps []Step `json:"steps"`

	// resolved at load time, not in JSON
	dir string
}

// Step is one request/response exchange.
type Step struct {
	RequestMethod   string            `json:"requestMethod"` // GET, POST, PUT, PATCH, DELETE
	RequestURL      string            `json:"requestUrl"`    // e.g. /api/products/getAll
	RequestBody     json.RawMessage   `json:"requestBody"`   // inline request body
	RequestFileName string            `json:"requestFileName"`
	RawBody         *string           `json:"rawBody"` // sent verbatim, for malformed-body cases
	Headers         map[string]string `json:"headers"`

	ExpectedCode     int             `json:"expectedCode"`
	ResponseBody     json.RawMessage `json:"responseBody"`
	ResponseFileName string          `json:"responseFileName"`

	// PartialMatch compares the expected body as a subset of the actual one.
	// The string "<any>" then matches any present value.
	PartialMatch bool `json:"partialMatch"`

	// Capture maps a variable name to a dotted path into the response body,
	// e.g. {"PRODUCT_ID": "data.0._id"}.
	Capture map[string]string `json:"capture"`
}

// LoadScenario reads and validates a scenario from a JSON file.
func LoadScenario(path string) (*Scenario, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("testkit: resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("testkit: read %q: %w", abs, err)
	}

	var s Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("testkit: parse %q: %w", abs, err)
	}

	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("testkit: invalid scenario %q: %w", abs, err)
	}

	s.dir = filepath.Dir(abs)
	return &s, nil
}

// AllSteps returns the exchanges in execution order.
func (s *Scenario) AllSteps() []Step {
	if len(s.Steps) > 0 {
		return s.Steps
	}
	return []Step{s.Step}
}

// validate performs basic sanity checks on the loaded scenario.
func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) > 0 && s.Step.RequestURL != "" {
		return fmt.Errorf("use either requestUrl or steps, not both")
	}

	for i, st := range s.AllSteps() {
		if st.RequestURL == "" {
			return fmt.Errorf("step %d: requestUrl is required", i)
		}
		if st.ExpectedCode == 0 {
			return fmt.Errorf("step %d: expectedCode is required", i)
		}
		if len(st.RequestBody) > 0 && st.RequestFileName != "" {
			return fmt.Errorf("step %d: use either requestBody or requestFileName", i)
		}
		if len(st.ResponseBody) > 0 && st.ResponseFileName != "" {
			return fmt.Errorf("step %d: use either responseBody or responseFileName", i)
		}
	}
	return nil
}

// resolve returns p relative to the scenario file's directory.
func (s *Scenario) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.dir, p)
}

// LoadAllFromDir loads every *.json scenario in dir, sorted by file name.
// Body files (*_req.json, *_res.json) are skipped. Files that fail to parse
// are collected as errors, not panicked.
func LoadAllFromDir(dir string) ([]*Scenario, []error) {
	entries, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(entries) == 0 {
		return nil, []error{fmt.Errorf("testkit: no scenario files found in %q", dir)}
	}
	sort.Strings(entries)

	var (
		scenarios []*Scenario
		errs      []error
	)
	for _, path := range entries {
		if isBodyFile(path) {
			continue
		}
		s, err := LoadScenario(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, errs
}

func isBodyFile(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range []string{"_req.json", "_res.json"} {
		if len(base) > len(suffix) && base[len(base)-len(suffix):] == suffix {
			return true
		}
	}
	return false
}
