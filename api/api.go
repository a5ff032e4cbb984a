// Package api sends HTTP requests on behalf of a test and asserts on the
// responses, logging every step to the test's report.
package api

import (
	"context"
	stdjson "encoding/json"
	"fmt"
	"html"
	"math/big"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang/glog"
	"github.com/google/go-cmp/cmp"
	jsoniter "github.com/json-iterator/go"

	"github.com/wanmail/seleniumframework/check"
	"github.com/wanmail/seleniumframework/report"
)

// Request describes a call to an API.
type Request struct {
	URL string
	// Method defaults to GET.
	Method  string
	Headers map[string]string
	// JSONBody is sent as is with Content-Type application/json when not
	// empty.
	JSONBody string
}

func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return strings.ToUpper(r.Method)
}

// Validator runs requests and asserts on their responses. All assertions
// are hard: a mismatch fails the test.
type Validator struct {
	log     *report.Reporter
	check   *check.Asserter
	client  *resty.Client
	timeout time.Duration
}

// Option configures a Validator.
type Option func(*Validator)

// WithClient makes the Validator send requests with c. A nil c is ignored.
// The client is shared, not modified: WithTimeout applies to the requests of
// the Validator only.
func WithClient(c *resty.Client) Option {
	return func(v *Validator) {
		if c != nil {
			v.client = c
		}
	}
}

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(v *Validator) {
		v.timeout = d
	}
}

// NewValidator returns a Validator logging to log and asserting through c.
func NewValidator(log *report.Reporter, c *check.Asserter, opts ...Option) *Validator {
	v := &Validator{log: log, check: c, client: resty.New()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// GetResponse sends req and returns the response. Each step of building the
// request is logged.
func (v *Validator) GetResponse(ctx context.Context, req Request) (*resty.Response, error) {
	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}
	r := v.client.R().SetContext(ctx)
	v.log.Info("Initialized client")
	method := req.method()
	v.log.Info("Request method is " + method)

	keys := make([]string, 0, len(req.Headers))
	for k := range req.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		r.SetHeader(k, req.Headers[k])
		v.log.Info(fmt.Sprintf("Added header - %s: '%s'", html.EscapeString(k), html.EscapeString(req.Headers[k])))
	}

	if req.JSONBody != "" {
		r.SetHeader("Content-Type", "application/json")
		r.SetBody(req.JSONBody)
		v.log.Info("Json body provided:<br/>" + report.CodeBlock(req.JSONBody))
	}

	resp, err := r.Execute(method, req.URL)
	if err != nil {
		glog.Warningf("%s %s: %v", method, req.URL, err)
		v.log.Error(fmt.Sprintf("Request to %s failed", report.Link(req.URL)) + report.CodeBlock(err.Error()))
		return nil, err
	}
	code := resp.StatusCode()
	v.log.Info(fmt.Sprintf("Response code - %s: '%d'", http.StatusText(code), code))
	v.check.Step()
	return resp, nil
}

// send is GetResponse failing the test on transport errors.
func (v *Validator) send(ctx context.Context, req Request) *resty.Response {
	resp, err := v.GetResponse(ctx, req)
	if err != nil {
		v.check.Fail("%s %s: %v", req.method(), req.URL, err)
		return nil
	}
	return resp
}

// PreciseResponseBodyAssertion checks that the response body is the same
// JSON document as expectedJSON.
func (v *Validator) PreciseResponseBodyAssertion(ctx context.Context, req Request, expectedJSON string) {
	resp := v.send(ctx, req)
	if resp == nil {
		return
	}
	if v.bodyMatches(resp, expectedJSON) {
		v.check.Pass("response body of %s matches", req.URL)
		return
	}
	v.check.Fail("response body of %s does not match the expected JSON", req.URL)
}

func (v *Validator) bodyMatches(resp *resty.Response, expectedJSON string) bool {
	actual := resp.String()
	details := "Expected response:" + report.CodeBlock(expectedJSON) +
		"Actual response: " + report.CodeBlock(actual)

	equal, err := EqualJSON(expectedJSON, actual)
	if err != nil {
		v.log.Error(details + "Invalid JSON:" + report.CodeBlock(err.Error()))
		return false
	}
	if !equal {
		v.log.Error(details + "Difference (-expected/+actual):" + report.CodeBlock(jsonDiff(expectedJSON, actual)))
		return false
	}
	v.log.Pass(details + "<br/>")
	return true
}

// SuccessAssert checks whether the response status is 2xx against
// expectedSuccess.
func (v *Validator) SuccessAssert(ctx context.Context, req Request, expectedSuccess bool) {
	resp := v.send(ctx, req)
	if resp == nil {
		return
	}
	if v.successMatches(resp, expectedSuccess) {
		v.check.Pass("success status of %s is %t", req.URL, expectedSuccess)
		return
	}
	v.check.Fail("success status of %s is %t, want %t", req.URL, resp.IsSuccess(), expectedSuccess)
}

func (v *Validator) successMatches(resp *resty.Response, expected bool) bool {
	details := fmt.Sprintf("Expected success status - <b>%t</b><br/>Actual success status - <b>%t</b><br/>",
		expected, resp.IsSuccess())
	ok := resp.IsSuccess() == expected
	if ok {
		v.log.Pass(details)
	} else {
		v.log.Error(details)
	}
	v.log.Info("Response body:" + report.CodeBlock(resp.String()))
	return ok
}

// PartialResponseBodyAssert checks that the response body contains
// expected.
func (v *Validator) PartialResponseBodyAssert(ctx context.Context, req Request, expected string) {
	resp := v.send(ctx, req)
	if resp == nil {
		return
	}
	if v.bodyContains(resp, expected) {
		v.check.Pass("response of %s contains %q", req.URL, expected)
		return
	}
	v.check.Fail("response of %s does not contain %q", req.URL, expected)
}

func (v *Validator) bodyContains(resp *resty.Response, expected string) bool {
	body := resp.String()
	if strings.Contains(body, expected) {
		v.log.Pass("Response: " + report.CodeBlock(body) + "<br/>Response contains " + report.CodeBlock(expected))
		return true
	}
	v.log.Error("Response: " + report.CodeBlock(body) + "<br/>Response <b>DOES NOT</b> contain " + report.CodeBlock(expected))
	return false
}

// Expectation lists what ResponseAssert checks. Unset fields are not
// checked.
type Expectation struct {
	// Success is whether the status should be 2xx.
	Success *bool
	// Body is the exact JSON document expected.
	Body string
	// Contains are substrings the body must contain.
	Contains []string
}

// Bool returns a pointer to b, for Expectation.Success.
func Bool(b bool) *bool {
	return &b
}

// ResponseAssert sends req once and checks every part of want, failing the
// test after all of them were logged when any did not hold.
func (v *Validator) ResponseAssert(ctx context.Context, req Request, want Expectation) {
	resp := v.send(ctx, req)
	if resp == nil {
		return
	}
	var failed []string
	if want.Success != nil && !v.successMatches(resp, *want.Success) {
		failed = append(failed, "success status")
	}
	if want.Body != "" && !v.bodyMatches(resp, want.Body) {
		failed = append(failed, "body")
	}
	for _, s := range want.Contains {
		if !v.bodyContains(resp, s) {
			failed = append(failed, fmt.Sprintf("contains %q", s))
		}
	}
	if len(failed) > 0 {
		v.check.Fail("response of %s does not match: %s", req.URL, strings.Join(failed, ", "))
		return
	}
	v.check.Pass("response of %s matches", req.URL)
}

// documentJSON decodes numbers as json.Number so that no precision is lost.
var documentJSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	UseNumber:              true,
}.Froze()

// sameNumber compares integers exactly and other numbers as float64, so
// that 2 and 2.0 are equal but 2^53 and 2^53+1 are not.
var sameNumber = cmp.Comparer(func(x, y stdjson.Number) bool {
	if x == y {
		return true
	}
	var ix, iy big.Int
	_, xInt := ix.SetString(string(x), 10)
	_, yInt := iy.SetString(string(y), 10)
	if xInt && yInt {
		return ix.Cmp(&iy) == 0
	}
	fx, errX := strconv.ParseFloat(string(x), 64)
	fy, errY := strconv.ParseFloat(string(y), 64)
	return errX == nil && errY == nil && fx == fy
})

// EqualJSON reports whether a and b hold the same JSON value. Object key
// order and whitespace do not matter and numbers compare by value.
func EqualJSON(a, b string) (bool, error) {
	var va, vb interface{}
	if err := documentJSON.UnmarshalFromString(a, &va); err != nil {
		return false, fmt.Errorf("error parsing %q: %w", a, err)
	}
	if err := documentJSON.UnmarshalFromString(b, &vb); err != nil {
		return false, fmt.Errorf("error parsing %q: %w", b, err)
	}
	return cmp.Equal(va, vb, sameNumber), nil
}

func jsonDiff(a, b string) string {
	var va, vb interface{}
	documentJSON.UnmarshalFromString(a, &va)
	documentJSON.UnmarshalFromString(b, &vb)
	return cmp.Diff(va, vb, sameNumber)
}
