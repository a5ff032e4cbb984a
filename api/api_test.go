package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanmail/seleniumframework/check"
	"github.com/wanmail/seleniumframework/check/checktest"
	"github.com/wanmail/seleniumframework/report"
)

const userJSON = `{"id": 7, "name": "Ada", "roles": ["admin", "dev"]}`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/users/7", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, userJSON)
	})
	mux.HandleFunc("/echo", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fmt.Fprintf(w, `{"method": %q, "contentType": %q, "token": %q, "body": %s}`,
			r.Method, r.Header.Get("Content-Type"), r.Header.Get("X-Token"), body)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})
	mux.HandleFunc("/missing", http.NotFound)
	s := httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

type fixture struct {
	rec   *checktest.Recorder
	check *check.Asserter
	log   *report.Reporter
	v     *Validator
}

func newFixture(opts ...Option) *fixture {
	f := &fixture{rec: checktest.NewRecorder("TestAPI")}
	f.check = check.New(f.rec)
	f.log = report.NewReporter("TestAPI", report.New(report.Config{}))
	f.v = NewValidator(f.log, f.check, opts...)
	return f
}

func (f *fixture) details() []string {
	var out []string
	for _, e := range f.log.Test().Entries() {
		out = append(out, e.Details)
	}
	return out
}

func (f *fixture) hasEntry(status report.Status, substr string) bool {
	for _, e := range f.log.Test().Entries() {
		if e.Status == status && strings.Contains(e.Details, substr) {
			return true
		}
	}
	return false
}

func TestGetResponseLogsSteps(t *testing.T) {
	s := newServer(t)
	f := newFixture()

	resp, err := f.v.GetResponse(context.Background(), Request{
		URL:      s.URL + "/echo",
		Method:   "post",
		Headers:  map[string]string{"X-Token": "abc"},
		JSONBody: `{"q": 1}`,
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())

	equal, err := EqualJSON(`{"method": "POST", "contentType": "application/json", "token": "abc", "body": {"q": 1}}`, resp.String())
	require.NoError(t, err)
	assert.True(t, equal, "server saw %s", resp.String())

	d := f.details()
	require.Len(t, d, 5)
	assert.Contains(t, d[0], "Initialized client")
	assert.Contains(t, d[1], "Request method is POST")
	assert.Contains(t, d[2], "Added header - X-Token: 'abc'")
	assert.Contains(t, d[3], "Json body provided:")
	assert.Contains(t, d[4], "Response code - OK: '200'")
}

func TestGetResponseDefaultsToGet(t *testing.T) {
	s := newServer(t)
	f := newFixture()
	resp, err := f.v.GetResponse(context.Background(), Request{URL: s.URL + "/echo"})
	require.NoError(t, err)
	assert.Contains(t, resp.String(), `"method": "GET"`)
	assert.True(t, f.hasEntry(report.Info, "Request method is GET"))
}

func TestPreciseResponseBodyAssertion(t *testing.T) {
	s := newServer(t)

	f := newFixture()
	completed := checktest.Run(func() {
		f.v.PreciseResponseBodyAssertion(context.Background(), Request{URL: s.URL + "/users/7"},
			`{"roles": ["admin", "dev"], "name": "Ada", "id": 7.0}`)
	})
	assert.True(t, completed)
	assert.False(t, f.rec.Failed())
	assert.True(t, f.hasEntry(report.Pass, "Expected response:"))
	assert.Len(t, f.check.Passes(), 1)

	f = newFixture()
	completed = checktest.Run(func() {
		f.v.PreciseResponseBodyAssertion(context.Background(), Request{URL: s.URL + "/users/7"},
			`{"id": 7, "name": "Grace", "roles": ["admin", "dev"]}`)
	})
	assert.False(t, completed, "a mismatching body must stop the test")
	assert.True(t, f.rec.Failed())
	assert.True(t, f.hasEntry(report.Error, "Grace"))
}

func TestSuccessAssert(t *testing.T) {
	s := newServer(t)
	tests := []struct {
		desc          string
		path          string
		expected      bool
		wantCompleted bool
		wantStatus    report.Status
	}{
		{desc: "success expected", path: "/users/7", expected: true, wantCompleted: true, wantStatus: report.Pass},
		{desc: "failure expected", path: "/missing", expected: false, wantCompleted: true, wantStatus: report.Pass},
		{desc: "unexpected failure", path: "/missing", expected: true, wantStatus: report.Error},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			f := newFixture()
			completed := checktest.Run(func() {
				f.v.SuccessAssert(context.Background(), Request{URL: s.URL + tc.path}, tc.expected)
			})
			assert.Equal(t, tc.wantCompleted, completed)
			assert.True(t, f.hasEntry(tc.wantStatus, fmt.Sprintf("Expected success status - <b>%t</b>", tc.expected)),
				"entries: %q", f.details())
			assert.True(t, f.hasEntry(report.Info, "Response body:"))
		})
	}
}

func TestPartialResponseBodyAssert(t *testing.T) {
	s := newServer(t)

	f := newFixture()
	assert.True(t, checktest.Run(func() {
		f.v.PartialResponseBodyAssert(context.Background(), Request{URL: s.URL + "/users/7"}, `"name": "Ada"`)
	}))
	assert.True(t, f.hasEntry(report.Pass, "Response contains"))

	f = newFixture()
	assert.False(t, checktest.Run(func() {
		f.v.PartialResponseBodyAssert(context.Background(), Request{URL: s.URL + "/users/7"}, "Grace")
	}))
	assert.True(t, f.hasEntry(report.Error, "Response <b>DOES NOT</b> contain"))
}

func TestResponseAssert(t *testing.T) {
	s := newServer(t)

	f := newFixture()
	assert.True(t, checktest.Run(func() {
		f.v.ResponseAssert(context.Background(), Request{URL: s.URL + "/users/7"}, Expectation{
			Success:  Bool(true),
			Body:     userJSON,
			Contains: []string{"Ada", "admin"},
		})
	}))
	assert.Equal(t, []string{"response of " + s.URL + "/users/7 matches"}, f.check.Passes())

	f = newFixture()
	assert.False(t, checktest.Run(func() {
		f.v.ResponseAssert(context.Background(), Request{URL: s.URL + "/missing"}, Expectation{
			Success:  Bool(true),
			Contains: []string{"Ada"},
		})
	}))
	require.Len(t, f.rec.Errors(), 1)
	assert.Contains(t, f.rec.Errors()[0], `success status, contains "Ada"`)
}

func TestTransportErrorFailsTest(t *testing.T) {
	s := newServer(t)
	f := newFixture(WithTimeout(20 * time.Millisecond))
	assert.False(t, checktest.Run(func() {
		f.v.SuccessAssert(context.Background(), Request{URL: s.URL + "/slow"}, true)
	}))
	assert.True(t, f.rec.Failed())
	assert.True(t, f.hasEntry(report.Error, "failed"))
}

func TestWithClient(t *testing.T) {
	s := newServer(t)
	client := resty.New().SetHeader("X-Token", "from-client")
	f := newFixture(WithClient(client))
	resp, err := f.v.GetResponse(context.Background(), Request{URL: s.URL + "/echo"})
	require.NoError(t, err)
	assert.Contains(t, resp.String(), `"token": "from-client"`)
}

func TestWithClientIsNotModified(t *testing.T) {
	s := newServer(t)
	client := resty.New()
	f := newFixture(WithClient(client), WithTimeout(20*time.Millisecond))

	_, err := f.v.GetResponse(context.Background(), Request{URL: s.URL + "/slow"})
	assert.Error(t, err, "request outlived the Validator timeout")
	assert.Zero(t, client.GetClient().Timeout, "shared client timeout changed")

	resp, err := client.R().Get(s.URL + "/slow")
	require.NoError(t, err, "shared client inherited the Validator timeout")
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestWithNilClient(t *testing.T) {
	s := newServer(t)
	f := newFixture(WithClient(nil))
	resp, err := f.v.GetResponse(context.Background(), Request{URL: s.URL + "/users/7"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
}

func TestPreciseAssertionLargeIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": 9007199254740993}`)
	}))
	t.Cleanup(srv.Close)

	f := newFixture()
	assert.False(t, checktest.Run(func() {
		f.v.PreciseResponseBodyAssertion(context.Background(), Request{URL: srv.URL}, `{"id": 9007199254740992}`)
	}), "IDs differing beyond float64 precision matched")
	assert.True(t, f.rec.Failed())
}

func TestEqualJSON(t *testing.T) {
	tests := []struct {
		desc    string
		a, b    string
		want    bool
		wantErr bool
	}{
		{desc: "key order", a: `{"a": 1, "b": 2}`, b: `{"b":2,"a":1}`, want: true},
		{desc: "numbers by value", a: `[1, 2.0]`, b: `[1.0, 2]`, want: true},
		{desc: "exponent notation", a: `[1e3, 0.5]`, b: `[1000, 5E-1]`, want: true},
		{desc: "integers beyond float64 precision", a: `{"id": 9007199254740993}`, b: `{"id": 9007199254740992}`},
		{desc: "same large integers", a: `{"id": 9007199254740993}`, b: `{"id":9007199254740993}`, want: true},
		{desc: "negative zero", a: `-0`, b: `0`, want: true},
		{desc: "array order matters", a: `[1, 2]`, b: `[2, 1]`},
		{desc: "nested difference", a: `{"a": {"b": null}}`, b: `{"a": {"b": false}}`},
		{desc: "scalars", a: `"x"`, b: ` "x" `, want: true},
		{desc: "invalid", a: `{`, b: `{}`, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			got, err := EqualJSON(tc.a, tc.b)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
