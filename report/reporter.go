package report

import (
	"html"

	"github.com/wanmail/seleniumframework/check"
)

// Reporter writes highlighted entries to one test of a report.
type Reporter struct {
	test *Test
}

// NewReporter creates a test with the given name in r and returns a Reporter
// for it.
func NewReporter(name string, r *Report) *Reporter {
	return &Reporter{test: r.CreateTest(name)}
}

// Test returns the underlying test.
func (r *Reporter) Test() *Test {
	return r.test
}

// Pass logs text in green.
func (r *Reporter) Pass(text string, media ...*Media) {
	r.test.Log(Pass, "<font color = 'green'>"+text+"</font>", first(media))
}

// Debug logs text in gray.
func (r *Reporter) Debug(text string, media ...*Media) {
	r.test.Log(Debug, "<font color = 'gray'>"+text+"</font>", first(media))
}

// Info logs text in a shade of blue.
func (r *Reporter) Info(text string, media ...*Media) {
	r.test.Log(Info, "<font color = '#026592'>"+text+"</font>", first(media))
}

// Warning logs text in yellow.
func (r *Reporter) Warning(text string, media ...*Media) {
	r.test.Log(Warning, "<font color = 'yellow'>"+text+"</font>", first(media))
}

// Error logs text in red.
func (r *Reporter) Error(text string, media ...*Media) {
	r.test.Log(Error, "<font color = 'red'>"+text+"</font>", first(media))
}

// Fatal logs text in bold italic dark red.
func (r *Reporter) Fatal(text string, media ...*Media) {
	r.test.Log(Fatal, "<b><i><font color = '#8b0000'>"+text+"</font></i></b>", first(media))
}

// BySeverity logs text with the highlighting of the given status. Statuses
// without a highlighting of their own are logged as Info.
func (r *Reporter) BySeverity(text string, severity Status, media ...*Media) {
	switch severity {
	case Pass:
		r.Pass(text, media...)
	case Debug:
		r.Debug(text, media...)
	case Warning:
		r.Warning(text, media...)
	case Error:
		r.Error(text, media...)
	case Fatal:
		r.Fatal(text, media...)
	default:
		r.Info(text, media...)
	}
}

// Finish logs the final status of the test from its outcome. Failed tests
// get an additional "Test error" entry carrying message and media.
func (r *Reporter) Finish(outcome check.Outcome, message string, media *Media) {
	var status Status
	switch outcome {
	case check.Passed:
		status = Pass
	case check.Warning, check.Inconclusive:
		status = Warning
	case check.Skipped:
		status = Skip
	default:
		status = Fail
		r.test.Log(status, "Test error "+preIfSet(message), media)
	}
	r.test.Log(status, "Test ended with "+status.String(), nil)
}

func preIfSet(s string) string {
	if s == "" {
		return ""
	}
	return "<pre>" + html.EscapeString(s) + "</pre>"
}

func first(media []*Media) *Media {
	if len(media) == 0 {
		return nil
	}
	return media[0]
}
