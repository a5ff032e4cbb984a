package driver_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/wanmail/seleniumframework/check"
	"github.com/wanmail/seleniumframework/check/checktest"
	"github.com/wanmail/seleniumframework/driver"
	"github.com/wanmail/seleniumframework/internal/fakewd"
	"github.com/wanmail/seleniumframework/report"
)

type fixture struct {
	browser *fakewd.Browser
	rec     *checktest.Recorder
	check   *check.Asserter
	log     *report.Reporter
	d       *driver.Driver
}

func newFixture() *fixture {
	f := &fixture{
		browser: fakewd.New(),
		rec:     checktest.NewRecorder("TestCase"),
	}
	f.check = check.New(f.rec)
	f.log = report.NewReporter("TestCase", report.New(report.Config{}))
	f.d = driver.New(f.browser, f.log, f.check)
	f.d.PollInterval = time.Millisecond
	return f
}

// run calls fn like a test body would and reports whether it completed.
func (f *fixture) run(fn func(d *driver.Driver)) bool {
	return checktest.Run(func() { fn(f.d) })
}

func (f *fixture) statuses() []report.Status {
	var out []report.Status
	for _, e := range f.log.Test().Entries() {
		out = append(out, e.Status)
	}
	return out
}

// find returns the first entry with the given status.
func (f *fixture) find(t *testing.T, s report.Status) report.Entry {
	t.Helper()
	for _, e := range f.log.Test().Entries() {
		if e.Status == s {
			return e
		}
	}
	t.Fatalf("no %s entry in %v", s, f.statuses())
	return report.Entry{}
}

var (
	button = driver.ByID("submit")
	input  = driver.ByName("q")
	source = driver.ByID("draggable")
	target = driver.ByID("droppable")
)

func TestLocatorString(t *testing.T) {
	tests := []struct {
		loc  driver.Locator
		want string
	}{
		{driver.ByXPath("//a"), "By.XPath: //a"},
		{driver.ByID("login"), "By.Id: login"},
		{driver.ByCSS("div > p"), "By.CssSelector: div > p"},
		{driver.ByName("q"), "By.Name: q"},
		{driver.ByClassName("btn"), "By.ClassName: btn"},
		{driver.ByTagName("h1"), "By.TagName: h1"},
		{driver.ByLinkText("Home"), "By.LinkText: Home"},
		{driver.ByPartialLinkText("Ho"), "By.PartialLinkText: Ho"},
		{driver.Locator{By: "custom", Value: "x"}, "By.custom: x"},
	}
	for _, tc := range tests {
		if got := tc.loc.String(); got != tc.want {
			t.Errorf("%#v.String() = %q, want %q", tc.loc, got, tc.want)
		}
	}
}

func TestWaitUntil(t *testing.T) {
	calls := 0
	err := driver.Wait{Timeout: time.Second, Interval: time.Millisecond}.Until(func() (bool, error) {
		calls++
		return calls == 3, nil
	})
	if err != nil {
		t.Fatalf("Until() returned error: %v", err)
	}
	if calls != 3 {
		t.Errorf("condition called %d times, want 3", calls)
	}
}

func TestWaitTimeout(t *testing.T) {
	calls := 0
	lookup := fakewd.Err("no such element")
	err := driver.Wait{Timeout: 10 * time.Millisecond, Interval: time.Millisecond}.Until(func() (bool, error) {
		calls++
		return false, lookup
	})
	if !errors.Is(err, driver.ErrTimeout) {
		t.Fatalf("Until() = %v, want ErrTimeout", err)
	}
	if !strings.Contains(err.Error(), "no such element") {
		t.Errorf("Until() = %q, want the last condition error in it", err)
	}
	if calls < 2 {
		t.Errorf("condition called %d times, want it polled", calls)
	}
}

func TestWaitZeroTimeoutChecksOnce(t *testing.T) {
	calls := 0
	err := driver.Wait{}.Until(func() (bool, error) {
		calls++
		return false, nil
	})
	if !errors.Is(err, driver.ErrTimeout) {
		t.Errorf("Until() = %v, want ErrTimeout", err)
	}
	if calls != 1 {
		t.Errorf("condition called %d times, want 1", calls)
	}
}

func TestGet(t *testing.T) {
	f := newFixture()
	if !f.run(func(d *driver.Driver) { d.Get("https://example.com/") }) {
		t.Fatal("Get() stopped the test")
	}
	if f.browser.URL != "https://example.com/" {
		t.Errorf("browser URL = %q, want %q", f.browser.URL, "https://example.com/")
	}
	e := f.find(t, report.Debug)
	if !strings.Contains(e.Details, "Navigated to <a href='https://example.com/'>") {
		t.Errorf("Get() logged %q, want a link to the page", e.Details)
	}
}

func TestGetFailureStopsTest(t *testing.T) {
	f := newFixture()
	f.browser.GetErr = errors.New("connection refused")
	if f.run(func(d *driver.Driver) { d.Get("https://example.com/") }) {
		t.Fatal("Get() of an unreachable page did not stop the test")
	}
	if !f.rec.Failed() {
		t.Error("test not marked failed")
	}
	if e := f.find(t, report.Error); e.Media == nil {
		t.Error("Get() failure logged without a screenshot")
	}
}

func TestClick(t *testing.T) {
	f := newFixture()
	f.browser.Add(button, fakewd.NewElement("submit"))
	if !f.run(func(d *driver.Driver) { d.Click(button, time.Second, false) }) {
		t.Fatal("Click() stopped the test")
	}
	if diff := cmp.Diff([]string{"click submit"}, f.browser.Events()); diff != "" {
		t.Errorf("Click() events diff (-want/+got):\n%s", diff)
	}
}

func TestStrictStepsAreConclusive(t *testing.T) {
	f := newFixture()
	f.check.Strict = true
	f.browser.Add(button, fakewd.NewElement("submit"))
	f.browser.Add(input, fakewd.NewElement("q"))

	if f.check.Outcome() != check.Inconclusive {
		t.Fatalf("Outcome() before any step = %s, want %s", f.check.Outcome(), check.Inconclusive)
	}
	f.run(func(d *driver.Driver) {
		d.Get("https://example.com/")
		d.Click(button, time.Second, false)
		d.SendKeys(input, "selenium", false, true)
	})
	if got := f.check.Steps(); got != 3 {
		t.Errorf("Steps() = %d, want 3", got)
	}
	if got := f.check.Outcome(); got != check.Passed {
		t.Errorf("Outcome() = %s, want %s", got, check.Passed)
	}
}

func TestFailedStepIsNotCounted(t *testing.T) {
	f := newFixture()
	f.check.Strict = true
	f.run(func(d *driver.Driver) { d.SendKeys(input, "selenium", true, false) })
	if got := f.check.Steps(); got != 0 {
		t.Errorf("Steps() = %d, want 0", got)
	}
	if got := f.check.Outcome(); got != check.Warning {
		t.Errorf("Outcome() = %s, want %s", got, check.Warning)
	}
}

func TestClickFailures(t *testing.T) {
	tests := []struct {
		desc    string
		el      func() *fakewd.Element
		soft    bool
		wantLog string
	}{
		{
			desc: "intercepted soft",
			el: func() *fakewd.Element {
				e := fakewd.NewElement("submit")
				e.ClickErr = fakewd.Err("element click intercepted")
				return e
			},
			soft:    true,
			wantLog: "Element click is intercepted",
		},
		{
			desc: "intercepted hard",
			el: func() *fakewd.Element {
				e := fakewd.NewElement("submit")
				e.ClickErr = fakewd.Err("element click intercepted")
				return e
			},
			wantLog: "Element click is intercepted",
		},
		{
			desc: "disabled soft",
			el: func() *fakewd.Element {
				e := fakewd.NewElement("submit")
				e.Enabled = false
				return e
			},
			soft:    true,
			wantLog: "Element is not interactable after",
		},
		{
			desc: "hidden hard",
			el: func() *fakewd.Element {
				e := fakewd.NewElement("submit")
				e.Displayed = false
				return e
			},
			wantLog: "Element is not interactable after",
		},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			f := newFixture()
			f.browser.Add(button, tc.el())
			completed := f.run(func(d *driver.Driver) { d.Click(button, 20*time.Millisecond, tc.soft) })

			if completed != tc.soft {
				t.Errorf("Click() completed = %t, want %t", completed, tc.soft)
			}
			status := report.Error
			if tc.soft {
				status = report.Warning
				if len(f.check.Warnings()) != 1 {
					t.Errorf("Click() recorded warnings %q, want one", f.check.Warnings())
				}
			}
			if e := f.find(t, status); !strings.Contains(e.Details, tc.wantLog) {
				t.Errorf("Click() logged %q, want it to contain %q", e.Details, tc.wantLog)
			}
			if got := f.rec.Failed(); got == tc.soft {
				t.Errorf("test failed = %t, want %t", got, !tc.soft)
			}
		})
	}
}

func TestElementIsInteractable(t *testing.T) {
	f := newFixture()
	el := f.browser.Add(button, fakewd.NewElement("submit"))
	el.ShowAfter = 3

	if !f.d.ElementIsInteractable(button, time.Second) {
		t.Error("ElementIsInteractable() = false for an element shown after a few polls")
	}
	if f.d.ElementIsInteractable(driver.ByID("missing"), 5*time.Millisecond) {
		t.Error("ElementIsInteractable() = true for a missing element")
	}
}

func TestAssertElementIsInteractable(t *testing.T) {
	f := newFixture()
	f.browser.Add(button, fakewd.NewElement("submit"))
	f.run(func(d *driver.Driver) { d.AssertElementIsInteractable(button, time.Second, false) })
	if e := f.find(t, report.Info); e.Details != "<font color = '#026592'>Element <code>By.Id: submit</code> is interactable</font>" {
		t.Errorf("AssertElementIsInteractable() logged %q", e.Details)
	}

	f = newFixture()
	if !f.run(func(d *driver.Driver) { d.AssertElementIsInteractable(button, 5*time.Millisecond, true) }) {
		t.Fatal("soft AssertElementIsInteractable() stopped the test")
	}
	e := f.find(t, report.Warning)
	for _, want := range []string{"not interactable after", "timeOutSeconds"} {
		if !strings.Contains(e.Details, want) {
			t.Errorf("AssertElementIsInteractable() logged %q, want it to contain %q", e.Details, want)
		}
	}
}

func TestSendKeys(t *testing.T) {
	tests := []struct {
		desc       string
		err        error
		missing    bool
		soft       bool
		wantStatus report.Status
		wantLog    string
		wantCheck  string
	}{
		{desc: "typed", wantStatus: report.Debug, wantLog: "Text entered to element"},
		{
			desc: "not interactable soft", err: fakewd.Err("element not interactable"), soft: true,
			wantStatus: report.Warning, wantLog: "Element is not interactable", wantCheck: "Couldn't interact with By.Name: q",
		},
		{
			desc: "not interactable hard", err: fakewd.Err("element not interactable"),
			wantStatus: report.Error, wantLog: "Element is not interactable", wantCheck: "Couldn't interact with By.Name: q",
		},
		{
			desc: "stale soft", err: fakewd.Err("stale element reference"), soft: true,
			wantStatus: report.Warning, wantLog: "Element is stale. Unable to send text", wantCheck: `Element "By.Name: q" is stale. Unable to send text`,
		},
		{
			desc: "missing hard", missing: true,
			wantStatus: report.Error, wantLog: "No element found", wantCheck: `Element "By.Name: q" not found`,
		},
		{
			desc: "other error soft", err: errors.New("session deleted"), soft: true,
			wantStatus: report.Warning, wantLog: "Stack trace:", wantCheck: "session deleted",
		},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			f := newFixture()
			el := fakewd.NewElement("q")
			el.Value = "old"
			el.SendKeysErr = tc.err
			if !tc.missing {
				f.browser.Add(input, el)
			}

			f.run(func(d *driver.Driver) { d.SendKeys(input, "golang", tc.soft, true) })

			e := f.find(t, tc.wantStatus)
			if !strings.Contains(e.Details, tc.wantLog) {
				t.Errorf("SendKeys() logged %q, want it to contain %q", e.Details, tc.wantLog)
			}
			if tc.wantStatus == report.Error && e.Media == nil {
				t.Error("hard SendKeys() failure logged without a screenshot")
			}

			var got []string
			if tc.soft {
				got = f.check.Warnings()
			} else {
				got = f.rec.Errors()
			}
			if tc.wantCheck == "" {
				if el.Value != "golang" {
					t.Errorf("element value = %q, want %q", el.Value, "golang")
				}
				return
			}
			if diff := cmp.Diff([]string{tc.wantCheck}, got); diff != "" {
				t.Errorf("SendKeys() assertion messages diff (-want/+got):\n%s", diff)
			}
		})
	}
}

func TestSendKeysWithoutClear(t *testing.T) {
	f := newFixture()
	el := f.browser.Add(input, fakewd.NewElement("q"))
	el.Value = "go"
	f.run(func(d *driver.Driver) { d.SendKeys(input, "lang", true, false) })
	if el.Value != "golang" {
		t.Errorf("element value = %q, want %q", el.Value, "golang")
	}
}

func TestAssertElementIsVisible(t *testing.T) {
	tests := []struct {
		desc          string
		present       bool
		displayed     bool
		expected      bool
		soft          bool
		wantStatus    report.Status
		wantLog       string
		wantCompleted bool
	}{
		{
			desc: "visible and expected", present: true, displayed: true, expected: true,
			wantStatus: report.Pass, wantLog: "Element <b>IS</b> visible and <b>SHOULD</b> be visible", wantCompleted: true,
		},
		{
			desc: "hidden and not expected", present: true, expected: false,
			wantStatus: report.Pass, wantLog: "Element <b>IS NOT</b> visible and <b>SHOULD NOT</b> be visible", wantCompleted: true,
		},
		{
			desc: "missing and not expected", expected: false,
			wantStatus: report.Pass, wantLog: "Element <b>IS NOT</b> visible and <b>SHOULD NOT</b> be visible", wantCompleted: true,
		},
		{
			desc: "visible but not expected soft", present: true, displayed: true, expected: false, soft: true,
			wantStatus: report.Warning, wantLog: "Element <b>IS</b> visible and <b>SHOULD NOT</b> be visible", wantCompleted: true,
		},
		{
			desc: "hidden but expected hard", present: true, expected: true,
			wantStatus: report.Error, wantLog: "Element <b>IS NOT</b> visible and <b>SHOULD</b> be visible",
		},
	}
	for _, tc := range tests {
		t.Run(tc.desc, func(t *testing.T) {
			f := newFixture()
			if tc.present {
				el := fakewd.NewElement("banner")
				el.Displayed = tc.displayed
				f.browser.Add(button, el)
			}
			completed := f.run(func(d *driver.Driver) { d.AssertElementIsVisible(button, tc.expected, tc.soft) })
			if completed != tc.wantCompleted {
				t.Errorf("AssertElementIsVisible() completed = %t, want %t", completed, tc.wantCompleted)
			}
			if e := f.find(t, tc.wantStatus); !strings.Contains(e.Details, tc.wantLog) {
				t.Errorf("AssertElementIsVisible() logged %q, want it to contain %q", e.Details, tc.wantLog)
			}
		})
	}
}

func TestAssertElementIsPresent(t *testing.T) {
	f := newFixture()
	f.browser.Add(button, fakewd.NewElement("submit"))
	f.run(func(d *driver.Driver) {
		d.AssertElementIsPresent(button, true, false)
		d.AssertElementIsPresent(driver.ByID("gone"), false, false)
		d.AssertElementIsPresent(driver.ByID("gone"), true, true)
	})

	want := []string{
		"Element IS present and SHOULD be present",
		"Element IS NOT present and SHOULD NOT be present",
	}
	if diff := cmp.Diff(want, f.check.Passes()); diff != "" {
		t.Errorf("passes diff (-want/+got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Element IS NOT present and SHOULD be present"}, f.check.Warnings()); diff != "" {
		t.Errorf("warnings diff (-want/+got):\n%s", diff)
	}
	if got := f.check.Outcome(); got != check.Warning {
		t.Errorf("Outcome() = %v, want %v", got, check.Warning)
	}
}

func TestAssertPageContains(t *testing.T) {
	f := newFixture()
	f.browser.Source = `<html><body><h1>Welcome</h1><p class="msg">Logged in as <b>admin</b></p></body></html>`
	f.run(func(d *driver.Driver) {
		d.AssertPageContains("p.msg", "as admin", true, true)
		d.AssertPageContains("", "Welcome", true, true)
		d.AssertPageContains("h1", "admin", false, true)
		d.AssertPageContains("h1", "Goodbye", true, true)
	})
	if got := len(f.check.Passes()); got != 3 {
		t.Errorf("AssertPageContains() recorded %d passes, want 3", got)
	}
	if diff := cmp.Diff([]string{"Text IS NOT present and SHOULD be present"}, f.check.Warnings()); diff != "" {
		t.Errorf("warnings diff (-want/+got):\n%s", diff)
	}
}

func TestDragAndDrop(t *testing.T) {
	f := newFixture()
	f.browser.Add(source, fakewd.NewElement("draggable"))
	f.browser.Add(target, fakewd.NewElement("droppable"))

	f.run(func(d *driver.Driver) { d.DragAndDrop(source, target, false) })

	want := []string{
		"pointerMove draggable 0,0",
		"pointerDown 0",
		"pointerMove droppable 0,0",
		"pointerUp 0",
	}
	if diff := cmp.Diff(want, f.browser.Events()); diff != "" {
		t.Errorf("DragAndDrop() events diff (-want/+got):\n%s", diff)
	}
	if e := f.find(t, report.Pass); !strings.Contains(e.Details, "Successfully Drag and Dropped") {
		t.Errorf("DragAndDrop() logged %q", e.Details)
	}
}

func TestDragAndDropFailure(t *testing.T) {
	f := newFixture()
	f.browser.Add(source, fakewd.NewElement("draggable"))
	f.browser.Add(target, fakewd.NewElement("droppable"))
	f.browser.ActionsErr = fakewd.Err("move target out of bounds")

	if f.run(func(d *driver.Driver) { d.DragAndDrop(source, target, false) }) {
		t.Fatal("hard DragAndDrop() failure did not stop the test")
	}
	e := f.find(t, report.Error)
	if !strings.Contains(e.Details, "Couldn't Drag and Drop") || e.Media == nil {
		t.Errorf("DragAndDrop() logged %+v, want an error with a screenshot", e)
	}
	want := []string{"Couldn't Drag and Drop from By.Id: draggable to By.Id: droppable"}
	if diff := cmp.Diff(want, f.rec.Errors()); diff != "" {
		t.Errorf("errors diff (-want/+got):\n%s", diff)
	}
}

func TestCaptureScreenshot(t *testing.T) {
	f := newFixture()
	m := f.d.CaptureScreenshot("")
	if m == nil {
		t.Fatal("CaptureScreenshot() = nil")
	}
	if m.Base64 != "cG5n" {
		t.Errorf("CaptureScreenshot().Base64 = %q, want %q", m.Base64, "cG5n")
	}
	if !strings.HasPrefix(m.Title, "Screenshot_") || !strings.HasSuffix(m.Title, ".png") {
		t.Errorf("CaptureScreenshot().Title = %q, want Screenshot_<time>.png", m.Title)
	}
	if e := f.find(t, report.Info); !strings.Contains(e.Details, "Screenshot has been taken") {
		t.Errorf("CaptureScreenshot() logged %q", e.Details)
	}

	if m := f.d.CaptureScreenshot("home.png"); m == nil || m.Title != "home.png" {
		t.Errorf("CaptureScreenshot(%q) = %+v, want that title", "home.png", m)
	}

	f.browser.ScreenshotErr = errors.New("no display")
	if m := f.d.CaptureScreenshot(""); m != nil {
		t.Errorf("CaptureScreenshot() with a failing browser = %+v, want nil", m)
	}
}

func TestCloseOtherWindows(t *testing.T) {
	f := newFixture()
	f.browser.Windows = []string{"main", "popup", "ad"}
	f.browser.Current = "popup"

	if err := f.d.CloseOtherWindows("main"); err != nil {
		t.Fatalf("CloseOtherWindows() returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"main"}, f.browser.Windows); diff != "" {
		t.Errorf("windows diff (-want/+got):\n%s", diff)
	}
	if f.browser.Current != "main" {
		t.Errorf("current window = %q, want %q", f.browser.Current, "main")
	}
}

func TestCloseOtherWindowsDefaultsToCurrent(t *testing.T) {
	f := newFixture()
	f.browser.Windows = []string{"main", "popup"}
	f.browser.Current = "popup"

	if err := f.d.CloseOtherWindows(""); err != nil {
		t.Fatalf("CloseOtherWindows() returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"popup"}, f.browser.Windows); diff != "" {
		t.Errorf("windows diff (-want/+got):\n%s", diff)
	}
}

func TestJavaScriptHelpers(t *testing.T) {
	f := newFixture()
	el := f.browser.Add(button, fakewd.NewElement("submit"))

	if err := f.d.JavaScriptSetAttribute(button, "value", "it's"); err != nil {
		t.Fatalf("JavaScriptSetAttribute() returned error: %v", err)
	}
	if err := f.d.JavaScriptChangeInnerHTML(button, "<b>Go</b>"); err != nil {
		t.Fatalf("JavaScriptChangeInnerHTML() returned error: %v", err)
	}
	if err := f.d.ScrollElementIntoView(button); err != nil {
		t.Fatalf("ScrollElementIntoView() returned error: %v", err)
	}
	if err := f.d.ScrollElementIntoView(driver.ByID("missing")); err == nil {
		t.Error("ScrollElementIntoView() of a missing element returned nil error")
	}

	scripts := f.browser.Scripts()
	if len(scripts) != 3 {
		t.Fatalf("%d scripts executed, want 3", len(scripts))
	}
	if diff := cmp.Diff([]interface{}{el, "value", "it's"}, scripts[0].Args, cmp.Comparer(func(a, b *fakewd.Element) bool { return a == b })); diff != "" {
		t.Errorf("JavaScriptSetAttribute() args diff (-want/+got):\n%s", diff)
	}
	if got := scripts[1].Args[1]; got != "<b>Go</b>" {
		t.Errorf("JavaScriptChangeInnerHTML() passed %v, want the HTML as an argument", got)
	}
	if !strings.Contains(scripts[2].Script, "scrollBy") {
		t.Errorf("ScrollElementIntoView() ran %q", scripts[2].Script)
	}
}

func TestSubmit(t *testing.T) {
	f := newFixture()
	f.browser.Add(button, fakewd.NewElement("form"))
	if err := f.d.Submit(button, true); err != nil {
		t.Fatalf("Submit() returned error: %v", err)
	}
	if diff := cmp.Diff([]string{"submit form"}, f.browser.Events()); diff != "" {
		t.Errorf("Submit() events diff (-want/+got):\n%s", diff)
	}
	if e := f.find(t, report.Debug); !strings.Contains(e.Details, "Submitted element By.Id: submit") {
		t.Errorf("Submit() logged %q", e.Details)
	}
	if err := f.d.Submit(driver.ByID("missing"), false); err == nil {
		t.Error("Submit() of a missing element returned nil error")
	}
}

func TestQuit(t *testing.T) {
	f := newFixture()
	if err := f.d.Quit(); err != nil {
		t.Fatalf("Quit() returned error: %v", err)
	}
	if !f.browser.Quitted() {
		t.Error("browser not quit")
	}
	if e := f.find(t, report.Info); !strings.Contains(e.Details, "Driver quit") {
		t.Errorf("Quit() logged %q", e.Details)
	}
}

func TestBrowserVersion(t *testing.T) {
	f := newFixture()
	v, err := f.d.BrowserVersion()
	if err != nil {
		t.Fatalf("BrowserVersion() returned error: %v", err)
	}
	if v.Major != 120 || v.Minor != 0 || v.Patch != 6099 {
		t.Errorf("BrowserVersion() = %v, want 120.0.6099", v)
	}

	f.browser.Caps = map[string]interface{}{"version": "68.0"}
	if v, err := f.d.BrowserVersion(); err != nil || v.Major != 68 {
		t.Errorf("BrowserVersion() = %v, %v; want 68.0.0", v, err)
	}

	f.browser.Caps = map[string]interface{}{}
	if _, err := f.d.BrowserVersion(); err == nil {
		t.Error("BrowserVersion() without a version returned nil error")
	}
}

func TestWaitDefaultTimeout(t *testing.T) {
	f := newFixture()
	if got := f.d.Wait(0).Timeout; got != driver.DefaultTimeout {
		t.Errorf("Wait(0).Timeout = %v, want %v", got, driver.DefaultTimeout)
	}
	if got := f.d.Wait(time.Second).Interval; got != time.Millisecond {
		t.Errorf("Wait().Interval = %v, want the driver's poll interval", got)
	}
}
