// Package driver wraps a WebDriver session with reporting and soft/hard
// assertions. Every interaction logs to the test's report; failures either
// abort the test (hard) or record a warning and continue (soft).
package driver

import (
	"encoding/base64"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/golang/glog"

	"github.com/wanmail/seleniumframework/check"
	"github.com/wanmail/seleniumframework/report"
)

// DefaultTimeout is used by Wait when no positive timeout is given.
const DefaultTimeout = 10 * time.Second

const scrollIntoMiddle = "var viewPortHeight = Math.max(document.documentElement.clientHeight, window.innerHeight || 0);" +
	"var elementTop = arguments[0].getBoundingClientRect().top;" +
	"window.scrollBy(0, elementTop-(viewPortHeight/2));"

// Driver is a browser session bound to one test's report and asserter.
type Driver struct {
	browser Browser
	log     *report.Reporter
	check   *check.Asserter

	// PollInterval is how often waits re-check the page.
	PollInterval time.Duration

	now func() time.Time
}

// New returns a Driver that drives b and records to log and c.
func New(b Browser, log *report.Reporter, c *check.Asserter) *Driver {
	return &Driver{
		browser:      b,
		log:          log,
		check:        c,
		PollInterval: DefaultPollInterval,
		now:          time.Now,
	}
}

// Browser returns the underlying browser for calls the Driver does not wrap.
func (d *Driver) Browser() Browser {
	return d.browser
}

// Quit ends the browser session.
func (d *Driver) Quit() error {
	if err := d.browser.Quit(); err != nil {
		glog.Warningf("quit failed: %v", err)
		return err
	}
	d.log.Info("Driver quit")
	return nil
}

// Wait returns a Wait polling at d.PollInterval for timeout, or for
// DefaultTimeout when timeout is not positive.
func (d *Driver) Wait(timeout time.Duration) Wait {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return Wait{Timeout: timeout, Interval: d.PollInterval}
}

// ScrollElementIntoView scrolls the page so that the element is in the
// middle of the viewport.
func (d *Driver) ScrollElementIntoView(l Locator) error {
	el, err := d.find(l)
	if err != nil {
		return err
	}
	_, err = d.browser.ExecuteScript(scrollIntoMiddle, []interface{}{el})
	return err
}

// JavaScriptSetAttribute sets an attribute of the element from script.
func (d *Driver) JavaScriptSetAttribute(l Locator, attribute, value string) error {
	el, err := d.find(l)
	if err != nil {
		return err
	}
	_, err = d.browser.ExecuteScript("arguments[0].setAttribute(arguments[1], arguments[2]);",
		[]interface{}{el, attribute, value})
	return err
}

// JavaScriptChangeInnerHTML replaces the element's content.
func (d *Driver) JavaScriptChangeInnerHTML(l Locator, html string) error {
	el, err := d.find(l)
	if err != nil {
		return err
	}
	_, err = d.browser.ExecuteScript("arguments[0].innerHTML = arguments[1];", []interface{}{el, html})
	return err
}

// CloseOtherWindows closes every window but home and switches to it. An
// empty home means the current window.
func (d *Driver) CloseOtherWindows(home string) error {
	if home == "" {
		h, err := d.browser.CurrentWindowHandle()
		if err != nil {
			return err
		}
		home = h
	}
	windows, err := d.browser.WindowHandles()
	if err != nil {
		return err
	}
	for _, w := range windows {
		if w == home {
			continue
		}
		if err := d.browser.SwitchWindow(w); err != nil {
			return err
		}
		if err := d.browser.Close(); err != nil {
			return err
		}
	}
	return d.browser.SwitchWindow(home)
}

// CaptureScreenshot takes a screenshot for attaching to a report entry. It
// returns nil when the browser cannot take one.
func (d *Driver) CaptureScreenshot(fileName string) *report.Media {
	png, err := d.browser.Screenshot()
	if err != nil {
		glog.Warningf("screenshot failed: %v", err)
		return nil
	}
	if fileName == "" {
		fileName = "Screenshot_" + d.now().Format("3:04:05 PM -07") + ".png"
	}
	d.log.Info("Screenshot has been taken")
	return &report.Media{Title: fileName, Base64: base64.StdEncoding.EncodeToString(png)}
}

func (d *Driver) isVisible(l Locator) bool {
	el, err := d.find(l)
	if err != nil {
		return false
	}
	shown, err := el.IsDisplayed()
	return err == nil && shown
}

// ElementIsPresent reports whether the element can be found.
func (d *Driver) ElementIsPresent(l Locator) bool {
	_, err := d.find(l)
	return err == nil
}

func (d *Driver) interactable(l Locator) (bool, error) {
	el, err := d.find(l)
	if err != nil {
		return false, err
	}
	enabled, err := el.IsEnabled()
	if err != nil || !enabled {
		return false, err
	}
	return el.IsDisplayed()
}

// ElementIsInteractable reports whether the element becomes enabled and
// displayed within timeout.
func (d *Driver) ElementIsInteractable(l Locator, timeout time.Duration) bool {
	return d.Wait(timeout).Until(func() (bool, error) { return d.interactable(l) }) == nil
}

// Get navigates to url. Navigation failures abort the test.
func (d *Driver) Get(url string) {
	if err := d.browser.Get(url); err != nil {
		d.log.Error(fmt.Sprintf("Couldn't navigate to %s", report.Link(url))+report.CodeBlock(err.Error()), d.CaptureScreenshot(""))
		d.check.Fail("Couldn't navigate to %s: %v", url, err)
		return
	}
	d.log.Debug("Navigated to " + report.Link(url))
	d.check.Step()
}

// Click clicks the element once it is interactable.
func (d *Driver) Click(l Locator, timeout time.Duration, soft bool) {
	fields := report.JSONText(report.KV{Key: "element", Value: l.String()})
	w := d.Wait(timeout)
	if w.Until(func() (bool, error) { return d.interactable(l) }) != nil {
		d.failure(soft, false, notInteractableAfter(w.Timeout)+fields,
			"Element %s is not interactable after %v", l, w.Timeout)
		return
	}
	el, err := d.find(l)
	if err == nil {
		err = el.Click()
	}
	switch {
	case err == nil:
		debugLog("clicked %s", l)
		d.check.Step()
	case isError(err, errClickIntercepted):
		d.failure(soft, false, "Element click is intercepted"+fields, "Element click is intercepted %s", l)
	default:
		d.failure(soft, false, err.Error()+fields, "Couldn't click %s: %v", l, err)
	}
}

// Submit submits the form the element belongs to.
func (d *Driver) Submit(l Locator, debug bool) error {
	el, err := d.find(l)
	if err != nil {
		return err
	}
	if err := el.Submit(); err != nil {
		return err
	}
	d.check.Step()
	if debug {
		d.log.Debug("Submitted element " + l.String())
	}
	return nil
}

// SelectByVisibleText picks the option of the select element displaying
// text.
func (d *Driver) SelectByVisibleText(l Locator, text string, soft bool) {
	d.selectOption(l, "text", text, soft, func(s *SelectBox) error { return s.SelectByVisibleText(text) })
}

// SelectByValue picks the option of the select element with value.
func (d *Driver) SelectByValue(l Locator, value string, soft bool) {
	d.selectOption(l, "value", value, soft, func(s *SelectBox) error { return s.SelectByValue(value) })
}

// SelectByIndex picks the option of the select element at idx.
func (d *Driver) SelectByIndex(l Locator, idx int, soft bool) {
	d.selectOption(l, "index", fmt.Sprint(idx), soft, func(s *SelectBox) error { return s.SelectByIndex(idx) })
}

func (d *Driver) selectOption(l Locator, key, value string, soft bool, pick func(*SelectBox) error) {
	fields := report.JSONText(report.KV{Key: "element", Value: l.String()}, report.KV{Key: key, Value: value})
	el, err := d.find(l)
	if err != nil {
		d.failure(soft, true, "No element found"+fields, "Element %q not found", l.String())
		return
	}
	sel, err := Select(el)
	if err == nil {
		err = pick(sel)
	}
	if err != nil {
		d.failure(soft, true, "Couldn't select option"+fields+report.CodeBlock(err.Error()),
			"Couldn't select option by %s %q in %s: %v", key, value, l, err)
		return
	}
	d.log.Debug("Option selected" + fields)
	d.check.Step()
}

// BrowserVersion returns the version of the browser running the session.
func (d *Driver) BrowserVersion() (semver.Version, error) {
	caps, err := d.browser.Capabilities()
	if err != nil {
		return semver.Version{}, err
	}
	for _, key := range []string{"browserVersion", "version"} {
		if v, ok := caps[key].(string); ok && v != "" {
			// Chrome reports four components, e.g. 120.0.6099.109.
			if parts := strings.SplitN(v, ".", 4); len(parts) == 4 {
				v = strings.Join(parts[:3], ".")
			}
			return semver.ParseTolerant(v)
		}
	}
	return semver.Version{}, fmt.Errorf("browser did not report its version")
}

// failure records a failed interaction. Hard failures log an error,
// optionally with a screenshot, and abort the test; soft ones log a warning
// and record it.
func (d *Driver) failure(soft, screenshot bool, details, format string, args ...interface{}) {
	if soft {
		d.log.Warning(details)
		d.check.Warn(format, args...)
		return
	}
	var media *report.Media
	if screenshot {
		media = d.CaptureScreenshot("")
	}
	d.log.Error(details, media)
	d.check.Fail(format, args...)
}

func notInteractableAfter(timeout time.Duration) string {
	return fmt.Sprintf("Element is not interactable after <b>%v</b> seconds", timeout.Seconds())
}

func stack() string {
	return string(debug.Stack())
}
