package driver

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/wanmail/seleniumframework/report"
)

// AssertElementIsInteractable checks that the element becomes enabled and
// displayed within timeout.
func (d *Driver) AssertElementIsInteractable(l Locator, timeout time.Duration, soft bool) {
	w := d.Wait(timeout)
	if err := w.Until(func() (bool, error) { return d.interactable(l) }); err != nil {
		fields := report.JSONText(
			report.KV{Key: "element", Value: l.String()},
			report.KV{Key: "timeOutSeconds", Value: w.Timeout.Seconds()},
		)
		d.failure(soft, false, notInteractableAfter(w.Timeout)+fields,
			"Element %s is not interactable after %v", l, w.Timeout)
		return
	}
	d.log.Info("Element <code>" + l.String() + "</code> is interactable")
	d.check.Pass("Element %s is interactable", l)
}

// DragAndDrop drags the source element onto the target element.
func (d *Driver) DragAndDrop(source, target Locator, soft bool) {
	fromTo := report.JSONText(
		report.KV{Key: "from", Value: source.String()},
		report.KV{Key: "to", Value: target.String()},
	)
	err := d.dragAndDrop(source, target)
	if err != nil {
		debugLog("drag and drop: %v", err)
		d.failure(soft, true, "Couldn't Drag and Drop"+fromTo,
			"Couldn't Drag and Drop from %s to %s", source, target)
		return
	}
	d.log.Pass("Successfully Drag and Dropped" + fromTo)
	d.check.Pass("Dragged %s to %s", source, target)
}

func (d *Driver) dragAndDrop(source, target Locator) error {
	src, err := d.find(source)
	if err != nil {
		return err
	}
	dst, err := d.find(target)
	if err != nil {
		return err
	}
	return NewActions(d.browser).DragAndDrop(src, dst).Perform()
}

// SendKeys types value into the element, clearing it first when clear is
// set.
func (d *Driver) SendKeys(l Locator, value string, soft, clear bool) {
	fields := report.JSONText(
		report.KV{Key: "element", Value: l.String()},
		report.KV{Key: "value", Value: value},
	)
	err := d.sendKeys(l, value, clear)
	switch {
	case err == nil:
		d.log.Debug("Text entered to element" + fields)
		d.check.Step()
	case isNotInteractable(err):
		d.failure(soft, true, "Element is not interactable"+fields, "Couldn't interact with %s", l)
	case isError(err, errStaleElement):
		d.failure(soft, true, "Element is stale. Unable to send text"+fields,
			"Element %q is stale. Unable to send text", l.String())
	case isError(err, errNoSuchElement):
		d.failure(soft, true, "No element found"+fields, "Element %q not found", l.String())
	default:
		d.failure(soft, true, report.StackTrace(err.Error(), stack()), "%v", err)
	}
}

func (d *Driver) sendKeys(l Locator, value string, clear bool) error {
	el, err := d.find(l)
	if err != nil {
		return err
	}
	if clear {
		if err := el.Clear(); err != nil {
			return err
		}
	}
	return el.SendKeys(value)
}

// AssertElementIsVisible checks whether the element is displayed against
// expected.
func (d *Driver) AssertElementIsVisible(l Locator, expected, soft bool) {
	d.expect("Element", "visible", d.isVisible(l), expected, soft,
		report.JSONText(report.KV{Key: "element", Value: l.String()}))
}

// AssertElementIsPresent checks whether the element exists in the page
// against expected.
func (d *Driver) AssertElementIsPresent(l Locator, expected, soft bool) {
	d.expect("Element", "present", d.ElementIsPresent(l), expected, soft,
		report.JSONText(report.KV{Key: "element", Value: l.String()}))
}

// AssertPageContains checks whether any element matching the CSS selector
// contains text, against expected. An empty selector means the whole body.
func (d *Driver) AssertPageContains(selector, text string, expected, soft bool) {
	if selector == "" {
		selector = "body"
	}
	fields := report.JSONText(
		report.KV{Key: "selector", Value: selector},
		report.KV{Key: "text", Value: text},
	)
	found, err := d.pageContains(selector, text)
	if err != nil {
		d.failure(soft, true, "Couldn't read page source"+fields+report.CodeBlock(err.Error()),
			"Couldn't read page source: %v", err)
		return
	}
	d.expect("Text", "present", found, expected, soft, fields)
}

func (d *Driver) pageContains(selector, text string) (bool, error) {
	src, err := d.browser.PageSource()
	if err != nil {
		return false, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return false, err
	}
	found := false
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		found = strings.Contains(s.Text(), text)
		return !found
	})
	return found, nil
}

// expect applies the four-way actual/expected table shared by the state
// assertions.
func (d *Driver) expect(subject, state string, actual, expected, soft bool, fields string) {
	is, isPlain := "<b>IS</b>", "IS"
	if !actual {
		is, isPlain = "<b>IS NOT</b>", "IS NOT"
	}
	should, shouldPlain := "<b>SHOULD</b>", "SHOULD"
	if !expected {
		should, shouldPlain = "<b>SHOULD NOT</b>", "SHOULD NOT"
	}
	details := fmt.Sprintf("%s %s %s and %s be %s", subject, is, state, should, state) + fields
	plain := fmt.Sprintf("%s %s %s and %s be %s", subject, isPlain, state, shouldPlain, state)

	if actual == expected {
		d.log.Pass(details)
		d.check.Pass("%s", plain)
		return
	}
	d.failure(soft, true, details, "%s", plain)
}
