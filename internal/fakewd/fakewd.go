// Package fakewd provides an in-memory browser for testing code built on
// package driver without a WebDriver server.
package fakewd

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/tebeka/selenium"

	"github.com/wanmail/seleniumframework/driver"
)

// Err returns the error a WebDriver server reports for kind, e.g.
// "no such element".
func Err(kind string) error {
	return &selenium.Error{Err: kind, Message: kind + " (fake)"}
}

// Script is one ExecuteScript call.
type Script struct {
	Script string
	Args   []interface{}
}

// Browser is a fake driver.Browser. Elements are registered with Add and
// found by exact locator.
type Browser struct {
	mu sync.Mutex

	elements map[driver.Locator]*Element
	events   []string
	scripts  []Script

	// URL is the last page navigated to.
	URL string
	// Source is returned by PageSource.
	Source string
	// Windows are the open window handles; Current is the focused one.
	Windows []string
	Current string
	// Screen is returned by Screenshot.
	Screen []byte
	Caps   selenium.Capabilities

	quit bool

	// Errors returned by the corresponding calls when set.
	GetErr        error
	ScreenshotErr error
	ActionsErr    error
	QuitErr       error
}

// New returns a browser showing an empty page in a single window.
func New() *Browser {
	return &Browser{
		elements: make(map[driver.Locator]*Element),
		Windows:  []string{"main"},
		Current:  "main",
		Screen:   []byte("png"),
		Caps:     selenium.Capabilities{"browserName": "chrome", "browserVersion": "120.0.6099.109"},
	}
}

// Add makes e findable by l and returns it.
func (b *Browser) Add(l driver.Locator, e *Element) *Element {
	b.mu.Lock()
	defer b.mu.Unlock()
	e.browser = b
	b.elements[l] = e
	return e
}

// Remove makes l unfindable.
func (b *Browser) Remove(l driver.Locator) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.elements, l)
}

// Events returns the recorded interactions, e.g. "click submit" or
// "pointerDown 0".
func (b *Browser) Events() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}

// Scripts returns the executed scripts.
func (b *Browser) Scripts() []Script {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Script(nil), b.scripts...)
}

// Quitted reports whether Quit was called.
func (b *Browser) Quitted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.quit
}

func (b *Browser) record(format string, args ...interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, fmt.Sprintf(format, args...))
}

func (b *Browser) Get(url string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.GetErr != nil {
		return b.GetErr
	}
	b.URL = url
	return nil
}

func (b *Browser) FindElement(by, value string) (driver.Element, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.elements[driver.Locator{By: by, Value: value}]
	if !ok {
		return nil, Err("no such element")
	}
	return e, nil
}

func (b *Browser) FindElements(by, value string) ([]driver.Element, error) {
	e, err := b.FindElement(by, value)
	if err != nil {
		return nil, nil
	}
	return []driver.Element{e}, nil
}

func (b *Browser) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scripts = append(b.scripts, Script{script, args})
	return nil, nil
}

func (b *Browser) CurrentWindowHandle() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Current, nil
}

func (b *Browser) WindowHandles() ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.Windows...), nil
}

func (b *Browser) SwitchWindow(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, w := range b.Windows {
		if w == name {
			b.Current = name
			return nil
		}
	}
	return Err("no such window")
}

// Close closes the current window.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, w := range b.Windows {
		if w == b.Current {
			b.Windows = append(b.Windows[:i], b.Windows[i+1:]...)
			b.Current = ""
			return nil
		}
	}
	return Err("no such window")
}

func (b *Browser) Quit() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.QuitErr != nil {
		return b.QuitErr
	}
	b.quit = true
	return nil
}

func (b *Browser) Screenshot() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ScreenshotErr != nil {
		return nil, b.ScreenshotErr
	}
	return b.Screen, nil
}

// PerformActions records the actions of sources tick by tick, e.g.
// "pointerMove draggable 0,0" or "keyDown a". Pauses are not recorded.
func (b *Browser) PerformActions(sources []driver.InputSource) error {
	if b.ActionsErr != nil {
		return b.ActionsErr
	}
	var events []string
	for tick := 0; ; tick++ {
		more := false
		for _, s := range sources {
			if tick >= len(s.Actions) {
				continue
			}
			more = true
			e, err := b.action(s, s.Actions[tick])
			if err != nil {
				return err
			}
			if e != "" {
				events = append(events, e)
			}
		}
		if !more {
			break
		}
	}
	for _, e := range events {
		b.record("%s", e)
	}
	return nil
}

func (b *Browser) action(s driver.InputSource, a driver.Action) (string, error) {
	switch t := a.Type(); t {
	case "pause":
		return "", nil
	case "pointerMove":
		if s.Type != "pointer" {
			break
		}
		var origin string
		switch o := a["origin"].(type) {
		case *Element:
			origin = o.Name
		case string:
			origin = o
		case nil:
			origin = driver.OriginViewport
		default:
			return "", Err("invalid argument")
		}
		return fmt.Sprintf("%s %s %v,%v", t, origin, a["x"], a["y"]), nil
	case "pointerDown", "pointerUp":
		if s.Type != "pointer" {
			break
		}
		return fmt.Sprintf("%s %v", t, a["button"]), nil
	case "keyDown", "keyUp":
		if s.Type != "key" {
			break
		}
		return fmt.Sprintf("%s %v", t, a["value"]), nil
	}
	return "", Err("invalid argument")
}

// ReleaseActions records "releaseActions".
func (b *Browser) ReleaseActions() error {
	b.record("releaseActions")
	return nil
}

func (b *Browser) PageSource() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Source, nil
}

func (b *Browser) Capabilities() (selenium.Capabilities, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Caps, nil
}

// Element is a fake driver.Element. Zero values describe a hidden, disabled
// element; use NewElement for a usable one.
type Element struct {
	mu sync.Mutex

	Name      string
	Tag       string
	Content   string
	Attrs     map[string]string
	Displayed bool
	Enabled   bool
	Selected  bool
	// Value is what was typed into the element.
	Value string

	// Errors returned by the corresponding calls when set.
	ClickErr    error
	SendKeysErr error
	ClearErr    error
	SubmitErr   error

	// ShowAfter makes IsDisplayed return false for that many calls.
	ShowAfter int

	options []*Element
	parent  *Element
	browser *Browser
}

// NewElement returns a displayed, enabled element.
func NewElement(name string) *Element {
	return &Element{Name: name, Tag: "div", Displayed: true, Enabled: true}
}

// NewSelect returns a <select> holding options with the given value/text
// pairs.
func NewSelect(name string, multiple bool, valueText ...string) *Element {
	e := NewElement(name)
	e.Tag = "select"
	if multiple {
		e.Attrs = map[string]string{"multiple": "true"}
	}
	for i := 0; i+1 < len(valueText); i += 2 {
		o := NewElement(valueText[i])
		o.Tag = "option"
		o.Content = valueText[i+1]
		o.Attrs = map[string]string{"value": valueText[i]}
		o.parent = e
		e.options = append(e.options, o)
	}
	return e
}

// Options returns the options of a select created by NewSelect.
func (e *Element) Options() []*Element {
	return e.options
}

func (e *Element) record(format string, args ...interface{}) {
	if e.browser != nil {
		e.browser.record(format, args...)
	} else if e.parent != nil && e.parent.browser != nil {
		e.parent.browser.record(format, args...)
	}
}

func (e *Element) Click() error {
	e.mu.Lock()
	if e.ClickErr != nil {
		e.mu.Unlock()
		return e.ClickErr
	}
	e.mu.Unlock()

	if e.Tag == "option" && e.parent != nil {
		multi := e.parent.Attrs["multiple"] != ""
		for _, o := range e.parent.options {
			switch {
			case o == e:
				o.Selected = !o.Selected || !multi
			case !multi:
				o.Selected = false
			}
		}
	}
	e.record("click %s", e.Name)
	return nil
}

func (e *Element) SendKeys(keys string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.SendKeysErr != nil {
		return e.SendKeysErr
	}
	e.Value += keys
	return nil
}

func (e *Element) Submit() error {
	if e.SubmitErr != nil {
		return e.SubmitErr
	}
	e.record("submit %s", e.Name)
	return nil
}

func (e *Element) Clear() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ClearErr != nil {
		return e.ClearErr
	}
	e.Value = ""
	return nil
}

var quoted = regexp.MustCompile(`"([^"]*)"|'([^']*)'`)

// FindElements supports the option lookups of driver.SelectBox: by tag
// name, and by XPath on normalize-space(.) or @value.
func (e *Element) FindElements(by, value string) ([]driver.Element, error) {
	var match func(o *Element) bool
	switch by {
	case selenium.ByTagName:
		match = func(o *Element) bool { return o.Tag == value }
	case selenium.ByXPATH:
		m := quoted.FindStringSubmatch(value)
		if m == nil {
			return nil, Err("invalid selector")
		}
		want := m[1] + m[2]
		switch {
		case strings.Contains(value, "normalize-space(.)"):
			match = func(o *Element) bool { return strings.Join(strings.Fields(o.Content), " ") == want }
		case strings.Contains(value, "@value"):
			match = func(o *Element) bool { return o.Attrs["value"] == want }
		default:
			return nil, Err("invalid selector")
		}
	default:
		return nil, Err("invalid selector")
	}
	var out []driver.Element
	for _, o := range e.options {
		if match(o) {
			out = append(out, o)
		}
	}
	return out, nil
}

func (e *Element) TagName() (string, error) { return e.Tag, nil }
func (e *Element) Text() (string, error)    { return e.Content, nil }

func (e *Element) IsSelected() (bool, error) { return e.Selected, nil }
func (e *Element) IsEnabled() (bool, error)  { return e.Enabled, nil }

func (e *Element) IsDisplayed() (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ShowAfter > 0 {
		e.ShowAfter--
		return false, nil
	}
	return e.Displayed, nil
}

func (e *Element) GetAttribute(name string) (string, error) {
	if v, ok := e.Attrs[name]; ok {
		return v, nil
	}
	return "", Err("no such attribute")
}
