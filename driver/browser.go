package driver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/tebeka/selenium"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// webElementKey is the W3C key of a web element reference.
const webElementKey = "element-6066-11e4-a52e-4f735466cecf"

// Element is the part of selenium.WebElement the driver uses.
type Element interface {
	Click() error
	SendKeys(keys string) error
	Submit() error
	Clear() error
	FindElements(by, value string) ([]Element, error)
	TagName() (string, error)
	Text() (string, error)
	IsSelected() (bool, error)
	IsEnabled() (bool, error)
	IsDisplayed() (bool, error)
	GetAttribute(name string) (string, error)
}

// Browser is the part of selenium.WebDriver the driver uses. Remote adapts a
// selenium.WebDriver to it.
type Browser interface {
	Get(url string) error
	FindElement(by, value string) (Element, error)
	FindElements(by, value string) ([]Element, error)
	ExecuteScript(script string, args []interface{}) (interface{}, error)
	CurrentWindowHandle() (string, error)
	WindowHandles() ([]string, error)
	SwitchWindow(name string) error
	Close() error
	Quit() error
	Screenshot() ([]byte, error)
	PerformActions(sources []InputSource) error
	ReleaseActions() error
	PageSource() (string, error)
	Capabilities() (selenium.Capabilities, error)
}

// Remote returns a Browser backed by a WebDriver session served at
// urlPrefix.
func Remote(wd selenium.WebDriver, urlPrefix string) Browser {
	return &remoteBrowser{
		wd:        wd,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
		client:    resty.New().SetHeader("Accept", "application/json"),
	}
}

type remoteBrowser struct {
	wd        selenium.WebDriver
	urlPrefix string
	// client sends the commands selenium.WebDriver lacks.
	client *resty.Client
}

type remoteElement struct {
	selenium.WebElement
}

func (e remoteElement) FindElements(by, value string) ([]Element, error) {
	elems, err := e.WebElement.FindElements(by, value)
	if err != nil {
		return nil, err
	}
	return wrapElements(elems), nil
}

func wrapElements(elems []selenium.WebElement) []Element {
	out := make([]Element, len(elems))
	for i, e := range elems {
		out[i] = remoteElement{e}
	}
	return out
}

func (b *remoteBrowser) Get(url string) error { return b.wd.Get(url) }

func (b *remoteBrowser) FindElement(by, value string) (Element, error) {
	e, err := b.wd.FindElement(by, value)
	if err != nil {
		return nil, err
	}
	return remoteElement{e}, nil
}

func (b *remoteBrowser) FindElements(by, value string) ([]Element, error) {
	elems, err := b.wd.FindElements(by, value)
	if err != nil {
		return nil, err
	}
	return wrapElements(elems), nil
}

// ExecuteScript unwraps Element arguments so that the server receives web
// element references.
func (b *remoteBrowser) ExecuteScript(script string, args []interface{}) (interface{}, error) {
	unwrapped := make([]interface{}, len(args))
	for i, a := range args {
		if e, ok := a.(remoteElement); ok {
			unwrapped[i] = e.WebElement
			continue
		}
		unwrapped[i] = a
	}
	return b.wd.ExecuteScript(script, unwrapped)
}

func (b *remoteBrowser) CurrentWindowHandle() (string, error) { return b.wd.CurrentWindowHandle() }
func (b *remoteBrowser) WindowHandles() ([]string, error)     { return b.wd.WindowHandles() }
func (b *remoteBrowser) SwitchWindow(name string) error       { return b.wd.SwitchWindow(name) }
func (b *remoteBrowser) Close() error                         { return b.wd.Close() }
func (b *remoteBrowser) Quit() error                          { return b.wd.Quit() }
func (b *remoteBrowser) Screenshot() ([]byte, error)          { return b.wd.Screenshot() }
func (b *remoteBrowser) PageSource() (string, error)          { return b.wd.PageSource() }

func (b *remoteBrowser) Capabilities() (selenium.Capabilities, error) {
	return b.wd.Capabilities()
}

func (b *remoteBrowser) actionsURL() string {
	return fmt.Sprintf("%s/session/%s/actions", b.urlPrefix, b.wd.SessionID())
}

// PerformActions posts sources to the W3C actions endpoint, replacing
// Element origins with web element references.
func (b *remoteBrowser) PerformActions(sources []InputSource) error {
	encoded := make([]InputSource, len(sources))
	for i, s := range sources {
		s.Actions = append([]Action(nil), s.Actions...)
		for j, a := range s.Actions {
			el, ok := a["origin"].(Element)
			if !ok {
				continue
			}
			ref, err := elementReference(el)
			if err != nil {
				return err
			}
			c := make(Action, len(a))
			for k, v := range a {
				c[k] = v
			}
			c["origin"] = ref
			s.Actions[j] = c
		}
		encoded[i] = s
	}
	return b.command(http.MethodPost, map[string]interface{}{"actions": encoded})
}

// ReleaseActions releases every pressed key and button.
func (b *remoteBrowser) ReleaseActions() error {
	return b.command(http.MethodDelete, nil)
}

func (b *remoteBrowser) command(method string, body interface{}) error {
	url := b.actionsURL()
	req := b.client.R()
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("error encoding %s %s: %w", method, url, err)
		}
		req.SetHeader("Content-Type", "application/json").SetBody(data)
	}
	debugLog("-> %s %s", method, url)
	resp, err := req.Execute(method, url)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, url, err)
	}
	if resp.IsError() {
		return commandError(resp)
	}
	return nil
}

// commandError decodes the W3C error a server replied with.
func commandError(resp *resty.Response) error {
	var reply struct {
		Value selenium.Error `json:"value"`
	}
	if err := json.Unmarshal(resp.Body(), &reply); err != nil || reply.Value.Err == "" {
		return &selenium.Error{Err: "unknown error", Message: resp.Status(), HTTPCode: resp.StatusCode()}
	}
	reply.Value.HTTPCode = resp.StatusCode()
	return &reply.Value
}

// elementReference returns the W3C reference of an element found by a
// remoteBrowser.
func elementReference(el Element) (map[string]string, error) {
	re, ok := el.(remoteElement)
	if !ok {
		return nil, fmt.Errorf("element %T does not belong to a WebDriver session", el)
	}
	data, err := json.Marshal(re.WebElement)
	if err != nil {
		return nil, fmt.Errorf("error encoding element reference: %w", err)
	}
	var ids map[string]string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("invalid element reference %s: %w", data, err)
	}
	id := ids[webElementKey]
	if id == "" {
		id = ids["ELEMENT"]
	}
	if id == "" {
		return nil, fmt.Errorf("invalid element reference %s", data)
	}
	return map[string]string{webElementKey: id}, nil
}

// WebDriver error strings, as listed in
// https://www.w3.org/TR/webdriver/#handling-errors .
const (
	errNoSuchElement        = "no such element"
	errStaleElement         = "stale element reference"
	errElementNotVisible    = "element not visible"
	errNotInteractable      = "element not interactable"
	errClickIntercepted     = "element click intercepted"
	errInvalidElementState  = "invalid element state"
	errMoveTargetOutOfBound = "move target out of bounds"
)

// isError reports whether err is the WebDriver error kind. Servers that do
// not speak W3C only put the kind in the message.
func isError(err error, kind string) bool {
	if err == nil {
		return false
	}
	var se *selenium.Error
	if errors.As(err, &se) && se.Err != "" {
		return se.Err == kind
	}
	return strings.Contains(err.Error(), kind)
}

func isNotInteractable(err error) bool {
	return isError(err, errNotInteractable) ||
		isError(err, errElementNotVisible) ||
		isError(err, errInvalidElementState)
}
