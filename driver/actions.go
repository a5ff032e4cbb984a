package driver

import (
	"fmt"
	"time"
)

// DefaultMoveDuration is how long a pointer move lasts.
const DefaultMoveDuration = 250 * time.Millisecond

// MouseButton identifies a pointer button.
type MouseButton int

// Pointer buttons, numbered as in the W3C WebDriver actions API.
const (
	LeftButton MouseButton = iota
	MiddleButton
	RightButton
)

// Origins of a pointer move that are not an element.
const (
	OriginViewport = "viewport"
	OriginPointer  = "pointer"
)

// Action is one W3C input action, e.g. {"type": "pointerDown", "button": 0}.
// The origin of a move relative to an element holds the Element itself; the
// Browser turns it into a web element reference.
type Action map[string]interface{}

// Type returns the action type.
func (a Action) Type() string {
	t, _ := a["type"].(string)
	return t
}

// InputSource is the action sequence of one input device.
type InputSource struct {
	Type       string            `json:"type"`
	ID         string            `json:"id"`
	Parameters map[string]string `json:"parameters,omitempty"`
	Actions    []Action          `json:"actions"`
}

func (s InputSource) idle() bool {
	for _, a := range s.Actions {
		if a.Type() != "pause" {
			return false
		}
	}
	return true
}

// Actions queues mouse and keyboard interactions and sends them to the
// browser in one request with Perform. Each call returns the chain so steps
// can be composed:
//
//	err := NewActions(b).ClickAndHold(src).MoveToElement(dst).Release().Perform()
//
// Every step is one tick: the other device pauses meanwhile, so steps run in
// the order they were added.
type Actions struct {
	browser  Browser
	mouse    InputSource
	keyboard InputSource
}

// NewActions returns an empty action chain for b.
func NewActions(b Browser) *Actions {
	a := &Actions{browser: b}
	a.Reset()
	return a
}

func pause(d time.Duration) Action {
	return Action{"type": "pause", "duration": d.Milliseconds()}
}

func (a *Actions) tick(mouse, key Action) *Actions {
	if mouse == nil {
		mouse = pause(0)
	}
	if key == nil {
		key = pause(0)
	}
	a.mouse.Actions = append(a.mouse.Actions, mouse)
	a.keyboard.Actions = append(a.keyboard.Actions, key)
	return a
}

func move(origin interface{}, xOffset, yOffset int) Action {
	return Action{
		"type":     "pointerMove",
		"duration": DefaultMoveDuration.Milliseconds(),
		"origin":   origin,
		"x":        xOffset,
		"y":        yOffset,
	}
}

// MoveToElement moves the mouse to the center of el.
func (a *Actions) MoveToElement(el Element) *Actions {
	return a.MoveToElementWithOffset(el, 0, 0)
}

// MoveToElementWithOffset moves the mouse to an offset from el's center.
func (a *Actions) MoveToElementWithOffset(el Element, xOffset, yOffset int) *Actions {
	return a.tick(move(el, xOffset, yOffset), nil)
}

// MoveByOffset moves the mouse relative to its current position.
func (a *Actions) MoveByOffset(xOffset, yOffset int) *Actions {
	return a.tick(move(OriginPointer, xOffset, yOffset), nil)
}

// ButtonDown presses button at the current position.
func (a *Actions) ButtonDown(button MouseButton) *Actions {
	return a.tick(Action{"type": "pointerDown", "duration": 0, "button": int(button)}, nil)
}

// ButtonUp releases button at the current position.
func (a *Actions) ButtonUp(button MouseButton) *Actions {
	return a.tick(Action{"type": "pointerUp", "duration": 0, "button": int(button)}, nil)
}

// Click clicks el with the left button.
func (a *Actions) Click(el Element) *Actions {
	return a.MoveToElement(el).ButtonDown(LeftButton).ButtonUp(LeftButton)
}

// ClickAndHold presses the left mouse button on el.
func (a *Actions) ClickAndHold(el Element) *Actions {
	return a.MoveToElement(el).ButtonDown(LeftButton)
}

// Release releases the left mouse button at the current position.
func (a *Actions) Release() *Actions {
	return a.ButtonUp(LeftButton)
}

// DragAndDrop holds the mouse on src, moves it to dst and releases it.
func (a *Actions) DragAndDrop(src, dst Element) *Actions {
	return a.ClickAndHold(src).MoveToElement(dst).Release()
}

// SendKeys types keys into the focused element.
func (a *Actions) SendKeys(keys string) *Actions {
	for _, r := range keys {
		k := string(r)
		a.tick(nil, Action{"type": "keyDown", "value": k})
		a.tick(nil, Action{"type": "keyUp", "value": k})
	}
	return a
}

// Pause waits for d between two steps.
func (a *Actions) Pause(d time.Duration) *Actions {
	return a.tick(pause(d), pause(d))
}

// Sources returns the queued input sources. A device that only pauses is
// left out unless nothing else is queued.
func (a *Actions) Sources() []InputSource {
	if len(a.mouse.Actions) == 0 {
		return nil
	}
	var out []InputSource
	for _, s := range []InputSource{a.mouse, a.keyboard} {
		if !s.idle() {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		out = append(out, a.mouse)
	}
	return out
}

// Perform sends the queued actions to the browser and clears the chain.
// Buttons and keys still pressed afterwards stay pressed until ReleaseAll.
func (a *Actions) Perform() error {
	defer a.Reset()
	sources := a.Sources()
	if len(sources) == 0 {
		return nil
	}
	if err := a.browser.PerformActions(sources); err != nil {
		return fmt.Errorf("performing %d actions: %w", len(a.mouse.Actions), err)
	}
	return nil
}

// ReleaseAll releases every button and key the browser holds pressed.
func (a *Actions) ReleaseAll() error {
	return a.browser.ReleaseActions()
}

// Reset drops the queued actions.
func (a *Actions) Reset() {
	a.mouse = InputSource{
		Type:       "pointer",
		ID:         "mouse",
		Parameters: map[string]string{"pointerType": "mouse"},
	}
	a.keyboard = InputSource{Type: "key", ID: "keyboard"}
}
