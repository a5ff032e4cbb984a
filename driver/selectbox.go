package driver

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tebeka/selenium"
)

// SelectBox wraps a <select> element.
type SelectBox struct {
	element Element
	isMulti bool
}

// Select wraps el, which must be a <select> element.
func Select(el Element) (*SelectBox, error) {
	tagName, err := el.TagName()
	if err != nil {
		return nil, err
	}
	if strings.ToLower(tagName) != "select" {
		return nil, fmt.Errorf(`element should have been "select" but was %q`, tagName)
	}
	mult, err := el.GetAttribute("multiple")
	return &SelectBox{
		element: el,
		isMulti: err == nil && mult != "" && strings.ToLower(mult) != "false",
	}, nil
}

// Element returns the wrapped element.
func (s *SelectBox) Element() Element {
	return s.element
}

// IsMultiple reports whether more than one option may be selected at a time.
func (s *SelectBox) IsMultiple() bool {
	return s.isMulti
}

// Options returns all options of the select.
func (s *SelectBox) Options() ([]Element, error) {
	return s.element.FindElements(selenium.ByTagName, "option")
}

// SelectedOptions returns the options that are currently selected.
func (s *SelectBox) SelectedOptions() ([]Element, error) {
	opts, err := s.Options()
	if err != nil {
		return nil, err
	}
	var selected []Element
	for _, o := range opts {
		ok, err := o.IsSelected()
		if err != nil {
			return nil, err
		}
		if ok {
			selected = append(selected, o)
		}
	}
	return selected, nil
}

// FirstSelectedOption returns the first selected option.
func (s *SelectBox) FirstSelectedOption() (Element, error) {
	opts, err := s.SelectedOptions()
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("no options are selected")
	}
	return opts[0], nil
}

// SelectByVisibleText selects the options displaying text, e.g.
// <option value="foo">Bar</option> for "Bar".
func (s *SelectBox) SelectByVisibleText(text string) error {
	opts, err := s.element.FindElements(selenium.ByXPATH, `.//option[normalize-space(.) = `+xpathLiteral(text)+`]`)
	if err != nil {
		return err
	}
	if len(opts) == 0 {
		return fmt.Errorf("cannot locate option with text: %s", text)
	}
	return s.setAll(opts, true)
}

// SelectByValue selects the options whose value attribute is value.
func (s *SelectBox) SelectByValue(value string) error {
	opts, err := s.optionsByValue(value)
	if err != nil {
		return err
	}
	return s.setAll(opts, true)
}

// SelectByIndex selects the option at position idx.
func (s *SelectBox) SelectByIndex(idx int) error {
	return s.setByIndex(idx, true)
}

// DeselectAll clears the selection of a multi-select.
func (s *SelectBox) DeselectAll() error {
	if !s.isMulti {
		return fmt.Errorf("you may only deselect all options of a multi-select")
	}
	opts, err := s.Options()
	if err != nil {
		return err
	}
	return s.setAll(opts, false)
}

// DeselectByValue deselects the options whose value attribute is value.
func (s *SelectBox) DeselectByValue(value string) error {
	if !s.isMulti {
		return fmt.Errorf("you may only deselect options of a multi-select")
	}
	opts, err := s.optionsByValue(value)
	if err != nil {
		return err
	}
	return s.setAll(opts, false)
}

// DeselectByIndex deselects the option at position idx.
func (s *SelectBox) DeselectByIndex(idx int) error {
	if !s.isMulti {
		return fmt.Errorf("you may only deselect options of a multi-select")
	}
	return s.setByIndex(idx, false)
}

func (s *SelectBox) optionsByValue(value string) ([]Element, error) {
	opts, err := s.element.FindElements(selenium.ByXPATH, `.//option[@value = `+xpathLiteral(value)+`]`)
	if err != nil {
		return nil, err
	}
	if len(opts) == 0 {
		return nil, fmt.Errorf("cannot locate option with value: %s", value)
	}
	return opts, nil
}

func (s *SelectBox) setByIndex(idx int, selected bool) error {
	opts, err := s.Options()
	if err != nil {
		return err
	}
	if idx < 0 || idx >= len(opts) {
		return fmt.Errorf("cannot locate option with index: %s", strconv.Itoa(idx))
	}
	return s.set(opts[idx], selected)
}

// setAll stops after the first option unless the select is multiple.
func (s *SelectBox) setAll(opts []Element, selected bool) error {
	for _, o := range opts {
		if err := s.set(o, selected); err != nil {
			return err
		}
		if !s.isMulti && selected {
			return nil
		}
	}
	return nil
}

func (s *SelectBox) set(option Element, selected bool) error {
	sel, err := option.IsSelected()
	if err != nil {
		return err
	}
	if sel != selected {
		return option.Click()
	}
	return nil
}

// xpathLiteral quotes s for use in an XPath expression. XPath 1.0 has no
// escapes, so strings holding both quote kinds are built with concat().
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = `"` + p + `"`
	}
	return "concat(" + strings.Join(quoted, `, '"', `) + ")"
}
