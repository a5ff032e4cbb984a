package driver

import (
	"fmt"

	"github.com/tebeka/selenium"
)

// Locator finds elements on a page.
type Locator struct {
	By    string
	Value string
}

// ByID locates elements by id.
func ByID(id string) Locator { return Locator{selenium.ByID, id} }

// ByXPath locates elements by XPath expression.
func ByXPath(xpath string) Locator { return Locator{selenium.ByXPATH, xpath} }

// ByCSS locates elements by CSS selector.
func ByCSS(selector string) Locator { return Locator{selenium.ByCSSSelector, selector} }

// ByName locates elements by their name attribute.
func ByName(name string) Locator { return Locator{selenium.ByName, name} }

// ByClassName locates elements by class.
func ByClassName(class string) Locator { return Locator{selenium.ByClassName, class} }

// ByTagName locates elements by tag.
func ByTagName(tag string) Locator { return Locator{selenium.ByTagName, tag} }

// ByLinkText locates anchors by their exact text.
func ByLinkText(text string) Locator { return Locator{selenium.ByLinkText, text} }

// ByPartialLinkText locates anchors whose text contains text.
func ByPartialLinkText(text string) Locator { return Locator{selenium.ByPartialLinkText, text} }

var locatorNames = map[string]string{
	selenium.ByID:              "Id",
	selenium.ByXPATH:           "XPath",
	selenium.ByCSSSelector:     "CssSelector",
	selenium.ByName:            "Name",
	selenium.ByClassName:       "ClassName",
	selenium.ByTagName:         "TagName",
	selenium.ByLinkText:        "LinkText",
	selenium.ByPartialLinkText: "PartialLinkText",
}

// String returns e.g. "By.XPath: //a".
func (l Locator) String() string {
	name, ok := locatorNames[l.By]
	if !ok {
		name = l.By
	}
	return fmt.Sprintf("By.%s: %s", name, l.Value)
}

func (d *Driver) find(l Locator) (Element, error) {
	debugLog("find %s", l)
	return d.browser.FindElement(l.By, l.Value)
}
