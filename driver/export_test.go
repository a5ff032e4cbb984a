package driver

import "github.com/tebeka/selenium"

// SetNewRemote replaces the function sessions connect with and returns a
// func restoring it.
func SetNewRemote(f func(selenium.Capabilities, string) (selenium.WebDriver, error)) (restore func()) {
	old := newRemote
	newRemote = f
	return func() { newRemote = old }
}

var XPathLiteral = xpathLiteral
