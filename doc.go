/*
Package seleniumframework is a toolkit for writing browser and API tests on
top of github.com/tebeka/selenium.

It is split into packages:

	config    settings of a test run, from config.json and SF_* variables
	check     soft and hard assertions and the outcome of a test
	report    HTML report of a suite, one entry per test step
	driver    browser sessions and logged, asserting browser helpers
	api       HTTP requests with logged assertions on the responses
	basetest  testify suite wiring all of the above per test
	util      small helpers shared by test projects

A test project embeds basetest.Suite:

	type SearchSuite struct {
		basetest.Suite
	}

	func (s *SearchSuite) TestSearch() {
		s.Driver.Get("https://example.com/")
		s.Driver.SendKeys(driver.ByName("q"), "golang", false, true)
		s.Driver.Click(driver.ByID("go"), 5*time.Second, false)
		s.Driver.AssertElementIsVisible(driver.ByCSS(".results"), true, false)
	}

	func TestSearchSuite(t *testing.T) {
		suite.Run(t, new(SearchSuite))
	}

Every helper logs what it did to the report of the running test. Helpers
taking a soft argument record a warning and let the test go on when soft is
true, and stop the test otherwise.

The seleniumframework command downloads drivers, prints the configuration
and serves the reports.
*/
package seleniumframework
