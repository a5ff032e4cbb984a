// Package basetest provides the lifecycle shared by UI and API test suites.
//
// Embed Suite in a testify suite:
//
//	type LoginSuite struct {
//		basetest.Suite
//	}
//
//	func (s *LoginSuite) TestLogin() {
//		s.Driver.Get("https://example.com/login")
//		s.Driver.SendKeys(driver.ByID("user"), "admin", false, true)
//	}
//
//	func TestLoginSuite(t *testing.T) {
//		suite.Run(t, new(LoginSuite))
//	}
//
// Each test gets its own report entry, asserter and browser. The report of
// the suite is written when the suite ends.
package basetest

import (
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/stretchr/testify/suite"

	"github.com/wanmail/seleniumframework/api"
	"github.com/wanmail/seleniumframework/check"
	"github.com/wanmail/seleniumframework/config"
	"github.com/wanmail/seleniumframework/driver"
	"github.com/wanmail/seleniumframework/report"
	"github.com/wanmail/seleniumframework/util"
)

// SessionFunc starts a browser and returns it with a func releasing it and
// everything it depends on.
type SessionFunc func(cfg *config.Config) (b driver.Browser, release func() error, err error)

// StartSession starts a browser with driver.NewSession.
func StartSession(cfg *config.Config) (driver.Browser, func() error, error) {
	s, err := driver.NewSession(cfg)
	if err != nil {
		return nil, nil, err
	}
	return s.Browser, s.Close, nil
}

// Suite runs the setup and teardown of every test.
type Suite struct {
	suite.Suite

	// Configs is loaded from ConfigPath in SetupSuite unless already set.
	Configs *config.Config
	// ConfigPath defaults to config.DefaultPath().
	ConfigPath string
	// NoDriver skips starting a browser, for API-only suites.
	NoDriver bool
	// NewSession starts the browser of each test. Defaults to StartSession.
	NewSession SessionFunc

	// Report collects the tests of the suite.
	Report *report.Report
	// Driver, Log and Check belong to the running test.
	Driver *driver.Driver
	Log    *report.Reporter
	Check  *check.Asserter

	suiteName string
	release   func() error
	now       func() time.Time
}

// SetupSuite loads the configuration and creates the report.
func (s *Suite) SetupSuite() {
	if s.Configs == nil {
		p := s.ConfigPath
		if p == "" {
			p = config.DefaultPath()
		}
		cfg, err := config.Load(p)
		s.Require().NoError(err, "loading config")
		s.Configs = cfg
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.suiteName = s.T().Name()

	dir := s.Configs.Report.Dir
	if !filepath.IsAbs(dir) {
		if root, err := util.ProjectDir(); err == nil {
			dir = filepath.Join(root, dir)
		}
	}
	s.Require().NoError(os.MkdirAll(dir, 0755), "creating report directory")

	s.Report = report.New(report.Config{
		Dir:   dir,
		Title: s.Configs.Report.Title,
		Theme: report.Theme(strings.ToLower(s.Configs.Report.Theme)),
	})
	glog.V(1).Infof("suite %s reporting to %s", s.suiteName, dir)
}

// SetupTest creates the report entry and asserter of the test and starts
// its browser.
func (s *Suite) SetupTest() {
	s.Log = report.NewReporter(path.Base(s.T().Name()), s.Report)
	s.Check = check.New(s.T())
	s.Driver = nil
	s.release = nil
	if s.NoDriver {
		return
	}
	s.Require().NoError(s.startBrowser(), "starting browser")
}

func (s *Suite) startBrowser() error {
	start := s.NewSession
	if start == nil {
		start = StartSession
	}
	b, release, err := start(s.Configs)
	if err != nil {
		s.Log.Fatal("Couldn't start the browser" + report.CodeBlock(err.Error()))
		return err
	}
	s.release = release
	s.Driver = driver.New(b, s.Log, s.Check)
	return nil
}

// TearDownTest logs how the test ended and quits its browser.
func (s *Suite) TearDownTest() {
	if s.Log == nil {
		return
	}
	finish(s.Log, s.Check.Outcome(), func() *report.Media {
		if s.Driver == nil {
			return nil
		}
		return s.Driver.CaptureScreenshot("")
	})

	if s.Driver != nil {
		s.Driver.Quit()
	}
	if s.release != nil {
		if err := s.release(); err != nil {
			glog.Warningf("releasing browser of %s: %v", s.T().Name(), err)
		}
	}
	s.Driver, s.release = nil, nil
}

// finish logs the closing entry of a test.
func finish(log *report.Reporter, outcome check.Outcome, screenshot func() *report.Media) {
	switch outcome {
	case check.Passed:
		log.Pass("Test passed successfully")
	case check.Skipped:
		log.Debug("Test skipped")
	case check.Warning:
		log.Warning("Test ended with a warning")
	case check.Inconclusive:
		log.Warning("Test ended without any assertion")
	default:
		log.Error("Test ended with an error", screenshot())
	}
	log.Test().End()
}

// TearDownSuite writes the report and archives it under the suite name.
func (s *Suite) TearDownSuite() {
	if s.Report == nil {
		return
	}
	if err := s.Report.Flush(); err != nil {
		s.T().Errorf("Couldn't save reports: %v", err)
		return
	}
	if _, err := s.Report.Archive(s.suiteName, s.now()); err != nil {
		s.T().Errorf("Couldn't save reports: %v", err)
	}
}

// APIValidator returns a Validator logging to the running test.
func (s *Suite) APIValidator(opts ...api.Option) *api.Validator {
	opts = append([]api.Option{api.WithTimeout(s.Configs.API.Timeout)}, opts...)
	return api.NewValidator(s.Log, s.Check, opts...)
}

// SuiteName returns the name the report is archived under.
func (s *Suite) SuiteName() string {
	return s.suiteName
}
