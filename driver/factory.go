package driver

import (
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/mediabuyerbot/go-crx3"
	"github.com/tebeka/selenium"
	"github.com/tebeka/selenium/chrome"
	"github.com/tebeka/selenium/firefox"
	"github.com/tebeka/selenium/sauce"

	"github.com/wanmail/seleniumframework/config"
	"github.com/wanmail/seleniumframework/internal/proxy"
)

// BrowserType is a browser a session can be started with.
type BrowserType int

// Supported browsers.
const (
	Chrome BrowserType = iota
	Firefox
	Edge
)

func (b BrowserType) String() string {
	switch b {
	case Firefox:
		return "firefox"
	case Edge:
		return "edge"
	default:
		return "chrome"
	}
}

// ParseBrowserType parses a browser name, ignoring case. Unknown names give
// Chrome.
func ParseBrowserType(name string) BrowserType {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "firefox":
		return Firefox
	case "edge", "msedge", "microsoftedge":
		return Edge
	default:
		return Chrome
	}
}

// LocalProxy is the proxy setting that starts a SOCKS5 proxy in-process.
const LocalProxy = "local"

const edgeCapabilitiesKey = "ms:edgeOptions"

// Capabilities builds the capabilities of a new session from cfg. Browser
// traffic goes through the SOCKS5 proxy at proxyAddr when it is not empty.
func Capabilities(cfg *config.Config, proxyAddr string) (selenium.Capabilities, error) {
	bt := ParseBrowserType(cfg.Browser)
	width, height, err := cfg.Window()
	if err != nil {
		return nil, err
	}
	windowSize := fmt.Sprintf("--window-size=%d,%d", width, height)

	caps := selenium.Capabilities{}
	switch bt {
	case Firefox:
		caps["browserName"] = "firefox"
		var args []string
		if cfg.Headless {
			args = append(args, "-headless")
		}
		caps.AddFirefox(firefox.Capabilities{Args: append(args, windowSize)})
	case Edge:
		caps["browserName"] = "MicrosoftEdge"
		args := chromiumArgs(cfg.Headless, windowSize)
		args = append(args, "disable-gpu")
		extensions, err := packExtensions(cfg.Extensions)
		if err != nil {
			return nil, err
		}
		if len(extensions) == 0 {
			args = append(args, "--disable-extensions")
		}
		opts := map[string]interface{}{"args": args}
		if len(extensions) > 0 {
			opts["extensions"] = extensions
		}
		caps[edgeCapabilitiesKey] = opts
	default:
		caps["browserName"] = "chrome"
		extensions, err := packExtensions(cfg.Extensions)
		if err != nil {
			return nil, err
		}
		caps.AddChrome(chrome.Capabilities{
			Args:       chromiumArgs(cfg.Headless, windowSize),
			Extensions: extensions,
			W3C:        true,
		})
	}

	if proxyAddr != "" {
		caps.AddProxy(selenium.Proxy{
			Type:         selenium.Manual,
			SOCKS:        proxyAddr,
			SOCKSVersion: 5,
		})
	}

	if cfg.Sauce.Enabled() {
		sc := &sauce.Capabilities{
			Browser:  caps["browserName"].(string),
			Version:  cfg.Sauce.Version,
			Platform: cfg.Sauce.Platform,
		}
		m, err := sc.ToMap()
		if err != nil {
			return nil, fmt.Errorf("error obtaining map for sauce.Capabilities: %w", err)
		}
		for k, v := range m {
			caps[k] = v
		}
	}
	return caps, nil
}

func chromiumArgs(headless bool, windowSize string) []string {
	var args []string
	if headless {
		args = append(args, "--headless")
	}
	return append(args, "--ignore-ssl-errors=yes", "--ignore-certificate-errors", windowSize)
}

// packExtensions packs each unpacked extension directory into a CRX3
// archive and returns the archives base64-encoded. Paths ending in .crx are
// used as they are.
func packExtensions(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	dir, err := os.MkdirTemp("", "seleniumframework-crx")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	var out []string
	for i, p := range paths {
		crx := p
		if !strings.EqualFold(filepath.Ext(p), ".crx") {
			crx = filepath.Join(dir, strconv.Itoa(i)+".crx")
			if err := crx3.Pack(p, crx, nil); err != nil {
				return nil, fmt.Errorf("error packing extension %q: %w", p, err)
			}
		}
		data, err := os.ReadFile(crx)
		if err != nil {
			return nil, err
		}
		out = append(out, base64.StdEncoding.EncodeToString(data))
	}
	return out, nil
}

// Session is a browser session together with the processes it depends on.
type Session struct {
	Browser Browser

	wd      selenium.WebDriver
	service *selenium.Service
	proxy   *proxy.Server
}

// newRemote is replaced in tests.
var newRemote = selenium.NewRemote

// NewSession starts a browser as configured by cfg. A driver binary is
// started when cfg.DriverPath is set and neither Sauce Labs nor a remote
// URL are configured.
func NewSession(cfg *config.Config) (_ *Session, err error) {
	s := &Session{}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	proxyAddr := cfg.Proxy
	if proxyAddr == LocalProxy {
		if s.proxy, err = proxy.Start("127.0.0.1:0"); err != nil {
			return nil, err
		}
		proxyAddr = s.proxy.Addr()
	}

	caps, err := Capabilities(cfg, proxyAddr)
	if err != nil {
		return nil, err
	}

	urlPrefix, err := s.serverURL(cfg)
	if err != nil {
		return nil, err
	}

	glog.Infof("starting %s session at %s", ParseBrowserType(cfg.Browser), urlPrefix)
	if s.wd, err = newRemote(caps, urlPrefix); err != nil {
		return nil, fmt.Errorf("error starting browser: %w", err)
	}
	s.Browser = sessionBrowser{Remote(s.wd, urlPrefix), s}

	if d, ok := cfg.ImplicitWaitDuration(); ok {
		if err := s.wd.SetImplicitWaitTimeout(d); err != nil {
			return nil, fmt.Errorf("error setting implicit wait: %w", err)
		}
	}
	if err := s.wd.MaximizeWindow(""); err != nil {
		// Headless browsers may refuse.
		glog.Warningf("maximize window: %v", err)
	}
	return s, nil
}

func (s *Session) serverURL(cfg *config.Config) (string, error) {
	switch {
	case cfg.Sauce.Enabled():
		return sauce.Addr(cfg.Sauce.User, cfg.Sauce.AccessKey), nil
	case cfg.RemoteURL != "":
		return cfg.RemoteURL, nil
	case cfg.DriverPath != "":
		var err error
		if ParseBrowserType(cfg.Browser) == Firefox {
			if s.service, err = selenium.NewGeckoDriverService(cfg.DriverPath, cfg.DriverPort); err != nil {
				return "", fmt.Errorf("error starting geckodriver: %w", err)
			}
			return fmt.Sprintf("http://localhost:%d", cfg.DriverPort), nil
		}
		if s.service, err = selenium.NewChromeDriverService(cfg.DriverPath, cfg.DriverPort); err != nil {
			return "", fmt.Errorf("error starting %s: %w", filepath.Base(cfg.DriverPath), err)
		}
		return fmt.Sprintf("http://localhost:%d/wd/hub", cfg.DriverPort), nil
	default:
		return fmt.Sprintf("http://localhost:%d/wd/hub", cfg.DriverPort), nil
	}
}

// sessionBrowser lets a Driver quit the browser without Close quitting it
// a second time.
type sessionBrowser struct {
	Browser
	s *Session
}

func (b sessionBrowser) Quit() error {
	return b.s.quit()
}

func (s *Session) quit() error {
	if s.wd == nil {
		return nil
	}
	err := s.wd.Quit()
	s.wd = nil
	return err
}

// Close quits the browser and stops the driver and proxy. It returns the
// first error encountered.
func (s *Session) Close() error {
	var first error
	keep := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	keep(s.quit())
	if s.service != nil {
		keep(s.service.Stop())
		s.service = nil
	}
	if s.proxy != nil {
		keep(s.proxy.Close())
		s.proxy = nil
	}
	return first
}
