// Package config loads the settings shared by all tests of a project.
//
// Settings come from a JSON file (config.json at the project root by
// default) and may be overridden per run through SF_-prefixed environment
// variables, e.g. SF_BROWSER=firefox or SF_IMPLICIT_WAIT=5.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/wanmail/seleniumframework/util"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "SF"

// FileName is the name of the config file looked up by DefaultPath.
const FileName = "config.json"

// Config holds the settings of a test run.
type Config struct {
	// Browser is one of chrome, firefox or edge. Anything else means chrome.
	Browser string `mapstructure:"browser" json:"browser"`
	// Headless starts the browser without a visible window.
	Headless bool `mapstructure:"headless" json:"headless"`
	// ImplicitWait is the implicit element lookup timeout in seconds. A
	// negative value leaves the driver default untouched.
	ImplicitWait int `mapstructure:"implicit-wait" json:"implicit-wait"`
	// DriverPath is the chromedriver, msedgedriver or geckodriver binary to
	// start. Leave empty to use RemoteURL.
	DriverPath string `mapstructure:"driver-path" json:"driver-path"`
	// DriverPort is the port the started driver listens on.
	DriverPort int `mapstructure:"driver-port" json:"driver-port"`
	// RemoteURL is the address of an already running WebDriver server.
	RemoteURL string `mapstructure:"remote-url" json:"remote-url"`
	// WindowSize is "width,height".
	WindowSize string `mapstructure:"window-size" json:"window-size"`
	// Extensions are unpacked browser extensions to install (Chrome and
	// Edge only).
	Extensions []string `mapstructure:"extensions" json:"extensions"`
	// Proxy routes browser traffic through a SOCKS5 proxy: "local" starts
	// one in-process, "host:port" uses an existing one.
	Proxy string `mapstructure:"proxy" json:"proxy"`

	Sauce  SauceConfig  `mapstructure:"sauce" json:"sauce"`
	Report ReportConfig `mapstructure:"report" json:"report"`
	API    APIConfig    `mapstructure:"api" json:"api"`
}

// SauceConfig configures running the browser on Sauce Labs.
type SauceConfig struct {
	User      string `mapstructure:"user" json:"user"`
	AccessKey string `mapstructure:"access-key" json:"access-key"`
	Platform  string `mapstructure:"platform" json:"platform"`
	Version   string `mapstructure:"version" json:"version"`
}

// Enabled reports whether Sauce Labs credentials are set.
func (s SauceConfig) Enabled() bool {
	return s.User != "" && s.AccessKey != ""
}

// ReportConfig configures the HTML report.
type ReportConfig struct {
	Dir   string `mapstructure:"dir" json:"dir"`
	Title string `mapstructure:"title" json:"title"`
	Theme string `mapstructure:"theme" json:"theme"`
}

// APIConfig configures the API validation client.
type APIConfig struct {
	// Timeout bounds each request. A bare number is in seconds, a string
	// such as "1m30s" is a Go duration. Zero means no timeout.
	Timeout time.Duration `mapstructure:"timeout" json:"timeout"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("browser", "chrome")
	v.SetDefault("headless", true)
	v.SetDefault("implicit-wait", 15)
	v.SetDefault("driver-path", "")
	v.SetDefault("driver-port", 4444)
	v.SetDefault("remote-url", "")
	v.SetDefault("window-size", "1980,1080")
	v.SetDefault("extensions", []string{})
	v.SetDefault("proxy", "")
	v.SetDefault("sauce.user", "")
	v.SetDefault("sauce.access-key", "")
	v.SetDefault("sauce.platform", "")
	v.SetDefault("sauce.version", "")
	v.SetDefault("report.dir", "Reports")
	v.SetDefault("report.title", "Epam tests")
	v.SetDefault("report.theme", "standard")
	v.SetDefault("api.timeout", 0)
}

// DefaultPath returns the config file named by SF_CONFIG, or config.json
// in the project directory.
func DefaultPath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}
	dir, err := util.ProjectDir()
	if err != nil {
		return FileName
	}
	return filepath.Join(dir, FileName)
}

// Load reads the config file at path, applies environment overrides and
// validates the result. A missing file is not an error: defaults and
// environment are used instead.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType(strings.TrimPrefix(filepath.Ext(path), "."))
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("error reading config %q: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}
	return LoadFrom(v)
}

var durationType = reflect.TypeOf(time.Duration(0))

// secondsHook decodes a number given for a duration as seconds, the unit of
// implicit-wait. Environment values are strings, so numeric strings count as
// numbers too.
func secondsHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if to != durationType || from == durationType {
		return data, nil
	}
	v := reflect.ValueOf(data)
	switch from.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return time.Duration(v.Int()) * time.Second, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return time.Duration(v.Uint()) * time.Second, nil
	case reflect.Float32, reflect.Float64:
		return time.Duration(v.Float() * float64(time.Second)), nil
	case reflect.String:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v.String()), 64); err == nil {
			return time.Duration(f * float64(time.Second)), nil
		}
	}
	return data, nil
}

// LoadFrom builds a validated Config from v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var cfg Config
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		secondsHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(&cfg, hooks); err != nil {
		return nil, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot fall back to a default.
func (c *Config) Validate() error {
	if c.DriverPort < 0 || c.DriverPort > 65535 {
		return fmt.Errorf("driver-port %d out of range", c.DriverPort)
	}
	switch strings.ToLower(c.Report.Theme) {
	case "", "standard", "dark":
	default:
		return fmt.Errorf("unknown report theme %q", c.Report.Theme)
	}
	if _, _, err := c.Window(); err != nil {
		return err
	}
	if c.Sauce.User != "" && c.Sauce.AccessKey == "" {
		return fmt.Errorf("sauce.user is set without sauce.access-key")
	}
	return nil
}

// Window returns the parsed window size.
func (c *Config) Window() (width, height int, err error) {
	parts := strings.Split(c.WindowSize, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("window-size %q must be of the form width,height", c.WindowSize)
	}
	if width, err = strconv.Atoi(strings.TrimSpace(parts[0])); err != nil || width <= 0 {
		return 0, 0, fmt.Errorf("invalid window width in %q", c.WindowSize)
	}
	if height, err = strconv.Atoi(strings.TrimSpace(parts[1])); err != nil || height <= 0 {
		return 0, 0, fmt.Errorf("invalid window height in %q", c.WindowSize)
	}
	return width, height, nil
}

// ImplicitWaitDuration returns ImplicitWait as a duration. ok is false when
// the implicit wait should not be set.
func (c *Config) ImplicitWaitDuration() (d time.Duration, ok bool) {
	if c.ImplicitWait < 0 {
		return 0, false
	}
	return time.Duration(c.ImplicitWait) * time.Second, true
}
