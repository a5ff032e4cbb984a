package report

import (
	"fmt"
	"strings"
)

// Status is the severity of a log entry.
type Status int

// The valid statuses, from least to most severe.
const (
	Info Status = iota
	Debug
	Pass
	Skip
	Warning
	Error
	Fail
	Fatal
)

var statusNames = map[Status]string{
	Info:    "Info",
	Debug:   "Debug",
	Pass:    "Pass",
	Skip:    "Skip",
	Warning: "Warning",
	Error:   "Error",
	Fail:    "Fail",
	Fatal:   "Fatal",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

// ParseStatus returns the status with the given case-insensitive name.
func ParseStatus(name string) (Status, error) {
	for s, n := range statusNames {
		if strings.EqualFold(n, name) {
			return s, nil
		}
	}
	return Info, fmt.Errorf("unknown status %q", name)
}

// worse reports whether s is more severe than other.
func (s Status) worse(other Status) bool {
	return s > other
}
