package driver

import (
	"fmt"

	"github.com/golang/glog"
)

var debugFlag = false

// SetDebug turns on logging of every browser call the driver makes.
func SetDebug(debug bool) {
	debugFlag = debug
}

func debugLog(format string, args ...interface{}) {
	if !debugFlag {
		return
	}
	glog.InfoDepth(1, fmt.Sprintf(format, args...))
}
