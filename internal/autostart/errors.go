package autostart

import "errors"

var ErrUnsupported = errors.New("autostart is not supported on this platform")
