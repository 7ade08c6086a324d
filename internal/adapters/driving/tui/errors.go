package tui

import "errors"

// ErrMissingSession is returned when the session is not provided.
var ErrMissingSession = errors.New("tui: session is required")
