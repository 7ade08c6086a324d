// Package mcp provides an MCP (Model Context Protocol) server adapter for kbase.
// It lets AI assistants build a knowledge base from URLs, files and text and
// ask grounded questions against it.
package mcp

import "errors"

// ErrMissingSession is returned when the session is not provided.
var ErrMissingSession = errors.New("mcp: session is required")
