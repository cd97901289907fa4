package httpserver

import "errors"

var (
	// ErrStart wraps listener bind and serve failures.
	ErrStart = errors.New("httpserver: start failed")
	// ErrShutdown wraps drain failures; in-flight requests were cut off.
	ErrShutdown = errors.New("httpserver: shutdown incomplete")
)
