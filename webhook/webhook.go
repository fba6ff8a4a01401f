//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

// Package webhook dispatches authored outbound webhooks: a JSON POST to a
// flow-authored URL with a short bounded timeout. Dispatch is
// fire-and-forget from the engine's perspective; a failure is an error
// for the engine to log, never to abort a turn on.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultTimeout bounds a webhook POST when no other timeout is set.
const DefaultTimeout = 5 * time.Second

// Dispatcher posts a JSON payload to an authored URL.
type Dispatcher interface {
	Post(ctx context.Context, url string, payload map[string]any) error
}

// HTTPDispatcher is the resty-backed Dispatcher.
type HTTPDispatcher struct {
	http *resty.Client
}

// Option configures the dispatcher.
type Option func(*options)

type options struct {
	timeout time.Duration
	debug   bool
}

// WithTimeout bounds each POST. Default 5s.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithDebug enables request/response logging of the underlying client.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = debug
	}
}

// NewHTTPDispatcher creates a dispatcher with a bounded timeout.
func NewHTTPDispatcher(opts ...Option) *HTTPDispatcher {
	o := &options{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(o)
	}
	return &HTTPDispatcher{
		http: resty.New().
			SetTimeout(o.timeout).
			SetDebug(o.debug),
	}
}

// Post sends the payload as a JSON body. Any non-2xx status is an error.
func (d *HTTPDispatcher) Post(ctx context.Context, url string, payload map[string]any) error {
	if url == "" {
		return errors.New("webhook: url is empty")
	}
	resp, err := d.http.R().
		SetContext(ctx).
		SetBody(payload).
		Post(url)
	if err != nil {
		return fmt.Errorf("webhook: post %s: %w", url, err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook: post %s: http %d", url, resp.StatusCode())
	}
	return nil
}
