//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

// Package bitrix implements the crm.Client interface against the
// Bitrix24 REST API over an inbound-webhook endpoint.
package bitrix

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"trpc.group/trpc-go/botflow/crm"
)

const defaultTimeout = 10 * time.Second

// Client calls Bitrix24 REST methods. Method names map straight onto the
// REST path: crm.lead.add -> {endpoint}/crm.lead.add.json.
type Client struct {
	http *resty.Client
}

// Option configures the client.
type Option func(*options)

type options struct {
	timeout    time.Duration
	retryCount int
	debug      bool
}

// WithTimeout bounds each REST call. Default 10s.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

// WithRetryCount retries transient failures up to n times. Default 0.
func WithRetryCount(n int) Option {
	return func(o *options) {
		o.retryCount = n
	}
}

// WithDebug enables request/response logging of the underlying client.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.debug = debug
	}
}

// NewClient creates a Bitrix24 REST client.
func NewClient(opts ...Option) *Client {
	o := &options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(o)
	}
	return &Client{
		http: resty.New().
			SetTimeout(o.timeout).
			SetRetryCount(o.retryCount).
			SetDebug(o.debug),
	}
}

type callResponse struct {
	Result           any    `json:"result"`
	ErrorCode        string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Call issues one REST method with the given record fields.
func (c *Client) Call(ctx context.Context, conn *crm.Connection, method string, fields map[string]any) (map[string]any, error) {
	if conn == nil || conn.Endpoint == "" {
		return nil, errors.New("bitrix: connection has no endpoint")
	}
	if method == "" {
		return nil, errors.New("bitrix: method is required")
	}
	url := strings.TrimRight(conn.Endpoint, "/") + "/" + method + ".json"
	var out callResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"fields": fields}).
		SetResult(&out).
		SetError(&out).
		Post(url)
	if err != nil {
		return nil, fmt.Errorf("bitrix: %s: %w", method, err)
	}
	if out.ErrorCode != "" {
		return nil, fmt.Errorf("bitrix: %s: %s: %s", method, out.ErrorCode, out.ErrorDescription)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("bitrix: %s: http %d", method, resp.StatusCode())
	}
	return map[string]any{"result": out.Result}, nil
}
