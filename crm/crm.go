//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

// Package crm defines the CRM record-create capability consumed by the
// crm_lead and crm_deal node executors, plus the per-portal connection
// registry. OAuth and token refresh live in the concrete client, outside
// the engine.
package crm

import (
	"context"
	"sync"
)

// CRM methods issued by the flow engine.
const (
	MethodLeadAdd = "crm.lead.add"
	MethodDealAdd = "crm.deal.add"
)

// Connection is a portal's CRM connection record.
type Connection struct {
	PortalID string `json:"portal_id"`
	// Endpoint is the base REST endpoint of the portal's CRM, already
	// carrying whatever auth the transport needs (inbound webhook URL).
	Endpoint string `json:"endpoint"`
}

// Client issues a record-create call against a portal's CRM. Failures are
// returned as errors; the engine treats every CRM call as best-effort.
type Client interface {
	Call(ctx context.Context, conn *Connection, method string, fields map[string]any) (map[string]any, error)
}

// ConnectionStore resolves the CRM connection of a portal. Get returns
// (nil, nil) when the portal has no connection configured.
type ConnectionStore interface {
	Get(ctx context.Context, portalID string) (*Connection, error)
}

// InMemoryConnections is a ConnectionStore backed by a map, for tests and
// single-process deployments.
type InMemoryConnections struct {
	mu    sync.RWMutex
	conns map[string]*Connection
}

// NewInMemoryConnections creates an empty connection registry.
func NewInMemoryConnections() *InMemoryConnections {
	return &InMemoryConnections{conns: make(map[string]*Connection)}
}

// Set registers or replaces a portal's connection.
func (s *InMemoryConnections) Set(conn *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn.PortalID] = conn
}

// Get returns the portal's connection, or nil when none is configured.
func (s *InMemoryConnections) Get(ctx context.Context, portalID string) (*Connection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conns[portalID], nil
}
