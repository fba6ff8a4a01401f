//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory published-graph store, suitable
// for tests and for embedding the engine with hand-built graphs.
package inmemory

import (
	"context"
	"sync"

	"trpc.group/trpc-go/botflow/flow"
)

type key struct {
	portalID string
	audience flow.Audience
}

// Store is an in-memory flowstore.Store.
type Store struct {
	mu     sync.RWMutex
	graphs map[key]*flow.Graph
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{graphs: make(map[key]*flow.Graph)}
}

// Publish registers the graph as the published one for the portal and
// audience, replacing any previous graph.
func (s *Store) Publish(portalID string, audience flow.Audience, g *flow.Graph) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[key{portalID, audience}] = g
}

// GetPublished returns the published graph, or nil when none exists.
func (s *Store) GetPublished(ctx context.Context, portalID string, audience flow.Audience) (*flow.Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.graphs[key{portalID, audience}], nil
}
