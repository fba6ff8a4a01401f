//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

// Package inmemory provides an in-memory dialog state store, suitable for
// tests and single-process deployments.
package inmemory

import (
	"context"
	"sync"
	"time"

	"trpc.group/trpc-go/botflow/dialog"
)

// Store is an in-memory dialog.Store. Safe for concurrent use across
// dialogs; turns of one dialog must still be serialized by the caller.
type Store struct {
	mu     sync.RWMutex
	states map[string]*dialog.State
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{states: make(map[string]*dialog.State)}
}

// Get returns a copy of the stored state, or nil when the dialog is new.
func (s *Store) Get(ctx context.Context, dialogID string) (*dialog.State, error) {
	if dialogID == "" {
		return nil, dialog.ErrDialogIDRequired
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.states[dialogID]
	if !ok {
		return nil, nil
	}
	return st.Clone(), nil
}

// Put stores a copy of the state under the dialog id.
func (s *Store) Put(ctx context.Context, dialogID string, state *dialog.State) error {
	if dialogID == "" {
		return dialog.ErrDialogIDRequired
	}
	cp := state.Clone()
	cp.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[dialogID] = cp
	return nil
}
