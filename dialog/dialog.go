//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

// Package dialog provides the durable per-conversation state and the
// store interface it is persisted through.
package dialog

import (
	"context"
	"errors"
	"time"

	"trpc.group/trpc-go/botflow/flow"
)

// ErrDialogIDRequired is returned by stores when the dialog id is empty.
var ErrDialogIDRequired = errors.New("dialog id is required")

// Pending records a question waiting for the next inbound message. The
// message is written into Var and execution resumes at Next. A state
// carries at most one pending request.
type Pending struct {
	Var  string `json:"var"`
	Next string `json:"next,omitempty"`
}

// State is the conversation state of one dialog. It is exclusively owned
// by that dialog: created lazily on the first turn, mutated every turn,
// persisted by the caller after each non-preview execution.
type State struct {
	Vars      flow.Vars `json:"vars"`
	Pending   *Pending  `json:"pending,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// New returns an empty state ready for a first turn.
func New() *State {
	now := time.Now().UTC()
	return &State{
		Vars:      flow.Vars{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a copy whose vars map is independent of the receiver.
func (s *State) Clone() *State {
	if s == nil {
		return New()
	}
	out := &State{
		Vars:      s.Vars.Clone(),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Pending != nil {
		p := *s.Pending
		out.Pending = &p
	}
	return out
}

// Store persists conversation state keyed by dialog id. Get returns
// (nil, nil) when the dialog has no stored state yet. Implementations do
// not serialize concurrent turns of one dialog; that is the caller's
// contract.
type Store interface {
	// Get returns the stored state of a dialog, or nil when absent.
	Get(ctx context.Context, dialogID string) (*State, error)
	// Put stores the state of a dialog, replacing any previous one.
	Put(ctx context.Context, dialogID string, state *State) error
}
