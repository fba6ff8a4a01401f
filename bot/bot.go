//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

// Package bot wires the flow engine to its stores: live turns load the
// published graph and the dialog state, execute, and persist; preview
// turns run against caller-supplied graph and state and persist nothing.
package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"trpc.group/trpc-go/botflow/dialog"
	"trpc.group/trpc-go/botflow/dialog/inmemory"
	"trpc.group/trpc-go/botflow/engine"
	"trpc.group/trpc-go/botflow/flow"
	"trpc.group/trpc-go/botflow/flowstore"
	"trpc.group/trpc-go/botflow/log"
)

// ErrPortalIDRequired is returned when a request has no portal id.
var ErrPortalIDRequired = errors.New("portal id is required")

// Service answers inbound chat messages for portals.
type Service struct {
	engine  *engine.Engine
	dialogs dialog.Store
	flows   flowstore.Store
	logger  log.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithEngine sets the flow engine. Default is a bare engine with no
// external collaborators.
func WithEngine(e *engine.Engine) Option {
	return func(s *Service) {
		s.engine = e
	}
}

// WithDialogStore sets the dialog state store. Default is in-memory.
func WithDialogStore(store dialog.Store) Option {
	return func(s *Service) {
		s.dialogs = store
	}
}

// WithFlowStore sets the published-graph store. Without one every portal
// runs the built-in default graph.
func WithFlowStore(store flowstore.Store) Option {
	return func(s *Service) {
		s.flows = store
	}
}

// WithLogger overrides the service logger.
func WithLogger(l log.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New creates a Service.
func New(opts ...Option) *Service {
	s := &Service{
		engine:  engine.New(),
		dialogs: inmemory.NewStore(),
		logger:  log.Default,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RespondRequest is one live inbound message.
type RespondRequest struct {
	PortalID string
	// DialogID identifies the conversation. Empty mints a new dialog.
	DialogID string
	Audience flow.Audience
	Message  string
}

// RespondResult is the reply to one live turn.
type RespondResult struct {
	Reply string
	// DialogID echoes the request's id, or the freshly minted one.
	DialogID string
}

// Respond executes one live turn and persists the updated state. Turns of
// one dialog must be serialized by the caller; turns of different dialogs
// are independent.
func (s *Service) Respond(ctx context.Context, req *RespondRequest) (*RespondResult, error) {
	if req.PortalID == "" {
		return nil, ErrPortalIDRequired
	}
	dialogID := req.DialogID
	if dialogID == "" {
		dialogID = uuid.NewString()
	}
	graph, err := s.publishedGraph(ctx, req.PortalID, req.Audience)
	if err != nil {
		return nil, err
	}
	state, err := s.dialogs.Get(ctx, dialogID)
	if err != nil {
		return nil, fmt.Errorf("load dialog %s: %w", dialogID, err)
	}
	if state == nil {
		state = dialog.New()
	}
	res := s.engine.Execute(ctx, &engine.Request{
		Graph:    graph,
		State:    state,
		Message:  req.Message,
		PortalID: req.PortalID,
		DialogID: dialogID,
		Audience: req.Audience,
	})
	if err := s.dialogs.Put(ctx, dialogID, res.State); err != nil {
		return nil, fmt.Errorf("persist dialog %s: %w", dialogID, err)
	}
	return &RespondResult{Reply: res.Reply, DialogID: dialogID}, nil
}

// PreviewRequest simulates one turn for authoring tooling. Graph and
// State, when set, replace the stored ones.
type PreviewRequest struct {
	PortalID string
	Audience flow.Audience
	Message  string
	// Graph overrides the published graph; nil falls back to the
	// published one (or the built-in default).
	Graph *flow.Graph
	// State overrides the stored state; nil means a fresh conversation.
	// Preview never reads or writes the dialog store.
	State *dialog.State
}

// PreviewResult is the outcome of a preview turn, always traced.
type PreviewResult struct {
	Reply string
	State *dialog.State
	Trace []engine.TraceEntry
}

// Preview executes one turn without persisting anything and returns the
// execution trace.
func (s *Service) Preview(ctx context.Context, req *PreviewRequest) (*PreviewResult, error) {
	if req.PortalID == "" {
		return nil, ErrPortalIDRequired
	}
	graph := req.Graph
	if graph == nil {
		var err error
		graph, err = s.publishedGraph(ctx, req.PortalID, req.Audience)
		if err != nil {
			return nil, err
		}
	}
	res := s.engine.Execute(ctx, &engine.Request{
		Graph:    graph,
		State:    req.State,
		Message:  req.Message,
		PortalID: req.PortalID,
		Audience: req.Audience,
		Trace:    true,
	})
	return &PreviewResult{Reply: res.Reply, State: res.State, Trace: res.Trace}, nil
}

func (s *Service) publishedGraph(ctx context.Context, portalID string, audience flow.Audience) (*flow.Graph, error) {
	if s.flows == nil {
		return flowstore.Default(), nil
	}
	g, err := s.flows.GetPublished(ctx, portalID, audience)
	if err != nil {
		return nil, fmt.Errorf("load published flow of %s/%s: %w", portalID, audience, err)
	}
	if g == nil {
		s.logger.Debugf("portal %s has no published %s flow, using default", portalID, audience)
		return flowstore.Default(), nil
	}
	return g, nil
}
