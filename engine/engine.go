//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

// Package engine interprets authored bot-flow graphs: one inbound message
// plus one conversation state in, one reply plus the updated state out.
// A turn is a single-threaded bounded walk of the graph; a broken graph
// degrades to a poor conversation, never a failed request.
package engine

import (
	"context"
	"strings"

	"trpc.group/trpc-go/botflow/crm"
	"trpc.group/trpc-go/botflow/dialog"
	"trpc.group/trpc-go/botflow/flow"
	"trpc.group/trpc-go/botflow/knowledge"
	"trpc.group/trpc-go/botflow/log"
	"trpc.group/trpc-go/botflow/webhook"
)

// Fixed replies. The product speaks Russian; localization of these
// strings happens upstream of the engine.
const (
	// DefaultReply is returned when a turn produced no reply fragments.
	DefaultReply = "Готов помочь. Задайте вопрос."
	// DefaultHandoffText is the handoff reply when the node has none.
	DefaultHandoffText = "Передаю менеджеру."
	// ApologyReply substitutes for an empty knowledge-base answer.
	ApologyReply = "Извините, я не смог найти ответ на ваш вопрос."
)

// DefaultMaxSteps bounds how many nodes one turn may execute. Together
// with the revisit guard it is the loop-protection contract; changing it
// changes worst-case latency for every portal.
const DefaultMaxSteps = 20

// replySeparator joins reply fragments.
const replySeparator = "\n\n"

// Engine executes one conversational turn against a flow graph. All
// external collaborators are optional: a missing one turns the node types
// depending on it into no-ops (kb_answer degrades to the apology reply).
type Engine struct {
	knowledge   knowledge.Answerer
	crm         crm.Client
	connections crm.ConnectionStore
	webhooks    webhook.Dispatcher
	maxSteps    int
	logger      log.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithKnowledge sets the knowledge-base answering capability.
func WithKnowledge(a knowledge.Answerer) Option {
	return func(e *Engine) {
		e.knowledge = a
	}
}

// WithCRM sets the CRM client and the per-portal connection registry.
func WithCRM(client crm.Client, connections crm.ConnectionStore) Option {
	return func(e *Engine) {
		e.crm = client
		e.connections = connections
	}
}

// WithWebhookDispatcher sets the outbound webhook dispatcher.
func WithWebhookDispatcher(d webhook.Dispatcher) Option {
	return func(e *Engine) {
		e.webhooks = d
	}
}

// WithMaxSteps overrides the step budget. Values below 1 keep the default.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithLogger overrides the logger used for best-effort failure paths.
func WithLogger(l log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxSteps: DefaultMaxSteps,
		logger:   log.Default,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Request is one turn of one conversation.
type Request struct {
	// Graph is the flow to execute. A nil or empty graph yields the
	// default reply.
	Graph *flow.Graph
	// State is the caller's snapshot of the conversation state; the
	// engine works on a copy and never mutates it in place. Nil means a
	// fresh conversation.
	State *dialog.State
	// Message is the inbound message text.
	Message string
	// PortalID scopes knowledge answers, CRM connections and webhook
	// payloads.
	PortalID string
	// DialogID identifies the conversation; empty in preview runs.
	DialogID string
	// Audience selects staff or client behavior for knowledge answers.
	Audience flow.Audience
	// Trace requests an execution trace on the result.
	Trace bool
}

// Result is the outcome of one turn. The engine itself persists nothing;
// the caller stores State after a live (non-preview) turn.
type Result struct {
	// Reply is the concatenated reply text, never empty.
	Reply string
	// State is the updated conversation state.
	State *dialog.State
	// Trace is the ordered execution trace; nil unless requested.
	Trace []TraceEntry
}

// Execute runs one turn. It never fails: malformed authoring degrades to
// skipped nodes, external-call failures are logged and swallowed, and the
// step budget plus revisit guard bound the walk.
func (e *Engine) Execute(ctx context.Context, req *Request) *Result {
	st := req.State.Clone()
	vars := st.Vars
	if vars == nil {
		vars = flow.Vars{}
	}

	var tr *tracer
	if req.Trace {
		tr = &tracer{}
	}

	// Resolve a pending ask: the inbound message answers the stored
	// question and the walk resumes at the declared node.
	current := flow.StartNodeID
	if p := st.Pending; p != nil {
		if p.Var != "" {
			vars[p.Var] = req.Message
		}
		if p.Next != "" {
			current = p.Next
		}
		st.Pending = nil
		tr.add(TraceEntry{Event: EventPendingResolved, NodeID: current, Detail: p.Var})
	}

	w := &walk{
		engine: e,
		req:    req,
		graph:  req.Graph,
		vars:   vars,
		tr:     tr,
	}
	w.run(ctx, current)

	reply := strings.Join(w.replies, replySeparator)
	if reply == "" {
		reply = DefaultReply
	}

	st.Vars = vars
	st.Pending = w.pending
	res := &Result{Reply: reply, State: st}
	if tr != nil {
		res.Trace = tr.entries
	}
	return res
}

// walk is the per-execution interpreter state: accumulated reply
// fragments, the new pending ask if an ask node halted the turn, and the
// revisit counters of the loop guard.
type walk struct {
	engine  *Engine
	req     *Request
	graph   *flow.Graph
	vars    flow.Vars
	tr      *tracer
	replies []string
	pending *dialog.Pending
}

func (w *walk) run(ctx context.Context, current string) {
	visits := make(map[string]int)
	for steps := 0; current != ""; steps++ {
		if steps >= w.engine.maxSteps {
			w.tr.add(TraceEntry{Event: EventBudgetExhausted, NodeID: current})
			return
		}
		node, ok := w.graph.Node(current)
		if !ok {
			w.tr.add(TraceEntry{Event: EventNodeMissing, NodeID: current})
			return
		}
		// The start node only routes, so revisiting it is harmless;
		// effectful nodes halt the turn on their second entry. Anything
		// else (pass-through unknowns) is bounded by the step budget.
		visits[current]++
		if visits[current] > 1 && breaksOnRevisit(node.Type) {
			w.tr.node(EventLoopBreak, node, "")
			return
		}
		w.tr.node(EventNodeEnter, node, "")
		next, halt := w.execute(ctx, node)
		if halt {
			return
		}
		current = next
	}
}

func (w *walk) reply(node *flow.Node, text string) {
	w.replies = append(w.replies, text)
	w.tr.node(EventReply, node, text)
}

// breaksOnRevisit reports whether entering a node of this type a second
// time in one turn halts execution.
func breaksOnRevisit(t flow.NodeType) bool {
	switch t {
	case flow.NodeMessage, flow.NodeKBAnswer, flow.NodeAsk, flow.NodeBranch,
		flow.NodePrompt, flow.NodeWebhook, flow.NodeCRMLead, flow.NodeCRMDeal:
		return true
	}
	return false
}

// route picks the next node out of node via the two-pass edge router.
func (w *walk) route(node *flow.Node) string {
	next, ok := flow.NextNode(w.graph, node.ID, w.req.Message, w.vars)
	if !ok {
		return ""
	}
	return next
}
