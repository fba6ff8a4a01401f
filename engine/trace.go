//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

package engine

import "trpc.group/trpc-go/botflow/flow"

// Event classifies one execution trace entry.
type Event string

// Trace events emitted during one turn.
const (
	// EventNodeEnter marks a node entering execution.
	EventNodeEnter Event = "node_enter"
	// EventReply marks a reply fragment being produced.
	EventReply Event = "reply"
	// EventMeaning marks a branch node selecting a meaning.
	EventMeaning Event = "meaning"
	// EventPendingResolved marks an inbound message consumed as the
	// answer to a previous ask.
	EventPendingResolved Event = "pending_resolved"
	// EventPendingSet marks an ask node storing a pending request and
	// halting the turn.
	EventPendingSet Event = "pending_set"
	// EventHandoff marks a terminal handoff to a human.
	EventHandoff Event = "handoff"
	// EventExternalError marks a best-effort external call that failed.
	EventExternalError Event = "external_error"
	// EventNodeMissing marks a route to a node id the graph lacks.
	EventNodeMissing Event = "node_missing"
	// EventLoopBreak marks execution halting on a revisited node.
	EventLoopBreak Event = "loop_break"
	// EventBudgetExhausted marks execution halting on the step budget.
	EventBudgetExhausted Event = "budget_exhausted"
)

// TraceEntry is one record of the ordered execution trace produced for
// preview and debugging tooling. Traces are returned, never persisted.
type TraceEntry struct {
	Event    Event         `json:"event"`
	NodeID   string        `json:"node_id,omitempty"`
	NodeType flow.NodeType `json:"node_type,omitempty"`
	Title    string        `json:"title,omitempty"`
	Detail   string        `json:"detail,omitempty"`
}

// tracer collects trace entries. A nil tracer discards everything, so
// non-preview turns pay no allocation for tracing.
type tracer struct {
	entries []TraceEntry
}

func (t *tracer) add(entry TraceEntry) {
	if t == nil {
		return
	}
	t.entries = append(t.entries, entry)
}

func (t *tracer) node(event Event, n *flow.Node, detail string) {
	if t == nil {
		return
	}
	t.add(TraceEntry{
		Event:    event,
		NodeID:   n.ID,
		NodeType: n.Type,
		Title:    n.Title,
		Detail:   detail,
	})
}
