//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

// Package flow defines the authored bot-flow graph model and the pure
// matching primitives (template rendering, condition matching, intent
// scoring, edge routing) the interpreter is built on.
package flow

// StartNodeID is the implicit entry node of every graph. Execution of a
// fresh turn always begins at the node whose id is "start".
const StartNodeID = "start"

// NodeType identifies the behavior of a node.
type NodeType string

// Node types understood by the interpreter. A graph may carry nodes of
// other types; they route through without effect.
const (
	NodeStart    NodeType = "start"
	NodeMessage  NodeType = "message"
	NodeAsk      NodeType = "ask"
	NodeBranch   NodeType = "branch"
	NodePrompt   NodeType = "prompt"
	NodeKBAnswer NodeType = "kb_answer"
	NodeWebhook  NodeType = "webhook"
	NodeCRMLead  NodeType = "crm_lead"
	NodeCRMDeal  NodeType = "crm_deal"
	NodeHandoff  NodeType = "handoff"
)

// Audience distinguishes staff-facing from client-facing bot behavior.
// It selects which published graph runs and scopes knowledge answers.
type Audience string

// Known audiences.
const (
	AudienceClient Audience = "client"
	AudienceStaff  Audience = "staff"
)

// Settings carries graph-wide authoring settings that node executors may
// fall back to when a node leaves them unset.
type Settings struct {
	Mood         string `json:"mood,omitempty" yaml:"mood,omitempty"`
	CustomPrompt string `json:"custom_prompt,omitempty" yaml:"custom_prompt,omitempty"`
	UseHistory   bool   `json:"use_history,omitempty" yaml:"use_history,omitempty"`
}

// Node is one authored node of a flow graph. Config is the loosely-typed
// per-type configuration map as authored; executors decode the slice of it
// they understand and ignore the rest.
type Node struct {
	ID     string         `json:"id" yaml:"id"`
	Type   NodeType       `json:"type" yaml:"type"`
	Title  string         `json:"title,omitempty" yaml:"title,omitempty"`
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// Edge connects two nodes. An edge with no meaningful condition acts as
// the default route out of its source node.
type Edge struct {
	From      string     `json:"from" yaml:"from"`
	To        string     `json:"to" yaml:"to"`
	Condition *Condition `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// Graph is an authored flow graph. The interpreter treats it as immutable:
// one execution never modifies the graph it was given.
type Graph struct {
	Version  int      `json:"version,omitempty" yaml:"version,omitempty"`
	Settings Settings `json:"settings,omitempty" yaml:"settings,omitempty"`
	Nodes    []Node   `json:"nodes" yaml:"nodes"`
	Edges    []Edge   `json:"edges" yaml:"edges"`
}

// Node returns the first node with the given id. Node ids are assumed
// unique by the authoring subsystem; duplicates are not detected here.
func (g *Graph) Node(id string) (*Node, bool) {
	if g == nil {
		return nil, false
	}
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i], true
		}
	}
	return nil, false
}

// EdgesFrom returns the outgoing edges of a node in authored order.
func (g *Graph) EdgesFrom(id string) []Edge {
	if g == nil {
		return nil
	}
	var out []Edge
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}
