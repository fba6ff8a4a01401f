//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

// Package flowstore resolves the published flow graph of a portal and
// audience. Authoring and publishing of graphs happen elsewhere; the
// engine only reads.
package flowstore

import (
	"context"

	"trpc.group/trpc-go/botflow/flow"
)

// Store resolves published flow graphs. GetPublished returns (nil, nil)
// when the portal has not published a graph for the audience; callers
// fall back to Default().
type Store interface {
	GetPublished(ctx context.Context, portalID string, audience flow.Audience) (*flow.Graph, error)
}

// Default returns the built-in fallback graph used when a portal has no
// published flow: a single start -> kb_answer edge with a neutral mood.
// Every call returns a fresh graph; callers may hold it across turns.
func Default() *flow.Graph {
	return &flow.Graph{
		Version: 1,
		Settings: flow.Settings{
			Mood: "neutral",
		},
		Nodes: []flow.Node{
			{ID: flow.StartNodeID, Type: flow.NodeStart},
			{ID: "answer", Type: flow.NodeKBAnswer, Title: "Ответ из базы знаний"},
		},
		Edges: []flow.Edge{
			{From: flow.StartNodeID, To: "answer"},
		},
	}
}
