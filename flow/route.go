//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

package flow

// NextNode picks the next node id out of a node. First pass: the first
// outgoing edge whose condition is meaningful and matches. Second pass:
// the first edge with no meaningful condition (the default route). When
// neither pass finds an edge, the walk ends at this node.
func NextNode(g *Graph, from, text string, vars Vars) (string, bool) {
	edges := g.EdgesFrom(from)
	for _, e := range edges {
		if e.Condition.Meaningful() && e.Condition.Match(text, vars) {
			return e.To, true
		}
	}
	for _, e := range edges {
		if !e.Condition.Meaningful() {
			return e.To, true
		}
	}
	return "", false
}
