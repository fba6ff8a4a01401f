//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

// Package knowledge defines the knowledge-base answering capability the
// flow engine delegates to. The retrieval-augmented generator behind it
// is an external collaborator; the engine only consumes this interface.
package knowledge

import (
	"context"

	"trpc.group/trpc-go/botflow/flow"
)

// Answerer produces an answer to a user message from the portal's
// knowledge base. A nil result or empty Text means the knowledge base
// could not answer; the engine substitutes its apology reply.
type Answerer interface {
	Answer(ctx context.Context, req *AnswerRequest) (*AnswerResult, error)
}

// AnswerRequest is one answering request.
type AnswerRequest struct {
	// PortalID scopes the knowledge base.
	PortalID string
	// Message is the raw inbound user message.
	Message string
	// DialogID identifies the conversation; empty in preview runs.
	DialogID string
	// Audience scopes which documents may be used.
	Audience flow.Audience
	// Style is the composed style/instruction override assembled by the
	// kb_answer executor (mood, custom prompt, pre-prompt).
	Style string
	// Model carries per-node model overrides; zero values mean defaults.
	Model flow.ModelOverrides
	// UseHistory asks the answerer to condition on conversation history.
	UseHistory bool
}

// AnswerResult is the answerer's response.
type AnswerResult struct {
	// Text is the generated answer; empty means no answer.
	Text string
	// Usage reports token accounting when the answerer provides it.
	Usage Usage
}

// Usage is the token accounting of one answering call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
