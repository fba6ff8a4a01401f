//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

package engine

import (
	"context"
	"encoding/json"
	"strings"

	"trpc.group/trpc-go/botflow/crm"
	"trpc.group/trpc-go/botflow/dialog"
	"trpc.group/trpc-go/botflow/flow"
	"trpc.group/trpc-go/botflow/knowledge"
)

// execute runs one node and returns the next node id. halt stops the walk
// immediately: ask nodes halt after storing their pending request,
// handoff nodes are terminal.
func (w *walk) execute(ctx context.Context, node *flow.Node) (next string, halt bool) {
	switch node.Type {
	case flow.NodeStart:
		return w.route(node), false
	case flow.NodeMessage:
		return w.execMessage(node), false
	case flow.NodeAsk:
		w.execAsk(node)
		return "", true
	case flow.NodeBranch:
		return w.execBranch(node), false
	case flow.NodePrompt:
		return w.execPrompt(node), false
	case flow.NodeKBAnswer:
		return w.execKBAnswer(ctx, node), false
	case flow.NodeWebhook:
		return w.execWebhook(ctx, node), false
	case flow.NodeCRMLead:
		return w.execCRM(ctx, node, crm.MethodLeadAdd), false
	case flow.NodeCRMDeal:
		return w.execCRM(ctx, node, crm.MethodDealAdd), false
	case flow.NodeHandoff:
		w.execHandoff(node)
		return "", true
	default:
		// Unrecognized node types pass through without effect.
		return w.route(node), false
	}
}

func (w *walk) execMessage(node *flow.Node) string {
	var cfg flow.MessageConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		w.engine.logger.Warnf("node %s: bad message config: %v", node.ID, err)
	}
	if text := flow.Render(cfg.Text, w.vars); text != "" {
		w.reply(node, text)
	}
	return w.route(node)
}

// execAsk renders the question, routes eagerly so the answer turn knows
// where to resume, and stores the pending request. The turn halts here.
func (w *walk) execAsk(node *flow.Node) {
	var cfg flow.AskConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		w.engine.logger.Warnf("node %s: bad ask config: %v", node.ID, err)
	}
	if question := flow.Render(cfg.Question, w.vars); question != "" {
		w.reply(node, question)
	}
	w.pending = &dialog.Pending{Var: cfg.Var, Next: w.route(node)}
	w.tr.node(EventPendingSet, node, cfg.Var)
}

func (w *walk) execBranch(node *flow.Node) string {
	var cfg flow.BranchConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		w.engine.logger.Warnf("node %s: bad branch config: %v", node.ID, err)
	}
	if match, ok := flow.SelectMeaning(w.req.Message, cfg.Meanings); ok {
		w.vars[flow.VarMeaning] = match.ID
		w.vars[flow.VarMeaningScore] = match.Score
		w.vars[flow.VarMeaningTitle] = match.Title
		w.tr.node(EventMeaning, node, match.ID)
	} else {
		delete(w.vars, flow.VarMeaning)
		delete(w.vars, flow.VarMeaningScore)
		delete(w.vars, flow.VarMeaningTitle)
	}
	return w.route(node)
}

func (w *walk) execPrompt(node *flow.Node) string {
	var cfg flow.PromptConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		w.engine.logger.Warnf("node %s: bad prompt config: %v", node.ID, err)
	}
	settings := w.graph.Settings
	if mood := firstNonEmpty(cfg.Mood, settings.Mood); mood != "" {
		w.vars[flow.VarMood] = mood
	}
	if custom := firstNonEmpty(cfg.CustomPrompt, settings.CustomPrompt); custom != "" {
		w.vars[flow.VarCustomPrompt] = custom
	}
	if cfg.PrePrompt != "" {
		w.vars[flow.VarPrePrompt] = cfg.PrePrompt
	}
	return w.route(node)
}

func (w *walk) execKBAnswer(ctx context.Context, node *flow.Node) string {
	var cfg flow.KBAnswerConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		w.engine.logger.Warnf("node %s: bad kb_answer config: %v", node.ID, err)
	}
	answer := w.askKnowledge(ctx, node, &cfg)
	if answer == "" {
		answer = ApologyReply
	}
	w.reply(node, answer)
	return w.route(node)
}

func (w *walk) askKnowledge(ctx context.Context, node *flow.Node, cfg *flow.KBAnswerConfig) string {
	if w.engine.knowledge == nil {
		w.engine.logger.Debugf("node %s: no knowledge answerer configured", node.ID)
		return ""
	}
	res, err := w.engine.knowledge.Answer(ctx, &knowledge.AnswerRequest{
		PortalID:   w.req.PortalID,
		Message:    w.req.Message,
		DialogID:   w.req.DialogID,
		Audience:   w.req.Audience,
		Style:      w.composeStyle(cfg),
		Model:      cfg.Model,
		UseHistory: w.graph.Settings.UseHistory,
	})
	if err != nil {
		w.engine.logger.Warnf("node %s: knowledge answer failed: %v", node.ID, err)
		w.tr.node(EventExternalError, node, err.Error())
		return ""
	}
	if res == nil {
		return ""
	}
	return strings.TrimSpace(res.Text)
}

// composeStyle assembles the answer-style instruction from the mood,
// custom prompt and pre-prompt, preferring prompt-node overrides in vars
// over graph settings.
func (w *walk) composeStyle(cfg *flow.KBAnswerConfig) string {
	settings := w.graph.Settings
	var parts []string
	if mood := firstNonEmpty(w.vars.String(flow.VarMood), settings.Mood); mood != "" {
		parts = append(parts, "Тон общения: "+mood+".")
	}
	if custom := firstNonEmpty(w.vars.String(flow.VarCustomPrompt), settings.CustomPrompt); custom != "" {
		parts = append(parts, custom)
	}
	if pre := firstNonEmpty(w.vars.String(flow.VarPrePrompt), cfg.PrePrompt); pre != "" {
		parts = append(parts, pre)
	}
	return strings.Join(parts, "\n")
}

func (w *walk) execWebhook(ctx context.Context, node *flow.Node) string {
	var cfg flow.WebhookConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		w.engine.logger.Warnf("node %s: bad webhook config: %v", node.ID, err)
	}
	if w.engine.webhooks == nil || cfg.URL == "" {
		w.engine.logger.Debugf("node %s: webhook skipped, no dispatcher or url", node.ID)
		return w.route(node)
	}
	payload := w.webhookPayload(node, cfg.Payload)
	if err := w.engine.webhooks.Post(ctx, cfg.URL, payload); err != nil {
		w.engine.logger.Warnf("node %s: webhook failed: %v", node.ID, err)
		w.tr.node(EventExternalError, node, err.Error())
	}
	return w.route(node)
}

// webhookPayload builds the outbound JSON body. An authored payload may
// be a map (string values are template-rendered) or a JSON string
// (rendered, then parsed; parse failures fall back to an empty body).
// The text, portal_id and vars fields are always set, overriding any
// authored value.
func (w *walk) webhookPayload(node *flow.Node, authored any) map[string]any {
	payload := map[string]any{}
	switch p := authored.(type) {
	case string:
		rendered := flow.Render(p, w.vars)
		if err := json.Unmarshal([]byte(rendered), &payload); err != nil {
			w.engine.logger.Warnf("node %s: webhook payload is not valid JSON: %v", node.ID, err)
			payload = map[string]any{}
		}
	case map[string]any:
		for k, v := range p {
			if s, ok := v.(string); ok {
				payload[k] = flow.Render(s, w.vars)
			} else {
				payload[k] = v
			}
		}
	}
	payload["text"] = w.req.Message
	payload["portal_id"] = w.req.PortalID
	// Snapshot the vars so the payload does not track later mutations.
	payload["vars"] = w.vars.Clone()
	return payload
}

func (w *walk) execCRM(ctx context.Context, node *flow.Node, method string) string {
	if w.engine.crm == nil || w.engine.connections == nil {
		w.engine.logger.Debugf("node %s: crm skipped, not configured", node.ID)
		return w.route(node)
	}
	conn, err := w.engine.connections.Get(ctx, w.req.PortalID)
	if err != nil {
		w.engine.logger.Warnf("node %s: crm connection lookup failed: %v", node.ID, err)
		w.tr.node(EventExternalError, node, err.Error())
		return w.route(node)
	}
	if conn == nil {
		w.engine.logger.Debugf("node %s: portal %s has no crm connection", node.ID, w.req.PortalID)
		return w.route(node)
	}
	var cfg flow.CRMConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		w.engine.logger.Warnf("node %s: bad crm config: %v", node.ID, err)
	}
	fields := make(map[string]any, len(cfg.Fields))
	for k, v := range cfg.Fields {
		if s, ok := v.(string); ok {
			fields[k] = flow.Render(s, w.vars)
		} else {
			fields[k] = v
		}
	}
	if _, err := w.engine.crm.Call(ctx, conn, method, fields); err != nil {
		w.engine.logger.Warnf("node %s: crm %s failed: %v", node.ID, method, err)
		w.tr.node(EventExternalError, node, err.Error())
	}
	return w.route(node)
}

func (w *walk) execHandoff(node *flow.Node) {
	var cfg flow.HandoffConfig
	if err := node.DecodeConfig(&cfg); err != nil {
		w.engine.logger.Warnf("node %s: bad handoff config: %v", node.ID, err)
	}
	text := flow.Render(firstNonEmpty(cfg.Text, DefaultHandoffText), w.vars)
	w.reply(node, text)
	w.tr.node(EventHandoff, node, "")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
