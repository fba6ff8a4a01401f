//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

package flow

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
)

// Per-type node configurations. Node.Config is authored as a free-form
// map; executors decode it into one of these with permissive defaults:
// unknown keys are ignored and missing keys zero out, a broken config
// never rejects the graph.

// MessageConfig configures a message node.
type MessageConfig struct {
	Text string `mapstructure:"text"`
}

// AskConfig configures an ask node: the rendered question plus the
// variable that captures the next inbound message.
type AskConfig struct {
	Question string `mapstructure:"question"`
	Var      string `mapstructure:"var"`
}

// BranchConfig configures a branch node.
type BranchConfig struct {
	Meanings []Meaning `mapstructure:"meanings"`
}

// PromptConfig configures a prompt node. Unset fields fall back to the
// graph-level settings.
type PromptConfig struct {
	Mood         string `mapstructure:"mood"`
	CustomPrompt string `mapstructure:"custom_prompt"`
	PrePrompt    string `mapstructure:"pre_prompt"`
}

// ModelOverrides are per-node overrides forwarded to the knowledge
// answerer. Zero values mean "no override".
type ModelOverrides struct {
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// KBAnswerConfig configures a kb_answer node.
type KBAnswerConfig struct {
	PrePrompt string         `mapstructure:"pre_prompt"`
	Model     ModelOverrides `mapstructure:",squash"`
}

// WebhookConfig configures a webhook node. Payload is either a map or a
// JSON string; see the webhook executor.
type WebhookConfig struct {
	URL     string `mapstructure:"url"`
	Payload any    `mapstructure:"payload"`
}

// CRMConfig configures crm_lead and crm_deal nodes.
type CRMConfig struct {
	Fields map[string]any `mapstructure:"fields"`
}

// HandoffConfig configures a handoff node.
type HandoffConfig struct {
	Text string `mapstructure:"text"`
}

// phraseSliceHook lets authors supply meaning phrases as one
// newline/comma/semicolon-delimited string instead of a list.
func phraseSliceHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice {
		return data, nil
	}
	if to.Elem().Kind() != reflect.String {
		return data, nil
	}
	return SplitPhrases(data.(string)), nil
}

// DecodeConfig decodes the node's config map into the given typed config.
// Decoding is weakly typed and best-effort: on any error out keeps its
// zero values and the error is returned for the caller to log.
func (n *Node) DecodeConfig(out any) error {
	if n == nil || len(n.Config) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook:       phraseSliceHook,
	})
	if err != nil {
		return err
	}
	return dec.Decode(n.Config)
}
