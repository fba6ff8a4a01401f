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
	"regexp"
	"strings"
)

// Condition operators.
const (
	OpContains = "contains"
	OpEquals   = "equals"
	OpRegex    = "regex"
	OpMeaning  = "meaning"
)

// Condition sources. SrcVarPrefix selects a named conversation variable,
// e.g. "var:city".
const (
	SrcInput     = "input"
	SrcMeaning   = "meaning"
	SrcVarPrefix = "var:"
)

// Group combination modes.
const (
	ModeAny = "any"
	ModeAll = "all"
)

// Condition is an authored routing condition: either a leaf comparison
// (op, src, value) or a group of nested rules combined with any/all.
// Groups nest to arbitrary depth.
type Condition struct {
	Op    string `json:"op,omitempty" yaml:"op,omitempty"`
	Src   string `json:"src,omitempty" yaml:"src,omitempty"`
	Value string `json:"value,omitempty" yaml:"value,omitempty"`

	Mode  string       `json:"mode,omitempty" yaml:"mode,omitempty"`
	Rules []*Condition `json:"rules,omitempty" yaml:"rules,omitempty"`
}

func (c *Condition) isGroup() bool {
	return c != nil && (c.Mode == ModeAny || c.Mode == ModeAll || len(c.Rules) > 0)
}

// Match evaluates the condition against the current message text and
// conversation variables. A nil condition always matches. An invalid
// regex never matches and never surfaces an error.
func (c *Condition) Match(text string, vars Vars) bool {
	if c == nil {
		return true
	}
	if c.isGroup() {
		return c.matchGroup(text, vars)
	}
	return c.matchLeaf(text, vars)
}

func (c *Condition) matchGroup(text string, vars Vars) bool {
	if len(c.Rules) == 0 {
		return false
	}
	all := c.Mode == ModeAll
	for _, rule := range c.Rules {
		ok := rule.Match(text, vars)
		if all && !ok {
			return false
		}
		if !all && ok {
			return true
		}
	}
	return all
}

func (c *Condition) matchLeaf(text string, vars Vars) bool {
	if c.Op == OpMeaning {
		return strings.EqualFold(vars.String(VarMeaning), c.Value)
	}
	subject := text
	switch {
	case c.Src == SrcMeaning:
		subject = vars.String(VarMeaning)
	case strings.HasPrefix(c.Src, SrcVarPrefix):
		subject = vars.String(strings.TrimPrefix(c.Src, SrcVarPrefix))
	}
	switch c.Op {
	case OpEquals:
		return strings.EqualFold(strings.TrimSpace(subject), strings.TrimSpace(c.Value))
	case OpRegex:
		re, err := regexp.Compile("(?i)" + c.Value)
		if err != nil {
			return false
		}
		return re.MatchString(subject)
	default:
		// contains, and any operator we do not recognize.
		return strings.Contains(strings.ToLower(subject), strings.ToLower(c.Value))
	}
}

// Meaningful reports whether the condition actually routes: a leaf is
// meaningful when any of op, value or src is set; a group is meaningful
// when its mode is any/all and at least one direct rule carries a
// non-empty value. Edges whose condition is not meaningful are treated
// as default routes by the router.
func (c *Condition) Meaningful() bool {
	if c == nil {
		return false
	}
	if c.Mode == ModeAny || c.Mode == ModeAll {
		for _, rule := range c.Rules {
			if rule != nil && rule.Value != "" {
				return true
			}
		}
		return false
	}
	return c.Op != "" || c.Value != "" || c.Src != ""
}
