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
	"fmt"
	"strconv"
)

// Reserved variable names written by the interpreter. The _meaning group is
// ephemeral routing context recomputed whenever a branch node executes; the
// prompt group carries mood and prompt overrides for knowledge answers.
const (
	VarMeaning      = "_meaning"
	VarMeaningScore = "_meaning_score"
	VarMeaningTitle = "_meaning_title"
	VarMood         = "_mood"
	VarCustomPrompt = "_custom_prompt"
	VarPrePrompt    = "_pre_prompt"
)

// Vars holds the conversation variables of one dialog. Values are scalars
// or anything string-coercible; insertion order is irrelevant.
type Vars map[string]any

// String returns the string form of a variable, or "" when it is absent.
func (v Vars) String(name string) string {
	if v == nil {
		return ""
	}
	val, ok := v[name]
	if !ok {
		return ""
	}
	return Stringify(val)
}

// Clone returns a shallow copy. A nil receiver yields an empty, usable map.
func (v Vars) Clone() Vars {
	out := make(Vars, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Stringify coerces a variable value to its string form. Floats drop the
// trailing ".0" that JSON decoding introduces for integral numbers.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprint(val)
	}
}
