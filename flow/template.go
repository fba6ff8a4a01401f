//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

package flow

import "regexp"

var placeholderRe = regexp.MustCompile(`\{\{\s*([\w.-]+)\s*\}\}`)

// Render substitutes every {{name}} placeholder in text with the string
// form of vars[name]. Placeholders with no matching variable are left
// verbatim. Empty text is returned unchanged. Render is a pure function.
func Render(text string, vars Vars) string {
	if text == "" {
		return text
	}
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		name := placeholderRe.FindStringSubmatch(match)[1]
		if vars == nil {
			return match
		}
		if _, ok := vars[name]; !ok {
			return match
		}
		return vars.String(name)
	})
}
