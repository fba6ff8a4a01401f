//
// Tencent is pleased to support the open source community by making botflow available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// botflow is licensed under the Apache License Version 2.0.
//
//

package flow

import "strings"

// DefaultSensitivity is the score threshold applied when a meaning does
// not declare its own.
const DefaultSensitivity = 0.5

// Meaning is an author-defined intent: trigger phrases plus an optional
// sensitivity threshold in [0,1].
type Meaning struct {
	ID          string   `json:"id" yaml:"id" mapstructure:"id"`
	Title       string   `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title"`
	Phrases     []string `json:"phrases,omitempty" yaml:"phrases,omitempty" mapstructure:"phrases"`
	Sensitivity float64  `json:"sensitivity,omitempty" yaml:"sensitivity,omitempty" mapstructure:"sensitivity"`
}

// MeaningMatch is the winning meaning of one scoring pass.
type MeaningMatch struct {
	ID    string
	Score float64
	Title string
}

// SplitPhrases splits a delimiter-packed phrase string on newline, comma
// and semicolon, dropping empty fragments. Authors may supply phrases as
// either a list or one such string.
func SplitPhrases(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '\n' || r == ',' || r == ';'
	})
	var out []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Score returns the fraction of the meaning's phrases found in text as
// case-insensitive substrings. A meaning with no phrases scores 0.
func (m *Meaning) Score(text string) float64 {
	if len(m.Phrases) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, p := range m.Phrases {
		if p == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(p)) {
			hits++
		}
	}
	return float64(hits) / float64(len(m.Phrases))
}

// SelectMeaning scores each meaning against the text in authored order and
// returns the best one whose score reaches its sensitivity threshold.
//
// On equal scores the later meaning wins. That tie-break replicates the
// long-standing production behavior; authored flows depend on it, so it is
// a locked contract rather than an oversight to fix.
func SelectMeaning(text string, meanings []Meaning) (MeaningMatch, bool) {
	var best MeaningMatch
	found := false
	for i := range meanings {
		m := &meanings[i]
		if len(m.Phrases) == 0 {
			continue
		}
		sensitivity := m.Sensitivity
		if sensitivity == 0 {
			sensitivity = DefaultSensitivity
		}
		score := m.Score(text)
		if score >= sensitivity && score >= best.Score {
			best = MeaningMatch{ID: m.ID, Score: score, Title: m.Title}
			found = true
		}
	}
	return best, found
}
