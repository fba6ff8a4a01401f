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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/botflow/crm"
	"trpc.group/trpc-go/botflow/dialog"
	"trpc.group/trpc-go/botflow/flow"
	"trpc.group/trpc-go/botflow/knowledge"
)

// stubAnswerer returns a canned answer, or an error when failing.
type stubAnswerer struct {
	text    string
	err     error
	lastReq *knowledge.AnswerRequest
}

func (s *stubAnswerer) Answer(ctx context.Context, req *knowledge.AnswerRequest) (*knowledge.AnswerResult, error) {
	s.lastReq = req
	if s.err != nil {
		return nil, s.err
	}
	return &knowledge.AnswerResult{Text: s.text}, nil
}

// stubDispatcher records webhook posts, failing when err is set.
type stubDispatcher struct {
	err   error
	calls []map[string]any
	urls  []string
}

func (s *stubDispatcher) Post(ctx context.Context, url string, payload map[string]any) error {
	s.urls = append(s.urls, url)
	s.calls = append(s.calls, payload)
	return s.err
}

// stubCRM records create-record calls, failing when err is set.
type stubCRM struct {
	err     error
	methods []string
	fields  []map[string]any
}

func (s *stubCRM) Call(ctx context.Context, conn *crm.Connection, method string, fields map[string]any) (map[string]any, error) {
	s.methods = append(s.methods, method)
	s.fields = append(s.fields, fields)
	if s.err != nil {
		return nil, s.err
	}
	return map[string]any{"result": 1}, nil
}

func connections(portalID string) *crm.InMemoryConnections {
	s := crm.NewInMemoryConnections()
	s.Set(&crm.Connection{PortalID: portalID, Endpoint: "https://example.bitrix24.ru/rest/1/token"})
	return s
}

func hasEvent(trace []TraceEntry, event Event) bool {
	for _, e := range trace {
		if e.Event == event {
			return true
		}
	}
	return false
}

func TestMessageSelfLoopBreaks(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "msg", Type: flow.NodeMessage, Config: map[string]any{"text": "Привет"}},
		},
		Edges: []flow.Edge{
			{From: "start", To: "msg"},
			{From: "msg", To: "msg"},
		},
	}
	res := New().Execute(context.Background(), &Request{Graph: g, Message: "тест", Trace: true})
	// The looping message is emitted exactly once, then the revisit
	// guard halts the turn.
	assert.Equal(t, "Привет", res.Reply)
	assert.True(t, hasEvent(res.Trace, EventLoopBreak))
}

func TestStartMayBeRevisited(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "hi", Type: flow.NodeMessage, Config: map[string]any{"text": "Привет"}},
		},
		Edges: []flow.Edge{
			{From: "start", To: "hi"},
			{From: "hi", To: "start"},
		},
	}
	res := New().Execute(context.Background(), &Request{Graph: g, Message: "x", Trace: true})
	// start -> hi -> start -> hi: the second entry of hi trips the
	// guard, not the revisit of start.
	assert.Equal(t, "Привет", res.Reply)
	assert.True(t, hasEvent(res.Trace, EventLoopBreak))
}

func TestStepBudgetExhausted(t *testing.T) {
	g := &flow.Graph{Nodes: []flow.Node{{ID: "start", Type: flow.NodeStart}}}
	prev := "start"
	for i := 0; i < 30; i++ {
		id := fmt.Sprintf("m%d", i)
		g.Nodes = append(g.Nodes, flow.Node{
			ID: id, Type: flow.NodeMessage, Config: map[string]any{"text": fmt.Sprintf("шаг %d", i)},
		})
		g.Edges = append(g.Edges, flow.Edge{From: prev, To: id})
		prev = id
	}
	res := New().Execute(context.Background(), &Request{Graph: g, Message: "x", Trace: true})
	assert.True(t, hasEvent(res.Trace, EventBudgetExhausted))
	// 20 steps: start plus the first 19 message nodes.
	assert.Contains(t, res.Reply, "шаг 0")
	assert.Contains(t, res.Reply, "шаг 18")
	assert.NotContains(t, res.Reply, "шаг 19")
}

func TestEmptyGraphYieldsDefaultReply(t *testing.T) {
	e := New()
	res := e.Execute(context.Background(), &Request{Graph: &flow.Graph{}, Message: "привет"})
	assert.Equal(t, DefaultReply, res.Reply)

	res = e.Execute(context.Background(), &Request{Graph: nil, Message: "привет"})
	assert.Equal(t, DefaultReply, res.Reply)
}

func TestMissingStartNodeYieldsDefaultReply(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{{ID: "orphan", Type: flow.NodeMessage, Config: map[string]any{"text": "недостижимо"}}},
	}
	res := New().Execute(context.Background(), &Request{Graph: g, Message: "x", Trace: true})
	assert.Equal(t, DefaultReply, res.Reply)
	assert.True(t, hasEvent(res.Trace, EventNodeMissing))
}

func TestAskSetsPendingAndHalts(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "q", Type: flow.NodeAsk, Config: map[string]any{"question": "Как вас зовут?", "var": "name"}},
			{ID: "after", Type: flow.NodeMessage, Config: map[string]any{"text": "Рад знакомству, {{name}}!"}},
		},
		Edges: []flow.Edge{
			{From: "start", To: "q"},
			{From: "q", To: "after"},
		},
	}
	e := New()
	first := e.Execute(context.Background(), &Request{Graph: g, Message: "привет", Trace: true})
	assert.Equal(t, "Как вас зовут?", first.Reply)
	require.NotNil(t, first.State.Pending)
	assert.Equal(t, "name", first.State.Pending.Var)
	assert.Equal(t, "after", first.State.Pending.Next)
	assert.True(t, hasEvent(first.Trace, EventPendingSet))
	// The reply to an ask halts the turn; nothing past the ask ran.
	assert.NotContains(t, first.Reply, "Рад знакомству")

	second := e.Execute(context.Background(), &Request{Graph: g, State: first.State, Message: "Анна", Trace: true})
	assert.Equal(t, "Рад знакомству, Анна!", second.Reply)
	assert.Nil(t, second.State.Pending)
	assert.Equal(t, "Анна", second.State.Vars.String("name"))
	assert.True(t, hasEvent(second.Trace, EventPendingResolved))
}

func TestPendingWithoutNextResumesAtStart(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "hi", Type: flow.NodeMessage, Config: map[string]any{"text": "Слушаю, {{topic}}"}},
		},
		Edges: []flow.Edge{{From: "start", To: "hi"}},
	}
	st := dialog.New()
	st.Pending = &dialog.Pending{Var: "topic"}
	res := New().Execute(context.Background(), &Request{Graph: g, State: st, Message: "доставка"})
	assert.Equal(t, "Слушаю, доставка", res.Reply)
	assert.Nil(t, res.State.Pending)
}

func TestAtMostOnePendingAfterAnyTurn(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "q1", Type: flow.NodeAsk, Config: map[string]any{"question": "Первый вопрос?", "var": "a"}},
			{ID: "q2", Type: flow.NodeAsk, Config: map[string]any{"question": "Второй вопрос?", "var": "b"}},
		},
		Edges: []flow.Edge{
			{From: "start", To: "q1"},
			{From: "q1", To: "q2"},
		},
	}
	e := New()
	res := e.Execute(context.Background(), &Request{Graph: g, Message: "x"})
	require.NotNil(t, res.State.Pending)
	assert.Equal(t, "a", res.State.Pending.Var)

	res = e.Execute(context.Background(), &Request{Graph: g, State: res.State, Message: "ответ"})
	require.NotNil(t, res.State.Pending)
	assert.Equal(t, "b", res.State.Pending.Var)
}

func TestBranchRoutesOnMeaning(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "intent", Type: flow.NodeBranch, Config: map[string]any{
				"meanings": []any{
					map[string]any{"id": "pricing", "title": "Цены", "phrases": []any{"цена", "стоимость"}},
					map[string]any{"id": "greeting", "phrases": "привет;здравствуйте"},
				},
			}},
			{ID: "price", Type: flow.NodeMessage, Config: map[string]any{"text": "Прайс вышлю."}},
			{ID: "greet", Type: flow.NodeMessage, Config: map[string]any{"text": "Здравствуйте!"}},
			{ID: "other", Type: flow.NodeMessage, Config: map[string]any{"text": "Не понял."}},
		},
		Edges: []flow.Edge{
			{From: "start", To: "intent"},
			{From: "intent", To: "price", Condition: &flow.Condition{Op: flow.OpMeaning, Value: "pricing"}},
			{From: "intent", To: "greet", Condition: &flow.Condition{Op: flow.OpMeaning, Value: "greeting"}},
			{From: "intent", To: "other"},
		},
	}
	e := New()

	res := e.Execute(context.Background(), &Request{Graph: g, Message: "какая цена?", Trace: true})
	assert.Equal(t, "Прайс вышлю.", res.Reply)
	assert.True(t, hasEvent(res.Trace, EventMeaning))
	assert.Equal(t, "pricing", res.State.Vars.String(flow.VarMeaning))
	assert.Equal(t, "Цены", res.State.Vars.String(flow.VarMeaningTitle))

	res = e.Execute(context.Background(), &Request{Graph: g, Message: "привет!"})
	assert.Equal(t, "Здравствуйте!", res.Reply)

	// No meaning qualifies: the default edge routes and the _meaning
	// vars are cleared.
	res = e.Execute(context.Background(), &Request{Graph: g, State: res.State, Message: "ммм"})
	assert.Equal(t, "Не понял.", res.Reply)
	_, has := res.State.Vars[flow.VarMeaning]
	assert.False(t, has)
}

func TestKBAnswer(t *testing.T) {
	g := &flow.Graph{
		Settings: flow.Settings{Mood: "дружелюбный", UseHistory: true},
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "kb", Type: flow.NodeKBAnswer, Config: map[string]any{"model": "gpt-4o-mini", "temperature": 0.3}},
		},
		Edges: []flow.Edge{{From: "start", To: "kb"}},
	}
	answerer := &stubAnswerer{text: "Доставка занимает 2 дня."}
	e := New(WithKnowledge(answerer))
	res := e.Execute(context.Background(), &Request{
		Graph:    g,
		Message:  "сколько идёт доставка?",
		PortalID: "p1",
		DialogID: "d1",
		Audience: flow.AudienceClient,
	})
	assert.Equal(t, "Доставка занимает 2 дня.", res.Reply)
	require.NotNil(t, answerer.lastReq)
	assert.Equal(t, "p1", answerer.lastReq.PortalID)
	assert.Equal(t, flow.AudienceClient, answerer.lastReq.Audience)
	assert.Equal(t, "gpt-4o-mini", answerer.lastReq.Model.Model)
	assert.Equal(t, 0.3, answerer.lastReq.Model.Temperature)
	assert.True(t, answerer.lastReq.UseHistory)
	assert.Contains(t, answerer.lastReq.Style, "дружелюбный")
}

func TestKBAnswerApologyOnNoAnswer(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "kb", Type: flow.NodeKBAnswer},
		},
		Edges: []flow.Edge{{From: "start", To: "kb"}},
	}
	// Empty answer text.
	res := New(WithKnowledge(&stubAnswerer{text: "  "})).
		Execute(context.Background(), &Request{Graph: g, Message: "вопрос"})
	assert.Equal(t, ApologyReply, res.Reply)

	// Answerer failure is swallowed.
	res = New(WithKnowledge(&stubAnswerer{err: errors.New("retrieval down")})).
		Execute(context.Background(), &Request{Graph: g, Message: "вопрос", Trace: true})
	assert.Equal(t, ApologyReply, res.Reply)
	assert.True(t, hasEvent(res.Trace, EventExternalError))

	// No answerer configured at all.
	res = New().Execute(context.Background(), &Request{Graph: g, Message: "вопрос"})
	assert.Equal(t, ApologyReply, res.Reply)
}

func TestPromptOverridesStyle(t *testing.T) {
	g := &flow.Graph{
		Settings: flow.Settings{Mood: "строгий"},
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "p", Type: flow.NodePrompt, Config: map[string]any{"mood": "весёлый", "pre_prompt": "Отвечай кратко."}},
			{ID: "kb", Type: flow.NodeKBAnswer},
		},
		Edges: []flow.Edge{
			{From: "start", To: "p"},
			{From: "p", To: "kb"},
		},
	}
	answerer := &stubAnswerer{text: "ок"}
	New(WithKnowledge(answerer)).Execute(context.Background(), &Request{Graph: g, Message: "x"})
	require.NotNil(t, answerer.lastReq)
	assert.Contains(t, answerer.lastReq.Style, "весёлый")
	assert.NotContains(t, answerer.lastReq.Style, "строгий")
	assert.Contains(t, answerer.lastReq.Style, "Отвечай кратко.")
}

func TestWebhookPayloadAndFailureTolerance(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "hook", Type: flow.NodeWebhook, Config: map[string]any{
				"url":     "https://hooks.example.com/new-message",
				"payload": map[string]any{"source": "bot", "city": "{{city}}"},
			}},
			{ID: "done", Type: flow.NodeMessage, Config: map[string]any{"text": "Передал."}},
		},
		Edges: []flow.Edge{
			{From: "start", To: "hook"},
			{From: "hook", To: "done"},
		},
	}
	st := dialog.New()
	st.Vars["city"] = "Казань"

	d := &stubDispatcher{}
	res := New(WithWebhookDispatcher(d)).Execute(context.Background(), &Request{
		Graph: g, State: st, Message: "заявка", PortalID: "p1",
	})
	assert.Equal(t, "Передал.", res.Reply)
	require.Len(t, d.calls, 1)
	assert.Equal(t, "https://hooks.example.com/new-message", d.urls[0])
	payload := d.calls[0]
	assert.Equal(t, "заявка", payload["text"])
	assert.Equal(t, "p1", payload["portal_id"])
	assert.Equal(t, "bot", payload["source"])
	assert.Equal(t, "Казань", payload["city"])
	assert.NotNil(t, payload["vars"])

	// A failing webhook never prevents the turn from completing.
	failing := &stubDispatcher{err: errors.New("timeout")}
	res = New(WithWebhookDispatcher(failing)).Execute(context.Background(), &Request{
		Graph: g, Message: "заявка", Trace: true,
	})
	assert.Equal(t, "Передал.", res.Reply)
	assert.True(t, hasEvent(res.Trace, EventExternalError))
}

func TestWebhookStringPayload(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "hook", Type: flow.NodeWebhook, Config: map[string]any{
				"url":     "https://hooks.example.com/x",
				"payload": `{"lead": "{{name}}"}`,
			}},
		},
		Edges: []flow.Edge{{From: "start", To: "hook"}},
	}
	st := dialog.New()
	st.Vars["name"] = "Анна"
	d := &stubDispatcher{}
	New(WithWebhookDispatcher(d)).Execute(context.Background(), &Request{Graph: g, State: st, Message: "x"})
	require.Len(t, d.calls, 1)
	assert.Equal(t, "Анна", d.calls[0]["lead"])
}

func TestWebhookMalformedPayloadString(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "hook", Type: flow.NodeWebhook, Config: map[string]any{
				"url":     "https://hooks.example.com/x",
				"payload": "{broken",
			}},
		},
		Edges: []flow.Edge{{From: "start", To: "hook"}},
	}
	d := &stubDispatcher{}
	res := New(WithWebhookDispatcher(d)).Execute(context.Background(), &Request{Graph: g, Message: "сообщение"})
	assert.Equal(t, DefaultReply, res.Reply)
	// Malformed authored JSON degrades to the mandatory fields only.
	require.Len(t, d.calls, 1)
	assert.Equal(t, "сообщение", d.calls[0]["text"])
}

func TestWebhookVarsSnapshot(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "hook", Type: flow.NodeWebhook, Config: map[string]any{
				"url": "https://hooks.example.com/x",
			}},
			{ID: "intent", Type: flow.NodeBranch, Config: map[string]any{
				"meanings": []any{
					map[string]any{"id": "pricing", "phrases": []any{"цена"}},
				},
			}},
			{ID: "done", Type: flow.NodeMessage, Config: map[string]any{"text": "Ок."}},
		},
		Edges: []flow.Edge{
			{From: "start", To: "hook"},
			{From: "hook", To: "intent"},
			{From: "intent", To: "done"},
		},
	}
	d := &stubDispatcher{}
	res := New(WithWebhookDispatcher(d)).Execute(context.Background(), &Request{
		Graph: g, Message: "какая цена?",
	})
	assert.Equal(t, "pricing", res.State.Vars.String(flow.VarMeaning))

	// The payload carries the vars as they stood at dispatch time; the
	// meaning written by the later branch node must not leak into it.
	require.Len(t, d.calls, 1)
	sent, ok := d.calls[0]["vars"].(flow.Vars)
	require.True(t, ok)
	_, has := sent[flow.VarMeaning]
	assert.False(t, has)
}

func TestCRMLeadAndDeal(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "lead", Type: flow.NodeCRMLead, Config: map[string]any{
				"fields": map[string]any{"TITLE": "Лид от {{name}}", "SOURCE_ID": "CHAT"},
			}},
			{ID: "deal", Type: flow.NodeCRMDeal, Config: map[string]any{
				"fields": map[string]any{"TITLE": "Сделка"},
			}},
		},
		Edges: []flow.Edge{
			{From: "start", To: "lead"},
			{From: "lead", To: "deal"},
		},
	}
	st := dialog.New()
	st.Vars["name"] = "Анна"
	c := &stubCRM{}
	res := New(WithCRM(c, connections("p1"))).Execute(context.Background(), &Request{
		Graph: g, State: st, Message: "x", PortalID: "p1",
	})
	assert.Equal(t, DefaultReply, res.Reply)
	require.Equal(t, []string{crm.MethodLeadAdd, crm.MethodDealAdd}, c.methods)
	assert.Equal(t, "Лид от Анна", c.fields[0]["TITLE"])
	assert.Equal(t, "CHAT", c.fields[0]["SOURCE_ID"])
}

func TestCRMFailureAndMissingConnection(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "lead", Type: flow.NodeCRMLead},
			{ID: "done", Type: flow.NodeMessage, Config: map[string]any{"text": "Готово."}},
		},
		Edges: []flow.Edge{
			{From: "start", To: "lead"},
			{From: "lead", To: "done"},
		},
	}
	// Always-raising CRM client: turn still completes.
	c := &stubCRM{err: errors.New("crm down")}
	res := New(WithCRM(c, connections("p1"))).Execute(context.Background(), &Request{
		Graph: g, Message: "x", PortalID: "p1", Trace: true,
	})
	assert.Equal(t, "Готово.", res.Reply)
	assert.True(t, hasEvent(res.Trace, EventExternalError))

	// Portal without a connection: node is skipped silently.
	skipped := &stubCRM{}
	res = New(WithCRM(skipped, crm.NewInMemoryConnections())).Execute(context.Background(), &Request{
		Graph: g, Message: "x", PortalID: "other",
	})
	assert.Equal(t, "Готово.", res.Reply)
	assert.Empty(t, skipped.methods)
}

func TestHandoffIsTerminal(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "human", Type: flow.NodeHandoff},
			{ID: "never", Type: flow.NodeMessage, Config: map[string]any{"text": "недостижимо"}},
		},
		Edges: []flow.Edge{
			{From: "start", To: "human"},
			{From: "human", To: "never"},
		},
	}
	res := New().Execute(context.Background(), &Request{Graph: g, Message: "оператора!", Trace: true})
	assert.Equal(t, DefaultHandoffText, res.Reply)
	assert.True(t, hasEvent(res.Trace, EventHandoff))
	assert.NotContains(t, res.Reply, "недостижимо")
}

func TestUnknownNodeTypePassesThrough(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "exotic", Type: "hologram"},
			{ID: "end", Type: flow.NodeMessage, Config: map[string]any{"text": "Дошли."}},
		},
		Edges: []flow.Edge{
			{From: "start", To: "exotic"},
			{From: "exotic", To: "end"},
		},
	}
	res := New().Execute(context.Background(), &Request{Graph: g, Message: "x"})
	assert.Equal(t, "Дошли.", res.Reply)
}

func TestUnknownNodeCycleBoundedByBudget(t *testing.T) {
	// Pass-through nodes carry no effect, so a cycle of them is not cut
	// by the revisit guard; the step budget ends it.
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "a", Type: "mystery"},
			{ID: "b", Type: "mystery"},
		},
		Edges: []flow.Edge{
			{From: "start", To: "a"},
			{From: "a", To: "b"},
			{From: "b", To: "a"},
		},
	}
	res := New().Execute(context.Background(), &Request{Graph: g, Message: "x", Trace: true})
	assert.Equal(t, DefaultReply, res.Reply)
	assert.True(t, hasEvent(res.Trace, EventBudgetExhausted))
	assert.False(t, hasEvent(res.Trace, EventLoopBreak))
}

func TestRepliesJoinedWithBlankLine(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "a", Type: flow.NodeMessage, Config: map[string]any{"text": "Первое."}},
			{ID: "b", Type: flow.NodeMessage, Config: map[string]any{"text": "Второе."}},
		},
		Edges: []flow.Edge{
			{From: "start", To: "a"},
			{From: "a", To: "b"},
		},
	}
	res := New().Execute(context.Background(), &Request{Graph: g, Message: "x"})
	assert.Equal(t, "Первое.\n\nВторое.", res.Reply)
}

func TestExecuteDoesNotMutateCallerState(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "q", Type: flow.NodeAsk, Config: map[string]any{"question": "Вопрос?", "var": "a"}},
		},
		Edges: []flow.Edge{{From: "start", To: "q"}},
	}
	st := dialog.New()
	st.Vars["k"] = "v"
	res := New().Execute(context.Background(), &Request{Graph: g, State: st, Message: "x"})
	require.NotNil(t, res.State.Pending)
	// The caller's snapshot is untouched: no pending, no extra vars.
	assert.Nil(t, st.Pending)
	assert.Len(t, st.Vars, 1)
}

func TestTraceOnlyWhenRequested(t *testing.T) {
	g := &flow.Graph{
		Nodes: []flow.Node{
			{ID: "start", Type: flow.NodeStart},
			{ID: "a", Type: flow.NodeMessage, Config: map[string]any{"text": "Привет."}},
		},
		Edges: []flow.Edge{{From: "start", To: "a"}},
	}
	e := New()
	res := e.Execute(context.Background(), &Request{Graph: g, Message: "x"})
	assert.Nil(t, res.Trace)

	res = e.Execute(context.Background(), &Request{Graph: g, Message: "x", Trace: true})
	require.NotEmpty(t, res.Trace)
	assert.Equal(t, EventNodeEnter, res.Trace[0].Event)
	assert.True(t, hasEvent(res.Trace, EventReply))
}
