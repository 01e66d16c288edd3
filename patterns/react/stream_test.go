package react

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/leofalp/toolagent/providers/ai"
	"github.com/leofalp/toolagent/providers/tool"
	"github.com/leofalp/toolagent/providers/tool/calculator"
)

// mockStreamProvider streams the configured events after an optional
// pre-stream error.
type mockStreamProvider struct {
	events    []ai.StreamEvent
	midErr    error
	openErr   error
	streamReq *ai.ChatRequest
	sendCalls int
}

func (m *mockStreamProvider) SendMessage(context.Context, ai.ChatRequest) (*ai.ChatResponse, error) {
	m.sendCalls++
	return final("unused"), nil
}

func (m *mockStreamProvider) StreamMessage(_ context.Context, req ai.ChatRequest) (*ai.ChatStream, error) {
	m.streamReq = &req
	if m.openErr != nil {
		return nil, m.openErr
	}
	return ai.NewChatStream(func(yield func(ai.StreamEvent, error) bool) {
		for _, e := range m.events {
			if !yield(e, nil) {
				return
			}
		}
		if m.midErr != nil {
			yield(ai.StreamEvent{}, m.midErr)
		}
	}), nil
}

func TestStreamUsesNativeStreaming(t *testing.T) {
	provider := &mockStreamProvider{events: []ai.StreamEvent{
		{Type: ai.StreamEventContent, Content: "Once "},
		{Type: ai.StreamEventContent, Content: "upon a time"},
		{Type: ai.StreamEventDone, FinishReason: "stop"},
	}}
	agent, err := New(provider, Config{
		Preamble: "Tell stories.",
		Tools:    []tool.GenericTool{calculator.NewCalculatorTool()},
	})
	if err != nil {
		t.Fatal(err)
	}

	stream, err := agent.Stream(context.Background(), "A short story")
	if err != nil {
		t.Fatal(err)
	}

	var chunks []string
	for event, err := range stream.Iter() {
		if err != nil {
			t.Fatalf("unexpected stream error: %v", err)
		}
		if event.Type == ai.StreamEventContent {
			chunks = append(chunks, event.Content)
		}
	}
	if !reflect.DeepEqual(chunks, []string{"Once ", "upon a time"}) {
		t.Errorf("unexpected chunks %v", chunks)
	}
	if provider.sendCalls != 0 {
		t.Errorf("SendMessage must not be used when streaming is available")
	}
	if provider.streamReq == nil || provider.streamReq.Tools != nil {
		t.Errorf("stream request must not carry tools: %+v", provider.streamReq)
	}
	if got := roles(provider.streamReq.Messages); !reflect.DeepEqual(got, []ai.MessageRole{ai.RoleSystem, ai.RoleUser}) {
		t.Errorf("unexpected roles %v", got)
	}
}

func TestStreamFallsBackToSendMessage(t *testing.T) {
	provider := scripted(&ai.ChatResponse{Content: "full reply", Reasoning: "thinking", FinishReason: "stop"})
	agent, err := New(provider, Config{})
	if err != nil {
		t.Fatal(err)
	}

	stream, err := agent.Stream(context.Background(), "hi")
	if err != nil {
		t.Fatal(err)
	}
	response, err := stream.Collect()
	if err != nil {
		t.Fatal(err)
	}
	if response.Content != "full reply" || response.Reasoning != "thinking" {
		t.Errorf("unexpected collected response %+v", response)
	}
	if provider.calls() != 1 {
		t.Errorf("expected 1 SendMessage call, got %d", provider.calls())
	}
}

func TestStreamErrors(t *testing.T) {
	errOpen := errors.New("unauthorized")
	agent, err := New(&mockStreamProvider{openErr: errOpen}, Config{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := agent.Stream(context.Background(), "hi"); !errors.Is(err, errOpen) {
		t.Errorf("expected pre-stream error, got %v", err)
	}

	errMid := errors.New("connection reset")
	agent, err = New(&mockStreamProvider{
		events: []ai.StreamEvent{{Type: ai.StreamEventContent, Content: "partial"}},
		midErr: errMid,
	}, Config{})
	if err != nil {
		t.Fatal(err)
	}
	stream, err := agent.Stream(context.Background(), "hi")
	if err != nil {
		t.Fatal(err)
	}
	response, err := stream.Collect()
	if !errors.Is(err, errMid) {
		t.Fatalf("expected mid-stream error, got %v", err)
	}
	if response == nil || response.Content != "partial" {
		t.Errorf("expected partial content, got %+v", response)
	}
}

func TestStreamStopsEarly(t *testing.T) {
	provider := &mockStreamProvider{events: []ai.StreamEvent{
		{Type: ai.StreamEventContent, Content: "a"},
		{Type: ai.StreamEventContent, Content: "b"},
		{Type: ai.StreamEventContent, Content: "c"},
	}}
	agent, err := New(provider, Config{})
	if err != nil {
		t.Fatal(err)
	}
	stream, err := agent.Stream(context.Background(), "hi")
	if err != nil {
		t.Fatal(err)
	}

	seen := 0
	for range stream.Iter() {
		seen++
		if seen == 2 {
			break
		}
	}
	if seen != 2 {
		t.Errorf("expected to stop after 2 events, saw %d", seen)
	}
}
