package agents

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeModel returns canned replies in order and records the requests it saw.
type fakeModel struct {
	replies  []string
	err      error
	requests []Request
}

func (m *fakeModel) Generate(_ context.Context, req Request) (string, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	i := len(m.requests) - 1
	if i >= len(m.replies) {
		i = len(m.replies) - 1
	}
	return m.replies[i], nil
}

func TestAgentRun(t *testing.T) {
	model := &fakeModel{replies: []string{"Tokyo is great in spring."}}
	agent := &Agent{Name: "Research", Model: model, Instruction: "You are a researcher."}

	out, err := agent.Run(context.Background(), State{}, "Tell me about Tokyo.")

	require.NoError(t, err)
	assert.Equal(t, "Tokyo is great in spring.", out)
	require.Len(t, model.requests, 1)
	assert.Equal(t, "You are a researcher.", model.requests[0].System)
	assert.Equal(t, "Tell me about Tokyo.", model.requests[0].Prompt)
}

func TestRenderInstruction(t *testing.T) {
	state := State{"research": "findings here"}

	assert.Equal(t, "Use findings here to plan.",
		RenderInstruction("Use {research} to plan.", state))
	// unknown placeholders stay as-is
	assert.Equal(t, "Use {missing} to plan.",
		RenderInstruction("Use {missing} to plan.", state))
}

func TestChainStatePropagation(t *testing.T) {
	first := &fakeModel{replies: []string{"RESEARCH-OUTPUT"}}
	second := &fakeModel{replies: []string{"final plan"}}

	chain := NewChain("Planner",
		&Agent{Name: "A", Model: first, Instruction: "research it", OutputKey: "research"},
		&Agent{Name: "B", Model: second, Instruction: "plan from {research}"},
	)

	state, last, err := chain.Run(context.Background(), "go")

	require.NoError(t, err)
	assert.Equal(t, "final plan", last)
	assert.Equal(t, "RESEARCH-OUTPUT", state["research"])
	// the second agent saw the first agent's output substituted in
	require.Len(t, second.requests, 1)
	assert.Equal(t, "plan from RESEARCH-OUTPUT", second.requests[0].System)
}

func TestChainStopsOnError(t *testing.T) {
	first := &fakeModel{err: errors.New("api down")}
	second := &fakeModel{replies: []string{"should not run"}}

	chain := NewChain("Planner",
		&Agent{Name: "A", Model: first},
		&Agent{Name: "B", Model: second},
	)

	_, _, err := chain.Run(context.Background(), "go")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed at agent A")
	assert.Empty(t, second.requests)
}

func TestAgentToolCall(t *testing.T) {
	model := &fakeModel{replies: []string{
		`{"tool": "get_weather", "args": {"city": "Tokyo"}}`,
		"It is raining in Tokyo.",
	}}

	var calledWith map[string]string
	agent := &Agent{
		Name:        "Weather",
		Model:       model,
		Instruction: "answer weather questions",
		Tools: []Tool{{
			Name:        "get_weather",
			Description: "weather for a city",
			Func: func(args map[string]string) (string, error) {
				calledWith = args
				return "light rain, 18C", nil
			},
		}},
	}

	out, err := agent.Run(context.Background(), State{}, "Weather in Tokyo?")

	require.NoError(t, err)
	assert.Equal(t, "It is raining in Tokyo.", out)
	assert.Equal(t, map[string]string{"city": "Tokyo"}, calledWith)
	// second request carries the tool result back to the model
	require.Len(t, model.requests, 2)
	assert.Contains(t, model.requests[1].Prompt, "light rain, 18C")
	// tool listing is appended to the system prompt
	assert.Contains(t, model.requests[0].System, "get_weather")
}

func TestAgentUnknownToolSurfacesError(t *testing.T) {
	model := &fakeModel{replies: []string{
		`{"tool": "nope", "args": {}}`,
		"ok, answering without it",
	}}
	agent := &Agent{
		Name:  "T",
		Model: model,
		Tools: []Tool{{Name: "real", Func: func(map[string]string) (string, error) { return "", nil }}},
	}

	out, err := agent.Run(context.Background(), State{}, "hi")

	require.NoError(t, err)
	assert.Equal(t, "ok, answering without it", out)
	require.Len(t, model.requests, 2)
	assert.Contains(t, model.requests[1].Prompt, `unknown tool "nope"`)
}

func TestAgentToolLoopBounded(t *testing.T) {
	// a model that always asks for a tool must still terminate
	model := &fakeModel{replies: []string{`{"tool": "loop", "args": {}}`}}
	agent := &Agent{
		Name:  "Loop",
		Model: model,
		Tools: []Tool{{Name: "loop", Func: func(map[string]string) (string, error) {
			return "again", nil
		}}},
	}

	_, err := agent.Run(context.Background(), State{}, "go")

	require.NoError(t, err)
	assert.LessOrEqual(t, len(model.requests), maxToolTurns+1)
}

func TestParseToolCall(t *testing.T) {
	call, ok := parseToolCall(`I'll check. {"tool": "get_weather", "args": {"city": "Paris"}}`)
	require.True(t, ok)
	assert.Equal(t, "get_weather", call.Tool)
	assert.Equal(t, "Paris", call.Args["city"])

	for _, text := range []string{"plain answer", "{}", `{"args": {}}`, "{broken"} {
		_, ok := parseToolCall(text)
		assert.False(t, ok, fmt.Sprintf("input: %q", text))
	}
}
