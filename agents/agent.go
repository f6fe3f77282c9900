// Package agents is small glue for chaining LLM calls: a Model interface with
// Anthropic and OpenAI adapters, agents with instructions and output keys,
// and a sequential Chain that passes state between them. It exists for the
// runnable examples under examples/ and is deliberately not a framework.
package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Request is a single prompt for a model.
type Request struct {
	System string
	Prompt string
}

// Model generates a completion for a request.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// State carries agent outputs through a chain, keyed by each agent's OutputKey.
type State map[string]string

// Tool is a named Go function the model may ask to run.
type Tool struct {
	Name        string
	Description string
	Func        func(args map[string]string) (string, error)
}

type Agent struct {
	Name        string
	Instruction string // may reference earlier outputs as {output_key}
	OutputKey   string
	Model       Model
	Tools       []Tool
}

// maxToolTurns bounds the ask-tool-ask loop so a confused model cannot spin.
const maxToolTurns = 4

// Run executes the agent once. Instructions are rendered against the chain
// state, and tool calls requested by the model are resolved before the final
// answer is returned.
func (a *Agent) Run(ctx context.Context, state State, input string) (string, error) {
	system := RenderInstruction(a.Instruction, state)
	if len(a.Tools) > 0 {
		system += "\n\n" + toolInstructions(a.Tools)
	}

	prompt := input
	for turn := 0; ; turn++ {
		out, err := a.Model.Generate(ctx, Request{System: system, Prompt: prompt})
		if err != nil {
			return "", fmt.Errorf("agent %s: %w", a.Name, err)
		}

		if len(a.Tools) == 0 || turn >= maxToolTurns {
			return out, nil
		}
		call, ok := parseToolCall(out)
		if !ok {
			return out, nil
		}

		result, err := a.runTool(call)
		if err != nil {
			result = fmt.Sprintf("error: %v", err)
		}
		prompt = fmt.Sprintf("%s\n\nTool %s returned: %s\nUse this result to answer.",
			prompt, call.Tool, result)
	}
}

// RenderInstruction substitutes {key} placeholders from the chain state.
// Unknown placeholders are left alone.
func RenderInstruction(instruction string, state State) string {
	out := instruction
	for k, v := range state {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}

type toolCall struct {
	Tool string            `json:"tool"`
	Args map[string]string `json:"args"`
}

func toolInstructions(tools []Tool) string {
	var sb strings.Builder
	sb.WriteString("You can use these tools. To call one, respond with JSON only: " +
		`{"tool": "<name>", "args": {...}}` + "\n")
	for _, t := range tools {
		fmt.Fprintf(&sb, "- %s: %s\n", t.Name, t.Description)
	}
	return sb.String()
}

// parseToolCall looks for a tool-call JSON object in the model output.
func parseToolCall(out string) (toolCall, bool) {
	start := strings.Index(out, "{")
	end := strings.LastIndex(out, "}")
	if start == -1 || end <= start {
		return toolCall{}, false
	}
	var call toolCall
	if err := json.Unmarshal([]byte(out[start:end+1]), &call); err != nil || call.Tool == "" {
		return toolCall{}, false
	}
	return call, true
}

func (a *Agent) runTool(call toolCall) (string, error) {
	for _, t := range a.Tools {
		if t.Name == call.Tool {
			return t.Func(call.Args)
		}
	}
	return "", fmt.Errorf("unknown tool %q", call.Tool)
}

// Chain runs agents in order, storing each output under its key so later
// instructions can reference it.
type Chain struct {
	Name   string
	Agents []*Agent
}

func NewChain(name string, agents ...*Agent) *Chain {
	return &Chain{Name: name, Agents: agents}
}

// Run executes every agent with the shared state. The first error stops the
// chain. Returns the final state and the last agent's output.
func (c *Chain) Run(ctx context.Context, input string) (State, string, error) {
	state := State{}
	var last string
	for _, a := range c.Agents {
		out, err := a.Run(ctx, state, input)
		if err != nil {
			return state, "", fmt.Errorf("chain %s failed at agent %s: %w", c.Name, a.Name, err)
		}
		if a.OutputKey != "" {
			state[a.OutputKey] = out
		}
		last = out
	}
	return state, last, nil
}
