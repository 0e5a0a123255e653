// Package openai adapts the go-openai client to the agent's ModelClient
// and the headhunter's Scorer ports.
package openai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	goopenai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/AdnanSaeed-85/job-automation-agent/internal/app/agent"
	"github.com/AdnanSaeed-85/job-automation-agent/internal/core/workflow"
)

// Options configures a Client.
type Options struct {
	APIKey string
	// BaseURL points at an OpenAI-compatible endpoint. Empty means the
	// default OpenAI API.
	BaseURL     string
	Model       string
	Temperature float32
	Logger      zerolog.Logger
}

// Client talks to an OpenAI-compatible chat completion API.
type Client struct {
	api         *goopenai.Client
	model       string
	temperature float32
	log         zerolog.Logger
}

// New creates a client.
func New(opts Options) *Client {
	cfg := goopenai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	return &Client{
		api:         goopenai.NewClientWithConfig(cfg),
		model:       opts.Model,
		temperature: opts.Temperature,
		log:         opts.Logger,
	}
}

// searchJobsTool describes the paid search to the model.
var searchJobsTool = goopenai.Tool{
	Type: goopenai.ToolTypeFunction,
	Function: &goopenai.FunctionDefinition{
		Name: agent.ToolSearchJobs,
		Description: "Run a paid job search on the user's behalf. Costs money; " +
			"the user is asked to approve the charge before anything runs.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"job_title": {Type: jsonschema.String, Description: "Job title to search for"},
				"country":   {Type: jsonschema.String, Description: "Country of the job market"},
				"location":  {Type: jsonschema.String, Description: "City or area within the country"},
				"job_limit": {Type: jsonschema.Integer, Description: "How many postings to return"},
			},
			Required: []string{"job_title", "country", "location", "job_limit"},
		},
	},
}

var readReportTool = goopenai.Tool{
	Type: goopenai.ToolTypeFunction,
	Function: &goopenai.FunctionDefinition{
		Name:        agent.ToolReadReport,
		Description: "Read back the most recent job search report.",
		Parameters: jsonschema.Definition{
			Type:       jsonschema.Object,
			Properties: map[string]jsonschema.Definition{},
		},
	},
}

// Complete generates the next assistant message with the agent's tools
// offered.
func (c *Client) Complete(ctx context.Context, msgs []workflow.Message) (workflow.Message, error) {
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages:    toAPIMessages(msgs),
		Tools:       []goopenai.Tool{searchJobsTool, readReportTool},
	})
	if err != nil {
		return workflow.Message{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return workflow.Message{}, fmt.Errorf("chat completion: empty response")
	}
	return fromAPIMessage(resp.Choices[0].Message)
}

// CompleteStructured generates a JSON object reply and decodes it into out.
func (c *Client) CompleteStructured(ctx context.Context, msgs []workflow.Message, out any) error {
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages:    toAPIMessages(msgs),
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return fmt.Errorf("structured completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("structured completion: empty response")
	}
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("structured completion: decoding %q: %w", content, err)
	}
	return nil
}

// ScoreCandidate implements headhunter.Scorer.
func (c *Client) ScoreCandidate(ctx context.Context, resume, description string) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		Messages: []goopenai.ChatCompletionMessage{{
			Role:    goopenai.ChatMessageRoleUser,
			Content: agent.ScoringPrompt(resume, description),
		}},
	})
	if err != nil {
		return "", fmt.Errorf("scoring completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("scoring completion: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}

func toAPIMessages(msgs []workflow.Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(msgs))
	for _, m := range msgs {
		am := goopenai.ChatCompletionMessage{
			Role:       string(m.Role),
			Content:    m.Content,
			ToolCallID: m.ToolCallID,
		}
		for _, call := range m.ToolCalls {
			args, err := json.Marshal(call.Args)
			if err != nil {
				args = []byte("{}")
			}
			am.ToolCalls = append(am.ToolCalls, goopenai.ToolCall{
				ID:   call.ID,
				Type: goopenai.ToolTypeFunction,
				Function: goopenai.FunctionCall{
					Name:      call.Name,
					Arguments: string(args),
				},
			})
		}
		out = append(out, am)
	}
	return out
}

func fromAPIMessage(m goopenai.ChatCompletionMessage) (workflow.Message, error) {
	msg := workflow.Message{
		Role:    workflow.RoleAssistant,
		Content: m.Content,
	}
	for _, call := range m.ToolCalls {
		args := map[string]any{}
		if call.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
				return workflow.Message{}, fmt.Errorf("decoding tool arguments for %s: %w", call.Function.Name, err)
			}
		}
		msg.ToolCalls = append(msg.ToolCalls, workflow.ToolCall{
			ID:   call.ID,
			Name: call.Function.Name,
			Args: args,
		})
	}
	return msg, nil
}
