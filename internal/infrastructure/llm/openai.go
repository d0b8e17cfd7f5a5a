package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient speaks to any OpenAI-compatible chat endpoint (DeepSeek,
// OpenAI proper, a local proxy). It implements Provider.
type OpenAIClient struct {
	modelName  string
	categories []string
	client     *openai.Client
}

func NewOpenAIClient(apiKey, baseURL, modelName string, categories []string) *OpenAIClient {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIClient{
		modelName:  modelName,
		categories: categories,
		client:     openai.NewClientWithConfig(config),
	}
}

// ExtractExpenses forces the model through the record_expenses tool and
// returns the raw arguments JSON.
func (c *OpenAIClient) ExtractExpenses(ctx context.Context, paragraph string) (string, error) {
	sysPrompt := fmt.Sprintf(
		"You are an expense extraction assistant. Current date: %s. "+
			"Extract every expense the user mentions. Amounts are non-negative numbers; "+
			"use the allowed categories only.",
		time.Now().Format("2006-01-02"))

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sysPrompt},
			{Role: openai.ChatMessageRoleUser, Content: paragraph},
		},
		Tools: []openai.Tool{GenerateRecordExpensesTool(c.categories)},
		ToolChoice: openai.ToolChoice{
			Type:     openai.ToolTypeFunction,
			Function: openai.ToolFunction{Name: "record_expenses"},
		},
		// Low temperature keeps the JSON stable.
		Temperature: 0.1,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("extraction call: %w", err)
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].Message.ToolCalls) == 0 {
		return "", fmt.Errorf("extraction call: model returned no tool call")
	}
	return resp.Choices[0].Message.ToolCalls[0].Function.Arguments, nil
}

// AnalyzeSpending runs the narrative-analysis prompt in JSON mode and
// returns the raw completion text.
func (c *OpenAIClient) AnalyzeSpending(ctx context.Context, system, user string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.3,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("analysis call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("analysis call: empty response")
	}
	return resp.Choices[0].Message.Content, nil
}
