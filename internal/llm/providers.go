package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	anthropic "github.com/liushuangls/go-anthropic/v2"
	openai "github.com/sashabaranov/go-openai"

	errs "github.com/Pyrem/talentbase/pkg/errors"
)

// openaiSystemPrompt frames the chat-completions call; the other providers
// take the whole instruction in the user prompt.
const openaiSystemPrompt = "You are a recruiting analyst evaluating candidate profiles."

type openaiBackend struct {
	client    *openai.Client
	model     string
	maxTokens int
}

func (b *openaiBackend) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		MaxTokens:   b.maxTokens,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: openaiSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errs.ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

type anthropicBackend struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

func (b *anthropicBackend) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(b.model),
		MaxTokens: b.maxTokens,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic messages: %w", err)
	}
	return resp.GetFirstContentText(), nil
}

type geminiBackend struct {
	client    *genai.Client
	model     string
	maxTokens int
}

func (b *geminiBackend) complete(ctx context.Context, prompt string) (string, error) {
	model := b.client.GenerativeModel(b.model)
	if b.maxTokens > 0 {
		model.SetMaxOutputTokens(int32(b.maxTokens))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errs.ErrEmptyResponse
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}
	return string(text), nil
}
