package llm

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/distiller/pkg/config"
	"github.com/umputun/distiller/pkg/domain"
)

// noContent is returned in place of an empty completion
const noContent = "No content generated."

// Distiller uses LLM to turn raw text into structured notes and to refine them
type Distiller struct {
	config    config.LLMConfig
	systemMsg string
	newClient func(apiKey string) *openai.Client
}

// NewDistiller creates a new LLM distiller
func NewDistiller(cfg config.LLMConfig) *Distiller {
	// use custom system prompt if provided, otherwise use default
	systemMsg := cfg.SystemPrompt
	if systemMsg == "" {
		systemMsg = defaultSystemPrompt
	}

	return &Distiller{
		config:    cfg,
		systemMsg: systemMsg,
		newClient: func(apiKey string) *openai.Client {
			clientConfig := openai.DefaultConfig(apiKey)
			if cfg.Endpoint != "" {
				clientConfig.BaseURL = cfg.Endpoint
			}
			return openai.NewClientWithConfig(clientConfig)
		},
	}
}

// default system prompt for note distillation
const defaultSystemPrompt = `
You are an expert Knowledge Engineer and Obsidian Architect. Your goal is to take raw text (articles, thoughts, learning materials) and distill it into a high-quality, "atomic" or "evergreen" note suitable for a Zettelkasten or personal knowledge management system.

STRICT OUTPUT FORMAT RULES:
1. Output MUST be raw Markdown. Do not use code blocks (like ` + "```markdown" + `).
2. Output MUST start with the YAML frontmatter block.
3. You MUST follow the section headers exactly as shown in the template below. Do not skip sections.

TEMPLATE:
---
title: "A concise, active title (no colons or slashes)"
date: {{YYYY-MM-DD HH:mm}}
tags: [knowledge, learning, ...topic_tags]
status: processed
---

# {{Title Again}}

## Core Concept
A 1-2 sentence summary of the absolute core logic or mental model.

## Key Insights
- Bullet points of the most critical information.
- Focus on *principles* rather than just facts.
- What should the user memorize or understand deeply?

## Detailed Explanation
(Optional) If there is complex logic, code, or a process, explain it here clearly. If not, assume this section is not needed or keep it brief.

## Connections
- List potential links to other concepts using Wikilink format: [[Related Concept]].
- Suggest tags that link this to broader fields.

IMPORTANT:
- Ensure the 'title' in the frontmatter is filesystem-safe (NO colons :, NO forward slashes /, NO backslashes \).
`

// refineSystemPrompt keeps the model on the existing note structure
const refineSystemPrompt = "You are a helpful editor refining knowledge notes. You strictly adhere to the existing Markdown structure."

// Distill converts raw text into a structured Markdown note
func (d *Distiller) Distill(ctx context.Context, apiKey, text string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", domain.ErrMissingAPIKey
	}

	req := openai.ChatCompletionRequest{
		Model:       d.config.Model,
		Temperature: temperature(d.config.Temperature),
		MaxTokens:   d.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: d.systemMsg},
			{Role: openai.ChatMessageRoleUser, Content: d.buildDistillPrompt(text)},
		},
	}

	res, err := d.complete(ctx, apiKey, req)
	if err != nil {
		return "", fmt.Errorf("distill note: %w", err)
	}
	return res, nil
}

// Refine rewrites the current note following the user's instruction
func (d *Distiller) Refine(ctx context.Context, apiKey, document, instruction string) (string, error) {
	if strings.TrimSpace(apiKey) == "" {
		return "", domain.ErrMissingAPIKey
	}

	// no temperature here, refinement runs with the provider's default
	req := openai.ChatCompletionRequest{
		Model:     d.config.Model,
		MaxTokens: d.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: refineSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: d.buildRefinePrompt(document, instruction)},
		},
	}

	res, err := d.complete(ctx, apiKey, req)
	if err != nil {
		return "", fmt.Errorf("refine note: %w", err)
	}
	return res, nil
}

// complete sends the chat completion request and returns the text of the first choice
func (d *Distiller) complete(ctx context.Context, apiKey string, req openai.ChatCompletionRequest) (string, error) {
	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	resp, err := d.newClient(apiKey).CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("llm request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from llm")
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return noContent, nil
	}
	return content, nil
}

// temperature converts configured value for the request. The client omits zero temperature,
// so an explicit zero is sent as the smallest positive float instead.
func temperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

// buildDistillPrompt wraps the raw text into the task payload
func (d *Distiller) buildDistillPrompt(text string) string {
	return "Process the following text into a structured Obsidian note:\n\n" + text
}

// buildRefinePrompt embeds the current note verbatim together with the instruction
func (d *Distiller) buildRefinePrompt(document, instruction string) string {
	var sb strings.Builder
	sb.WriteString("I have a draft Obsidian note. I need you to modify it based on my instructions.\n\n")
	sb.WriteString("CURRENT NOTE:\n")
	sb.WriteString(document)
	sb.WriteString("\n\nUSER INSTRUCTION:\n")
	sb.WriteString(instruction)
	sb.WriteString("\n\nIMPORTANT:\n")
	sb.WriteString("1. Output the fully rewritten note with the changes applied.\n")
	sb.WriteString("2. You MUST PRESERVE the original Markdown structure (YAML frontmatter, Headers) unless the user explicitly asks to change the format.\n")
	sb.WriteString("3. Do not output markdown code blocks.\n")
	return sb.String()
}
