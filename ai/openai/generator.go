// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/lectio/ai"
	"github.com/poiesic/lectio/core"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client      llms.Model
	model       string
	maxTokens   int
	temperature float64
	logger      *slog.Logger
}

// enrichmentPayload matches the JSON structure requested from the model.
type enrichmentPayload struct {
	ModernTranslation string `json:"modern_translation"`
	Context           string `json:"context"`
	Annotations       []struct {
		Topic       string `json:"topic"`
		Explanation string `json:"explanation"`
		Link        string `json:"link"`
	} `json:"annotations"`
	ParallelAccounts []struct {
		Author    string `json:"author"`
		Work      string `json:"work"`
		Reference string `json:"reference"`
		Relevance string `json:"relevance"`
		Link      string `json:"link"`
	} `json:"parallel_accounts"`
	RelatedPassages []struct {
		Book       int    `json:"book"`
		Chapter    int    `json:"chapter"`
		Summary    string `json:"summary"`
		Connection string `json:"connection"`
	} `json:"related_passages"`
	DiscussionPrompts []string `json:"discussion_prompts"`
	KeyThemes         []string `json:"key_themes"`
	Vocabulary        []struct {
		Term       string `json:"term"`
		Definition string `json:"definition"`
	} `json:"vocabulary"`
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.Host),
		openai.WithToken(config.Token),
		openai.WithModel(config.Model),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		model:       config.Model,
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
		logger:      slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new enrichment generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// GenerateEnrichment produces the full enrichment for a chunk in a single
// model call. Retry policy belongs to the caller; a malformed or incomplete
// response comes back as an error.
func (g *Generator) GenerateEnrichment(ctx context.Context, req *ai.GenerationRequest) (*core.Enrichment, error) {
	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(buildSystemPrompt()),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(buildUserPrompt(req)),
			},
		},
	}

	response, err := g.client.GenerateContent(ctx, content,
		llms.WithTemperature(g.temperature),
		llms.WithMaxTokens(g.maxTokens),
		llms.WithJSONMode())
	if err != nil {
		g.logger.Error("failed to generate content", "chunk", req.ChunkIndex, "err", err)
		return nil, err
	}

	if len(response.Choices) < 1 {
		return nil, ai.ErrEmptyResponse
	}

	// Strip markdown code fences if present
	responseText := strings.TrimSpace(response.Choices[0].Content)
	responseText = strings.TrimPrefix(responseText, "```json")
	responseText = strings.TrimPrefix(responseText, "```")
	responseText = strings.TrimSuffix(responseText, "```")
	responseText = strings.TrimSpace(responseText)

	// Try to repair common JSON issues
	responseText = repairJSON(responseText)

	var payload enrichmentPayload
	if err := json.Unmarshal([]byte(responseText), &payload); err != nil {
		g.logger.Warn("error parsing enrichment response",
			"chunk", req.ChunkIndex,
			"err", err)
		return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, err)
	}

	enrichment := g.toEnrichment(&payload)
	if err := core.ValidateEnrichment(enrichment); err != nil {
		g.logger.Warn("model returned incomplete enrichment",
			"chunk", req.ChunkIndex,
			"err", err)
		return nil, fmt.Errorf("%w: %w", ai.ErrIncompleteEnrichment, err)
	}

	g.logger.Debug("generated enrichment",
		"chunk", req.ChunkIndex,
		"annotations", len(enrichment.Annotations),
		"themes", len(enrichment.Themes))
	return enrichment, nil
}

func (g *Generator) toEnrichment(p *enrichmentPayload) *core.Enrichment {
	e := &core.Enrichment{
		Rendering:         strings.TrimSpace(p.ModernTranslation),
		Context:           strings.TrimSpace(p.Context),
		DiscussionPrompts: p.DiscussionPrompts,
		Themes:            p.KeyThemes,
		Model:             g.model,
		GeneratedAt:       time.Now().UTC(),
	}

	for _, a := range p.Annotations {
		e.Annotations = append(e.Annotations, core.Annotation{
			Topic:       a.Topic,
			Explanation: a.Explanation,
			Link:        a.Link,
		})
	}
	for _, pa := range p.ParallelAccounts {
		e.ParallelAccounts = append(e.ParallelAccounts, core.ParallelAccount{
			Author:    pa.Author,
			Work:      pa.Work,
			Reference: pa.Reference,
			Relevance: pa.Relevance,
			Link:      pa.Link,
		})
	}
	for _, rp := range p.RelatedPassages {
		e.RelatedPassages = append(e.RelatedPassages, core.RelatedPassage{
			Book:       rp.Book,
			Chapter:    rp.Chapter,
			Summary:    rp.Summary,
			Connection: rp.Connection,
		})
	}
	for _, v := range p.Vocabulary {
		e.Vocabulary = append(e.Vocabulary, core.VocabEntry{
			Term:       v.Term,
			Definition: v.Definition,
		})
	}

	return e
}
