package openai

import (
	"fmt"

	"github.com/poiesic/lectio/ai"
)

const enrichmentResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "modern_translation": {"type": "string"},
    "context": {"type": "string"},
    "annotations": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "topic": {"type": "string"},
          "explanation": {"type": "string"},
          "link": {"type": "string"}
        },
        "required": ["topic", "explanation"],
        "additionalProperties": false
      }
    },
    "parallel_accounts": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "author": {"type": "string"},
          "work": {"type": "string"},
          "reference": {"type": "string"},
          "relevance": {"type": "string"},
          "link": {"type": "string"}
        },
        "required": ["author", "work", "reference", "relevance"],
        "additionalProperties": false
      }
    },
    "related_passages": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "book": {"type": "integer"},
          "chapter": {"type": "integer"},
          "summary": {"type": "string"},
          "connection": {"type": "string"}
        },
        "required": ["book", "chapter", "summary", "connection"],
        "additionalProperties": false
      }
    },
    "discussion_prompts": {
      "type": "array",
      "items": {"type": "string"}
    },
    "key_themes": {
      "type": "array",
      "items": {"type": "string"}
    },
    "vocabulary": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "term": {"type": "string"},
          "definition": {"type": "string"}
        },
        "required": ["term", "definition"],
        "additionalProperties": false
      }
    }
  },
  "required": ["modern_translation", "context", "annotations", "discussion_prompts", "key_themes"],
  "additionalProperties": false
}`

const enrichmentSystemPrompt = `You are a classical scholar specializing in ancient Greek history. You create comprehensive educational content for passages from classical texts read in daily portions.

Output ONLY valid JSON which complies with the schema given below. Do not include any preamble, explanation, greeting, or acknowledgment. Start your response directly with the opening brace { and end with the closing brace }. Your output must exactly follow this schema:

%s

Section guidance:
- modern_translation: a sophisticated modern English rendering that captures the nuance of the original while improving clarity and readability. Keep roughly the same length as the original.
- context: a 150-200 word explanation of what is happening in the passage: the immediate historical situation, key participants and their roles, the strategic or political significance, and how it fits the broader narrative.
- annotations: 3-5 scholarly annotations, each with a topic, a 50-100 word explanation, and a relevant scholarly link (Wikipedia, Perseus Digital Library, academic resources).
- parallel_accounts: 2-4 related passages from other ancient historians (Herodotus, Plutarch, Xenophon, etc.) with work, reference, and relevance. Cite real passages only.
- related_passages: 2-3 related sections within the same work, with book and chapter numbers.
- discussion_prompts: 3-4 thought-provoking questions suitable for students or reading groups.
- key_themes: 2-4 major themes illustrated in the passage (e.g., "power and justice", "rhetoric and reality").
- vocabulary: 3-5 important terms or concepts with brief definitions.

Rules:
- Be scholarly but accessible.
- All links must be real, working URLs. Do not fabricate citations.
- The JSON must parse without errors; no trailing commas, no extra keys, and no extraneous text outside the object.`

const enrichmentUserPromptTemplate = `Passage (Book %d, Chapter %d, Day %d, ~%d words):

%s`

// buildSystemPrompt creates the system prompt with the response schema embedded.
func buildSystemPrompt() string {
	return fmt.Sprintf(enrichmentSystemPrompt, enrichmentResponseSchema)
}

// buildUserPrompt formats the chunk text with its position in the work.
func buildUserPrompt(req *ai.GenerationRequest) string {
	return fmt.Sprintf(enrichmentUserPromptTemplate,
		req.Location.Book,
		req.Location.Chapter,
		req.ChunkIndex+1,
		req.WordCount,
		req.Text)
}
