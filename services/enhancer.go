package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/fixitlocal/fixit-app/utils"
	"github.com/ollama/ollama/api"
)

// Enhancer asks a local Ollama model to elaborate a job description and
// suggest tags. Any failure falls back to the original text: the caller
// always gets a usable description.
type Enhancer struct {
	client *api.Client
	model  string
}

// EnhancedJob is the enhancer's response contract.
type EnhancedJob struct {
	EnhancedDescription string   `json:"enhancedDescription"`
	Tags                []string `json:"tags"`
}

func NewEnhancer() (*Enhancer, error) {
	base := os.Getenv("OLLAMA_URL")
	if base == "" {
		base = "http://localhost:11434"
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid OLLAMA_URL: %w", err)
	}
	model := os.Getenv("OLLAMA_MODEL")
	if model == "" {
		model = "llama3"
	}
	httpClient := &http.Client{Timeout: 60 * time.Second}
	return &Enhancer{client: api.NewClient(u, httpClient), model: model}, nil
}

const enhancePrompt = `You are an AI assistant for a home repair platform. Given a homeowner's job description, please enhance it with additional helpful details and suggest relevant tags.

Original description:
%q

Please provide:
1. An enhanced version of the description with more details about what's needed
2. A list of 3-5 relevant tags for categorizing this job

Format your response as JSON:
{"enhancedDescription": "...", "tags": ["tag1", "tag2", "tag3"]}`

// Enhance returns the elaborated description and tags, or the unchanged
// description with no tags when the model is unreachable or answers with
// something that is not the expected JSON.
func (e *Enhancer) Enhance(ctx context.Context, description string) EnhancedJob {
	fallback := EnhancedJob{EnhancedDescription: description, Tags: []string{}}

	stream := false
	req := &api.GenerateRequest{
		Model:  e.model,
		Prompt: fmt.Sprintf(enhancePrompt, description),
		Stream: &stream,
		Format: json.RawMessage(`"json"`),
	}

	var out strings.Builder
	err := e.client.Generate(ctx, req, func(r api.GenerateResponse) error {
		out.WriteString(r.Response)
		return nil
	})
	if err != nil {
		log.Printf("enhancer: generate failed: %v", err)
		return fallback
	}

	parsed, ok := parseEnhanced(out.String())
	if !ok {
		log.Printf("enhancer: unparseable model output")
		return fallback
	}
	if parsed.EnhancedDescription == "" {
		parsed.EnhancedDescription = description
	}
	if parsed.Tags == nil {
		parsed.Tags = []string{}
	}
	return parsed
}

const chatSystemPrompt = `Only answer the user question directly and concisely. Do not add extra information, greetings, or follow-up questions. Limit your answer to 3 short sentences. Do not exceed 30 words. Do not add explanations, lists, or extra context.`

// ChatReply is the assistant's answer to a free-form question.
type ChatReply struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Chat relays one user message to the model, pinned to short answers by a
// system prompt, and accumulates the streamed reply.
func (e *Enhancer) Chat(ctx context.Context, message string) (ChatReply, error) {
	req := &api.ChatRequest{
		Model: e.model,
		Messages: []api.Message{
			{Role: "system", Content: chatSystemPrompt},
			{Role: "user", Content: message},
		},
	}

	var out strings.Builder
	err := e.client.Chat(ctx, req, func(r api.ChatResponse) error {
		out.WriteString(r.Message.Content)
		return nil
	})
	if err != nil {
		log.Printf("enhancer: chat failed: %v", err)
		return ChatReply{}, utils.Internal()
	}
	return ChatReply{Role: "assistant", Content: out.String()}, nil
}

// parseEnhanced extracts the JSON object from the model output, tolerating
// surrounding prose.
func parseEnhanced(raw string) (EnhancedJob, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return EnhancedJob{}, false
	}
	var parsed EnhancedJob
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return EnhancedJob{}, false
	}
	return parsed, true
}
