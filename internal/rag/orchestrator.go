package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/paperchat/cli/internal/ollama"
	"github.com/paperchat/cli/internal/store"
)

// ChatBackend is the language-model side of a turn.
type ChatBackend interface {
	Chat(ctx context.Context, model string, messages []ollama.ChatMessage) (string, error)
}

// ContextRetriever supplies relevant chunk texts for a query.
type ContextRetriever interface {
	Query(ctx context.Context, query string) ([]string, error)
}

// Orchestrator runs a single chat turn: optional retrieval, prompt assembly,
// one backend call. It is stateless across calls; a failed backend call is
// not retried, its description simply becomes the reply text.
type Orchestrator struct {
	backend   ChatBackend
	retriever ContextRetriever
}

// NewOrchestrator creates a new orchestrator
func NewOrchestrator(backend ChatBackend, retriever ContextRetriever) *Orchestrator {
	return &Orchestrator{
		backend:   backend,
		retriever: retriever,
	}
}

// Respond produces the assistant reply for userInput given the recent
// history. Failures never escape as errors: the caller always receives some
// reply text, so persistence and display proceed unchanged either way.
func (o *Orchestrator) Respond(ctx context.Context, model, userInput string, history []store.Turn, retrievalEnabled bool) string {
	var messages []ollama.ChatMessage

	if retrievalEnabled {
		chunks, err := o.retriever.Query(ctx, userInput)
		if err != nil {
			return fmt.Sprintf("Error: %v", err)
		}
		context := strings.Join(chunks, "\n")
		messages = append(messages, ollama.ChatMessage{
			Role:    "system",
			Content: fmt.Sprintf("You are a helpful assistant. Base your answers on the following context: %s", context),
		})
	}

	for _, turn := range history {
		role := store.RoleAssistant
		if turn.Role == store.RoleUser {
			role = store.RoleUser
		}
		messages = append(messages, ollama.ChatMessage{Role: role, Content: turn.Content})
	}

	messages = append(messages, ollama.ChatMessage{Role: store.RoleUser, Content: userInput})

	reply, err := o.backend.Chat(ctx, model, messages)
	if err != nil {
		return fmt.Sprintf("Error: %v", err)
	}
	return reply
}
