// Package chat provides the intelligence console: a session-scoped
// conversation over the stored library, spoken in the tenant's learned
// voice when one exists.
package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/channelchangers/intelextract/internal/llm"
	"github.com/channelchangers/intelextract/internal/prompts"
	"github.com/channelchangers/intelextract/internal/types"
)

// contextWindow is how many recent library records are summarized into
// each turn's corporate memory block.
const contextWindow = 10

// Fallback replies. The conversation log always gets a model-role entry,
// even when the model call fails.
const (
	EmptyReply = "Intelligence engine busy. Retry."
	ErrorReply = "Connection to intelligence engine lost."
)

// voicePlaceholder instructs the model when no voice profile has been
// learned yet.
const voicePlaceholder = "No voice profile learned yet. Use a direct, analytical tone."

// Agent is one chat session. It is not safe for concurrent use.
type Agent struct {
	client  llm.Client
	session llm.ChatSession
	profile *types.CompanyProfile
	log     *zap.Logger

	messages []types.ChatMessage
}

// NewAgent opens a chat session for a profile. The system instruction is
// fixed at creation; recreate the agent to pick up voice changes.
func NewAgent(client llm.Client, profile *types.CompanyProfile, log *zap.Logger) (*Agent, error) {
	if log == nil {
		log = zap.NewNop()
	}

	session, err := client.StartChat(systemInstruction(profile), llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("failed to open chat session: %w", err)
	}

	return &Agent{
		client:  client,
		session: session,
		profile: profile,
		log:     log,
	}, nil
}

// systemInstruction renders the console persona, including the voice
// guideline derived from the learned voice profile.
func systemInstruction(profile *types.CompanyProfile) string {
	return prompts.Format(prompts.MustGet("chat.json", "system-instruction"), map[string]string{
		"Company":      profile.Name,
		"VoiceContext": voiceContext(profile.VoiceProfile),
	})
}

func voiceContext(voice *types.VoiceProfile) string {
	if voice == nil {
		return voicePlaceholder
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Sentence structures: %s. ", voice.SentenceStructures)
	if len(voice.SignaturePhrases) > 0 {
		fmt.Fprintf(&b, "Signature phrases: %s. ", strings.Join(voice.SignaturePhrases, "; "))
	}
	if len(voice.AntiPatterns) > 0 {
		fmt.Fprintf(&b, "Never use: %s.", strings.Join(voice.AntiPatterns, "; "))
	}
	return strings.TrimSpace(b.String())
}

// libraryContext summarizes the most recent library records for prompt
// injection. The library is stored newest first.
func libraryContext(library []types.AnalysisResult) string {
	if len(library) == 0 {
		return "(library is empty)"
	}
	window := library
	if len(window) > contextWindow {
		window = window[:contextWindow]
	}

	var b strings.Builder
	for _, item := range window {
		client := item.TopClient()
		if client == "" {
			client = "Global"
		}
		fmt.Fprintf(&b, "- [%s] %s: %s\n", client, item.Title, item.Summary)
	}
	return b.String()
}

// Send submits one user message with fresh library context and appends
// both turns to the conversation log. Model failures degrade to fallback
// replies; Send never returns an error to the caller.
func (a *Agent) Send(ctx context.Context, query string, library []types.AnalysisResult) string {
	a.messages = append(a.messages, types.ChatMessage{Role: types.RoleUser, Text: query})

	turn := prompts.Format(prompts.MustGet("chat.json", "turn-message"), map[string]string{
		"Context": libraryContext(library),
		"Query":   query,
		"Company": a.profile.Name,
		"Focus":   a.profile.Focus,
	})

	reply, err := a.session.Send(ctx, turn)
	switch {
	case err != nil:
		a.log.Warn("chat turn failed", zap.Error(err))
		reply = ErrorReply
	case strings.TrimSpace(reply) == "":
		reply = EmptyReply
	}

	a.messages = append(a.messages, types.ChatMessage{Role: types.RoleModel, Text: reply})
	return reply
}

// Messages returns the full conversation log for this session.
func (a *Agent) Messages() []types.ChatMessage {
	return a.messages
}
