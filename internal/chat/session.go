package chat

import (
	"strings"

	"github.com/bz888/deepcli/internal/api"
)

// Session holds the in-memory state of one interactive run: the transcript
// sent back to the model on every turn, and the attachment staged for the
// next prompt. It is not safe for concurrent use; the UI serializes access.
type Session struct {
	opts        api.Options
	transcript  []api.Message
	pendingFile string
}

func NewSession(opts api.Options) *Session {
	return &Session{
		opts:       opts,
		transcript: []api.Message{api.SystemPrompt(opts.JSONMode)},
	}
}

// Directive is an in-band command handled locally, without a network call.
type Directive int

const (
	DirectiveNone Directive = iota
	DirectiveHelp
	DirectiveQuit
	DirectiveClear
	DirectiveFile
)

// ParseDirective recognizes backslash directives. Unknown backslash input is
// treated as plain text.
func ParseDirective(line string) (Directive, string) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, `\`) {
		return DirectiveNone, ""
	}
	name, arg, _ := strings.Cut(trimmed, " ")
	switch name {
	case `\help`:
		return DirectiveHelp, ""
	case `\bye`:
		return DirectiveQuit, ""
	case `\clear`:
		return DirectiveClear, ""
	case `\file`:
		return DirectiveFile, strings.TrimSpace(arg)
	}
	return DirectiveNone, ""
}

// StageFile stages path as the attachment for the next prompt. An empty path
// drops the staged attachment. The path is validated at send time.
func (s *Session) StageFile(path string) {
	s.pendingFile = path
}

// Clear drops the staged attachment. The transcript is left untouched.
func (s *Session) Clear() {
	s.pendingFile = ""
}

func (s *Session) PendingFile() string {
	return s.pendingFile
}

// BuildRequest assembles the next request from the transcript, the prompt and
// any staged attachment. The attachment is consumed on success so a failed
// send can be retried with it still staged.
func (s *Session) BuildRequest(prompt string) (*api.ChatRequest, error) {
	opts := s.opts
	opts.Prompt = prompt
	opts.FilePath = s.pendingFile
	opts.History = s.transcript

	req, err := api.BuildRequest(opts)
	if err != nil {
		return nil, err
	}
	s.pendingFile = ""
	return req, nil
}

// Record appends a completed exchange to the transcript.
func (s *Session) Record(user api.Message, assistant api.AssistantMessage) {
	s.transcript = append(s.transcript,
		user,
		api.Message{Role: api.RoleAssistant, Content: assistant.Content},
	)
}

func (s *Session) Transcript() []api.Message {
	return append([]api.Message(nil), s.transcript...)
}
