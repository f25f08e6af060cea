package api

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	systemPrompt     = "You are a helpful assistant."
	systemPromptJSON = "You are a helpful assistant. You must output your response in a valid JSON format."
)

var modelNames = map[string]string{
	"r1":   "deepseek-reasoner",
	"chat": "deepseek-chat",
}

// Options carries the inputs for a single exchange. BuildRequest validates
// them; nothing here has been checked yet.
type Options struct {
	Model       string // "r1" or "chat"
	Prompt      string
	Temperature *float64
	MaxTokens   *int
	FilePath    string
	JSONMode    bool
	History     []Message // prior turns, system message first; nil for one-shot
}

// MapModel resolves the CLI model alias to the provider model name.
func MapModel(alias string) (string, error) {
	name, ok := modelNames[alias]
	if !ok {
		return "", &ValidationError{Field: "model", Reason: "use 'r1' or 'chat'"}
	}
	return name, nil
}

// SystemPrompt returns the session system message for the given output mode.
func SystemPrompt(jsonMode bool) Message {
	if jsonMode {
		return Message{Role: RoleSystem, Content: systemPromptJSON}
	}
	return Message{Role: RoleSystem, Content: systemPrompt}
}

// BuildRequest validates opts and assembles the outbound request. All
// validation happens here, before anything touches the network.
func BuildRequest(opts Options) (*ChatRequest, error) {
	model, err := MapModel(opts.Model)
	if err != nil {
		return nil, err
	}
	if t := opts.Temperature; t != nil && (*t < 0.0 || *t > 2.0) {
		return nil, &ValidationError{Field: "temperature", Reason: "must be between 0.0 and 2.0"}
	}
	if m := opts.MaxTokens; m != nil && *m <= 0 {
		return nil, &ValidationError{Field: "max-tokens", Reason: "must be a positive integer"}
	}

	user := Message{Role: RoleUser, Content: opts.Prompt}
	if opts.FilePath != "" {
		user, err = attachmentMessage(opts.Prompt, opts.FilePath)
		if err != nil {
			return nil, err
		}
	}

	messages := append([]Message(nil), opts.History...)
	if len(messages) == 0 {
		messages = []Message{SystemPrompt(opts.JSONMode)}
	}
	messages = append(messages, user)

	req := &ChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	if opts.JSONMode {
		req.ResponseFormat = &ResponseFormat{Type: "json_object"}
	}
	return req, nil
}

// attachmentMessage turns prompt+file into a user message. Images ride along
// as a base64 data URL part; anything else is inlined below the prompt text.
func attachmentMessage(prompt, path string) (Message, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Message{}, &ValidationError{Field: "file", Reason: err.Error()}
	}

	mime := mimetype.Detect(data)
	if strings.HasPrefix(mime.String(), "image/") {
		url := fmt.Sprintf("data:%s;base64,%s", mime.String(), base64.StdEncoding.EncodeToString(data))
		return Message{
			Role: RoleUser,
			Content: []ContentPart{
				{Type: "text", Text: prompt},
				{Type: "image_url", ImageURL: &ImageURL{URL: url}},
			},
		}, nil
	}

	return Message{
		Role:    RoleUser,
		Content: fmt.Sprintf("%s\n\nFile content:\n%s", prompt, string(data)),
	}, nil
}
