package api

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestMapModel(t *testing.T) {
	name, err := MapModel("r1")
	require.NoError(t, err)
	assert.Equal(t, "deepseek-reasoner", name)

	name, err = MapModel("chat")
	require.NoError(t, err)
	assert.Equal(t, "deepseek-chat", name)

	_, err = MapModel("gpt-4")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "model", vErr.Field)
}

func TestBuildRequestRejectsTemperatureOutOfRange(t *testing.T) {
	for _, temp := range []float64{-0.1, -1.0, 2.1, 3.0} {
		_, err := BuildRequest(Options{Model: "chat", Prompt: "hi", Temperature: floatPtr(temp)})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr, "temperature %v should be rejected", temp)
		assert.Equal(t, "temperature", vErr.Field)
	}

	for _, temp := range []float64{0.0, 1.0, 2.0} {
		req, err := BuildRequest(Options{Model: "chat", Prompt: "hi", Temperature: floatPtr(temp)})
		require.NoError(t, err, "temperature %v should be accepted", temp)
		assert.Equal(t, temp, *req.Temperature)
	}
}

func TestBuildRequestRejectsNonPositiveMaxTokens(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		_, err := BuildRequest(Options{Model: "chat", Prompt: "hi", MaxTokens: intPtr(n)})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr, "max tokens %d should be rejected", n)
		assert.Equal(t, "max-tokens", vErr.Field)
	}

	req, err := BuildRequest(Options{Model: "chat", Prompt: "hi", MaxTokens: intPtr(100)})
	require.NoError(t, err)
	assert.Equal(t, 100, *req.MaxTokens)
}

func TestBuildRequestMessageShape(t *testing.T) {
	req, err := BuildRequest(Options{Model: "r1", Prompt: "test query", JSONMode: true})
	require.NoError(t, err)

	assert.Equal(t, "deepseek-reasoner", req.Model)
	assert.False(t, req.Stream)
	require.NotNil(t, req.ResponseFormat)
	assert.Equal(t, "json_object", req.ResponseFormat.Type)

	require.Len(t, req.Messages, 2)
	assert.Equal(t, RoleSystem, req.Messages[0].Role)
	assert.Contains(t, req.Messages[0].Content, "JSON format")
	assert.Equal(t, RoleUser, req.Messages[1].Role)
	assert.Equal(t, "test query", req.Messages[1].Content)

	req, err = BuildRequest(Options{Model: "chat", Prompt: "test query"})
	require.NoError(t, err)
	assert.Nil(t, req.ResponseFormat)
	assert.NotContains(t, req.Messages[0].Content, "JSON format")
}

func TestBuildRequestMissingFile(t *testing.T) {
	_, err := BuildRequest(Options{
		Model:    "chat",
		Prompt:   "hi",
		FilePath: filepath.Join(t.TempDir(), "does-not-exist.txt"),
	})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "file", vErr.Field)
}

func TestBuildRequestTextAttachment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("some notes"), 0644))

	req, err := BuildRequest(Options{Model: "chat", Prompt: "summarize this", FilePath: path})
	require.NoError(t, err)

	user := req.Messages[len(req.Messages)-1]
	content, ok := user.Content.(string)
	require.True(t, ok, "text attachments should stay a plain string message")
	assert.Contains(t, content, "summarize this")
	assert.Contains(t, content, "File content:")
	assert.Contains(t, content, "some notes")
}

func TestBuildRequestImageAttachment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixel.png")
	require.NoError(t, os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n"), 0644))

	req, err := BuildRequest(Options{Model: "chat", Prompt: "describe this", FilePath: path})
	require.NoError(t, err)

	user := req.Messages[len(req.Messages)-1]
	parts, ok := user.Content.([]ContentPart)
	require.True(t, ok, "image attachments should become multimodal parts")
	require.Len(t, parts, 2)
	assert.Equal(t, "text", parts[0].Type)
	assert.Equal(t, "describe this", parts[0].Text)
	assert.Equal(t, "image_url", parts[1].Type)
	require.NotNil(t, parts[1].ImageURL)
	assert.True(t, strings.HasPrefix(parts[1].ImageURL.URL, "data:image/png;base64,"))
}

func TestBuildRequestWithHistory(t *testing.T) {
	history := []Message{
		SystemPrompt(false),
		{Role: RoleUser, Content: "first"},
		{Role: RoleAssistant, Content: "first answer"},
	}

	req, err := BuildRequest(Options{Model: "chat", Prompt: "second", History: history})
	require.NoError(t, err)

	require.Len(t, req.Messages, 4)
	assert.Equal(t, "second", req.Messages[3].Content)
	assert.Len(t, history, 3, "caller history must not be mutated")
}
