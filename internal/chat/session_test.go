package chat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bz888/deepcli/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirective(t *testing.T) {
	tests := []struct {
		line      string
		directive Directive
		arg       string
	}{
		{`\help`, DirectiveHelp, ""},
		{`  \bye  `, DirectiveQuit, ""},
		{`\clear`, DirectiveClear, ""},
		{`\file notes.txt`, DirectiveFile, "notes.txt"},
		{`\file`, DirectiveFile, ""},
		{`hello there`, DirectiveNone, ""},
		{`\unknown`, DirectiveNone, ""},
	}

	for _, tt := range tests {
		directive, arg := ParseDirective(tt.line)
		assert.Equal(t, tt.directive, directive, "line %q", tt.line)
		assert.Equal(t, tt.arg, arg, "line %q", tt.line)
	}
}

func TestClearKeepsTranscript(t *testing.T) {
	sess := NewSession(api.Options{Model: "chat"})
	sess.Record(
		api.Message{Role: api.RoleUser, Content: "first"},
		api.AssistantMessage{Role: api.RoleAssistant, Content: "first answer"},
	)
	sess.StageFile("notes.txt")

	before := len(sess.Transcript())
	sess.Clear()

	assert.Len(t, sess.Transcript(), before)
	assert.Empty(t, sess.PendingFile())
}

func TestBuildRequestConsumesAttachment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("some notes"), 0644))

	sess := NewSession(api.Options{Model: "chat"})
	sess.StageFile(path)

	req, err := sess.BuildRequest("look at this")
	require.NoError(t, err)
	assert.Empty(t, sess.PendingFile())

	user := req.Messages[len(req.Messages)-1]
	content, ok := user.Content.(string)
	require.True(t, ok)
	assert.Contains(t, content, "File content:")
}

func TestBuildRequestFailureKeepsAttachment(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.txt")

	sess := NewSession(api.Options{Model: "chat"})
	sess.StageFile(missing)

	_, err := sess.BuildRequest("look at this")
	var vErr *api.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, missing, sess.PendingFile(), "a failed send should keep the attachment staged")
}

func TestRecordAppendsExchange(t *testing.T) {
	sess := NewSession(api.Options{Model: "chat", JSONMode: true})

	transcript := sess.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, api.RoleSystem, transcript[0].Role)
	assert.Contains(t, transcript[0].Content, "JSON format")

	sess.Record(
		api.Message{Role: api.RoleUser, Content: "question"},
		api.AssistantMessage{Role: api.RoleAssistant, Content: "answer"},
	)

	transcript = sess.Transcript()
	require.Len(t, transcript, 3)
	assert.Equal(t, api.RoleUser, transcript[1].Role)
	assert.Equal(t, api.RoleAssistant, transcript[2].Role)
	assert.Equal(t, "answer", transcript[2].Content)
}

func TestTranscriptCarriesIntoNextRequest(t *testing.T) {
	sess := NewSession(api.Options{Model: "chat"})
	sess.Record(
		api.Message{Role: api.RoleUser, Content: "first"},
		api.AssistantMessage{Role: api.RoleAssistant, Content: "first answer"},
	)

	req, err := sess.BuildRequest("second")
	require.NoError(t, err)

	require.Len(t, req.Messages, 4)
	assert.Equal(t, "first", req.Messages[1].Content)
	assert.Equal(t, "first answer", req.Messages[2].Content)
	assert.Equal(t, "second", req.Messages[3].Content)
}
