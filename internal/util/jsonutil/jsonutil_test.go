package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractBareObject(t *testing.T) {
	raw, err := Extract([]byte(`  {"a": 1}  `))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(raw))
}

func TestExtractFencedBlock(t *testing.T) {
	in := "Here is the result:\n```json\n{\"a\": 1}\n```\nHope that helps."
	raw, err := Extract([]byte(in))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(raw))
}

func TestExtractUnlabeledFence(t *testing.T) {
	in := "```\n{\"b\": [1, 2]}\n```"
	raw, err := Extract([]byte(in))
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":[1,2]}`, string(raw))
}

func TestExtractEmbeddedBraces(t *testing.T) {
	in := `The answer is {"file": "b.py"} as requested.`
	raw, err := Extract([]byte(in))
	require.NoError(t, err)
	assert.JSONEq(t, `{"file":"b.py"}`, string(raw))
}

func TestExtractNoJSON(t *testing.T) {
	_, err := Extract([]byte("sorry, I cannot answer that"))
	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestExtractInto(t *testing.T) {
	var out struct {
		File string `json:"file"`
	}
	require.NoError(t, ExtractInto([]byte("```json\n{\"file\": \"x.py\"}\n```"), &out))
	assert.Equal(t, "x.py", out.File)
}

func TestMarshalNoEscape(t *testing.T) {
	data, err := MarshalNoEscape(map[string]string{"sig": "a -> b & c"})
	require.NoError(t, err)
	assert.Equal(t, `{"sig":"a -> b & c"}`, string(data))
}

func TestMarshalNoEscapeIndent(t *testing.T) {
	data, err := MarshalNoEscapeIndent(map[string]int{"n": 1}, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"n\": 1\n}", string(data))
}
