package genai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestToContents(t *testing.T) {
	contents := toContents([]Part{
		Text("Is this a face?"),
		Blob([]byte{0xff, 0xd8, 0xff}, "image/jpeg"),
	})

	require.Len(t, contents, 1)
	assert.Equal(t, string(genai.RoleUser), contents[0].Role)
	require.Len(t, contents[0].Parts, 2)
	assert.Equal(t, "Is this a face?", contents[0].Parts[0].Text)
	require.NotNil(t, contents[0].Parts[1].InlineData)
	assert.Equal(t, "image/jpeg", contents[0].Parts[1].InlineData.MIMEType)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, contents[0].Parts[1].InlineData.Data)
}

func TestToSchema(t *testing.T) {
	s := toSchema(&Schema{
		Properties: map[string]FieldType{"isValid": FieldBoolean, "reason": FieldString},
		Required:   []string{"isValid", "reason"},
	})

	assert.Equal(t, genai.TypeObject, s.Type)
	assert.Equal(t, genai.TypeBoolean, s.Properties["isValid"].Type)
	assert.Equal(t, genai.TypeString, s.Properties["reason"].Type)
	assert.Equal(t, []string{"isValid", "reason"}, s.Required)
}
