package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestParsedAnalysis(t *testing.T) {
	doc := Document{Analysis: datatypes.JSON(`{"summary":"Quarterly numbers","keywords":["revenue","q3"]}`)}
	a := doc.ParsedAnalysis()
	require.NotNil(t, a)
	assert.Equal(t, "Quarterly numbers", a.Summary)
	assert.Equal(t, []string{"revenue", "q3"}, a.Keywords)

	for _, raw := range []string{"", "null", "[1,2]", "{broken"} {
		doc := Document{Analysis: datatypes.JSON(raw)}
		assert.Nil(t, doc.ParsedAnalysis(), "raw=%q", raw)
	}
}

func TestParsedMetadata(t *testing.T) {
	doc := Document{Metadata: datatypes.JSON(`{"wordCount":1200,"pageCount":4}`)}
	m := doc.ParsedMetadata()
	require.NotNil(t, m)
	require.NotNil(t, m.WordCount)
	assert.Equal(t, 1200, *m.WordCount)
	assert.Equal(t, 4, *m.PageCount)

	assert.Nil(t, (&Document{}).ParsedMetadata())
}

func TestErrorMessage(t *testing.T) {
	msg := "unsupported encoding"
	assert.Equal(t, msg, (&Document{Status: StatusError, Error: &msg}).ErrorMessage())
	assert.Empty(t, (&Document{Status: StatusProcessing, Error: &msg}).ErrorMessage())
	assert.Empty(t, (&Document{Status: StatusError}).ErrorMessage())
}
