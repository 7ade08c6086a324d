package csv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "upload")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNew(t *testing.T) {
	assert.Equal(t, domain.SourceKindCSV, New().Kind())
}

func TestParse_RowsBecomeDocuments(t *testing.T) {
	path := writeFile(t, "country,capital\nFrance,Paris\nJapan, Tokyo \n")

	docs, err := New().Parse(context.Background(), path, "capitals.csv")
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "country: France\ncapital: Paris", docs[0].Content)
	assert.Equal(t, "country: Japan\ncapital: Tokyo", docs[1].Content)
	assert.Equal(t, "capitals.csv", docs[0].Source())
	assert.Equal(t, "0", docs[0].Metadata[domain.MetaRow])
	assert.Equal(t, "1", docs[1].Metadata[domain.MetaRow])
	assert.NotEqual(t, docs[0].ID, docs[1].ID)
}

func TestParse_QuotedFields(t *testing.T) {
	path := writeFile(t, "name,notes\n\"Smith, J\",\"line one\nline two\"\n")

	docs, err := New().Parse(context.Background(), path, "people.csv")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "name: Smith, J\nnotes: line one\nline two", docs[0].Content)
}

func TestParse_RaggedRows(t *testing.T) {
	path := writeFile(t, "a,b,c\n1\n1,2,3,4\n")

	docs, err := New().Parse(context.Background(), path, "ragged.csv")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a: 1\nb: \nc: ", docs[0].Content)
	assert.Equal(t, "a: 1\nb: 2\nc: 3", docs[1].Content)
}

func TestParse_HeaderOnly(t *testing.T) {
	docs, err := New().Parse(context.Background(), writeFile(t, "a,b\n"), "header.csv")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestParse_EmptyFile(t *testing.T) {
	docs, err := New().Parse(context.Background(), writeFile(t, ""), "empty.csv")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestParse_BOMHeader(t *testing.T) {
	docs, err := New().Parse(context.Background(), writeFile(t, "\ufeffid,value\n7,x\n"), "bom.csv")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "id: 7\nvalue: x", docs[0].Content)
}

func TestParse_MalformedQuote(t *testing.T) {
	_, err := New().Parse(context.Background(), writeFile(t, "a,b\n\"unterminated,2\n"), "bad.csv")
	assert.Error(t, err)
}

func TestParse_EmptyPath(t *testing.T) {
	_, err := New().Parse(context.Background(), "", "x.csv")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
