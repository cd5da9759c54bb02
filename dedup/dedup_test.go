package dedup

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"quotes-scraper/csvio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRows(t *testing.T) {
	rows := [][]string{
		{"A", "1"},
		{"B", "2"},
		{"A", "3"},
		{"A", "4"},
	}

	kept, removed := Rows(rows, 0)
	assert.Equal(t, [][]string{{"A", "1"}, {"B", "2"}}, kept)
	assert.Equal(t, 2, removed)
}

func TestRows_ExactMatchOnly(t *testing.T) {
	rows := [][]string{{"Mark Twain"}, {"mark twain"}, {"Mark Twain "}}
	kept, removed := Rows(rows, 0)
	assert.Len(t, kept, 3)
	assert.Zero(t, removed)
}

func TestFile(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		column string
		output string
	}{
		{
			name:   "author column",
			input:  "author,data nascimento,local nascimento,descricao\nA,1,x,first\nB,2,y,b\nA,3,z,second\nA,4,w,third\n",
			column: "author",
			output: "author,data nascimento,local nascimento,descricao\nA,1,x,first\nB,2,y,b\n",
		},
		{
			name:   "autor column",
			input:  "autor,citacao,tags,pagina\nA,q1,[],p\nA,q2,[],p\nB,q3,[],p\n",
			column: "autor",
			output: "autor,citacao,tags,pagina\nA,q1,[],p\nB,q3,[],p\n",
		},
		{
			name:   "header only",
			input:  "author,descricao\n",
			column: "author",
			output: "author,descricao\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			in := filepath.Join(dir, "author.csv")
			out := filepath.Join(dir, "out", "author_sem_duplicatas.csv")
			require.NoError(t, os.WriteFile(in, []byte(tt.input), 0644))

			res, err := File(in, out)
			require.NoError(t, err)
			assert.Equal(t, tt.column, res.Column)

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Equal(t, tt.output, string(data))
		})
	}
}

func TestFile_ThreeAndOne(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "author.csv")
	out := filepath.Join(dir, "dedup.csv")
	require.NoError(t, os.WriteFile(in, []byte("author,n\nA,1\nA,2\nB,3\nA,4\n"), 0644))

	res, err := File(in, out)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Kept)
	assert.Equal(t, 2, res.Removed)

	table, err := csvio.ReadFile(out, "author")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"A", "1"}, {"B", "3"}}, table.Rows)
}

func TestFile_MissingNameColumn(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "x.csv")
	require.NoError(t, os.WriteFile(in, []byte("name,n\nA,1\n"), 0644))

	_, err := File(in, filepath.Join(dir, "y.csv"))
	var missing *csvio.MissingColumnsError
	assert.True(t, errors.As(err, &missing))
}
