package accounts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSON_IndentedAccounts(t *testing.T) {
	src := `# accounts
[
  name: 'library'
  apiKey: "ENV:PB_KEY"
  scripts:
    "Test.js": "./test.js"
    'Other Script.coffee': 'lib/other.coffee'
,
  name: "second"
  apiKey: "literal-key-1"
]
`
	v, err := parseCSON(src)
	require.NoError(t, err)

	want := []any{
		map[string]any{
			"name":   "library",
			"apiKey": "ENV:PB_KEY",
			"scripts": map[string]any{
				"Test.js":             "./test.js",
				"Other Script.coffee": "lib/other.coffee",
			},
		},
		map[string]any{
			"name":   "second",
			"apiKey": "literal-key-1",
		},
	}
	assert.Equal(t, want, v)
}

func TestParseCSON_BracesAndScalars(t *testing.T) {
	src := `[
  {
    name: "a", count: 3, ratio: -1.5
    enabled: yes, disabled: false, nothing: null
    nested: { "x\ty": 'it\'s' }
  }
  {name: "b"}
]`
	v, err := parseCSON(src)
	require.NoError(t, err)

	list, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, list, 2)

	first := list[0].(map[string]any)
	assert.Equal(t, "a", first["name"])
	assert.Equal(t, 3.0, first["count"])
	assert.Equal(t, -1.5, first["ratio"])
	assert.Equal(t, true, first["enabled"])
	assert.Equal(t, false, first["disabled"])
	assert.Nil(t, first["nothing"])
	assert.Equal(t, map[string]any{"x\ty": "it's"}, first["nested"])
	assert.Equal(t, map[string]any{"name": "b"}, list[1])
}

func TestParseCSON_BlockCommentsAndStrings(t *testing.T) {
	src := `###
Accounts for the scraping team.
  name: "commented out"
###
[
  name: "library" ### inline ###
  apiKey: "literal-key-1"
  note: '''
    first line
      indented
    last "quoted" line\tend
  '''
  short: """one line"""
  #### four hashes is a line comment
  after: 1
]
`
	v, err := parseCSON(src)
	require.NoError(t, err)

	want := []any{
		map[string]any{
			"name":   "library",
			"apiKey": "literal-key-1",
			"note":   "first line\n  indented\nlast \"quoted\" line\tend",
			"short":  "one line",
			"after":  1.0,
		},
	}
	assert.Equal(t, want, v)
}

func TestLexCSON_PositionsAfterMultilineTokens(t *testing.T) {
	src := "###\nx\n###\na: '''\n  b\n  c\n'''\nd: 1\n"
	toks, err := lexCSON(src)
	require.NoError(t, err)
	require.Len(t, toks, 7)

	assert.Equal(t, "a", toks[0].text)
	assert.Equal(t, 4, toks[0].line)
	assert.Equal(t, 0, toks[0].col)

	assert.Equal(t, "b\nc", toks[2].text)

	assert.Equal(t, "d", toks[3].text)
	assert.Equal(t, 8, toks[3].line)
	assert.Equal(t, 0, toks[3].col)
}

func TestParseCSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unterminated array", `[ "a"`},
		{"unterminated string", `[ "a ]`},
		{"missing value", "a:\nb: 1"},
		{"duplicate key", "a: 1\na: 2"},
		{"bare identifier", `[ foo ]`},
		{"trailing garbage", `[] ]`},
		{"bad character", `[ @ ]`},
		{"unterminated block comment", "###\n[ 1 ]"},
		{"unterminated block string", "a: '''\n  text\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseCSON(tt.src)
			assert.Error(t, err)
		})
	}
}
