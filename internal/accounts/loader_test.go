package accounts

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_LiteralAndEnvKeys(t *testing.T) {
	t.Setenv("PHANTOMSYNC_TEST_KEY", "0123456789abcdef")

	dir := t.TempDir()
	path := writeFile(t, dir, "phantombuster.cson", `[
  name: "library"
  apiKey: "literal-key-123"
  scripts:
    "Test.js": "./test.js"
,
  name: "env"
  apiKey: "ENV:PHANTOMSYNC_TEST_KEY"
  endpoint: "http://localhost:8080/api/v1/"
]`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Accounts, 2)

	realDir, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, realDir, cfg.BaseDir)

	lib := cfg.Accounts[0]
	assert.Equal(t, "library", lib.Name)
	assert.Equal(t, "literal-key-123", lib.APIKey)
	assert.Equal(t, DefaultEndpoint, lib.Endpoint)
	assert.Equal(t, map[string]string{"Test.js": "./test.js"}, lib.Scripts)

	env := cfg.Accounts[1]
	assert.Equal(t, "0123456789abcdef", env.APIKey)
	assert.Equal(t, "http://localhost:8080/api/v1", env.Endpoint)
	assert.NotNil(t, env.Scripts)
}

func TestLoad_KeysWithColonsAndDashes(t *testing.T) {
	t.Setenv("PB-KEY", "0123456789-abcdef")

	path := writeFile(t, t.TempDir(), "pb.cson", `[
  name: "colon"
  apiKey: "abc:def-123"
,
  name: "dashed env"
  apiKey: "ENV:PB-KEY"
]`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Accounts, 2)
	assert.Equal(t, "abc:def-123", cfg.Accounts[0].APIKey)
	assert.Equal(t, "0123456789-abcdef", cfg.Accounts[1].APIKey)
}

func TestLoad_CredentialErrors(t *testing.T) {
	tests := []struct {
		name  string
		value *string
	}{
		{"unset", nil},
		{"too short", new("short")},
		{"too long", new("0123456789012345678901234567890123456789012345678901")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != nil {
				t.Setenv("PHANTOMSYNC_CRED", *tt.value)
			} else {
				t.Setenv("PHANTOMSYNC_CRED", "")
				require.NoError(t, os.Unsetenv("PHANTOMSYNC_CRED"))
			}

			path := writeFile(t, t.TempDir(), "pb.cson", `[
  name: "acct"
  apiKey: "ENV:PHANTOMSYNC_CRED"
]`)

			_, err := Load(path)
			credErr, ok := errors.AsType[*CredentialError](err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, "acct", credErr.Account)
			assert.Equal(t, "PHANTOMSYNC_CRED", credErr.Variable)
		})
	}
}

func TestLoad_DotEnvNextToConfig(t *testing.T) {
	const name = "PHANTOMSYNC_DOTENV_KEY"
	require.NoError(t, os.Unsetenv(name))
	t.Cleanup(func() { _ = os.Unsetenv(name) })

	dir := t.TempDir()
	writeFile(t, dir, ".env", name+"=from-dotenv-file\n")
	path := writeFile(t, dir, "pb.cson", `[
  name: "acct"
  apiKey: "ENV:`+name+`"
]`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv-file", cfg.Accounts[0].APIKey)
}

func TestLoad_SchemaViolations(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not an array", `name: "x", apiKey: "abcdef"`},
		{"missing apiKey", `[ name: "x" ]`},
		{"empty name", `[ name: "", apiKey: "abcdef" ]`},
		{"short apiKey", `[ name: "x", apiKey: "abc" ]`},
		{"apiKey with space", `[ name: "x", apiKey: "abc def" ]`},
		{"extra property", `[ name: "x", apiKey: "abcdef", color: "red" ]`},
		{"bad script name", "[\n  name: \"x\"\n  apiKey: \"abcdef\"\n  scripts:\n    \"test.txt\": \"./test.js\"\n]"},
		{"bad script path", "[\n  name: \"x\"\n  apiKey: \"abcdef\"\n  scripts:\n    \"Test.js\": \"./test.py\"\n]"},
		{"bad endpoint", `[ name: "x", apiKey: "abcdef", endpoint: 42 ]`},
		{"parse error", `[ name: "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "pb.cson", tt.content)

			_, err := Load(path)
			valErr, ok := errors.AsType[*ValidationError](err)
			require.True(t, ok, "got %v", err)
			assert.NotEmpty(t, valErr.Details())
			assert.Contains(t, err.Error(), "is not a correct SDK configuration file")
		})
	}
}

func TestLoad_AlternateFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "pb.json", `[{"name": "acct", "apiKey": "literal-key", "scripts": {"A.js": "a.js"}}]`},
		{"yaml", "pb.yaml", "- name: acct\n  apiKey: literal-key\n  scripts:\n    A.js: a.js\n"},
		{"toml", "pb.toml", "[[accounts]]\nname = \"acct\"\napiKey = \"literal-key\"\n[accounts.scripts]\n\"A.js\" = \"a.js\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)

			cfg, err := Load(path)
			require.NoError(t, err)
			require.Len(t, cfg.Accounts, 1)
			assert.Equal(t, "literal-key", cfg.Accounts[0].APIKey)
			assert.Equal(t, map[string]string{"A.js": "a.js"}, cfg.Accounts[0].Scripts)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.cson"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAccount_ScriptNamesSorted(t *testing.T) {
	a := Account{Scripts: map[string]string{"b.js": "b.js", "a.js": "a.js", "c.coffee": "c.coffee"}}
	assert.Equal(t, []string{"a.js", "b.js", "c.coffee"}, a.ScriptNames())
}
