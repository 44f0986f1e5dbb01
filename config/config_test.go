//nolint:testpackage // using package name 'config' to access unexported fields for testing
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	want := Values{
		"foo":                  {"12"},
		"baz":                  {"1.5"},
		"bazz":                 {"true"},
		"epsilon.omega.akarmi": {"0x10"},
		"epsilon.omega.semmi":  {"a", "b"},
	}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "toml",
			file: "demo.toml",
			content: `
foo = 12
baz = 1.5
bazz = true

[epsilon.omega]
akarmi = "0x10"
semmi = ["a", "b"]
`,
		},
		{
			name: "yaml",
			file: "demo.yml",
			content: `
foo: 12
baz: 1.5
bazz: true
epsilon:
  omega:
    akarmi: "0x10"
    semmi: [a, b]
`,
		},
		{
			name:    "json",
			file:    "demo.json",
			content: `{"foo": 12, "baz": 1.5, "bazz": true, "epsilon": {"omega": {"akarmi": "0x10", "semmi": ["a", "b"]}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(writeFile(t, "demo.ini", "foo=1"))
	assert.EqualError(t, err, "unsupported config format: .ini")

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "bad.toml", "foo = "))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "bad.json", `{"foo": `))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "list.json", `[1, 2]`))
	assert.Error(t, err)

	_, err = Load(writeFile(t, "nested.json", `{"foo": [[1]]}`))
	assert.Error(t, err)
}

func TestDecodeTOMLDatetime(t *testing.T) {
	got, err := DecodeTOML([]byte("when = 2024-01-02T03:04:05Z\n"))
	require.NoError(t, err)
	assert.Equal(t, Values{"when": {"2024-01-02T03:04:05Z"}}, got)
}

func TestDecodeJSONKeepsNumbers(t *testing.T) {
	got, err := DecodeJSON([]byte(`{"n": 1e3, "skip": null, "s": "x"}`))
	require.NoError(t, err)
	assert.Equal(t, Values{"n": {"1e3"}, "s": {"x"}}, got)
}

func TestFromEnv(t *testing.T) {
	got := FromEnv("DEMO_", []string{
		"DEMO_FOO=3",
		"DEMO_EPSILON__OMEGA__AKARMI=0x20",
		"DEMO_=ignored",
		"OTHER=1",
		"DEMO_EMPTY=",
	})
	assert.Equal(t, Values{
		"foo":                  {"3"},
		"epsilon.omega.akarmi": {"0x20"},
		"empty":                {""},
	}, got)
}

func TestPrecedence(t *testing.T) {
	p := NewPrecedence()
	require.NoError(t, p.AddFile(writeFile(t, "a.toml", "foo = 1\nbar = 2\n")))
	p.AddSource(SourceTypeEnv, "environment", Values{"foo": {"9"}})
	p.AddSource(SourceTypeFile, "b", Values{"bar": {"3"}, "foo": {"5"}})

	assert.Equal(t, Values{"foo": {"9"}, "bar": {"3"}}, p.Resolve())
	assert.Equal(t, "env:environment", p.Origin("foo"))
	assert.Equal(t, "file:b", p.Origin("bar"))
	assert.Equal(t, "", p.Origin("baz"))
	assert.Equal(t, "bar = 3 (file:b)\nfoo = 9 (env:environment)\n", p.Debug())

	assert.Error(t, p.AddFile("missing.yaml"))
}
