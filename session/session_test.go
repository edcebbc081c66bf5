package session

import (
	"bytes"
	"compress/zlib"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stealthinu/rlmsandbox/eval"
	"github.com/stealthinu/rlmsandbox/value"
)

// TestExecuteScenarios reproduces spec §8's E1-E7 end-to-end scenarios
// verbatim, each exercised through the public Execute contract only; E8
// has its own test, TestExecuteE8ZlibBomb.
func TestExecuteScenarios(t *testing.T) {
	cases := []struct {
		name      string
		context   string
		query     string
		code      string
		wantOK    bool
		wantOut   string
		wantErrKi string // "" means no error expected
	}{
		{
			name:    "E1_strip_lower_find",
			context: "Hello WORLD",
			query:   "  world  ",
			code:    "s = query.strip()\nidx = context.lower().find(s.lower())\nprint(idx)\n",
			wantOK:  true,
			wantOut: "6\n",
		},
		{
			name:    "E2_empty_code",
			context: "",
			query:   "",
			code:    "",
			wantOK:  true,
			wantOut: "No code to execute",
		},
		{
			name:    "E3_bare_expr_echo",
			context: "abc",
			query:   "",
			code:    "query",
			wantOK:  true,
			wantOut: "''",
		},
		{
			name:      "E4_regex_search",
			context:   "key-8 special magic number 42\nfiller",
			query:     "",
			code:      "m = re.search(r'key-8.*?(\\d+)', context, flags=re.IGNORECASE|re.DOTALL)\nprint(m.group(1))\n",
			wantOK:    true,
			wantOut:   "42\n",
			wantErrKi: "",
		},
		{
			name:    "E5_base64_import_noop",
			context: "",
			query:   "aGVsbG8=",
			code:    "import base64\nprint(base64.b64decode(query).decode('utf-8'))\n",
			wantOK:  true,
			wantOut: "hello\n",
		},
		{
			name:      "E6_forbidden_open",
			context:   "",
			query:     "",
			code:      "open('/etc/passwd')",
			wantOK:    false,
			wantOut:   "",
			wantErrKi: "ForbiddenName",
		},
		{
			name:      "E7_name_error_preserves_state",
			context:   "",
			query:     "",
			code:      "x = 1\ny = x + undefined\nprint(x)",
			wantOK:    false,
			wantOut:   "",
			wantErrKi: "NameError",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := New(eval.DefaultLimits())
			require.NoError(t, err)

			resp := s.Execute(Request{Context: tc.context, Query: tc.query, Code: tc.code})
			assert.Equal(t, tc.wantOK, resp.OK)
			assert.Equal(t, tc.wantOut, resp.Output)
			if tc.wantErrKi == "" {
				assert.Nil(t, resp.Error)
			} else {
				require.NotNil(t, resp.Error)
				assert.Equal(t, tc.wantErrKi, resp.Error.Kind)
			}

			if tc.name == "E7_name_error_preserves_state" {
				v, ok := s.globals.Get("x")
				require.True(t, ok)
				assert.Equal(t, value.Int(1), v)
			}
		})
	}
}

// TestExecuteE8ZlibBomb covers the adversarial zlib scenario: bytes that
// decompress to more than max_zlib_output_bytes must be rejected with
// ResourceLimitExceeded rather than allowed to exhaust memory.
func TestExecuteE8ZlibBomb(t *testing.T) {
	limits := eval.DefaultLimits()
	limits.MaxZlibOutputBytes = 1000
	s, err := New(limits)
	require.NoError(t, err)

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err = zw.Write(make([]byte, 2000))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	encoded := base64.StdEncoding.EncodeToString(buf.Bytes())

	code := "import base64, zlib\n" +
		"data = zlib.decompress(base64.b64decode(\"" + encoded + "\"))\n" +
		"print(len(data))\n"
	resp := s.Execute(Request{Code: code})
	assert.False(t, resp.OK)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ResourceLimitExceeded", resp.Error.Kind)
}

func TestStripFence(t *testing.T) {
	assert.Equal(t, "print(1)", StripFence("```python\nprint(1)\n```"))
	assert.Equal(t, "print(1)", StripFence("```\nprint(1)\n```"))
	assert.Equal(t, "print(1)", StripFence("print(1)"))
}

func TestParseTerminatorFinalLiteral(t *testing.T) {
	term, ok := ParseTerminator(`The answer is FINAL("42 units")`)
	require.True(t, ok)
	assert.Equal(t, TerminatorFinal, term.Kind)
	assert.Equal(t, "42 units", term.Literal)
}

func TestParseTerminatorFinalVar(t *testing.T) {
	term, ok := ParseTerminator("done, FINAL_VAR(answer)")
	require.True(t, ok)
	assert.Equal(t, TerminatorFinalVar, term.Kind)
	assert.Equal(t, "answer", term.VarName)
}

func TestParseTerminatorNonLiteralNotRecognized(t *testing.T) {
	_, ok := ParseTerminator("FINAL(1 + 2)")
	assert.False(t, ok)
}

func TestStateRoundTrip(t *testing.T) {
	s, err := New(eval.DefaultLimits())
	require.NoError(t, err)

	resp := s.Execute(Request{Code: "x = [1, 2, {\"a\": \"b\"}]\n"})
	require.True(t, resp.OK)

	s2, err := New(eval.DefaultLimits())
	require.NoError(t, err)
	resp2 := s2.Execute(Request{Code: "print(x)", State: resp.State})
	require.True(t, resp2.OK)
	assert.Equal(t, "[1, 2, {'a': 'b'}]\n", resp2.Output)
}

func TestStateRoundTripPreservesSetDisplay(t *testing.T) {
	s, err := New(eval.DefaultLimits())
	require.NoError(t, err)

	resp := s.Execute(Request{Code: "x = set([1, 2, 2, 3])\n"})
	require.True(t, resp.OK)

	s2, err := New(eval.DefaultLimits())
	require.NoError(t, err)
	resp2 := s2.Execute(Request{Code: "print(x)", State: resp.State})
	require.True(t, resp2.OK)
	assert.Equal(t, "{1, 2, 3}\n", resp2.Output)
}
