package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stealthinu/rlmsandbox/session"
)

func TestRunOneShotSuccess(t *testing.T) {
	req := session.Request{Code: "print(1 + 1)\n"}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	var out bytes.Buffer
	runOneShot(bytes.NewReader(body), &out, 0)

	var resp session.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.Equal(t, "2\n", resp.Output)
}

func TestRunOneShotUserCodeErrorIsStillTransportSuccess(t *testing.T) {
	req := session.Request{Code: "open('/etc/passwd')"}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	var out bytes.Buffer
	runOneShot(bytes.NewReader(body), &out, 0)

	var resp session.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.False(t, resp.OK)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "ForbiddenName", resp.Error.Kind)
}

func TestRunOneShotMaxOutputCharsOverride(t *testing.T) {
	req := session.Request{Code: "print('x' * 100)\n"}
	body, err := json.Marshal(req)
	require.NoError(t, err)

	var out bytes.Buffer
	runOneShot(bytes.NewReader(body), &out, 10)

	var resp session.Response
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.OK)
	assert.True(t, strings.Contains(resp.Output, "[Output truncated:"))
}
