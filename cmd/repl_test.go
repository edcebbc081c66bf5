package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestREPLRunOnePrintsOutputAndPersistsState(t *testing.T) {
	var out bytes.Buffer
	r, err := newREPL("", "ctx", "qry", &out)
	require.NoError(t, err)

	r.runOne("x = 1")
	r.runOne("print(x + 1)")

	assert.Contains(t, out.String(), "2\n")
}

func TestREPLRunOneReportsError(t *testing.T) {
	var out bytes.Buffer
	r, err := newREPL("", "", "", &out)
	require.NoError(t, err)

	r.runOne("open('/etc/passwd')")

	assert.Contains(t, out.String(), "ForbiddenName")
}
