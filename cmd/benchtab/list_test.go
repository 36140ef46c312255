package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCmd(t *testing.T) {
	cmd := newListCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	s := out.String()
	assert.Contains(t, s, "NAME")
	for _, name := range []string{"double", "sqrt", "exp", "log", "matmul", "noop"} {
		assert.Contains(t, s, name)
	}
}
