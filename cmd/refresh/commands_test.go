package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	for _, name := range []string{"purge-cache", "invalidate", "quote"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestInvalidate_WithoutRedis(t *testing.T) {
	t.Setenv("REDIS_HOST", "")

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"invalidate", "7203", "^N225"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "nothing to invalidate")
}

func TestInvalidate_RequiresCode(t *testing.T) {
	t.Setenv("REDIS_HOST", "")

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"invalidate"})

	assert.Error(t, root.Execute())
}
