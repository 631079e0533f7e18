package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplatesCommand(t *testing.T) {
	t.Setenv("COMMISSION_TEMPLATES_PATH", "")

	var out bytes.Buffer
	cmd := newTemplatesCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})

	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "photos: at least 3\n")
	assert.Contains(t, out.String(), "shore-dual-relay (shore): power_boot")
	assert.Contains(t, out.String(), "relay_secondary\n")
	assert.Contains(t, out.String(), "buoy-solar (buoy): ")
}

func TestTransitionCommandRejectsUnknownState(t *testing.T) {
	cmd := newTransitionCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"--to", "teleported", "dev-1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "teleported")
}
