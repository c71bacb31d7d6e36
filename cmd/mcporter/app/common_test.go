package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdantlabs/mcporter/pkg/errors"
)

func TestParseEnvVars(t *testing.T) {
	t.Parallel()

	env, err := parseEnvVars([]string{"API_KEY=secret", "OUTPUT_DIR=/tmp/reports", "EMPTY="})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"API_KEY":    "secret",
		"OUTPUT_DIR": "/tmp/reports",
		"EMPTY":      "",
	}, env)
}

func TestParseEnvVarsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pairs []string
	}{
		{name: "missing separator", pairs: []string{"NOVALUE"}},
		{name: "empty key", pairs: []string{"=value"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := parseEnvVars(tt.pairs)
			require.Error(t, err)
			assert.True(t, errors.IsInvalidArgument(err))
		})
	}
}

func TestParseEnvVarsEmpty(t *testing.T) {
	t.Parallel()

	env, err := parseEnvVars(nil)
	require.NoError(t, err)
	assert.Empty(t, env)
}
