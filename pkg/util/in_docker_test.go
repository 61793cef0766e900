package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRunningInDocker(t *testing.T) {
	orig := dockerEnvFile
	t.Cleanup(func() { dockerEnvFile = orig })

	dockerEnvFile = filepath.Join(t.TempDir(), ".dockerenv")
	assert.False(t, IsRunningInDocker())

	require.NoError(t, os.WriteFile(dockerEnvFile, nil, 0o644))
	assert.True(t, IsRunningInDocker())
}
