package testutil

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertWorkerPackaged checks the log output for the message App.Run
// emits once a worker's output is complete.
func AssertWorkerPackaged(t *testing.T, result *HarnessResult, worker string) {
	t.Helper()
	found := false
	for _, line := range strings.Split(result.LogOutput, "\n") {
		if strings.Contains(line, "Worker packaged.") && strings.Contains(line, "worker="+worker+" ") {
			found = true
			break
		}
	}
	require.True(t, found, "expected worker '%s' to be packaged; logs:\n%s", worker, result.LogOutput)
}

// AssertFileContains reads a file below Dist and checks it contains want.
func AssertFileContains(t *testing.T, result *HarnessResult, rel, want string) {
	t.Helper()
	data, err := os.ReadFile(result.Path(rel))
	require.NoError(t, err)
	require.Contains(t, string(data), want)
}
