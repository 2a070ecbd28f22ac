package testutil

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/workerpack/internal/app"
	"github.com/specialistvlad/workerpack/internal/ctxlog"
	"github.com/specialistvlad/workerpack/internal/hcl_adapter"
	"github.com/specialistvlad/workerpack/internal/jsruntime"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	LogOutput string
	Err       error
	App       *app.App
	// Root is the project directory the files were written to; Dist is the
	// value of the `dist` config variable.
	Root string
	Dist string
}

// Path returns the absolute path of a file below Dist.
func (r *HarnessResult) Path(rel string) string {
	return filepath.Join(r.Dist, filepath.FromSlash(rel))
}

// RunIntegrationTest provides a standardized harness for running integration tests
// using a default background context.
func RunIntegrationTest(t *testing.T, files map[string]string, workers ...string) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, workers...)
}

// RunIntegrationTestWithContext writes files into a fresh project
// directory, loads every .hcl file in it and packages the named workers
// (all of them when none are named) into <project>/dist.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, workers ...string) *HarnessResult {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0644))
	}

	appConfig := &app.Config{
		ConfigPath: tmpDir,
		Dist:       filepath.Join(tmpDir, "dist"),
		Workers:    workers,
		LogLevel:   "debug",
		LogFormat:  "text",
	}
	result := &HarnessResult{Root: tmpDir, Dist: appConfig.Dist}

	logBuffer := &SafeBuffer{}
	var panicErr any
	func() {
		defer func() {
			if r := recover(); r != nil {
				if os.Getenv("WORKERPACK_TEST_LOGS") == "true" {
					t.Logf("--- HARNESS RECOVERED PANIC ---\n%q", fmt.Sprintf("%v", r))
				}
				panicErr = r
			}
		}()
		result.App = app.NewApp(logBuffer, appConfig, hcl_adapter.NewLoader())
	}()

	if panicErr != nil {
		result.LogOutput = logBuffer.String()
		result.Err = fmt.Errorf("application startup panicked | %v", panicErr)
		return result
	}

	result.Err = result.App.Run(ctx)
	result.LogOutput = logBuffer.String()

	if os.Getenv("WORKERPACK_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
	}
	return result
}

// Exec runs a packaged entry bundle below Dist the way `workerpack --exec`
// does and returns its exports. Console output is appended to LogOutput.
func (r *HarnessResult) Exec(t *testing.T, rel string, args ...string) (any, error) {
	t.Helper()
	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	exports, err := jsruntime.New(ctx, args).RunFile(r.Path(rel))
	r.LogOutput += logBuffer.String()
	return exports, err
}
