// Package testutil provides shared helpers for tests that need scenario
// and configuration files on disk.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to a file under t.TempDir and returns its path.
func WriteFile(t testing.TB, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// GridCUE renders a CUE grid configuration with the given dimensions.
func GridCUE(width, height, depth int) string {
	return fmt.Sprintf(`grid: {
	width:  %d
	height: %d
	depth:  %d
}
`, width, height, depth)
}

// ScenarioYAML renders a minimal scenario: inject one event and drain.
func ScenarioYAML(name string, x, y, z int, value int64, budget int) string {
	return fmt.Sprintf(`name: %s
description: generated test scenario
steps:
  - inject: {x: %d, y: %d, z: %d, value: %d}
  - run: {budget: %d}
`, name, x, y, z, value, budget)
}
