package e2e

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// buildTreedistBinary builds the treedist command into a temporary directory
func buildTreedistBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "treedist")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/treedist")

	// Project root is one level up from the e2e directory
	projectRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}
	cmd.Dir = projectRoot

	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build treedist binary: %v\n%s", err, out)
	}
	return binaryPath
}

// createTreeFile writes a tree file into dir and returns its path
func createTreeFile(t *testing.T, dir, filename, content string) string {
	t.Helper()

	filePath := filepath.Join(dir, filename)
	if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create tree file %s: %v", filename, err)
	}
	return filePath
}

// createTestConfigFile writes a .treedist.toml into dir
func createTestConfigFile(t *testing.T, dir, content string) string {
	t.Helper()

	configFile := filepath.Join(dir, ".treedist.toml")
	if err := os.WriteFile(configFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	return configFile
}

// runBinary runs the binary in dir and returns stdout, stderr and the run error
func runBinary(t *testing.T, binaryPath, dir string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}
