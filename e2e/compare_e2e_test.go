package e2e

import (
	"encoding/json"
	"strings"
	"testing"
)

// TestCompareE2EBasic compares two tree files with the default text report
func TestCompareE2EBasic(t *testing.T) {
	binaryPath := buildTreedistBinary(t)

	testDir := t.TempDir()
	createTestConfigFile(t, testDir, "")
	source := createTreeFile(t, testDir, "source.tree", "A(B,C)\n")
	target := createTreeFile(t, testDir, "target.tree", "A(B(D))\n")

	stdout, stderr, err := runBinary(t, binaryPath, testDir, "compare", source, target)
	if err != nil {
		t.Fatalf("Command failed: %v\nStderr: %s", err, stderr)
	}

	if !strings.Contains(stdout, "Distance: 2") {
		t.Errorf("Output should report distance 2, got:\n%s", stdout)
	}
	for _, strategy := range []string{"backtracking", "branch_and_bound", "divide_and_conquer", "dynamic_programming"} {
		if !strings.Contains(stdout, strategy) {
			t.Errorf("Output should mention strategy %s", strategy)
		}
	}
}

// TestCompareE2EJSONOutput checks the JSON report and the config file costs
func TestCompareE2EJSONOutput(t *testing.T) {
	binaryPath := buildTreedistBinary(t)

	testDir := t.TempDir()
	createTestConfigFile(t, testDir, "[costs]\ndelete = 3.0\n")
	source := createTreeFile(t, testDir, "source.tree", "A(B)")
	target := createTreeFile(t, testDir, "target.tree", "A")

	stdout, stderr, err := runBinary(t, binaryPath, testDir, "compare", "--json", "-s", "divide_and_conquer", source, target)
	if err != nil {
		t.Fatalf("Command failed: %v\nStderr: %s", err, stderr)
	}

	var report struct {
		Distance    float64 `json:"distance"`
		HasDistance bool    `json:"has_distance"`
		Results     []struct {
			Strategy string `json:"strategy"`
			Success  bool   `json:"success"`
		} `json:"results"`
	}
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("Output should be valid JSON: %v\n%s", err, stdout)
	}
	if !report.HasDistance || report.Distance != 3 {
		t.Errorf("Expected distance 3, got %v (has_distance=%v)", report.Distance, report.HasDistance)
	}
	if len(report.Results) != 1 || report.Results[0].Strategy != "divide_and_conquer" {
		t.Errorf("Expected only the divide_and_conquer result, got %+v", report.Results)
	}
}

// TestCompareE2EInvalidTree checks the exit status and message for a malformed tree
func TestCompareE2EInvalidTree(t *testing.T) {
	binaryPath := buildTreedistBinary(t)

	testDir := t.TempDir()
	createTestConfigFile(t, testDir, "")

	_, stderr, err := runBinary(t, binaryPath, testDir, "compare", "--inline", "A(B", "A")
	if err == nil {
		t.Fatal("Command should fail for a malformed tree")
	}
	if !strings.Contains(stderr, "Suggestions") {
		t.Errorf("Stderr should contain suggestions, got:\n%s", stderr)
	}
}

// TestBatchE2ECSV runs a batch over a directory of trees
func TestBatchE2ECSV(t *testing.T) {
	binaryPath := buildTreedistBinary(t)

	testDir := t.TempDir()
	createTestConfigFile(t, testDir, "")
	createTreeFile(t, testDir, "a.tree", "A")
	createTreeFile(t, testDir, "b.tree", "A(B)")
	createTreeFile(t, testDir, "c.tree", "C(D,E)")

	stdout, stderr, err := runBinary(t, binaryPath, testDir, "batch", "--csv", testDir)
	if err != nil {
		t.Fatalf("Command failed: %v\nStderr: %s", err, stderr)
	}

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected a header and three pairs, got %d lines:\n%s", len(lines), stdout)
	}
	if !strings.HasPrefix(lines[0], "source,target,distance") {
		t.Errorf("Unexpected CSV header: %s", lines[0])
	}
}
