package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildBinary compiles daybook into a temp dir, or uses DAYBOOK_BIN when
// set.
func buildBinary(t *testing.T) string {
	t.Helper()
	if bin := os.Getenv("DAYBOOK_BIN"); bin != "" {
		return bin
	}
	if testing.Short() {
		t.Skip("skipping end-to-end test in short mode")
	}
	bin := filepath.Join(t.TempDir(), "daybook")
	cmd := exec.Command("go", "build", "-o", bin, ".")
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to build daybook: %v\n%s", err, out)
	}
	return bin
}

// testEnv isolates HOME and the store, keeping PATH and the Go caches.
func testEnv(home, store string) []string {
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "DAYBOOK_") {
			continue
		}
		env = append(env, e)
	}
	return append(env,
		fmt.Sprintf("HOME=%s", home),
		fmt.Sprintf("DAYBOOK_STORE_PATH=%s", store),
	)
}

func runCmd(t *testing.T, path string, env []string, args ...string) string {
	t.Helper()
	// Acting as user 1 keeps the run away from the OS keyring.
	args = append([]string{"--user", "1"}, args...)
	cmd := exec.Command(path, args...)
	cmd.Env = env
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Command %s %v failed: %v\nOutput: %s", path, args, err, out)
	}
	return string(out)
}

func TestEndToEndWorkflow(t *testing.T) {
	bin := buildBinary(t)

	for _, storeName := range []string{"daybook.json", "daybook.db"} {
		t.Run(storeName, func(t *testing.T) {
			home := t.TempDir()
			store := filepath.Join(home, "data", storeName)
			env := testEnv(home, store)

			out := runCmd(t, bin, env, "init")
			if !strings.Contains(out, store) {
				t.Errorf("init output does not name the store:\n%s", out)
			}
			if _, err := os.Stat(filepath.Join(home, ".config", "daybook", "config.yaml")); err != nil {
				t.Errorf("starter config not written: %v", err)
			}

			runCmd(t, bin, env, "habit", "add", "Read", "--category", "personal")
			runCmd(t, bin, env, "habit", "complete", "Read")
			runCmd(t, bin, env, "habit", "complete", "Read", "--date", "yesterday")
			runCmd(t, bin, env, "entry", "write", "--before", "2", "--after", "4", "--rate", "Read=4", "--no-form")

			var report struct {
				Habits []struct {
					Summary struct {
						Streak int `json:"streak"`
					}
				}
				DayRatings struct {
					Improvement float64 `json:"improvement"`
				}
			}
			out = runCmd(t, bin, env, "analytics", "--window", "30", "--json")
			if err := json.Unmarshal([]byte(out), &report); err != nil {
				t.Fatalf("analytics output is not JSON: %v\n%s", err, out)
			}
			if len(report.Habits) != 1 || report.Habits[0].Summary.Streak != 2 {
				t.Errorf("unexpected habit report: %+v", report.Habits)
			}
			if report.DayRatings.Improvement != 2 {
				t.Errorf("improvement = %v, want 2", report.DayRatings.Improvement)
			}

			runCmd(t, bin, env, "backup", "create")
			out = runCmd(t, bin, env, "backup", "list")
			if !strings.Contains(out, "1 total") {
				t.Errorf("expected one backup:\n%s", out)
			}

			out = runCmd(t, bin, env, "doctor")
			if !strings.Contains(out, "All diagnostics passed") {
				t.Errorf("doctor reported problems:\n%s", out)
			}
		})
	}
}
