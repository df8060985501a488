package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// missingConfig points --config at a path that does not exist, so tests
// never pick up a developer's local feedseed.yaml.
func missingConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "feedseed.yaml")
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, version) {
		t.Errorf("output %q missing version %q", out, version)
	}
}

func TestSeedCommand_MemoryBackend(t *testing.T) {
	// The memory backend needs no credentials, so the whole workflow runs
	// offline end to end.
	out, err := runCommand(t, "seed", "--backend", "memory", "--config", missingConfig(t))
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if !strings.Contains(out, "reaction counts:") {
		t.Errorf("report header missing from output:\n%s", out)
	}
	if !strings.Contains(out, "heart: 20") {
		t.Errorf("expected 20 hearts on the first timeline activity:\n%s", out)
	}
	if !strings.Contains(out, "batman-heart-fluff") {
		t.Errorf("own batman reaction missing from report:\n%s", out)
	}
}

func TestTimelineCommand_EmptyMemoryBackend(t *testing.T) {
	// Each invocation builds a fresh memory backend, so the timeline is
	// empty but the read itself must succeed without credentials.
	out, err := runCommand(t, "timeline", "fluff", "--backend", "memory", "--config", missingConfig(t))
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if !strings.Contains(out, "timeline for fluff is empty") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestUnknownBackendRejected(t *testing.T) {
	_, err := runCommand(t, "seed", "--backend", "carrier-pigeon", "--config", missingConfig(t))
	if err == nil || !strings.Contains(err.Error(), "unknown backend") {
		t.Errorf("err = %v, want unknown backend error", err)
	}
}
