// Package integration provides integration tests for bridge commands.
package integration

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

var (
	bridgeBinary     string
	bridgeBinaryOnce sync.Once
	bridgeBinaryErr  error
)

// getBridgeBinary builds the bridge binary once and returns its path.
func getBridgeBinary(t *testing.T) string {
	t.Helper()
	bridgeBinaryOnce.Do(func() {
		_, filename, _, ok := runtime.Caller(0)
		if !ok {
			bridgeBinaryErr = os.ErrInvalid
			return
		}
		moduleRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))

		tmpDir, err := os.MkdirTemp("", "bridge-test-*")
		if err != nil {
			bridgeBinaryErr = err
			return
		}
		bridgeBinary = filepath.Join(tmpDir, "bridge")

		cmd := exec.Command("go", "build", "-o", bridgeBinary, "./cmd/bridge")
		cmd.Dir = moduleRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			bridgeBinaryErr = &buildError{output: string(output), err: err}
			return
		}
	})
	if bridgeBinaryErr != nil {
		t.Fatalf("failed to build bridge: %v", bridgeBinaryErr)
	}
	return bridgeBinary
}

type buildError struct {
	output string
	err    error
}

func (e *buildError) Error() string {
	return e.err.Error() + ": " + e.output
}

// result is the outcome of one CLI invocation.
type result struct {
	stdout   string
	stderr   string
	exitCode int
}

// runBridge executes bridge in dir with an isolated global config and returns its output.
func runBridge(t *testing.T, dir string, args ...string) result {
	t.Helper()
	cmd := exec.Command(getBridgeBinary(t), args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(dir, "xdg"),
		"BRIDGE_REPO=",
		"BRIDGE_LOG=quiet",
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	res := result{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			t.Fatalf("running bridge %v: %v", args, err)
		}
		res.exitCode = exitErr.ExitCode()
	}
	res.stdout = stdout.String()
	res.stderr = stderr.String()
	return res
}

// mustRun runs bridge and fails the test on a non-zero exit.
func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	res := runBridge(t, dir, args...)
	if res.exitCode != 0 {
		t.Fatalf("bridge %v exited %d\nstdout: %s\nstderr: %s", args, res.exitCode, res.stdout, res.stderr)
	}
	return res.stdout
}

func decode(t *testing.T, output string, v interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(output), v); err != nil {
		t.Fatalf("failed to parse JSON output: %v\nOutput: %s", err, output)
	}
}

// setupDualProcessRepo initializes a repository holding the dual-process scenario:
// system_1 shares vocabulary with both intuition and consciousness, which share none.
func setupDualProcessRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	mustRun(t, dir, "init")
	mustRun(t, dir, "concept", "add", "intuition", "-d", "fast automatic thinking")
	mustRun(t, dir, "concept", "add", "system_1",
		"-n", "System 1",
		"-a", "fast thinking,S1",
		"-d", "fast automatic thinking and heuristic subjective awareness")
	mustRun(t, dir, "concept", "add", "consciousness", "-d", "heuristic subjective awareness")
	mustRun(t, dir, "citations", "set", "intuition", "1500")
	mustRun(t, dir, "citations", "set", "system_1", "50")
	mustRun(t, dir, "citations", "set", "consciousness", "2000")
	mustRun(t, dir, "rebuild")
	return dir
}

func TestInitTwice(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")

	res := runBridge(t, dir, "init")
	if res.exitCode != 2 {
		t.Errorf("second init exit code = %d, want 2", res.exitCode)
	}
}

func TestNoRepository(t *testing.T) {
	res := runBridge(t, t.TempDir(), "concept", "list")
	if res.exitCode != 2 {
		t.Errorf("exit code = %d, want 2", res.exitCode)
	}
}

func TestRebuild(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")
	mustRun(t, dir, "concept", "add", "intuition", "-d", "fast automatic thinking")
	mustRun(t, dir, "concept", "add", "consciousness", "-d", "heuristic subjective awareness")

	var rebuilt struct {
		Status         string `json:"status"`
		Concepts       int    `json:"concepts"`
		VocabularySize int    `json:"vocabulary_size"`
		CorpusHash     string `json:"corpus_hash"`
	}
	decode(t, mustRun(t, dir, "rebuild"), &rebuilt)
	if rebuilt.Status != "rebuilt" || rebuilt.Concepts != 2 {
		t.Errorf("rebuild = %+v", rebuilt)
	}
	if rebuilt.VocabularySize != 6 {
		t.Errorf("vocabulary_size = %d, want 6", rebuilt.VocabularySize)
	}
	if rebuilt.CorpusHash == "" {
		t.Error("corpus_hash is empty")
	}
	if _, err := os.Stat(filepath.Join(dir, ".crossdomain", "cache")); err != nil {
		t.Errorf("cache directory missing: %v", err)
	}
}

func TestConceptCommands(t *testing.T) {
	dir := setupDualProcessRepo(t)

	var got struct {
		ID      string   `json:"id"`
		Aliases []string `json:"aliases"`
	}
	decode(t, mustRun(t, dir, "concept", "get", "system_1"), &got)
	if got.ID != "system_1" || len(got.Aliases) != 2 {
		t.Errorf("concept get = %+v", got)
	}

	if res := runBridge(t, dir, "concept", "get", "system_2"); res.exitCode != 4 {
		t.Errorf("get unknown exit code = %d, want 4", res.exitCode)
	}
	if res := runBridge(t, dir, "concept", "add", "intuition", "-d", "again"); res.exitCode != 3 {
		t.Errorf("duplicate add exit code = %d, want 3", res.exitCode)
	}

	var found struct {
		Count    int `json:"count"`
		Concepts []struct {
			ID string `json:"id"`
		} `json:"concepts"`
	}
	decode(t, mustRun(t, dir, "concept", "search", "heuristic"), &found)
	if found.Count != 2 {
		t.Errorf("search count = %d, want 2", found.Count)
	}

	mustRun(t, dir, "concept", "delete", "consciousness")
	var list struct {
		Count int `json:"count"`
	}
	decode(t, mustRun(t, dir, "concept", "list"), &list)
	if list.Count != 2 {
		t.Errorf("list count after delete = %d, want 2", list.Count)
	}
	var citations struct {
		Count int `json:"count"`
	}
	decode(t, mustRun(t, dir, "citations", "list"), &citations)
	if citations.Count != 2 {
		t.Errorf("citations after delete = %d, want 2", citations.Count)
	}
}

func TestCitationsSetInvalid(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")

	if res := runBridge(t, dir, "citations", "set", "--", "intuition", "-5"); res.exitCode != 3 {
		t.Errorf("negative count exit code = %d, want 3", res.exitCode)
	}
	if res := runBridge(t, dir, "citations", "set", "intuition", "many"); res.exitCode != 3 {
		t.Errorf("non-integer count exit code = %d, want 3", res.exitCode)
	}
}

func TestPath(t *testing.T) {
	dir := setupDualProcessRepo(t)

	var path struct {
		ConceptIDs []string `json:"concept_ids"`
		Threshold  float64  `json:"threshold"`
	}
	decode(t, mustRun(t, dir, "path", "intuition", "consciousness"), &path)
	want := []string{"intuition", "system_1", "consciousness"}
	if len(path.ConceptIDs) != len(want) {
		t.Fatalf("path = %v, want %v", path.ConceptIDs, want)
	}
	for i := range want {
		if path.ConceptIDs[i] != want[i] {
			t.Errorf("path[%d] = %q, want %q", i, path.ConceptIDs[i], want[i])
		}
	}
	if path.Threshold != 0.65 {
		t.Errorf("threshold = %v, want 0.65", path.Threshold)
	}
}

func TestPathNotFound(t *testing.T) {
	dir := setupDualProcessRepo(t)
	mustRun(t, dir, "concept", "add", "photosynthesis", "-d", "chlorophyll pigment absorbs sunlight")

	res := runBridge(t, dir, "path", "intuition", "photosynthesis")
	if res.exitCode != 5 {
		t.Errorf("exit code = %d, want 5\nstdout: %s", res.exitCode, res.stdout)
	}
}

func TestUnknownConcept(t *testing.T) {
	dir := setupDualProcessRepo(t)

	for _, args := range [][]string{
		{"similarity", "intuition", "system_2"},
		{"bridges", "system_2", "consciousness"},
		{"path", "intuition", "system_2"},
	} {
		if res := runBridge(t, dir, args...); res.exitCode != 4 {
			t.Errorf("%v exit code = %d, want 4", args, res.exitCode)
		}
	}
}

func TestBridges(t *testing.T) {
	dir := setupDualProcessRepo(t)

	var out struct {
		Count   int `json:"count"`
		Bridges []struct {
			ConceptID      string  `json:"concept_id"`
			BridgeStrength float64 `json:"bridge_strength"`
		} `json:"bridges"`
	}
	decode(t, mustRun(t, dir, "bridges", "intuition", "consciousness"), &out)
	if out.Count != 1 || out.Bridges[0].ConceptID != "system_1" {
		t.Fatalf("bridges = %+v", out)
	}
	if out.Bridges[0].BridgeStrength <= 0 {
		t.Errorf("bridge_strength = %v, want > 0", out.Bridges[0].BridgeStrength)
	}
}

func TestBridgesEmptyCandidateSet(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")
	mustRun(t, dir, "concept", "add", "intuition", "-d", "fast automatic thinking")
	mustRun(t, dir, "concept", "add", "consciousness", "-d", "heuristic subjective awareness")

	if res := runBridge(t, dir, "bridges", "intuition", "consciousness"); res.exitCode != 6 {
		t.Errorf("exit code = %d, want 6", res.exitCode)
	}

	var exp struct {
		Bridges         []json.RawMessage `json:"bridges"`
		StrongestBridge *json.RawMessage  `json:"strongest_bridge"`
		PathFound       bool              `json:"path_found"`
	}
	decode(t, mustRun(t, dir, "explain", "intuition", "consciousness"), &exp)
	if exp.Bridges == nil || len(exp.Bridges) != 0 {
		t.Errorf("bridges = %v, want empty list", exp.Bridges)
	}
	if exp.StrongestBridge != nil {
		t.Errorf("strongest_bridge = %s, want null", *exp.StrongestBridge)
	}
	if exp.PathFound {
		t.Error("path_found = true, want false")
	}
}

func TestSimilarityAndNovelty(t *testing.T) {
	dir := setupDualProcessRepo(t)

	var sim struct {
		Similarity float64 `json:"similarity"`
	}
	decode(t, mustRun(t, dir, "similarity", "intuition", "consciousness"), &sim)
	if sim.Similarity != 0 {
		t.Errorf("similarity = %v, want 0", sim.Similarity)
	}
	decode(t, mustRun(t, dir, "similarity", "intuition", "intuition"), &sim)
	if sim.Similarity != 1 {
		t.Errorf("self similarity = %v, want 1", sim.Similarity)
	}

	var rare, common struct {
		Novelty float64 `json:"novelty"`
	}
	decode(t, mustRun(t, dir, "novelty", "system_1"), &rare)
	decode(t, mustRun(t, dir, "novelty", "consciousness"), &common)
	if rare.Novelty <= common.Novelty {
		t.Errorf("novelty(system_1) = %v should exceed novelty(consciousness) = %v", rare.Novelty, common.Novelty)
	}
	if common.Novelty != 0 {
		t.Errorf("most cited concept novelty = %v, want 0", common.Novelty)
	}
}

func TestExplain(t *testing.T) {
	dir := setupDualProcessRepo(t)

	var exp struct {
		ID              string `json:"id"`
		PathFound       bool   `json:"path_found"`
		StrongestBridge struct {
			ConceptID string `json:"concept_id"`
		} `json:"strongest_bridge"`
	}
	decode(t, mustRun(t, dir, "explain", "intuition", "consciousness"), &exp)
	if !exp.PathFound {
		t.Error("path_found = false, want true")
	}
	if exp.StrongestBridge.ConceptID != "system_1" {
		t.Errorf("strongest_bridge = %q, want system_1", exp.StrongestBridge.ConceptID)
	}
	if exp.ID == "" {
		t.Error("explanation id is empty")
	}

	var many []struct {
		Domain1 string `json:"domain1"`
	}
	decode(t, mustRun(t, dir, "explain", "intuition", "consciousness", "consciousness", "intuition"), &many)
	if len(many) != 2 || many[0].Domain1 != "intuition" || many[1].Domain1 != "consciousness" {
		t.Errorf("explain many = %+v", many)
	}

	if res := runBridge(t, dir, "explain", "intuition"); res.exitCode != 1 {
		t.Errorf("odd argument count exit code = %d, want 1", res.exitCode)
	}
}

func TestConfigSet(t *testing.T) {
	dir := t.TempDir()
	mustRun(t, dir, "init")

	mustRun(t, dir, "config", "top-n", "3")
	var got map[string]int
	decode(t, mustRun(t, dir, "config", "top_n"), &got)
	if got["top_n"] != 3 {
		t.Errorf("top_n = %v, want 3", got["top_n"])
	}

	if res := runBridge(t, dir, "config", "min-threshold", "0.9"); res.exitCode != 2 {
		t.Errorf("invalid value exit code = %d, want 2", res.exitCode)
	}
	if res := runBridge(t, dir, "config", "colour", "red"); res.exitCode != 1 {
		t.Errorf("unknown key exit code = %d, want 1", res.exitCode)
	}
}

func TestViz(t *testing.T) {
	dir := setupDualProcessRepo(t)
	out := filepath.Join(dir, "graph.html")

	mustRun(t, dir, "viz", "--path", "intuition,consciousness", "--output", out)
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	for _, want := range []string{"cytoscape", "system_1", `"type":"bridge"`} {
		if !bytes.Contains(data, []byte(want)) {
			t.Errorf("visualization missing %q", want)
		}
	}
}
