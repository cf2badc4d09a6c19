package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/matzehuels/agentscape/pkg/dataset"
	"github.com/matzehuels/agentscape/pkg/plot"
)

// lockedBuffer is shared by the logger and the spinner goroutine.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testEnv is a temp dir holding a copy of the fixture dataset and a config
// file whose cache lives in the same dir.
type testEnv struct {
	dir     string
	dataset string
	config  string
}

func newTestEnv(t *testing.T, extraConfig string) testEnv {
	t.Helper()
	dir := t.TempDir()

	data, err := os.ReadFile(filepath.Join("..", "..", "pkg", "dataset", "testdata", "frameworks.csv"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	ds := filepath.Join(dir, "frameworks.csv")
	if err := os.WriteFile(ds, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := fmt.Sprintf("[cache]\ndir = %q\n\n[log]\nlevel = \"error\"\n%s", filepath.Join(dir, "cache"), extraConfig)
	cfgPath := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return testEnv{dir: dir, dataset: ds, config: cfgPath}
}

// run executes the root command with args and returns stdout.
func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs lockedBuffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", e.config}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("%s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestLayoutCommand(t *testing.T) {
	env := newTestEnv(t, "")
	out := env.mustRun(t, "layout", env.dataset)

	path := filepath.Join(env.dir, "frameworks.layout.json")
	l, err := plot.ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if len(l.Points) != 4 {
		t.Errorf("got %d points, want 4", len(l.Points))
	}
	for _, want := range []string{"Layout complete", path, "4 frameworks", "1 displaced", iconFresh} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out = env.mustRun(t, "layout", env.dataset)
	if !strings.Contains(out, iconCached) {
		t.Errorf("second run should hit the cache:\n%s", out)
	}
}

func TestLayoutCommandOptions(t *testing.T) {
	env := newTestEnv(t, "")
	out := filepath.Join(env.dir, "custom.json")
	env.mustRun(t, "layout", env.dataset, "-o", out, "--y", "learning_curve", "--jitter", "0", "--category", "Orchestration")

	l, err := plot.ReadLayoutFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if l.YAxis != "learning_curve" {
		t.Errorf("y axis = %q", l.YAxis)
	}
	if len(l.Points) != 2 {
		t.Fatalf("got %d points, want 2", len(l.Points))
	}
	for _, p := range l.Points {
		if !p.MissingY {
			t.Errorf("%s: learning curve is not in the fixture, want MissingY", p.Name)
		}
	}
}

func TestLayoutCommandInvalidAxis(t *testing.T) {
	env := newTestEnv(t, "")
	if _, err := env.run(t, "layout", env.dataset, "--x", "stars"); err == nil {
		t.Fatal("expected error for unknown axis")
	}
}

func TestVisualizeCommand(t *testing.T) {
	env := newTestEnv(t, "")
	env.mustRun(t, "layout", env.dataset)

	layoutPath := filepath.Join(env.dir, "frameworks.layout.json")
	out := env.mustRun(t, "visualize", layoutPath, "-f", "svg,json", "--labels")

	svg, err := os.ReadFile(filepath.Join(env.dir, "frameworks.svg"))
	if err != nil {
		t.Fatalf("svg not written: %v\n%s", err, out)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("LangChain")) {
		t.Error("svg does not look like a labeled plot")
	}
	if _, err := plot.ReadLayoutFile(filepath.Join(env.dir, "frameworks.json")); err != nil {
		t.Errorf("json artifact is not a layout: %v", err)
	}
	if !strings.Contains(out, "Rendered svg, json") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestVisualizeCommandBadFormat(t *testing.T) {
	env := newTestEnv(t, "")
	env.mustRun(t, "layout", env.dataset)
	if _, err := env.run(t, "visualize", filepath.Join(env.dir, "frameworks.layout.json"), "-f", "gif"); err == nil {
		t.Fatal("expected error for gif")
	}
}

func TestRenderCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		file string
		want string
	}{
		{"scatter dark", []string{"--theme", "dark", "-o", "out/plot.svg"}, "out/plot.svg", "<svg"},
		{"nodelink", []string{"-t", "nodelink"}, "frameworks.svg", "Orchestration"},
		{"json", []string{"-f", "json"}, "frameworks.json", `"viz_type": "scatter"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, "")
			args := append([]string{"render", env.dataset}, tt.args...)
			for i, a := range args {
				if strings.HasPrefix(a, "out/") {
					args[i] = filepath.Join(env.dir, a)
				}
			}
			env.mustRun(t, args...)

			data, err := os.ReadFile(filepath.Join(env.dir, tt.file))
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(data), tt.want) {
				t.Errorf("%s does not contain %q", tt.file, tt.want)
			}
		})
	}
}

func TestHitCommand(t *testing.T) {
	env := newTestEnv(t, "")
	env.mustRun(t, "layout", env.dataset)
	layoutPath := filepath.Join(env.dir, "frameworks.layout.json")

	l, err := plot.ReadLayoutFile(layoutPath)
	if err != nil {
		t.Fatal(err)
	}
	p, ok := l.Point("n8n")
	if !ok {
		t.Fatal("n8n not in layout")
	}
	px, py := fmt.Sprintf("%g", p.PX+2), fmt.Sprintf("%g", p.PY-2)

	for _, input := range []string{layoutPath, env.dataset} {
		t.Run(filepath.Base(input), func(t *testing.T) {
			out := env.mustRun(t, "hit", input, "--px", px, "--py", py)
			for _, want := range []string{"n8n", "Orchestration", "Workflow automation with AI nodes", "https://n8n.io"} {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}

	out := env.mustRun(t, "hit", layoutPath, "--px", "0", "--py", "0")
	if !strings.Contains(out, "no entity at (0, 0)") {
		t.Errorf("miss output = %q", out)
	}

	if _, err := env.run(t, "hit", layoutPath, "--px", "1"); err == nil || !strings.Contains(err.Error(), "--py is required") {
		t.Errorf("err = %v, want --py is required", err)
	}
}

func TestHitCommandReprojects(t *testing.T) {
	env := newTestEnv(t, "")
	env.mustRun(t, "layout", env.dataset)
	layoutPath := filepath.Join(env.dir, "frameworks.layout.json")

	l, err := plot.ReadLayoutFile(layoutPath)
	if err != nil {
		t.Fatal(err)
	}
	p, _ := l.Point("Zapier")
	shifted := fmt.Sprintf("%g", p.PX+100)

	out := env.mustRun(t, "hit", layoutPath, "--px", shifted, "--py", fmt.Sprintf("%g", p.PY), "--pan-x", "100")
	if !strings.Contains(out, "Zapier") {
		t.Errorf("panned hit missed:\n%s", out)
	}
}

func TestListCommand(t *testing.T) {
	env := newTestEnv(t, "")

	out := env.mustRun(t, "list", env.dataset)
	for _, want := range []string{"LangChain", "Code level", "4 frameworks in 2 categories"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	out = env.mustRun(t, "list", env.dataset, "--category", "Orchestration", "--json")
	records, err := dataset.ReadJSON(strings.NewReader(out))
	if err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}

	out = env.mustRun(t, "list", env.dataset, "-q", "nothing-matches")
	if !strings.Contains(out, "no frameworks match") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestDatasetFromConfig(t *testing.T) {
	env := newTestEnv(t, "")
	cfg := newTestEnv(t, fmt.Sprintf("\n[dataset]\nsource = %q\n", env.dataset))

	out := cfg.mustRun(t, "list", "--json")
	var raw []map[string]any
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(raw) != 4 {
		t.Errorf("got %d records, want 4", len(raw))
	}

	if _, err := env.run(t, "list"); err == nil {
		t.Error("expected error without a dataset")
	}
}

func TestConfigErrors(t *testing.T) {
	env := newTestEnv(t, "\n[layout]\nradius = -1\n")
	if _, err := env.run(t, "list", env.dataset); err == nil {
		t.Error("expected invalid config error")
	}

	env = newTestEnv(t, "")
	env.config = filepath.Join(env.dir, "missing.toml")
	if _, err := env.run(t, "list", env.dataset); err == nil {
		t.Error("expected error for a missing explicit config")
	}
}

func TestCacheCommands(t *testing.T) {
	env := newTestEnv(t, "")
	cacheDir := filepath.Join(env.dir, "cache")

	out := env.mustRun(t, "cache", "path")
	if strings.TrimSpace(out) != cacheDir {
		t.Errorf("cache path = %q, want %q", out, cacheDir)
	}

	env.mustRun(t, "layout", env.dataset)
	entries, _ := os.ReadDir(cacheDir)
	if len(entries) == 0 {
		t.Fatal("layout did not populate the cache")
	}

	out = env.mustRun(t, "cache", "clear")
	if !strings.Contains(out, "Cleared cache") {
		t.Errorf("unexpected output:\n%s", out)
	}
	entries, _ = os.ReadDir(cacheDir)
	if len(entries) != 0 {
		t.Errorf("cache still has %d entries", len(entries))
	}
}

func TestCacheClearDisabled(t *testing.T) {
	env := newTestEnv(t, "")
	if err := os.WriteFile(env.config, []byte("[cache]\nbackend = \"none\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := env.mustRun(t, "cache", "clear")
	if !strings.Contains(out, "Caching is disabled") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCompletionCommand(t *testing.T) {
	env := newTestEnv(t, "")
	out := env.mustRun(t, "completion", "bash")
	if !strings.Contains(out, appName) {
		t.Error("bash completion does not mention the command name")
	}
	if _, err := env.run(t, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}

func TestVersionFlag(t *testing.T) {
	env := newTestEnv(t, "")
	out := env.mustRun(t, "--version")
	if !strings.Contains(out, appName) {
		t.Errorf("version output = %q", out)
	}
}

func TestVersionFlagWithConfig(t *testing.T) {
	env := newTestEnv(t, "")
	tests := []struct {
		name string
		args []string
	}{
		{"config first", []string{"--config", env.config, "--version"}},
		{"version first", []string{"--version", "--config", env.config}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs lockedBuffer
			root := New(&logs, LogInfo).RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetErr(&out)
			root.SetArgs(tt.args)
			if err := root.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("%v\n%s", err, out.String())
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("version output = %q", out.String())
			}
		})
	}
}
