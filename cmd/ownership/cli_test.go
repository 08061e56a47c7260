package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// (module (func (export "run")))
var runModule = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	0x01, 0x04, 0x01, 0x60, 0x00, 0x00,
	0x03, 0x02, 0x01, 0x00,
	0x07, 0x07, 0x01, 0x03, 'r', 'u', 'n', 0x00, 0x00,
	0x0a, 0x04, 0x01, 0x02, 0x00, 0x0b,
}

func execute(t *testing.T, args ...string) (*App, string, error) {
	t.Helper()

	app := newApp()
	var out bytes.Buffer
	app.rootCmd.SetOut(&out)
	app.rootCmd.SetErr(&out)
	app.rootCmd.SetArgs(args)
	err := app.rootCmd.Execute()
	return app, out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestAppDefaultFlags(t *testing.T) {
	app, _, err := execute(t, "run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if app.config.Color != "auto" {
		t.Errorf("default color = %q, want auto", app.config.Color)
	}
	if app.config.Verbose {
		t.Error("default verbose should be false")
	}
	if app.config.ContinueOnError {
		t.Error("default continue should be false")
	}
}

func TestRootCommandHelp(t *testing.T) {
	_, output, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := []string{
		"single-owner handle scenarios",
		"--config",
		"--color",
		"--verbose",
		"run",
		"interactive",
		"sandbox",
	}
	for _, check := range checks {
		if !strings.Contains(output, check) {
			t.Errorf("help output missing %q", check)
		}
	}
}

func TestRunDefault(t *testing.T) {
	_, output, err := execute(t, "--color", "never", "run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	checks := []string{
		"default",
		"ctor #1 (10)",
		"Hello x=10",
		"p is null",
		"dtor #1 (10)",
		"Hello x=99",
		"dtor #2 (99)",
		"2 values, 0 leaked, 0 double destroyed",
	}
	for _, check := range checks {
		if !strings.Contains(output, check) {
			t.Errorf("output missing %q\n%s", check, output)
		}
	}
	if strings.Contains(output, "\x1b[") {
		t.Error("--color never must not emit escape sequences")
	}
}

func TestRunLeak(t *testing.T) {
	script := writeFile(t, "leak.txt", "make p 7\nrelease p @lost\n")

	_, output, err := execute(t, "run", script)
	if err == nil {
		t.Fatal("expected an error for a leaked value")
	}
	if !strings.Contains(err.Error(), "1 leaked") {
		t.Errorf("err = %v, want leak count", err)
	}
	if !strings.Contains(output, "leak #1 (7) @lost") {
		t.Errorf("output missing leak line\n%s", output)
	}
}

func TestRunStepFailure(t *testing.T) {
	script := writeFile(t, "fail.txt", "hello p\nmake p 1\n")

	tests := []struct {
		name     string
		args     []string
		wantCtor bool
	}{
		{name: "stop", args: []string{"run", script}, wantCtor: false},
		{name: "continue", args: []string{"run", "--continue", script}, wantCtor: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := strings.Contains(output, "ctor #1 (1)"); got != tt.wantCtor {
				t.Errorf("ctor in output = %v, want %v\n%s", got, tt.wantCtor, output)
			}
		})
	}
}

func TestRunMissingScript(t *testing.T) {
	_, _, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected an error for a missing script")
	}
}

func TestLoadConfigPriority(t *testing.T) {
	cfg := writeFile(t, ".ownership.yaml", `color: never
memory_limit_pages: 32
continue_on_error: true
`)

	tests := []struct {
		name      string
		args      []string
		wantColor string
		wantPages uint32
	}{
		{
			name:      "file values",
			args:      []string{"--config", cfg, "run"},
			wantColor: "never",
			wantPages: 32,
		},
		{
			name:      "flag wins",
			args:      []string{"--config", cfg, "--color", "always", "run"},
			wantColor: "always",
			wantPages: 32,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, _, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if app.config.Color != tt.wantColor {
				t.Errorf("color = %q, want %q", app.config.Color, tt.wantColor)
			}
			if app.config.MemoryLimitPages != tt.wantPages {
				t.Errorf("memory_limit_pages = %d, want %d", app.config.MemoryLimitPages, tt.wantPages)
			}
			if !app.config.ContinueOnError {
				t.Error("continue_on_error should come from the file")
			}
		})
	}
}

func TestLoadConfigErrors(t *testing.T) {
	bad := writeFile(t, "bad.yaml", "color: [\n")

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"--config", filepath.Join(t.TempDir(), "none.yaml"), "run"}},
		{"invalid yaml", []string{"--config", bad, "run"}},
		{"invalid color", []string{"--color", "purple", "run"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := execute(t, tt.args...); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestColorEnabled(t *testing.T) {
	var buf bytes.Buffer

	tests := []struct {
		color string
		want  bool
	}{
		{"always", true},
		{"never", false},
		{"auto", false},
	}
	for _, tt := range tests {
		c := &Config{Color: tt.color}
		if got := c.colorEnabled(&buf); got != tt.want {
			t.Errorf("colorEnabled(%q) = %v, want %v", tt.color, got, tt.want)
		}
	}
}

func TestSandbox(t *testing.T) {
	path := filepath.Join(t.TempDir(), "module.wasm")
	if err := os.WriteFile(path, runModule, 0o644); err != nil {
		t.Fatal(err)
	}

	_, output, err := execute(t, "sandbox", "--memory-limit-pages", "16", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(output, "run") {
		t.Errorf("output missing export\n%s", output)
	}
}

func TestSandboxInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wasm")
	if err := os.WriteFile(path, []byte("not wasm"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := execute(t, "sandbox", path); err == nil {
		t.Fatal("expected a compile error")
	}
}

func TestInteractiveModel(t *testing.T) {
	m := newInteractiveModel()

	for _, line := range []string{"make p 10", "move p q", "hello p"} {
		m.input.SetValue(line)
		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	}

	if m.err == nil {
		t.Fatal("hello on an empty handle should report an error")
	}
	if len(m.history) != 3 {
		t.Fatalf("history = %v", m.history)
	}

	slots := m.machine.Slots()
	if len(slots) != 2 || slots[0].Valid || !slots[1].Valid {
		t.Fatalf("slots = %+v", slots)
	}

	view := m.View()
	for _, want := range []string{"p ->", "q ->", "ctor #1 (10)"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should quit")
	}
	trace := m.machine.Trace()
	if last := trace[len(trace)-1]; last.String() != "dtor #1 (10)" {
		t.Fatalf("last event = %q, want dtor #1 (10)", last.String())
	}
	if m.shown != len(trace)-1 {
		t.Fatalf("shown = %d, want %d", m.shown, len(trace)-1)
	}
}

func TestConfigString(t *testing.T) {
	c := &Config{Color: "never", Verbose: true, MemoryLimitPages: 16, ContinueOnError: true}
	want := "color=never verbose=true memory_limit_pages=16 continue_on_error=true"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestVerboseRun(t *testing.T) {
	app, _, err := execute(t, "--verbose", "run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !app.config.Verbose {
		t.Error("verbose should be true")
	}
	if app.logger == nil {
		t.Fatal("verbose run should install a logger")
	}
}
