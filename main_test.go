package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/ByLCY/boxfit/catalog"
	"github.com/ByLCY/boxfit/config"
	"github.com/ByLCY/boxfit/errors"
	"github.com/ByLCY/boxfit/measure"
)

const sampleInput = `{"Hello\nHi": "greeting_long\ngreet", "Hi": "placeholder", "設定": "Settings"}`

func testJob(t *testing.T) config.Job {
	t.Helper()
	dir := t.TempDir()
	job := config.Default()
	job.BaseDir = dir
	job.Font.Src = "embed:go-regular"
	if err := os.WriteFile(filepath.Join(dir, job.Input), []byte(sampleInput), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return job
}

func quietLogger() *log.Logger { return newLogger(io.Discard, log.InfoLevel) }

func TestRunEndToEnd(t *testing.T) {
	job := testJob(t)
	report, err := run(job, quietLogger())
	if err != nil {
		t.Fatalf("run error: %v", err)
	}
	if report.Reconcile.Reconciled != 1 || report.Annotated != 3 {
		t.Fatalf("report = %+v", report)
	}

	out, err := catalog.Load(job.Path(job.Output))
	if err != nil {
		t.Fatalf("load output: %v", err)
	}
	if got := out.Keys(); strings.Join(got, "|") != "Hello\nHi|Hi|設定" {
		t.Fatalf("key order changed: %q", got)
	}
	hi, _ := out.Get("Hi")
	if hi.Text != "greeting_long" {
		t.Fatalf("Hi = %q, want the wider segment greeting_long", hi.Text)
	}

	// 输出文件按原文重新测量，宽度需与测量器一致。
	m, err := measure.New(job.MeasureOptions())
	if err != nil {
		t.Fatalf("measure.New: %v", err)
	}
	raw, err := os.ReadFile(job.Path(job.Output))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(raw), `"設定": {`) {
		t.Fatalf("non-ASCII keys must be written literally:\n%s", raw)
	}
	compound := annotated(t, raw, "Hello\nHi")
	if len(compound.PixelLengths) != 2 ||
		compound.PixelLengths[0] != m.Width("greeting_long") ||
		compound.PixelLengths[1] != m.Width("greet") {
		t.Fatalf("compound widths = %v", compound.PixelLengths)
	}
}

// annotated 读取输出文件中某个键的标注记录；Decode 会丢弃宽度，因此直接解析 JSON。
func annotated(t *testing.T, raw []byte, key string) catalog.Value {
	t.Helper()
	var records map[string]struct {
		Text         string `json:"text"`
		PixelLengths []int  `json:"pixel_lengths"`
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		t.Fatalf("decode output: %v", err)
	}
	rec, ok := records[key]
	if !ok {
		t.Fatalf("missing key %q", key)
	}
	return catalog.Value{Text: rec.Text, PixelLengths: rec.PixelLengths}
}

func TestRunFailuresKeepPreviousOutput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(t *testing.T, job *config.Job)
		code   errors.Code
	}{
		{
			name:   "missing font",
			mutate: func(t *testing.T, job *config.Job) { job.Font.Src = "mplus-1c-medium.ttf" },
			code:   errors.ErrCodeFontNotFound,
		},
		{
			name: "invalid input",
			mutate: func(t *testing.T, job *config.Job) {
				if err := os.WriteFile(job.Path(job.Input), []byte(`{"a": 1}`), 0o644); err != nil {
					t.Fatalf("write input: %v", err)
				}
			},
			code: errors.ErrCodeInvalidInput,
		},
		{
			name:   "missing input",
			mutate: func(t *testing.T, job *config.Job) { job.Input = "absent.json" },
			code:   errors.ErrCodeFileNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := testJob(t)
			output := job.Path(job.Output)
			if err := os.WriteFile(output, []byte("previous"), 0o644); err != nil {
				t.Fatalf("write previous output: %v", err)
			}
			tt.mutate(t, &job)

			_, err := run(job, quietLogger())
			if !errors.Is(err, tt.code) {
				t.Fatalf("run error = %v, want %s", err, tt.code)
			}
			got, _ := os.ReadFile(output)
			if string(got) != "previous" {
				t.Fatalf("output was modified: %q", got)
			}
		})
	}
}

func TestFixCommandWithFlags(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	out := filepath.Join(dir, "out.json")
	if err := os.WriteFile(in, []byte(sampleInput), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	var logs bytes.Buffer
	root := newRootCommand(&logs)
	root.SetArgs([]string{"fix", "-v", "--in", in, "--out", out, "--font", "embed:go-regular", "--collision", "widest"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("fix error: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if !strings.Contains(logs.String(), "改写目标键") {
		t.Fatalf("expected debug logs with -v, got:\n%s", logs.String())
	}
}

func TestFixCommandWithJobFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "strings.json"), []byte(sampleInput), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	jobFile := filepath.Join(dir, "tr.job")
	jobText := `job tr v1 {
    font "embed:go-medium" 16
    input: "strings.json"
    output: "${job.name}.json"
}`
	if err := os.WriteFile(jobFile, []byte(jobText), 0o644); err != nil {
		t.Fatalf("write job: %v", err)
	}

	root := newRootCommand(io.Discard)
	root.SetArgs([]string{"fix", "--config", jobFile})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("fix error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "tr.json")); err != nil {
		t.Fatalf("output not written next to the job file: %v", err)
	}
}

func TestFixCommandRejectsBadPolicy(t *testing.T) {
	root := newRootCommand(io.Discard)
	root.SetArgs([]string{"fix", "--font", "embed:go-regular", "--key-tie", "middle"})
	err := root.ExecuteContext(context.Background())
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestMeasureCommand(t *testing.T) {
	var stdout bytes.Buffer
	root := newRootCommand(io.Discard)
	root.SetOut(&stdout)
	root.SetArgs([]string{"measure", "--font", "embed:go-regular", "", "one\ntwo"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("measure error: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 output lines, got %q", stdout.String())
	}
	if lines[0] != "0\t\"\"" {
		t.Fatalf("empty text line = %q", lines[0])
	}
	widths, _, _ := strings.Cut(lines[1], "\t")
	if parts := strings.Split(widths, ","); len(parts) != 2 {
		t.Fatalf("expected two segment widths, got %q", lines[1])
	}
}

func TestVersionFlag(t *testing.T) {
	var stdout bytes.Buffer
	root := newRootCommand(io.Discard)
	root.SetOut(&stdout)
	root.SetArgs([]string{"--version"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("--version error: %v", err)
	}
	if got, want := stdout.String(), "boxfit dev (commit none, built unknown)\n"; got != want {
		t.Fatalf("--version output = %q, want %q", got, want)
	}
}
