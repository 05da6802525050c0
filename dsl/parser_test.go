package dsl

import (
	"strings"
	"testing"
)

const sampleJob = `
// 默认任务
job tr v1 {
    font "mplus-1c-medium.ttf" 16px
    input: "tr_org.json"
    output: "${env.OUT_DIR}/tr.json"   # 输出
    reconcile {
        key-tie: last; segment-tie: greatest
        collision: widest
    }
}
`

func TestParseJob(t *testing.T) {
	doc, err := ParseString(sampleJob)
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}
	if doc.Name != "tr" || doc.Version != "v1" {
		t.Fatalf("header = %q %q", doc.Name, doc.Version)
	}
	if got := len(doc.Block.Statements); got != 4 {
		t.Fatalf("expected 4 statements, got %d", got)
	}

	font := doc.Block.Statements[0].Command
	if font == nil || font.Name != "font" {
		t.Fatalf("first statement should be the font command: %+v", doc.Block.Statements[0])
	}
	if len(font.Args) != 2 || font.Args[0].Value != "mplus-1c-medium.ttf" || font.Args[0].Type != "String" {
		t.Fatalf("font args = %+v", font.Args)
	}
	if font.Args[1].Value != "16px" || font.Args[1].Type != "Number" {
		t.Fatalf("font size arg = %+v", font.Args[1])
	}

	out := doc.Block.Statements[2].Assignment
	if out == nil || out.Key != "output" || out.Value.Text() != "${env.OUT_DIR}/tr.json" {
		t.Fatalf("output assignment = %+v", out)
	}

	rec := doc.Block.Statements[3].Command
	if rec == nil || rec.Block == nil {
		t.Fatalf("reconcile block missing")
	}
	got := map[string]string{}
	for _, st := range rec.Block.Statements {
		if st.Assignment == nil {
			t.Fatalf("unexpected statement in reconcile block: %+v", st)
		}
		got[st.Assignment.Key] = st.Assignment.Value.Text()
	}
	want := map[string]string{"key-tie": "last", "segment-tie": "greatest", "collision": "widest"}
	for k, v := range want {
		if got[k] != v {
			t.Fatalf("%s = %q, want %q (all: %v)", k, got[k], v, got)
		}
	}
}

func TestParseBlockFont(t *testing.T) {
	doc, err := ParseString(`job ui v2 { font { src: "embed:go-regular"; size: 14 } }`)
	if err != nil {
		t.Fatalf("ParseString error: %v", err)
	}
	font := doc.Block.Statements[0].Command
	if font == nil || font.Block == nil || len(font.Block.Statements) != 2 {
		t.Fatalf("font block = %+v", font)
	}
	size := font.Block.Statements[1].Assignment
	if size == nil || size.Value.Number == nil || *size.Value.Number != "14" {
		t.Fatalf("size assignment = %+v", size)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		`doc tr v1 { }`,
		`job tr v1 { input: }`,
		`job tr v1 { input: "unterminated }`,
		`job tr v1 {`,
	}
	for _, input := range cases {
		if _, err := Parse("bad.job", strings.NewReader(input)); err == nil {
			t.Fatalf("expected parse error for %q", input)
		}
	}
}
