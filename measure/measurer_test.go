package measure

import (
	"testing"

	"github.com/ByLCY/boxfit/errors"
)

func newTestMeasurer(t *testing.T, backend string) *Measurer {
	t.Helper()
	m, err := New(Options{Src: "embed:go-regular", Backend: backend})
	if err != nil {
		t.Fatalf("New(%s) error: %v", backend, err)
	}
	return m
}

func TestAutoPicksGlyphBoundsForTrueType(t *testing.T) {
	m := newTestMeasurer(t, BackendAuto)
	if got := m.Backend(); got != BackendGlyphBounds {
		t.Fatalf("Backend() = %q, want %q", got, BackendGlyphBounds)
	}
	if m.Size() != DefaultSize {
		t.Fatalf("Size() = %d, want %d", m.Size(), DefaultSize)
	}
}

func TestWidthProperties(t *testing.T) {
	for _, backend := range []string{BackendGlyphBounds, BackendCanvas} {
		t.Run(backend, func(t *testing.T) {
			m := newTestMeasurer(t, backend)

			if got := m.Width(""); got != 0 {
				t.Fatalf("Width(\"\") = %d, want 0", got)
			}

			first := m.Width("Hello, World")
			if first <= 0 {
				t.Fatalf("Width(\"Hello, World\") = %d, want > 0", first)
			}
			if again := m.Width("Hello, World"); again != first {
				t.Fatalf("measurement not deterministic: %d then %d", first, again)
			}

			if wide, narrow := m.Width("WWWW"), m.Width("iiii"); wide <= narrow {
				t.Fatalf("expected WWWW (%d) wider than iiii (%d)", wide, narrow)
			}

			if big, small := m.WidthAt("Hello", 32), m.WidthAt("Hello", 16); big <= small {
				t.Fatalf("expected size 32 (%d) wider than size 16 (%d)", big, small)
			}
			if m.WidthAt("Hello", 0) != m.Width("Hello") {
				t.Fatalf("WidthAt with size 0 must fall back to the default size")
			}
		})
	}
}

// 自动选择的后端对调用方不可见：同一字体、字号与文本，两个后端必须给出相同宽度。
func TestBackendsAgree(t *testing.T) {
	glyph := newTestMeasurer(t, BackendGlyphBounds)
	cv := newTestMeasurer(t, BackendCanvas)
	texts := []string{
		"Hello, World",
		"Settings",
		"OK",
		".",
		",;:!?",
		" ",
		"   ",
		" padded ",
		"greeting_long",
		"",
	}
	for _, size := range []int{12, 16, 24} {
		for _, text := range texts {
			if g, c := glyph.WidthAt(text, size), cv.WidthAt(text, size); g != c {
				t.Fatalf("size %d, %q: glyph-bounds=%d canvas=%d", size, text, g, c)
			}
		}
	}
}

func TestWhitespaceHasNoInk(t *testing.T) {
	for _, backend := range []string{BackendGlyphBounds, BackendCanvas} {
		m := newTestMeasurer(t, backend)
		for _, text := range []string{" ", "   "} {
			if got := m.Width(text); got != 0 {
				t.Fatalf("%s: Width(%q) = %d, want 0", backend, text, got)
			}
		}
		if m.Width(" .") > m.Width(".")+1 {
			t.Fatalf("%s: leading space must not count as ink", backend)
		}
	}
}

func TestNewFailures(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{
			name: "missing file",
			opts: Options{Src: "mplus-1c-medium.ttf", BaseDir: t.TempDir()},
			code: errors.ErrCodeFontNotFound,
		},
		{
			name: "garbage font",
			opts: Options{Src: "built-in:junk", Fonts: map[string][]byte{"junk": []byte("definitely not a font")}},
			code: errors.ErrCodeFontInvalid,
		},
		{
			name: "unknown backend",
			opts: Options{Src: "embed:go-regular", Backend: "pillow"},
			code: errors.ErrCodeInvalidConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.opts)
			if err == nil {
				t.Fatalf("expected error, got measurer with backend %s", m.Backend())
			}
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestInkWidth(t *testing.T) {
	tests := []struct {
		x0, x1 float64
		want   int
	}{
		{x0: 0, x1: 0, want: 0},
		{x0: 3, x1: 1, want: 0},
		{x0: 0, x1: 10, want: 10},
		{x0: 0.5, x1: 10.2, want: 11},
		{x0: -1.25, x1: 2, want: 4},
		// 1/64 px 以下的浮点误差不应多占一列。
		{x0: 1e-9, x1: 10 - 1e-9, want: 10},
	}
	for _, tt := range tests {
		if got := inkWidth(tt.x0, tt.x1); got != tt.want {
			t.Fatalf("inkWidth(%g, %g) = %d, want %d", tt.x0, tt.x1, got, tt.want)
		}
	}
}
