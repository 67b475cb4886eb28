package lamp

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"lampbot/pkg/platform"
)

func devices(n int, name string) []platform.Object {
	out := make([]platform.Object, n)
	for i := range out {
		out[i] = platform.Object{ID: fmt.Sprintf("light%d", i+1), Name: name}
	}
	return out
}

func TestPaginate_SplitsByCount(t *testing.T) {
	pages := Paginate(devices(7, "Lamp"), 3, 1000)

	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	for i, want := range []int{3, 3, 1} {
		if got := strings.Count(pages[i], "\n- "); got != want {
			t.Fatalf("page %d: %d entries, want %d", i+1, got, want)
		}
		if !strings.HasPrefix(pages[i], fmt.Sprintf("Available devices (%d/3):", i+1)) {
			t.Fatalf("page %d: unexpected header %q", i+1, pages[i])
		}
		if utf8.RuneCountInString(pages[i]) > 1000 {
			t.Fatalf("page %d exceeds length cap", i+1)
		}
	}
}

func TestPaginate_SplitsByLength(t *testing.T) {
	name := strings.Repeat("n", 80)
	pages := Paginate(devices(10, name), 20, 300)

	if len(pages) < 4 {
		t.Fatalf("expected length to force several pages, got %d", len(pages))
	}
	total := 0
	for i, p := range pages {
		if utf8.RuneCountInString(p) > 300 {
			t.Fatalf("page %d has %d chars", i+1, utf8.RuneCountInString(p))
		}
		total += strings.Count(p, "\n- ")
	}
	if total != 10 {
		t.Fatalf("expected all 10 devices listed, got %d", total)
	}
}

func TestPaginate_TruncatesOversizedLine(t *testing.T) {
	pages := Paginate(devices(1, strings.Repeat("x", 500)), 5, 200)

	if len(pages) != 1 || utf8.RuneCountInString(pages[0]) > 200 {
		t.Fatalf("unexpected pages: %v", pages)
	}
	if !strings.HasSuffix(pages[0], "...") {
		t.Fatalf("expected truncated line, got %q", pages[0])
	}
}

func TestPaginate_Empty(t *testing.T) {
	if pages := Paginate(nil, 3, 1000); pages != nil {
		t.Fatalf("expected no pages, got %v", pages)
	}
}

func TestPaginate_LengthBelowHeaderStillBounded(t *testing.T) {
	pages := Paginate(devices(3, "Lamp"), 5, 12)

	if len(pages) != 3 {
		t.Fatalf("expected one device per page, got %d pages", len(pages))
	}
	for i, p := range pages {
		if n := utf8.RuneCountInString(p); n > 12 {
			t.Fatalf("page %d has %d chars, cap is 12: %q", i+1, n, p)
		}
	}
}
