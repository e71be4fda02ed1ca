package options

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestWrap(t *testing.T) {
	got := Wrap("one two three four", 9)
	want := "one two\nthree\nfour"
	if got != want {
		t.Fatalf("Wrap() = %q, want %q", got, want)
	}
	for _, line := range strings.Split(Wrap80(strings.Repeat("word ", 40)), "\n") {
		if len(line) > 80 {
			t.Fatalf("line too long: %q", line)
		}
	}
}

func TestPlacementDefaults(t *testing.T) {
	o := &PlacementOptions{Index: -1}
	if o.SectionOr("active") != "active" {
		t.Fatalf("expected fallback section")
	}
	if o.At() <= 1<<30 {
		t.Fatalf("expected append index, got %d", o.At())
	}
	o = &PlacementOptions{Section: "s2", Index: 3}
	if o.SectionOr("active") != "s2" || o.At() != 3 {
		t.Fatalf("unexpected placement %+v", o)
	}
}

func TestExplicitFormatWins(t *testing.T) {
	o := &OutputOptions{Format: "yaml"}
	if o.Resolved() != "yaml" || o.JSON() {
		t.Fatalf("expected yaml")
	}
}

func TestHandleErrorKeepsFailure(t *testing.T) {
	var buf bytes.Buffer
	saved := color.Output
	color.Output = &buf
	defer func() { color.Output = saved }()

	cause := errors.New("boom")
	err := (&OutputOptions{Format: "json"}).HandleError(cause)
	if !errors.Is(err, cause) {
		t.Fatalf("expected the cause back, got %v", err)
	}
	if got := strings.TrimSpace(buf.String()); got != `{"error":"boom"}` {
		t.Fatalf("unexpected output %q", got)
	}

	buf.Reset()
	if err := (&OutputOptions{Format: "pretty"}).HandleError(cause); err != cause || buf.Len() != 0 {
		t.Fatalf("pretty output must pass errors through untouched")
	}
	if err := (&OutputOptions{Format: "json"}).HandleError(nil); err != nil {
		t.Fatalf("nil stays nil")
	}
}
