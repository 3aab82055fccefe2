package script

import (
	"strings"
	"testing"
)

func TestNewHookEmptySource(t *testing.T) {
	h, err := NewHook("empty", []byte("  \n"))
	if err != nil || h != nil {
		t.Fatalf("NewHook = %v, %v; want nil, nil", h, err)
	}
	if err := h.Run(Event{Kind: "chain"}); err != nil {
		t.Fatalf("nil hook Run: %v", err)
	}
}

func TestNewHookRequiresOnOverlap(t *testing.T) {
	if _, err := NewHook("bad", []byte(`x := 1`)); err == nil {
		t.Fatalf("expected compile error without on_overlap")
	}
}

func TestHookRun(t *testing.T) {
	cases := []struct {
		name    string
		src     string
		event   Event
		want    []string
		wantErr bool
	}{
		{
			name:  "logs_event_fields",
			src:   `on_overlap := func(engine, event) { engine.log("hit", event.kind, event.name) }`,
			event: Event{Kind: "chain", Name: "first-chain"},
			want:  []string{"hit chain first-chain"},
		},
		{
			name:  "silent",
			src:   `on_overlap := func(engine, event) {}`,
			event: Event{Kind: "knitcube"},
		},
		{
			name:    "runtime_error",
			src:     `on_overlap := func(engine, event) { x := event.missing + 1 }`,
			event:   Event{Kind: "chain"},
			wantErr: true,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, err := NewHook(c.name, []byte(c.src))
			if err != nil {
				t.Fatalf("NewHook: %v", err)
			}
			var got []string
			h.Output = func(line string) { got = append(got, line) }

			err = h.Run(c.event)
			if c.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if strings.Join(got, "|") != strings.Join(c.want, "|") {
				t.Fatalf("output = %q, want %q", got, c.want)
			}
		})
	}
}

func TestLoadEmbeddedOverlapScript(t *testing.T) {
	h, err := Load("overlap.tengo")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var got []string
	h.Output = func(line string) { got = append(got, line) }

	if err := h.Run(Event{Kind: "chain", X: 192, Y: 88, Dimension: 0}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 1 || !strings.Contains(got[0], "chain at (192, 88)") {
		t.Fatalf("unexpected output %q", got)
	}

	got = nil
	if err := h.Run(Event{Kind: "chain", Dimension: 6}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no output for a grown chain, got %q", got)
	}
}

func TestLoadEmptyName(t *testing.T) {
	h, err := Load("")
	if err != nil || h != nil {
		t.Fatalf("Load(\"\") = %v, %v", h, err)
	}
}
