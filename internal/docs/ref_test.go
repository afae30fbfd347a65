package docs

import "testing"

func TestParseRef(t *testing.T) {
	cases := []struct {
		id   string
		kind RefKind
	}{
		{"17", KindStored},
		{"file:notes/todo.md", KindWorkspace},
		{"docs:runbook.md", KindBackend},
	}
	for _, tc := range cases {
		ref, err := ParseRef(tc.id)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.id, err)
		}
		if ref.Kind != tc.kind {
			t.Fatalf("parse %q: got kind %d want %d", tc.id, ref.Kind, tc.kind)
		}
		if ref.String() != tc.id {
			t.Fatalf("round trip %q: got %q", tc.id, ref.String())
		}
	}
}

func TestParseRefRejectsTraversal(t *testing.T) {
	for _, id := range []string{
		"file:../secrets.md",
		"file:notes/../../etc/passwd",
		"docs:../outside.md",
		"file:/etc/passwd",
		"file:",
	} {
		if _, err := ParseRef(id); err == nil {
			t.Fatalf("expected rejection for %q", id)
		}
	}
}

func TestParseRefRejectsGarbageID(t *testing.T) {
	if _, err := ParseRef("not-a-number"); err == nil {
		t.Fatalf("expected error for non-numeric id")
	}
}
