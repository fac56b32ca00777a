package corpus

import (
	"reflect"
	"testing"

	"github.com/ishaandev07/WebDevDynamics/internal/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Hello World", "hello world"},
		{"strips punctuation", "can't log-in!", "cant login"},
		{"collapses whitespace", "  a \t b\n c  ", "a b c"},
		{"keeps digits and underscore", "ticket_4579 ok", "ticket_4579 ok"},
		{"only punctuation", "?!...", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTokens(t *testing.T) {
	got := Tokens("Can't log in!")
	want := []string{"cant", "log", "in"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens: got %v, want %v", got, want)
	}
	if Tokens("   ") != nil {
		t.Error("Tokens of blank string should be nil")
	}
}

func TestStore_AddRecords_SkipsMalformed(t *testing.T) {
	s := NewStore()
	added := s.AddRecords([]models.RecordInput{
		{Query: "how do I reset my password", Response: "Use the forgot password link."},
		{Query: "   ", Response: "dropped"},
		{Query: "dropped", Response: ""},
		{Query: " trimmed ", Response: " kept "},
	}, models.SourceInternal)
	if added != 2 {
		t.Errorf("added: got %d, want 2", added)
	}
	recs := s.All()
	if len(recs) != 2 {
		t.Fatalf("stored: got %d, want 2", len(recs))
	}
	if recs[1].Query != "trimmed" || recs[1].Response != "kept" {
		t.Errorf("expected trimmed fields, got %+v", recs[1])
	}
	if recs[0].Source != models.SourceInternal {
		t.Errorf("source: got %q", recs[0].Source)
	}
}

func TestStore_AllowsDuplicateQueries(t *testing.T) {
	s := NewStore()
	s.AddRecords([]models.RecordInput{{Query: "payment failed", Response: "a"}}, models.SourceInternal)
	s.AddRecords([]models.RecordInput{{Query: "payment failed", Response: "b"}}, models.SourceExternal)
	recs := s.All()
	if len(recs) != 2 {
		t.Fatalf("expected both duplicate queries retrievable, got %d", len(recs))
	}
	if recs[0].Response != "a" || recs[1].Response != "b" {
		t.Errorf("insertion order not preserved: %+v", recs)
	}
}

func TestStore_VersionAndSnapshot(t *testing.T) {
	s := NewStore()
	if s.Version() != 0 {
		t.Errorf("fresh store version: got %d", s.Version())
	}
	s.AddRecords([]models.RecordInput{{Query: "q", Response: "r"}}, models.SourceInternal)
	recs, ver := s.Snapshot()
	if ver != 1 || len(recs) != 1 {
		t.Fatalf("snapshot: got version %d len %d", ver, len(recs))
	}

	// The snapshot must not observe later appends.
	s.AddRecords([]models.RecordInput{{Query: "q2", Response: "r2"}}, models.SourceInternal)
	if len(recs) != 1 {
		t.Error("snapshot mutated by later append")
	}
	if s.Version() != 2 {
		t.Errorf("version after second add: got %d, want 2", s.Version())
	}

	// Rejected batches do not bump the version.
	s.AddRecords([]models.RecordInput{{Query: "", Response: ""}}, models.SourceInternal)
	if s.Version() != 2 {
		t.Errorf("version bumped by empty batch: got %d", s.Version())
	}
}
