package study_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thywilljoshua/studynotes/internal/study"
)

var sampleSummary = study.Summary{
	Title:             "Photosynthesis",
	MainSummary:       "Plants turn light into chemical energy.",
	StudyNotes:        []string{"Happens in chloroplasts", "Releases oxygen"},
	ImportantConcepts: map[string]string{"Chlorophyll": "Green pigment that absorbs light"},
	KeyIdeas:          []string{"Light reactions", "Calvin cycle"},
}

func TestExportFileName(t *testing.T) {
	cases := []struct {
		doc  string
		kind study.Kind
		want string
	}{
		{"notes.pdf", study.KindSummary, "notes.pdf_summary.json"},
		{"notes.pdf", study.KindMCQ, "notes.pdf_mcq_quiz.json"},
		{"notes.pdf", study.KindMixed, "notes.pdf_mixed_quiz.json"},
		{"/tmp/uploads/bio.pdf", study.KindSummary, "bio.pdf_summary.json"},
		{`C:\docs\bio.pdf`, study.KindMCQ, "bio.pdf_mcq_quiz.json"},
		{"", study.KindMixed, "uploaded_document_mixed_quiz.json"},
	}
	for _, tc := range cases {
		if got := study.ExportFileName(tc.doc, tc.kind); got != tc.want {
			t.Fatalf("ExportFileName(%q, %q): expected %q, got %q", tc.doc, tc.kind, tc.want, got)
		}
	}
}

func TestExport_IndentsTwoSpaces(t *testing.T) {
	b, err := study.Export(study.FallbackMixedQuiz())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "{\n  \"mcqs\": [],\n  \"true_false\": [],\n  \"short_answers\": []\n}"
	if string(b) != want {
		t.Fatalf("expected %q, got %q", want, b)
	}
}

func TestExport_RoundTrip(t *testing.T) {
	t.Run("summary", func(t *testing.T) {
		b, err := study.Export(sampleSummary)
		if err != nil {
			t.Fatalf("export: %v", err)
		}
		got, err := study.ParseSummary(string(b), "bio.pdf")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if diff := cmp.Diff(sampleSummary, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("fallback summary", func(t *testing.T) {
		want := study.FallbackSummary("bio.pdf")
		b, _ := study.Export(want)
		got, err := study.ParseSummary(string(b), "other.pdf")
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("mcq", func(t *testing.T) {
		b, _ := study.Export(photosynthesisSet)
		got, err := study.ParseMCQs(string(b))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if diff := cmp.Diff(photosynthesisSet, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
	t.Run("mixed", func(t *testing.T) {
		want, err := study.ParseMixedQuiz(mixedJSON)
		if err != nil {
			t.Fatalf("parse fixture: %v", err)
		}
		b, _ := study.Export(want)
		got, err := study.ParseMixedQuiz(string(b))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestWriteExport(t *testing.T) {
	dir := t.TempDir()
	path, err := study.WriteExport(filepath.Join(dir, "out"), "bio.pdf", photosynthesisSet)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(path) != "bio.pdf_mcq_quiz.json" {
		t.Fatalf("unexpected file name %q", path)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), `"correct_answer": "B"`) {
		t.Fatalf("unexpected contents:\n%s", b)
	}
}
