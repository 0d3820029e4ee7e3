package study

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Render writes a as Markdown, using the same placeholders as the web UI.
func Render(w io.Writer, a Artifact) error {
	var b strings.Builder
	switch v := a.(type) {
	case Summary:
		renderSummary(&b, v)
	case MCQSet:
		b.WriteString("## MCQ Quiz\n\n")
		if len(v) == 0 {
			b.WriteString("No questions generated.\n")
		}
		renderMCQs(&b, v)
	case MixedQuiz:
		renderMixed(&b, v)
	default:
		return fmt.Errorf("render: unsupported artifact %T", a)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderSummary(b *strings.Builder, s Summary) {
	title := s.Title
	if title == "" {
		title = "No Title"
	}
	main := s.MainSummary
	if main == "" {
		main = "No main summary available."
	}
	fmt.Fprintf(b, "### %s\n\n%s\n\n", title, main)

	if len(s.StudyNotes) > 0 {
		b.WriteString("#### Point-wise Study Notes:\n")
		for _, n := range s.StudyNotes {
			fmt.Fprintf(b, "- %s\n", n)
		}
		b.WriteString("\n")
	}
	if len(s.ImportantConcepts) > 0 {
		b.WriteString("#### Important Concepts:\n")
		concepts := make([]string, 0, len(s.ImportantConcepts))
		for c := range s.ImportantConcepts {
			concepts = append(concepts, c)
		}
		sort.Strings(concepts)
		for _, c := range concepts {
			fmt.Fprintf(b, "**%s**: %s\n", c, s.ImportantConcepts[c])
		}
		b.WriteString("\n")
	}
	if len(s.KeyIdeas) > 0 {
		b.WriteString("#### Key Ideas:\n")
		for _, idea := range s.KeyIdeas {
			fmt.Fprintf(b, "- %s\n", idea)
		}
		b.WriteString("\n")
	}
}

func renderMCQs(b *strings.Builder, qs []MCQItem) {
	for i, q := range qs {
		fmt.Fprintf(b, "**Q%d:** %s\n", i+1, q.Question)
		for _, k := range OptionKeys {
			if v, ok := q.Options[k]; ok {
				fmt.Fprintf(b, "**%s.** %s\n", k, v)
			}
		}
		fmt.Fprintf(b, "**Correct Answer:** %s\n\n---\n\n", q.CorrectAnswer)
	}
}

func renderMixed(b *strings.Builder, q MixedQuiz) {
	b.WriteString("## Mixed Format Quiz\n\n")
	if q.Len() == 0 {
		b.WriteString("No questions generated.\n")
		return
	}
	if len(q.MCQs) > 0 {
		b.WriteString("#### Multiple Choice Questions:\n")
		renderMCQs(b, q.MCQs)
	}
	if len(q.TrueFalse) > 0 {
		b.WriteString("#### True/False Questions:\n")
		for i, tf := range q.TrueFalse {
			fmt.Fprintf(b, "**Q%d:** %s\n**Answer:** %s\n\n---\n\n", i+1, tf.Question, tf.Answer)
		}
	}
	if len(q.ShortAnswers) > 0 {
		b.WriteString("#### Short Answer Questions:\n")
		for i, sa := range q.ShortAnswers {
			fmt.Fprintf(b, "**Q%d:** %s\n**Required Keywords:** %s\n\n---\n\n", i+1, sa.Question, strings.Join(sa.RequiredKeywords, ", "))
		}
	}
}
