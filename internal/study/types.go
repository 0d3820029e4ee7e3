package study

// Kind names an artifact family. It doubles as the export file suffix.
type Kind string

const (
	KindSummary Kind = "summary"
	KindMCQ     Kind = "mcq_quiz"
	KindMixed   Kind = "mixed_quiz"
)

func (k Kind) Valid() bool {
	switch k {
	case KindSummary, KindMCQ, KindMixed:
		return true
	}
	return false
}

// Artifact is one generated, renderable result: Summary, MCQSet or MixedQuiz.
type Artifact interface {
	Kind() Kind
}

type Summary struct {
	Title             string            `json:"title"`
	MainSummary       string            `json:"main_summary"`
	StudyNotes        []string          `json:"study_notes"`
	ImportantConcepts map[string]string `json:"important_concepts"`
	KeyIdeas          []string          `json:"key_ideas"`
}

func (Summary) Kind() Kind { return KindSummary }

// MCQ option keys, in display order.
var OptionKeys = []string{"A", "B", "C", "D"}

type MCQItem struct {
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	CorrectAnswer string            `json:"correct_answer"`
}

type MCQSet []MCQItem

func (MCQSet) Kind() Kind { return KindMCQ }

type TrueFalseItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ShortAnswerItem struct {
	Question         string   `json:"question"`
	RequiredKeywords []string `json:"required_keywords"`
}

type MixedQuiz struct {
	MCQs         []MCQItem         `json:"mcqs"`
	TrueFalse    []TrueFalseItem   `json:"true_false"`
	ShortAnswers []ShortAnswerItem `json:"short_answers"`
}

func (MixedQuiz) Kind() Kind { return KindMixed }

// Len is the total number of questions across all three sections.
func (q MixedQuiz) Len() int { return len(q.MCQs) + len(q.TrueFalse) + len(q.ShortAnswers) }

const fallbackMainSummary = "Could not generate summary due to an error."

// FallbackSummary is returned when a summary could not be generated or parsed.
func FallbackSummary(docName string) Summary {
	return Summary{
		Title:             "Summary of " + docName + " (Error)",
		MainSummary:       fallbackMainSummary,
		StudyNotes:        []string{},
		ImportantConcepts: map[string]string{},
		KeyIdeas:          []string{},
	}
}

func FallbackMCQs() MCQSet { return MCQSet{} }

func FallbackMixedQuiz() MixedQuiz {
	return MixedQuiz{MCQs: []MCQItem{}, TrueFalse: []TrueFalseItem{}, ShortAnswers: []ShortAnswerItem{}}
}
