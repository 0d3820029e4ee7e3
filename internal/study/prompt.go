package study

import (
	"fmt"
	"strings"
)

const summarySkeleton = `{
  "title": "A concise title for the document",
  "main_summary": "An overview of the document",
  "study_notes": ["Point-wise study note", "Another study note"],
  "important_concepts": {"Concept": "Definition of the concept"},
  "key_ideas": ["Key idea", "Another key idea"]
}`

const mcqSkeleton = `{
  "question": "The question text",
  "options": {
    "A": "Option A text",
    "B": "Option B text",
    "C": "Option C text",
    "D": "Option D text"
  },
  "correct_answer": "B"
}`

const trueFalseSkeleton = `{
  "question": "The statement to be judged True or False",
  "answer": "True"
}`

const shortAnswerSkeleton = `{
  "question": "The short answer question",
  "required_keywords": ["keyword1", "keyword2"]
}`

// BuildPrompt renders the instruction sent to the model for req. content is
// embedded verbatim; callers that want a shorter document must cut it themselves.
func BuildPrompt(req Request, content string) string {
	var b strings.Builder
	switch r := req.(type) {
	case SummaryRequest:
		b.WriteString("You are an expert summarizer. Analyze the provided document content and generate a structured summary in JSON format.\n")
		b.WriteString("The summary must include:\n")
		b.WriteString("1. A concise \"title\" for the document.\n")
		b.WriteString("2. A \"main_summary\" that provides an overview.\n")
		b.WriteString("3. \"study_notes\" as a list of bullet points.\n")
		b.WriteString("4. \"important_concepts\" as an object whose keys are concepts and whose values are their definitions.\n")
		b.WriteString("5. \"key_ideas\" as a list of bullet points.\n\n")
		b.WriteString("The output must be a single JSON object with exactly this structure:\n")
		b.WriteString(summarySkeleton)
		b.WriteString("\n\nEnsure the output is a valid JSON object.\n\n")
		fmt.Fprintf(&b, "Document Name: %s\n", r.DocumentName)
		writeContent(&b, content)
		b.WriteString("JSON Summary:")

	case MCQRequest:
		b.WriteString("You are an expert in creating multiple-choice questions (MCQs) from text.\n")
		fmt.Fprintf(&b, "Generate %d MCQs based on the following document content.\n", r.Count)
		b.WriteString("Each question must have 4 options (A, B, C, D) and a single correct answer.\n")
		b.WriteString("The output must be a JSON array of objects, where each object represents one MCQ with this structure:\n")
		b.WriteString(mcqSkeleton)
		b.WriteString("\n\"correct_answer\" must be one of \"A\", \"B\", \"C\" or \"D\".\n\n")
		b.WriteString("Ensure the output is a valid JSON array.\n\n")
		writeContent(&b, content)
		b.WriteString("JSON MCQs:")

	case MixedQuizRequest:
		b.WriteString("You are an expert in creating diverse quizzes from text.\n")
		b.WriteString("Generate a mixed quiz consisting of:\n")
		fmt.Fprintf(&b, "- %d Multiple-Choice Questions (MCQ)\n", r.MCQ)
		fmt.Fprintf(&b, "- %d True/False questions\n", r.TrueFalse)
		fmt.Fprintf(&b, "- %d Short-Answer questions\n\n", r.ShortAnswer)
		b.WriteString("All questions must be based on the provided document content.\n")
		b.WriteString("The output must be a single JSON object with three keys: \"mcqs\", \"true_false\" and \"short_answers\", each holding an array.\n\n")
		b.WriteString("MCQ format (inside the \"mcqs\" array):\n")
		b.WriteString(mcqSkeleton)
		b.WriteString("\n\nTrue/False format (inside the \"true_false\" array), \"answer\" is \"True\" or \"False\":\n")
		b.WriteString(trueFalseSkeleton)
		b.WriteString("\n\nShort Answer format (inside the \"short_answers\" array), listing keywords a correct answer should contain:\n")
		b.WriteString(shortAnswerSkeleton)
		b.WriteString("\n\nEnsure the entire output is a single, valid JSON object.\n\n")
		writeContent(&b, content)
		b.WriteString("JSON Mixed Quiz:")
	}
	return b.String()
}

func writeContent(b *strings.Builder, content string) {
	b.WriteString("Document Content:\n")
	b.WriteString(content)
	b.WriteString("\n\n")
}
