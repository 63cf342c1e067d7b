package interview

import (
	"fmt"
	"strings"
)

// ReportRequestMessage is sent when the final interviewer turn carried no parseable report.
const ReportRequestMessage = "Please now provide the final interview report in the exact JSON format specified earlier."

const reportSchemaExample = "```json\n" + `{
  "overallScore": 85,
  "grade": "B+",
  "summary": "The candidate demonstrated solid understanding of...",
  "strengths": ["Good knowledge of X", "Clear communication"],
  "improvements": ["Needs to elaborate on Y", "Missed key concept Z"],
  "recommendation": "Hire | Consider | Reject",
  "breakdown": [
    { "questionNumber": 1, "score": 8, "comment": "Good answer but missed..." },
    { "questionNumber": 2, "score": 9, "comment": "Excellent, well-structured" }
  ]
}` + "\n```"

// BuildOpeningPrompt builds the instruction text that puts the model in the
// interviewer role. It is sent as the first message of the chat.
func BuildOpeningPrompt(role string, difficulty Difficulty, topic string, maxQuestions int) string {
	var b strings.Builder

	b.WriteString("You are an experienced, professional technical interviewer conducting a mock job interview.\n\n")

	b.WriteString("Interview Details:\n")
	fmt.Fprintf(&b, "- Role: %s\n", role)
	fmt.Fprintf(&b, "- Topic/Technology: %s\n", topic)
	fmt.Fprintf(&b, "- Difficulty: %s\n", difficulty)
	fmt.Fprintf(&b, "- Total Questions: %d\n\n", maxQuestions)

	b.WriteString("Your Behavior Rules:\n")
	b.WriteString("1. You ALWAYS stay in character as the interviewer. Never break character.\n")
	b.WriteString("2. Ask one question at a time. Wait for the candidate's answer before continuing.\n")
	b.WriteString("3. After each answer, give brief, honest feedback (2-3 sentences): what was good, what was missing.\n")
	b.WriteString("4. Then immediately ask the next question.\n")
	b.WriteString("5. Your questions should be realistic, relevant to the role and topic, and progressively slightly harder.\n")
	b.WriteString("6. Be professional but conversational, like a real interviewer, not a robot.\n")
	b.WriteString("7. If the candidate gives a vague or wrong answer, politely point it out.\n")
	fmt.Fprintf(&b, "8. After all %d questions are answered, produce a FINAL REPORT in this exact JSON format inside a markdown code block:\n\n", maxQuestions)
	b.WriteString(reportSchemaExample)
	b.WriteString("\n\n")

	b.WriteString("Start the interview by greeting the candidate warmly, introducing yourself briefly, and asking the FIRST question.")

	return b.String()
}
