package interview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildOpeningPrompt(t *testing.T) {
	prompt := BuildOpeningPrompt("Frontend Developer", DifficultyEasy, "React", 7)

	assert.Contains(t, prompt, "- Role: Frontend Developer\n")
	assert.Contains(t, prompt, "- Topic/Technology: React\n")
	assert.Contains(t, prompt, "- Difficulty: easy\n")
	assert.Contains(t, prompt, "- Total Questions: 7\n")
	assert.Contains(t, prompt, "After all 7 questions are answered")
	assert.Contains(t, prompt, "Ask one question at a time")
	assert.Contains(t, prompt, `"recommendation": "Hire | Consider | Reject"`)

	// The embedded schema example must itself be a parseable report block.
	report, ok := ParseReport(prompt)
	assert.True(t, ok)
	assert.Equal(t, "B+", report.Grade)
	assert.Len(t, report.Breakdown, 2)
}
