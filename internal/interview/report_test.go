package interview

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReport(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		ok    bool
		grade string
	}{
		{name: "fenced report with prose", text: fencedReport, ok: true, grade: "B-"},
		{name: "uppercase fence tag", text: "```JSON\n{\"grade\":\"A\"}\n```", ok: true, grade: "A"},
		{name: "first block wins", text: "```json\n{\"grade\":\"C\"}\n```\n```json\n{\"grade\":\"A\"}\n```", ok: true, grade: "C"},
		{name: "no fence", text: `{"grade":"A"}`},
		{name: "untagged fence", text: "```\n{\"grade\":\"A\"}\n```"},
		{name: "malformed json", text: "```json\n{\"grade\": \n```"},
		{name: "array body", text: "```json\n[1,2,3]\n```"},
		{name: "unterminated fence", text: "```json\n{\"grade\":\"A\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, ok := ParseReport(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				require.NotNil(t, report)
				assert.Equal(t, tt.grade, report.Grade)
			} else {
				assert.Nil(t, report)
			}
		})
	}
}

func TestParseReportLenientFields(t *testing.T) {
	text := "Final report:\n```json\n" + `{
  "overallScore": "85",
  "grade": "B+",
  "strengths": "communication",
  "recommendation": "Hire",
  "breakdown": [{"questionNumber": "1", "score": 8.5, "comment": "Good"}],
  "seniority": "mid"
}` + "\n```"

	report, ok := ParseReport(text)
	require.True(t, ok)
	assert.Equal(t, 85.0, report.OverallScore)
	assert.Equal(t, "B+", report.Grade)
	assert.Nil(t, report.Strengths)
	assert.Equal(t, "Hire", report.Recommendation)
	assert.Equal(t, []QuestionScore{{QuestionNumber: 1, Score: 8.5, Comment: "Good"}}, report.Breakdown)

	encoded, err := json.Marshal(report)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(encoded, &out))
	assert.Equal(t, "mid", out["seniority"])
	assert.Equal(t, "85", out["overallScore"])
	assert.Equal(t, "communication", out["strengths"])
}

func TestDecodeReportRejectsNonObjects(t *testing.T) {
	for _, body := range []string{`null`, `"text"`, `[{"grade":"A"}]`, `{"grade":`} {
		_, err := DecodeReport([]byte(body))
		assert.Error(t, err, body)
	}
}

func TestReportMarshalJSON(t *testing.T) {
	raw, err := json.Marshal(&Report{Raw: "free text"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"raw":"free text"}`, string(raw))

	structured, err := json.Marshal(&Report{Grade: "A", Strengths: []string{"x"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"overallScore": 0,
		"grade": "A",
		"summary": "",
		"strengths": ["x"],
		"improvements": null,
		"recommendation": "",
		"breakdown": null
	}`, string(structured))
}

func TestLastInterviewerTurn(t *testing.T) {
	_, ok := lastInterviewerTurn(nil)
	assert.False(t, ok)

	last, ok := lastInterviewerTurn([]Turn{
		{Role: SpeakerInterviewer, Content: "Q1"},
		{Role: SpeakerCandidate, Content: "A1"},
		{Role: SpeakerInterviewer, Content: "Q2"},
		{Role: SpeakerCandidate, Content: "A2"},
	})
	assert.True(t, ok)
	assert.Equal(t, "Q2", last)
}
