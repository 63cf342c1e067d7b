package interview

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// reportBlockPattern matches the first ```json fenced block, lazily up to the closing fence.
var reportBlockPattern = regexp.MustCompile("(?is)```json\\s*(.*?)```")

// ParseReport extracts the structured report from a model reply. It reports
// false when the reply has no json fenced block or the block is not a JSON
// object.
func ParseReport(text string) (*Report, bool) {
	match := reportBlockPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, false
	}

	report, err := DecodeReport([]byte(strings.TrimSpace(match[1])))
	if err != nil {
		return nil, false
	}
	return report, true
}

// DecodeReport decodes a report object leniently. The object must be valid
// JSON, but a field of the wrong shape is left at its zero value instead of
// failing the decode, and a numeric string is accepted for a score. The whole
// object is kept in Document.
func DecodeReport(data []byte) (*Report, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("report is not a JSON object: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("report is null")
	}

	report := &Report{Document: append(json.RawMessage(nil), data...)}
	report.OverallScore, _ = decodeScore(fields["overallScore"])
	_ = decodeField(fields["grade"], &report.Grade)
	_ = decodeField(fields["summary"], &report.Summary)
	_ = decodeField(fields["strengths"], &report.Strengths)
	_ = decodeField(fields["improvements"], &report.Improvements)
	_ = decodeField(fields["recommendation"], &report.Recommendation)

	var breakdown []map[string]json.RawMessage
	if decodeField(fields["breakdown"], &breakdown) == nil {
		for _, entry := range breakdown {
			var q QuestionScore
			if n, err := decodeScore(entry["questionNumber"]); err == nil {
				q.QuestionNumber = int(n)
			}
			q.Score, _ = decodeScore(entry["score"])
			_ = decodeField(entry["comment"], &q.Comment)
			report.Breakdown = append(report.Breakdown, q)
		}
	}
	return report, nil
}

func decodeField(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// decodeScore accepts a JSON number or a string holding one.
func decodeScore(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// lastInterviewerTurn returns the most recent interviewer text in history.
func lastInterviewerTurn(history []Turn) (string, bool) {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == SpeakerInterviewer {
			return history[i].Content, true
		}
	}
	return "", false
}
