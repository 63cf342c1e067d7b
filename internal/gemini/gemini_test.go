package gemini

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eion/mock-interview/internal/interview"
)

func TestClientMissingAPIKey(t *testing.T) {
	client := NewClient(Config{Model: "gemini-2.5-flash"}, zap.NewNop())

	_, err := client.OpenChat(context.Background())
	require.Error(t, err)
	assert.Equal(t, interview.KindConfiguration, interview.KindOf(err))
	assert.Contains(t, interview.MessageOf(err), "GEMINI_API_KEY")
}

func TestMockChatFollowsProtocol(t *testing.T) {
	ctx := context.Background()
	chat, err := NewMockClient(zap.NewNop()).OpenChat(ctx)
	require.NoError(t, err)

	opening, err := chat.Send(ctx, interview.BuildOpeningPrompt("SRE", interview.DifficultyEasy, "Kubernetes", 2))
	require.NoError(t, err)
	assert.Contains(t, opening, "Question 1")
	assert.Contains(t, opening, "Kubernetes")

	reply, err := chat.Send(ctx, "Pods are the smallest deployable unit.")
	require.NoError(t, err)
	assert.Contains(t, reply, "Question 2")
	_, ok := interview.ParseReport(reply)
	assert.False(t, ok)

	final, err := chat.Send(ctx, "I would use a PodDisruptionBudget.")
	require.NoError(t, err)
	report, ok := interview.ParseReport(final)
	require.True(t, ok)
	assert.Equal(t, "B", report.Grade)
	assert.Len(t, report.Breakdown, 2)

	again, err := chat.Send(ctx, interview.ReportRequestMessage)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(again, "```json"))
}

func TestMockDrivesFullInterview(t *testing.T) {
	ctx := context.Background()
	svc := interview.NewService(interview.NewInMemoryStore(), NewMockClient(zap.NewNop()), zap.NewNop())

	started, err := svc.CreateSession(ctx, &interview.CreateSessionRequest{
		Role:         "Backend Engineer",
		Topic:        "Go",
		Difficulty:   interview.DifficultyMedium,
		MaxQuestions: 3,
	})
	require.NoError(t, err)

	var out *interview.SubmitAnswerResult
	for i := 0; i < 3; i++ {
		out, err = svc.SubmitAnswer(ctx, &interview.SubmitAnswerRequest{SessionID: started.SessionID, Answer: "goroutines and channels"})
		require.NoError(t, err)
	}
	assert.True(t, out.Completed)

	result, err := svc.GetReport(ctx, started.SessionID)
	require.NoError(t, err)
	assert.False(t, result.Report.IsRaw())
	assert.Len(t, result.Report.Breakdown, 3)
}
