package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/eion/mock-interview/internal/client"
	"github.com/eion/mock-interview/internal/interview"
)

type clientFactory func() *client.Client

type startFlags struct {
	role         string
	topic        string
	difficulty   string
	maxQuestions int
}

func (f *startFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.role, "role", "", "Role being interviewed for (required)")
	cmd.Flags().StringVar(&f.topic, "topic", "", "Topic or technology (required)")
	cmd.Flags().StringVar(&f.difficulty, "difficulty", "", "easy | medium | hard (server default: medium)")
	cmd.Flags().IntVar(&f.maxQuestions, "questions", 0, "Number of questions (server default when 0)")
	_ = cmd.MarkFlagRequired("role")
	_ = cmd.MarkFlagRequired("topic")
}

func (f *startFlags) request() client.StartRequest {
	return client.StartRequest{
		Role:         f.role,
		Topic:        f.topic,
		Difficulty:   f.difficulty,
		MaxQuestions: f.maxQuestions,
	}
}

func newStartCmd(newClient clientFactory) *cobra.Command {
	flags := &startFlags{}
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start a new interview and print the first question",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newClient().Start(cmd.Context(), flags.request())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Session: %s\n", out.SessionID)
			fmt.Fprintf(w, "[Question %d/%d]\n%s\n", out.QuestionNumber, out.TotalQuestions, out.Message)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newAnswerCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "answer <session-id> <answer...>",
		Short: "Submit an answer to the current question",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newClient().Answer(cmd.Context(), args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			printAnswer(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newSessionCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "session <session-id>",
		Short: "Show a session transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newClient().Session(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s | %s | %s | %s | question %d/%d\n",
				s.SessionID, s.Role, s.Topic, s.Status, s.QuestionCount, s.MaxQuestions)
			for _, turn := range s.History {
				fmt.Fprintf(w, "\n%s:\n%s\n", turn.Role, turn.Content)
			}
			return nil
		},
	}
}

func newReportCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "report <session-id>",
		Short: "Print the final report of a completed interview",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return printReport(cmd, newClient(), args[0])
		},
	}
}

func newDeleteCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <session-id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := newClient().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newListCmd(newClient clientFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := newClient().List(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out.Count == 0 {
				fmt.Fprintln(w, "No sessions.")
				return nil
			}
			for _, s := range out.Sessions {
				fmt.Fprintf(w, "  %-36s  %-9s  %d/%d  %s (%s)\n",
					s.SessionID, s.Status, s.QuestionCount, s.MaxQuestions, s.Role, s.Topic)
			}
			fmt.Fprintf(w, "\n%d session(s)\n", out.Count)
			return nil
		},
	}
}

// newPracticeCmd runs a whole interview: one answer per input line, then the report.
func newPracticeCmd(newClient clientFactory) *cobra.Command {
	flags := &startFlags{}
	cmd := &cobra.Command{
		Use:   "practice",
		Short: "Run an interactive interview, reading one answer per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			w := cmd.OutOrStdout()
			interactive := isTerminal(cmd.InOrStdin())

			started, err := c.Start(cmd.Context(), flags.request())
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "[Question %d/%d]\n%s\n", started.QuestionNumber, started.TotalQuestions, started.Message)

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				if interactive {
					fmt.Fprint(w, "\n> ")
				}
				if !scanner.Scan() {
					if err := scanner.Err(); err != nil {
						return fmt.Errorf("reading answer: %w", err)
					}
					fmt.Fprintf(w, "\nInput closed. Resume with: interview-cli answer %s <answer>\n", started.SessionID)
					return nil
				}

				answer := strings.TrimSpace(scanner.Text())
				if answer == "" {
					continue
				}

				out, err := c.Answer(cmd.Context(), started.SessionID, answer)
				if err != nil {
					return err
				}
				printAnswer(w, out)
				if out.Completed {
					break
				}
			}

			fmt.Fprintln(w)
			return printReport(cmd, c, started.SessionID)
		},
	}
	flags.register(cmd)
	return cmd
}

func printAnswer(w io.Writer, out *client.AnswerResponse) {
	if out.Completed {
		fmt.Fprintf(w, "\n%s\n\nInterview complete.\n", out.Message)
		return
	}
	fmt.Fprintf(w, "\n[Question %d/%d]\n%s\n", out.QuestionNumber, out.TotalQuestions, out.Message)
}

func printReport(cmd *cobra.Command, c *client.Client, sessionID string) error {
	out, err := c.Report(cmd.Context(), sessionID)
	if err != nil {
		return err
	}
	report, err := out.Parsed()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Report for %s (%s, %s, %d questions)\n", out.Role, out.Topic, out.Difficulty, out.TotalQuestions)
	if report.IsRaw() {
		fmt.Fprintf(w, "\n%s\n", report.Raw)
		return nil
	}
	writeReport(w, report)
	return nil
}

func writeReport(w io.Writer, r *interview.Report) {
	fmt.Fprintf(w, "\nScore: %g  Grade: %s  Recommendation: %s\n", r.OverallScore, r.Grade, r.Recommendation)
	if r.Summary != "" {
		fmt.Fprintf(w, "\n%s\n", r.Summary)
	}
	writeList(w, "Strengths", r.Strengths)
	writeList(w, "Improvements", r.Improvements)
	if len(r.Breakdown) > 0 {
		fmt.Fprintln(w, "\nBreakdown:")
		for _, q := range r.Breakdown {
			fmt.Fprintf(w, "  Q%d  %g  %s\n", q.QuestionNumber, q.Score, q.Comment)
		}
	}
}

func writeList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
