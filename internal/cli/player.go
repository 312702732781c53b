package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/fluency-harness/internal/api/request"
	"github.com/mcoot/fluency-harness/internal/api/response"
)

func newPlayerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "player",
		Short: "Show the logged-in student's progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.PlayerResponse

			if err := client.Get("/api/player", &result); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newOutcomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outcome",
		Short: "Question set outcome commands",
	}

	cmd.AddCommand(newOutcomeRecordCmd())

	return cmd
}

func newOutcomeRecordCmd() *cobra.Command {
	var req request.RecordOutcomeRequest

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a completed question set for the logged-in student",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.OutcomeResponse

			if err := client.Post("/api/outcomes", req, &result); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.StageID, "stage", "", "Stage ID (required)")
	cmd.Flags().StringVar(&req.QuestionSetID, "question-set", "", "Question set ID")
	cmd.Flags().IntVar(&req.Score, "score", 0, "Score")
	cmd.Flags().StringVar(&req.Medal, "medal", "", "Medal earned")
	cmd.Flags().Int64Var(&req.ElapsedMS, "elapsed-ms", 0, "Time taken in milliseconds")
	_ = cmd.MarkFlagRequired("stage")

	return cmd
}
