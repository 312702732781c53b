package cli

import (
	"github.com/spf13/cobra"

	"github.com/mcoot/fluency-harness/internal/api/request"
	"github.com/mcoot/fluency-harness/internal/api/response"
)

func newStudentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "students",
		Short: "List students visible to the logged-in instructor",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.StudentsResponse

			if err := client.Get("/instructor/students", &result); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newResultsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "results",
		Short: "List question set results visible to the logged-in instructor",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.ResultsResponse

			if err := client.Get("/instructor/students/results", &result); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStudentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student",
		Short: "Roster management commands",
	}

	cmd.AddCommand(newStudentCreateCmd())

	return cmd
}

func newStudentCreateCmd() *cobra.Command {
	var req request.CreateStudentRequest

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a student to the logged-in instructor's roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.CreateStudentResponse

			if err := client.Post("/instructor/student", req, &result); err != nil {
				return err
			}

			out := NewOutput(cmd.OutOrStdout(), cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.LoginID, "login", "", "Login ID (required)")
	cmd.Flags().StringVar(&req.Password, "pass", "", "Password (required)")
	cmd.Flags().StringVar(&req.RosterID, "roster", "", "Roster ID")
	cmd.Flags().StringVar(&req.FirstName, "first", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last", "", "Last name")
	cmd.Flags().StringVar(&req.Condition, "condition", "", "Experimental condition")
	_ = cmd.MarkFlagRequired("login")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}
