package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/vocabsrs/internal/database"
	"github.com/example/vocabsrs/internal/excel"
	"github.com/example/vocabsrs/internal/learning"
	"github.com/example/vocabsrs/pkg/models"
)

func parseID(name, value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer, got %q", models.ErrInvalidArgument, name, value)
	}
	return id, nil
}

func newReviewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "review <user-id> <word-id> <know|dont_know>",
		Short: "Record one answer and show the updated review state",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID("user id", args[0])
			if err != nil {
				return err
			}
			wordID, err := parseID("word id", args[1])
			if err != nil {
				return err
			}
			action, err := models.ParseAction(args[2])
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := a.recorder().RecordInteraction(cmd.Context(), userID, wordID, action)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "status:              %s\n", rec.Status)
			fmt.Fprintf(out, "consecutive correct: %d\n", rec.ConsecutiveCorrect)
			fmt.Fprintf(out, "answers:             %d correct, %d incorrect\n", rec.TotalCorrect, rec.TotalIncorrect)
			fmt.Fprintf(out, "next review:         %s\n", rec.NextReviewAt.In(a.loc).Format(time.RFC3339))
			return nil
		},
	}
}

func newWeakWordsCommand() *cobra.Command {
	var (
		minAttempts  int
		minErrorRate float64
		limit        int
		exportPath   string
	)

	command := &cobra.Command{
		Use:   "weak-words <user-id>",
		Short: "List the words a user answers wrong most often",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID("user id", args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			analyzer := a.analyzer()
			words, err := analyzer.FindWeakWords(ctx, userID,
				learning.WithMinAttempts(minAttempts),
				learning.WithMinErrorRate(minErrorRate),
				learning.WithLimit(limit))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if exportPath == "" {
				if len(words) == 0 {
					fmt.Fprintln(out, "No weak words")
					return nil
				}
				w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "WORD\tERROR RATE\tATTEMPTS\tSTATUS")
				for _, word := range words {
					fmt.Fprintf(w, "%s\t%.0f%%\t%d\t%s\n", word.Text, word.ErrorRate*100, word.TotalAttempts, word.Status)
				}
				return w.Flush()
			}

			user, err := database.NewUserRepository(a.db).GetByID(ctx, userID)
			if err != nil {
				return err
			}
			summary, err := analyzer.MasterySummary(ctx, userID)
			if err != nil {
				return err
			}
			result, err := excel.ExportReport(excel.ExportConfig{FilePath: exportPath, Location: a.loc}, excel.Report{
				UserName:    user.Name,
				GeneratedAt: time.Now(),
				Summary:     summary,
				WeakWords:   words,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Exported %d weak words to %s\n", result.Rows, result.FilePath)
			return nil
		},
	}

	flags := command.Flags()
	flags.IntVar(&minAttempts, "min-attempts", learning.DefaultMinAttempts, "minimum number of answers")
	flags.Float64Var(&minErrorRate, "min-error-rate", learning.DefaultMinErrorRate, "error rate a word must exceed")
	flags.IntVar(&limit, "limit", learning.DefaultWeakLimit, "maximum number of words")
	flags.StringVar(&exportPath, "export", "", "write the list to an .xlsx or .csv file")
	return command
}

func newRemindCommand() *cobra.Command {
	var (
		userID int64
		weekly bool
	)

	command := &cobra.Command{
		Use:   "remind",
		Short: "Send a daily reminder or run the weekly report sweep now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (userID > 0) == weekly {
				return fmt.Errorf("%w: pass either --user or --weekly", models.ErrInvalidArgument)
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			sched, err := a.scheduler(cmd.Context())
			if err != nil {
				return err
			}
			if weekly {
				return sched.RunWeeklyReportsNow(cmd.Context())
			}
			return sched.RunUserReminderNow(cmd.Context(), userID)
		},
	}

	flags := command.Flags()
	flags.Int64Var(&userID, "user", 0, "send the daily reminder of this user")
	flags.BoolVar(&weekly, "weekly", false, "send the weekly report to every subscribed user")
	return command
}

func newActivatePlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "activate-plan <user-id> <plan-id>",
		Short: "Make a plan the user's only active plan",
		Long: "Make a plan the user's only active plan. A running server picks up the " +
			"new plan reminder on its next reload.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID("user id", args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			plans := database.NewPlanRepository(a.db)
			if err := plans.Activate(cmd.Context(), userID, args[1]); err != nil {
				return err
			}
			plan, err := plans.GetByID(cmd.Context(), userID, args[1])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Plan %q is now active", plan.Name)
			if plan.ReminderEnabled {
				fmt.Fprintf(cmd.OutOrStdout(), ", reminder at %s", plan.ReminderTime)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

func newDeletePlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete-plan <user-id> <plan-id>",
		Short: "Delete a study plan",
		Long: "Delete a study plan. A running server drops its reminder on the next reload " +
			"and skips it if the reminder fires before that.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := parseID("user id", args[0])
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := database.NewPlanRepository(a.db).Delete(cmd.Context(), userID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plan %s deleted\n", args[1])
			return nil
		},
	}
}
