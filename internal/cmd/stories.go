package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var storiesCmd = &cobra.Command{
	Use:   "stories",
	Short: "Inspect persisted stories",
}

var storiesListCmd = &cobra.Command{
	Use:   "list <email>",
	Short: "List stories generated for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email := strings.TrimSpace(args[0])
		if email == "" {
			return errors.New("email is required")
		}
		limit, _ := cmd.Flags().GetInt("limit")

		ctx := cmd.Context()
		db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup; errors logged internally

		records, err := db.ListStoriesByUser(ctx, email, limit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "no stories found")
			return nil
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"ID", "Title", "Type", "Created"})
		for _, rec := range records {
			t.AppendRow(table.Row{
				rec.ID,
				rec.Title,
				rec.ContentType,
				rec.CreatedAt.Format("2006-01-02 15:04"),
			})
		}
		t.Render()
		return nil
	},
}

var storiesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a stored story as plain text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := strings.TrimSpace(args[0])
		if id == "" {
			return errors.New("story id is required")
		}

		ctx := cmd.Context()
		db, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup; errors logged internally

		rec, err := db.GetStory(ctx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return fmt.Errorf("story %q not found", id)
		}

		fmt.Fprintln(cmd.OutOrStdout(), rec.Title)
		fmt.Fprintln(cmd.OutOrStdout(), strings.Repeat("=", len(rec.Title)))
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), rec.Content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(storiesCmd)
	storiesCmd.AddCommand(storiesListCmd)
	storiesCmd.AddCommand(storiesShowCmd)

	storiesListCmd.Flags().Int("limit", 20, "Maximum number of stories to list")
}
