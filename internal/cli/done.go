package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Toggle a task's completion",
	Long: `Mark a task as completed, or reopen it if it already is.

Examples:
  studydesk done abc123
  studydesk done abc1      # id prefixes work too`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

func runDone(cmd *cobra.Command, args []string) error {
	s, _, _, _, err := openStore(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	task, ok := s.FindTaskByPrefix(args[0])
	if !ok {
		return fmt.Errorf("task not found: %s", args[0])
	}

	s.ToggleCompletion(task.ID)

	updated, _ := s.Task(task.ID)
	if updated.IsCompleted {
		fmt.Printf("✓ Completed: \"%s\"\n", updated.Title)
	} else {
		fmt.Printf("○ Reopened: \"%s\"\n", updated.Title)
	}

	return nil
}
