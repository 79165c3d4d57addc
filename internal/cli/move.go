package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trihoang/studydesk/internal/model"
)

var moveCmd = &cobra.Command{
	Use:   "move [task-id] [status]",
	Short: "Move a task to a board column",
	Long: `Set a task's status, as a board-column move would.

Valid statuses: todo, in_progress, review, done.

Examples:
  studydesk move abc123 in_progress
  studydesk move abc1 review`,
	Args: cobra.ExactArgs(2),
	RunE: runMove,
}

func runMove(cmd *cobra.Command, args []string) error {
	status := model.Status(args[1])
	valid := false
	for _, st := range model.Statuses {
		if st == status {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid status %q (todo, in_progress, review, done)", args[1])
	}

	s, _, _, _, err := openStore(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	task, ok := s.FindTaskByPrefix(args[0])
	if !ok {
		return fmt.Errorf("task not found: %s", args[0])
	}

	s.ChangeStatus(task.ID, status)
	fmt.Printf("→ Moved \"%s\" to %s\n", task.Title, statusLabel(status))
	return nil
}
