package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Delete a task by its ID.

Examples:
  studydesk delete abc123
  studydesk rm abc1`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	s, _, _, cfg, err := openStore(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	task, ok := s.FindTaskByPrefix(args[0])
	if !ok {
		return fmt.Errorf("task not found: %s", args[0])
	}

	if cfg.ConfirmDelete {
		fmt.Printf("About to delete: \"%s\" (ID: %s)\n", task.Title, shortID(task.ID))
		fmt.Print("Are you sure? [y/N]: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	s.DeleteTask(task.ID)
	fmt.Printf("🗑  Deleted: \"%s\"\n", task.Title)
	return nil
}
