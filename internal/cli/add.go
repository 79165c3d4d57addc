package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/trihoang/studydesk/internal/model"
	"github.com/trihoang/studydesk/internal/store"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task to a list.

Examples:
  studydesk add "Buy groceries"
  studydesk add "Finish essay draft" -p 2 -d 2026-09-05
  studydesk add "Book flights" --list projects`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addList     string
	addPriority int
	addDue      string
	addDesc     string
)

func init() {
	addCmd.Flags().StringVarP(&addList, "list", "l", "inbox", "List to add the task to")
	addCmd.Flags().IntVarP(&addPriority, "priority", "p", 4, "Priority (1=urgent, 4=low)")
	addCmd.Flags().StringVarP(&addDue, "due", "d", "", "Due date (YYYY-MM-DD, 'today' or 'tomorrow')")
	addCmd.Flags().StringVar(&addDesc, "desc", "", "Task description")
}

func runAdd(cmd *cobra.Command, args []string) error {
	s, _, _, _, err := openStore(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	title := strings.Join(args, " ")

	// Validate priority
	if addPriority < model.PriorityUrgent || addPriority > model.PriorityLow {
		addPriority = model.PriorityLow
	}

	dueDate, err := parseDueDate(addDue)
	if err != nil {
		return err
	}

	if _, ok := s.List(addList); !ok {
		return fmt.Errorf("list not found: %s", addList)
	}

	task := s.CreateTask(store.CreateTaskParams{
		ListID:      addList,
		Title:       title,
		Description: addDesc,
		Priority:    addPriority,
		DueDate:     dueDate,
	})

	fmt.Printf("✓ Added to [%s]: \"%s\" (P%d)\n", addList, task.Title, task.Priority)
	return nil
}

// parseDueDate accepts YYYY-MM-DD plus the 'today'/'tomorrow' shorthands
func parseDueDate(raw string) (string, error) {
	switch raw {
	case "":
		return "", nil
	case "today":
		return time.Now().Format(model.DueDateLayout), nil
	case "tomorrow":
		return time.Now().AddDate(0, 0, 1).Format(model.DueDateLayout), nil
	}
	if _, err := time.Parse(model.DueDateLayout, raw); err != nil {
		return "", fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", raw)
	}
	return raw, nil
}
