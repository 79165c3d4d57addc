package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/trihoang/studydesk/internal/model"
	"github.com/trihoang/studydesk/internal/prefs"
	"github.com/trihoang/studydesk/internal/store"
)

var listCmd = &cobra.Command{
	Use:     "list [list-id]",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks for a concrete list or one of the virtual lists
(today, upcoming, completed).

Examples:
  studydesk list              # everything, grouped by list
  studydesk list today
  studydesk list upcoming
  studydesk list inbox --board`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var listBoard bool

func init() {
	listCmd.Flags().BoolVarP(&listBoard, "board", "b", false, "Group tasks by board column")
}

func runList(cmd *cobra.Command, args []string) error {
	s, _, session, _, err := openStore(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	if len(args) == 1 {
		listID := args[0]
		if listBoard {
			printBoard(s, listID)
			return nil
		}
		tasks := s.TasksForList(listID)
		printTasks(listTitle(s, listID), tasks)
		return nil
	}

	// No list given: show every visible list
	hidden := hiddenSet(session.UserID)
	for _, l := range s.Lists() {
		if hidden[l.ID] {
			continue
		}
		tasks := s.TasksForList(l.ID)
		if len(tasks) == 0 {
			continue
		}
		printTasks(l.Name, tasks)
	}
	return nil
}

// hiddenSet loads the device-local hidden list ids; failures mean nothing is hidden
func hiddenSet(ownerID string) map[string]bool {
	db, err := prefs.OpenDefault()
	if err != nil {
		return nil
	}
	defer db.Close()

	ids, err := db.HiddenLists(ownerID)
	if err != nil {
		return nil
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func listTitle(s *store.Store, listID string) string {
	switch listID {
	case model.VirtualListToday:
		return "Today"
	case model.VirtualListUpcoming:
		return "Upcoming"
	case model.VirtualListCompleted:
		return "Completed"
	}
	if l, ok := s.List(listID); ok {
		return l.Name
	}
	return listID
}

func printTasks(title string, tasks []model.Task) {
	pending := 0
	for _, t := range tasks {
		if !t.IsCompleted {
			pending++
		}
	}

	fmt.Printf("\n📁 %s (%d pending)\n", title, pending)
	fmt.Println(strings.Repeat("─", 60))

	if len(tasks) == 0 {
		fmt.Println("  No tasks.")
		return
	}
	for i, t := range tasks {
		printTask(i+1, t)
	}
}

func printBoard(s *store.Store, listID string) {
	byStatus := s.TasksByStatus(listID)

	fmt.Printf("\n📋 %s\n", listTitle(s, listID))
	for _, status := range model.Statuses {
		tasks := byStatus[status]
		fmt.Printf("\n%s (%d)\n", statusLabel(status), len(tasks))
		fmt.Println(strings.Repeat("─", 40))
		for i, t := range tasks {
			printTask(i+1, t)
		}
	}
}

func statusLabel(status model.Status) string {
	switch status {
	case model.StatusTodo:
		return "To Do"
	case model.StatusInProgress:
		return "In Progress"
	case model.StatusReview:
		return "Review"
	case model.StatusDone:
		return "Done"
	}
	return string(status)
}

func printTask(num int, t model.Task) {
	icon := "[ ]"
	if t.IsCompleted {
		icon = "[x]"
	}

	priority := fmt.Sprintf("  P%d", t.Priority)
	if t.Priority <= model.PriorityHigh {
		priority = fmt.Sprintf("▲ P%d", t.Priority)
	}

	due := ""
	if t.DueDate != "" {
		due = "  📅 " + t.DueDate
		if t.IsOverdue(time.Now()) {
			due += " (overdue)"
		}
	}

	src := ""
	if t.Source == model.SourceClassroom {
		src = "  🎓"
	}

	fmt.Printf("%2d. %s %s %s%s%s  (%s)\n", num, icon, priority, t.Title, due, src, shortID(t.ID))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
