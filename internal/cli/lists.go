package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trihoang/studydesk/internal/model"
)

var listsCmd = &cobra.Command{
	Use:   "lists",
	Short: "Manage task lists",
	Long: `Show, create or delete task lists.

Examples:
  studydesk lists
  studydesk lists add "Side projects" --color "#3B82F6"
  studydesk lists delete side-projects`,
	RunE: runListsShow,
}

var listsAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Create a new list",
	Args:  cobra.ExactArgs(1),
	RunE:  runListsAdd,
}

var listsDeleteCmd = &cobra.Command{
	Use:   "delete [list-id]",
	Short: "Delete a list and its tasks",
	Args:  cobra.ExactArgs(1),
	RunE:  runListsDelete,
}

var (
	listsAddID    string
	listsAddColor string
)

func init() {
	listsAddCmd.Flags().StringVar(&listsAddID, "id", "", "List id (defaults to a slug of the name)")
	listsAddCmd.Flags().StringVar(&listsAddColor, "color", "#3B82F6", "List color")
	listsCmd.AddCommand(listsAddCmd)
	listsCmd.AddCommand(listsDeleteCmd)
}

func runListsShow(cmd *cobra.Command, args []string) error {
	s, _, session, _, err := openStore(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	hidden := hiddenSet(session.UserID)
	for _, ws := range s.Workspaces() {
		fmt.Printf("\n%s\n", ws.Name)
		for _, l := range s.Lists() {
			if l.WorkspaceID != ws.ID {
				continue
			}
			marker := ""
			if hidden[l.ID] {
				marker = "  (hidden)"
			}
			if l.IsAcademic {
				marker += "  🎓"
			}
			fmt.Printf("  • %-24s %3d tasks%s  (%s)\n", l.Name, s.ListTaskCount(l.ID), marker, l.ID)
		}
	}
	return nil
}

func runListsAdd(cmd *cobra.Command, args []string) error {
	s, _, _, _, err := openStore(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	name := args[0]
	id := listsAddID
	if id == "" {
		id = slugify(name)
	}

	added := s.CreateList(model.TaskList{
		ID:          id,
		WorkspaceID: model.WorkspacePersonal,
		Name:        name,
		Color:       listsAddColor,
		SortOrder:   len(s.Lists()),
	})
	if !added {
		return fmt.Errorf("list already exists: %s", id)
	}

	fmt.Printf("✓ Created list \"%s\" (%s)\n", name, id)
	return nil
}

func runListsDelete(cmd *cobra.Command, args []string) error {
	s, _, _, cfg, err := openStore(context.Background())
	if err != nil {
		return err
	}
	defer s.Close()

	listID := args[0]
	l, ok := s.List(listID)
	if !ok {
		return fmt.Errorf("list not found: %s", listID)
	}

	if cfg.ConfirmDelete {
		fmt.Printf("About to delete list \"%s\" and its %d task(s)\n", l.Name, s.ListTaskCount(listID))
		fmt.Print("Are you sure? [y/N]: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	s.DeleteList(listID)
	fmt.Printf("🗑  Deleted list \"%s\"\n", l.Name)
	return nil
}

func slugify(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '-' || r == '_':
			out = append(out, '-')
		}
	}
	return string(out)
}
