package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trihoang/studydesk/internal/prefs"
)

var hideCmd = &cobra.Command{
	Use:   "hide [list-id]",
	Short: "Hide a list from task views on this device",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setHidden(args[0], true)
	},
}

var unhideCmd = &cobra.Command{
	Use:   "unhide [list-id]",
	Short: "Show a previously hidden list again",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setHidden(args[0], false)
	},
}

func setHidden(listID string, hidden bool) error {
	session, _, err := openSession()
	if err != nil {
		return err
	}
	if !session.IsLoggedIn() {
		return fmt.Errorf("not logged in, run 'studydesk auth login' first")
	}

	db, err := prefs.OpenDefault()
	if err != nil {
		return err
	}
	defer db.Close()

	if hidden {
		if err := db.HideList(session.UserID, listID); err != nil {
			return err
		}
		fmt.Printf("✓ Hidden list %s\n", listID)
		return nil
	}

	if err := db.UnhideList(session.UserID, listID); err != nil {
		return err
	}
	fmt.Printf("✓ Unhidden list %s\n", listID)
	return nil
}
