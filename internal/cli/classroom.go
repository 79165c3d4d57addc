package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/trihoang/studydesk/internal/classroom"
)

var classroomCmd = &cobra.Command{
	Use:   "classroom",
	Short: "Sync assignments from your classroom feed",
	Long: `Import courses and assignments from the classroom feed into local
lists and tasks. Importing is idempotent: an assignment already imported
once is never imported again.

Commands:
  studydesk classroom login      # Authorize access to the feed
  studydesk classroom sync       # Import new courses and assignments
  studydesk classroom status     # Show last sync and course mappings`,
}

var classroomLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize StudyDesk to read the classroom feed",
	RunE:  runClassroomLogin,
}

var classroomSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import new courses and assignments",
	RunE:  runClassroomSync,
}

var classroomStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE:  runClassroomStatus,
}

func init() {
	classroomCmd.AddCommand(classroomLoginCmd)
	classroomCmd.AddCommand(classroomSyncCmd)
	classroomCmd.AddCommand(classroomStatusCmd)
}

func runClassroomLogin(cmd *cobra.Command, args []string) error {
	if err := classroom.Login(context.Background()); err != nil {
		return err
	}
	fmt.Println("✅ Classroom access authorized.")
	return nil
}

func runClassroomSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	s, gw, session, cfg, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	engine := classroom.NewEngine(classroom.NewClient(cfg.ClassroomAPI), s, gw)
	if err := engine.Load(ctx, session.UserID); err != nil {
		return err
	}

	fmt.Println("🔄 Syncing classroom feed...")
	result, err := engine.SyncNow(ctx, classroom.AccessToken(ctx))
	if err != nil {
		return err
	}

	if result.NewTasks == 0 && result.UpdatedCourses == 0 {
		fmt.Println("✓ Already up to date")
	} else {
		fmt.Printf("✓ Imported %d new task(s) across %d new course(s)\n",
			result.NewTasks, result.UpdatedCourses)
	}
	return nil
}

func runClassroomStatus(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	s, gw, session, cfg, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	engine := classroom.NewEngine(classroom.NewClient(cfg.ClassroomAPI), s, gw)
	if err := engine.Load(ctx, session.UserID); err != nil {
		return err
	}

	courses, lastSync, lastErr, _ := engine.Status()

	if lastSync != nil {
		fmt.Printf("Last sync: %s\n", lastSync.Format(time.RFC1123))
	} else {
		fmt.Println("Last sync: never")
	}
	if lastErr != "" {
		fmt.Printf("Last error: %s\n", lastErr)
	}

	if len(courses) == 0 {
		fmt.Println("No courses synced yet. Run 'studydesk classroom sync'.")
		return nil
	}

	fmt.Printf("\nSynced courses (%d):\n", len(courses))
	for _, c := range courses {
		fmt.Printf("  • %s → list %s  (%d tasks)\n", c.Name, c.ListID, s.ListTaskCount(c.ListID))
	}
	return nil
}
