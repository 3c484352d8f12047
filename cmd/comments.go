package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/adapter"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/screen"
)

var commentsCmd = &cobra.Command{
	Use:   "comments",
	Short: "Read and write comments on a report",
	Long: `Comment commands.

Examples:
  lostfound comments list 12
  lostfound comments add 12 I think this is mine`,
}

var commentsListCmd = &cobra.Command{
	Use:   "list <report-id>",
	Short: "List comments on a report, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runCommentsList,
}

var commentsAddCmd = &cobra.Command{
	Use:   "add <report-id> <text...>",
	Short: "Comment on a report",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runCommentsAdd,
}

func init() {
	commentsCmd.AddCommand(commentsListCmd)
	commentsCmd.AddCommand(commentsAddCmd)

	rootCmd.AddCommand(commentsCmd)
}

type commentView struct {
	ID       int    `json:"id"`
	UserName string `json:"user_name"`
	Comment  string `json:"comment"`
	Date     string `json:"date"`
}

func commentViews(rows []adapter.CommentRow) []commentView {
	views := make([]commentView, len(rows))
	for i, c := range rows {
		views[i] = commentView{ID: c.ID, UserName: c.UserName, Comment: c.Comment, Date: c.Date}
	}
	return views
}

func runCommentsList(cmd *cobra.Command, args []string) error {
	id, err := parseReportID(args[0])
	if err != nil {
		return err
	}

	deps, err := getDeps(cmd)
	if err != nil {
		return err
	}

	ctrl := screen.NewDetail(deps, id)
	defer ctrl.Close()

	task, err := ctrl.Load()
	if err != nil {
		return err
	}
	state, err := task.Wait()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"comments": commentViews(state.Comments),
			"count":    len(state.Comments),
		})
	}

	if len(state.Comments) == 0 {
		fmt.Println("No comments yet")
		return nil
	}
	return adapter.RenderComments(os.Stdout, state.Comments)
}

func runCommentsAdd(cmd *cobra.Command, args []string) error {
	id, err := parseReportID(args[0])
	if err != nil {
		return err
	}

	deps, err := getDeps(cmd)
	if err != nil {
		return err
	}

	ctrl := screen.NewDetail(deps, id)
	defer ctrl.Close()

	task, err := ctrl.AddComment(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	comment, err := task.Wait()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(comment)
	}

	fmt.Printf("%s Comment %d added to report %d\n", colorGreen("✓"), comment.ID, id)
	return nil
}
