package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/adapter"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/screen"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Browse and file lost & found reports",
	Long: `Report commands.

Examples:
  lostfound reports list
  lostfound reports get 12
  lostfound reports search black umbrella
  lostfound reports create --title "Umbrella" --description "Black, found in A201" --image ./umbrella.jpg --meetup 2`,
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all reports, newest first",
	RunE:  runReportsList,
}

var reportsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a report and its comments",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsGet,
}

var reportsSearchCmd = &cobra.Command{
	Use:   "search <query...>",
	Short: "Search reports by title or description",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runReportsSearch,
}

var reportsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "File a new report",
	Long: `File a new report.

The image is scaled down to fit 800x800 and sent as JPEG. The meetup point
is chosen by its position in "lostfound meetup-points" (--meetup) or by its
ID (--meetup-id).`,
	RunE: runReportsCreate,
}

func init() {
	reportsCreateCmd.Flags().String("title", "", "report title")
	reportsCreateCmd.Flags().String("description", "", "report description")
	reportsCreateCmd.Flags().String("image", "", "image file of the item")
	reportsCreateCmd.Flags().Int("meetup", 0, "meetup point index")
	reportsCreateCmd.Flags().Int("meetup-id", 0, "meetup point ID (overrides --meetup)")

	reportsCmd.AddCommand(reportsListCmd)
	reportsCmd.AddCommand(reportsGetCmd)
	reportsCmd.AddCommand(reportsSearchCmd)
	reportsCmd.AddCommand(reportsCreateCmd)

	rootCmd.AddCommand(reportsCmd)
}

// reportView is the JSON form of a report row.
type reportView struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MeetupPoint string `json:"meetup_point"`
	Image       string `json:"image"`
}

func reportViews(rows []adapter.ReportRow) []reportView {
	views := make([]reportView, len(rows))
	for i, r := range rows {
		views[i] = reportView{
			ID:          r.ID,
			Title:       r.Title,
			Description: r.Description,
			MeetupPoint: r.MeetupPoint,
			Image:       adapter.ImageLabel(r.Thumbnail),
		}
	}
	return views
}

func parseReportID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid report ID %q", s)
	}
	return id, nil
}

func runReportsList(cmd *cobra.Command, args []string) error {
	deps, err := getDeps(cmd)
	if err != nil {
		return err
	}

	ctrl := screen.NewDashboard(deps)
	defer ctrl.Close()

	task, err := ctrl.Load()
	if err != nil {
		return err
	}
	rows, err := task.Wait()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"reports": reportViews(rows),
			"count":   len(rows),
		})
	}

	if ctrl.State().Empty() {
		fmt.Println("No reports found")
		return nil
	}
	return adapter.RenderReports(os.Stdout, rows)
}

func runReportsGet(cmd *cobra.Command, args []string) error {
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
			"report":   state.Report,
			"comments": commentViews(state.Comments),
		})
	}

	r := state.Report
	fmt.Printf("ID:           %d\n", r.ID)
	fmt.Printf("Title:        %s\n", r.Title)
	fmt.Printf("Description:  %s\n", r.Description)
	fmt.Printf("Meetup point: %s - %s\n", r.MeetupPointName, r.MeetupPointLocation)
	fmt.Printf("Posted by:    %s (%s)\n", r.UserName, adapter.ImageLabel(state.AuthorPicture))
	fmt.Printf("Posted:       %s\n", state.Posted)
	fmt.Printf("Image:        %s\n", adapter.ImageLabel(state.Image))

	fmt.Printf("\nComments (%d):\n", len(state.Comments))
	if len(state.Comments) == 0 {
		fmt.Println("  none yet")
		return nil
	}
	return adapter.RenderComments(os.Stdout, state.Comments)
}

func runReportsSearch(cmd *cobra.Command, args []string) error {
	deps, err := getDeps(cmd)
	if err != nil {
		return err
	}

	ctrl := screen.NewSearch(deps)
	defer ctrl.Close()

	task, err := ctrl.QueryChanged(strings.Join(args, " "))
	if err != nil {
		return err
	}
	rows, err := task.Wait()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"query":   ctrl.State().Query,
			"reports": reportViews(rows),
			"count":   len(rows),
		})
	}

	if hint := ctrl.State().Hint; hint != "" {
		fmt.Println(hint)
		return nil
	}
	return adapter.RenderReports(os.Stdout, rows)
}

func runReportsCreate(cmd *cobra.Command, args []string) error {
	deps, err := getDeps(cmd)
	if err != nil {
		return err
	}

	title, _ := cmd.Flags().GetString("title")
	description, _ := cmd.Flags().GetString("description")
	imagePath, _ := cmd.Flags().GetString("image")
	index, _ := cmd.Flags().GetInt("meetup")
	meetupID, _ := cmd.Flags().GetInt("meetup-id")

	ctrl := screen.NewCreate(deps)
	defer ctrl.Close()

	pointsTask, err := ctrl.LoadMeetupPoints()
	if err != nil {
		return err
	}
	points, err := pointsTask.Wait()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("meetup-id") {
		index = -1
		for i, p := range points {
			if p.ID == meetupID {
				index = i
				break
			}
		}
	}

	if imagePath != "" {
		f, err := os.Open(imagePath)
		if err != nil {
			return fmt.Errorf("failed to open image: %w", err)
		}
		err = ctrl.SelectImage(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	task, err := ctrl.Submit(title, description, index)
	if err != nil {
		return err
	}
	report, err := task.Wait()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(report)
	}

	fmt.Printf("%s Report created: %d\n", colorGreen("✓"), report.ID)
	fmt.Printf("  Title:        %s\n", report.Title)
	if report.MeetupPointName != "" {
		fmt.Printf("  Meetup point: %s - %s\n", report.MeetupPointName, report.MeetupPointLocation)
	}
	return nil
}
