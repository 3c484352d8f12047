package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/screen"
)

var meetupPointsCmd = &cobra.Command{
	Use:     "meetup-points",
	Aliases: []string{"meetup"},
	Short:   "List the places where items are handed over",
	RunE:    runMeetupPoints,
}

func init() {
	rootCmd.AddCommand(meetupPointsCmd)
}

func runMeetupPoints(cmd *cobra.Command, args []string) error {
	deps, err := getDeps(cmd)
	if err != nil {
		return err
	}

	ctrl := screen.NewCreate(deps)
	defer ctrl.Close()

	task, err := ctrl.LoadMeetupPoints()
	if err != nil {
		return err
	}
	points, err := task.Wait()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"meetup_points": points,
			"count":         len(points),
		})
	}

	if len(points) == 0 {
		fmt.Println("No meetup points found")
		return nil
	}

	w := newTable()
	printTableHeader(w, "INDEX", "ID", "NAME", "LOCATION")
	for i, p := range points {
		fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", i, p.ID, p.Name, p.Location)
	}
	return w.Flush()
}
