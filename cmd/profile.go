package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/adapter"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/api"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/screen"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View or update your profile",
	Long: `Profile commands for the logged-in user.

Examples:
  lostfound profile get
  lostfound profile update --name "Ann Lee"
  lostfound profile update --picture ./me.jpg`,
}

var profileGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show your profile",
	RunE:  runProfileGet,
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change your name or picture",
	Long: `Change your display name and optionally upload a new picture.

The picture is scaled down to fit 800x800 and sent as JPEG. When --name is
omitted the current name is kept.`,
	RunE: runProfileUpdate,
}

func init() {
	profileUpdateCmd.Flags().String("name", "", "new display name")
	profileUpdateCmd.Flags().String("picture", "", "image file to use as profile picture")

	profileCmd.AddCommand(profileGetCmd)
	profileCmd.AddCommand(profileUpdateCmd)

	rootCmd.AddCommand(profileCmd)
}

func runProfileGet(cmd *cobra.Command, args []string) error {
	deps, err := getDeps(cmd)
	if err != nil {
		return err
	}

	ctrl := screen.NewProfile(deps)
	defer ctrl.Close()

	task, err := ctrl.Load()
	if err != nil {
		return err
	}
	user, err := task.Wait()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(user)
	}

	printProfile(user, ctrl.State())
	return nil
}

func runProfileUpdate(cmd *cobra.Command, args []string) error {
	deps, err := getDeps(cmd)
	if err != nil {
		return err
	}

	ctrl := screen.NewProfile(deps)
	defer ctrl.Close()

	name, _ := cmd.Flags().GetString("name")
	if !cmd.Flags().Changed("name") {
		task, err := ctrl.Load()
		if err != nil {
			return err
		}
		if _, err := task.Wait(); err != nil {
			return err
		}
		name = ctrl.State().Name
	}

	if picture, _ := cmd.Flags().GetString("picture"); picture != "" {
		f, err := os.Open(picture)
		if err != nil {
			return fmt.Errorf("failed to open picture: %w", err)
		}
		err = ctrl.SelectImage(f)
		f.Close()
		if err != nil {
			return err
		}
	}

	task, err := ctrl.Save(name)
	if err != nil {
		return err
	}
	user, err := task.Wait()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(user)
	}

	fmt.Printf("%s Profile updated\n\n", colorGreen("✓"))
	printProfile(user, ctrl.State())
	return nil
}

func printProfile(user *api.User, state screen.ProfileState) {
	fmt.Printf("ID:       %d\n", user.ID)
	fmt.Printf("Name:     %s\n", user.Name)
	fmt.Printf("Email:    %s\n", user.Email)
	fmt.Printf("Picture:  %s\n", adapter.ImageLabel(state.Picture))
	if user.CreatedAt != "" {
		fmt.Printf("Joined:   %s\n", api.ShortDate(user.CreatedAt))
	}
}
