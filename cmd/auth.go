package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tegarsantosa/lost-found-app-president-university/internal/screen"
	"github.com/tegarsantosa/lost-found-app-president-university/internal/session"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create a new Lost & Found account.

The password is prompted for when --password is omitted.

Examples:
  lostfound register --name Ann --email ann@example.com`,
	RunE: runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store the session",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user from the stored session",
	RunE:  runWhoami,
}

func init() {
	registerCmd.Flags().String("name", "", "display name")
	registerCmd.Flags().String("email", "", "email address")
	registerCmd.Flags().String("password", "", "password (prompted when omitted)")

	loginCmd.Flags().String("email", "", "email address")
	loginCmd.Flags().String("password", "", "password (prompted when omitted)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

// passwordFlag returns --password, prompting for it when it was not given.
func passwordFlag(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("password") {
		return cmd.Flags().GetString("password")
	}
	return readPassword("Password: ")
}

func runRegister(cmd *cobra.Command, args []string) error {
	deps, err := getDeps(cmd)
	if err != nil {
		return err
	}

	name, _ := cmd.Flags().GetString("name")
	email, _ := cmd.Flags().GetString("email")
	password, err := passwordFlag(cmd)
	if err != nil {
		return err
	}

	ctrl := screen.NewRegister(deps)
	defer ctrl.Close()

	task, err := ctrl.Submit(name, email, password)
	if err != nil {
		return err
	}
	userID, err := task.Wait()
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"message": "User registered successfully",
			"userId":  userID,
		})
	}

	fmt.Printf("%s Registered user %d. Log in with: lostfound login --email %s\n", colorGreen("✓"), userID, email)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	deps, err := getDeps(cmd)
	if err != nil {
		return err
	}

	email, _ := cmd.Flags().GetString("email")
	password, err := passwordFlag(cmd)
	if err != nil {
		return err
	}

	ctrl := screen.NewLogin(deps)
	defer ctrl.Close()

	task, err := ctrl.Submit(email, password)
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

	fmt.Printf("%s Logged in as %s <%s>\n", colorGreen("✓"), user.Name, user.Email)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	deps, err := getDeps(cmd)
	if err != nil {
		return err
	}

	ctrl := screen.NewProfile(deps)
	defer ctrl.Close()

	if err := ctrl.Logout(); err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]string{"status": "logged_out"})
	}

	fmt.Printf("%s Logged out\n", colorGreen("✓"))
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	store, err := getStore()
	if err != nil {
		return err
	}

	sess, err := store.Get()
	if errors.Is(err, session.ErrNoSession) {
		if jsonOut {
			return printJSON(map[string]interface{}{"logged_in": false})
		}
		fmt.Println("Not logged in")
		return nil
	}
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"logged_in": true,
			"user":      sess.User,
		})
	}

	if sess.User == nil {
		fmt.Printf("Logged in (session %s)\n", store.Path())
		return nil
	}
	fmt.Printf("ID:       %d\n", sess.User.ID)
	fmt.Printf("Name:     %s\n", sess.User.Name)
	fmt.Printf("Email:    %s\n", sess.User.Email)
	fmt.Printf("Session:  %s\n", store.Path())
	return nil
}
