package cli

import (
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Cerrar la sesión actual",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		// Clearing local state must succeed whether or not a session exists
		// and without any backend call.
		a.manager.Logout()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
