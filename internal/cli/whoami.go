package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-consulta/session"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Mostrar el usuario de la sesión actual",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		state, err := a.manager.Bootstrap()
		if err != nil {
			return err
		}
		if state != session.StateAuthenticated {
			fmt.Fprintln(os.Stdout, "No hay sesión activa.")
			return nil
		}

		fmt.Fprintln(os.Stdout, a.manager.User().String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
