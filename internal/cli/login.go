package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	clienterrors "github.com/jrsteele09/go-consulta/internal/errors"
)

var (
	loginUsuario  string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Iniciar sesión en el backend de consultas",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return runLogin(ctx)
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsuario, "usuario", "u", "", "Nombre de usuario")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Contraseña")
	rootCmd.AddCommand(loginCmd)
}

func runLogin(ctx context.Context) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	usuario, password := loginUsuario, loginPassword
	if usuario == "" || password == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Usuario").
					Value(&usuario),
				huh.NewInput().
					Title("Contraseña").
					EchoMode(huh.EchoModePassword).
					Value(&password),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}

	if err := a.manager.Login(ctx, usuario, password); err != nil {
		switch {
		case clienterrors.Is(err, clienterrors.ErrInvalidCredentials):
			return fmt.Errorf("usuario o contraseña incorrectos")
		case clienterrors.Is(err, clienterrors.ErrUnreachable):
			return fmt.Errorf("no se pudo conectar con el servidor")
		}
		return err
	}

	fmt.Fprintf(os.Stdout, "Bienvenido, %s\n", a.manager.User().DisplayName())
	return nil
}
