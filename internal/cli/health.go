package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Verificar la conectividad con el backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return runHealth(ctx, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(ctx context.Context, w io.Writer) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	resp, err := a.client.Health(ctx)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return json.NewEncoder(w).Encode(resp)
	}

	fmt.Fprintf(w, "Backend:   %s\nEstado:    %s\nBase de datos: %s\nHora:      %s\n",
		GetAPIURL(a.cfg), resp.Status, resp.Database, resp.Timestamp)
	return nil
}
