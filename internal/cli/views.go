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

var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "Listar las vistas consultables y sus conteos de registros",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return runViews(ctx, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(viewsCmd)
}

func runViews(ctx context.Context, w io.Writer) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	resp, err := a.client.ViewCounts(ctx)
	if err != nil {
		return err
	}

	if IsJSONOutput() {
		return json.NewEncoder(w).Encode(resp)
	}

	for _, v := range resp.Views {
		fmt.Fprintf(w, "%-40s %d registros\n", v.DisplayName, v.Count)
	}
	return nil
}
