package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-consulta/api"
	clienterrors "github.com/jrsteele09/go-consulta/internal/errors"
	"github.com/jrsteele09/go-consulta/render"
	"github.com/jrsteele09/go-consulta/session"
)

var (
	queryCSVPath  string
	queryShowSQL  bool
	queryWorkflow bool
)

var queryCmd = &cobra.Command{
	Use:   "query <pregunta>",
	Short: "Enviar una consulta en lenguaje natural",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		return runQuery(ctx, strings.Join(args, " "), os.Stdout)
	},
}

func init() {
	queryCmd.Flags().StringVar(&queryCSVPath, "csv", "", "Exportar el resultado principal a un archivo CSV")
	queryCmd.Flags().BoolVar(&queryShowSQL, "sql", false, "Mostrar las consultas SQL ejecutadas")
	queryCmd.Flags().BoolVar(&queryWorkflow, "workflow", false, "Incluir detalles del flujo de agentes")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(ctx context.Context, query string, w io.Writer) error {
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
		return clienterrors.ErrNotAuthenticated
	}

	resp, err := a.client.Query(ctx, query, queryWorkflow)
	if err != nil {
		switch {
		case clienterrors.Is(err, clienterrors.ErrSessionExpired):
			// The navigator already printed the expired notice.
			return clienterrors.ErrSessionExpired
		case clienterrors.Is(err, clienterrors.ErrRateLimited):
			return clienterrors.ErrRateLimited
		}
		return err
	}

	if IsJSONOutput() {
		return json.NewEncoder(w).Encode(resp)
	}

	printResponse(w, resp)

	if queryCSVPath != "" {
		if err := exportCSV(queryCSVPath, resp.Primary()); err != nil {
			return fmt.Errorf("exportando CSV: %w", err)
		}
		fmt.Fprintf(w, "\nResultado principal exportado a %s\n", queryCSVPath)
	}
	return nil
}

func printResponse(w io.Writer, resp *api.QueryResponse) {
	if !resp.Success {
		if resp.Error != "" {
			fmt.Fprintf(w, "Error: %s\n", resp.Error)
		} else {
			fmt.Fprintln(w, "Error: la consulta no pudo procesarse")
		}
		return
	}

	if resp.ExecutiveResponse != "" {
		fmt.Fprint(w, render.Markdown(resp.ExecutiveResponse))
	}
	if resp.FinalResponse != "" && resp.FinalResponse != resp.ExecutiveResponse {
		fmt.Fprint(w, render.Markdown(resp.FinalResponse))
	}

	if len(resp.QueryResults) > 0 {
		for _, qr := range resp.QueryResults {
			title := qr.Description
			if qr.IsPrimary {
				title += " (principal)"
			}
			fmt.Fprintf(w, "\n%s\n", render.Caption(fmt.Sprintf("%s — %d filas", title, qr.RowCount)))
			fmt.Fprint(w, render.Table(qr.Data))
		}
	} else if len(resp.Data) > 0 {
		fmt.Fprintf(w, "\n%s\n", render.Caption(fmt.Sprintf("Resultados — %d filas", len(resp.Data))))
		fmt.Fprint(w, render.Table(resp.Data))
	}

	if queryShowSQL && len(resp.SQLQueries) > 0 {
		fmt.Fprintf(w, "\n%s\n", render.Caption("Consultas ejecutadas:"))
		for _, q := range resp.SQLQueries {
			status := "ok"
			if !q.Success {
				status = "error"
			}
			fmt.Fprintf(w, "[%s] %s\n%s\n", status, q.TaskDescription, q.Query)
		}
	}
}

func exportCSV(path string, rows []map[string]any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return render.CSV(f, rows)
}
