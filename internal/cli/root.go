// Package cli wires the cobra commands of the consulta client.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-consulta/api"
	"github.com/jrsteele09/go-consulta/credentials/filestore"
	"github.com/jrsteele09/go-consulta/internal/config"
	"github.com/jrsteele09/go-consulta/session"
	"github.com/jrsteele09/go-consulta/token"
)

var (
	apiURL     string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "consulta",
	Short: "Cliente de consultas en lenguaje natural sobre datos forestales",
	Long: `consulta envía preguntas en lenguaje natural al backend de consulta
y muestra la respuesta: narrativa, tablas de resultados y consultas ejecutadas.

Environment Variables:
  CONSULTA_API_URL           Backend API URL (default: http://localhost:8000/api)
  CONSULTA_CREDENTIALS_FILE  Credential store path (default: ~/.consulta/credentials.json)`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides CONSULTA_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL(cfg config.Config) string {
	if apiURL != "" {
		return apiURL
	}
	return cfg.GetAPIBaseURL()
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// app bundles the wired client stack behind every command.
type app struct {
	cfg     config.Config
	store   *filestore.Store
	client  *api.Client
	manager *session.Manager
}

// lazyTerminator breaks the construction cycle between the API client (which
// needs a terminator) and the session manager (which needs the client as its
// authenticator). The manager is attached right after both exist.
type lazyTerminator struct {
	manager *session.Manager
}

func (l *lazyTerminator) Terminate(reason session.Reason) {
	if l.manager != nil {
		l.manager.Terminate(reason)
	}
}

func newApp() (*app, error) {
	cfg := config.New()

	store, err := filestore.New(cfg.GetCredentialsFile(), token.NewInspector())
	if err != nil {
		return nil, err
	}

	terminator := &lazyTerminator{}
	client := api.New(GetAPIURL(cfg), store, terminator, api.WithTimeout(cfg.GetHTTPTimeout()))

	manager, err := session.NewManager(store, client, newConsoleNavigator(os.Stdout),
		session.WithCheckInterval(cfg.GetCheckInterval()))
	if err != nil {
		return nil, err
	}
	terminator.manager = manager

	return &app{cfg: cfg, store: store, client: client, manager: manager}, nil
}

// close releases background resources (the liveness watchdog).
func (a *app) close() {
	a.manager.Close()
}
