package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/jrsteele09/go-consulta/session"
)

var (
	expiredStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("208"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

// consoleNavigator is the CLI's login entry point: it cannot change pages, so
// it tells the user how to get back in. The reason keeps the expired-session
// message distinct from a voluntary logout.
type consoleNavigator struct {
	out io.Writer
}

func newConsoleNavigator(out io.Writer) *consoleNavigator {
	return &consoleNavigator{out: out}
}

var _ session.Navigator = (*consoleNavigator)(nil)

func (n *consoleNavigator) RedirectToLogin(reason session.Reason) {
	switch reason {
	case session.ReasonExpired:
		fmt.Fprintln(n.out, expiredStyle.Render("Su sesión ha expirado. Ejecute 'consulta login' para iniciar sesión nuevamente."))
	default:
		fmt.Fprintln(n.out, noticeStyle.Render("Sesión cerrada."))
	}
}
