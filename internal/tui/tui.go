package tui

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/deskshell/internal/config"
	"github.com/1broseidon/deskshell/internal/shell"
)

// Run renders session in the terminal until the user quits or ctx ends.
// State changes made elsewhere, such as over the IPC socket, redraw the
// screen as they happen.
func Run(ctx context.Context, session *shell.Session, cfg *config.Config) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(
		newModel(session, cfg),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)
	// Send blocks until the program reads it, and notifications also fire
	// from inside Update.
	session.OnChange(func() { go p.Send(changedMsg{}) })

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
