package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nikbrunner/postmark/internal/previews"
)

// opDoneMsg reports a finished session operation. op is the status text shown
// on success; closeModal returns to normal mode on success.
type opDoneMsg struct {
	op         string
	err        error
	closeModal bool
}

// previewsMsg signals that a preview batch was merged.
type previewsMsg struct{}

// run executes fn off the update loop with the operation timeout.
func (a *App) run(op string, closeModal bool, fn func(ctx context.Context) error) tea.Cmd {
	a.busy = true
	a.err = nil
	timeout := a.opTimeout

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return opDoneMsg{op: op, err: fn(ctx), closeModal: closeModal}
	}
}

// waitForPreviews re-renders once the batch is merged.
func waitForPreviews(batch *previews.Batch) tea.Cmd {
	if batch == nil {
		return nil
	}
	return func() tea.Msg {
		<-batch.Done()
		return previewsMsg{}
	}
}
