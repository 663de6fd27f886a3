package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/barkingbob/json-builder-app/log"
	"github.com/barkingbob/json-builder-app/request"
)

// ErrNotTerminal indicates the editor was started without a terminal.
var ErrNotTerminal = errors.New("edit needs an interactive terminal; use build instead")

func (a *app) editCmd() *cobra.Command {
	var curl bool

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a request body interactively",
		Long: `edit applies the selection flags like build does, then opens a full-screen
form for the request body. Press g to print the request and exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return ErrNotTerminal
			}

			return a.runEdit(cmd, curl)
		},
	}

	cmd.Flags().BoolVar(&curl, "curl", false, "also print a curl command posting the request")

	return cmd
}

func (a *app) runEdit(cmd *cobra.Command, curl bool) error {
	cat, err := a.catalog()
	if err != nil {
		return err
	}

	// The editor owns the terminal, so logs go to its status line instead.
	pub := log.NewPublisher()
	defer pub.Close() //nolint:errcheck // Close always returns nil.

	handler, err := log.NewHandlerFromStrings(pub, a.log.Level, string(log.FormatLogfmt))
	if err != nil {
		return err
	}

	sub := pub.Subscribe()

	b, err := a.req.NewBuilder(cat, request.WithLogger(slog.New(handler)))
	if err != nil {
		return err
	}

	if b.SRV() == nil {
		return fmt.Errorf("%w: edit needs --env, --role and --srv", request.ErrInvalidOption)
	}

	final, err := tea.NewProgram(newEditor(b, sub),
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	).Run()
	if err != nil {
		return fmt.Errorf("run editor: %w", err)
	}

	m, ok := final.(*editor)
	if !ok || m.output == nil {
		return nil
	}

	return writeOutput(cmd.OutOrStdout(), m.output, curl)
}
