package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rcourtman/irconsole/internal/catalog"
	"github.com/rcourtman/irconsole/internal/console"
	"github.com/rcourtman/irconsole/internal/entity"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive console: open an entity, pick an account, run actions, explain",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		rt, err := newRuntime(cmd.Context(), cfg, runtimeOptions{
			renderer:  newTermRenderer(out),
			serveHTTP: true,
		})
		if err != nil {
			return err
		}
		defer rt.Close()

		fmt.Fprintf(out, "irconsole %s (%s backend). Type 'help' for commands.\n", Version, cfg.Backend)
		return newShell(rt.app, out).loop(cmd.Context(), cmd.InOrStdin())
	},
}

var errQuit = errors.New("quit")

// renderedError marks an error the controller already showed in the modal.
type renderedError struct{ err error }

func (e renderedError) Error() string { return e.err.Error() }
func (e renderedError) Unwrap() error { return e.err }

func controllerError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, console.ErrMenuClosed), errors.Is(err, console.ErrNoResult), errors.Is(err, console.ErrSuperseded):
		return err
	}
	return renderedError{err: err}
}

const shellHelp = `Commands:
  open <kind> field=value ...   open the action menu for an entity
  actions [glob]                list actions for the open entity
  accounts                      list account choices
  account [name]                run as name (no name: connection default)
  do <action>                   run an action
  explain                       stream an AI explanation of the result
  show                          print the modal
  close                         close the modal
  quit                          leave the shell`

type shell struct {
	app     *console.App
	out     io.Writer
	current *console.Controller
}

func newShell(app *console.App, out io.Writer) *shell {
	return &shell{app: app, out: out}
}

func (s *shell) loop(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, s.prompt())
		if !scanner.Scan() {
			fmt.Fprintln(s.out)
			return scanner.Err()
		}
		err := s.exec(ctx, scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		var inline renderedError
		if err != nil && !errors.As(err, &inline) {
			fmt.Fprintln(s.out, dim("error: "+err.Error()))
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (s *shell) prompt() string {
	if s.current == nil {
		return "irconsole> "
	}
	snap := s.current.Snapshot()
	if snap.Entity == nil || snap.State == console.StateClosed {
		return "irconsole> "
	}
	who := snap.Account
	if who == "" {
		who = "default"
	}
	return fmt.Sprintf("irconsole %s:%s [%s]> ", snap.Kind, snap.Entity.Subject(), who)
}

func (s *shell) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	verb, args := strings.ToLower(fields[0]), fields[1:]

	switch verb {
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
		return nil
	case "quit", "exit":
		if s.current != nil {
			s.current.Hide()
		}
		return errQuit
	case "open":
		if len(args) < 1 {
			return errors.New("usage: open <kind> field=value ...")
		}
		kind, err := entity.ParseKind(args[0])
		if err != nil {
			return err
		}
		kv, err := entity.ParseFields(args[1:])
		if err != nil {
			return err
		}
		e, err := entity.FromFields(kind, kv)
		if err != nil {
			return err
		}
		if s.current != nil && s.current.Kind() != kind {
			s.current.Hide()
		}
		c, err := s.app.Show(ctx, e)
		if err != nil {
			return err
		}
		s.current = c
		fmt.Fprintf(s.out, "%d actions available for %s %s\n", len(catalog.Actions(kind)), kind, e.Subject())
		return nil
	}

	if s.current == nil {
		return errors.New("no entity open; use 'open <kind> field=value ...'")
	}

	switch verb {
	case "actions":
		pattern := ""
		if len(args) > 0 {
			pattern = args[0]
		}
		for _, a := range catalog.Filter(s.current.Kind(), pattern, "") {
			fmt.Fprintf(s.out, "  %-22s %-22s %s\n", a.Key, a.Category, a.Label)
		}
		return nil
	case "accounts":
		for _, opt := range s.current.AccountOptions() {
			fmt.Fprintf(s.out, "  %-16s %s\n", opt.Value, opt.Label)
		}
		return nil
	case "account":
		name := ""
		if len(args) > 0 {
			name = args[0]
		}
		s.current.SelectAccount(name)
		return nil
	case "do", "run":
		if len(args) != 1 {
			return errors.New("usage: do <action>")
		}
		_, err := s.current.SelectAction(ctx, args[0])
		return controllerError(err)
	case "explain":
		_, err := s.current.Explain(ctx)
		return controllerError(err)
	case "show":
		snap := s.current.Snapshot()
		fmt.Fprintf(s.out, "[%s] %s\n%s\n", snap.State, snap.Title, snap.Content)
		if snap.ExplanationVisible {
			fmt.Fprintf(s.out, "\n%s\n", snap.Explanation)
		}
		return nil
	case "close":
		s.current.Hide()
		return nil
	}
	return fmt.Errorf("unknown command %q (try 'help')", verb)
}
