package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcourtman/irconsole/internal/accounts"
	"github.com/rcourtman/irconsole/internal/agentexec"
	"github.com/rcourtman/irconsole/internal/audit"
	"github.com/rcourtman/irconsole/internal/catalog"
	"github.com/rcourtman/irconsole/internal/config"
	"github.com/rcourtman/irconsole/internal/entity"
)

var (
	actionsFilter   string
	actionsCategory string

	runAccount   string
	runExplain   bool
	runAgentWait time.Duration

	historyKind  string
	historyLimit int
	historySince time.Duration

	tokenTTL time.Duration
)

func init() {
	actionsCmd.Flags().StringVarP(&actionsFilter, "filter", "f", "", "glob over action keys and labels (e.g. 'kill*')")
	actionsCmd.Flags().StringVar(&actionsCategory, "category", "", "only actions of this category")

	runCmd.Flags().StringVarP(&runAccount, "account", "a", "", "run as this account (default: connection default)")
	runCmd.Flags().BoolVarP(&runExplain, "explain", "e", false, "stream an AI explanation of the result")
	runCmd.Flags().DurationVar(&runAgentWait, "agent-wait", 30*time.Second, "how long to wait for an agent to connect (agent backend)")

	historyCmd.Flags().StringVarP(&historyKind, "kind", "k", "", "only this entity kind")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries")
	historyCmd.Flags().DurationVar(&historySince, "since", 0, "only entries newer than this (e.g. 24h)")
	historyCmd.AddCommand(historyShowCmd)

	agentTokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (0 = no expiry)")

	aiCmd.AddCommand(aiTestCmd)
}

var actionsCmd = &cobra.Command{
	Use:   "actions <kind>",
	Short: "List the actions offered for an entity kind",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := entity.ParseKind(args[0])
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "KEY\tCATEGORY\tLABEL")
		for _, a := range catalog.Filter(kind, actionsFilter, catalog.Category(actionsCategory)) {
			label := a.Label
			if a.Inline {
				label += " " + dim("(inline)")
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Key, a.Category, label)
		}
		return tw.Flush()
	},
}

var runCmd = &cobra.Command{
	Use:   "run <kind> <action> [field=value ...]",
	Short: "Run one action against an entity",
	Example: `  irconsole run process cmdline pid=1234
  irconsole run service status name=nginx --account root --explain
  irconsole run network port-test protocol=tcp local=10.0.0.5:22 foreign=203.0.113.9:51234`,
	Args: cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := entity.ParseKind(args[0])
		if err != nil {
			return err
		}
		fields, err := entity.ParseFields(args[2:])
		if err != nil {
			return err
		}
		e, err := entity.FromFields(kind, fields)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		rt, err := newRuntime(ctx, cfg, runtimeOptions{
			renderer:  newTermRenderer(cmd.OutOrStdout()),
			serveHTTP: cfg.Backend == config.BackendAgent,
		})
		if err != nil {
			return err
		}
		defer rt.Close()

		if cfg.Backend == config.BackendAgent {
			if err := waitForAgent(ctx, rt.agents, cfg.Agent.Target, runAgentWait); err != nil {
				return err
			}
		}

		ctrl, err := rt.app.Show(ctx, e)
		if err != nil {
			return err
		}
		ctrl.SelectAccount(runAccount)
		res, err := ctrl.SelectAction(ctx, args[1])
		if err != nil {
			return err
		}
		if runExplain {
			if _, err := ctrl.Explain(ctx); err != nil {
				return err
			}
		}
		if code := res.Code(); code > 0 {
			return fmt.Errorf("command exited with status %d", code)
		}
		return nil
	},
}

// waitForAgent blocks until target (or any agent when empty) is connected.
func waitForAgent(ctx context.Context, srv *agentexec.Server, target string, wait time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		if target == "" && len(srv.GetConnectedAgents()) > 0 {
			return nil
		}
		if target != "" {
			if srv.IsAgentConnected(target) {
				return nil
			}
			if _, ok := srv.GetAgentForHost(target); ok {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("no agent connected within %s", wait)
		case <-ticker.C:
		}
	}
}

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "List the accounts of the active connection",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		loader := accounts.NewLoader(accounts.NewFileLister(cfg.ConnectionsPath))
		conn, ok, err := loader.Primary(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if !ok {
			fmt.Fprintf(out, "No connections configured in %s\n", cfg.ConnectionsPath)
			return nil
		}
		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s (%s:%d)", conn.Name, conn.Host, conn.Port)))
		for _, opt := range accounts.Options(conn.Accounts) {
			value := opt.Value
			if value == "" {
				value = "-"
			}
			fmt.Fprintf(out, "  %-16s %s\n", value, opt.Label)
		}
		return nil
	},
}

func openAuditStore() (*audit.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	sc := audit.DefaultConfig(cfg.DataDir)
	sc.DBPath = cfg.AuditPath
	return audit.NewStore(sc)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently dispatched actions",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openAuditStore()
		if err != nil {
			return err
		}
		defer store.Close()

		q := audit.Query{Kind: historyKind, Limit: historyLimit}
		if historySince > 0 {
			q.Since = time.Now().Add(-historySince)
		}
		entries, err := store.Recent(cmd.Context(), q)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tSTARTED\tKIND\tACTION\tSUBJECT\tACCOUNT\tEXIT\tDURATION")
		for _, e := range entries {
			exit := "-"
			if e.ExitCode != nil {
				exit = fmt.Sprint(*e.ExitCode)
			}
			if e.Error != "" {
				exit = "error"
			}
			account := e.Account
			if account == "" {
				account = "default"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				e.ID, e.StartedAt.Local().Format(time.DateTime), e.Kind, e.Action, e.Subject, account, exit, e.Duration.Round(time.Millisecond))
		}
		return tw.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one history entry with its output",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openAuditStore()
		if err != nil {
			return err
		}
		defer store.Close()

		e, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s %s (%s)", e.Kind, e.Action, e.Subject)))
		fmt.Fprintf(out, "Started:  %s\nBackend:  %s\nAccount:  %s\nCommand:  %s\n", e.StartedAt.Local().Format(time.RFC3339), e.Backend, e.Account, e.Command)
		if e.Error != "" {
			fmt.Fprintf(out, "Error:    %s\n", e.Error)
		}
		fmt.Fprintln(out)
		fmt.Fprintln(out, e.Output)
		return nil
	},
}

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "AI provider commands",
}

var aiTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Check that the configured AI provider answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		// the provider check never dispatches, so skip backend setup
		local := *cfg
		local.Backend = config.BackendLocal
		rt, err := newRuntime(cmd.Context(), &local, runtimeOptions{})
		if err != nil {
			return err
		}
		defer rt.Close()

		provider, err := rt.explain.Provider(cmd.Context())
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()
		if err := provider.TestConnection(ctx); err != nil {
			return fmt.Errorf("%s: %w", provider.Name(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is reachable\n", provider.Name())
		return nil
	},
}

var agentTokenCmd = &cobra.Command{
	Use:   "agent-token <agent-id>",
	Short: "Issue a registration token for a host agent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		tokens, err := agentexec.NewTokens(cfg.Agent.Secret)
		if err != nil {
			return fmt.Errorf("agent.secret: %w", err)
		}
		agentID := strings.TrimSpace(args[0])
		if agentID == "" {
			return errors.New("agent id is required")
		}
		token, err := tokens.Issue(agentID, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
