package main

import (
	"context"
	"fmt"
	"io"
	"net"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/IGLOU-EU/go-wildcard/v2"
	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/spf13/cobra"

	"github.com/rcourtman/irconsole/internal/entity"
)

var localFilter string

func init() {
	localCmd.PersistentFlags().StringVarP(&localFilter, "filter", "f", "", "glob over process names")
	localCmd.AddCommand(localPsCmd)
	localCmd.AddCommand(localConnsCmd)
}

var localCmd = &cobra.Command{
	Use:   "local",
	Short: "Discover entities on this host (for the local backend)",
}

var localPsCmd = &cobra.Command{
	Use:   "ps",
	Short: "List local processes as run arguments",
	RunE: func(cmd *cobra.Command, args []string) error {
		procs, err := localProcesses(cmd.Context(), localFilter)
		if err != nil {
			return err
		}
		return printEntities(cmd.OutOrStdout(), procs)
	},
}

var localConnsCmd = &cobra.Command{
	Use:   "conns",
	Short: "List local sockets as run arguments",
	RunE: func(cmd *cobra.Command, args []string) error {
		conns, err := localConnections(cmd.Context(), localFilter)
		if err != nil {
			return err
		}
		return printEntities(cmd.OutOrStdout(), conns)
	},
}

type discovered struct {
	entity entity.Entity
	note   string
}

func localProcesses(ctx context.Context, filter string) ([]discovered, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	out := make([]discovered, 0, len(procs))
	for _, p := range procs {
		name, _ := p.NameWithContext(ctx)
		if !matches(filter, name) {
			continue
		}
		user, _ := p.UsernameWithContext(ctx)
		out = append(out, discovered{
			entity: entity.Process{PID: strconv.Itoa(int(p.Pid))},
			note:   strings.TrimSpace(name + " " + user),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].entity.Subject())
		b, _ := strconv.Atoi(out[j].entity.Subject())
		return a < b
	})
	return out, nil
}

func localConnections(ctx context.Context, filter string) ([]discovered, error) {
	stats, err := gnet.ConnectionsWithContext(ctx, "inet")
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	names := make(map[int32]string)
	out := make([]discovered, 0, len(stats))
	for _, s := range stats {
		name, ok := names[s.Pid]
		if !ok && s.Pid > 0 {
			if p, err := process.NewProcessWithContext(ctx, s.Pid); err == nil {
				name, _ = p.NameWithContext(ctx)
			}
			names[s.Pid] = name
		}
		if !matches(filter, name) {
			continue
		}
		conn := entity.NetworkConnection{
			Protocol:       protocolOf(s),
			LocalAddress:   addr(s.Laddr),
			ForeignAddress: addr(s.Raddr),
			State:          s.Status,
			Process:        name,
		}
		if s.Pid > 0 {
			conn.PID = strconv.Itoa(int(s.Pid))
		}
		out = append(out, discovered{entity: conn})
	}
	return out, nil
}

func protocolOf(s gnet.ConnectionStat) string {
	proto := "tcp"
	if s.Type == syscall.SOCK_DGRAM {
		proto = "udp"
	}
	if s.Family == syscall.AF_INET6 {
		proto += "6"
	}
	return proto
}

func addr(a gnet.Addr) string {
	if a.IP == "" {
		return ""
	}
	return net.JoinHostPort(a.IP, strconv.Itoa(int(a.Port)))
}

func matches(filter, name string) bool {
	if filter == "" {
		return true
	}
	return wildcard.Match(strings.ToLower(filter), strings.ToLower(name))
}

// printEntities writes one line per entity in the key=value form "run" takes.
func printEntities(w io.Writer, items []discovered) error {
	for _, d := range items {
		parts := []string{string(d.entity.Kind())}
		for _, f := range d.entity.Fields() {
			if f.Value == "" {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s=%s", f.Key, quoteField(f.Value)))
		}
		line := strings.Join(parts, " ")
		if d.note != "" {
			line += "  " + dim("# "+d.note)
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func quoteField(v string) string {
	if strings.ContainsAny(v, " \t'\"") {
		return strconv.Quote(v)
	}
	return v
}
