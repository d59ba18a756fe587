// Package catalog maps (entity kind, action key) pairs to shell commands.
//
// Every builder is a pure string template: it never performs I/O and it
// interpolates entity fields verbatim. Field values are NOT shell-escaped,
// so a crafted process name or cron command ends up in the remote shell as-is.
package catalog

import (
	"strings"

	"github.com/IGLOU-EU/go-wildcard/v2"

	"github.com/rcourtman/irconsole/internal/entity"
	consoleerrors "github.com/rcourtman/irconsole/internal/errors"
)

// Category groups actions in menus.
type Category string

const (
	CategoryInfo               Category = "info"
	CategoryManagement         Category = "management"
	CategorySecurityCheck      Category = "security-check"
	CategoryNetworkDiagnostics Category = "network-diagnostics"
	CategoryLogQuery           Category = "log-query"
)

// Categories returns every category in menu order.
func Categories() []Category {
	return []Category{CategoryInfo, CategoryManagement, CategorySecurityCheck, CategoryNetworkDiagnostics, CategoryLogQuery}
}

// Action describes one menu entry. Title and Command are templates: every
// {{name}} placeholder is replaced with the entity field or derived value of
// the same name.
type Action struct {
	Key      string
	Label    string
	Category Category
	Title    string
	Command  string
	// NonSystemd replaces Command for startup items whose type is not systemd.
	NonSystemd string
	// Inline actions render the entity snapshot without touching the gateway.
	Inline bool
}

// Command is a fully built action, ready for dispatch.
type Command struct {
	Key      string
	Label    string
	Category Category
	Title    string
	Text     string
	Inline   bool
}

var tables = map[entity.Kind][]Action{
	entity.KindProcess:  processActions,
	entity.KindNetwork:  networkActions,
	entity.KindService:  serviceActions,
	entity.KindUser:     userActions,
	entity.KindCron:     cronActions,
	entity.KindFirewall: firewallActions,
	entity.KindStartup:  startupActions,
}

// Actions returns the actions offered for kind, in menu order.
func Actions(kind entity.Kind) []Action {
	table := tables[kind]
	out := make([]Action, len(table))
	copy(out, table)
	return out
}

// Lookup finds the action registered under key for kind.
func Lookup(kind entity.Kind, key string) (Action, error) {
	for _, a := range tables[kind] {
		if a.Key == key {
			return a, nil
		}
	}
	return Action{}, consoleerrors.UnknownAction(string(kind), key)
}

// Build produces the command for running key against e.
func Build(e entity.Entity, key string) (Command, error) {
	action, err := Lookup(e.Kind(), key)
	if err != nil {
		return Command{}, err
	}

	vars := variables(e)
	cmd := Command{
		Key:      action.Key,
		Label:    action.Label,
		Category: action.Category,
		Title:    expand(action.Title, vars),
		Inline:   action.Inline,
	}

	switch {
	case action.Inline:
		cmd.Text = entity.Describe(e)
	case action.NonSystemd != "" && !isSystemd(e):
		cmd.Text = expand(action.NonSystemd, vars)
	default:
		cmd.Text = expand(action.Command, vars)
	}
	return cmd, nil
}

// Filter lists the actions of kind whose key or label matches the glob
// pattern and, when category is non-empty, belong to that category.
func Filter(kind entity.Kind, pattern string, category Category) []Action {
	if pattern == "" {
		pattern = "*"
	}
	pattern = strings.ToLower(pattern)

	var out []Action
	for _, a := range tables[kind] {
		if category != "" && a.Category != category {
			continue
		}
		if wildcard.Match(pattern, a.Key) || wildcard.Match(pattern, strings.ToLower(a.Label)) {
			out = append(out, a)
		}
	}
	return out
}

func isSystemd(e entity.Entity) bool {
	item, ok := e.(entity.StartupItem)
	return ok && item.IsSystemd()
}

// variables collects the entity fields plus the values derived from them.
func variables(e entity.Entity) map[string]string {
	vars := make(map[string]string)
	for _, f := range e.Fields() {
		vars[f.Key] = f.Value
	}

	switch v := e.(type) {
	case entity.NetworkConnection:
		vars["foreign_ip"] = v.ForeignIP()
		vars["foreign_port"] = v.ForeignPort()
		vars["local_port"] = v.LocalPort()
	case entity.CronJob:
		vars["program"] = v.Program()
		vars["command_short"] = abbreviate(v.Command, 50)
	case entity.StartupItem:
		vars["program"] = v.Program()
	}
	return vars
}

func expand(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// abbreviate keeps the first n runes and always appends an ellipsis.
func abbreviate(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	return string(runes) + "..."
}

// Preview is the command as shown while it runs: the first 100 runes,
// followed by an ellipsis when truncated.
func Preview(command string) string {
	runes := []rune(command)
	if len(runes) <= 100 {
		return command
	}
	return string(runes[:100]) + "..."
}
