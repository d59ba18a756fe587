// Package entity models the objects an incident responder can inspect: a
// process, socket, service, user, cron job, firewall rule or startup item.
//
// Entities are immutable snapshots taken when a menu is opened. Field values
// are kept as the raw strings shown in the host's tables because the command
// catalog interpolates them verbatim.
package entity

import (
	"fmt"
	"sort"
	"strings"
)

// Kind identifies one of the seven entity variants.
type Kind string

const (
	KindProcess  Kind = "process"
	KindNetwork  Kind = "network"
	KindService  Kind = "service"
	KindUser     Kind = "user"
	KindCron     Kind = "cron"
	KindFirewall Kind = "firewall"
	KindStartup  Kind = "startup"
)

var allKinds = []Kind{KindProcess, KindNetwork, KindService, KindUser, KindCron, KindFirewall, KindStartup}

// Kinds returns every entity kind in menu order.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// ParseKind accepts a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	normalized := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range allKinds {
		if k == normalized {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown entity kind %q", s)
}

// Entity is the tagged variant. Implementations are value types.
type Entity interface {
	Kind() Kind
	// Subject is the short identifier used in modal titles and audit records.
	Subject() string
	// Fields returns the snapshot as ordered key/value pairs.
	Fields() []Field
}

// Field is one named attribute of an entity snapshot.
type Field struct {
	Key   string
	Label string
	Value string
}

// Process is a running process, identified by pid.
type Process struct {
	PID string
}

func (Process) Kind() Kind        { return KindProcess }
func (p Process) Subject() string { return p.PID }
func (p Process) Fields() []Field {
	return []Field{{"pid", "PID", p.PID}}
}

// NetworkConnection is one row of the socket table.
type NetworkConnection struct {
	Protocol       string
	LocalAddress   string
	ForeignAddress string
	State          string
	PID            string
	Process        string
}

func (NetworkConnection) Kind() Kind        { return KindNetwork }
func (n NetworkConnection) Subject() string { return n.ForeignAddress }
func (n NetworkConnection) Fields() []Field {
	return []Field{
		{"protocol", "Protocol", n.Protocol},
		{"local", "Local address", n.LocalAddress},
		{"foreign", "Foreign address", n.ForeignAddress},
		{"state", "State", n.State},
		{"pid", "PID", n.PID},
		{"process", "Process", n.Process},
	}
}

// ForeignIP strips the port from the foreign address. Bracketed IPv6
// addresses ("[::1]:8080") yield the text between the brackets.
func (n NetworkConnection) ForeignIP() string {
	return hostOf(n.ForeignAddress)
}

// ForeignPort is the text after the last colon of the foreign address.
func (n NetworkConnection) ForeignPort() string {
	return portOf(n.ForeignAddress)
}

// LocalPort is the text after the last colon of the local address.
func (n NetworkConnection) LocalPort() string {
	return portOf(n.LocalAddress)
}

func hostOf(address string) string {
	if strings.Contains(address, "[") {
		start := strings.Index(address, "[")
		end := strings.Index(address[start:], "]")
		if end < 0 {
			return address
		}
		return address[start+1 : start+end]
	}
	host, _, _ := strings.Cut(address, ":")
	return host
}

func portOf(address string) string {
	idx := strings.LastIndex(address, ":")
	if idx < 0 {
		return address
	}
	return address[idx+1:]
}

// Service is a systemd or SysV service.
type Service struct {
	Name string
}

func (Service) Kind() Kind        { return KindService }
func (s Service) Subject() string { return s.Name }
func (s Service) Fields() []Field {
	return []Field{{"name", "Name", s.Name}}
}

// User is a local account on the inspected host.
type User struct {
	Username string
}

func (User) Kind() Kind        { return KindUser }
func (u User) Subject() string { return u.Username }
func (u User) Fields() []Field {
	return []Field{{"username", "Username", u.Username}}
}

// CronJob is a single crontab line.
type CronJob struct {
	User     string
	Schedule string
	Command  string
}

func (CronJob) Kind() Kind        { return KindCron }
func (c CronJob) Subject() string { return c.User }
func (c CronJob) Fields() []Field {
	return []Field{
		{"user", "User", c.User},
		{"schedule", "Schedule", c.Schedule},
		{"command", "Command", c.Command},
	}
}

// Program is the first whitespace-separated word of the command.
func (c CronJob) Program() string {
	return firstWord(c.Command)
}

// FirewallRule is one row of an iptables/firewalld listing.
type FirewallRule struct {
	Chain       string
	Target      string
	Protocol    string
	Source      string
	Destination string
	Options     string
}

func (FirewallRule) Kind() Kind        { return KindFirewall }
func (f FirewallRule) Subject() string { return f.Chain }
func (f FirewallRule) Fields() []Field {
	return []Field{
		{"chain", "Chain", f.Chain},
		{"target", "Target", f.Target},
		{"protocol", "Protocol", f.Protocol},
		{"source", "Source", f.Source},
		{"destination", "Destination", f.Destination},
		{"options", "Options", f.Options},
	}
}

// StartupItem is an autostart entry (systemd unit, rc.local line, @reboot cron, init.d script).
type StartupItem struct {
	Name    string
	Type    string
	Path    string
	Command string
}

func (StartupItem) Kind() Kind        { return KindStartup }
func (s StartupItem) Subject() string { return s.Name }
func (s StartupItem) Fields() []Field {
	return []Field{
		{"name", "Name", s.Name},
		{"type", "Type", s.Type},
		{"path", "Path", s.Path},
		{"command", "Command", s.Command},
	}
}

// IsSystemd reports whether the item is managed by systemd.
func (s StartupItem) IsSystemd() bool {
	return s.Type == "systemd"
}

// Program is the first whitespace-separated word of the command.
func (s StartupItem) Program() string {
	return firstWord(s.Command)
}

func firstWord(command string) string {
	word, _, _ := strings.Cut(command, " ")
	return word
}

var requiredFields = map[Kind][]string{
	KindProcess:  {"pid"},
	KindNetwork:  {"foreign"},
	KindService:  {"name"},
	KindUser:     {"username"},
	KindCron:     {"user", "command"},
	KindFirewall: {"chain"},
	KindStartup:  {"name"},
}

// FromFields builds an entity snapshot from key/value pairs, as typed on the
// command line ("pid=1234"). Unknown keys are rejected so typos do not turn
// into empty interpolations.
func FromFields(kind Kind, fields map[string]string) (Entity, error) {
	required, ok := requiredFields[kind]
	if !ok {
		return nil, fmt.Errorf("unknown entity kind %q", kind)
	}
	for _, key := range required {
		if strings.TrimSpace(fields[key]) == "" {
			return nil, fmt.Errorf("%s: field %q is required", kind, key)
		}
	}

	var e Entity
	switch kind {
	case KindProcess:
		e = Process{PID: fields["pid"]}
	case KindNetwork:
		e = NetworkConnection{
			Protocol:       fields["protocol"],
			LocalAddress:   fields["local"],
			ForeignAddress: fields["foreign"],
			State:          fields["state"],
			PID:            fields["pid"],
			Process:        fields["process"],
		}
	case KindService:
		e = Service{Name: fields["name"]}
	case KindUser:
		e = User{Username: fields["username"]}
	case KindCron:
		e = CronJob{User: fields["user"], Schedule: fields["schedule"], Command: fields["command"]}
	case KindFirewall:
		e = FirewallRule{
			Chain:       fields["chain"],
			Target:      fields["target"],
			Protocol:    fields["protocol"],
			Source:      fields["source"],
			Destination: fields["destination"],
			Options:     fields["options"],
		}
	case KindStartup:
		e = StartupItem{Name: fields["name"], Type: fields["type"], Path: fields["path"], Command: fields["command"]}
	}

	known := make(map[string]struct{})
	for _, f := range e.Fields() {
		known[f.Key] = struct{}{}
	}
	var unknown []string
	for key := range fields {
		if _, ok := known[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%s: unknown field(s) %s", kind, strings.Join(unknown, ", "))
	}
	return e, nil
}

// ParseFields splits "key=value" arguments. The value may contain '='.
func ParseFields(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		key = strings.ToLower(strings.TrimSpace(key))
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", arg)
		}
		out[key] = value
	}
	return out, nil
}

// Describe renders the snapshot as "Label: value" lines.
func Describe(e Entity) string {
	var b strings.Builder
	for i, f := range e.Fields() {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s: %s", f.Label, f.Value)
	}
	return b.String()
}
