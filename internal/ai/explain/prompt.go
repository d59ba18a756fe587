package explain

import (
	"fmt"
	"strings"

	"github.com/rcourtman/irconsole/internal/entity"
)

type persona struct {
	intro    string
	subject  string
	findings []string
}

var defaultFindings = []string{
	"Summary",
	"Key findings",
	"Security assessment (if applicable)",
	"Recommended actions (if applicable)",
}

var personas = map[entity.Kind]persona{
	entity.KindProcess: {
		intro:   "You are a Linux system security expert, skilled at analyzing process information, network connections and system logs. Explain the information the user provides in concise, professional language, focusing on security risks and anomalies.",
		subject: "information",
	},
	entity.KindNetwork: {
		intro:   "You are a network security expert, skilled at analyzing network connections, ports and traffic. Explain the information the user provides in concise, professional language, focusing on security risks and anomalies.",
		subject: "network information",
	},
	entity.KindService: {
		intro:   "You are a Linux system administration expert, skilled at analyzing system services and their state. Explain the information the user provides in concise, professional language, focusing on service health and anomalies.",
		subject: "service information",
		findings: []string{
			"Summary",
			"Key findings",
			"Status assessment",
			"Recommended actions (if applicable)",
		},
	},
	entity.KindUser: {
		intro:   "You are a Linux user management and security expert, skilled at analyzing accounts, groups and privileges. Explain the information the user provides in concise, professional language, focusing on security risks and anomalies.",
		subject: "user information",
	},
	entity.KindCron: {
		intro:   "You are a Linux system administration expert, skilled at analyzing cron jobs and scheduled tasks. Explain the information the user provides in concise, professional language, focusing on persistence mechanisms and anomalies.",
		subject: "scheduled task information",
	},
	entity.KindFirewall: {
		intro:   "You are a network security and firewall configuration expert, skilled at analyzing iptables, firewalld and ufw rules. Explain the information the user provides in concise, professional language, focusing on exposure and misconfiguration.",
		subject: "firewall information",
		findings: []string{
			"Summary",
			"Key findings",
			"Security assessment (if applicable)",
			"Configuration suggestions (if applicable)",
		},
	},
	entity.KindStartup: {
		intro:   "You are a Linux boot process and security expert, skilled at analyzing startup items, systemd units and autostart persistence. Explain the information the user provides in concise, professional language, focusing on security risks and anomalies.",
		subject: "startup item information",
	},
}

// BuildPrompt assembles the system prompt for kind. Title and content are
// embedded verbatim.
func BuildPrompt(kind entity.Kind, title, content string) string {
	p, ok := personas[kind]
	if !ok {
		p = personas[entity.KindProcess]
	}
	findings := p.findings
	if findings == nil {
		findings = defaultFindings
	}

	var b strings.Builder
	b.WriteString(p.intro)
	fmt.Fprintf(&b, "\n\nPlease analyze and explain the following %s:\n\n", p.subject)
	fmt.Fprintf(&b, "Title: %s\n\n", title)
	fmt.Fprintf(&b, "Content:\n%s\n\n", content)
	b.WriteString("Please provide:")
	for i, f := range findings {
		fmt.Fprintf(&b, "\n%d. %s", i+1, f)
	}
	return b.String()
}

// Content is what an explanation is asked about: the command that ran and
// the output shown for it.
func Content(command, output string) string {
	if command == "" {
		return output
	}
	return "Command: " + command + "\n\n" + output
}
