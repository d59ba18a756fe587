package catalog

const noFirewallTool = `echo "⚠️ No firewall tool found"`

var firewallActions = []Action{
	{
		Key: "rule-details", Label: "Show rule details", Category: CategoryInfo,
		Title:  "Firewall rule details",
		Inline: true,
	},
	{
		Key: "list-all-rules", Label: "List all rules", Category: CategoryInfo,
		Title:   "All firewall rules",
		Command: `if command -v iptables >/dev/null 2>&1; then echo "=== iptables ==="; iptables -L -n -v --line-numbers; elif command -v firewall-cmd >/dev/null 2>&1; then echo "=== firewalld ==="; firewall-cmd --list-all; elif command -v ufw >/dev/null 2>&1; then echo "=== UFW ==="; ufw status verbose; else ` + noFirewallTool + `; fi`,
	},
	{
		Key: "list-chain-rules", Label: "List chain rules", Category: CategoryInfo,
		Title:   "{{chain}} chain rules",
		Command: `if command -v iptables >/dev/null 2>&1; then echo "=== {{chain}} chain ==="; iptables -L {{chain}} -n -v --line-numbers; else echo "⚠️ iptables is not available"; fi`,
	},
	{
		Key: "save-rules", Label: "Save rules", Category: CategoryManagement,
		Title:   "Save firewall rules",
		Command: `if command -v iptables-save >/dev/null 2>&1; then iptables-save > /etc/iptables/rules.v4 2>/dev/null && echo "✓ iptables rules saved" || echo "⚠️ Save failed, root required"; elif command -v firewall-cmd >/dev/null 2>&1; then firewall-cmd --runtime-to-permanent && echo "✓ firewalld rules saved"; elif command -v ufw >/dev/null 2>&1; then echo "✓ UFW saves rules automatically"; else ` + noFirewallTool + `; fi`,
	},
	{
		Key: "restore-rules", Label: "Restore rules", Category: CategoryManagement,
		Title:   "Restore firewall rules",
		Command: `if command -v iptables-restore >/dev/null 2>&1; then iptables-restore < /etc/iptables/rules.v4 2>/dev/null && echo "✓ iptables rules restored" || echo "⚠️ Restore failed, root required"; elif command -v firewall-cmd >/dev/null 2>&1; then firewall-cmd --reload && echo "✓ firewalld reloaded"; else ` + noFirewallTool + `; fi`,
	},
	{
		Key: "block-source-ip", Label: "Block source IP", Category: CategoryManagement,
		Title:   "Block source IP - {{source}}",
		Command: `if command -v iptables >/dev/null 2>&1; then echo "Block source IP: {{source}}"; echo "Command: iptables -A INPUT -s {{source}} -j DROP"; echo "⚠️ Requires root"; else echo "⚠️ iptables is not available"; fi`,
	},
	{
		Key: "allow-source-ip", Label: "Allow source IP", Category: CategoryManagement,
		Title:   "Allow source IP - {{source}}",
		Command: `if command -v iptables >/dev/null 2>&1; then echo "Allow source IP: {{source}}"; echo "Command: iptables -D INPUT -s {{source}} -j DROP"; echo "⚠️ Requires root"; else echo "⚠️ iptables is not available"; fi`,
	},
	{
		Key: "block-dest-ip", Label: "Block destination IP", Category: CategoryManagement,
		Title:   "Block destination IP - {{destination}}",
		Command: `if command -v iptables >/dev/null 2>&1; then echo "Block destination IP: {{destination}}"; echo "Command: iptables -A OUTPUT -d {{destination}} -j DROP"; echo "⚠️ Requires root"; else echo "⚠️ iptables is not available"; fi`,
	},
	{
		Key: "ip-whitelist", Label: "Allowlist source IP", Category: CategoryManagement,
		Title:   "Allowlist - {{source}}",
		Command: `if command -v iptables >/dev/null 2>&1; then echo "Allowlist: {{source}}"; echo "Command: iptables -I INPUT -s {{source}} -j ACCEPT"; echo "⚠️ Requires root"; else echo "⚠️ iptables is not available"; fi`,
	},
	{
		Key: "open-port", Label: "Open port", Category: CategoryManagement,
		Title:   "Open port",
		Command: `port=$(echo "{{options}}" | grep -oP 'dpt:\K[0-9]+' || echo "unknown"); if [ "$port" != "unknown" ]; then if command -v iptables >/dev/null 2>&1; then echo "Open port: $port"; echo "Command: iptables -A INPUT -p {{protocol}} --dport $port -j ACCEPT"; echo "⚠️ Requires root"; elif command -v firewall-cmd >/dev/null 2>&1; then echo "Command: firewall-cmd --add-port=$port/{{protocol}} --permanent"; echo "⚠️ Requires root"; elif command -v ufw >/dev/null 2>&1; then echo "Command: ufw allow $port/{{protocol}}"; echo "⚠️ Requires root"; else ` + noFirewallTool + `; fi; else echo "⚠️ The rule has no port"; fi`,
	},
	{
		Key: "close-port", Label: "Close port", Category: CategoryManagement,
		Title:   "Close port",
		Command: `port=$(echo "{{options}}" | grep -oP 'dpt:\K[0-9]+' || echo "unknown"); if [ "$port" != "unknown" ]; then if command -v iptables >/dev/null 2>&1; then echo "Close port: $port"; echo "Command: iptables -A INPUT -p {{protocol}} --dport $port -j DROP"; echo "⚠️ Requires root"; elif command -v firewall-cmd >/dev/null 2>&1; then echo "Command: firewall-cmd --remove-port=$port/{{protocol}} --permanent"; echo "⚠️ Requires root"; elif command -v ufw >/dev/null 2>&1; then echo "Command: ufw deny $port/{{protocol}}"; echo "⚠️ Requires root"; else ` + noFirewallTool + `; fi; else echo "⚠️ The rule has no port"; fi`,
	},
	{
		Key: "port-forward", Label: "Port forwarding", Category: CategoryManagement,
		Title:   "Port forwarding",
		Command: `echo "Port forwarding"; echo "⚠️ Requires root"; echo ""; echo "Example:"; echo "iptables -t nat -A PREROUTING -p tcp --dport 80 -j REDIRECT --to-port 8080"`,
	},
	{
		Key: "list-open-ports", Label: "List open ports", Category: CategoryNetworkDiagnostics,
		Title:   "Open ports",
		Command: `if command -v iptables >/dev/null 2>&1; then echo "=== Open ports ==="; iptables -L INPUT -n | grep ACCEPT | grep -oP 'dpt:\K[0-9]+' | sort -u; elif command -v firewall-cmd >/dev/null 2>&1; then firewall-cmd --list-ports; elif command -v ufw >/dev/null 2>&1; then ufw status | grep ALLOW; else ` + noFirewallTool + `; fi`,
	},
	{
		Key: "firewall-status", Label: "Show firewall status", Category: CategoryInfo,
		Title:   "Firewall status",
		Command: `if command -v iptables >/dev/null 2>&1; then echo "=== iptables ==="; iptables -L -n | head -20; elif command -v firewall-cmd >/dev/null 2>&1; then echo "=== firewalld ==="; firewall-cmd --state; firewall-cmd --get-active-zones; elif command -v ufw >/dev/null 2>&1; then echo "=== UFW ==="; ufw status verbose; else ` + noFirewallTool + `; fi`,
	},
	{
		Key: "rule-statistics", Label: "Rule statistics", Category: CategoryInfo,
		Title:   "Rule statistics",
		Command: `if command -v iptables >/dev/null 2>&1; then echo "=== Rule statistics ==="; echo "Total: $(iptables -L | grep -c '^Chain\|^target')"; echo ""; echo "Per chain:"; for chain in INPUT OUTPUT FORWARD; do echo "$chain: $(iptables -L $chain -n | grep -c '^ACCEPT\|^DROP\|^REJECT')"; done; else echo "⚠️ iptables is not available"; fi`,
	},
	{
		Key: "recent-logs", Label: "Show recent logs", Category: CategoryLogQuery,
		Title:   "Firewall logs",
		Command: `echo "=== Recent firewall logs ==="; echo ""; journalctl -u firewalld -n 50 2>/dev/null || journalctl | grep -i firewall | tail -50 2>/dev/null || grep -i firewall /var/log/syslog | tail -50 2>/dev/null || echo "⚠️ Cannot read logs"`,
	},
	{
		Key: "test-rule", Label: "Test rule", Category: CategoryNetworkDiagnostics,
		Title:   "Test rule",
		Command: `echo "=== Test rule ==="; echo ""; echo "Rule: {{chain}} {{target}} {{protocol}} {{source}} {{destination}}"; echo ""; echo "Testing connection..."; echo "⚠️ A real test depends on the specific rule"`,
	},
	{
		Key: "default-policy", Label: "Show default policy", Category: CategoryInfo,
		Title:   "Default policy",
		Command: `if command -v iptables >/dev/null 2>&1; then echo "=== Default policy ==="; iptables -L | grep "Chain" | grep "policy"; else echo "⚠️ iptables is not available"; fi`,
	},
	{
		Key: "set-drop-policy", Label: "Set DROP policy", Category: CategoryManagement,
		Title:   "Set DROP policy",
		Command: `echo "Set DROP policy"; echo ""; echo "Commands:"; echo "iptables -P INPUT DROP"; echo "iptables -P OUTPUT DROP"; echo "iptables -P FORWARD DROP"; echo ""; echo "⚠️ Requires root"`,
	},
	{
		Key: "set-accept-policy", Label: "Set ACCEPT policy", Category: CategoryManagement,
		Title:   "Set ACCEPT policy",
		Command: `echo "Set ACCEPT policy"; echo ""; echo "Commands:"; echo "iptables -P INPUT ACCEPT"; echo "iptables -P OUTPUT ACCEPT"; echo "iptables -P FORWARD ACCEPT"; echo ""; echo "⚠️ Requires root"`,
	},
	{
		Key: "rate-limit", Label: "Rate limiting", Category: CategoryManagement,
		Title:   "Rate limiting",
		Command: `echo "Rate limiting example"; echo ""; echo "Limit connection rate:"; echo "iptables -A INPUT -p tcp --dport 80 -m limit --limit 25/minute --limit-burst 100 -j ACCEPT"; echo ""; echo "⚠️ Requires root"`,
	},
	{
		Key: "delete-rule", Label: "Delete rule", Category: CategoryManagement,
		Title:   "Delete rule",
		Command: `echo "Delete rule"; echo ""; echo "⚠️ Requires root"; echo ""; echo "Example:"; echo "iptables -D {{chain}} <rule number>"`,
	},
	{
		Key: "refresh", Label: "Refresh rule list", Category: CategoryInfo,
		Title:   "Refresh rule list",
		Command: `echo "Refreshing firewall rules..."; if command -v iptables >/dev/null 2>&1; then iptables -L -n -v --line-numbers; elif command -v firewall-cmd >/dev/null 2>&1; then firewall-cmd --list-all; elif command -v ufw >/dev/null 2>&1; then ufw status verbose; else ` + noFirewallTool + `; fi`,
	},
}
