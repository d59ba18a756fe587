package catalog

// manualStartup is the fallback for non-systemd items whose action can only
// be performed by hand.
func manualStartup(what string) string {
	return `echo "Startup type: {{type}}"; echo ""; echo "` + what + `"`
}

var startupActions = []Action{
	{
		Key: "details", Label: "Show details", Category: CategoryInfo,
		Title:   "Startup item - {{name}}",
		Command: `echo "=== Startup item ==="; echo ""; echo "Name: {{name}}"; echo "Type: {{type}}"; echo "Path: {{path}}"; echo "Command: {{command}}"; echo ""; if [ "{{type}}" = "systemd" ]; then systemctl show {{name}} 2>/dev/null || echo "Cannot read details"; fi`,
	},
	{
		Key: "command", Label: "Show command", Category: CategoryInfo,
		Title:   "Command - {{name}}",
		Command: `echo "=== Command ==="; echo ""; echo "{{command}}"; echo ""; echo "=== Resolution ==="; which {{program}} 2>/dev/null || echo "Command path: not found"`,
	},
	{
		Key: "file-path", Label: "Show file", Category: CategoryInfo,
		Title:   "File - {{name}}",
		Command: `echo "=== File ==="; echo ""; echo "{{path}}"; echo ""; ls -la "{{path}}" 2>/dev/null || echo "File does not exist or is not accessible"`,
	},
	{
		Key: "enable", Label: "Enable autostart", Category: CategoryManagement,
		Title:      "Enable autostart - {{name}}",
		Command:    `systemctl enable {{name}} 2>&1 && echo "✓ Autostart enabled" || echo "✗ Enable failed"`,
		NonSystemd: manualStartup("⚠️ This type of startup item must be configured by hand"),
	},
	{
		Key: "disable", Label: "Disable autostart", Category: CategoryManagement,
		Title:      "Disable autostart - {{name}}",
		Command:    `systemctl disable {{name}} 2>&1 && echo "✓ Autostart disabled" || echo "✗ Disable failed"`,
		NonSystemd: manualStartup("⚠️ This type of startup item must be configured by hand"),
	},
	{
		Key: "run-now", Label: "Run now", Category: CategoryManagement,
		Title:      "Run now - {{name}}",
		Command:    `systemctl start {{name}} 2>&1 || echo "Start failed"`,
		NonSystemd: `{{command}} 2>&1 &`,
	},
	{
		Key: "startup-type", Label: "Explain startup type", Category: CategoryInfo,
		Title:   "Startup type - {{name}}",
		Command: `echo "=== Startup type ==="; echo ""; echo "Type: {{type}}"; echo ""; case "{{type}}" in systemd) echo "systemd unit, managed by systemd";; rc.local) echo "Legacy boot script in /etc/rc.local";; cron) echo "@reboot cron job";; init.d) echo "SysV init script";; *) echo "Other";; esac`,
	},
	{
		Key: "config-location", Label: "Show config location", Category: CategoryInfo,
		Title:   "Config location - {{name}}",
		Command: `echo "=== Config location ==="; echo ""; echo "{{path}}"; echo ""; dirname "{{path}}" | xargs ls -la 2>/dev/null || echo "Directory not accessible"`,
	},
	{
		Key: "view-config", Label: "Show config", Category: CategoryInfo,
		Title:   "Config - {{name}}",
		Command: `cat "{{path}}" 2>/dev/null || systemctl cat {{name}} 2>/dev/null || echo "Cannot read config"`,
	},
	{
		Key: "suspicious-path", Label: "Check for suspicious paths", Category: CategorySecurityCheck,
		Title:   "Suspicious path check - {{name}}",
		Command: `echo "=== Suspicious path check ==="; echo ""; echo "File: {{path}}"; echo "Command: {{command}}"; echo ""; if [[ "{{path}}" =~ ^(/tmp|/dev/shm|/var/tmp) ]]; then echo "⚠️ File is in a suspicious directory: {{path}}"; else echo "✓ File path looks normal"; fi; echo ""; if [[ "{{command}}" =~ ^(/tmp|/dev/shm|/var/tmp) ]]; then echo "⚠️ Command is in a suspicious directory"; else echo "✓ Command path looks normal"; fi`,
	},
	{
		Key: "file-signature", Label: "Show file signature", Category: CategorySecurityCheck,
		Title:   "File signature - {{name}}",
		Command: `echo "=== File signature ==="; echo ""; file "{{path}}" 2>/dev/null || echo "Cannot determine file type"; echo ""; md5sum "{{path}}" 2>/dev/null || echo "Cannot compute MD5"; echo ""; sha256sum "{{path}}" 2>/dev/null || echo "Cannot compute SHA256"`,
	},
	{
		Key: "modification-time", Label: "Show modification time", Category: CategorySecurityCheck,
		Title:   "Modification time - {{name}}",
		Command: `echo "=== Modification time ==="; echo ""; stat "{{path}}" 2>/dev/null || ls -la "{{path}}" 2>/dev/null || echo "Cannot stat file"; echo ""; echo "=== Recent change check ==="; find "{{path}}" -mtime -7 2>/dev/null && echo "⚠️ Modified in the last 7 days" || echo "✓ Not modified in the last 7 days"`,
	},
	{
		Key: "malware-check", Label: "Check for malware indicators", Category: CategorySecurityCheck,
		Title:   "Malware indicators - {{name}}",
		Command: `echo "=== Malware indicators ==="; echo ""; echo "File: {{path}}"; echo ""; echo "1. Suspicious strings:"; strings "{{path}}" 2>/dev/null | grep -iE "(wget|curl|/tmp|/dev/shm|nc -|bash -i|/bin/sh)" | head -10 || echo "None found"; echo ""; echo "2. Network code:"; strings "{{path}}" 2>/dev/null | grep -iE "(socket|connect|bind|listen)" | head -5 || echo "None found"; echo ""; echo "⚠️ Use a dedicated scanner for a full check"`,
	},
	{
		Key: "dependencies", Label: "Show dependencies", Category: CategoryInfo,
		Title:      "Dependencies - {{name}}",
		Command:    `systemctl list-dependencies {{name}} --no-pager 2>/dev/null || echo "Cannot read dependencies"`,
		NonSystemd: manualStartup("Dependencies of this type must be checked in its config by hand"),
	},
	{
		Key: "boot-order", Label: "Show boot order", Category: CategoryInfo,
		Title:      "Boot order - {{name}}",
		Command:    `systemd-analyze critical-chain {{name}} 2>/dev/null || echo "Cannot read boot order"`,
		NonSystemd: manualStartup("Boot order of this type must be analyzed by hand"),
	},
	{
		Key: "boot-time", Label: "Show boot time impact", Category: CategoryInfo,
		Title:      "Boot time impact - {{name}}",
		Command:    `systemd-analyze blame | grep {{name}} 2>/dev/null || echo "Cannot read boot time impact"; echo ""; echo "=== System boot ==="; systemd-analyze time 2>/dev/null`,
		NonSystemd: manualStartup("Boot time of this type must be measured by hand"),
	},
	{
		Key: "resource-usage", Label: "Show resource usage", Category: CategoryInfo,
		Title:      "Resource usage - {{name}}",
		Command:    `systemctl status {{name}} 2>/dev/null | grep -E "(CPU|Memory|Tasks)" || echo "Not running or no resource data"`,
		NonSystemd: `ps aux | grep "{{command}}" | grep -v grep || echo "Not running"`,
	},
	{
		Key: "startup-logs", Label: "Show startup logs", Category: CategoryLogQuery,
		Title:      "Startup logs - {{name}}",
		Command:    `journalctl -u {{name}} -n 50 --no-pager 2>/dev/null || echo "Cannot read logs"`,
		NonSystemd: manualStartup("Logs of this type must be located by hand"),
	},
	{
		Key: "error-logs", Label: "Show error logs", Category: CategoryLogQuery,
		Title:      "Error logs - {{name}}",
		Command:    `journalctl -u {{name}} -p err -n 30 --no-pager 2>/dev/null || echo "No error logs"`,
		NonSystemd: `grep -i error /var/log/syslog 2>/dev/null | grep "{{name}}" | tail -30 || echo "No error logs"`,
	},
	{
		Key: "run-history", Label: "Show run history", Category: CategoryLogQuery,
		Title:      "Run history - {{name}}",
		Command:    `journalctl -u {{name}} --no-pager 2>/dev/null | grep -E "(Started|Stopped)" | tail -20 || echo "No runs recorded"`,
		NonSystemd: `grep "{{name}}" /var/log/syslog 2>/dev/null | tail -20 || echo "No runs recorded"`,
	},
	{
		Key: "delay-start", Label: "Show start timeouts", Category: CategoryInfo,
		Title:      "Start timeouts - {{name}}",
		Command:    `echo "=== Start timeouts ==="; echo ""; systemctl show {{name}} --property=TimeoutStartUSec,TimeoutStopUSec 2>/dev/null || echo "Cannot read timeouts"`,
		NonSystemd: manualStartup("Delays of this type must be configured by hand"),
	},
	{
		Key: "backup", Label: "Back up config", Category: CategoryManagement,
		Title:   "Back up config - {{name}}",
		Command: `echo "=== Config backup ==="; echo ""; echo "Name: {{name}}"; echo "Type: {{type}}"; echo "Path: {{path}}"; echo "Command: {{command}}"; echo ""; echo "=== Config contents ==="; cat "{{path}}" 2>/dev/null || systemctl cat {{name}} 2>/dev/null || echo "Cannot read config"`,
	},
}
