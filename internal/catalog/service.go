package catalog

var serviceActions = []Action{
	{
		Key: "status", Label: "Show service status", Category: CategoryInfo,
		Title:   "Service status - {{name}}",
		Command: `systemctl status {{name}} 2>/dev/null || service {{name}} status 2>/dev/null || echo "Cannot read service status"`,
	},
	{
		Key: "config", Label: "Show configuration", Category: CategoryInfo,
		Title:   "Configuration - {{name}}",
		Command: `systemctl cat {{name}} 2>/dev/null || cat /etc/init.d/{{name}} 2>/dev/null || echo "Configuration file not found"`,
	},
	{
		Key: "details", Label: "Show details", Category: CategoryInfo,
		Title:   "Details - {{name}}",
		Command: `systemctl show {{name}} 2>/dev/null || echo "Cannot read service details"`,
	},
	{
		Key: "start", Label: "Start service", Category: CategoryManagement,
		Title:   "Start - {{name}}",
		Command: `systemctl start {{name}} 2>&1 || service {{name}} start 2>&1`,
	},
	{
		Key: "stop", Label: "Stop service", Category: CategoryManagement,
		Title:   "Stop - {{name}}",
		Command: `systemctl stop {{name}} 2>&1 || service {{name}} stop 2>&1`,
	},
	{
		Key: "restart", Label: "Restart service", Category: CategoryManagement,
		Title:   "Restart - {{name}}",
		Command: `systemctl restart {{name}} 2>&1 || service {{name}} restart 2>&1`,
	},
	{
		Key: "reload", Label: "Reload configuration", Category: CategoryManagement,
		Title:   "Reload - {{name}}",
		Command: `systemctl reload {{name}} 2>&1 || service {{name}} reload 2>&1 || echo "This service does not support reload"`,
	},
	{
		Key: "enable", Label: "Enable at boot", Category: CategoryManagement,
		Title:   "Enable at boot - {{name}}",
		Command: `systemctl enable {{name}} 2>&1 && echo "✓ Enabled at boot" || echo "✗ Enable failed"`,
	},
	{
		Key: "disable", Label: "Disable at boot", Category: CategoryManagement,
		Title:   "Disable at boot - {{name}}",
		Command: `systemctl disable {{name}} 2>&1 && echo "✓ Disabled at boot" || echo "✗ Disable failed"`,
	},
	{
		Key: "logs", Label: "Show logs", Category: CategoryLogQuery,
		Title:   "Logs - {{name}}",
		Command: `journalctl -u {{name}} -n 100 --no-pager 2>/dev/null || tail -100 /var/log/{{name}}.log 2>/dev/null || echo "Cannot read logs"`,
	},
	{
		Key: "errors", Label: "Show error logs", Category: CategoryLogQuery,
		Title:   "Error logs - {{name}}",
		Command: `journalctl -u {{name}} -p err -n 50 --no-pager 2>/dev/null || grep -i error /var/log/{{name}}.log 2>/dev/null | tail -50 || echo "No error logs"`,
	},
	{
		Key: "live-logs", Label: "Show latest logs", Category: CategoryLogQuery,
		Title:   "Latest logs - {{name}}",
		Command: `echo "Latest 20 log lines:"; echo ""; journalctl -u {{name}} -n 20 --no-pager 2>/dev/null || tail -20 /var/log/{{name}}.log 2>/dev/null || echo "Cannot read logs"`,
	},
	{
		Key: "dependencies", Label: "Show dependencies", Category: CategoryInfo,
		Title:   "Dependencies - {{name}}",
		Command: `systemctl list-dependencies {{name}} --no-pager 2>/dev/null || echo "Cannot read dependencies"`,
	},
	{
		Key: "reverse-dependencies", Label: "Show reverse dependencies", Category: CategoryInfo,
		Title:   "Reverse dependencies - {{name}}",
		Command: `systemctl list-dependencies {{name}} --reverse --no-pager 2>/dev/null || echo "Cannot read reverse dependencies"`,
	},
	{
		Key: "service-tree", Label: "Show service tree", Category: CategoryInfo,
		Title:   "Service tree - {{name}}",
		Command: `systemctl list-dependencies {{name}} --all --no-pager 2>/dev/null || echo "Cannot read service tree"`,
	},
	{
		Key: "cpu-usage", Label: "Show CPU usage", Category: CategoryInfo,
		Title:   "CPU usage - {{name}}",
		Command: `echo "=== CPU usage ==="; echo ""; systemctl status {{name}} 2>/dev/null | grep "CPU:" || ps aux | grep {{name}} | grep -v grep | awk '{print "CPU: "$3"%"}' || echo "Cannot read CPU usage"`,
	},
	{
		Key: "memory-usage", Label: "Show memory usage", Category: CategoryInfo,
		Title:   "Memory usage - {{name}}",
		Command: `echo "=== Memory usage ==="; echo ""; systemctl status {{name}} 2>/dev/null | grep "Memory:" || ps aux | grep {{name}} | grep -v grep | awk '{print "Memory: "$4"% ("$6" KB)"}' || echo "Cannot read memory usage"`,
	},
	{
		Key: "process-list", Label: "Show processes", Category: CategoryInfo,
		Title:   "Processes - {{name}}",
		Command: `systemctl status {{name}} 2>/dev/null | grep -A 20 "CGroup:" || ps aux | grep {{name}} | grep -v grep || echo "Cannot list processes"`,
	},
	{
		Key: "open-files", Label: "Show open files", Category: CategoryInfo,
		Title:   "Open files - {{name}}",
		Command: `pid=$(systemctl show {{name}} --property=MainPID --value 2>/dev/null); if [ -n "$pid" ] && [ "$pid" != "0" ]; then lsof -p $pid 2>/dev/null | head -50 || echo "Cannot list open files"; else echo "Service is not running or has no main PID"; fi`,
	},
	{
		Key: "run-user", Label: "Show run-as user", Category: CategorySecurityCheck,
		Title:   "Run-as user - {{name}}",
		Command: `systemctl show {{name}} --property=User,Group,UID,GID 2>/dev/null || ps aux | grep {{name}} | grep -v grep | awk '{print "User: "$1}' || echo "Cannot determine the run-as user"`,
	},
	{
		Key: "permissions", Label: "Show sandboxing", Category: CategorySecurityCheck,
		Title:   "Sandboxing - {{name}}",
		Command: `systemctl show {{name}} --property=CapabilityBoundingSet,AmbientCapabilities,NoNewPrivileges,PrivateTmp,ProtectSystem,ProtectHome 2>/dev/null || echo "Cannot read sandboxing settings"`,
	},
	{
		Key: "security-check", Label: "Check hardening", Category: CategorySecurityCheck,
		Title:   "Hardening check - {{name}}",
		Command: `echo "=== Hardening check ==="; echo ""; systemctl show {{name}} --property=User,DynamicUser,PrivateTmp,ProtectSystem,ProtectHome,NoNewPrivileges,PrivateDevices,ProtectKernelTunables,ProtectControlGroups,RestrictRealtime 2>/dev/null || echo "Cannot read hardening settings"`,
	},
	{
		Key: "edit-service", Label: "Show unit file", Category: CategoryManagement,
		Title:   "Unit file - {{name}}",
		Command: `systemctl cat {{name}} 2>/dev/null || cat /etc/init.d/{{name}} 2>/dev/null || cat /lib/systemd/system/{{name}}.service 2>/dev/null || echo "Unit file not found"`,
	},
	{
		Key: "timer", Label: "Show timers", Category: CategoryInfo,
		Title:   "Timers - {{name}}",
		Command: `systemctl list-timers --all | grep {{name}} || echo "No timer is associated with this service"`,
	},
	{
		Key: "environment", Label: "Show environment", Category: CategoryInfo,
		Title:   "Environment - {{name}}",
		Command: `systemctl show {{name}} --property=Environment,EnvironmentFiles 2>/dev/null || echo "Cannot read environment"`,
	},
}
