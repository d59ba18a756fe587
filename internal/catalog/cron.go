package catalog

var cronActions = []Action{
	{
		Key: "details", Label: "Show job details", Category: CategoryInfo,
		Title:   "Cron job - {{user}}",
		Command: `echo "=== Cron job ==="; echo ""; echo "User: {{user}}"; echo "Schedule: {{schedule}}"; echo "Command: {{command}}"; echo ""; echo "=== Status ==="; crontab -u {{user}} -l 2>/dev/null | grep -F "{{command}}" || echo "The job may have been removed or changed"`,
	},
	{
		Key: "schedule", Label: "Show schedule", Category: CategoryInfo,
		Title:   "Schedule - {{schedule}}",
		Command: `echo "=== Schedule ==="; echo ""; echo "Expression: {{schedule}}"; echo ""; echo "Fields:"; echo "minute(0-59) hour(0-23) day(1-31) month(1-12) weekday(0-7)"; echo ""; echo "This expression:"; echo "{{schedule}}" | awk '{print "Minute: "$1; print "Hour: "$2; print "Day: "$3; print "Month: "$4; print "Weekday: "$5}'`,
	},
	{
		Key: "command", Label: "Show command", Category: CategoryInfo,
		Title:   "Command - {{command_short}}",
		Command: `echo "=== Command ==="; echo ""; echo "{{command}}"; echo ""; echo "=== Resolution ==="; which {{program}} 2>/dev/null || echo "Command path: not found or not in PATH"`,
	},
	{
		Key: "run-now", Label: "Run now", Category: CategoryManagement,
		Title:   "Run now - {{command_short}}",
		Command: `echo "Running cron job now"; echo ""; echo "User: {{user}}"; echo "Command: {{command}}"; echo ""; echo "Running..."; echo ""; {{command}}`,
	},
	{
		Key: "test-command", Label: "Syntax-check command", Category: CategoryManagement,
		Title:   "Syntax check - {{command_short}}",
		Command: `echo "=== Syntax check ==="; echo ""; echo "Command: {{command}}"; echo ""; echo "Checking syntax..."; bash -n -c "{{command}}" 2>&1 && echo "✓ Syntax OK" || echo "✗ Syntax error"; echo ""; echo "⚠️ Only the syntax is checked, a real run may need more"`,
	},
	{
		Key: "view-crontab", Label: "Show full crontab", Category: CategoryInfo,
		Title:   "Crontab - {{user}}",
		Command: `crontab -u {{user}} -l 2>/dev/null || echo "User {{user}} has no crontab"`,
	},
	{
		Key: "execution-logs", Label: "Show execution logs", Category: CategoryLogQuery,
		Title:   "Execution logs - {{command_short}}",
		Command: `echo "=== Execution logs ==="; echo ""; echo "Keyword: {{program}}"; echo ""; grep CRON /var/log/syslog 2>/dev/null | grep "{{user}}" | grep "{{program}}" | tail -50 || journalctl -u cron 2>/dev/null | grep "{{user}}" | grep "{{program}}" | tail -50 || echo "No execution logs or logs not readable"`,
	},
	{
		Key: "recent-runs", Label: "Show recent runs", Category: CategoryLogQuery,
		Title:   "Recent runs - {{user}}",
		Command: `echo "=== Recent runs ==="; echo ""; grep CRON /var/log/syslog 2>/dev/null | grep "({{user}})" | tail -20 || journalctl -u cron 2>/dev/null | grep "{{user}}" | tail -20 || echo "No runs recorded"`,
	},
	{
		Key: "error-logs", Label: "Show error logs", Category: CategoryLogQuery,
		Title:   "Error logs - {{user}}",
		Command: `echo "=== Error logs ==="; echo ""; grep -i "error\|fail\|cron" /var/log/syslog 2>/dev/null | grep "{{user}}" | tail -30 || journalctl -p err 2>/dev/null | grep cron | grep "{{user}}" | tail -30 || echo "No error logs"`,
	},
	{
		Key: "parse-cron", Label: "Explain expression", Category: CategoryInfo,
		Title:   "Expression - {{schedule}}",
		Command: `echo "=== Cron expression ==="; echo ""; echo "Expression: {{schedule}}"; echo ""; if [[ "{{schedule}}" == "@hourly" ]]; then echo "Meaning: every hour (0 * * * *)"; elif [[ "{{schedule}}" == "@daily" ]] || [[ "{{schedule}}" == "@midnight" ]]; then echo "Meaning: every day at midnight (0 0 * * *)"; elif [[ "{{schedule}}" == "@weekly" ]]; then echo "Meaning: Sundays at midnight (0 0 * * 0)"; elif [[ "{{schedule}}" == "@monthly" ]]; then echo "Meaning: first of the month at midnight (0 0 1 * *)"; elif [[ "{{schedule}}" == "@yearly" ]] || [[ "{{schedule}}" == "@annually" ]]; then echo "Meaning: January 1st at midnight (0 0 1 1 *)"; elif [[ "{{schedule}}" == "@reboot" ]]; then echo "Meaning: at boot"; else echo "Standard cron expression"; echo "{{schedule}}" | awk '{print "Minute: "$1" (0-59)"; print "Hour: "$2" (0-23)"; print "Day: "$3" (1-31)"; print "Month: "$4" (1-12)"; print "Weekday: "$5" (0-7, 0 and 7 are Sunday)"}'; fi`,
	},
	{
		Key: "next-run", Label: "Show next run", Category: CategoryInfo,
		Title:   "Next run - {{schedule}}",
		Command: `echo "=== Next run ==="; echo ""; echo "Now: $(date '+%Y-%m-%d %H:%M:%S')"; echo "Schedule: {{schedule}}"; echo ""; echo "⚠️ Exact calculation needs a tool such as croniter"; echo ""; if [[ "{{schedule}}" == "@hourly" ]]; then echo "Next run: top of the next hour"; elif [[ "{{schedule}}" == "@daily" ]]; then echo "Next run: tomorrow 00:00"; elif [[ "{{schedule}}" == "@weekly" ]]; then echo "Next run: next Sunday 00:00"; elif [[ "{{schedule}}" == "@monthly" ]]; then echo "Next run: the 1st of next month 00:00"; else echo "Standard cron expression, use a cron calculator"; fi`,
	},
	{
		Key: "frequency", Label: "Analyze frequency", Category: CategoryInfo,
		Title:   "Frequency - {{schedule}}",
		Command: `echo "=== Frequency ==="; echo ""; echo "Schedule: {{schedule}}"; echo ""; if [[ "{{schedule}}" == "@hourly" ]]; then echo "Frequency: once an hour"; echo "Per day: 24"; echo "Per month: ~720"; elif [[ "{{schedule}}" == "@daily" ]]; then echo "Frequency: once a day"; echo "Per month: ~30"; echo "Per year: 365"; elif [[ "{{schedule}}" == "@weekly" ]]; then echo "Frequency: once a week"; echo "Per month: ~4"; echo "Per year: 52"; elif [[ "{{schedule}}" == "@monthly" ]]; then echo "Frequency: once a month"; echo "Per year: 12"; elif [[ "{{schedule}}" =~ ^\*.*\*.*\*.*\*.*\*$ ]]; then echo "Frequency: every minute"; echo "Per hour: 60"; echo "Per day: 1440"; else echo "Custom frequency"; echo "Derive it from the expression"; fi`,
	},
	{
		Key: "security-check", Label: "Check command safety", Category: CategorySecurityCheck,
		Title:   "Safety check - {{command_short}}",
		Command: `echo "=== Command safety ==="; echo ""; echo "Command: {{command}}"; echo ""; echo "1. Destructive commands:"; if echo "{{command}}" | grep -qE "rm -rf|dd if=|mkfs|fdisk|>/dev/"; then echo "⚠️ Contains destructive commands"; else echo "✓ No obvious destructive commands"; fi; echo ""; echo "2. Network activity:"; if echo "{{command}}" | grep -qE "wget|curl|nc|telnet|ssh"; then echo "⚠️ Contains network commands"; else echo "✓ No network commands"; fi; echo ""; echo "3. Privilege escalation:"; if echo "{{command}}" | grep -qE "sudo|su -"; then echo "⚠️ Contains privilege escalation"; else echo "✓ No privilege escalation"; fi`,
	},
	{
		Key: "check-path", Label: "Check command path", Category: CategorySecurityCheck,
		Title:   "Path check - {{program}}",
		Command: `echo "=== Path check ==="; echo ""; cmd_name="{{program}}"; echo "Command: $cmd_name"; echo ""; which "$cmd_name" 2>/dev/null && echo "" && ls -la $(which "$cmd_name") 2>/dev/null || echo "⚠️ Command is not in PATH or does not exist"`,
	},
	{
		Key: "suspicious-check", Label: "Check for suspicious patterns", Category: CategorySecurityCheck,
		Title:   "Suspicious patterns - {{command_short}}",
		Command: `echo "=== Suspicious pattern check ==="; echo ""; echo "Command: {{command}}"; echo ""; echo "Checks:"; echo ""; echo "1. Encoding/obfuscation:"; if echo "{{command}}" | grep -qE "base64|eval|exec"; then echo "⚠️ May be encoded or obfuscated"; else echo "✓ No encoding found"; fi; echo ""; echo "2. Reverse shell:"; if echo "{{command}}" | grep -qE "bash -i|/bin/sh|nc.*-e"; then echo "⚠️ May be a reverse shell"; else echo "✓ No reverse shell indicators"; fi; echo ""; echo "3. Download and execute:"; if echo "{{command}}" | grep -qE "curl.*\||wget.*\||chmod\+x"; then echo "⚠️ May download and execute a file"; else echo "✓ No download-and-execute"; fi`,
	},
	{
		Key: "backup", Label: "Back up crontab", Category: CategoryManagement,
		Title:   "Back up crontab - {{user}}",
		Command: `echo "=== Crontab backup ==="; echo ""; backup_file="/tmp/crontab_{{user}}_$(date +%Y%m%d_%H%M%S).bak"; crontab -u {{user}} -l > "$backup_file" 2>/dev/null && echo "✓ Backup written" && echo "File: $backup_file" && echo "" && cat "$backup_file" || echo "✗ Backup failed"`,
	},
	{
		Key: "export", Label: "Export job", Category: CategoryInfo,
		Title:   "Export - {{command_short}}",
		Command: `echo "=== Export ==="; echo ""; echo "User: {{user}}"; echo "Schedule: {{schedule}}"; echo "Command: {{command}}"; echo ""; echo "JSON:"; echo "{"; echo '  "user": "'{{user}}'",'; echo '  "schedule": "'{{schedule}}'",'; echo '  "command": "'{{command}}'"'; echo "}"`,
	},
}
