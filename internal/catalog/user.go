package catalog

var userActions = []Action{
	{
		Key: "user-details", Label: "Show user details", Category: CategoryInfo,
		Title:   "User details - {{username}}",
		Command: `id {{username}} 2>/dev/null && echo "" && grep "^{{username}}:" /etc/passwd 2>/dev/null || echo "Cannot read user details"`,
	},
	{
		Key: "group-info", Label: "Show groups", Category: CategoryInfo,
		Title:   "Groups - {{username}}",
		Command: `groups {{username}} 2>/dev/null && echo "" && id {{username}} 2>/dev/null || echo "Cannot read groups"`,
	},
	{
		Key: "home-dir", Label: "Show home directory", Category: CategoryInfo,
		Title:   "Home directory - {{username}}",
		Command: `eval echo ~{{username}} | xargs -I {} sh -c 'echo "Home: {}" && ls -lad {} 2>/dev/null && echo "" && du -sh {} 2>/dev/null' || echo "Cannot read home directory"`,
	},
	{
		Key: "lock-user", Label: "Lock account", Category: CategoryManagement,
		Title:   "Lock account - {{username}}",
		Command: `echo "Lock user: {{username}}"; echo ""; echo "Command: passwd -l {{username}}"; echo "⚠️ Requires root"; echo ""; echo "Run: sudo passwd -l {{username}}"`,
	},
	{
		Key: "unlock-user", Label: "Unlock account", Category: CategoryManagement,
		Title:   "Unlock account - {{username}}",
		Command: `echo "Unlock user: {{username}}"; echo ""; echo "Command: passwd -u {{username}}"; echo "⚠️ Requires root"; echo ""; echo "Run: sudo passwd -u {{username}}"`,
	},
	{
		Key: "passwd-expire", Label: "Show password expiry", Category: CategoryInfo,
		Title:   "Password expiry - {{username}}",
		Command: `chage -l {{username}} 2>/dev/null || echo "⚠️ Root is required to read password expiry"`,
	},
	{
		Key: "user-status", Label: "Show account status", Category: CategoryInfo,
		Title:   "Account status - {{username}}",
		Command: `echo "=== Account status ==="; echo ""; passwd -S {{username}} 2>/dev/null || echo "⚠️ Requires root"; echo ""; echo "=== Last login ==="; lastlog -u {{username}} 2>/dev/null || echo "No login records"`,
	},
	{
		Key: "sudo-permissions", Label: "Show sudo rights", Category: CategorySecurityCheck,
		Title:   "Sudo rights - {{username}}",
		Command: `echo "=== sudo rights ==="; echo ""; sudo -l -U {{username}} 2>/dev/null || echo "⚠️ Requires root, or the user has no sudo rights"; echo ""; echo "=== sudoers ==="; grep -E "^{{username}}|^%.*{{username}}" /etc/sudoers 2>/dev/null || echo "No sudoers entry found"`,
	},
	{
		Key: "group-membership", Label: "Show group membership", Category: CategorySecurityCheck,
		Title:   "Group membership - {{username}}",
		Command: `echo "=== Groups ==="; echo ""; groups {{username}} 2>/dev/null; echo ""; echo "=== Details ==="; id {{username}} 2>/dev/null`,
	},
	{
		Key: "ssh-keys", Label: "Show SSH keys", Category: CategorySecurityCheck,
		Title:   "SSH keys - {{username}}",
		Command: `home=$(eval echo ~{{username}}); echo "=== Authorized keys ==="; echo ""; cat "$home/.ssh/authorized_keys" 2>/dev/null || echo "No authorized keys"; echo ""; echo "=== Private keys ==="; ls -la "$home/.ssh/" 2>/dev/null | grep -E "id_.*[^.pub]$" || echo "No private keys"`,
	},
	{
		Key: "login-history", Label: "Show login history", Category: CategoryLogQuery,
		Title:   "Login history - {{username}}",
		Command: `last {{username}} -n 20 2>/dev/null || echo "No login history"`,
	},
	{
		Key: "current-sessions", Label: "Show current sessions", Category: CategoryInfo,
		Title:   "Current sessions - {{username}}",
		Command: `who | grep "^{{username}} " || w {{username}} 2>/dev/null || echo "User is not logged in"`,
	},
	{
		Key: "failed-logins", Label: "Show failed logins", Category: CategoryLogQuery,
		Title:   "Failed logins - {{username}}",
		Command: `lastb {{username}} -n 20 2>/dev/null || grep "{{username}}" /var/log/auth.log 2>/dev/null | grep -i failed | tail -20 || echo "No failed logins"`,
	},
	{
		Key: "last-login", Label: "Show last login", Category: CategoryLogQuery,
		Title:   "Last login - {{username}}",
		Command: `lastlog -u {{username}} 2>/dev/null || last {{username}} -n 1 2>/dev/null || echo "No login records"`,
	},
	{
		Key: "user-processes", Label: "Show processes", Category: CategoryInfo,
		Title:   "Processes - {{username}}",
		Command: `ps -u {{username}} -o pid,ppid,%cpu,%mem,vsz,rss,tty,stat,start,time,cmd 2>/dev/null || echo "User has no running processes"`,
	},
	{
		Key: "disk-usage", Label: "Show disk usage", Category: CategoryInfo,
		Title:   "Disk usage - {{username}}",
		Command: `home=$(eval echo ~{{username}}); echo "=== Home directory usage ==="; echo ""; du -sh "$home" 2>/dev/null || echo "Unavailable"; echo ""; echo "=== Breakdown ==="; du -h --max-depth=1 "$home" 2>/dev/null | sort -hr | head -20 || echo "Unavailable"`,
	},
	{
		Key: "open-files", Label: "Show open files", Category: CategoryInfo,
		Title:   "Open files - {{username}}",
		Command: `lsof -u {{username}} 2>/dev/null | head -100 || echo "⚠️ Requires root, or the user has no open files"`,
	},
	{
		Key: "abnormal-login", Label: "Check unusual logins", Category: CategorySecurityCheck,
		Title:   "Unusual logins - {{username}}",
		Command: `echo "=== Unusual login check ==="; echo ""; echo "1. Off-hours logins:"; last {{username}} 2>/dev/null | awk '{if($7 ~ /[0-2][0-9]:[0-5][0-9]/ || $7 ~ /0[0-6]:[0-5][0-9]/) print}' | head -10 || echo "No records"; echo ""; echo "2. Login sources:"; last {{username}} -i 2>/dev/null | head -20 || echo "No records"`,
	},
	{
		Key: "crontab", Label: "Show scheduled jobs", Category: CategoryInfo,
		Title:   "Scheduled jobs - {{username}}",
		Command: `echo "=== User crontab ==="; echo ""; crontab -u {{username}} -l 2>/dev/null || echo "No crontab or insufficient permissions"; echo ""; echo "=== System cron ==="; grep -r "{{username}}" /etc/cron* 2>/dev/null | head -20 || echo "No matching system cron entries"`,
	},
	{
		Key: "ssh-config", Label: "Show SSH client config", Category: CategorySecurityCheck,
		Title:   "SSH config - {{username}}",
		Command: `home=$(eval echo ~{{username}}); echo "=== SSH client config ==="; echo ""; cat "$home/.ssh/config" 2>/dev/null || echo "No SSH config"; echo ""; echo "=== known_hosts ==="; wc -l "$home/.ssh/known_hosts" 2>/dev/null || echo "No known_hosts"`,
	},
	{
		Key: "suspicious-files", Label: "Check suspicious files", Category: CategorySecurityCheck,
		Title:   "Suspicious files - {{username}}",
		Command: `home=$(eval echo ~{{username}}); echo "=== Suspicious files ==="; echo ""; echo "1. Hidden files:"; find "$home" -name ".*" -type f 2>/dev/null | head -20; echo ""; echo "2. Modified in the last 7 days:"; find "$home" -type f -mtime -7 2>/dev/null | head -20`,
	},
	{
		Key: "suid-files", Label: "Find SUID files", Category: CategorySecurityCheck,
		Title:   "SUID files - {{username}}",
		Command: `home=$(eval echo ~{{username}}); echo "=== SUID files ==="; echo ""; find "$home" -perm -4000 -type f 2>/dev/null | head -20 || echo "No SUID files"; echo ""; echo "=== SGID files ==="; find "$home" -perm -2000 -type f 2>/dev/null | head -20 || echo "No SGID files"`,
	},
	{
		Key: "kill-sessions", Label: "Terminate all sessions", Category: CategoryManagement,
		Title:   "Terminate sessions - {{username}}",
		Command: `echo "Terminate sessions: {{username}}"; echo ""; echo "Command: pkill -u {{username}} or killall -u {{username}}"; echo "⚠️ Requires root"; echo ""; ps -u {{username}} -o pid,cmd 2>/dev/null || echo "User has no running processes"`,
	},
	{
		Key: "disable-ssh", Label: "Disable SSH login", Category: CategoryManagement,
		Title:   "Disable SSH login - {{username}}",
		Command: `echo "Disable SSH login: {{username}}"; echo ""; echo "Option 1: edit /etc/ssh/sshd_config"; echo "Add: DenyUsers {{username}}"; echo ""; echo "Option 2: PAM"; echo "Edit /etc/security/access.conf"; echo "Add: -:{{username}}:ALL"; echo ""; echo "⚠️ Requires root and an SSH daemon restart"`,
	},
}
