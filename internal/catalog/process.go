package catalog

var processActions = []Action{
	{
		Key: "cmdline", Label: "Get command line", Category: CategoryInfo,
		Title:   "Process {{pid}} - Command line",
		Command: `cat /proc/{{pid}}/cmdline | tr '\0' ' '`,
	},
	{
		Key: "exe", Label: "Get executable path", Category: CategoryInfo,
		Title:   "Process {{pid}} - Executable path",
		Command: `ls -l /proc/{{pid}}/exe 2>/dev/null || echo "Not accessible"`,
	},
	{
		Key: "cwd", Label: "Get working directory", Category: CategoryInfo,
		Title:   "Process {{pid}} - Working directory",
		Command: `ls -l /proc/{{pid}}/cwd 2>/dev/null || echo "Not accessible"`,
	},
	{
		Key: "status", Label: "Get process status", Category: CategoryInfo,
		Title:   "Process {{pid}} - Status/permissions",
		Command: `cat /proc/{{pid}}/status 2>/dev/null || echo "Not accessible"`,
	},
	{
		Key: "capabilities", Label: "Get capabilities", Category: CategorySecurityCheck,
		Title:   "Process {{pid}} - Capabilities",
		Command: `grep Cap /proc/{{pid}}/status 2>/dev/null || echo "Not accessible"`,
	},
	{
		Key: "uid", Label: "Get UID/GID", Category: CategoryInfo,
		Title:   "Process {{pid}} - UID/GID",
		Command: `grep -E "^(Uid|Gid|Groups):" /proc/{{pid}}/status 2>/dev/null || echo "Not accessible"`,
	},
	{
		Key: "fd", Label: "Get open files", Category: CategoryInfo,
		Title:   "Process {{pid}} - Open files (first 100)",
		Command: `ls -l /proc/{{pid}}/fd 2>/dev/null | head -100 || echo "Not accessible"`,
	},
	{
		Key: "maps", Label: "Get memory map", Category: CategoryInfo,
		Title:   "Process {{pid}} - Memory map (first 100 lines)",
		Command: `cat /proc/{{pid}}/maps 2>/dev/null | head -100 || echo "Not accessible"`,
	},
	{
		Key: "limits", Label: "Get resource limits", Category: CategoryInfo,
		Title:   "Process {{pid}} - Resource limits",
		Command: `cat /proc/{{pid}}/limits 2>/dev/null || echo "Not accessible"`,
	},
	{
		Key: "network", Label: "Get network connections", Category: CategoryNetworkDiagnostics,
		Title:   "Process {{pid}} - Network connections",
		Command: `lsof -nP -i -a -p {{pid}} 2>/dev/null || (ss -tnp 2>/dev/null | grep "pid={{pid}}"; ss -unp 2>/dev/null | grep "pid={{pid}}") || echo "No network connections or insufficient permissions"`,
	},
	{
		Key: "ports", Label: "Get listening ports", Category: CategoryNetworkDiagnostics,
		Title:   "Process {{pid}} - Listening ports",
		Command: `lsof -nP -i -a -p {{pid}} 2>/dev/null | grep LISTEN || ss -tlnp 2>/dev/null | grep "pid={{pid}}" || ss -ulnp 2>/dev/null | grep "pid={{pid}}" || echo "No listening ports or insufficient permissions"`,
	},
	{
		Key: "netstat", Label: "Get detailed network state", Category: CategoryNetworkDiagnostics,
		Title:   "Process {{pid}} - Detailed network state",
		Command: `echo "=== TCP connections ==="; lsof -nP -i TCP -a -p {{pid}} 2>/dev/null || ss -tnp 2>/dev/null | grep "pid={{pid}}" || echo "No TCP connections"; echo ""; echo "=== UDP connections ==="; lsof -nP -i UDP -a -p {{pid}} 2>/dev/null || ss -unp 2>/dev/null | grep "pid={{pid}}" || echo "No UDP connections"; echo ""; echo "=== Socket file descriptors ==="; ls -l /proc/{{pid}}/fd 2>/dev/null | grep socket || echo "No socket file descriptors"`,
	},
	{
		Key: "dns", Label: "Get DNS activity", Category: CategoryNetworkDiagnostics,
		Title:   "Process {{pid}} - DNS activity",
		Command: `lsof -p {{pid}} 2>/dev/null | grep -i dns || echo "No DNS activity"`,
	},
	{
		Key: "pstree", Label: "Get process tree", Category: CategoryInfo,
		Title:   "Process {{pid}} - Process tree",
		Command: `pstree -p {{pid}} 2>/dev/null || echo "pstree is not available"`,
	},
	{
		Key: "children", Label: "Get child processes", Category: CategoryInfo,
		Title:   "Process {{pid}} - Child processes",
		Command: `ls /proc/{{pid}}/task/*/children 2>/dev/null | xargs cat 2>/dev/null || echo "No child processes"`,
	},
	{
		Key: "parent", Label: "Get parent process", Category: CategoryInfo,
		Title:   "Process {{pid}} - Parent process",
		Command: `cat /proc/{{pid}}/status 2>/dev/null | grep PPid | awk '{print $2}' | xargs -I {} ps -p {} -o pid,user,cmd 2>/dev/null || echo "Cannot determine parent process"`,
	},
	{
		Key: "io", Label: "Get I/O statistics", Category: CategoryInfo,
		Title:   "Process {{pid}} - I/O statistics",
		Command: `cat /proc/{{pid}}/io 2>/dev/null || echo "Not accessible"`,
	},
	{
		Key: "threads", Label: "Get thread count", Category: CategoryInfo,
		Title:   "Process {{pid}} - Thread count",
		Command: `ls /proc/{{pid}}/task 2>/dev/null | wc -l || echo "Not accessible"`,
	},
	{
		Key: "memory", Label: "Get memory usage", Category: CategoryInfo,
		Title:   "Process {{pid}} - Memory usage",
		Command: `cat /proc/{{pid}}/status 2>/dev/null | grep -E "^Vm" || echo "Not accessible"`,
	},
	{
		Key: "cpu", Label: "Get CPU affinity", Category: CategoryInfo,
		Title:   "Process {{pid}} - CPU affinity",
		Command: `taskset -cp {{pid}} 2>/dev/null || echo "Cannot read CPU affinity"`,
	},
	{
		Key: "cpu-usage", Label: "Get CPU usage", Category: CategoryInfo,
		Title:   "Process {{pid}} - CPU usage",
		Command: `echo "=== CPU usage ==="; echo ""; ps -p {{pid}} -o pid,ppid,%cpu,%mem,vsz,rss,tty,stat,start,time,cmd 2>/dev/null || echo "Unavailable"; echo ""; echo "=== Live CPU usage (5 second sample) ==="; for i in {1..5}; do ps -p {{pid}} -o %cpu --no-headers 2>/dev/null && sleep 1; done | awk '{sum+=$1; count++} END {if(count>0) print "Average CPU usage: " sum/count "%"; else print "Process has exited"}'`,
	},
	{
		Key: "context-switches", Label: "Get context switches", Category: CategoryInfo,
		Title:   "Process {{pid}} - Context switches",
		Command: `echo "=== Context switches ==="; echo ""; cat /proc/{{pid}}/status 2>/dev/null | grep -E "^(voluntary_ctxt_switches|nonvoluntary_ctxt_switches):" || echo "Not accessible"; echo ""; echo "Notes:"; echo "voluntary_ctxt_switches: the process gave up the CPU"; echo "nonvoluntary_ctxt_switches: the scheduler preempted the process"`,
	},
	{
		Key: "oom-score", Label: "Get OOM score", Category: CategoryInfo,
		Title:   "Process {{pid}} - OOM score",
		Command: `echo "=== OOM (Out Of Memory) score ==="; echo ""; echo "OOM Score: $(cat /proc/{{pid}}/oom_score 2>/dev/null || echo 'not accessible')"; echo "OOM Score Adj: $(cat /proc/{{pid}}/oom_score_adj 2>/dev/null || echo 'not accessible')"; echo "OOM Adj: $(cat /proc/{{pid}}/oom_adj 2>/dev/null || echo 'not accessible')"; echo ""; echo "Notes:"; echo "- OOM Score: kernel score (0-1000), higher is killed first"; echo "- OOM Score Adj: administrator adjustment (-1000 to 1000)"; echo "- OOM Adj: legacy adjustment (-17 to 15)"; echo ""; echo "Likelihood of being killed by the OOM killer: $(cat /proc/{{pid}}/oom_score 2>/dev/null | awk '{if($1<100) print "low"; else if($1<500) print "medium"; else print "high"}' || echo 'unknown')"`,
	},
	{
		Key: "scheduler", Label: "Get scheduling policy", Category: CategoryInfo,
		Title:   "Process {{pid}} - Scheduling policy",
		Command: `echo "=== Scheduling policy and priority ==="; echo ""; cat /proc/{{pid}}/stat 2>/dev/null | awk '{print "Policy: " $41; print "Priority: " $18; print "Nice: " $19; print "RT priority: " $40}' || echo "Not accessible"; echo ""; echo "Process state:"; ps -p {{pid}} -o pid,pri,ni,rtprio,sched,stat,wchan:20,cmd 2>/dev/null || echo "Unavailable"; echo ""; echo "Notes:"; echo "- PRI: priority (lower runs first)"; echo "- NI: nice value (-20 to 19)"; echo "- RTPRIO: realtime priority (1-99, realtime only)"; echo "- SCHED: policy (TS=normal, FF=FIFO, RR=round-robin)"`,
	},
	{
		Key: "stack", Label: "Get kernel stack", Category: CategoryInfo,
		Title:   "Process {{pid}} - Kernel stack",
		Command: `cat /proc/{{pid}}/stack 2>/dev/null || echo "Not accessible"`,
	},
	{
		Key: "environ", Label: "Get environment", Category: CategoryInfo,
		Title:   "Process {{pid}} - Environment",
		Command: `cat /proc/{{pid}}/environ 2>/dev/null | tr '\0' '\n' || echo "Not accessible"`,
	},
	{
		Key: "smaps", Label: "Get detailed memory map", Category: CategoryInfo,
		Title:   "Process {{pid}} - Detailed memory map (first 200 lines)",
		Command: `cat /proc/{{pid}}/smaps 2>/dev/null | head -200 || echo "Not accessible"`,
	},
	{
		Key: "syscalls", Label: "Get syscall statistics", Category: CategoryInfo,
		Title:   "Process {{pid}} - Syscall statistics",
		Command: `echo "=== Syscall statistics (5 second sample) ==="; echo ""; echo "Sampling..."; timeout 5 strace -c -p {{pid}} 2>&1 | tail -20 || echo "⚠️ Requires root or strace is not installed"; echo ""; echo "Shows the system calls made by the process during 5 seconds"`,
	},
	{
		Key: "signals", Label: "Get signal handling", Category: CategoryInfo,
		Title:   "Process {{pid}} - Signal handling",
		Command: `echo "=== Signal handling ==="; echo ""; cat /proc/{{pid}}/status 2>/dev/null | grep -E "^(Sig|Shd):" || echo "Not accessible"; echo ""; echo "Notes:"; echo "SigQ: signal queue"; echo "SigPnd: pending signals"; echo "ShdPnd: shared pending signals"; echo "SigBlk: blocked signals"; echo "SigIgn: ignored signals"; echo "SigCgt: caught signals"`,
	},
	{
		Key: "namespaces", Label: "Get namespaces", Category: CategorySecurityCheck,
		Title:   "Process {{pid}} - Namespaces",
		Command: `echo "=== Namespaces ==="; echo ""; ls -l /proc/{{pid}}/ns/ 2>/dev/null || echo "Not accessible"; echo ""; echo "=== Namespace types ==="; echo "- mnt: mount points"; echo "- uts: hostname and domain"; echo "- ipc: inter-process communication"; echo "- pid: process IDs"; echo "- net: network stack"; echo "- user: user and group IDs"; echo "- cgroup: cgroup root"`,
	},
	{
		Key: "cgroup", Label: "Get cgroup", Category: CategoryInfo,
		Title:   "Process {{pid}} - Cgroup",
		Command: `echo "=== Cgroup ==="; echo ""; cat /proc/{{pid}}/cgroup 2>/dev/null || echo "Not accessible"; echo ""; echo "=== Cgroup limits ==="; cgroup_path=$(cat /proc/{{pid}}/cgroup 2>/dev/null | head -1 | cut -d: -f3); if [ -n "$cgroup_path" ]; then echo "CPU quota:"; cat /sys/fs/cgroup/cpu$cgroup_path/cpu.cfs_quota_us 2>/dev/null || echo "unlimited"; echo "Memory limit:"; cat /sys/fs/cgroup/memory$cgroup_path/memory.limit_in_bytes 2>/dev/null | awk '{if($1==9223372036854771712) print "unlimited"; else print $1/1024/1024 "MB"}' || echo "unlimited"; else echo "No cgroup path found"; fi`,
	},
	{
		Key: "container", Label: "Detect container", Category: CategorySecurityCheck,
		Title:   "Process {{pid}} - Container detection",
		Command: `echo "=== Container detection ==="; echo ""; echo "1. /.dockerenv:"; [ -f /.dockerenv ] && echo "✓ Docker container detected" || echo "✗ No Docker container detected"; echo ""; echo "2. cgroup:"; cat /proc/{{pid}}/cgroup 2>/dev/null | grep -qE "docker|lxc|kubepods" && echo "✓ Container cgroup detected" || echo "✗ No container cgroup detected"; echo ""; echo "3. Namespaces:"; ls -l /proc/{{pid}}/ns/ 2>/dev/null | wc -l | awk '{if($1>4) print "✓ Possibly containerized (several namespaces)"; else print "✗ Probably not containerized"}'; echo ""; echo "4. Container type:"; cat /proc/{{pid}}/cgroup 2>/dev/null | grep -oE "docker|lxc|kubepods|containerd" | head -1 || echo "unknown"`,
	},
	{
		Key: "uptime", Label: "Get process uptime", Category: CategoryInfo,
		Title:   "Process {{pid}} - Uptime",
		Command: `echo "=== Process uptime ==="; echo ""; start_time=$(cat /proc/{{pid}}/stat 2>/dev/null | awk '{print $22}'); system_uptime=$(cat /proc/uptime | awk '{print $1}'); if [ -n "$start_time" ]; then hz=$(getconf CLK_TCK); start_sec=$((start_time / hz)); current_sec=$(echo "$system_uptime" | cut -d. -f1); runtime=$((current_sec - start_sec)); days=$((runtime / 86400)); hours=$(((runtime % 86400) / 3600)); minutes=$(((runtime % 3600) / 60)); seconds=$((runtime % 60)); echo "Started: $(ps -p {{pid}} -o lstart --no-headers 2>/dev/null)"; echo "Uptime: ${days}d ${hours}h ${minutes}m ${seconds}s"; echo "Total seconds: ${runtime}"; else echo "Cannot determine uptime"; fi`,
	},
	{
		Key: "fd-stats", Label: "Get file descriptor statistics", Category: CategoryInfo,
		Title:   "Process {{pid}} - File descriptor statistics",
		Command: `echo "=== File descriptors ==="; echo ""; fd_count=$(ls /proc/{{pid}}/fd 2>/dev/null | wc -l); fd_limit=$(cat /proc/{{pid}}/limits 2>/dev/null | grep "Max open files" | awk '{print $4}'); echo "Open: $fd_count"; echo "Limit: $fd_limit"; echo "Usage: $(echo "scale=2; $fd_count * 100 / $fd_limit" | bc 2>/dev/null || echo 'n/a')%"; echo ""; echo "=== Descriptor types ==="; for fd in /proc/{{pid}}/fd/*; do readlink $fd 2>/dev/null; done | awk '{if(/^socket:/) print "socket"; else if(/^pipe:/) print "pipe"; else if(/^anon_inode:/) print "anon_inode"; else if(/^\//) print "file"; else print "other"}' | sort | uniq -c | sort -rn || echo "Not accessible"`,
	},
	{
		Key: "suspicious-path", Label: "Check for suspicious paths", Category: CategorySecurityCheck,
		Title:   "Process {{pid}} - Suspicious path check",
		Command: `exe=$(readlink /proc/{{pid}}/exe 2>/dev/null); cwd=$(readlink /proc/{{pid}}/cwd 2>/dev/null); echo "Executable: $exe"; echo "Working directory: $cwd"; echo ""; echo "Suspicious path check:"; [[ "$exe" =~ ^(/tmp|/dev/shm|/var/tmp) ]] && echo "⚠️ Executable is in a suspicious directory: $exe" || echo "✓ Executable path looks normal"; [[ "$cwd" =~ ^(/tmp|/dev/shm|/var/tmp) ]] && echo "⚠️ Working directory is suspicious: $cwd" || echo "✓ Working directory looks normal"`,
	},
	{
		Key: "hidden-process", Label: "Check for hidden process", Category: CategorySecurityCheck,
		Title:   "Process {{pid}} - Hidden process check",
		Command: `ps -p {{pid}} >/dev/null 2>&1 && echo "✓ Process is visible to ps" || echo "⚠️ Process is not visible to ps (possibly hidden)"; ls -la /proc/{{pid}} 2>/dev/null | head -5 || echo "⚠️ Cannot access /proc/{{pid}}"`,
	},
	{
		Key: "ld-preload", Label: "Check LD_PRELOAD", Category: CategorySecurityCheck,
		Title:   "Process {{pid}} - LD_PRELOAD check",
		Command: `cat /proc/{{pid}}/environ 2>/dev/null | tr '\0' '\n' | grep -E "^(LD_PRELOAD|LD_LIBRARY_PATH)=" && echo "⚠️ LD_PRELOAD or LD_LIBRARY_PATH is set" || echo "✓ No LD_PRELOAD found"`,
	},
	{
		Key: "deleted-exe", Label: "Check for deleted executable", Category: CategorySecurityCheck,
		Title:   "Process {{pid}} - Deleted executable check",
		Command: `ls -l /proc/{{pid}}/exe 2>/dev/null | grep deleted && echo "⚠️ Executable has been deleted (possibly malicious)" || echo "✓ Executable is still on disk"`,
	},
	{
		Key: "suspicious-network", Label: "Check for suspicious connections", Category: CategorySecurityCheck,
		Title:   "Process {{pid}} - Suspicious connection check",
		Command: `echo "Connections:"; ss -tnp 2>/dev/null | grep "pid={{pid}}"; echo ""; echo "Suspicious connection check:"; ss -tnp 2>/dev/null | grep "pid={{pid}}" | awk '{print $5}' | cut -d: -f1 | sort -u | while read ip; do echo "Connected to: $ip"; whois $ip 2>/dev/null | grep -E "^(Country|OrgName):" || echo "Lookup failed"; done`,
	},
	{
		Key: "crypto-mining", Label: "Check for crypto mining", Category: CategorySecurityCheck,
		Title:   "Process {{pid}} - Crypto mining check",
		Command: `echo "Crypto mining indicators:"; echo ""; echo "1. Command line:"; cat /proc/{{pid}}/cmdline 2>/dev/null | tr '\0' ' ' | grep -iE "(xmrig|minerd|cpuminer|stratum|pool|mining)" && echo "⚠️ Mining keywords found" || echo "✓ No mining keywords"; echo ""; echo "2. Network:"; ss -tnp 2>/dev/null | grep "pid={{pid}}" | grep -E ":(3333|4444|5555|8080|14444)" && echo "⚠️ Common mining pool port in use" || echo "✓ No mining pool ports"; echo ""; echo "3. CPU usage:"; ps -p {{pid}} -o %cpu,cmd 2>/dev/null`,
	},
	{
		Key: "kill", Label: "Terminate process", Category: CategoryManagement,
		Title:   "Process {{pid}} - Terminate",
		Command: `kill {{pid}} 2>&1 && echo "✓ Termination signal sent" || echo "✗ Termination failed"`,
	},
	{
		Key: "kill-9", Label: "Force kill process", Category: CategoryManagement,
		Title:   "Process {{pid}} - Force kill",
		Command: `kill -9 {{pid}} 2>&1 && echo "✓ Process killed" || echo "✗ Force kill failed"`,
	},
}
