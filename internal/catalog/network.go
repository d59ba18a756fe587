package catalog

var networkActions = []Action{
	{
		Key: "connection-details", Label: "Show connection details", Category: CategoryInfo,
		Title:  "Connection details",
		Inline: true,
	},
	{
		Key: "whois", Label: "WHOIS lookup", Category: CategoryInfo,
		Title:   "WHOIS - {{foreign_ip}}",
		Command: `whois {{foreign_ip}} 2>/dev/null || echo "whois is not available, install it with: apt install whois or yum install whois"`,
	},
	{
		Key: "geolocation", Label: "Geolocation lookup", Category: CategoryInfo,
		Title:   "Geolocation - {{foreign_ip}}",
		Command: `curl -s "http://ip-api.com/json/{{foreign_ip}}" 2>/dev/null || echo "Geolocation lookup failed, check network connectivity"`,
	},
	{
		Key: "reverse-dns", Label: "Reverse DNS lookup", Category: CategoryNetworkDiagnostics,
		Title:   "Reverse DNS - {{foreign_ip}}",
		Command: `dig -x {{foreign_ip}} +short 2>/dev/null || nslookup {{foreign_ip}} 2>/dev/null | grep "name =" || echo "Reverse DNS lookup failed"`,
	},
	{
		Key: "ip-type", Label: "Classify IP address", Category: CategoryInfo,
		Title:   "IP type - {{foreign_ip}}",
		Command: `echo "IP address: {{foreign_ip}}"; echo ""; if [[ "{{foreign_ip}}" =~ ^10\. ]] || [[ "{{foreign_ip}}" =~ ^172\.(1[6-9]|2[0-9]|3[01])\. ]] || [[ "{{foreign_ip}}" =~ ^192\.168\. ]]; then echo "✓ Private address"; elif [[ "{{foreign_ip}}" =~ ^127\. ]]; then echo "✓ Loopback address"; elif [[ "{{foreign_ip}}" =~ ^169\.254\. ]]; then echo "✓ Link-local address"; elif [[ "{{foreign_ip}}" =~ ^224\. ]] || [[ "{{foreign_ip}}" =~ ^239\. ]]; then echo "✓ Multicast address"; else echo "✓ Public address"; fi`,
	},
	{
		Key: "port-service", Label: "Identify port service", Category: CategoryInfo,
		Title:   "Port service - {{foreign_port}}",
		Command: `echo "Port: {{foreign_port}}"; echo ""; grep -w {{foreign_port}} /etc/services 2>/dev/null | head -5 || echo "No standard service definition"; echo ""; echo "Well-known services:"; case {{foreign_port}} in 80) echo "HTTP";; 443) echo "HTTPS";; 22) echo "SSH";; 21) echo "FTP";; 25) echo "SMTP";; 3306) echo "MySQL";; 5432) echo "PostgreSQL";; 6379) echo "Redis";; 27017) echo "MongoDB";; 3389) echo "RDP";; *) echo "Unknown service";; esac`,
	},
	{
		Key: "port-process", Label: "Show process using port", Category: CategoryNetworkDiagnostics,
		Title:   "Port owner - {{local_port}}",
		Command: `lsof -nP -i :{{local_port}} 2>/dev/null || ss -tlnp | grep ":{{local_port}}" 2>/dev/null || echo "Cannot determine the owning process"`,
	},
	{
		Key: "port-test", Label: "Test port reachability", Category: CategoryNetworkDiagnostics,
		Title:   "Port reachability - {{foreign_ip}}:{{foreign_port}}",
		Command: `timeout 3 bash -c "echo > /dev/tcp/{{foreign_ip}}/{{foreign_port}}" 2>/dev/null && echo "✓ Port {{foreign_port}} is reachable" || echo "✗ Port {{foreign_port}} is unreachable or timed out"`,
	},
	{
		Key: "ping", Label: "Ping", Category: CategoryNetworkDiagnostics,
		Title:   "Ping - {{foreign_ip}}",
		Command: `ping -c 4 {{foreign_ip}} 2>/dev/null || echo "Ping failed or insufficient permissions"`,
	},
	{
		Key: "traceroute", Label: "Traceroute", Category: CategoryNetworkDiagnostics,
		Title:   "Traceroute - {{foreign_ip}}",
		Command: `traceroute -m 15 {{foreign_ip}} 2>/dev/null || tracepath {{foreign_ip}} 2>/dev/null || echo "traceroute is not available"`,
	},
	{
		Key: "latency", Label: "Measure latency", Category: CategoryNetworkDiagnostics,
		Title:   "Latency - {{foreign_ip}}",
		Command: `ping -c 10 {{foreign_ip}} 2>/dev/null | tail -1 | awk -F'/' '{print "Average latency: "$5" ms"}' || echo "Cannot measure latency"`,
	},
	{
		Key: "tcp-test", Label: "Test TCP connection", Category: CategoryNetworkDiagnostics,
		Title:   "TCP test - {{foreign_ip}}:{{foreign_port}}",
		Command: `timeout 5 bash -c "echo -e 'GET / HTTP/1.0\r\n\r\n' > /dev/tcp/{{foreign_ip}}/{{foreign_port}}" 2>/dev/null && echo "✓ TCP connection succeeded" || echo "✗ TCP connection failed"`,
	},
	{
		Key: "threat-intel", Label: "Threat intelligence", Category: CategorySecurityCheck,
		Title:   "Threat intelligence - {{foreign_ip}}",
		Command: `echo "Threat intelligence - {{foreign_ip}}"; echo ""; echo "⚠️ This lookup needs an API key"; echo ""; echo "Suggested services:"; echo "1. VirusTotal: https://www.virustotal.com/"; echo "2. AbuseIPDB: https://www.abuseipdb.com/"; echo "3. IPVoid: https://www.ipvoid.com/"; echo ""; echo "IP: {{foreign_ip}}"; echo "Port: {{foreign_port}}"; echo "Protocol: {{protocol}}"`,
	},
	{
		Key: "blacklist-check", Label: "Check blacklists", Category: CategorySecurityCheck,
		Title:   "Blacklist check - {{foreign_ip}}",
		Command: `echo "Blacklist check - {{foreign_ip}}"; echo ""; echo "Checking common blacklists..."; echo ""; host {{foreign_ip}}.zen.spamhaus.org 2>/dev/null && echo "⚠️ Listed by Spamhaus" || echo "✓ Not listed by Spamhaus"; host {{foreign_ip}}.dnsbl.sorbs.net 2>/dev/null && echo "⚠️ Listed by SORBS" || echo "✓ Not listed by SORBS"`,
	},
	{
		Key: "anomaly-detect", Label: "Detect anomalies", Category: CategorySecurityCheck,
		Title:   "Anomaly check - {{foreign_ip}}:{{foreign_port}}",
		Command: `echo "Anomaly check - {{foreign_ip}}:{{foreign_port}}"; echo ""; echo "1. Port range:"; if [ {{foreign_port}} -lt 1024 ]; then echo "⚠️ Privileged port (<1024)"; else echo "✓ Unprivileged port"; fi; echo ""; echo "2. Well-known port:"; case {{foreign_port}} in 22|80|443|3306|5432|6379|27017) echo "✓ Common service port";; *) echo "⚠️ Uncommon port, investigate";; esac; echo ""; echo "3. State:"; echo "State: {{state}}"; echo ""; echo "4. Process:"; echo "{{process}}"`,
	},
	{
		Key: "connection-freq", Label: "Analyze connection frequency", Category: CategorySecurityCheck,
		Title:   "Connection frequency - {{foreign_ip}}",
		Command: `echo "Connection frequency - {{foreign_ip}}"; echo ""; echo "Current connections:"; ss -tn | grep "{{foreign_ip}}" | wc -l; echo ""; echo "All connections:"; ss -tn | grep "{{foreign_ip}}" | head -20`,
	},
	{
		Key: "block-ip", Label: "Block IP", Category: CategoryManagement,
		Title:   "Block IP - {{foreign_ip}}",
		Command: `echo "Block IP: {{foreign_ip}}"; echo ""; if command -v iptables >/dev/null 2>&1; then echo "Using iptables..."; echo "Command: iptables -A INPUT -s {{foreign_ip}} -j DROP"; echo "⚠️ Requires root"; echo ""; echo "Run: sudo iptables -A INPUT -s {{foreign_ip}} -j DROP"; else echo "⚠️ iptables is not available"; fi`,
	},
	{
		Key: "allow-ip", Label: "Allow IP", Category: CategoryManagement,
		Title:   "Allow IP - {{foreign_ip}}",
		Command: `echo "Allow IP: {{foreign_ip}}"; echo ""; if command -v iptables >/dev/null 2>&1; then echo "Using iptables..."; echo "Command: iptables -D INPUT -s {{foreign_ip}} -j DROP"; echo "⚠️ Requires root"; echo ""; echo "Run: sudo iptables -D INPUT -s {{foreign_ip}} -j DROP"; else echo "⚠️ iptables is not available"; fi`,
	},
	{
		Key: "firewall-rules", Label: "Show firewall rules", Category: CategoryManagement,
		Title:   "Firewall rules - {{foreign_ip}}",
		Command: `echo "Firewall rules - {{foreign_ip}}"; echo ""; if command -v iptables >/dev/null 2>&1; then echo "=== iptables ==="; iptables -L -n | grep "{{foreign_ip}}" || echo "No matching rules"; elif command -v firewall-cmd >/dev/null 2>&1; then echo "=== firewalld ==="; firewall-cmd --list-all; else echo "⚠️ No firewall tool available"; fi`,
	},
	{
		Key: "temp-block", Label: "Block IP for 5 minutes", Category: CategoryManagement,
		Title:   "Temporary block - {{foreign_ip}}",
		Command: `echo "Temporarily block IP (5 minutes): {{foreign_ip}}"; echo ""; echo "Command: iptables -A INPUT -s {{foreign_ip}} -j DROP && sleep 300 && iptables -D INPUT -s {{foreign_ip}} -j DROP"; echo "⚠️ Requires root"; echo ""; echo "Run: sudo bash -c 'iptables -A INPUT -s {{foreign_ip}} -j DROP && sleep 300 && iptables -D INPUT -s {{foreign_ip}} -j DROP &'"`,
	},
	{
		Key: "connection-history", Label: "Show connection history", Category: CategoryLogQuery,
		Title:   "Connection history - {{foreign_ip}}",
		Command: `echo "Connection history - {{foreign_ip}}"; echo ""; echo "=== Recent records ==="; journalctl -n 100 | grep "{{foreign_ip}}" || echo "No connection history"`,
	},
	{
		Key: "access-log", Label: "Search access logs", Category: CategoryLogQuery,
		Title:   "Access log - {{foreign_ip}}",
		Command: `echo "Access log - {{foreign_ip}}"; echo ""; echo "=== Nginx ==="; grep "{{foreign_ip}}" /var/log/nginx/access.log 2>/dev/null | tail -20 || echo "No Nginx log"; echo ""; echo "=== Apache ==="; grep "{{foreign_ip}}" /var/log/apache2/access.log 2>/dev/null | tail -20 || grep "{{foreign_ip}}" /var/log/httpd/access_log 2>/dev/null | tail -20 || echo "No Apache log"`,
	},
	{
		Key: "security-log", Label: "Search security logs", Category: CategoryLogQuery,
		Title:   "Security log - {{foreign_ip}}",
		Command: `echo "Security log - {{foreign_ip}}"; echo ""; echo "=== Authentication log ==="; grep "{{foreign_ip}}" /var/log/auth.log 2>/dev/null | tail -20 || grep "{{foreign_ip}}" /var/log/secure 2>/dev/null | tail -20 || echo "No authentication log"; echo ""; echo "=== System journal ==="; journalctl -n 50 | grep "{{foreign_ip}}" || echo "No journal entries"`,
	},
	{
		Key: "disconnect", Label: "Kill connection", Category: CategoryManagement,
		Title:   "Disconnect - {{foreign_ip}}:{{foreign_port}}",
		Command: `echo "Disconnect - {{foreign_ip}}:{{foreign_port}}"; echo ""; echo "⚠️ Requires root"; echo ""; echo "Looking up connection..."; ss -K dst {{foreign_ip}} dport = {{foreign_port}} 2>/dev/null && echo "✓ Connection closed" || echo "⚠️ Cannot close the connection (root required or ss lacks -K)"`,
	},
	{
		Key: "refresh", Label: "Refresh connection info", Category: CategoryInfo,
		Title:   "Refresh - {{foreign_ip}}",
		Command: `echo "Refreshing connection info..."; echo ""; ss -tunap | grep "{{foreign_ip}}" || echo "No connection info"`,
	},
}
