package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	gohost "github.com/shirou/gopsutil/v4/host"

	"github.com/rcourtman/irconsole/internal/agentexec"
)

var Version = "dev"

const defaultTokenFile = "/var/lib/irconsole-agent/token"

// Config is the resolved agent configuration.
type Config struct {
	URL      string
	Token    string
	AgentID  string
	Hostname string
	Tags     []string
	LogLevel zerolog.Level
	SelfTest bool
}

var readFile = os.ReadFile

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Getenv); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, getenv func(string) string) error {
	cfg, err := loadConfig(args, getenv)
	if err != nil {
		return err
	}

	zerolog.SetGlobalLevel(cfg.LogLevel)
	logger := zerolog.New(os.Stdout).Level(cfg.LogLevel).With().Timestamp().Logger()

	if cfg.SelfTest {
		logger.Info().Msg("Self-test passed: config loaded and logger initialized")
		return nil
	}

	hostname, agentID := identify(ctx, cfg, logger)
	client, err := agentexec.NewClient(agentexec.ClientConfig{
		URL:      cfg.URL,
		Token:    cfg.Token,
		AgentID:  agentID,
		Hostname: hostname,
		Platform: runtime.GOOS,
		Version:  Version,
		Tags:     cfg.Tags,
	}, logger)
	if err != nil {
		return err
	}

	logger.Info().
		Str("version", Version).
		Str("url", cfg.URL).
		Str("agent_id", agentID).
		Str("hostname", hostname).
		Msg("Starting irconsole agent")

	if err := client.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info().Msg("Agent stopped")
	return nil
}

// identify fills the hostname and agent ID from host info when not
// configured. The agent ID falls back to the hostname.
func identify(ctx context.Context, cfg Config, logger zerolog.Logger) (hostname, agentID string) {
	hostname, agentID = cfg.Hostname, cfg.AgentID
	if hostname == "" || agentID == "" {
		hCtx, hCancel := context.WithTimeout(ctx, 5*time.Second)
		info, err := gohost.InfoWithContext(hCtx)
		hCancel()
		if err == nil {
			if hostname == "" {
				hostname = strings.TrimSpace(info.Hostname)
			}
		} else {
			logger.Warn().Err(err).Msg("Failed to fetch host info")
		}
	}
	if hostname == "" {
		if name, err := os.Hostname(); err == nil {
			hostname = strings.TrimSpace(name)
		}
	}
	if agentID == "" {
		agentID = hostname
	}
	return hostname, agentID
}

func loadConfig(args []string, getenv func(string) string) (Config, error) {
	envURL := strings.TrimSpace(getenv("IRCONSOLE_URL"))
	envToken := strings.TrimSpace(getenv("IRCONSOLE_TOKEN"))
	envAgentID := strings.TrimSpace(getenv("IRCONSOLE_AGENT_ID"))
	envHostname := strings.TrimSpace(getenv("IRCONSOLE_HOSTNAME"))
	envTags := strings.TrimSpace(getenv("IRCONSOLE_TAGS"))
	envLogLevel := strings.TrimSpace(getenv("LOG_LEVEL"))
	if envLogLevel == "" {
		envLogLevel = "info"
	}

	fs := flag.NewFlagSet("irconsole-agent", flag.ContinueOnError)
	urlFlag := fs.String("url", envURL, "console agent endpoint (ws:// or wss://)")
	tokenFlag := fs.String("token", envToken, "registration token (prefer --token-file)")
	tokenFileFlag := fs.String("token-file", "", "file containing the registration token")
	agentIDFlag := fs.String("agent-id", envAgentID, "agent identifier (default: hostname)")
	hostnameFlag := fs.String("hostname", envHostname, "override hostname")
	tagsFlag := fs.String("tags", envTags, "comma-separated tags")
	logLevelFlag := fs.String("log-level", envLogLevel, "log level")
	selfTest := fs.Bool("self-test", false, "check configuration and exit")
	showVersion := fs.Bool("version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if *showVersion {
		fmt.Println(Version)
		return Config{}, flag.ErrHelp
	}

	url := strings.TrimSpace(*urlFlag)
	if url == "" {
		return Config{}, errors.New("console url is required (use --url or IRCONSOLE_URL)")
	}
	if !strings.HasPrefix(url, "ws://") && !strings.HasPrefix(url, "wss://") {
		return Config{}, fmt.Errorf("console url must start with ws:// or wss://, got %q", url)
	}

	// --token > --token-file > IRCONSOLE_TOKEN > default file
	tokenSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "token" {
			tokenSet = true
		}
	})
	token := strings.TrimSpace(*tokenFlag)
	switch {
	case tokenSet:
	case *tokenFileFlag != "":
		data, err := readFile(*tokenFileFlag)
		if err != nil {
			return Config{}, fmt.Errorf("read token file: %w", err)
		}
		token = strings.TrimSpace(string(data))
	case token == "":
		if data, err := readFile(defaultTokenFile); err == nil {
			token = strings.TrimSpace(string(data))
		}
	}
	if token == "" {
		return Config{}, fmt.Errorf("registration token is required (use --token, --token-file, IRCONSOLE_TOKEN, or %s)", defaultTokenFile)
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(*logLevelFlag)))
	if err != nil {
		return Config{}, fmt.Errorf("invalid log level %q: %w", *logLevelFlag, err)
	}

	var tags []string
	for _, tag := range strings.Split(*tagsFlag, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}

	return Config{
		URL:      url,
		Token:    token,
		AgentID:  strings.TrimSpace(*agentIDFlag),
		Hostname: strings.TrimSpace(*hostnameFlag),
		Tags:     tags,
		LogLevel: level,
		SelfTest: *selfTest,
	}, nil
}
