package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for linecord.
type Config struct {
	General GeneralConfig `yaml:"general"`
	Server  ServerConfig  `yaml:"server"`
	Line    LineConfig    `yaml:"line"`
	Discord DiscordConfig `yaml:"discord"`
}

type GeneralConfig struct {
	LogLevel           string `yaml:"logLevel"`
	LogFile            string `yaml:"logFile,omitempty"` // optional log file path
	HTTPTimeoutSeconds int    `yaml:"httpTimeoutSeconds"`
}

// ServerConfig configures the inbound webhook endpoint.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	Path string `yaml:"path"`
}

// LineConfig holds the source platform credentials and the listening groups.
type LineConfig struct {
	ChannelSecret string   `yaml:"channelSecret"`
	ChannelToken  string   `yaml:"channelToken"`
	GroupIDs      []string `yaml:"groupIds"`
	APIBase       string   `yaml:"apiBase,omitempty"`
	DataAPIBase   string   `yaml:"dataApiBase,omitempty"`
}

// DiscordConfig holds the two destination webhooks. The webhook's default
// name and avatar on the Discord side should read as an identifiable
// placeholder ("Unknown User"): direct messages and events without a sender
// id are relayed under that default identity.
type DiscordConfig struct {
	RepeatWebhookURL    string `yaml:"repeatWebhookUrl"`
	BroadcastWebhookURL string `yaml:"broadcastWebhookUrl"`
	UsernameFiller      string `yaml:"usernameFiller,omitempty"` // single rune used to pad short display names
}

// DefaultConfigDir returns the default config directory (~/.linecord).
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".linecord"
	}
	return filepath.Join(home, ".linecord")
}

func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

func Load(path string) (*Config, error) {
	path = ExpandPath(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read config file %s: %w", path, err)
	}

	// Substitute environment variables: ${VAR} and ${VAR:-default}
	data = []byte(ExpandEnvVars(string(data)))

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cannot parse config file %s: %w", path, err)
	}

	cfg.General.LogFile = ExpandPath(cfg.General.LogFile)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns in config strings.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-(.*?))?\}`)

// ExpandEnvVars replaces ${VAR} with the environment variable value.
// Supports default values: ${VAR:-default} uses "default" when VAR is unset or empty.
func ExpandEnvVars(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		varName := groups[1]
		defaultVal := ""
		hasDefault := len(groups) >= 3 && groups[2] != ""
		if hasDefault {
			defaultVal = groups[2]
		}

		val, exists := os.LookupEnv(varName)
		if !exists || val == "" {
			if hasDefault {
				return defaultVal
			}
			return match // Keep original if no env var and no default
		}
		return val
	})
}

func Save(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}

// Validate checks that the config has valid values.
func Validate(cfg *Config) error {
	var errs []string

	switch strings.ToLower(cfg.General.LogLevel) {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		errs = append(errs, "general.logLevel must be one of: debug, info, warn, error")
	}
	if cfg.General.HTTPTimeoutSeconds < 1 {
		errs = append(errs, "general.httpTimeoutSeconds must be >= 1")
	}

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}
	if !strings.HasPrefix(cfg.Server.Path, "/") {
		errs = append(errs, "server.path must begin with /")
	}

	switch {
	case cfg.Line.ChannelSecret == "":
		errs = append(errs, "line.channelSecret is required")
	case strings.Contains(cfg.Line.ChannelSecret, "${"):
		errs = append(errs, "line.channelSecret references an unset environment variable")
	}
	switch {
	case cfg.Line.ChannelToken == "":
		errs = append(errs, "line.channelToken is required")
	case strings.Contains(cfg.Line.ChannelToken, "${"):
		errs = append(errs, "line.channelToken references an unset environment variable")
	}
	if len(cfg.Line.GroupIDs) == 0 {
		errs = append(errs, "line.groupIds must list at least one group")
	}

	if err := validWebhookURL(cfg.Discord.RepeatWebhookURL); err != nil {
		errs = append(errs, "discord.repeatWebhookUrl: "+err.Error())
	}
	if err := validWebhookURL(cfg.Discord.BroadcastWebhookURL); err != nil {
		errs = append(errs, "discord.broadcastWebhookUrl: "+err.Error())
	}
	if f := cfg.Discord.UsernameFiller; f != "" && utf8.RuneCountInString(f) != 1 {
		errs = append(errs, "discord.usernameFiller must be a single character")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation errors:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

func validWebhookURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an http(s) URL")
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

// ExpandPath resolves ~/ to the user's home directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
