package config

// Defaults returns a config with every non-credential field populated.
// Credentials, group ids, and webhook URLs must come from the config file
// (directly or via ${VAR} references) before the config validates.
func Defaults() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:           "info",
			HTTPTimeoutSeconds: 15,
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8443,
			Path: "/callback",
		},
		Line: LineConfig{
			APIBase:     "https://api.line.me",
			DataAPIBase: "https://api-data.line.me",
		},
		Discord: DiscordConfig{
			UsernameFiller: "⠀",
		},
	}
}

// Template returns the config written by `linecord init`: defaults plus
// ${VAR} placeholders for everything the operator must provide.
func Template() *Config {
	cfg := Defaults()
	cfg.Line.ChannelSecret = "${LINE_CHANNEL_SECRET}"
	cfg.Line.ChannelToken = "${LINE_CHANNEL_TOKEN}"
	cfg.Line.GroupIDs = []string{"${LINE_GROUP_ID}"}
	cfg.Discord.RepeatWebhookURL = "${DISCORD_REPEAT_WEBHOOK_URL}"
	cfg.Discord.BroadcastWebhookURL = "${DISCORD_BROADCAST_WEBHOOK_URL}"
	return cfg
}
