package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

const validYAML = `
line:
  channelSecret: sec
  channelToken: tok
  groupIds: ["G1", "G2"]
discord:
  repeatWebhookUrl: https://discord.example/api/webhooks/1/a
  broadcastWebhookUrl: https://discord.example/api/webhooks/2/b
`

func TestLoad_Valid(t *testing.T) {
	path := writeTempConfig(t, validYAML)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Line.ChannelSecret != "sec" {
		t.Errorf("expected sec, got %s", cfg.Line.ChannelSecret)
	}
	if len(cfg.Line.GroupIDs) != 2 || cfg.Line.GroupIDs[0] != "G1" {
		t.Errorf("unexpected group ids: %v", cfg.Line.GroupIDs)
	}
	// Defaults fill in everything the file omits.
	if cfg.Server.Path != "/callback" {
		t.Errorf("expected default path, got %s", cfg.Server.Path)
	}
	if cfg.Line.APIBase != "https://api.line.me" {
		t.Errorf("expected default api base, got %s", cfg.Line.APIBase)
	}
	if cfg.General.HTTPTimeoutSeconds != 15 {
		t.Errorf("expected default timeout, got %d", cfg.General.HTTPTimeoutSeconds)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("LINECORD_TEST_SECRET", "from-env")
	path := writeTempConfig(t, strings.Replace(validYAML, "sec", "${LINECORD_TEST_SECRET}", 1))
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Line.ChannelSecret != "from-env" {
		t.Errorf("expected from-env, got %s", cfg.Line.ChannelSecret)
	}
}

func TestLoad_UnsetEnvVarRejected(t *testing.T) {
	path := writeTempConfig(t, strings.Replace(validYAML, "sec", "${LINECORD_UNSET_VAR_42}", 1))
	if _, err := Load(path); err == nil {
		t.Error("expected validation error for unresolved env var")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestExpandEnvVars_Default(t *testing.T) {
	got := ExpandEnvVars("${LINECORD_UNSET_VAR_42:-fallback}")
	if got != "fallback" {
		t.Errorf("expected fallback, got %s", got)
	}
}

func TestExpandEnvVars_KeepsUnknown(t *testing.T) {
	got := ExpandEnvVars("${LINECORD_UNSET_VAR_42}")
	if got != "${LINECORD_UNSET_VAR_42}" {
		t.Errorf("expected original, got %s", got)
	}
}

func TestValidate_MissingGroups(t *testing.T) {
	cfg := Defaults()
	cfg.Line.ChannelSecret = "sec"
	cfg.Line.ChannelToken = "tok"
	cfg.Discord.RepeatWebhookURL = "https://discord.example/api/webhooks/1/a"
	cfg.Discord.BroadcastWebhookURL = "https://discord.example/api/webhooks/2/b"
	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "groupIds") {
		t.Errorf("expected groupIds error, got %v", err)
	}
}

func TestValidate_BadWebhookURL(t *testing.T) {
	cfg := Defaults()
	cfg.Line.ChannelSecret = "sec"
	cfg.Line.ChannelToken = "tok"
	cfg.Line.GroupIDs = []string{"G1"}
	cfg.Discord.RepeatWebhookURL = "not-a-url"
	cfg.Discord.BroadcastWebhookURL = "https://discord.example/api/webhooks/2/b"
	if err := Validate(cfg); err == nil {
		t.Error("expected error for invalid webhook URL")
	}
}

func TestValidate_MultiRuneFiller(t *testing.T) {
	cfg := Defaults()
	cfg.Line.ChannelSecret = "sec"
	cfg.Line.ChannelToken = "tok"
	cfg.Line.GroupIDs = []string{"G1"}
	cfg.Discord.RepeatWebhookURL = "https://discord.example/api/webhooks/1/a"
	cfg.Discord.BroadcastWebhookURL = "https://discord.example/api/webhooks/2/b"
	cfg.Discord.UsernameFiller = "ab"
	if err := Validate(cfg); err == nil {
		t.Error("expected error for multi-rune filler")
	}
}

func TestSaveLoad_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Defaults()
	cfg.Line.ChannelSecret = "sec"
	cfg.Line.ChannelToken = "tok"
	cfg.Line.GroupIDs = []string{"G1"}
	cfg.Discord.RepeatWebhookURL = "https://discord.example/api/webhooks/1/a"
	cfg.Discord.BroadcastWebhookURL = "https://discord.example/api/webhooks/2/b"
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Discord.RepeatWebhookURL != cfg.Discord.RepeatWebhookURL {
		t.Errorf("roundtrip mismatch: %s", loaded.Discord.RepeatWebhookURL)
	}
}
