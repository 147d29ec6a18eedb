package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Port)
	}
	if cfg.Mode != "release" {
		t.Errorf("Mode = %q, want release", cfg.Mode)
	}
	if cfg.PingPeriod != 54*time.Second {
		t.Errorf("PingPeriod = %v, want 54s", cfg.PingPeriod)
	}
	if cfg.PongWait() != 60*time.Second {
		t.Errorf("PongWait = %v, want 60s", cfg.PongWait())
	}
	if cfg.SendBuffer != 32 {
		t.Errorf("SendBuffer = %d, want 32", cfg.SendBuffer)
	}
	if cfg.Backpressure != "drop" {
		t.Errorf("Backpressure = %q, want drop", cfg.Backpressure)
	}
	if len(cfg.ICEServers) != 1 || len(cfg.ICEServers[0].URLs) != 1 || cfg.ICEServers[0].URLs[0] != "stun:stun.l.google.com:19302" {
		t.Errorf("ICEServers = %+v", cfg.ICEServers)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeTempFile(t, `
mode: debug
port: 8443
log_level: debug
ping_period: 0s
send_buffer: 8
backpressure: kick
secret: s3cret
ice_servers:
  - urls: ["stun:stun.example.org:3478"]
  - urls: ["turn:turn.example.org:3478?transport=udp"]
    username: user
    credential: pass
`)
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Mode != "debug" || cfg.Port != 8443 || cfg.LogLevel != "debug" {
		t.Errorf("unexpected cfg: %+v", cfg)
	}
	if cfg.PongWait() != 0 {
		t.Errorf("PongWait = %v, want 0 when ping disabled", cfg.PongWait())
	}
	if cfg.SendBuffer != 8 || cfg.Secret != "s3cret" || cfg.Backpressure != "kick" {
		t.Errorf("unexpected cfg: %+v", cfg)
	}

	rtc := cfg.WebRTCConfiguration()
	if len(rtc.ICEServers) != 2 {
		t.Fatalf("ICEServers len = %d, want 2", len(rtc.ICEServers))
	}
	if rtc.ICEServers[0].Username != "" || rtc.ICEServers[0].Credential != nil {
		t.Errorf("stun server must not carry credentials: %+v", rtc.ICEServers[0])
	}
	turn := rtc.ICEServers[1]
	if turn.Username != "user" || turn.Credential != "pass" {
		t.Errorf("turn server = %+v", turn)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("CALLSIGN_PORT", "4000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 4000 {
		t.Errorf("Port = %d, want 4000", cfg.Port)
	}
}

func TestLoad_BrokenFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", writeTempFile(t, "port: [\n"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unparsable config")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Mode:       "release",
			Port:       3000,
			ReadLimit:  1024,
			WriteWait:  time.Second,
			SendBuffer: 1,
			Secret:     "x",
		}
	}

	cases := map[string]func(*Config){
		"bad mode":       func(c *Config) { c.Mode = "prod" },
		"port zero":      func(c *Config) { c.Port = 0 },
		"port too big":   func(c *Config) { c.Port = 70000 },
		"read limit":     func(c *Config) { c.ReadLimit = 0 },
		"send buffer":    func(c *Config) { c.SendBuffer = 0 },
		"backpressure":   func(c *Config) { c.Backpressure = "block" },
		"negative ping":  func(c *Config) { c.PingPeriod = -time.Second },
		"write wait":     func(c *Config) { c.WriteWait = 0 },
		"empty secret":   func(c *Config) { c.Secret = "" },
		"ice server url": func(c *Config) { c.ICEServers = []ICEServer{{}} },
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(&c)
			if err := c.Validate(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
