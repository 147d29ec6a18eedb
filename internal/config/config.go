package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// ICEServer is handed to clients so they can build their peer connections.
// The relay itself never dials it.
type ICEServer struct {
	URLs       []string `mapstructure:"urls"`
	Username   string   `mapstructure:"username"`
	Credential string   `mapstructure:"credential"`
}

type Config struct {
	Mode       string        `mapstructure:"mode"`
	Port       int           `mapstructure:"port"`
	LogLevel   string        `mapstructure:"log_level"`
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`
	// Backpressure is "drop" (lose the frame) or "kick" (close the slow peer).
	Backpressure string      `mapstructure:"backpressure"`
	Secret       string      `mapstructure:"secret"`
	ICEServers   []ICEServer `mapstructure:"ice_servers"`
}

// Load reads config/config.<CONFIG_ENV>.yaml (or CONFIG_FILE when set),
// falls back to defaults for a missing file, and applies CALLSIGN_* env
// overrides.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	fileName := os.Getenv("CONFIG_FILE")
	if fileName == "" {
		env := os.Getenv("CONFIG_ENV")
		if env == "" {
			env = "dev"
		}
		fileName = fmt.Sprintf("config/config.%s.yaml", env)
	}

	v.SetConfigFile(fileName)
	v.SetEnvPrefix("CALLSIGN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, fs.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config %s: %w", fileName, err)
		}
		log.Warn().Str("module", "config").Str("file", fileName).Msg("config file not found, using defaults")
	} else {
		log.Info().Str("module", "config").Str("file", fileName).Msg("loaded config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log.Info().Str("module", "config").Str("mode", cfg.Mode).Int("port", cfg.Port).Msg("config ready")
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "release")
	v.SetDefault("port", 3000)
	v.SetDefault("log_level", "info")
	v.SetDefault("read_limit", 65536)
	v.SetDefault("ping_period", "54s")
	v.SetDefault("write_wait", "5s")
	v.SetDefault("send_buffer", 32)
	v.SetDefault("backpressure", "drop")
	v.SetDefault("secret", "callsign-dev-secret")
	v.SetDefault("ice_servers", []map[string]any{
		{"urls": []string{"stun:stun.l.google.com:19302"}},
	})
}

// Validate checks ranges that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	switch c.Mode {
	case "release", "debug", "test":
	default:
		return fmt.Errorf("mode must be release, debug or test, got %q", c.Mode)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.ReadLimit < 1 {
		return errors.New("read_limit must be >= 1")
	}
	if c.SendBuffer < 1 {
		return errors.New("send_buffer must be >= 1")
	}
	switch c.Backpressure {
	case "", "drop", "kick":
	default:
		return fmt.Errorf("backpressure must be drop or kick, got %q", c.Backpressure)
	}
	if c.PingPeriod < 0 {
		return errors.New("ping_period must be >= 0")
	}
	if c.WriteWait <= 0 {
		return errors.New("write_wait must be > 0")
	}
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	for i, s := range c.ICEServers {
		if len(s.URLs) == 0 {
			return fmt.Errorf("ice_servers[%d].urls is required", i)
		}
	}
	return nil
}

// PongWait is how long a connection may stay silent before it is treated
// as dead. Zero disables the deadline.
func (c *Config) PongWait() time.Duration {
	if c.PingPeriod <= 0 {
		return 0
	}
	return c.PingPeriod * 10 / 9
}

// WebRTCConfiguration returns the ICE servers in the shape browsers and
// pion peers expect.
func (c *Config) WebRTCConfiguration() webrtc.Configuration {
	servers := make([]webrtc.ICEServer, 0, len(c.ICEServers))
	for _, s := range c.ICEServers {
		srv := webrtc.ICEServer{URLs: s.URLs}
		if s.Username != "" {
			srv.Username = s.Username
			srv.Credential = s.Credential
			srv.CredentialType = webrtc.ICECredentialTypePassword
		}
		servers = append(servers, srv)
	}
	return webrtc.Configuration{ICEServers: servers}
}
