package config

import (
	"time"

	pkgconfig "github.com/SpaNb4/open-chat/pkg/config"
)

type Config struct {
	Auth      AuthConfig
	Transport TransportConfig
	WebSocket WebSocketConfig
	Typing    TypingConfig
	Log       LogConfig
}

type AuthConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type TransportConfig struct {
	URL         string        `mapstructure:"url"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
	SendBuffer     int           `mapstructure:"send_buffer"`
}

type TypingConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	Level  string
	Pretty bool
	Output string
}

// Load reads chat-client configuration from ./config/client.yaml and the
// environment.
func Load() (*Config, error) {
	return LoadFrom("./config", "client")
}

// LoadFrom reads configuration from configPath/configName.yaml.
func LoadFrom(configPath, configName string) (*Config, error) {
	v, err := pkgconfig.Load(configPath, configName)
	if err != nil {
		return nil, err
	}

	v.SetDefault("auth.base_url", "http://localhost:3001")
	v.SetDefault("auth.timeout", "10s")
	v.SetDefault("transport.url", "ws://localhost:3001/socket")
	v.SetDefault("transport.dial_timeout", "10s")
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("websocket.send_buffer", 256)
	v.SetDefault("typing.timeout", "3s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
	v.SetDefault("log.output", "chat-client.log")

	v.BindEnv("auth.base_url", "CHAT_AUTH_URL")
	v.BindEnv("transport.url", "CHAT_SOCKET_URL")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Auth.Timeout = pkgconfig.Duration(v, "auth.timeout", 10*time.Second)
	cfg.Transport.DialTimeout = pkgconfig.Duration(v, "transport.dial_timeout", 10*time.Second)
	cfg.WebSocket.PingInterval = pkgconfig.Duration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = pkgconfig.Duration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = pkgconfig.Duration(v, "websocket.write_wait", 10*time.Second)
	cfg.Typing.Timeout = pkgconfig.Duration(v, "typing.timeout", 3*time.Second)

	return &cfg, nil
}
