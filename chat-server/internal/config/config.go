package config

import (
	"time"

	pkgconfig "github.com/SpaNb4/open-chat/pkg/config"
	"github.com/SpaNb4/open-chat/pkg/pubsub"
)

type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig
	Roster    RosterConfig
	Redis     RedisConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string
	Port int
	// InstanceID tags relay traffic; generated at startup when empty.
	InstanceID string `mapstructure:"instance_id"`
}

type WebSocketConfig struct {
	PingInterval   time.Duration `mapstructure:"ping_interval"`
	PongWait       time.Duration `mapstructure:"pong_wait"`
	WriteWait      time.Duration `mapstructure:"write_wait"`
	MaxMessageSize int64         `mapstructure:"max_message_size"`
	SendBuffer     int           `mapstructure:"send_buffer"`
}

// Roster drivers.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

type RosterConfig struct {
	// Driver selects both the roster store and the relay.
	Driver string
}

type RedisConfig struct {
	Address   string
	Password  string
	DB        int
	RosterKey string `mapstructure:"roster_key"`
	// Room names the pub/sub channel shared by all instances.
	Room string
}

// PubSub returns the connection settings for pkg/pubsub.
func (c RedisConfig) PubSub() pubsub.RedisConfig {
	cfg := pubsub.DefaultRedisConfig()
	cfg.Address = c.Address
	cfg.Password = c.Password
	cfg.DB = c.DB
	return cfg
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads chat-server configuration from ./config/server.yaml and the
// environment.
func Load() (*Config, error) {
	return LoadFrom("./config", "server")
}

// LoadFrom reads configuration from configPath/configName.yaml.
func LoadFrom(configPath, configName string) (*Config, error) {
	v, err := pkgconfig.Load(configPath, configName)
	if err != nil {
		return nil, err
	}

	// Set defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3001)
	v.SetDefault("server.instance_id", "")
	v.SetDefault("websocket.ping_interval", "30s")
	v.SetDefault("websocket.pong_wait", "60s")
	v.SetDefault("websocket.write_wait", "10s")
	v.SetDefault("websocket.max_message_size", 4096)
	v.SetDefault("websocket.send_buffer", 256)
	v.SetDefault("roster.driver", DriverMemory)
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.roster_key", "chat:roster")
	v.SetDefault("redis.room", pubsub.DefaultRoom)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Override from environment
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.instance_id", "INSTANCE_ID")
	v.BindEnv("roster.driver", "ROSTER_DRIVER")
	v.BindEnv("redis.address", "REDIS_ADDRESS")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("log.level", "LOG_LEVEL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Parse durations
	cfg.WebSocket.PingInterval = pkgconfig.Duration(v, "websocket.ping_interval", 30*time.Second)
	cfg.WebSocket.PongWait = pkgconfig.Duration(v, "websocket.pong_wait", 60*time.Second)
	cfg.WebSocket.WriteWait = pkgconfig.Duration(v, "websocket.write_wait", 10*time.Second)

	return &cfg, nil
}
