package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"github.com/samber/lo"
	"go.uber.org/zap/zapcore"
)

var (
	ErrConfigFile    = errors.New("config: unable to read config file")
	ErrConfigEnv     = errors.New("config: unable to parse environment")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

const (
	DisplayTerminal = "terminal"
	DisplayLog      = "log"

	SensorSimulated = "simulated"
	SensorModbus    = "modbus"
)

type Config struct {
	Net          NetConfig     `toml:"net"`
	Wifi         WifiConfig    `toml:"wifi"`
	Display      DisplayConfig `toml:"display"`
	Sensor       SensorConfig  `toml:"sensor"`
	LogLevel     string        `toml:"log_level" env:"LOG_LEVEL"`
	PollInterval time.Duration `toml:"poll_interval" env:"POLL_INTERVAL"`
}

// NetConfig holds the WiFi and MQTT connection parameters. Empty secrets are
// allowed so an unconfigured deployment still starts.
//
// The host joins the wifi network, so WifiPass is never used here. It is
// kept so one config file carries the whole network record.
type NetConfig struct {
	WifiSSID   string `toml:"wifi_ssid" env:"SECRET_WIFI_SSID"`
	WifiPass   string `toml:"wifi_pass" env:"SECRET_WIFI_PASS"`
	MQTTServer string `toml:"mqtt_server" env:"MQTT_SERVER"`
	MQTTPort   int    `toml:"mqtt_port" env:"MQTT_PORT"`
	MQTTUser   string `toml:"mqtt_user" env:"SECRET_MQTT_USER"`
	MQTTPass   string `toml:"mqtt_pass" env:"SECRET_MQTT_PASS"`
	MQTTTopic  string `toml:"mqtt_topic" env:"MQTT_TOPIC"`
}

type WifiConfig struct {
	Interface string `toml:"interface" env:"WIFI_INTERFACE"`
	SysfsRoot string `toml:"sysfs_root" env:"WIFI_SYSFS_ROOT"`
}

type DisplayConfig struct {
	Mode string `toml:"mode" env:"DISPLAY_MODE"`
}

type SensorConfig struct {
	Source        string        `toml:"source" env:"SENSOR_SOURCE"`
	Seed          int64         `toml:"seed" env:"SENSOR_SEED"`
	ModbusAddress string        `toml:"modbus_address" env:"MODBUS_ADDRESS"`
	ModbusSlaveID uint8         `toml:"modbus_slave_id" env:"MODBUS_SLAVE_ID"`
	ModbusTimeout time.Duration `toml:"modbus_timeout" env:"MODBUS_TIMEOUT"`
}

func DefaultNet() NetConfig {
	return NetConfig{
		WifiSSID:   "",
		WifiPass:   "",
		MQTTServer: "mqtt.squillion.io",
		MQTTPort:   1883,
		MQTTUser:   "",
		MQTTPass:   "",
		MQTTTopic:  "monitor/2",
	}
}

func Default() *Config {
	return &Config{
		Net: DefaultNet(),
		Wifi: WifiConfig{
			Interface: "wlan0",
			SysfsRoot: "/sys",
		},
		Display: DisplayConfig{
			Mode: DisplayTerminal,
		},
		Sensor: SensorConfig{
			Source:        SensorSimulated,
			Seed:          1,
			ModbusSlaveID: 1,
			ModbusTimeout: 2 * time.Second,
		},
		LogLevel:     "INFO",
		PollInterval: 10 * time.Second,
	}
}

// Load layers the defaults, an optional TOML file and the environment, in
// that order.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrConfigFile, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigEnv, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Net.Validate(); err != nil {
		return err
	}
	// the cron schedule only resolves whole seconds
	if c.PollInterval < time.Second || c.PollInterval%time.Second != 0 {
		return fmt.Errorf("%w: poll interval must be a whole number of seconds, got %v", ErrInvalidConfig, c.PollInterval)
	}
	if !lo.Contains([]string{DisplayTerminal, DisplayLog}, c.Display.Mode) {
		return fmt.Errorf("%w: unknown display mode %q", ErrInvalidConfig, c.Display.Mode)
	}
	switch c.Sensor.Source {
	case SensorSimulated:
	case SensorModbus:
		if c.Sensor.ModbusAddress == "" {
			return fmt.Errorf("%w: modbus sensor needs an address", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown sensor source %q", ErrInvalidConfig, c.Sensor.Source)
	}
	return nil
}

// Validate only checks what a broker connection cannot do without.
// Credentials are optional.
func (n NetConfig) Validate() error {
	if n.MQTTServer == "" {
		return fmt.Errorf("%w: mqtt server is empty", ErrInvalidConfig)
	}
	if n.MQTTPort < 1 || n.MQTTPort > 65535 {
		return fmt.Errorf("%w: mqtt port %d out of range", ErrInvalidConfig, n.MQTTPort)
	}
	if n.MQTTTopic == "" {
		return fmt.Errorf("%w: mqtt topic is empty", ErrInvalidConfig)
	}
	return nil
}

func (n NetConfig) BrokerURL() string {
	return "tcp://" + net.JoinHostPort(n.MQTTServer, strconv.Itoa(n.MQTTPort))
}

func (n NetConfig) Redacted() NetConfig {
	n.WifiSSID = redact(n.WifiSSID)
	n.WifiPass = redact(n.WifiPass)
	n.MQTTUser = redact(n.MQTTUser)
	n.MQTTPass = redact(n.MQTTPass)
	return n
}

func (n NetConfig) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	r := n.Redacted()
	enc.AddString("wifi_ssid", r.WifiSSID)
	enc.AddString("wifi_pass", r.WifiPass)
	enc.AddString("mqtt_broker", r.BrokerURL())
	enc.AddString("mqtt_user", r.MQTTUser)
	enc.AddString("mqtt_pass", r.MQTTPass)
	enc.AddString("mqtt_topic", r.MQTTTopic)
	return nil
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "***"
}
