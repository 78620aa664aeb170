package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/anicoll/envmonitor/internal/pkg/config"
)

// Flags override values from the config file and environment when set.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			EnvVars: []string{"CONFIG_FILE"},
			Value:   "",
			Usage:   "optional TOML config file",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: "INFO",
		},
		&cli.StringFlag{
			Name:  "display",
			Value: config.DisplayTerminal,
			Usage: "terminal or log",
		},
		&cli.DurationFlag{
			Name:  "poll-interval",
			Value: 0,
		},
		&cli.StringFlag{
			Name:  "sensor",
			Value: config.SensorSimulated,
			Usage: "simulated or modbus",
		},
		&cli.StringFlag{
			Name:  "modbus-address",
			Value: "",
		},
		&cli.StringFlag{
			Name:  "wifi-interface",
			Value: "",
		},
	}
}

func configFromFlags(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.String("config"))
	if err != nil {
		return nil, err
	}
	if ctx.IsSet("log-level") {
		cfg.LogLevel = ctx.String("log-level")
	}
	if ctx.IsSet("display") {
		cfg.Display.Mode = ctx.String("display")
	}
	if ctx.IsSet("poll-interval") {
		cfg.PollInterval = ctx.Duration("poll-interval")
	}
	if ctx.IsSet("sensor") {
		cfg.Sensor.Source = ctx.String("sensor")
	}
	if ctx.IsSet("modbus-address") {
		cfg.Sensor.ModbusAddress = ctx.String("modbus-address")
	}
	if ctx.IsSet("wifi-interface") {
		cfg.Wifi.Interface = ctx.String("wifi-interface")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
