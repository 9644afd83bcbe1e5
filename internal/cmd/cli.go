// Package cmd defines the kong command structs for snes-mapper.
package cmd

// LogConfig configures the slog setup shared by every command.
type LogConfig struct {
	Level   string `help:"Log level (trace,debug,info,warn,error)" enum:"trace,debug,info,warn,error" default:"info" env:"SNES_MAPPER_LOG_LEVEL"`
	File    string `help:"Write logs to this file instead of the console" env:"SNES_MAPPER_LOG_FILE"`
	RawFile string `help:"Write raw report hex dumps to this file" env:"SNES_MAPPER_LOG_RAW_FILE"`
}

// CLI is the root command tree.
type CLI struct {
	Log        LogConfig `embed:"" prefix:"log."`
	ConfigFile string    `name:"config" help:"Path to a config file (json, yaml or toml)" env:"SNES_MAPPER_CONFIG"`
	NoColor    bool      `help:"Disable colored terminal output" env:"SNES_MAPPER_NO_COLOR"`

	Map     Map           `cmd:"" help:"Interactively calibrate a controller and write its mapping"`
	Devices Devices       `cmd:"" help:"List candidate game controllers and exit"`
	Config  ConfigCommand `cmd:"" help:"Configuration file helpers"`
}
