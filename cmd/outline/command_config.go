package main

import (
	"encoding/json"
	"errors"
	"flag"
	"io"
	"strings"
	"time"

	"outline/internal/config"

	toml "github.com/pelletier/go-toml/v2"
)

type ConfigCommand struct {
	stdout io.Writer
	stderr io.Writer
}

const (
	configFormatJSON = "json"
	configFormatTOML = "toml"
)

// configOutput is the effective configuration after file values, defaults,
// and environment overrides are resolved, plus the paths involved.
type configOutput struct {
	ConfigPath      string                 `json:"config_path" toml:"config_path"`
	DataDir         string                 `json:"data_dir" toml:"data_dir"`
	ResultCachePath string                 `json:"result_cache_path" toml:"result_cache_path"`
	UILogPath       string                 `json:"ui_log_path" toml:"ui_log_path"`
	Server          effectiveServerConfig  `json:"server" toml:"server"`
	Submit          effectiveSubmitConfig  `json:"submit" toml:"submit"`
	UI              effectiveUIConfig      `json:"ui" toml:"ui"`
	Logging         effectiveLoggingConfig `json:"logging" toml:"logging"`
}

type effectiveServerConfig struct {
	BaseURL        string `json:"base_url" toml:"base_url"`
	TimeoutSeconds int    `json:"timeout_seconds" toml:"timeout_seconds"`
}

type effectiveSubmitConfig struct {
	Model string `json:"model,omitempty" toml:"model,omitempty"`
}

type effectiveUIConfig struct {
	Dark     bool `json:"dark" toml:"dark"`
	Markdown bool `json:"markdown" toml:"markdown"`
}

type effectiveLoggingConfig struct {
	Level string `json:"level" toml:"level"`
}

func NewConfigCommand(stdout, stderr io.Writer) *ConfigCommand {
	return &ConfigCommand{
		stdout: stdout,
		stderr: stderr,
	}
}

func (c *ConfigCommand) Run(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	defaults := fs.Bool("default", false, "print default config values")
	format := fs.String("format", configFormatJSON, "output format: json|toml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resolvedFormat, err := resolveConfigFormat(*format)
	if err != nil {
		return err
	}
	payload, err := buildConfigOutput(*defaults)
	if err != nil {
		return err
	}
	return writeConfigOutput(c.stdout, resolvedFormat, payload)
}

func buildConfigOutput(defaults bool) (configOutput, error) {
	configPath, err := config.ConfigPath()
	if err != nil {
		return configOutput{}, err
	}
	dataDir, err := config.DataDir()
	if err != nil {
		return configOutput{}, err
	}
	cachePath, err := config.ResultCachePath()
	if err != nil {
		return configOutput{}, err
	}
	logPath, err := config.UILogPath()
	if err != nil {
		return configOutput{}, err
	}

	settings := config.DefaultSettings()
	if !defaults {
		settings, err = config.Load()
		if err != nil {
			return configOutput{}, err
		}
	}

	return configOutput{
		ConfigPath:      configPath,
		DataDir:         dataDir,
		ResultCachePath: cachePath,
		UILogPath:       logPath,
		Server: effectiveServerConfig{
			BaseURL:        settings.BaseURL(),
			TimeoutSeconds: int(settings.RequestTimeout() / time.Second),
		},
		Submit: effectiveSubmitConfig{
			Model: settings.SubmitModel(),
		},
		UI: effectiveUIConfig{
			Dark:     settings.DarkBackground(),
			Markdown: settings.MarkdownEnabled(),
		},
		Logging: effectiveLoggingConfig{
			Level: settings.LogLevel(),
		},
	}, nil
}

func writeConfigOutput(out io.Writer, format string, payload any) error {
	switch format {
	case configFormatJSON:
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(payload)
	case configFormatTOML:
		data, err := toml.Marshal(payload)
		if err != nil {
			return err
		}
		if len(data) == 0 || data[len(data)-1] != '\n' {
			data = append(data, '\n')
		}
		_, err = out.Write(data)
		return err
	default:
		return errors.New("unsupported format")
	}
}

func resolveConfigFormat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", configFormatJSON:
		return configFormatJSON, nil
	case configFormatTOML:
		return configFormatTOML, nil
	default:
		return "", errors.New("invalid format: must be json or toml")
	}
}
