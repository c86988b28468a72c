package config

import (
	"errors"
	"os"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultBaseURL        = "http://127.0.0.1:8000"
	defaultTimeoutSeconds = 10
)

type Settings struct {
	Server  ServerSettings  `toml:"server"`
	Submit  SubmitSettings  `toml:"submit"`
	UI      UISettings      `toml:"ui"`
	Logging LoggingSettings `toml:"logging"`
}

type ServerSettings struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type SubmitSettings struct {
	Model string `toml:"model"`
}

type UISettings struct {
	Dark     bool `toml:"dark"`
	Markdown bool `toml:"markdown"`
}

type LoggingSettings struct {
	Level string `toml:"level"`
}

func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			BaseURL:        defaultBaseURL,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		UI: UISettings{
			Dark:     true,
			Markdown: true,
		},
		Logging: LoggingSettings{
			Level: "info",
		},
	}
}

func Load() (Settings, error) {
	path, err := ConfigPath()
	if err != nil {
		return Settings{}, err
	}
	return loadFromPath(path)
}

// BaseURL returns the server address without a trailing slash. The
// OUTLINE_BASE_URL environment variable overrides the file value.
func (s Settings) BaseURL() string {
	url := strings.TrimSpace(os.Getenv("OUTLINE_BASE_URL"))
	if url == "" {
		url = strings.TrimSpace(s.Server.BaseURL)
	}
	if url == "" {
		url = defaultBaseURL
	}
	return strings.TrimRight(url, "/")
}

func (s Settings) RequestTimeout() time.Duration {
	secs := s.Server.TimeoutSeconds
	if secs <= 0 {
		secs = defaultTimeoutSeconds
	}
	return time.Duration(secs) * time.Second
}

func (s Settings) SubmitModel() string {
	return strings.TrimSpace(s.Submit.Model)
}

func (s Settings) DarkBackground() bool {
	return s.UI.Dark
}

func (s Settings) MarkdownEnabled() bool {
	return s.UI.Markdown
}

func (s Settings) LogLevel() string {
	level := strings.TrimSpace(s.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func loadFromPath(path string) (Settings, error) {
	cfg := DefaultSettings()
	if err := readTOML(path, &cfg); err != nil {
		return Settings{}, err
	}
	return cfg, nil
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}
