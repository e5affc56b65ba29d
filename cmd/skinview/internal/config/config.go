package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the playground configuration file looked up in a project
const FileName = "skinview.yaml"

// Config represents the skinview.yaml configuration
type Config struct {
	// Playground server configuration
	Server *ServerConfig `yaml:"server,omitempty"`

	// Props configuration
	Props *PropsConfig `yaml:"props,omitempty"`

	// Client build configuration
	Build *BuildConfig `yaml:"build,omitempty"`
}

// ServerConfig contains playground server configuration
type ServerConfig struct {
	// Server host
	Host string `yaml:"host,omitempty"`

	// Server port
	Port int `yaml:"port,omitempty"`

	// Directory served as static files
	PublicDir string `yaml:"publicDir,omitempty"`

	// Path of the client WASM inside PublicDir
	WasmPath string `yaml:"wasmPath,omitempty"`

	// URL of the skinview3d bundle loaded by the page
	ViewerScript string `yaml:"viewerScript,omitempty"`
}

// PropsConfig contains props file configuration
type PropsConfig struct {
	// Path to the props file
	Path string `yaml:"path,omitempty"`

	// Whether serve watches the props file; unset means true
	Watch *bool `yaml:"watch,omitempty"`
}

// Watching reports whether serve should watch the props file
func (p *PropsConfig) Watching() bool {
	return p.Watch == nil || *p.Watch
}

// BuildConfig contains client build configuration
type BuildConfig struct {
	// Go package of the WASM client
	Client string `yaml:"client,omitempty"`

	// Output file, relative to the project
	Output string `yaml:"output,omitempty"`

	// Whether to build with TinyGo
	TinyGo bool `yaml:"tinygo,omitempty"`
}

// Load loads configuration from skinview.yaml
func Load(projectPath string) (*Config, error) {
	configPath := filepath.Join(projectPath, FileName)

	// Return default config if no file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	applyDefaults(&config)

	return &config, nil
}

// Save saves configuration to skinview.yaml
func Save(config *Config, projectPath string) error {
	configPath := filepath.Join(projectPath, FileName)

	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: &ServerConfig{
			Host:         "localhost",
			Port:         8080,
			PublicDir:    "public",
			WasmPath:     "skinview.wasm",
			ViewerScript: "https://unpkg.com/skinview3d@3/bundles/skinview3d.bundle.js",
		},
		Props: &PropsConfig{
			Path:  "props.yaml",
			Watch: boolPtr(true),
		},
		Build: &BuildConfig{
			Client: "./app/client",
			Output: "public/skinview.wasm",
			TinyGo: false,
		},
	}
}

// applyDefaults applies default values to missing configuration
func applyDefaults(config *Config) {
	defaults := DefaultConfig()

	if config.Server == nil {
		config.Server = defaults.Server
	} else {
		if config.Server.Host == "" {
			config.Server.Host = defaults.Server.Host
		}
		if config.Server.Port == 0 {
			config.Server.Port = defaults.Server.Port
		}
		if config.Server.PublicDir == "" {
			config.Server.PublicDir = defaults.Server.PublicDir
		}
		if config.Server.WasmPath == "" {
			config.Server.WasmPath = defaults.Server.WasmPath
		}
		if config.Server.ViewerScript == "" {
			config.Server.ViewerScript = defaults.Server.ViewerScript
		}
	}

	if config.Props == nil {
		config.Props = defaults.Props
	} else {
		if config.Props.Path == "" {
			config.Props.Path = defaults.Props.Path
		}
		if config.Props.Watch == nil {
			config.Props.Watch = defaults.Props.Watch
		}
	}

	if config.Build == nil {
		config.Build = defaults.Build
	} else {
		if config.Build.Client == "" {
			config.Build.Client = defaults.Build.Client
		}
		if config.Build.Output == "" {
			config.Build.Output = defaults.Build.Output
		}
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server == nil || c.Props == nil || c.Build == nil {
		return errors.New("config is missing a section; load it with Load")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if filepath.IsAbs(c.Server.WasmPath) {
		return fmt.Errorf("server.wasmPath %q must be relative to publicDir", c.Server.WasmPath)
	}
	if c.Props.Path == "" {
		return errors.New("props.path is required")
	}
	return nil
}

// Addr returns the host:port the playground listens on
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func boolPtr(b bool) *bool {
	return &b
}

// Resolve makes a config-relative path absolute against projectPath
func Resolve(projectPath, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(projectPath, path)
}
