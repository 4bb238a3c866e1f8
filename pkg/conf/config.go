package conf

import (
	"errors"
	"fmt"
	"os"
	"os/user"

	"github.com/ferama/prelay/pkg/child"
	"github.com/ferama/prelay/pkg/relay"
	"github.com/ferama/prelay/pkg/utils"
	"gopkg.in/yaml.v3"
)

// ErrNoChild is returned when the config file has no child section
var ErrNoChild = errors.New("missing child section")

// LogConf holds the diagnostic log configuration
type LogConf struct {
	// if set diagnostics go to this file instead of the terminal
	File string `yaml:"file"`
}

// Config holds all the config values
type Config struct {
	Child *child.ChildConf `yaml:"child"`
	Relay *relay.RelayConf `yaml:"relay"`
	Log   *LogConf         `yaml:"log"`
}

// NewDefaultConfig returns a config with every section set to its
// defaults and no child
func NewDefaultConfig() *Config {
	return &Config{
		Relay: relay.NewDefaultRelayConf(),
		Log:   &LogConf{},
	}
}

// LoadConfig parses the [config].yaml file and loads its values
// into the Config struct
func LoadConfig(filePath string) (*Config, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error while reading config file: %w", err)
	}
	defer f.Close()

	cfg := NewDefaultConfig()
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("error while parsing config file: %w", err)
	}

	if cfg.Child == nil {
		return nil, ErrNoChild
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize fills the missing sections, picks the user shell when no
// command is given and expands "~/" paths
func (c *Config) Normalize() error {
	if c.Child == nil {
		c.Child = &child.ChildConf{}
	}
	if c.Relay == nil {
		c.Relay = relay.NewDefaultRelayConf()
	}
	if c.Log == nil {
		c.Log = &LogConf{}
	}

	if c.Child.Command == "" {
		usr, err := user.Current()
		if err != nil {
			return fmt.Errorf("current user: %w", err)
		}
		c.Child.Command = utils.GetUserDefaultShell(usr.Username)
	}

	var err error
	if c.Child.Dir, err = utils.ExpandUserHome(c.Child.Dir); err != nil {
		return err
	}
	if c.Log.File, err = utils.ExpandUserHome(c.Log.File); err != nil {
		return err
	}
	return nil
}
