package node

import (
	"encoding/json"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/meshbind/waku-go/errors"
)

// RLNConfig configures RLN relay spam protection.
type RLNConfig struct {
	Enabled            bool   `json:"enabled" yaml:"enabled"`
	CredPath           string `json:"credPath,omitempty" yaml:"cred-path"`
	CredPassword       string `json:"credPassword,omitempty" yaml:"cred-password"`
	MembershipIndex    uint   `json:"membershipIndex,omitempty" yaml:"membership-index"`
	DynamicMode        bool   `json:"dynamic,omitempty" yaml:"dynamic"`
	ETHClientAddress   string `json:"ethClientAddress,omitempty" yaml:"eth-client-address"`
	ETHContractAddress string `json:"ethContractAddress,omitempty" yaml:"eth-contract-address"`
}

// Config is the node instantiation document. It marshals to the JSON
// config the engine expects; the yaml tags serve operator config files
// loaded through LoadConfig.
//
// Relay is a tri-state on purpose: relay-dependent operations are only
// permitted when it is explicitly enabled. Nil means disabled.
type Config struct {
	Host        string     `json:"host,omitempty" yaml:"host"`
	TCPPort     int        `json:"tcpPort,omitempty" yaml:"tcp-port"`
	NodeKey     string     `json:"key,omitempty" yaml:"node-key"`
	Relay       *bool      `json:"relay,omitempty" yaml:"relay"`
	RelayTopics []string   `json:"relayTopics,omitempty" yaml:"relay-topics"`
	Store       bool       `json:"store,omitempty" yaml:"store"`
	LogLevel    string     `json:"logLevel,omitempty" yaml:"log-level"`
	RLNRelay    *RLNConfig `json:"rlnRelay,omitempty" yaml:"rln-relay"`
}

// DefaultConfig returns the stock configuration: listen everywhere on an
// ephemeral port with relay enabled.
func DefaultConfig() *Config {
	relay := true
	return &Config{
		Host:    "0.0.0.0",
		TCPPort: 0,
		Relay:   &relay,
	}
}

// LoadConfig reads a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.InvalidConfig("read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.InvalidConfig("parse config file", err)
	}
	return cfg, nil
}

// relayEnabled reports whether relay-dependent operations are permitted.
func (c *Config) relayEnabled() bool {
	return c.Relay != nil && *c.Relay
}

// document renders the JSON config document sent to the engine.
func (c *Config) document() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", errors.InvalidConfig("marshal config document", err)
	}
	return string(data), nil
}
