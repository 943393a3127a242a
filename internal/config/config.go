// Package config loads the oidc-client command configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/biocad/openid-connect/registration"
	"github.com/biocad/openid-connect/transport"
)

// DefaultTimeout bounds a single request when the configuration sets none.
const DefaultTimeout = 30 * time.Second

// Environment variables that override the file.
const (
	EnvIssuer  = "OIDC_CLIENT_ISSUER"
	EnvTimeout = "OIDC_CLIENT_TIMEOUT"
)

var (
	ErrMissingIssuer   = errors.New("issuer is required")
	ErrInvalidTimeout  = errors.New("timeout must be positive")
	ErrMissingRedirect = errors.New("client.redirect_uris is required for registration")
)

// Config captures the command configuration loaded from YAML and the
// environment.
type Config struct {
	Issuer  string        `yaml:"issuer"`
	Timeout time.Duration `yaml:"timeout"`
	Client  ClientConfig  `yaml:"client"`
}

// ClientConfig describes the client to register.
type ClientConfig struct {
	RedirectURIs            []string       `yaml:"redirect_uris"`
	ClientName              string         `yaml:"client_name"`
	GrantTypes              []string       `yaml:"grant_types"`
	ResponseTypes           []string       `yaml:"response_types"`
	TokenEndpointAuthMethod string         `yaml:"token_endpoint_auth_method"`
	Scope                   string         `yaml:"scope"`
	Contacts                []string       `yaml:"contacts"`
	Extra                   map[string]any `yaml:"extra"`
}

// Load reads the YAML file at path, when given, and applies environment
// overrides. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}

		decoder := yaml.NewDecoder(bytes.NewReader(b))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Timeout: DefaultTimeout,
	}
}

// Validate checks the settings every command needs.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Issuer) == "" {
		return ErrMissingIssuer
	}
	if _, err := transport.ParseAddress(c.Issuer); err != nil {
		return fmt.Errorf("issuer: %w", err)
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// Metadata converts the client section into a registration request. Extra
// members are sent alongside the standard ones and never replace them.
func (c ClientConfig) Metadata() (registration.ClientMetadata[map[string]any], error) {
	if len(c.RedirectURIs) == 0 {
		return registration.ClientMetadata[map[string]any]{}, ErrMissingRedirect
	}
	return registration.ClientMetadata[map[string]any]{
		Metadata: registration.Metadata{
			RedirectURIs:            c.RedirectURIs,
			ClientName:              c.ClientName,
			GrantTypes:              c.GrantTypes,
			ResponseTypes:           c.ResponseTypes,
			TokenEndpointAuthMethod: c.TokenEndpointAuthMethod,
			Scope:                   c.Scope,
			Contacts:                c.Contacts,
		},
		Extension: c.Extra,
	}, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv(EnvIssuer); v != "" {
		cfg.Issuer = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.Timeout = d
	}
	return nil
}
