package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Mode      Mode            `toml:"-"`
	Region    string          `toml:"region"`
	Service   ServiceConfig   `toml:"service"`
	Cognito   CognitoConfig   `toml:"cognito"`
	Endpoints EndpointsConfig `toml:"endpoints"`
}

type ServiceConfig struct {
	Mode string `toml:"mode"`
	Port uint32 `toml:"port"`

	// StrictCPF rejects CPFs with invalid check digits before any provider
	// call is made. Off by default: some pools carry legacy identifiers that
	// predate digit validation.
	StrictCPF bool `toml:"strict_cpf"`
}

type CognitoConfig struct {
	UserPoolID string `toml:"user_pool_id"`
	ClientID   string `toml:"client_id"`

	// CPFAttribute is the user pool attribute holding the CPF.
	CPFAttribute string `toml:"cpf_attribute"`
}

type EndpointsConfig struct {
	AWSEndpoint string `toml:"aws_endpoint"`
}

func New() (*Config, error) {
	fileName := os.Getenv("CONFIG")
	var cfg Config
	if _, err := toml.DecodeFile(fileName, &cfg); err != nil {
		return nil, err
	}

	var mode Mode
	switch cfg.Service.Mode {
	case "local":
		mode = LocalMode
	case "dev", "development":
		mode = DevelopmentMode
	case "prod", "production":
		mode = ProductionMode
	default:
		return nil, fmt.Errorf("config service.mode value is invalid, must be one of \"development\", \"dev\", \"production\" or \"prod\"")
	}
	cfg.Mode = mode
	cfg.Service.Mode = mode.String()

	if cfg.Cognito.UserPoolID == "" {
		return nil, fmt.Errorf("config cognito.user_pool_id is required")
	}
	if cfg.Cognito.ClientID == "" {
		return nil, fmt.Errorf("config cognito.client_id is required")
	}
	if cfg.Cognito.CPFAttribute == "" {
		cfg.Cognito.CPFAttribute = "custom:cpf"
	}

	return &cfg, nil
}

type Mode uint32

const (
	LocalMode Mode = iota
	DevelopmentMode
	ProductionMode
)

func (m Mode) String() string {
	switch m {
	case LocalMode:
		return "local"
	case DevelopmentMode:
		return "development"
	case ProductionMode:
		return "production"
	default:
		return ""
	}
}
