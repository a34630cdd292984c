package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

const csrfKeyLength = 32

var ErrMissingConnectionString = errors.New("database connection string (db.url) not found")
var ErrInvalidCsrfKey = fmt.Errorf("csrf key must be exactly %d bytes", csrfKeyLength)

type Application struct {
	Server   Server   `koanf:"server"`
	Database Database `koanf:"db"`
	Csrf     Csrf     `koanf:"csrf"`
	Metrics  Metrics  `koanf:"metrics"`
}

type Server struct {
	Addr string `koanf:"addr"`
}

type Database struct {
	Url      string `koanf:"url"`
	MaxConns int32  `koanf:"maxconns"`
}

type Csrf struct {
	Key    string `koanf:"key"`
	Secure bool   `koanf:"secure"`
}

type Metrics struct {
	Enabled bool `koanf:"enabled"`
}

func defaults() Application {
	return Application{
		Server: Server{
			Addr: ":8080",
		},
		Database: Database{
			MaxConns: 10,
		},
		Metrics: Metrics{
			Enabled: true,
		},
	}
}

// Load reads defaults, then the optional YAML file at path, then EVENTCAL_* environment variables.
// The returned value is validated: a missing connection string is an error.
func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "EVENTCAL_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "EVENTCAL_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}

	if err := app.validate(); err != nil {
		return Application{}, err
	}
	return app, nil
}

func (a *Application) validate() error {
	if strings.TrimSpace(a.Database.Url) == "" {
		return ErrMissingConnectionString
	}
	if a.Csrf.Key != "" && len(a.Csrf.Key) != csrfKeyLength {
		return ErrInvalidCsrfKey
	}
	return nil
}

// CsrfKey returns the configured CSRF authentication key. When none is configured a random one is
// generated, which invalidates every issued token on restart.
func (a Application) CsrfKey() []byte {
	if a.Csrf.Key != "" {
		return []byte(a.Csrf.Key)
	}
	log.Warn("csrf.key is not configured, generating a random key for this process")
	return securecookie.GenerateRandomKey(csrfKeyLength)
}
