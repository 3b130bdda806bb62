// Package config fills prefixed configuration structs from the process
// environment, optionally seeded from a dotenv file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

var (
	envFile  string
	flagOnce sync.Once
)

// MustNew is New for the composition root: a missing required setting stops
// the process at startup instead of surfacing mid-request.
func MustNew[T any](prefix string) *T {
	conf, err := New[T](prefix)
	if err != nil {
		panic(fmt.Sprintf("config %q: %v", prefix, err))
	}
	return conf
}

// New fills a T from PREFIX_* environment variables. A dotenv file named
// with -env-file (or a ./.env when present) is exported first; variables
// already set in the process environment win over the file.
func New[T any](prefix string) (*T, error) {
	if path := envFilePath(); path != "" {
		if err := exportDotenv(path); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", path, err)
		}
	} else if err := exportDotenvIfExists(".env"); err != nil {
		return nil, fmt.Errorf("load default env file: %w", err)
	}

	var conf T
	if err := envconfig.Process(prefix, &conf); err != nil {
		return nil, err
	}
	return &conf, nil
}

func envFilePath() string {
	flagOnce.Do(func() {
		if flag.Lookup("env-file") == nil {
			flag.StringVar(&envFile, "env-file", "", "dotenv file exported before config parsing")
		}
		if !flag.Parsed() {
			flag.Parse()
		}
	})
	return strings.TrimSpace(envFile)
}

func exportDotenvIfExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if info.IsDir() {
		return nil
	}
	return exportDotenv(path)
}

func exportDotenv(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return err
	}

	for key, value := range v.AllSettings() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, fmt.Sprint(value)); err != nil {
			return err
		}
	}
	return nil
}
