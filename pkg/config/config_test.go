package config

import (
	"os"
	"strings"
	"testing"
)

// chdir is t.Chdir from Go 1.24+, inlined because this module builds with
// an older toolchain.
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore wd: %v", err)
		}
	})
}

type sampleConfig struct {
	Addr   string `split_words:"true" default:":8000"`
	APIKey string `envconfig:"API_KEY"`
}

type requiredConfig struct {
	Token string `required:"true"`
}

func TestNewAppliesDefaultsAndPrefix(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CFGA_API_KEY", "from-env")

	conf, err := New[sampleConfig]("CFGA")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Addr != ":8000" {
		t.Fatalf("Addr = %q, want default", conf.Addr)
	}
	if conf.APIKey != "from-env" {
		t.Fatalf("APIKey = %q", conf.APIKey)
	}
}

func TestDotenvSeedsButNeverOverridesProcessEnv(t *testing.T) {
	chdir(t, t.TempDir())

	dotenv := "CFGB_API_KEY=from-file\nCFGB_ADDR=:9000\n"
	if err := os.WriteFile(".env", []byte(dotenv), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	t.Setenv("CFGB_API_KEY", "from-env")

	conf, err := New[sampleConfig]("CFGB")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if conf.Addr != ":9000" {
		t.Fatalf("Addr = %q, want value from .env", conf.Addr)
	}
	if conf.APIKey != "from-env" {
		t.Fatalf("APIKey = %q, process env must win over the file", conf.APIKey)
	}
	t.Cleanup(func() { os.Unsetenv("CFGB_ADDR") })
}

func TestNewReportsMissingRequiredSetting(t *testing.T) {
	chdir(t, t.TempDir())

	if _, err := New[requiredConfig]("CFGC"); err == nil {
		t.Fatal("expected error for missing required setting")
	}
}

func TestMustNewPanicsWithPrefixContext(t *testing.T) {
	chdir(t, t.TempDir())

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if msg, ok := r.(string); !ok || !strings.Contains(msg, "CFGD") {
			t.Fatalf("panic = %v, want prefix in message", r)
		}
	}()
	MustNew[requiredConfig]("CFGD")
}
