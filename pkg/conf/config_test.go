package conf

import (
	"errors"
	"os/user"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullConfig(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "full.yaml"))
	if err != nil {
		t.Fatalf("can't parse config: %s", err)
	}
	if cfg.Child.Command != "sh" || len(cfg.Child.Args) != 2 {
		t.Fatalf("child: %+v", cfg.Child)
	}
	if cfg.Child.Dir != "/tmp" || cfg.Child.Env["GREETING"] != "hi" {
		t.Fatalf("child: %+v", cfg.Child)
	}
	if cfg.Relay.Submit != "\r\n" || cfg.Relay.CancelByte != 4 || cfg.Relay.Raw {
		t.Fatalf("relay: %+v", cfg.Relay)
	}
	if cfg.Log.File != "/tmp/prelay.log" {
		t.Fatalf("log: %+v", cfg.Log)
	}
}

func TestRelayDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("testdata", "minimal.yaml"))
	if err != nil {
		t.Fatalf("can't parse config: %s", err)
	}
	if cfg.Relay.Submit != "\n" || cfg.Relay.CancelByte != 0x18 || !cfg.Relay.Raw {
		t.Fatalf("relay defaults: %+v", cfg.Relay)
	}
	if cfg.Log.File != "" {
		t.Fatalf("log file should be empty")
	}
}

func TestDefaultShellAndHome(t *testing.T) {
	usr, err := user.Current()
	if err != nil {
		t.Skip(err)
	}
	cfg, err := LoadConfig(filepath.Join("testdata", "shell.yaml"))
	if err != nil {
		t.Fatalf("can't parse config: %s", err)
	}
	if cfg.Child.Command == "" {
		t.Fatal("a shell should be selected")
	}
	if !strings.HasPrefix(cfg.Log.File, usr.HomeDir) {
		t.Fatalf("home not expanded: %s", cfg.Log.File)
	}
}

func TestMinimumRequired(t *testing.T) {
	if _, err := LoadConfig(filepath.Join("testdata", "missing_child.yaml")); !errors.Is(err, ErrNoChild) {
		t.Fatalf("expected ErrNoChild got %v", err)
	}
	if _, err := LoadConfig("not_exists_path"); err == nil {
		t.Fatalf("missing file")
	}
	if _, err := LoadConfig(filepath.Join("testdata", "unknown_field.yaml")); err == nil {
		t.Fatalf("unknown fields should be rejected")
	}
}

func TestNormalizeEmpty(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Normalize(); err != nil {
		t.Fatal(err)
	}
	if cfg.Child == nil || cfg.Relay == nil || cfg.Log == nil {
		t.Fatalf("sections should be filled: %+v", cfg)
	}
	if cfg.Child.Command == "" {
		t.Fatal("a shell should be selected")
	}
}
