package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Workers != 50 || cfg.Timeout != 5*time.Second || cfg.Retries != 0 || cfg.Period != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestParseHeader(t *testing.T) {
	hc, err := ParseHeader("Content-Type=text/plain")
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if hc.Name != "Content-Type" || hc.Value != "text/plain" {
		t.Fatalf("unexpected check: %+v", hc)
	}

	// empty value is allowed
	if _, err := ParseHeader("A="); err != nil {
		t.Fatalf("empty value should parse: %v", err)
	}
	// empty key is not
	if _, err := ParseHeader("=B"); err == nil {
		t.Fatalf("empty key should fail")
	}
	// missing separator is not
	if _, err := ParseHeader("nonsense"); err == nil {
		t.Fatalf("missing '=' should fail")
	}
}

func TestReadURLFile_SkipsCommentsAndBlanks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	content := "https://a.example\n\n# a comment\n  https://b.example  \n#https://c.example\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	urls, err := ReadURLFile(path)
	if err != nil {
		t.Fatalf("ReadURLFile: %v", err)
	}
	if len(urls) != 2 || urls[0] != "https://a.example" || urls[1] != "https://b.example" {
		t.Fatalf("unexpected urls: %v", urls)
	}
}

func TestReadURLFile_Missing(t *testing.T) {
	if _, err := ReadURLFile(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Fatalf("want error for missing file")
	}
}

func TestLoadFile_MergesOverDefaults(t *testing.T) {
	dir := t.TempDir()
	urlFile := filepath.Join(dir, "urls.txt")
	if err := os.WriteFile(urlFile, []byte("https://c.example\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgFile := filepath.Join(dir, "sitewatch.yaml")
	yaml := `
workers: 8
timeout: 2s
retries: 1
period: 30s
headers:
  - Content-Type=application/json
urls:
  - https://a.example
  - https://b.example
url_file: ` + urlFile + `
admin_addr: 127.0.0.1:9901
`
	if err := os.WriteFile(cfgFile, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(cfgFile, Default())
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Workers != 8 || cfg.Timeout != 2*time.Second || cfg.Retries != 1 || cfg.Period != 30*time.Second {
		t.Fatalf("unexpected merged config: %+v", cfg)
	}
	if len(cfg.HeaderChecks) != 1 || cfg.HeaderChecks[0].Name != "Content-Type" {
		t.Fatalf("unexpected header checks: %+v", cfg.HeaderChecks)
	}
	if len(cfg.URLs) != 3 || cfg.URLs[2] != "https://c.example" {
		t.Fatalf("unexpected urls: %v", cfg.URLs)
	}
	if cfg.AdminAddr != "127.0.0.1:9901" {
		t.Fatalf("unexpected admin addr: %q", cfg.AdminAddr)
	}
	// untouched field keeps its default
	if cfg.LogDir != "logs" {
		t.Fatalf("log dir should keep default, got %q", cfg.LogDir)
	}
}

func TestLoadFile_BadDuration(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(cfgFile, []byte("timeout: banana\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(cfgFile, Default()); err == nil {
		t.Fatalf("want error for bad duration")
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	cfg := Config{Workers: 0, Timeout: 0, Retries: -1, Period: -time.Second}
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("want validation error")
	}
	msg := err.Error()
	for _, want := range []string{"no URLs", "workers", "timeout", "retries", "period"} {
		if !strings.Contains(msg, want) {
			t.Fatalf("error should mention %q, got: %s", want, msg)
		}
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := Default()
	cfg.URLs = []string{"https://example.com"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}
