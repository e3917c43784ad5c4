package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestLoadFromFileLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
wiki:
  domain: song.contest
intake:
  confirmAgreement: true
  reasonMinLength: 25
validation:
  reservedSubdomains: [www, mail]
`
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Wiki.Domain != "song.contest" {
		t.Errorf("Domain = %q, want %q", cfg.Wiki.Domain, "song.contest")
	}
	// Unset keys keep their defaults.
	if cfg.Wiki.DatabaseSuffix != "wiki" {
		t.Errorf("DatabaseSuffix = %q, want default %q", cfg.Wiki.DatabaseSuffix, "wiki")
	}
	if !cfg.Intake.PrivateWikis {
		t.Error("PrivateWikis default lost")
	}
	if cfg.Intake.ReasonMinLength != 25 {
		t.Errorf("ReasonMinLength = %d, want 25", cfg.Intake.ReasonMinLength)
	}
	if diff := cmp.Diff([]string{"www", "mail"}, cfg.Validation.ReservedSubdomains); diff != "" {
		t.Errorf("ReservedSubdomains mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Wiki.Domain = "round.trip"
	cfg.Review.CannedResponses = []ResponseGroup{
		{Label: "Decline", Responses: []string{"Too vague.", "Duplicate."}},
	}
	if err := cfg.SaveToFile(path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "missing domain", mutate: func(c *Config) { c.Wiki.Domain = "" }, wantErr: true},
		{name: "negative bound", mutate: func(c *Config) { c.Intake.ReasonMinLength = -1 }, wantErr: true},
		{name: "min over max", mutate: func(c *Config) {
			c.Intake.ReasonMinLength = 50
			c.Intake.ReasonMaxLength = 10
		}, wantErr: true},
		{name: "empty response group", mutate: func(c *Config) {
			c.Review.CannedResponses = []ResponseGroup{{Label: "Empty"}}
		}, wantErr: true},
		{name: "unbounded max", mutate: func(c *Config) {
			c.Intake.ReasonMinLength = 50
			c.Intake.ReasonMaxLength = 0
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPrivateRequestsEnabled(t *testing.T) {
	cfg := DefaultConfig()
	if !cfg.PrivateRequestsEnabled() {
		t.Error("expected private requests enabled by default")
	}
	cfg.Intake.DisablePrivateRequests = true
	if cfg.PrivateRequestsEnabled() {
		t.Error("disable switch ignored")
	}
	cfg.Intake.DisablePrivateRequests = false
	cfg.Intake.PrivateWikis = false
	if cfg.PrivateRequestsEnabled() {
		t.Error("private wikis off but requests enabled")
	}
}

func TestPublicDescriptionsNeedBothSwitches(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Intake.PublicDescriptions = true
	if cfg.PublicDescriptionsEnabled() {
		t.Error("enabled without discovery feature")
	}
	cfg.Intake.DiscoveryEnabled = true
	if !cfg.PublicDescriptionsEnabled() {
		t.Error("not enabled with both switches on")
	}
}

func TestFlattenedResponses(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.FlattenedResponses(); got != nil {
		t.Errorf("FlattenedResponses() = %v, want nil for empty config", got)
	}

	cfg.Review.CannedResponses = []ResponseGroup{
		{Label: "Decline", Responses: []string{"Too vague.", "Duplicate."}},
		{Label: "On hold", Responses: []string{"Checking the name."}},
	}
	want := []string{"Too vague.", "Duplicate.", "Checking the name."}
	if diff := cmp.Diff(want, cfg.FlattenedResponses()); diff != "" {
		t.Errorf("FlattenedResponses() mismatch (-want +got):\n%s", diff)
	}
}
