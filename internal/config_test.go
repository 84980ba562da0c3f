package internal

import (
	"strings"
	"testing"

	"github.com/starford/quire/internal/render"
)

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	site := cfg.Site.Site()
	if site.PostsDir != "_posts" || site.OutputDir != "blog" || site.IndexFile != "_posts/posts.json" || site.URLPrefix != "blog/" {
		t.Errorf("site = %+v", site)
	}
}

func TestTemplateConfig_Substitution(t *testing.T) {
	cfg := TemplateConfig{Substitution: "sequential"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sequential should pass: %v", err)
	}
	if cfg.Mode() != "sequential" {
		t.Errorf("mode = %q", cfg.Mode())
	}
	bad := TemplateConfig{Substitution: "jinja"}
	if err := bad.Validate(); err == nil {
		t.Error("unknown substitution mode should fail")
	}
}

func TestRenderConfig_UnknownExtension(t *testing.T) {
	cfg := RenderConfig{Extensions: []string{"tables", "footnotes"}}
	if err := cfg.Validate(); err == nil {
		t.Error("unknown extension should fail validation")
	}
	ok := RenderConfig{Extensions: []string{"tables", "codehilite", " NL2BR "}}
	if err := ok.Validate(); err != nil {
		t.Errorf("known extensions rejected: %v", err)
	}
}

func TestRenderConfig_AgreesWithRenderer(t *testing.T) {
	for _, name := range append([]string{"Tables", "footnotes", "", "toc"}, render.DefaultExtensions...) {
		err := (&RenderConfig{Extensions: []string{name}}).Validate()
		if (err == nil) != render.KnownExtension(name) {
			t.Errorf("extension %q: validate err = %v, known = %v", name, err, render.KnownExtension(name))
		}
	}
}

func TestAppConfig_LogFormat(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.App.LogFormat = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty log format should default: %v", err)
	}
	if cfg.App.LogFormat != LogFormatText {
		t.Errorf("log format = %q", cfg.App.LogFormat)
	}
	cfg.App.LogFormat = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("unknown log format should fail")
	}
}

func TestSiteConfig_Required(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Site.TemplateFile = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing template file should fail")
	}
}
