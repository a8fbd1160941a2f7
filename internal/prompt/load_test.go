package prompt

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemplateFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "templates.yaml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverrides(t *testing.T) {
	path := writeTemplateFile(t, `
explain-simply:
  text: "Explain %TOPIC% like I'm five."
  temperature: 0.3
`)

	catalog, err := LoadOverrides(path)
	if err != nil {
		t.Fatal(err)
	}

	tmpl, _ := catalog.Get(KindExplainSimply)
	if tmpl.Text != "Explain %TOPIC% like I'm five." {
		t.Errorf("Text = %q", tmpl.Text)
	}
	if tmpl.Temperature != 0.3 {
		t.Errorf("Temperature = %v, want 0.3", tmpl.Temperature)
	}

	// Omitted fields keep their built-in values
	def, _ := DefaultCatalog().Get(KindExplainSimply)
	if tmpl.System != def.System {
		t.Error("system prompt should be unchanged")
	}
	if tmpl.MaxTokens != def.MaxTokens {
		t.Error("max tokens should be unchanged")
	}

	// Untouched kinds are untouched
	dive, _ := catalog.Get(KindDeepDive)
	defDive, _ := DefaultCatalog().Get(KindDeepDive)
	if dive != defDive {
		t.Error("deep-dive template should be unchanged")
	}
}

func TestLoadOverridesRejectsUnknownKind(t *testing.T) {
	path := writeTemplateFile(t, `
explian-simply:
  text: "typo'd kind"
`)

	if _, err := LoadOverrides(path); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestLoadOverridesMissingFile(t *testing.T) {
	if _, err := LoadOverrides(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadOverridesMalformedYAML(t *testing.T) {
	path := writeTemplateFile(t, "{{{ not yaml")
	if _, err := LoadOverrides(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
