package dialect

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"cobolfront/internal/diag"
	"cobolfront/internal/mapping"
	"cobolfront/internal/source"
	"cobolfront/internal/syntax"
)

const ejectScript = `
name = "EJECT"
run_before = { "IDMS" }
settings_sections = "dialects.eject"

function extend(doc)
  for i, line in ipairs(doc:lines()) do
    local s, e = string.find(line, "EJECT", 1, true)
    if s then
      doc:clear(i, s, i, e)
    end
    if string.find(line, "BAD", 1, true) then
      doc:error(i, 1, i, 3, "bad line")
    end
  end
end

function process_text(doc)
  doc:node("dialect-statement", "FIRST", 1, 1, 1, 3)
end
`

func TestCompileLuaReadsDeclarations(t *testing.T) {
	d, err := CompileLua("eject.lua", ejectScript)
	if err != nil {
		t.Fatal(err)
	}
	if d.Name() != "EJECT" || !slices.Equal(d.RunBefore(), []string{"IDMS"}) {
		t.Fatalf("name=%q before=%v", d.Name(), d.RunBefore())
	}
	if !slices.Equal(d.SettingsSections(), []string{"dialects.eject"}) {
		t.Fatalf("sections = %v", d.SettingsSections())
	}
}

func TestCompileLuaRejectsBrokenScripts(t *testing.T) {
	for _, script := range []string{
		"name = ",
		"run_before = {}",
		"error('boom')",
	} {
		if _, err := CompileLua("broken.lua", script); err == nil {
			t.Errorf("CompileLua(%q) succeeded", script)
		}
	}
}

func TestLuaDialectProcess(t *testing.T) {
	d, err := CompileLua("eject.lua", ejectScript)
	if err != nil {
		t.Fatal(err)
	}
	s := NewService(nil, d)
	doc := mapping.NewDocument("AAA EJECT\nBAD", "file:///p.cbl")
	res := s.Process(context.Background(), []string{"eject"}, &Context{Document: doc})

	if got := doc.String(); got != "AAA      \nBAD" {
		t.Fatalf("document = %q", got)
	}
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Message != "bad line" {
		t.Fatalf("diagnostics = %v", res.Diagnostics)
	}
	if res.Diagnostics[0].Primary.Range != source.NewRange(1, 0, 1, 2) {
		t.Fatalf("range = %v", res.Diagnostics[0].Primary.Range)
	}
	want := syntax.Node{
		Kind:     syntax.KindDialectStatement,
		Name:     "FIRST",
		Dialect:  "EJECT",
		Location: source.Location{URI: "file:///p.cbl", Range: source.NewRange(0, 0, 0, 2)},
	}
	if len(res.Value) != 1 || res.Value[0] != want {
		t.Fatalf("nodes = %v", res.Value)
	}
}

func TestLuaScriptErrorIsReported(t *testing.T) {
	d, err := CompileLua("fail.lua", `
name = "FAIL"
function extend(doc)
  doc:node("dialect-statement", "X", 1, 1, 1, 1)
end
`)
	if err != nil {
		t.Fatal(err)
	}
	s := NewService(nil, d)
	doc := mapping.NewDocument("AAA", "file:///p.cbl")
	res := s.Process(context.Background(), []string{"FAIL"}, &Context{Document: doc})
	if len(res.Diagnostics) != 1 || res.Diagnostics[0].Code != diag.DialectScriptError {
		t.Fatalf("diagnostics = %v", res.Diagnostics)
	}
	if !strings.Contains(res.Diagnostics[0].Message, "only available in process_text") {
		t.Fatalf("message = %q", res.Diagnostics[0].Message)
	}
}

func TestLuaDiscoveryThroughUpdate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eject.lua")
	if err := os.WriteFile(path, []byte(ejectScript), 0o600); err != nil {
		t.Fatal(err)
	}
	s := NewService(LuaDiscovery{}, Builtins()...)
	if err := s.Update([]RegistryItem{{Name: "EJECT", Path: path}}); err != nil {
		t.Fatal(err)
	}
	got, err := s.Order([]string{IDMSName, "EJECT"})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(names(got), []string{"EJECT", IDMSName}) {
		t.Fatalf("Order = %v", names(got))
	}
}
