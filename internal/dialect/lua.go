package dialect

import (
	"context"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"cobolfront/internal/diag"
	"cobolfront/internal/mapping"
	"cobolfront/internal/source"
	"cobolfront/internal/syntax"
)

// LuaDiscovery loads dialects written in Lua. A script sets the globals
// name, run_before, settings_sections and watching_folder_settings, and may
// define extend(doc) and process_text(doc).
//
// doc offers lines(), replace(l1, c1, l2, c2, text), clear(l1, c1, l2, c2),
// error(l1, c1, l2, c2, msg) and node(kind, name, l1, c1, l2, c2). Lines and
// columns are 1-based, ends are inclusive, all in current coordinates.
type LuaDiscovery struct{}

func (LuaDiscovery) Load(path string) ([]Dialect, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := CompileLua(path, string(data))
	if err != nil {
		return nil, err
	}
	return []Dialect{d}, nil
}

// LuaDialect is a compiled script. Each call runs in a fresh state, so one
// LuaDialect can serve documents in parallel.
type LuaDialect struct {
	chunk      string
	proto      *lua.FunctionProto
	name       string
	before     []string
	sections   []string
	folders    []string
	hasExtend  bool
	hasProcess bool
}

// CompileLua compiles script and reads its declarations.
func CompileLua(chunk, script string) (*LuaDialect, error) {
	stmts, err := parse.Parse(strings.NewReader(script), chunk)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", chunk, err)
	}
	proto, err := lua.Compile(stmts, chunk)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", chunk, err)
	}
	d := &LuaDialect{chunk: chunk, proto: proto}

	L, err := d.newState(context.Background())
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", chunk, err)
	}
	defer L.Close()

	name, ok := L.GetGlobal("name").(lua.LString)
	if !ok || strings.TrimSpace(string(name)) == "" {
		return nil, fmt.Errorf("%s: global `name` must be a non-empty string", chunk)
	}
	d.name = string(name)
	d.before = stringList(L.GetGlobal("run_before"))
	d.sections = stringList(L.GetGlobal("settings_sections"))
	d.folders = stringList(L.GetGlobal("watching_folder_settings"))
	d.hasExtend = L.GetGlobal("extend").Type() == lua.LTFunction
	d.hasProcess = L.GetGlobal("process_text").Type() == lua.LTFunction
	return d, nil
}

func (d *LuaDialect) Name() string { return d.name }
func (d *LuaDialect) RunBefore() []string { return d.before }
func (d *LuaDialect) SettingsSections() []string { return d.sections }
func (d *LuaDialect) WatchingFolderSettings() []string { return d.folders }

func (d *LuaDialect) Extend(ctx context.Context, pc *Context) []diag.Diagnostic {
	if !d.hasExtend {
		return nil
	}
	ld := &luaDoc{doc: pc.Document}
	if err := d.call(ctx, "extend", ld); err != nil {
		diag.Emit(pc.Report, d.scriptError(pc.Document.URI(), err))
	}
	return ld.diags
}

func (d *LuaDialect) ProcessText(ctx context.Context, pc *Context) diag.Result[[]syntax.Node] {
	if !d.hasProcess {
		return diag.Ok[[]syntax.Node](nil)
	}
	uri := pc.Document.URI()
	ld := &luaDoc{doc: pc.Document, dialect: d.name, collect: true}
	err := d.call(ctx, "process_text", ld)

	out := make([]diag.Diagnostic, 0, len(ld.diags)+1)
	for _, dg := range ld.diags {
		out = append(out, dg.Relocate(pc.Document.MapLocation, uri))
	}
	if err != nil {
		out = append(out, d.scriptError(uri, err))
	}
	return diag.With(ld.nodes, out...)
}

func (d *LuaDialect) scriptError(uri string, err error) diag.Diagnostic {
	return diag.NewError(diag.DialectScriptError, source.Location{URI: uri},
		fmt.Sprintf("Dialect %s failed: %v", d.name, err))
}

func (d *LuaDialect) newState(ctx context.Context) (*lua.LState, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	L.SetTop(0)
	// base открывает и загрузку файлов, скриптам диалектов она не нужна
	for _, name := range []string{"dofile", "loadfile", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetContext(ctx)

	L.Push(L.NewFunctionFromProto(d.proto))
	if err := L.PCall(0, 0, nil); err != nil {
		L.Close()
		return nil, err
	}
	return L, nil
}

func (d *LuaDialect) call(ctx context.Context, fn string, ld *luaDoc) (err error) {
	L, err := d.newState(ctx)
	if err != nil {
		return err
	}
	defer L.Close()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s: panic in %s: %v", d.chunk, fn, r)
		}
	}()

	ud := L.NewUserData()
	ud.Value = ld
	L.SetMetatable(ud, docMetatable(L))
	return L.CallByParam(lua.P{Fn: L.GetGlobal(fn), NRet: 0, Protect: true}, ud)
}

// luaDoc is the document as a script sees it.
type luaDoc struct {
	doc     *mapping.Document
	dialect string
	// collect enables node(); nodes are mapped when they are created.
	collect bool
	diags   []diag.Diagnostic
	nodes   []syntax.Node
}

func docMetatable(L *lua.LState) *lua.LTable {
	mt := L.NewTable()
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"lines":   luaLines,
		"replace": luaReplace,
		"clear":   luaClear,
		"error":   luaError,
		"node":    luaNode,
	}))
	return mt
}

func checkDoc(L *lua.LState) *luaDoc {
	ud := L.CheckUserData(1)
	ld, ok := ud.Value.(*luaDoc)
	if !ok {
		L.ArgError(1, "document expected")
	}
	return ld
}

// checkRange reads four 1-based integers starting at argument n.
func checkRange(L *lua.LState, n int) source.Range {
	return source.NewRange(L.CheckInt(n)-1, L.CheckInt(n+1)-1, L.CheckInt(n+2)-1, L.CheckInt(n+3)-1)
}

func luaLines(L *lua.LState) int {
	ld := checkDoc(L)
	tbl := L.NewTable()
	for i := range ld.doc.CurrentLineCount() {
		tbl.RawSetInt(i+1, lua.LString(ld.doc.CurrentLine(i)))
	}
	L.Push(tbl)
	return 1
}

func luaReplace(L *lua.LState) int {
	ld := checkDoc(L)
	r := checkRange(L, 2)
	if err := ld.doc.Replace(r, L.CheckString(6)); err != nil {
		L.RaiseError("replace: %v", err)
	}
	return 0
}

func luaClear(L *lua.LState) int {
	ld := checkDoc(L)
	if err := ld.doc.Clear(checkRange(L, 2)); err != nil {
		L.RaiseError("clear: %v", err)
	}
	return 0
}

func luaError(L *lua.LState) int {
	ld := checkDoc(L)
	r := checkRange(L, 2)
	ld.diags = append(ld.diags, diag.NewError(diag.DialectSyntax,
		source.Location{URI: ld.doc.URI(), Range: r}, L.CheckString(6)))
	return 0
}

func luaNode(L *lua.LState) int {
	ld := checkDoc(L)
	if !ld.collect {
		L.RaiseError("node: only available in process_text")
		return 0
	}
	kind, ok := parseKind(L.CheckString(2))
	if !ok {
		L.ArgError(2, "unknown node kind")
		return 0
	}
	name := L.CheckString(3)
	loc, err := ld.doc.MapLocation(checkRange(L, 4))
	if err != nil {
		L.RaiseError("node: %v", err)
		return 0
	}
	ld.nodes = append(ld.nodes, syntax.Node{Kind: kind, Name: name, Dialect: ld.dialect, Location: loc})
	return 0
}

func parseKind(s string) (syntax.Kind, bool) {
	for k := syntax.KindCopyStatement; k <= syntax.KindDialectStatement; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return syntax.KindInvalid, false
}

func stringList(v lua.LValue) []string {
	switch v := v.(type) {
	case lua.LString:
		return []string{string(v)}
	case *lua.LTable:
		out := make([]string, 0, v.Len())
		for i := 1; i <= v.Len(); i++ {
			if s, ok := v.RawGetInt(i).(lua.LString); ok {
				out = append(out, string(s))
			}
		}
		return out
	}
	return nil
}
