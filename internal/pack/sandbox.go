package pack

import (
	lua "github.com/yuin/gopher-lua"
)

// packLibs are the only standard libraries a pack file gets. The package
// library is opened first because base registers require against it.
var packLibs = []struct {
	name string
	open lua.LGFunction
}{
	{lua.LoadLibName, lua.OpenPackage},
	{lua.BaseLibName, lua.OpenBase},
	{lua.TabLibName, lua.OpenTable},
	{lua.StringLibName, lua.OpenString},
	{lua.MathLibName, lua.OpenMath},
}

// blockedGlobals can load code, reach the host or tamper with environments.
// A pack file only declares the library and binaries tables.
var blockedGlobals = []string{
	"package",
	"require",
	"module",
	"dofile",
	"loadfile",
	"load",
	"loadstring",
	"getfenv",
	"setfenv",
	"newproxy",
	"collectgarbage",
	"_printregs",
}

// sandboxLuaVM strips the blocked globals from L.
func sandboxLuaVM(L *lua.LState) {
	for _, name := range blockedGlobals {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM returns a VM with only packLibs opened and the blocked
// globals removed. os, io, debug, channel and coroutine are never opened.
func newSandboxedVM() *lua.LState {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range packLibs {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	sandboxLuaVM(L)
	return L
}
