package platform

import (
	lua "github.com/yuin/gopher-lua"
)

// InjectTargetTable creates a read-only "platform" table describing the host
// and the supported targets, and sets it as a global in L. Call it before
// running pack files.
func InjectTargetTable(L *lua.LState, info *Info) error {
	platformTable := L.NewTable()

	host := info.Target
	L.SetField(platformTable, "os", lua.LString(host.OS.String()))
	L.SetField(platformTable, "arch", lua.LString(host.Arch.String()))
	L.SetField(platformTable, "triple", lua.LString(host.Triple()))
	L.SetField(platformTable, "os_raw", lua.LString(info.OSRaw))
	L.SetField(platformTable, "arch_raw", lua.LString(info.ArchRaw))

	L.SetField(platformTable, "is_linux", lua.LBool(host.OS == Linux))
	L.SetField(platformTable, "is_macos", lua.LBool(host.OS == MacOS))
	L.SetField(platformTable, "is_windows", lua.LBool(host.OS == Windows))

	if host.OS == Linux && info.Platform != "" {
		distroTable := L.NewTable()
		L.SetField(distroTable, "id", lua.LString(info.Platform))
		L.SetField(distroTable, "family", lua.LString(info.Family))
		L.SetField(distroTable, "version", lua.LString(info.Version))
		L.SetField(platformTable, "distro", distroTable)
	} else {
		L.SetField(platformTable, "distro", lua.LNil)
	}

	targets := L.NewTable()
	for _, t := range AllTargets() {
		targets.Append(lua.LString(t.Triple()))
	}
	L.SetField(platformTable, "targets", targets)

	// when(condition, value) returns value if condition is true, nil otherwise.
	whenFunc := L.NewFunction(func(L *lua.LState) int {
		cond := L.CheckBool(1)
		value := L.Get(2)
		if cond {
			L.Push(value)
		} else {
			L.Push(lua.LNil)
		}
		return 1
	})
	L.SetField(platformTable, "when", whenFunc)

	L.SetGlobal("platform", makeReadOnly(L, platformTable))

	return nil
}

// makeReadOnly returns a proxy that redirects reads to table and rejects
// all writes.
func makeReadOnly(L *lua.LState, table *lua.LTable) *lua.LTable {
	mt := L.NewTable()

	L.SetField(mt, "__index", table)
	L.SetField(mt, "__newindex", L.NewFunction(func(L *lua.LState) int {
		L.RaiseError("platform table is read-only and cannot be modified")
		return 0
	}))
	L.SetField(mt, "__metatable", lua.LString("protected"))

	proxy := L.NewTable()
	L.SetMetatable(proxy, mt)

	return proxy
}
