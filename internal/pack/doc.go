// Package pack turns a Lua pack file and a set of prebuilt native libraries
// into the embedded resource tree nativelib reads, plus a generated Go
// binding that embeds it.
//
// A pack file declares two globals:
//
//	library = {
//	    name = "demo",
//	    version = "1.0.0",
//	    prefix = "native",       -- optional, defaults to "native"
//	    go_package = "demo",     -- optional, defaults to the library name
//	}
//
//	binaries = {
//	    ["x86_64-unknown-linux-gnu"] = "build/linux-amd64/libdemo.so",
//	    ["aarch64-apple-darwin"] = platform.when(have_mac, "build/mac/libdemo.dylib"),
//	}
//
// Binary paths are relative to the pack file. Entries whose value is nil are
// skipped. The read-only "platform" table describes the build host.
package pack
