// Package backend compiles generated Go units and reports what the Go
// toolchain says about them as numbered diagnostics.
//
// TypeChecker runs go/types in process and is what `check` uses. GoBuild
// shells out to `go build` and produces a binary. Both translate tool
// messages through Classify so the same problem always carries the same
// code, whichever path found it.
package backend
