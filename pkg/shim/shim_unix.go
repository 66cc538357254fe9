//go:build !windows

package shim

import "github.com/ehuff700/cmdlink/pkg/fsops"

// POSIX shims are extensionless so the alias resolves under exactly the name
// the user registered.
func newPlatformMaterializer(binDir string, exec *fsops.Executor) Materializer {
	return newScriptMaterializer(binDir, "", 0755, RenderPosix, exec)
}
