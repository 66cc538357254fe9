//go:build windows

package shim

import "github.com/ehuff700/cmdlink/pkg/fsops"

// Windows shims are .cmd files; PATHEXT lets the bare alias name resolve.
func newPlatformMaterializer(binDir string, exec *fsops.Executor) Materializer {
	return newScriptMaterializer(binDir, ".cmd", 0644, RenderBatch, exec)
}
