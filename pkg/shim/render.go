package shim

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ehuff700/cmdlink/pkg/types"
)

// generatedHeader marks shims as cmdlink-owned. Listing and removal only
// ever touch files carrying it.
const generatedHeader = "generated by cmdlink; do not edit"

// RenderPosix produces the POSIX shell shim for a definition. Rendering is
// deterministic: environment keys are emitted in sorted order and the
// template carries no timestamps, so the same definition always yields
// byte-identical output.
func RenderPosix(def types.AliasDefinition) []byte {
	var b strings.Builder
	b.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&b, "# %s\n", generatedHeader)

	for _, key := range sortedEnvKeys(def.Env) {
		fmt.Fprintf(&b, "export %s=%s\n", key, posixQuote(def.Env[key]))
	}
	if def.Dir != "" {
		fmt.Fprintf(&b, "cd %s || exit 1\n", posixQuote(def.Dir))
	}

	b.WriteString("exec " + posixQuote(def.Exec))
	for _, arg := range def.Args {
		b.WriteString(" " + posixQuote(arg))
	}
	b.WriteString(" \"$@\"\n")
	return []byte(b.String())
}

// RenderBatch produces the Windows batch shim for a definition. PATHEXT
// resolves the bare alias name to the generated .cmd file.
func RenderBatch(def types.AliasDefinition) []byte {
	var b strings.Builder
	b.WriteString("@echo off\r\n")
	fmt.Fprintf(&b, "rem %s\r\n", generatedHeader)

	for _, key := range sortedEnvKeys(def.Env) {
		fmt.Fprintf(&b, "set \"%s=%s\"\r\n", key, def.Env[key])
	}
	if def.Dir != "" {
		fmt.Fprintf(&b, "cd /d \"%s\"\r\n", def.Dir)
	}

	b.WriteString(batchQuote(def.Exec))
	for _, arg := range def.Args {
		b.WriteString(" " + batchQuote(arg))
	}
	b.WriteString(" %*\r\n")
	return []byte(b.String())
}

func sortedEnvKeys(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// posixQuote wraps s in single quotes, escaping embedded single quotes, so
// the shim passes the value through the shell verbatim.
func posixQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// batchQuote wraps s in double quotes when it contains characters cmd.exe
// would otherwise split or interpret.
func batchQuote(s string) string {
	if s == "" || strings.ContainsAny(s, " \t&|<>^%") {
		return "\"" + s + "\""
	}
	return s
}
