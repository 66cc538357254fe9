package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ehuff700/cmdlink/pkg/commands/list"
	"github.com/ehuff700/cmdlink/pkg/types"
)

func TestRenderList_Empty(t *testing.T) {
	var buf bytes.Buffer
	renderList(&buf, &list.Result{ColorMode: "never"}, true)
	assert.Contains(t, buf.String(), MsgNoAliases)
}

func TestRenderList(t *testing.T) {
	result := &list.Result{
		Entries: []list.Entry{
			{
				Def: types.AliasDefinition{
					Name:        "ll",
					Exec:        "ls",
					Args:        []string{"-la"},
					Description: "long listing",
				},
			},
			{
				Def:   types.AliasDefinition{Name: "gs", Exec: "git", Args: []string{"status"}},
				Stale: true,
			},
		},
		BinDir:        "/data/bin",
		PathInstalled: true,
		ColorMode:     "never",
	}

	var buf bytes.Buffer
	renderList(&buf, result, true)
	out := buf.String()

	assert.Contains(t, out, "ll")
	assert.Contains(t, out, "ls -la")
	assert.Contains(t, out, "long listing")
	assert.Contains(t, out, "stale")
	assert.Contains(t, out, "/data/bin")
	assert.Contains(t, out, "cmdlink refresh")
	assert.NotContains(t, out, "\x1b[")
}

func TestRenderList_WarnsWhenPathMissing(t *testing.T) {
	result := &list.Result{
		Entries:   []list.Entry{{Def: types.AliasDefinition{Name: "ll", Exec: "ls"}}},
		BinDir:    "/data/bin",
		ColorMode: "never",
	}

	var buf bytes.Buffer
	renderList(&buf, result, true)
	assert.Contains(t, buf.String(), "cmdlink setup")
}
