// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loctreehq/loctree/pkg/model"
)

func TestRustExtractor_UseDeclarations(t *testing.T) {
	src := `
use crate::db::Pool;
use super::utils;
use std::collections::HashMap;
`
	e := NewRustExtractor()
	fa := e.Extract("src/handlers.rs", []byte(src))

	require.Len(t, fa.Imports, 3)
	assert.True(t, fa.Imports[0].IsCrateRelative)
	assert.True(t, fa.Imports[1].IsSuperRelative)
	assert.True(t, fa.Imports[2].IsBare)
}

func TestRustExtractor_ModDeclarationIsSyntheticImport(t *testing.T) {
	src := `mod widgets;`
	e := NewRustExtractor()
	fa := e.Extract("src/lib.rs", []byte(src))

	require.Len(t, fa.Imports, 1)
	assert.Equal(t, "mod::widgets", fa.Imports[0].Source)
	assert.True(t, fa.Imports[0].IsModDeclaration)
}

func TestRustExtractor_PubUseReexport(t *testing.T) {
	src := `pub use foo::{Bar, Baz as Qux};`
	e := NewRustExtractor()
	fa := e.Extract("src/lib.rs", []byte(src))

	require.Len(t, fa.Reexports, 1)
	assert.Equal(t, model.ReexportNamed, fa.Reexports[0].Kind)
	assert.Contains(t, fa.Reexports[0].Named, model.NamedReexport{Orig: "Bar", Exported: "Bar"})
	assert.Contains(t, fa.Reexports[0].Named, model.NamedReexport{Orig: "Baz", Exported: "Qux"})
}

func TestRustExtractor_PubItemsAreExports(t *testing.T) {
	src := `
pub fn get_user(id: u32) -> String { String::new() }
pub struct User { pub id: u32 }
fn private_helper() {}
`
	e := NewRustExtractor()
	fa := e.Extract("src/lib.rs", []byte(src))

	names := map[string]bool{}
	for _, exp := range fa.Exports {
		names[exp.Kind] = true
	}
	assert.True(t, names["function"] || names["struct"])
}

func TestRustExtractor_TauriCommandHandler(t *testing.T) {
	src := `
#[tauri::command]
fn get_user(id: u32) -> String {
    String::new()
}
`
	e := NewRustExtractor()
	fa := e.Extract("src/commands.rs", []byte(src))

	require.Len(t, fa.CommandHandlers, 1)
	assert.Equal(t, "get_user", fa.CommandHandlers[0].Name)
}

func TestRustExtractor_GenerateHandlerMacro(t *testing.T) {
	src := `
fn main() {
    tauri::Builder::default()
        .invoke_handler(tauri::generate_handler![get_user, delete_user])
        .run(tauri::generate_context!())
        .unwrap();
}
`
	e := NewRustExtractor()
	fa := e.Extract("src/main.rs", []byte(src))

	assert.Equal(t, []string{"get_user", "delete_user"}, fa.TauriRegisteredHandlers)
}

func TestRustExtractor_CfgTestModuleStripped(t *testing.T) {
	src := `
use crate::real::Thing;

#[cfg(test)]
mod tests {
    use crate::fake::FakeThing;
    #[test]
    fn it_works() {}
}
`
	e := NewRustExtractor()
	fa := e.Extract("src/lib.rs", []byte(src))

	for _, imp := range fa.Imports {
		assert.NotContains(t, imp.Source, "fake")
	}
}

func TestRustExtractor_StdlibTypesFilteredFromLocalUses(t *testing.T) {
	src := `
fn f() -> Vec<String> {
    let m: HashMap<String, String> = HashMap::new();
    Vec::new()
}
`
	e := NewRustExtractor()
	fa := e.Extract("src/lib.rs", []byte(src))

	for _, u := range fa.LocalUses {
		assert.NotEqual(t, "Vec", u)
		assert.NotEqual(t, "HashMap", u)
	}
}

func TestRustExtractor_EventEmitConstResolution(t *testing.T) {
	src := `
const USER_UPDATED: &str = "user:updated";

fn notify() {
    app.emit_all(USER_UPDATED, payload).unwrap();
}
`
	e := NewRustExtractor()
	fa := e.Extract("src/events.rs", []byte(src))
	assert.Equal(t, "user:updated", fa.EventConsts["USER_UPDATED"])
	require.Len(t, fa.EventEmits, 1)
	assert.Equal(t, "user:updated", fa.EventEmits[0].Name)
}

func TestRustExtractor_EventEmitStringLiteralCall(t *testing.T) {
	src := `
fn notify(app_handle: &AppHandle) {
    app_handle.emit("profile:saved", payload).unwrap();
}
`
	e := NewRustExtractor()
	fa := e.Extract("src/events.rs", []byte(src))
	require.Len(t, fa.EventEmits, 1)
	assert.Equal(t, "profile:saved", fa.EventEmits[0].Name)
}

func TestRustExtractor_EventListenCall(t *testing.T) {
	src := `
fn wire(app: &App) {
    app.listen("profile:saved", |event| {
        handle(event);
    });
}
`
	e := NewRustExtractor()
	fa := e.Extract("src/events.rs", []byte(src))
	require.Len(t, fa.EventListens, 1)
	assert.Equal(t, "profile:saved", fa.EventListens[0].Name)
}
