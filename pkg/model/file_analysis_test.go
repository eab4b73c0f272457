// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileAnalysis_HasLocalUse(t *testing.T) {
	f := &FileAnalysis{
		LocalUses:     []string{"helper"},
		SymbolUsages:  []string{"Widget"},
		SignatureUses: []string{"Result"},
	}

	assert.True(t, f.HasLocalUse("helper"))
	assert.True(t, f.HasLocalUse("Widget"))
	assert.True(t, f.HasLocalUse("Result"))
	assert.False(t, f.HasLocalUse("unused"))
}

func TestFileAnalysis_DefaultExport(t *testing.T) {
	f := &FileAnalysis{
		Exports: []ExportSymbol{
			{Name: "named"},
			{Name: "default", ExportType: "UserService"},
		},
	}

	def := f.DefaultExport()
	require.NotNil(t, def)
	assert.Equal(t, "UserService", def.ExportType)

	noDefault := &FileAnalysis{Exports: []ExportSymbol{{Name: "named"}}}
	assert.Nil(t, noDefault.DefaultExport())
}

func TestFileAnalysis_IsAmbient(t *testing.T) {
	assert.True(t, (&FileAnalysis{Kind: KindAmbient}).IsAmbient())
	assert.False(t, (&FileAnalysis{Kind: KindSource}).IsAmbient())
}
