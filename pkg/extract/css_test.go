// Copyright 2026 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-only

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSSExtractor_Import(t *testing.T) {
	src := `@import url("./reset.css");
@import "./theme.css";
`
	e := NewCSSExtractor()
	fa := e.Extract("src/app.css", []byte(src))

	require.Len(t, fa.Imports, 2)
	assert.Equal(t, "./reset.css", fa.Imports[0].Source)
	assert.Equal(t, "./theme.css", fa.Imports[1].Source)
}

func TestCSSExtractor_LayoutRules(t *testing.T) {
	src := `
.modal {
  z-index: 100;
  position: fixed;
}
.grid-container {
  display: grid;
}
.static-box {
  color: red;
}
`
	e := NewCSSExtractor()
	fa := e.Extract("src/layout.css", []byte(src))

	props := map[string]bool{}
	for _, rule := range fa.CSSRules {
		props[rule.Selector+":"+rule.Property] = true
	}
	assert.True(t, props[".modal:z-index"])
	assert.True(t, props[".modal:position"])
	assert.True(t, props[".grid-container:display"])
	assert.False(t, props[".static-box:color"])
}
