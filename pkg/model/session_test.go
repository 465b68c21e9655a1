package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSessionContext_ColorFor(t *testing.T) {
	sctx := &SessionContext{
		Colors: map[string]string{
			"44":  "#00d2be",
			"VER": "#0600ef",
		},
	}

	// id assignment wins
	assert.Equal(t, "#00d2be",
		sctx.ColorFor(DriverInfo{ID: "44", Abbreviation: "HAM"}, 0))
	// abbreviation is the second lookup
	assert.Equal(t, "#0600ef",
		sctx.ColorFor(DriverInfo{ID: "1", Abbreviation: "VER"}, 0))

	// unassigned drivers cycle through the palette by selection order
	unassigned := DriverInfo{ID: "16", Abbreviation: "LEC"}
	first := sctx.ColorFor(unassigned, 0)
	wrapped := sctx.ColorFor(unassigned, len(defaultPalette))
	assert.Equal(t, first, wrapped)
	assert.NotEqual(t, first, sctx.ColorFor(unassigned, 1))

	// negative index is clamped, not a panic
	assert.Equal(t, first, sctx.ColorFor(unassigned, -1))
}

func TestSessionKey_String(t *testing.T) {
	k := SessionKey{Year: 2024, Circuit: "testring", Type: SessionTypeRace}
	assert.Equal(t, "2024 testring Race", k.String())
}
