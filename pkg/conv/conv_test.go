package conv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringMap(t *testing.T) {
	in := map[string]any{
		"industry": "tech",
		"age":      float64(21),
		"remote":   true,
		"tags":     []any{"a"},
		"nothing":  nil,
	}
	got := StringMap(in)
	assert.Equal(t, map[string]string{
		"industry": "tech",
		"age":      "21",
		"remote":   "true",
	}, got)
}

func TestConfigGetters(t *testing.T) {
	cfg := map[string]any{
		"k":      20,
		"n":      float64(5),
		"bonus":  5,
		"expr":   "item.match > 10.0",
		"wrong":  "x",
		"levels": []any{"shs", 3.0},
	}

	assert.Equal(t, 20, ConfigGetInt(cfg, "k", 0))
	assert.Equal(t, 5, ConfigGetInt(cfg, "n", 0))
	assert.Equal(t, 7, ConfigGetInt(cfg, "missing", 7))
	assert.Equal(t, 5.0, ConfigGetFloat(cfg, "bonus", 0))
	assert.Equal(t, 1.5, ConfigGetFloat(cfg, "wrong", 1.5))
	assert.Equal(t, "item.match > 10.0", ConfigGet(cfg, "expr", ""))
	assert.Equal(t, "", ConfigGet(cfg, "k", ""))
	assert.Equal(t, []string{"shs", "3"}, SliceAnyToString(cfg["levels"]))
	assert.Equal(t, 9, ConfigGetInt(nil, "k", 9))
}
