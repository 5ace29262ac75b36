package suggest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverridesBuiltins(t *testing.T) {
	o := NewOverrides(nil)
	word, ok := o.Lookup("vanakkam")
	assert.True(t, ok)
	assert.Equal(t, "வணக்கம்", word)

	_, ok = o.Lookup("vanakka")
	assert.False(t, ok, "prefixes are not matches")
	assert.Equal(t, len(commonWords), o.Len())
}

func TestOverridesExtraWins(t *testing.T) {
	o := NewOverrides(map[string]string{
		"Amma":  "அம்மா!",
		"kutti": "குட்டி",
		"":      "ignored",
		"empty": "",
	})
	word, _ := o.Lookup("amma")
	assert.Equal(t, "அம்மா!", word)

	word, ok := o.Lookup("kutti")
	assert.True(t, ok)
	assert.Equal(t, "குட்டி", word)

	_, ok = o.Lookup("empty")
	assert.False(t, ok)
	assert.Equal(t, len(commonWords)+1, o.Len())
}

func TestOverridesNilSafe(t *testing.T) {
	var o *Overrides
	_, ok := o.Lookup("amma")
	assert.False(t, ok)
}
