package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDisplayFlags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  DisplayFlags
	}{
		{"unset uses default", "", DisplayDefault},
		{"single token replaces default", "refs", DisplayRefs},
		{"multiple tokens", "refs,backtrace", DisplayRefs | DisplayBacktrace},
		{"all", "all", DisplayAll},
		{"none", "none", DisplayNone},
		{"case insensitive", "CREATE,Refs", DisplayCreate | DisplayRefs},
		{"unknown tokens ignored", "bogus,refs", DisplayRefs},
		{"only unknown tokens yields nothing", "bogus", DisplayNone},
		{"none combined with others", "none,create", DisplayCreate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDisplayFlags(tt.input))
		})
	}
}

func TestDisplayFlagsHas(t *testing.T) {
	flags := DisplayCreate | DisplayRefs

	assert.True(t, flags.Has(DisplayCreate))
	assert.True(t, flags.Has(DisplayRefs))
	assert.False(t, flags.Has(DisplayBacktrace))
	assert.False(t, DisplayNone.Has(DisplayCreate))

	// Every bit of the argument must be enabled, not just one.
	assert.False(t, flags.Has(DisplayAll))
	assert.False(t, DisplayRefs.Has(DisplayAll))
	assert.True(t, DisplayAll.Has(DisplayRefs))
	assert.True(t, DisplayAll.Has(DisplayCreate|DisplayBacktrace))
}

func TestObjectIDString(t *testing.T) {
	assert.Equal(t, "0x1000", ObjectID(0x1000).String())
	assert.Equal(t, "0x0", ObjectID(0).String())
}
