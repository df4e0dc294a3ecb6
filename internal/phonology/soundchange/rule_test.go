package soundchange_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conlang/internal/phonology/soundchange"
)

func TestParse(t *testing.T) {
	tests := []struct {
		rule    string
		want    soundchange.Rule
		pattern string
	}{
		{
			rule:    "p > b",
			want:    soundchange.Rule{Source: "p > b", From: "p", To: "b"},
			pattern: "p",
		},
		{
			rule:    " h > Ø / V_V ",
			want:    soundchange.Rule{Source: " h > Ø / V_V ", From: "h", Before: "V", After: "V", HasEnvironment: true},
			pattern: "(?<=[aeiouāēīōū])h(?=[aeiouāēīōū])",
		},
		{
			rule:    "n > m / _[p,b,m]",
			want:    soundchange.Rule{Source: "n > m / _[p,b,m]", From: "n", To: "m", After: "[p,b,m]", HasEnvironment: true},
			pattern: "n(?=[p,b,m])",
		},
		{
			rule:    "k > g / C_",
			want:    soundchange.Rule{Source: "k > g / C_", From: "k", To: "g", Before: "C", HasEnvironment: true},
			pattern: "(?<=[^aeiouāēīōū])k",
		},
		{
			rule:    "s > z / a",
			want:    soundchange.Rule{Source: "s > z / a", From: "s", To: "z", Before: "a", HasEnvironment: true},
			pattern: "(?<=a)s",
		},
	}
	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			got, err := soundchange.Parse(tt.rule)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.pattern, got.Pattern())
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	for _, rule := range []string{"", "   ", "not a rule", "p >", "> b", " > ", "/ V_V"} {
		_, err := soundchange.Parse(rule)
		assert.ErrorIs(t, err, soundchange.ErrMalformedRule, "rule %q", rule)
	}
}

func TestRuleString(t *testing.T) {
	r, err := soundchange.Parse("h>Ø/V_V")
	require.NoError(t, err)
	assert.Equal(t, "h > Ø / V_V", r.String())

	r, err = soundchange.Parse("p>b")
	require.NoError(t, err)
	assert.Equal(t, "p > b", r.String())
}

func TestCategories(t *testing.T) {
	c, ok := soundchange.LookupCategory("stops")
	require.True(t, ok)
	assert.Equal(t, "consonant", c.Kind)
	assert.Equal(t, "[bdgkpt]", c.Class())

	_, ok = soundchange.LookupCategory("clicks")
	assert.False(t, ok)
}
