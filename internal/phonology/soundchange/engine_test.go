package soundchange_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conlang/internal/phonology/soundchange"
)

func TestApply_Properties(t *testing.T) {
	tests := []struct {
		name  string
		word  string
		rules []string
		want  string
	}{
		{name: "identity", word: "papa", rules: nil, want: "papa"},
		{name: "simple substitution", word: "papa", rules: []string{"p > b"}, want: "baba"},
		{
			// The leading h has nothing to its left, so the lookbehind fails
			// and only the intervocalic h is deleted.
			name:  "intervocalic deletion",
			word:  "haha",
			rules: []string{"h > Ø / V_V"},
			want:  "haa",
		},
		{
			// Bracket lists pass through verbatim as a regex class; the comma
			// is just another member of the class.
			name:  "verbatim bracket class",
			word:  "anpa",
			rules: []string{"n > m / _[p,b,m]"},
			want:  "ampa",
		},
		{name: "malformed first rule skipped", word: "test", rules: []string{"not a rule", "t > d"}, want: "desd"},
		{name: "feeding order", word: "papa", rules: []string{"p > b", "b > m"}, want: "mama"},
		{name: "bleeding order", word: "papa", rules: []string{"b > m", "p > b"}, want: "baba"},
		{name: "consonant macro", word: "aka", rules: []string{"a > e / C_"}, want: "ake"},
		{name: "vowel macro on long vowel", word: "tāta", rules: []string{"t > d / V_"}, want: "tāda"},
		{name: "before only without underscore", word: "sasa", rules: []string{"s > z / a"}, want: "saza"},
		{name: "empty environment is plain substitution", word: "kaka", rules: []string{"k > g /"}, want: "gaga"},
		{name: "regex from", word: "pata", rules: []string{"[pt] > k"}, want: "kaka"},
		{name: "word boundary", word: "anna", rules: []string{"a > e / _$"}, want: "anne"},
		{name: "capture group replacement", word: "kt", rules: []string{"(k)(t) > $2$1"}, want: "tk"},
		{name: "V inside longer text is literal", word: "aVb", rules: []string{"b > p / aV_"}, want: "aVp"},
		{name: "bad pattern skipped", word: "papa", rules: []string{"( > x", "a > o"}, want: "popo"},
		{name: "missing replacement skipped", word: "papa", rules: []string{"p >", "p > f"}, want: "fafa"},
		{name: "empty rule skipped", word: "papa", rules: []string{"", "   / V_V", "a > e"}, want: "pepe"},
		{name: "extra arrow ignored", word: "pa", rules: []string{"p > b > m"}, want: "ba"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, soundchange.Apply(tt.word, tt.rules))
		})
	}
}

func TestApply_IdentityKeepsBytes(t *testing.T) {
	words := map[string]string{
		"ascii":       "papa",
		"precomposed": "t\u0101ta",
		"decomposed":  "ta\u0304ta",
		"empty":       "",
	}
	ruleLists := map[string][]string{
		"nil rules":        nil,
		"empty rules":      []string{},
		"no match":         {"x > y"},
		"skipped and miss": {"not a rule", "q > k / V_V"},
	}
	for wname, word := range words {
		for rname, rules := range ruleLists {
			t.Run(wname+"/"+rname, func(t *testing.T) {
				assert.Equal(t, []byte(word), []byte(soundchange.Apply(word, rules)))
			})
		}
	}
}

func TestApplyWithDiagnostics_UnchangedStepsKeepInput(t *testing.T) {
	res := soundchange.ApplyWithDiagnostics("ta\u0304ta", []string{"x > y", "t > d / V_"})
	require.Len(t, res.Steps, 2)
	assert.Equal(t, "ta\u0304ta", res.Steps[0].Output)
	assert.Equal(t, "t\u0101da", res.Steps[1].Output)
	assert.Equal(t, "t\u0101da", res.Word)
}

func TestApply_ECMAScriptSemantics(t *testing.T) {
	// $ matches only at the very end, not before a trailing newline.
	assert.Equal(t, "pa\n", soundchange.Apply("pa\n", []string{"a > e / _$"}))
	assert.Equal(t, "pe", soundchange.Apply("pa", []string{"a > e / _$"}))
	// \w is ASCII only.
	assert.Equal(t, "X\u0101", soundchange.Apply("a\u0101", []string{`\w > X`}))
	assert.Equal(t, "\u0660", soundchange.Apply("\u0660", []string{`\d > 0`}))
}

func TestApply_DecomposedInputMatchesComposedRule(t *testing.T) {
	decomposed := "tāta" // a + combining macron
	got := soundchange.Apply(decomposed, []string{"t > d / V_"})
	assert.Equal(t, "t\u0101da", got)
}

func TestApplyWithDiagnostics(t *testing.T) {
	res := soundchange.ApplyWithDiagnostics("test", []string{"not a rule", "t > d", "[ > x"})

	assert.Equal(t, "test", res.Input)
	assert.Equal(t, "desd", res.Word)

	require.Len(t, res.Steps, 1)
	assert.Equal(t, 1, res.Steps[0].Index)
	assert.Equal(t, "desd", res.Steps[0].Output)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 0, res.Skipped[0].Index)
	assert.ErrorIs(t, res.Skipped[0], soundchange.ErrMalformedRule)
	assert.Equal(t, 2, res.Skipped[1].Index)
	assert.ErrorIs(t, res.Skipped[1].Err, soundchange.ErrPatternCompile)
	assert.Contains(t, res.Skipped[1].Error(), `rule 3 "[ > x"`)
}

func TestEngine_MatchTimeoutSkipsRule(t *testing.T) {
	eng := soundchange.New(soundchange.WithMatchTimeout(time.Millisecond))
	word := ""
	for i := 0; i < 30; i++ {
		word += "a"
	}
	word += "b"

	res := eng.ApplyWithDiagnostics(word, []string{"(a+)+c > x", "b > d"})

	require.Len(t, res.Skipped, 1)
	assert.ErrorIs(t, res.Skipped[0], soundchange.ErrMatch)
	assert.Equal(t, word[:30]+"d", res.Word)
}

func TestEngine_CacheReturnsSameCompiledRule(t *testing.T) {
	eng := soundchange.New()
	a, err := eng.Compile("p > b / V_V")
	require.NoError(t, err)
	b, err := eng.Compile("p > b / V_V")
	require.NoError(t, err)
	assert.Same(t, a, b)

	_, err = eng.Compile("nonsense")
	assert.ErrorIs(t, err, soundchange.ErrMalformedRule)
	_, err = eng.Compile("nonsense")
	assert.ErrorIs(t, err, soundchange.ErrMalformedRule)
}

func TestEngine_CacheDisabled(t *testing.T) {
	eng := soundchange.New(soundchange.WithCacheSize(0))
	a, err := eng.Compile("p > b")
	require.NoError(t, err)
	b, err := eng.Compile("p > b")
	require.NoError(t, err)
	assert.NotSame(t, a, b)
}

func TestEngine_CacheEvictsWhenFull(t *testing.T) {
	eng := soundchange.New(soundchange.WithCacheSize(2))
	first, err := eng.Compile("a > b")
	require.NoError(t, err)
	_, _ = eng.Compile("b > c")
	_, _ = eng.Compile("c > d")
	again, err := eng.Compile("a > b")
	require.NoError(t, err)
	assert.NotSame(t, first, again)
}

func TestEngine_ConcurrentApply(t *testing.T) {
	eng := soundchange.New()
	rules := []string{"p > b / V_V", "b > v / V_V", "a > e / _$"}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			word := fmt.Sprintf("apapa%d", i%2)
			got := eng.Apply(word, rules)
			if i%2 == 0 {
				assert.Equal(t, "avava0", got)
			} else {
				assert.Equal(t, "avava1", got)
			}
		}(i)
	}
	wg.Wait()
}
