//nolint:testpackage // using package name 'argx' to access unexported fields for testing
package argx

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		set     CandidateSet
		kind    OutcomeKind
		value   any
		matches []string
	}{
		{
			name:  "unique prefix",
			token: "ep",
			set:   Literals("alpha", "epsilon", "gamma"),
			kind:  OutcomeUnique,
			value: "epsilon",
		},
		{
			name:  "exact literal beats longer ones",
			token: "be",
			set:   Set("bed", "be", "bend"),
			kind:  OutcomeUnique,
			value: "be",
		},
		{
			name:    "ambiguous prefix keeps declaration order",
			token:   "co",
			set:     Set("cohesion", "bed", "common", "condense"),
			kind:    OutcomeAmbiguous,
			matches: []string{"cohesion", "common", "condense"},
		},
		{
			name:  "empty token",
			token: "",
			set:   Literals("alpha"),
			kind:  OutcomeNone,
		},
		{
			name:  "nothing matches",
			token: "zz",
			set:   Literals("alpha", "beta"),
			kind:  OutcomeAmbiguous,
		},
		{
			name:  "converter short-circuits collected prefixes",
			token: "10",
			set:   Set("10x", Unsigned),
			kind:  OutcomeUnique,
			value: 10,
		},
		{
			name:  "typed value",
			token: "20",
			set:   Set(10, 20, 30),
			kind:  OutcomeUnique,
			value: 20,
		},
		{
			name:  "typed value mismatch",
			token: "25",
			set:   Set(10, 20, 30),
			kind:  OutcomeAmbiguous,
		},
		{
			name:  "converter accepts the empty token",
			token: "",
			set:   Set(MustRegexp("/.*/")),
			kind:  OutcomeUnique,
			value: "",
		},
		{
			name:  "pattern capture group",
			token: "abc123",
			set:   Set(MustRegexp("/[a-z]+([0-9]+)/")),
			kind:  OutcomeUnique,
			value: "123",
		},
		{
			name:  "first participating group",
			token: "bb",
			set:   Set(MustRegexp("/(a+)|(b+)/")),
			kind:  OutcomeUnique,
			value: "bb",
		},
		{
			name:  "search pattern without groups",
			token: "xAEIx",
			set:   Set(regexp.MustCompile("[AEIOU]+")),
			kind:  OutcomeUnique,
			value: "xAEIx",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Match(tt.token, tt.set)
			assert.Equal(t, tt.kind, out.Kind)
			assert.Equal(t, tt.value, out.Value)
			assert.Equal(t, tt.matches, out.Matches)
		})
	}
}

func TestMatchNoMatch(t *testing.T) {
	assert.True(t, Match("zz", Literals("alpha")).NoMatch())
	assert.False(t, Match("co", Literals("cohesion", "common")).NoMatch())
	assert.False(t, Match("", Literals("alpha")).NoMatch())
}

func TestResolve(t *testing.T) {
	t.Run("unique", func(t *testing.T) {
		v, ok, err := Resolve("gam", Literals("alpha", "gamma"))
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "gamma", v)
	})

	t.Run("empty token is not supplied", func(t *testing.T) {
		v, ok, err := Resolve("", Literals("alpha"))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, v)
	})

	tests := []struct {
		name  string
		token string
		set   CandidateSet
		typ   ErrorType
		msg   string
	}{
		{
			name:  "no match among literals",
			token: "x",
			set:   Literals("alpha", "beta"),
			typ:   ErrorTypeNoMatch,
			msg:   `"x" should be either "alpha" or "beta"`,
		},
		{
			name:  "no match single converter",
			token: "x",
			set:   Set(Unsigned),
			typ:   ErrorTypeNoMatch,
			msg:   `"x" should be unsigned`,
		},
		{
			name:  "empty set",
			token: "x",
			set:   CandidateSet{},
			typ:   ErrorTypeNoMatch,
			msg:   `"x": cannot accept any argument`,
		},
		{
			name:  "ambiguous",
			token: "co",
			set:   Literals("cohesion", "common", "condense"),
			typ:   ErrorTypeAmbiguous,
			msg:   `"co" is ambiguous, did you mean cohesion, common or condense?`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok, err := Resolve(tt.token, tt.set)
			assert.False(t, ok)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.typ, pe.Type)
			assert.Equal(t, tt.msg, pe.Error())
			assert.Equal(t, tt.token, pe.Token)
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name    string
		set     CandidateSet
		summary string
		plural  bool
	}{
		{
			name:    "literals before converters and patterns",
			set:     Set("alpha", Integer, "beta", MustRegexp("/x/"), Integer),
			summary: `"alpha", "beta", integer or proper string`,
			plural:  true,
		},
		{
			name:    "typed values",
			set:     Set(10, 20, 30),
			summary: "10, 20 or 30",
			plural:  true,
		},
		{
			name:    "single converter",
			set:     Set(Unsigned),
			summary: "unsigned",
		},
		{
			name:    "converter and literal",
			set:     Set(Unsigned, "forever"),
			summary: `"forever" or unsigned`,
			plural:  true,
		},
		{
			name:    "renamed pattern",
			set:     Set(MustRegexp("/[01]+/").Named("bits"), MustRegexp("/[01]+/")),
			summary: "bits or proper string",
			plural:  true,
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary, plural := Describe(tt.set)
			assert.Equal(t, tt.summary, summary)
			assert.Equal(t, tt.plural, plural)
		})
	}
}

func TestRenderAmbiguous(t *testing.T) {
	assert.Equal(t,
		`"co" is ambiguous, did you mean cohesion, common or condense?`,
		RenderAmbiguous("co", []string{"cohesion", "common", "condense"}))
	assert.Equal(t,
		`"b" is ambiguous, did you mean bed or bend?`,
		RenderAmbiguous("b", []string{"bed", "bend"}))
}

func TestParseRegexp(t *testing.T) {
	p, err := ParseRegexp("/[a-f]+/i")
	require.NoError(t, err)
	assert.Equal(t, "(?i)^(?:[a-f]+)$", p.Regexp().String())

	v, err := p.Accept("ABC")
	require.NoError(t, err)
	assert.Equal(t, "ABC", v)

	_, err = p.Accept("abcx")
	assert.Error(t, err)

	_, err = ParseRegexp("[a-f]+")
	assert.EqualError(t, err, `"[a-f]+": not a regular expression`)

	_, err = ParseRegexp("/x/g")
	assert.EqualError(t, err, `"/x/g": unknown flag 'g'`)

	assert.Panics(t, func() { MustRegexp("/(/") })
}

func TestSetRejectsUnknownItems(t *testing.T) {
	assert.PanicsWithError(t, "unsupported candidate true (bool)", func() {
		Set(true)
	})
}
