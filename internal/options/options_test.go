package options

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Option
	}{
		{
			name:  "labels kept in order",
			input: "fade 10\ntrim\ndelayrotate delay feedback frequency\n",
			want: []Option{
				{Name: "fade", Params: []string{"10"}},
				{Name: "trim", Params: []string{}},
				{Name: "delayrotate", Params: []string{"delay", "feedback", "frequency"}},
			},
		},
		{
			name:  "duplicate keeps first position and last params",
			input: "gain g1\nfold\ngain g2 g3",
			want: []Option{
				{Name: "gain", Params: []string{"g2", "g3"}},
				{Name: "fold", Params: []string{}},
			},
		},
		{
			name:  "blank lines and mixed whitespace",
			input: "\n  speed\tspeed  \r\n\n normalize \n",
			want: []Option{
				{Name: "speed", Params: []string{"speed"}},
				{Name: "normalize", Params: []string{}},
			},
		},
		{
			name:  "empty dump",
			input: "  \n\n",
			want:  []Option{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := Parse(tt.input)
			assert.Equal(t, tt.want, set.Options())
			assert.Equal(t, len(tt.want), set.Len())
		})
	}
}

func TestParseIsPure(t *testing.T) {
	dump := "fade 10\ntrim\nfade x\n"
	assert.Equal(t, Parse(dump), Parse(dump))
}

func TestLookup(t *testing.T) {
	set := Parse("fade 10\ntrim\n")

	opt, err := set.Lookup("fade")
	require.NoError(t, err)
	assert.Equal(t, Option{Name: "fade", Params: []string{"10"}}, opt)

	_, err = set.Lookup("reverse")
	assert.True(t, errors.Is(err, ErrUnknownOption))

	_, err = NewSet().Lookup("")
	assert.True(t, errors.Is(err, ErrUnknownOption))
}

func TestLookupReturnsCopy(t *testing.T) {
	set := Parse("softclip amount\n")
	opt, err := set.Lookup("softclip")
	require.NoError(t, err)
	opt.Params[0] = "changed"

	again, err := set.Lookup("softclip")
	require.NoError(t, err)
	assert.Equal(t, []string{"amount"}, again.Params)
}

func TestCandidates(t *testing.T) {
	assert.Equal(t, "fade\ntrim", Parse("fade 10\ntrim\n").Candidates())
	assert.Equal(t, "", Parse("").Candidates())
	assert.Empty(t, Parse("").Names())
}

func TestUsage(t *testing.T) {
	set := Parse("interpolate\ndelaypitch factor size\n")
	assert.Equal(t, "interpolate\ndelaypitch <factor> <size>\n", set.Usage())
}
