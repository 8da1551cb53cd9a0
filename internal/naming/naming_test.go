package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuffix(t *testing.T) {
	tests := []struct {
		option string
		want   string
	}{
		{"fade", "d"},
		{"tense", "d"},
		{"normalize", "d"},
		{"trim", "ed"},
		{"fold", "ed"},
		{"removedc", "ed"},
		{"", "ed"},
	}
	for _, tt := range tests {
		t.Run(tt.option, func(t *testing.T) {
			assert.Equal(t, tt.want, Suffix(tt.option))
		})
	}
}

func TestBaseName(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"wav extension", "song.wav", "song"},
		{"directory kept", "takes/drums.wav", "takes/drums"},
		{"non extension still truncated", "recording", "recor"},
		{"exactly four chars", ".wav", ""},
		{"shorter than four", "a.w", ""},
		{"empty", "", ""},
		{"multibyte counted as characters", "été.wav", "été"},
		{"latin-1 bytes kept", "caf\xe9.wav", "caf\xe9"},
		{"invalid byte in extension", "take.wa\xff", "take"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseName(tt.path))
		})
	}
}

func TestArgumentFragment(t *testing.T) {
	assert.Equal(t, "", ArgumentFragment(nil))
	assert.Equal(t, "", ArgumentFragment([]string{}))
	assert.Equal(t, "_3", ArgumentFragment([]string{"3"}))
	assert.Equal(t, "_10_20", ArgumentFragment([]string{"10", "20"}))
	assert.Equal(t, "__x", ArgumentFragment([]string{"", "x"}))
}

func TestOutputName(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		option string
		args   []string
		want   string
	}{
		{"e ending without args", "loop.wav", "fade", nil, "loop_faded.wav"},
		{"two args", "loop.wav", "trim", []string{"10", "20"}, "loop_trimed_10_20.wav"},
		{"single arg", "song.wav", "trim", []string{"5"}, "song_trimed_5.wav"},
		{"zero params", "kick.wav", "normalize", []string{}, "kick_normalized.wav"},
		{"fade with arg a", "a.wav", "fade", []string{"3"}, "a_faded_3.wav"},
		{"fade with arg b", "b.wav", "fade", []string{"3"}, "b_faded_3.wav"},
		{"short path", "x", "fold", nil, "_folded.wav"},
		{"latin-1 input", "caf\xe9.wav", "fade", nil, "caf\xe9_faded.wav"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputName(tt.input, tt.option, tt.args))
		})
	}
}
