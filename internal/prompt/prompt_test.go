package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedReader answers prompts from a fixed list and records what was asked
type scriptedReader struct {
	answers []string
	err     error
	asked   []string
}

func (s *scriptedReader) ReadLine(prompt string) (string, error) {
	s.asked = append(s.asked, prompt)
	if len(s.answers) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	next := s.answers[0]
	s.answers = s.answers[1:]
	return next, nil
}

func (s *scriptedReader) Close() error { return nil }

func TestCollect(t *testing.T) {
	tests := []struct {
		name      string
		labels    []string
		preset    []string
		answers   []string
		want      []string
		wantAsked []string
	}{
		{
			name:      "one prompt per label in order",
			labels:    []string{"delay", "feedback", "frequency"},
			answers:   []string{"100", "0.5", "2"},
			want:      []string{"100", "0.5", "2"},
			wantAsked: []string{"delay ", "feedback ", "frequency "},
		},
		{
			name:      "no labels",
			labels:    nil,
			want:      []string{},
			wantAsked: nil,
		},
		{
			name:      "empty answer kept",
			labels:    []string{"gain"},
			answers:   []string{""},
			want:      []string{""},
			wantAsked: []string{"gain "},
		},
		{
			name:      "preset answers leading labels",
			labels:    []string{"factor", "size"},
			preset:    []string{"0.5"},
			answers:   []string{"8"},
			want:      []string{"0.5", "8"},
			wantAsked: []string{"size "},
		},
		{
			name:      "extra presets ignored",
			labels:    []string{"depth"},
			preset:    []string{"3", "4"},
			want:      []string{"3"},
			wantAsked: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &scriptedReader{answers: tt.answers}
			got, err := Collect(r, tt.labels, tt.preset)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantAsked, r.asked)
		})
	}
}

func TestCollectAborted(t *testing.T) {
	_, err := Collect(&scriptedReader{answers: []string{"1"}}, []string{"a", "b"}, nil)
	assert.True(t, errors.Is(err, ErrPromptAborted))
	assert.Contains(t, err.Error(), `"b"`)

	_, err = Collect(&scriptedReader{err: ErrInterrupted}, []string{"tension"}, nil)
	assert.True(t, errors.Is(err, ErrPromptAborted))

	boom := errors.New("boom")
	_, err = Collect(&scriptedReader{err: boom}, []string{"tension"}, nil)
	assert.False(t, errors.Is(err, ErrPromptAborted))
	assert.True(t, errors.Is(err, boom))
}

func TestScanReader(t *testing.T) {
	var out bytes.Buffer
	r := NewScanReader(strings.NewReader("3\r\n\n  spaced  \n"), &out)

	line, err := r.ReadLine("depth ")
	require.NoError(t, err)
	assert.Equal(t, "3", line)

	line, err = r.ReadLine("gain ")
	require.NoError(t, err)
	assert.Equal(t, "", line)

	line, err = r.ReadLine("dc ")
	require.NoError(t, err)
	assert.Equal(t, "  spaced  ", line)

	_, err = r.ReadLine("speed ")
	assert.Equal(t, io.EOF, err)

	assert.Equal(t, "depth gain dc speed ", out.String())
	assert.NoError(t, r.Close())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "threshold ", Label("threshold"))
}
