// Package naming derives output file names for screech invocations.
//
// The convention is fixed: the last four characters of the input path are
// dropped (assumed to be ".wav"), then "_<option><suffix>" and the argument
// values joined with underscores are appended, followed by ".wav".
package naming

import (
	"strings"
	"unicode/utf8"
)

const (
	// OutputExt is appended to every synthesized output name
	OutputExt = ".wav"

	truncateChars = 4
)

// Suffix returns the participle ending appended to an option name:
// "d" when the name ends in 'e' (fade → faded), "ed" otherwise (trim → trimed).
func Suffix(option string) string {
	if strings.HasSuffix(option, "e") {
		return "d"
	}
	return "ed"
}

// BaseName removes the last four characters of path. Paths shorter than
// that yield an empty base; no check is made that the removed part is an
// extension. Bytes that are not valid UTF-8 count as one character each and
// are kept as they are.
func BaseName(path string) string {
	end := len(path)
	for i := 0; i < truncateChars; i++ {
		if end == 0 {
			return ""
		}
		_, size := utf8.DecodeLastRuneInString(path[:end])
		end -= size
	}
	if end == 0 {
		return ""
	}
	return path[:end]
}

// ArgumentFragment returns "" for no arguments, else "_" followed by the
// arguments joined with underscores
func ArgumentFragment(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return "_" + strings.Join(args, "_")
}

// OutputName synthesizes the output path for one input file
func OutputName(input, option string, args []string) string {
	return BaseName(input) + "_" + option + Suffix(option) + ArgumentFragment(args) + OutputExt
}
