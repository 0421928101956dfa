package bson

import "strings"

// regexFlagLetters lists the flag letters in the fixed emission order the
// encoder uses, alongside the bit each one sets. 'u' is included here (see
// the Open Question decision in SPEC_FULL.md) even though upstream BSON
// implementations traditionally treat it as decode-only.
var regexFlagLetters = []struct {
	letter byte
	bit    RegexFlags
}{
	{'i', FlagCaseInsensitive},
	{'l', FlagLocaleDependent},
	{'m', FlagMultiline},
	{'s', FlagDotAll},
	{'u', FlagUnicode},
	{'x', FlagExtended},
}

// String renders the flag set as its alphabetically-ordered letter string,
// the form BSON stores on the wire.
func (f RegexFlags) String() string {
	var sb strings.Builder
	for _, e := range regexFlagLetters {
		if f&e.bit != 0 {
			sb.WriteByte(e.letter)
		}
	}
	return sb.String()
}

// ParseRegexFlags folds a BSON regex flag-letter string into a RegexFlags
// mask. Unknown letters are ignored, per spec.md §4.2, so a flag string
// produced by a newer server than this codec knows about still decodes
// without error.
func ParseRegexFlags(letters string) RegexFlags {
	var f RegexFlags
	for i := 0; i < len(letters); i++ {
		for _, e := range regexFlagLetters {
			if letters[i] == e.letter {
				f |= e.bit
				break
			}
		}
	}
	return f
}
