package wininput

import (
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// combining maps the spacing form of a dead key to its combining mark.
var combining = map[rune]rune{
	'`':  '\u0300',
	'´':  '\u0301',
	'\'': '\u0301',
	'^':  '\u0302',
	'~':  '\u0303',
	'¯':  '\u0304',
	'˘':  '\u0306',
	'˙':  '\u0307',
	'¨':  '\u0308',
	'"':  '\u0308',
	'°':  '\u030a',
	'˝':  '\u030b',
	'ˇ':  '\u030c',
	'¸':  '\u0327',
	'˛':  '\u0328',
}

// compose combines a dead key's spacing character with base. It reports
// false when Unicode has no precomposed character for the pair.
func compose(dead, base rune) (rune, bool) {
	mark, ok := combining[dead]
	if !ok {
		return 0, false
	}
	composed := norm.NFC.String(string([]rune{base, mark}))
	if utf8.RuneCountInString(composed) != 1 {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(composed)
	return r, true
}
