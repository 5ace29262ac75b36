package script

import (
	"strings"
	"sync"
	"unicode"
)

// Tamil dependent vowel signs and the pulli (virama).
const (
	Virama = "்"

	signAA = "ா"
	signI  = "ி"
	signII = "ீ"
	signU  = "ு"
	signUU = "ூ"
	signE  = "ெ"
	signEE = "ே"
	signAI = "ை"
	signO  = "ொ"
	signOO = "ோ"
	signAU = "ௌ"
)

// longSigns pairs each short vowel sign with its long counterpart.
var longSigns = map[string]string{
	signI: signII,
	signU: signUU,
	signE: signEE,
	signO: signOO,
}

var (
	tamilOnce  sync.Once
	tamilTable *Table
)

// Tamil returns the process-wide Tamil table.
func Tamil() *Table {
	tamilOnce.Do(func() {
		tamilTable = NewTable("tamil", tamilRules())
	})
	return tamilTable
}

func c(pattern string, options ...string) Rule {
	return Rule{Pattern: pattern, Kind: Consonant, Options: options}
}

func v(pattern, independent, sign string) Rule {
	return Rule{Pattern: pattern, Kind: Vowel, Independent: independent, Sign: sign}
}

func tamilRules() []Rule {
	return []Rule{
		c("ksh", "க்ஷ"),
		c("ndr", "ன்ற"),
		c("nth", "ந்த"),
		c("nch", "ஞ்ச"),

		c("th", "த", "ட"),
		c("dh", "த", "ட"),
		c("ch", "ச"),
		c("sh", "ஷ", "ஶ"),
		c("zh", "ழ"),
		c("ng", "ங்க", "ங"),
		c("nj", "ஞ்ச", "ஞ"),
		c("nr", "ன்ற"),
		c("kh", "க"),
		c("gh", "க"),
		c("ph", "ப"),
		c("bh", "ப"),
		c("jh", "ஜ"),
		c("lh", "ள"),
		c("rr", "ற"),
		c("kk", "க்க"),
		c("cc", "ச்ச"),
		c("pp", "ப்ப"),
		c("mm", "ம்ம"),
		c("tt", "ட்ட", "ற்ற"),
		c("ll", "ல்ல", "ள்ள"),
		c("nn", "ன்ன", "ண்ண"),

		c("k", "க"),
		c("g", "க"),
		c("q", "க"),
		c("c", "ச", "க"),
		c("s", "ச", "ஸ"),
		c("j", "ஜ", "ச"),
		c("t", "ட", "த"),
		c("d", "ட", "த"),
		c("n", "ன", "ந", "ண"),
		c("p", "ப"),
		c("b", "ப"),
		c("f", "ஃப"),
		c("m", "ம"),
		c("y", "ய"),
		c("r", "ர", "ற"),
		c("l", "ல", "ள"),
		c("v", "வ"),
		c("w", "வ"),
		c("z", "ழ"),
		c("h", "ஹ"),
		c("x", "க்ஸ"),

		v("aa", "ஆ", signAA),
		v("ii", "ஈ", signII),
		v("ee", "ஈ", signII),
		v("uu", "ஊ", signUU),
		v("oo", "ஊ", signUU),
		v("ae", "ஏ", signEE),
		v("ai", "ஐ", signAI),
		v("oa", "ஓ", signOO),
		v("au", "ஔ", signAU),
		v("ow", "ஔ", signAU),
		v("a", "அ", ""),
		v("i", "இ", signI),
		v("u", "உ", signU),
		v("e", "எ", signE),
		v("o", "ஒ", signO),
	}
}

// IsNative reports whether r belongs to the Tamil block.
func IsNative(r rune) bool {
	return unicode.Is(unicode.Tamil, r)
}

// ContainsNative reports whether s has at least one Tamil code point.
func ContainsNative(s string) bool {
	return strings.IndexFunc(s, IsNative) >= 0
}

// EndsWithVirama reports whether s ends in an explicit pulli.
func EndsWithVirama(s string) bool {
	return strings.HasSuffix(s, Virama)
}

// Lengthen replaces the first short vowel sign in s with its long form.
// ok is false when s has no short vowel sign.
func Lengthen(s string) (string, bool) {
	for i, r := range s {
		long, found := longSigns[string(r)]
		if !found {
			continue
		}
		return s[:i] + long + s[i+len(string(r)):], true
	}
	return s, false
}
