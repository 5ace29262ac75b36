package suggest

import (
	"github.com/bastiangx/tamilserve/internal/utils"
	"github.com/tchap/go-patricia/v2/patricia"
)

// commonWords maps frequent words whose phonetic spelling the generator gets
// wrong or ranks poorly onto their accepted spelling.
var commonWords = map[string]string{
	"vanakkam":  "வணக்கம்",
	"nandri":    "நன்றி",
	"tamil":     "தமிழ்",
	"tamizh":    "தமிழ்",
	"thamizh":   "தமிழ்",
	"tamilnadu": "தமிழ்நாடு",
	"amma":      "அம்மா",
	"appa":      "அப்பா",
	"naan":      "நான்",
	"nee":       "நீ",
	"neengal":   "நீங்கள்",
	"avan":      "அவன்",
	"aval":      "அவள்",
	"avargal":   "அவர்கள்",
	"ungal":     "உங்கள்",
	"enna":      "என்ன",
	"eppadi":    "எப்படி",
	"inge":      "இங்கே",
	"ange":      "அங்கே",
	"illai":     "இல்லை",
	"aamaam":    "ஆமாம்",
	"sari":      "சரி",
	"romba":     "ரொம்ப",
	"nalla":     "நல்ல",
	"thanneer":  "தண்ணீர்",
	"saappadu":  "சாப்பாடு",
	"veedu":     "வீடு",
	"nanban":    "நண்பன்",
	"kadhal":    "காதல்",
	"magizhchi": "மகிழ்ச்சி",
	"vaazhga":   "வாழ்க",
	"ulagam":    "உலகம்",
}

// Overrides is the exact-match word dictionary consulted before generation.
// It is immutable after construction.
type Overrides struct {
	index *patricia.Trie
	size  int
}

// NewOverrides merges the built-in common words with extra entries. Extra
// entries win on conflict. Keys are folded to lowercase; empty keys or values
// are skipped.
func NewOverrides(extra map[string]string) *Overrides {
	o := &Overrides{index: patricia.NewTrie()}
	for _, words := range []map[string]string{commonWords, extra} {
		for latin, native := range words {
			key := utils.FoldToken(latin)
			if key == "" || native == "" {
				continue
			}
			if o.index.Get(patricia.Prefix(key)) == nil {
				o.size++
			}
			o.index.Set(patricia.Prefix(key), utils.Normalize(native))
		}
	}
	return o
}

// Lookup returns the mapped word for an exact token match.
func (o *Overrides) Lookup(token string) (string, bool) {
	if o == nil || token == "" {
		return "", false
	}
	item := o.index.Get(patricia.Prefix(token))
	if item == nil {
		return "", false
	}
	return item.(string), true
}

// Len returns the number of distinct entries.
func (o *Overrides) Len() int { return o.size }
