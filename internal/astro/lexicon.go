// Package astro holds the closed vocabularies (planets, signs, houses,
// nakshatras, yogas, effect indicators) that drive document cleaning and
// rule extraction. The tables are loadable configuration data, not code:
// a Lexicon can be built from defaults or overridden by a YAML document
// with the same shape.
package astro

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon is the full set of classical-text vocabularies used by the
// document processor and rule extractor.
type Lexicon struct {
	Planets      map[string][]string `yaml:"planets"`       // canonical -> variants
	Signs        map[string][]string `yaml:"signs"`          // canonical -> variants
	Nakshatras   []string            `yaml:"nakshatras"`     // 27 names, Ashwini..Revati
	Yogas        []string            `yaml:"yogas"`          // recognized yoga names
	HouseWords   map[string]int      `yaml:"house_words"`    // ordinal/sanskrit -> 1..12
	EffectWords  EffectWords         `yaml:"effect_words"`
	Strength     StrengthWords       `yaml:"strength"`
	CategoryMap  map[string][]string `yaml:"category_map"`   // category -> keywords
	OCRFixes     map[string]string   `yaml:"ocr_fixes"`       // glued-word -> spaced
	BoundaryWords []string           `yaml:"boundary_words"`  // words reinserted at OCR joins

	planetIndex map[string]string // variant(lower) -> canonical
	signIndex   map[string]string
	boundaryDict []string // lower(planet/sign/house/nakshatra/connective terms), for glued-word splitting
}

// EffectWords is the positive/negative indicator vocabulary used both to
// locate the effect phrase in a sentence and to infer polarity.
type EffectWords struct {
	Indicators []string `yaml:"indicators"`
	Positive   []string `yaml:"positive"`
	Negative   []string `yaml:"negative"`
}

// StrengthWords captures the classical strong/weak vocabulary (digbala,
// uccha, neecha, ...), folded into conditions.strength.
type StrengthWords struct {
	Strong []string `yaml:"strong"`
	Weak   []string `yaml:"weak"`
}

// Default returns the built-in lexicon, grounded on the classical
// planet/sign spelling-variant tables and effect-indicator vocabularies
// used by Vedic-astrology text processors.
func Default() *Lexicon {
	lex := &Lexicon{
		Planets: map[string][]string{
			"Sun":     {"sun", "surya", "ravi", "arka", "aditya", "soorya"},
			"Moon":    {"moon", "chandra", "soma", "indu", "chandrama"},
			"Mars":    {"mars", "mangal", "mangala", "angaraka", "bhauma", "kuja"},
			"Mercury": {"mercury", "budh", "budha", "soumya", "kumar"},
			"Jupiter": {"jupiter", "guru", "brihaspati", "devaguru", "brahmanaspati"},
			"Venus":   {"venus", "shukra", "sukra", "bhargava", "ushanas"},
			"Saturn":  {"saturn", "shani", "sanaischara", "manda", "shanaischarya"},
			"Rahu":    {"rahu", "dragon_head", "north_node", "sarpasira"},
			"Ketu":    {"ketu", "dragon_tail", "south_node", "sikhi"},
		},
		Signs: map[string][]string{
			"Aries":       {"aries", "mesha", "mesh", "ram"},
			"Taurus":      {"taurus", "vrishabha", "vrish", "vrishab", "bull"},
			"Gemini":      {"gemini", "mithuna", "mithun", "twins"},
			"Cancer":      {"cancer", "karkata", "karka", "kark", "crab"},
			"Leo":         {"leo", "simha", "sinh", "singh", "lion"},
			"Virgo":       {"virgo", "kanya", "kany", "virgin"},
			"Libra":       {"libra", "tula", "tul", "balance"},
			"Scorpio":     {"scorpio", "vrishchika", "vrischik", "scorpion"},
			"Sagittarius": {"sagittarius", "dhanus", "dhan", "archer"},
			"Capricorn":   {"capricorn", "makara", "makar", "goat"},
			"Aquarius":    {"aquarius", "kumbha", "kumbh", "water_bearer"},
			"Pisces":      {"pisces", "meena", "meen", "fish"},
		},
		Nakshatras: []string{
			"Ashwini", "Bharani", "Krittika", "Rohini", "Mrigashira", "Ardra",
			"Punarvasu", "Pushya", "Ashlesha", "Magha", "Purva Phalguni", "Uttara Phalguni",
			"Hasta", "Chitra", "Swati", "Vishakha", "Anuradha", "Jyeshtha",
			"Mula", "Purva Ashadha", "Uttara Ashadha", "Shravana", "Dhanishta", "Shatabhisha",
			"Purva Bhadrapada", "Uttara Bhadrapada", "Revati",
		},
		Yogas: []string{
			"Raja Yoga", "Gaja Kesari Yoga", "Kuja Dosha", "Mangal Dosha", "Chandal Yoga",
			"Vipareeta Raja Yoga", "Neecha Bhanga Raja Yoga", "Budhaditya Yoga",
			"Panch Mahapurusha Yoga", "Dhana Yoga", "Kemadruma Yoga", "Shakata Yoga",
		},
		HouseWords: map[string]int{
			"1st": 1, "first": 1, "lagna": 1, "ascendant": 1,
			"2nd": 2, "second": 2, "dhana": 2,
			"3rd": 3, "third": 3, "sahaja": 3,
			"4th": 4, "fourth": 4, "sukha": 4, "bandhu": 4,
			"5th": 5, "fifth": 5, "putra": 5,
			"6th": 6, "sixth": 6, "ripu": 6, "satru": 6,
			"7th": 7, "seventh": 7, "kalatra": 7, "yuvati": 7,
			"8th": 8, "eighth": 8, "ayu": 8, "randhra": 8,
			"9th": 9, "ninth": 9, "dharma": 9, "bhagya": 9,
			"10th": 10, "tenth": 10, "karma": 10, "kirti": 10,
			"11th": 11, "eleventh": 11, "labha": 11,
			"12th": 12, "twelfth": 12, "vyaya": 12,
		},
		EffectWords: EffectWords{
			Indicators: []string{
				"causes", "gives", "indicates", "brings", "creates", "produces",
				"results in", "leads to", "bestows", "grants", "confers",
				"blesses with", "signifies", "generates", "manifests", "yields", "awards",
			},
			Positive: []string{
				"gives", "causes", "brings", "produces", "leads to", "results in",
				"bestows", "grants", "blesses with", "indicates", "signifies",
				"creates", "generates", "manifests", "yields", "awards",
				"phala", "yoga", "labha", "prapti", "karoti", "fortune", "success",
				"wealth", "prosperity", "happiness", "auspicious",
			},
			Negative: []string{
				"destroys", "damages", "harms", "afflicts", "reduces", "diminishes",
				"causes loss of", "takes away", "removes", "deprives of", "discord",
				"conflict", "dosha", "hani", "nashta", "kshaya", "bhanga", "trouble",
				"suffering", "obstacle", "delay", "danger",
			},
		},
		Strength: StrengthWords{
			Strong: []string{
				"strong", "powerful", "exalted", "own house", "own sign",
				"uccha", "swakshetra", "swastha", "digbala", "balavat",
			},
			Weak: []string{
				"weak", "debilitated", "combust", "neecha", "astangata",
				"durbala", "mrta", "khala", "nipidita",
			},
		},
		CategoryMap: map[string][]string{
			"marriage":  {"marriage", "spouse", "wife", "husband", "kalatra", "vivaha"},
			"wealth":     {"wealth", "money", "riches", "dhana", "prosperity", "fortune"},
			"career":     {"career", "profession", "job", "karma", "business", "employment"},
			"health":     {"health", "disease", "illness", "ayu", "longevity", "accident"},
			"spiritual":  {"spiritual", "moksha", "dharma", "meditation", "renunciation"},
			"conflict":   {"conflict", "dispute", "enemy", "satru", "litigation", "quarrel"},
			"education":  {"education", "learning", "knowledge", "vidya", "wisdom"},
			"family":     {"family", "children", "putra", "siblings", "parents"},
			"travel":     {"travel", "foreign", "journey", "pravasa"},
			"government": {"government", "authority", "power", "raja", "position"},
		},
		OCRFixes: map[string]string{
			"ofthe": "of the", "inthe": "in the", "forthe": "for the",
			"withthe": "with the", "andthe": "and the", "tothe": "to the",
			"fromthe": "from the", "bythe": "by the", "onthe": "on the",
			"asthe": "as the", "isthe": "is the", "atthe": "at the",
			"thatthe": "that the", "whenthe": "when the", "ifthe": "if the",
		},
		BoundaryWords: []string{
			"of", "the", "in", "for", "with", "and", "to", "from", "by", "on",
			"as", "is", "at", "that", "when", "if", "gives", "causes", "brings",
			"house", "bhava", "lagna", "dasha", "yoga", "nakshatra",
		},
	}
	lex.buildIndexes()
	return lex
}

func (l *Lexicon) buildIndexes() {
	l.planetIndex = make(map[string]string)
	for canonical, variants := range l.Planets {
		l.planetIndex[strings.ToLower(canonical)] = canonical
		for _, v := range variants {
			l.planetIndex[strings.ToLower(v)] = canonical
		}
	}
	l.signIndex = make(map[string]string)
	for canonical, variants := range l.Signs {
		l.signIndex[strings.ToLower(canonical)] = canonical
		for _, v := range variants {
			l.signIndex[strings.ToLower(v)] = canonical
		}
	}

	dict := make(map[string]bool)
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			dict[s] = true
		}
	}
	for _, w := range l.BoundaryWords {
		add(w)
	}
	for canonical, variants := range l.Planets {
		add(canonical)
		for _, v := range variants {
			add(v)
		}
	}
	for canonical, variants := range l.Signs {
		add(canonical)
		for _, v := range variants {
			add(v)
		}
	}
	for w := range l.HouseWords {
		add(w)
	}
	for _, nak := range l.Nakshatras {
		add(strings.ReplaceAll(nak, " ", ""))
		for _, part := range strings.Fields(nak) {
			add(part)
		}
	}
	l.boundaryDict = make([]string, 0, len(dict))
	for tok := range dict {
		l.boundaryDict = append(l.boundaryDict, tok)
	}
}

// Load reads a YAML lexicon override from path and decodes it over the
// built-in defaults: a present list-valued key (nakshatras, yogas, effect
// and strength word lists, boundary_words) replaces the default list, while
// a present map-valued key (planets, signs, house_words, category_map,
// ocr_fixes) adds or replaces entries in the default map.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading lexicon: %w", err)
	}
	lex := Default()
	if err := yaml.Unmarshal(data, lex); err != nil {
		return nil, fmt.Errorf("parsing lexicon: %w", err)
	}
	lex.buildIndexes()
	return lex, nil
}

// CanonicalPlanet returns the canonical spelling for a planet variant and
// whether it was recognized.
func (l *Lexicon) CanonicalPlanet(word string) (string, bool) {
	canonical, ok := l.planetIndex[strings.ToLower(strings.TrimSpace(word))]
	return canonical, ok
}

// CanonicalSign returns the canonical spelling for a sign variant and
// whether it was recognized.
func (l *Lexicon) CanonicalSign(word string) (string, bool) {
	canonical, ok := l.signIndex[strings.ToLower(strings.TrimSpace(word))]
	return canonical, ok
}

// HouseNumber maps an ordinal/Sanskrit house word to 1..12.
func (l *Lexicon) HouseNumber(word string) (int, bool) {
	n, ok := l.HouseWords[strings.ToLower(strings.TrimSpace(word))]
	return n, ok
}

// PlanetVariantPattern returns a `|`-joined alternation of every planet
// variant, suitable for embedding in a larger regex.
func (l *Lexicon) PlanetVariantPattern() string {
	return joinVariants(l.Planets)
}

// SignVariantPattern returns a `|`-joined alternation of every sign variant.
func (l *Lexicon) SignVariantPattern() string {
	return joinVariants(l.Signs)
}

// HouseOrdinalPattern returns a `|`-joined alternation of every house word.
func (l *Lexicon) HouseOrdinalPattern() string {
	words := make([]string, 0, len(l.HouseWords))
	for w := range l.HouseWords {
		words = append(words, w)
	}
	return strings.Join(words, "|")
}

// CategoryFor returns the category whose keyword list has the most hits in
// text, or "" if nothing matches.
func (l *Lexicon) CategoryFor(text string) string {
	lower := strings.ToLower(text)
	best, bestCount := "", 0
	for category, words := range l.CategoryMap {
		count := 0
		for _, w := range words {
			if strings.Contains(lower, w) {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = category, count
		}
	}
	return best
}

// GreedySegment decomposes a single whitespace-delimited token into a
// sequence of lexicon-recognized segments (planets, signs, house words,
// nakshatras, "lagna"/"dasha"/"yoga", ordinals, and the closed connective
// vocabulary), greedily matching the longest recognized token at every
// position. Runs of characters between recognized tokens are kept as one
// literal segment each. A one- or two-letter token is not split off while
// the literal run before it is only one or two characters long, so a word
// such as "conflicts" is not broken at "on". hits is the number of
// recognized segments found, so a caller can decide whether the
// decomposition is trustworthy.
func (l *Lexicon) GreedySegment(word string) (segments []string, hits int) {
	lower := strings.ToLower(word)
	literalStart := 0

	i := 0
	for i < len(lower) {
		shortOK := i == literalStart || i-literalStart >= 3
		match := ""
		for _, tok := range l.boundaryDict {
			if len(tok) <= len(match) || len(tok) > len(lower)-i {
				continue
			}
			if len(tok) < 3 && !shortOK {
				continue
			}
			if lower[i:i+len(tok)] == tok {
				match = tok
			}
		}
		if match == "" {
			i++
			continue
		}
		if i > literalStart {
			segments = append(segments, word[literalStart:i])
		}
		segments = append(segments, word[i:i+len(match)])
		hits++
		i += len(match)
		literalStart = i
	}
	if literalStart < len(word) {
		segments = append(segments, word[literalStart:])
	}
	return segments, hits
}

func joinVariants(table map[string][]string) string {
	var all []string
	for _, variants := range table {
		all = append(all, variants...)
	}
	return strings.Join(all, "|")
}
