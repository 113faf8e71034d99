package game

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Resonance scoring rates how close a guess lands to the target emotion,
// from 0 (nothing) to 100 (exact). The vocabulary is Turkish, so
// normalization has to fold case the Turkish way (İ -> i, I -> ı).

var turkishLower = cases.Lower(language.Turkish)

// Words in the same group count as synonyms for scoring purposes.
var synonymGroups = buildSynonymGroups([][]string{
	// Happiness family
	{"Mutluluk", "Sevinç", "Neşe", "Keyif", "Coşku", "Huzur"},
	// Sadness family
	{"Üzüntü", "Hüzün", "Keder", "Melankoli", "Acı", "Gam"},
	// Fear family
	{"Korku", "Endişe", "Kaygı", "Tedirginlik", "Panik", "Telaş"},
	// Anger family
	{"Öfke", "Kızgınlık", "Sinir", "Hiddet", "Gazap"},
	// Longing family
	{"Özlem", "Hasret", "Nostalji", "Ev Özlemi", "Çocukluk Anıları"},
	// Love family
	{"Aşk", "Sevgi", "İlk Aşk", "Tutku", "Şefkat"},
	// Loneliness family
	{"Yalnızlık", "Issızlık", "Yabancılık", "Terk Edilmişlik"},
	// Hope family
	{"Umut", "Beklenti", "Hayal", "İnanç"},
	// Chaos family
	{"Kaos", "Kargaşa", "Düzensizlik", "Karmaşa"},
	// Peace family
	{"Huzur", "Sükunet", "Dinginlik", "Sakinlik", "Barış"},
	// Regret family
	{"Pişmanlık", "Hayal Kırıklığı", "Vicdan Azabı", "Üzgünlük"},
	// Betrayal family
	{"İhanet", "Aldatılmak", "Güven Kaybı", "Hayal Kırıklığı"},
})

func buildSynonymGroups(groups [][]string) []map[string]struct{} {
	normalized := make([]map[string]struct{}, 0, len(groups))
	for _, group := range groups {
		m := make(map[string]struct{}, len(group))
		for _, word := range group {
			m[normalizeText(word)] = struct{}{}
		}
		normalized = append(normalized, m)
	}
	return normalized
}

func normalizeText(text string) string {
	return turkishLower.String(strings.TrimSpace(text))
}

// ResonanceScore rates a guess against the target emotion. Rules apply in
// order, first hit wins: exact match 100, substring either way 75, shared
// synonym group 60, edit-distance similarity of at least 70% scores 40,
// anything else 0. Pure and deterministic.
func ResonanceScore(target, guess string) int {
	normalizedTarget := normalizeText(target)
	normalizedGuess := normalizeText(guess)

	if normalizedTarget == normalizedGuess {
		return 100
	}

	if normalizedTarget == "" || normalizedGuess == "" {
		return 0
	}

	if strings.Contains(normalizedTarget, normalizedGuess) ||
		strings.Contains(normalizedGuess, normalizedTarget) {
		return 75
	}

	for _, group := range synonymGroups {
		_, targetInGroup := group[normalizedTarget]
		_, guessInGroup := group[normalizedGuess]
		if targetInGroup && guessInGroup {
			return 60
		}
	}

	if levenshteinSimilarity(normalizedTarget, normalizedGuess) >= 70 {
		return 40
	}

	return 0
}

// IsExactMatch reports whether the guess resolves the round.
func IsExactMatch(target, guess string) bool {
	return ResonanceScore(target, guess) == 100
}

// levenshteinSimilarity returns the percentage similarity of two strings,
// 100 meaning identical, based on edit distance over the longer length.
func levenshteinSimilarity(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	maxLen := max(len(r1), len(r2))
	if maxLen == 0 {
		return 100
	}

	distance := levenshteinDistance(r1, r2)
	return int((1.0 - float64(distance)/float64(maxLen)) * 100)
}

func levenshteinDistance(r1, r2 []rune) int {
	prev := make([]int, len(r2)+1)
	curr := make([]int, len(r2)+1)

	for j := 0; j <= len(r2); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i
		for j := 1; j <= len(r2); j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(r2)]
}
