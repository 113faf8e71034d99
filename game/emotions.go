package game

import "math/rand"

type Difficulty int

const (
	DifficultyEasy Difficulty = iota + 1
	DifficultyMedium
	DifficultyHard
	DifficultyLegendary
)

func (d Difficulty) String() string {
	switch d {
	case DifficultyEasy:
		return "easy"
	case DifficultyMedium:
		return "medium"
	case DifficultyHard:
		return "hard"
	case DifficultyLegendary:
		return "legendary"
	default:
		return "unknown"
	}
}

// EmotionOption is one candidate word offered to the drawer.
type EmotionOption struct {
	Emotion    string     `json:"emotion"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
}

type emotionCategory struct {
	name       string
	difficulty Difficulty
	emotions   []string
}

// The catalog is Turkish, one category per difficulty tier. Matching in
// FindEmotion is against the words exactly as authored here.
var emotionCategories = []emotionCategory{
	{
		name:       "Temel Duygular",
		difficulty: DifficultyEasy,
		emotions: []string{
			"Mutluluk", "Üzüntü", "Korku", "Öfke", "Şaşkınlık",
			"İğrenme", "Merak", "Heyecan", "Sevinç", "Endişe",
			"Rahatlama", "Hayranlık", "Utanç", "Kıskançlık", "Gurur",
		},
	},
	{
		name:       "Karmaşık Hisler",
		difficulty: DifficultyMedium,
		emotions: []string{
			"Nostalji", "Yalnızlık", "Umut", "Hayal Kırıklığı", "Melankoli",
			"Minnet", "Özlem", "Hüzün", "Tedirginlik", "Coşku",
			"Pişmanlık", "Keder", "Huzur", "Kaygı", "Şefkat",
		},
	},
	{
		name:       "Anlar ve Durumlar",
		difficulty: DifficultyHard,
		emotions: []string{
			"Vedalaşmak", "İlk Aşk", "Gece Yarısı Düşünceleri", "Son Bakış",
			"İlk Karın Yağışı", "Yağmurda Yürümek", "Güneşin Batışı",
			"Çocukluk Anıları", "Ev Özlemi", "Bir Şeyi Kaybetmek",
			"Yeniden Başlamak", "Yıldızlara Bakmak", "Rüyadan Uyanmak",
			"Bir Şarkının Hatırlattıkları", "Fotoğraflara Bakmak",
		},
	},
	{
		name:       "Soyut Kavramlar",
		difficulty: DifficultyLegendary,
		emotions: []string{
			"Kaos", "Denge", "Sonsuzluk", "Boşluk", "Zaman",
			"İhanet", "Sadakat", "Özgürlük", "Esaret", "Hayat",
			"Ölüm", "Ruh", "Kader", "Tesadüf", "Sessizlik",
		},
	},
}

func pickFrom(rng *rand.Rand, c emotionCategory) EmotionOption {
	return EmotionOption{
		Emotion:    c.emotions[rng.Intn(len(c.emotions))],
		Category:   c.name,
		Difficulty: c.difficulty,
	}
}

// RandomOptions draws the 3 words offered to the drawer: one easy, one medium,
// and one from either the hard or the legendary tier. The caller provides the
// random source so tests can pin the outcome.
func RandomOptions(rng *rand.Rand) []EmotionOption {
	hardTier := emotionCategories[2]
	if rng.Intn(2) == 1 {
		hardTier = emotionCategories[3]
	}

	return []EmotionOption{
		pickFrom(rng, emotionCategories[0]),
		pickFrom(rng, emotionCategories[1]),
		pickFrom(rng, hardTier),
	}
}

// FindEmotion looks a word up across all tiers. The match is case-sensitive.
func FindEmotion(word string) (EmotionOption, bool) {
	for _, category := range emotionCategories {
		for _, emotion := range category.emotions {
			if emotion == word {
				return EmotionOption{
					Emotion:    emotion,
					Category:   category.name,
					Difficulty: category.difficulty,
				}, true
			}
		}
	}
	return EmotionOption{}, false
}
