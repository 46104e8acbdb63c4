package cards

import "math/rand"

// RandomDeck is the default Deck implementation, a shuffled 52-card deck
// drawn from an injected *rand.Rand so a caller can seed it for
// reproducible games (mirrors pkg/poker/deck.go's Deck in the teacher
// repo, generalized behind the Deck interface so the engine never imports
// math/rand directly).
type RandomDeck struct {
	cards []Card
}

// NewRandomDeck builds a freshly shuffled 52-card deck using rng.
func NewRandomDeck(rng *rand.Rand) *RandomDeck {
	d := &RandomDeck{cards: FullDeck52()}
	d.Shuffle(rng)
	return d
}

// Shuffle re-randomizes the remaining cards in place.
func (d *RandomDeck) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

func (d *RandomDeck) Draw() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, true
}

func (d *RandomDeck) Remaining() int { return len(d.cards) }
