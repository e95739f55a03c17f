package model

// Suit of a playing card.
type Suit string

const (
	SuitClubs    Suit = "clubs"
	SuitDiamonds Suit = "diamonds"
	SuitHearts   Suit = "hearts"
	SuitSpades   Suit = "spades"
)

// Suits lists all suits in a fixed order, used when building a shoe.
var Suits = []Suit{SuitClubs, SuitDiamonds, SuitHearts, SuitSpades}

// Rank of a playing card, ace=1 through king=13. The table server only
// passes cards through to clients; scoring them is the rule engine's job.
type Rank int

// Card is a single playing card, carrying enough identity for a client
// to render it.
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// Hand is an ordered sequence of cards.
type Hand []Card

// NewDeck returns the 52 cards of a standard deck in suit-then-rank order.
func NewDeck() []Card {
	deck := make([]Card, 0, 52)
	for _, suit := range Suits {
		for rank := Rank(1); rank <= 13; rank++ {
			deck = append(deck, Card{Rank: rank, Suit: suit})
		}
	}
	return deck
}
