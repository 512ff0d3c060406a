package domain

// Currency is a coin denomination of the campaign economy.
type Currency string

// Denominations, ordered highest to lowest value.
const (
	Platinum Currency = "platinum"
	Gold     Currency = "gold"
	Electrum Currency = "electrum"
	Silver   Currency = "silver"
	Copper   Currency = "copper"
)

// Currencies lists all denominations, highest value first.
var Currencies = [...]Currency{Platinum, Gold, Electrum, Silver, Copper}

// Coins maps a denomination to a signed amount. An absent key means zero;
// a zero amount is never stored explicitly.
type Coins map[Currency]int

// Add sums other into c, dropping keys that cancel out to zero.
func (c Coins) Add(other Coins) {
	for cur, amount := range other {
		c[cur] += amount
		if c[cur] == 0 {
			delete(c, cur)
		}
	}
}

// Negated returns a copy of c with every amount negated.
func (c Coins) Negated() Coins {
	out := make(Coins, len(c))
	for cur, amount := range c {
		out[cur] = -amount
	}
	return out
}

// AnyNegative reports whether any denomination is below zero.
func (c Coins) AnyNegative() bool {
	for _, amount := range c {
		if amount < 0 {
			return true
		}
	}
	return false
}

// Filled returns c with every denomination present, zeros included.
// Display code wants a stable, complete set of denominations.
func (c Coins) Filled() Coins {
	out := make(Coins, len(Currencies))
	for _, cur := range Currencies {
		out[cur] = c[cur]
	}
	return out
}
