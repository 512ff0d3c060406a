// Package dice parses and evaluates compound dice-roll expressions such as
// "2d6+3", "4d6k3" or "d20+5=15" into structured results.
package dice

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ErrParse indicates a malformed dice-roll expression. Every parse failure
// wraps this error with a description of what was wrong; no partial result
// is ever returned alongside it.
var ErrParse = errors.New("invalid dice-roll string")

// alphabet is the full set of characters a dice expression may contain.
const alphabet = "0123456789dk=+-"

// Engine evaluates dice expressions. It holds no state across calls other
// than its random source, which is seeded from system entropy by New. The
// zero Engine is not usable; construct one with New or NewWithSource.
//
// A *rand.Rand is not safe for concurrent use, so an Engine shared between
// goroutines must be constructed from a concurrency-safe source.
type Engine struct {
	rng *rand.Rand
}

// New returns an Engine seeded from the current time.
func New() *Engine {
	return &Engine{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithSource returns an Engine drawing from src. Tests inject a seeded
// source here for deterministic rolls.
func NewWithSource(src rand.Source) *Engine {
	return &Engine{rng: rand.New(src)}
}

// Result is the outcome of evaluating a dice expression.
type Result struct {
	Total    int   `json:"total"`             // Sum of kept rolls plus static modifiers
	Rolls    []int `json:"rolls"`             // Kept individual die results, post sign, in roll order
	Static   int   `json:"static"`            // Sum of all static numeric terms
	Success  *bool `json:"success,omitempty"` // Set only when a target clause was present
	CritHit  bool  `json:"crithit"`           // Natural 20 on a lone d20
	CritMiss bool  `json:"critmiss"`          // Natural 1 on a lone d20
}

// Evaluate parses and rolls expr.
//
// The expression is a sequence of signed terms (static integers or
// [count]d<sides> dice terms, the sign multiplying every individual die),
// optionally followed by exactly one of a keep clause "k<N>" (keep the N
// highest rolls) or a target clause "=<N>" (compare the total against N).
// A crit hit always resolves the target as success, a crit miss as failure.
func (e *Engine) Evaluate(expr string) (Result, error) {
	expr = strings.ToLower(expr)
	if expr == "" {
		return Result{}, fmt.Errorf("%w: empty expression", ErrParse)
	}
	for _, r := range expr {
		if !strings.ContainsRune(alphabet, r) {
			return Result{}, fmt.Errorf("%w: invalid character %q in %q", ErrParse, r, expr)
		}
	}

	var (
		keep      int
		hasKeep   bool
		target    int
		hasTarget bool
	)
	if i := strings.IndexByte(expr, 'k'); i >= 0 {
		n, err := strconv.Atoi(expr[i+1:])
		if err != nil {
			return Result{}, fmt.Errorf("%w: malformed keep clause in %q", ErrParse, expr)
		}
		if n < 1 {
			return Result{}, fmt.Errorf("%w: keep count must be at least 1", ErrParse)
		}
		keep, hasKeep = n, true
		expr = expr[:i]
	}
	if i := strings.IndexByte(expr, '='); i >= 0 {
		if hasKeep {
			return Result{}, fmt.Errorf("%w: keep and target clauses cannot be combined", ErrParse)
		}
		n, err := strconv.Atoi(expr[i+1:])
		if err != nil {
			return Result{}, fmt.Errorf("%w: malformed target clause in %q", ErrParse, expr)
		}
		target, hasTarget = n, true
		expr = expr[:i]
	}
	if expr == "" {
		return Result{}, fmt.Errorf("%w: no dice or modifier terms", ErrParse)
	}

	var (
		rolls    []int
		static   int
		negative bool
		d20Dice  int // total number of d20 dice in the expression
		d20Nat   int // natural value of the last d20 rolled
	)
	for _, term := range splitTerms(expr) {
		sign := 1
		if term[0] == '-' {
			sign = -1
			negative = true
		}
		body := term[1:]
		if body == "" {
			return Result{}, fmt.Errorf("%w: dangling sign in %q", ErrParse, expr)
		}
		if !strings.Contains(body, "d") {
			n, err := strconv.Atoi(body)
			if err != nil {
				return Result{}, fmt.Errorf("%w: malformed term %q", ErrParse, term)
			}
			static += n * sign
			continue
		}
		parts := strings.SplitN(body, "d", 2)
		count := 1
		if parts[0] != "" {
			n, err := strconv.Atoi(parts[0])
			if err != nil {
				return Result{}, fmt.Errorf("%w: malformed dice count in %q", ErrParse, term)
			}
			count = n
		}
		sides, err := strconv.Atoi(parts[1])
		if err != nil {
			return Result{}, fmt.Errorf("%w: malformed dice sides in %q", ErrParse, term)
		}
		if count < 1 || sides < 1 {
			return Result{}, fmt.Errorf("%w: dice term %q must have positive count and sides", ErrParse, term)
		}
		if sides == 20 {
			d20Dice += count
		}
		for i := 0; i < count; i++ {
			nat := e.rng.Intn(sides) + 1
			if sides == 20 {
				d20Nat = nat
			}
			rolls = append(rolls, nat*sign)
		}
	}
	if hasKeep && negative {
		return Result{}, fmt.Errorf("%w: keep clause cannot be combined with negative terms", ErrParse)
	}

	kept := rolls
	if hasKeep && keep < len(rolls) {
		kept = keepHighest(rolls, keep)
	}

	total := static
	for _, r := range kept {
		total += r
	}

	result := Result{
		Total:  total,
		Rolls:  kept,
		Static: static,
		// Crits only trigger on a single d20 in the whole expression,
		// on its natural value, independent of modifiers.
		CritHit:  d20Dice == 1 && d20Nat == 20,
		CritMiss: d20Dice == 1 && d20Nat == 1,
	}
	if hasTarget {
		success := total >= target
		if result.CritHit {
			success = true
		}
		if result.CritMiss {
			success = false
		}
		result.Success = &success
	}
	return result, nil
}

// splitTerms splits s at every +/- boundary, implying a leading + when the
// first term carries no sign. Each returned term starts with its sign.
func splitTerms(s string) []string {
	if s[0] != '+' && s[0] != '-' {
		s = "+" + s
	}
	var terms []string
	start := 0
	for i := 1; i < len(s); i++ {
		if s[i] == '+' || s[i] == '-' {
			terms = append(terms, s[start:i])
			start = i
		}
	}
	return append(terms, s[start:])
}

// keepHighest returns the n highest values of rolls, preserving roll order.
// Discarded dice stay rolled, they just stop counting.
func keepHighest(rolls []int, n int) []int {
	idx := make([]int, len(rolls))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return rolls[idx[a]] > rolls[idx[b]] })
	keepSet := make(map[int]bool, n)
	for _, i := range idx[:n] {
		keepSet[i] = true
	}
	kept := make([]int, 0, n)
	for i, r := range rolls {
		if keepSet[i] {
			kept = append(kept, r)
		}
	}
	return kept
}
