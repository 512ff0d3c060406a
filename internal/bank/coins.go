package bank

import (
	"fmt"
	"strconv"
	"strings"

	"guildbank/internal/domain"
)

// currencyLetters maps the one-letter shorthand used in coin strings to its
// denomination: p, g, e, s, c.
var currencyLetters = func() map[byte]domain.Currency {
	m := make(map[byte]domain.Currency, len(domain.Currencies))
	for _, cur := range domain.Currencies {
		m[cur[0]] = cur
	}
	return m
}()

// ParseCoinString parses the comma-separated amount/denomination shorthand
// used by the chat commands, e.g. "2g,5s" or "-10c". Repeated denominations
// accumulate. Failures wrap ErrBadArgument.
func ParseCoinString(s string) (domain.Coins, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: please provide a coin string", ErrBadArgument)
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(",+-1234567890", c) >= 0 {
			continue
		}
		if _, ok := currencyLetters[c]; ok {
			continue
		}
		return nil, fmt.Errorf("%w: invalid character in transaction %q", ErrBadArgument, string(c))
	}
	coins := domain.Coins{}
	for _, part := range strings.Split(s, ",") {
		if len(part) < 2 {
			return nil, fmt.Errorf("%w: malformed coin amount %q", ErrBadArgument, part)
		}
		currency, ok := currencyLetters[part[len(part)-1]]
		if !ok {
			return nil, fmt.Errorf("%w: invalid currency detected: %q", ErrBadArgument, part[len(part)-1:])
		}
		amount, err := strconv.Atoi(part[:len(part)-1])
		if err != nil {
			return nil, fmt.Errorf("%w: malformed coin amount %q", ErrBadArgument, part)
		}
		coins.Add(domain.Coins{currency: amount})
	}
	if len(coins) == 0 {
		return nil, fmt.Errorf("%w: coin amounts cancel out to nothing", ErrBadArgument)
	}
	return coins, nil
}
