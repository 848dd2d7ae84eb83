package economy

import (
	"fmt"
	"sort"
	"strings"
)

// Exchanges maps commodity exchange codes to station names. This is the
// canonical source of exchange data.
var Exchanges = map[string]string{
	"AI1": "Antares Station",
	"CI1": "Benten Station",
	"CI2": "Arclight Exchange",
	"IC1": "Hortus Station",
	"NC1": "Moria Station",
	"NC2": "Hubur Exchange",
}

// InvalidExchangeError reports an exchange code outside the fixed valid set.
type InvalidExchangeError struct {
	Exchange string
}

func (e *InvalidExchangeError) Error() string {
	return fmt.Sprintf("invalid exchange: %s. Valid: %s", e.Exchange, strings.Join(ExchangeCodes(), ", "))
}

func NewInvalidExchangeError(exchange string) *InvalidExchangeError {
	return &InvalidExchangeError{Exchange: exchange}
}

// ExchangeCodes returns the valid exchange codes sorted alphabetically.
func ExchangeCodes() []string {
	codes := make([]string, 0, len(Exchanges))
	for code := range Exchanges {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ValidateExchange normalizes an exchange code (trim + upper-case) and
// checks it against the valid set.
func ValidateExchange(exchange string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(exchange))
	if _, ok := Exchanges[normalized]; !ok {
		return "", NewInvalidExchangeError(normalized)
	}
	return normalized, nil
}
