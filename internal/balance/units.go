package balance

import (
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// split divides raw by 10^decimals into whole and remainder with integer arithmetic.
// Balances reach the top of the uint64 range, where a float64 can no longer hold
// every integer.
func split(raw uint64, decimals uint8) (*big.Int, *big.Int) {
	unit := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	whole, remainder := new(big.Int).QuoRem(new(big.Int).SetUint64(raw), unit, new(big.Int))
	return whole, remainder
}

// FormatUnits renders raw smallest units as a decimal string with trailing zeros of
// the fraction removed: FormatUnits(150000000, 8) == "1.5".
func FormatUnits(raw uint64, decimals uint8) string {
	whole, remainder := split(raw, decimals)
	if decimals == 0 || remainder.Sign() == 0 {
		return whole.String()
	}

	fraction := remainder.String()
	fraction = strings.Repeat("0", int(decimals)-len(fraction)) + fraction
	return whole.String() + "." + strings.TrimRight(fraction, "0")
}

// ToDecimal converts raw smallest units into an exact decimal value.
func ToDecimal(raw uint64, decimals uint8) decimal.Decimal {
	whole, remainder := split(raw, decimals)
	return decimal.NewFromBigInt(whole, 0).Add(decimal.NewFromBigInt(remainder, -int32(decimals)))
}

// ParseUnits converts a whole-unit amount such as "1.5" into smallest units. More
// fraction digits than decimals is an error, not a rounding.
func ParseUnits(amount string, decimals uint8) (uint64, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, errors.Wrapf(err, "invalid amount %q", amount)
	}
	if value.IsNegative() {
		return 0, errors.Errorf("amount %q is negative", amount)
	}

	raw := value.Shift(int32(decimals))
	if !raw.Equal(raw.Truncate(0)) {
		return 0, errors.Errorf("amount %q has more than %d decimals", amount, decimals)
	}

	whole := raw.BigInt()
	if !whole.IsUint64() {
		return 0, errors.Errorf("amount %q is too large", amount)
	}
	return whole.Uint64(), nil
}
