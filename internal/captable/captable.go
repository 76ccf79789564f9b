package captable

import (
	"fmt"
	"math/big"
	"sort"
	"time"

	"github.com/chainequity/captable-indexer/internal/domain"
	"github.com/chainequity/captable-indexer/internal/store"
	"github.com/chainequity/captable-indexer/internal/store/schema"
)

// Holder is one row of a cap table
type Holder struct {
	Address string
	// Balance is the split-adjusted balance in base units
	Balance *big.Int
	// BaseBalance is the balance as recorded by the ledger
	BaseBalance *big.Int
	// Percentage of TotalSupply with two decimals
	Percentage string
}

// CapTable is the ownership table at one block
type CapTable struct {
	BlockNumber uint64
	// Timestamp is the block timestamp, nil when it could not be resolved
	Timestamp *time.Time
	// Multiplier is the cumulative split multiplier in effect at BlockNumber
	Multiplier  *big.Int
	TotalSupply *big.Int
	HolderCount int
	Holders     []Holder
}

// CumulativeMultiplier folds split multipliers into their product, 1 when there are none
func CumulativeMultiplier(splits []store.SplitRecord) *big.Int {
	multiplier := big.NewInt(1)
	for _, split := range splits {
		multiplier.Mul(multiplier, new(big.Int).SetUint64(split.Multiplier))
	}
	return multiplier
}

// ReplayTransfers sums transfers into base-unit balances per address.
// The zero address is skipped on both sides. The result does not depend on the
// order of transfers.
func ReplayTransfers(transfers []schema.Transfer) (map[string]*big.Int, error) {
	balances := make(map[string]*big.Int)

	apply := func(address string, delta *big.Int) {
		if domain.IsZeroAddress(address) {
			return
		}
		address = domain.NormalizeAddress(address)
		balance, ok := balances[address]
		if !ok {
			balance = new(big.Int)
			balances[address] = balance
		}
		balance.Add(balance, delta)
	}

	for _, t := range transfers {
		amount, ok := domain.ParseAmount(t.Amount)
		if !ok {
			return nil, fmt.Errorf("invalid amount %q in transfer %s", t.Amount, t.TransactionHash)
		}
		apply(t.ToAddress, amount)
		apply(t.FromAddress, new(big.Int).Neg(amount))
	}

	return balances, nil
}

// BuildHolders multiplies base balances, drops non-positive ones and computes
// percentages of the resulting total. Holders are sorted by balance descending,
// then address ascending.
func BuildHolders(base map[string]*big.Int, multiplier *big.Int) ([]Holder, *big.Int) {
	holders := make([]Holder, 0, len(base))
	total := new(big.Int)

	for address, baseBalance := range base {
		displayed := new(big.Int).Mul(baseBalance, multiplier)
		if displayed.Sign() <= 0 {
			continue
		}
		total.Add(total, displayed)
		holders = append(holders, Holder{
			Address:     address,
			Balance:     displayed,
			BaseBalance: new(big.Int).Set(baseBalance),
		})
	}

	for i := range holders {
		holders[i].Percentage = Percentage(holders[i].Balance, total)
	}
	SortHolders(holders)

	return holders, total
}

// SortHolders orders by balance descending, then address ascending
func SortHolders(holders []Holder) {
	sort.Slice(holders, func(i, j int) bool {
		if c := holders[i].Balance.Cmp(holders[j].Balance); c != 0 {
			return c > 0
		}
		return holders[i].Address < holders[j].Address
	})
}

// Percentage returns part/total*100 rounded to two decimals, "0.00" when total is not positive
func Percentage(part, total *big.Int) string {
	if total == nil || total.Sign() <= 0 || part == nil {
		return "0.00"
	}
	ratio := new(big.Rat).SetFrac(new(big.Int).Mul(part, big.NewInt(100)), total)
	return ratio.FloatString(2)
}
