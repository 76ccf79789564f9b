package ethereum

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/chainequity/captable-indexer/internal/domain"
)

// gatedTokenABI covers the events and view functions of the gated equity token
// that the indexer consumes.
const gatedTokenABI = `[
	{"type":"event","name":"Transfer","anonymous":false,"inputs":[
		{"name":"from","type":"address","indexed":true},
		{"name":"to","type":"address","indexed":true},
		{"name":"value","type":"uint256","indexed":false}]},
	{"type":"event","name":"WalletApproved","anonymous":false,"inputs":[
		{"name":"wallet","type":"address","indexed":true},
		{"name":"timestamp","type":"uint256","indexed":false}]},
	{"type":"event","name":"WalletRevoked","anonymous":false,"inputs":[
		{"name":"wallet","type":"address","indexed":true},
		{"name":"timestamp","type":"uint256","indexed":false}]},
	{"type":"event","name":"StockSplit","anonymous":false,"inputs":[
		{"name":"multiplier","type":"uint256","indexed":false},
		{"name":"newTotalSupply","type":"uint256","indexed":false},
		{"name":"timestamp","type":"uint256","indexed":false}]},
	{"type":"event","name":"SymbolChanged","anonymous":false,"inputs":[
		{"name":"oldSymbol","type":"string","indexed":false},
		{"name":"newSymbol","type":"string","indexed":false},
		{"name":"timestamp","type":"uint256","indexed":false}]},
	{"type":"event","name":"TokensMinted","anonymous":false,"inputs":[
		{"name":"to","type":"address","indexed":true},
		{"name":"amount","type":"uint256","indexed":false},
		{"name":"minter","type":"address","indexed":true}]},
	{"type":"event","name":"TokensBurned","anonymous":false,"inputs":[
		{"name":"from","type":"address","indexed":true},
		{"name":"amount","type":"uint256","indexed":false},
		{"name":"burner","type":"address","indexed":true}]},
	{"type":"function","name":"symbol","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]}
]`

// abiEventNames maps event types to their ABI event names
var abiEventNames = map[domain.EventType]string{
	domain.EventTypeTransfer:       "Transfer",
	domain.EventTypeWalletApproved: "WalletApproved",
	domain.EventTypeWalletRevoked:  "WalletRevoked",
	domain.EventTypeStockSplit:     "StockSplit",
	domain.EventTypeSymbolChanged:  "SymbolChanged",
	domain.EventTypeTokensMinted:   "TokensMinted",
	domain.EventTypeTokensBurned:   "TokensBurned",
}

var (
	tokenABI    abi.ABI
	eventTopics = map[domain.EventType]common.Hash{}
	topicEvents = map[common.Hash]domain.EventType{}
)

func init() {
	parsed, err := abi.JSON(strings.NewReader(gatedTokenABI))
	if err != nil {
		panic(fmt.Sprintf("invalid gated token ABI: %v", err))
	}
	tokenABI = parsed

	for eventType, name := range abiEventNames {
		id := tokenABI.Events[name].ID
		eventTopics[eventType] = id
		topicEvents[id] = eventType
	}
}

// EventTopic returns topic0 for an event type
func EventTopic(eventType domain.EventType) (common.Hash, error) {
	topic, ok := eventTopics[eventType]
	if !ok {
		return common.Hash{}, fmt.Errorf("%w: %s", domain.ErrUnknownEvent, eventType)
	}
	return topic, nil
}
