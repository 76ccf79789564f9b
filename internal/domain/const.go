package domain

const (
	// Blockchain constants
	ETHEREUM_ZERO_ADDRESS = "0x0000000000000000000000000000000000000000"

	// TOKEN_DECIMALS is the number of decimals of the gated equity token
	TOKEN_DECIMALS = 18

	// DEFAULT_MAX_BLOCK_RANGE is the widest eth_getLogs window accepted by the RPC provider
	DEFAULT_MAX_BLOCK_RANGE = 100_000
)
