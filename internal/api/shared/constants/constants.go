package constants

const (
	DEFAULT_OFFSET                  = uint64(0)
	DEFAULT_TRANSFERS_LIMIT         = 100
	MAX_TRANSFERS_LIMIT             = 1000
	DEFAULT_CORPORATE_ACTIONS_LIMIT = 50
	MAX_CORPORATE_ACTIONS_LIMIT     = 500
	DEFAULT_SNAPSHOTS_LIMIT         = 50
	MAX_SNAPSHOTS_LIMIT             = 500
)
