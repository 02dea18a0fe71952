package application

const (
	defaultQueryLimit = 100
	maxQueryLimit     = 1000
)

type TransactionQueryFilter struct {
	Address   string
	FromBlock *uint64
	ToBlock   *uint64
	Limit     int
}

type TokenTransferFilter struct {
	Address      string
	TokenAddress string
	Limit        int
}

type L1L2QueryFilter struct {
	Hash  string
	Limit int
}

// NormalizeLimit clamps a requested page size to the supported range.
func NormalizeLimit(limit int) int {
	if limit <= 0 || limit > maxQueryLimit {
		return defaultQueryLimit
	}
	return limit
}
