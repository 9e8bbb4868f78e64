package domain

// Local development chain ids (Hardhat/Anvil and geth --dev / simulated backends)
const (
	HardhatChainID uint64 = 31337
	DevChainID     uint64 = 1337
)

// IsDevChain reports whether chainID belongs to a throwaway local chain
func IsDevChain(chainID uint64) bool {
	return chainID == HardhatChainID || chainID == DevChainID
}
