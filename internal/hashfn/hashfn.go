// Package hashfn provides the pluggable hash primitives the auction engine
// is parametric over. The engine never hardcodes a hash function; callers
// inject one of these (or any function matching HashFunc) into
// auction.RunAuction.
package hashfn

import "github.com/ethereum/go-ethereum/common"

// HashFunc maps an arbitrary byte sequence to a 32-byte digest. Implementations
// must be pure and collision-resistant; the engine assumes both.
type HashFunc func(data []byte) common.Hash
