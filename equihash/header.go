package equihash

import "github.com/dacho68/equihash-1/equihash/blake2b"

// HeaderLen and NonceLen are the fixed widths §6's setheader collaborator
// expects: a 108-byte block header and a 32-byte little-endian nonce.
const (
	HeaderLen = 108
	NonceLen  = 32
)

// SetHeader is the header-personalisation helper of §6: it initialises a
// fresh BLAKE2b state for (N, K) and folds in the header and nonce, ready
// for the digit-0 seeder to append each block's 4-byte index. It is an
// external collaborator by the same reasoning as the blake2b package
// itself — the solver only ever calls it once per nonce and then clones
// the result.
func SetHeader(p *Params, header [HeaderLen]byte, nonce [NonceLen]byte) *blake2b.State {
	st := blake2b.New(blake2b.HashOut, p.N, p.K)
	st.Write(header[:])
	st.Write(nonce[:])
	return st
}
