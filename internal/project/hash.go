package project

import (
	"crypto/sha256"
)

// Digest - фиксированный 256 битный хеш
type Digest [32]byte

// Hash digests raw content.
func Hash(data []byte) Digest {
	return sha256.Sum256(data)
}

// Combine строит составной хеш: H( content || dep1 || dep2 ... ).
// Порядок deps должен быть детерминированным.
func Combine(content Digest, deps ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range deps {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
