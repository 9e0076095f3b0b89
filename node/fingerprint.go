package node

import (
	"os"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// FromHostID derives a node ID candidate from the local host's name plus any
// extra caller-supplied discriminators (a process start time, a container
// id, a pod name — anything that distinguishes this process from its
// siblings). It hashes the joined input with xxhash and folds the high 16
// bits of the digest into a node ID.
//
// This is a convenience seed for operators who have not wired a real
// coordination service; it does not guarantee global disjointness (two
// hosts can hash to the same 16 bits) and should not be relied on where
// that guarantee matters.
func FromHostID(extra ...string) (ID, error) {
	host, err := os.Hostname()
	if err != nil {
		return ID{}, err
	}
	parts := append([]string{host}, extra...)
	h := xxhash.Sum64String(strings.Join(parts, "\x00"))
	return New(uint16(h >> 48)), nil
}
