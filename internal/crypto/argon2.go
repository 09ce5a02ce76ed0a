package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

var errMalformedArgon2 = errors.New("malformed argon2id hash")

// Argon2Params are the cost settings written into every new argon2id hash.
type Argon2Params struct {
	MemoryKiB uint32
	Time      uint32
	Threads   uint8
	SaltLen   int
	KeyLen    uint32
}

// DefaultArgon2Params returns the settings used when PASSWORD_HASHER=argon2id.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{MemoryKiB: 64 * 1024, Time: 3, Threads: 2, SaltLen: 16, KeyLen: 32}
}

// Argon2Hasher hashes passwords with argon2id and encodes them in PHC string format.
type Argon2Hasher struct {
	params Argon2Params
}

// NewArgon2Hasher creates an Argon2Hasher using params for new hashes.
func NewArgon2Hasher(params Argon2Params) *Argon2Hasher {
	return &Argon2Hasher{params: params}
}

// phcHash is a decoded $argon2id$ string. Verification reuses the cost
// recorded in the hash, not the hasher's current settings.
type phcHash struct {
	memoryKiB uint32
	time      uint32
	threads   uint8
	salt      []byte
	key       []byte
}

func (p phcHash) String() string {
	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		AlgorithmArgon2id, argon2.Version, p.memoryKiB, p.time, p.threads,
		base64.RawStdEncoding.EncodeToString(p.salt),
		base64.RawStdEncoding.EncodeToString(p.key),
	)
}

func (p phcHash) derive(password string) []byte {
	return argon2.IDKey([]byte(password), p.salt, p.time, p.memoryKiB, p.threads, uint32(len(p.key)))
}

// Hash returns $argon2id$v=19$m=65536,t=3,p=2$<base64-salt>$<base64-hash>.
func (a *Argon2Hasher) Hash(password string) (string, error) {
	h := phcHash{
		memoryKiB: a.params.MemoryKiB,
		time:      a.params.Time,
		threads:   a.params.Threads,
		salt:      make([]byte, a.params.SaltLen),
		key:       make([]byte, a.params.KeyLen),
	}
	if _, err := io.ReadFull(rand.Reader, h.salt); err != nil {
		return "", fmt.Errorf("%w: generating salt: %v", ErrHashing, err)
	}
	h.key = h.derive(password)
	return h.String(), nil
}

// Verify recomputes the key with the salt and cost stored in encodedHash and
// compares in constant time. Malformed hashes never match.
func (a *Argon2Hasher) Verify(password, encodedHash string) bool {
	h, err := parsePHC(encodedHash)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(h.key, h.derive(password)) == 1
}

func parsePHC(s string) (phcHash, error) {
	rest, ok := strings.CutPrefix(s, "$"+AlgorithmArgon2id+"$")
	if !ok {
		return phcHash{}, errMalformedArgon2
	}
	fields := strings.Split(rest, "$")
	if len(fields) != 4 {
		return phcHash{}, errMalformedArgon2
	}

	if fields[0] != "v="+strconv.Itoa(argon2.Version) {
		return phcHash{}, fmt.Errorf("%w: unsupported version %q", errMalformedArgon2, fields[0])
	}

	var h phcHash
	for _, kv := range strings.Split(fields[1], ",") {
		k, v, _ := strings.Cut(kv, "=")
		var err error
		switch k {
		case "m":
			h.memoryKiB, err = parseUint32(v)
		case "t":
			h.time, err = parseUint32(v)
		case "p":
			var n uint64
			n, err = strconv.ParseUint(v, 10, 8)
			h.threads = uint8(n)
		default:
			err = fmt.Errorf("unknown parameter %q", k)
		}
		if err != nil {
			return phcHash{}, fmt.Errorf("%w: %v", errMalformedArgon2, err)
		}
	}
	// argon2.IDKey panics on zero rounds or threads.
	if h.time == 0 || h.threads == 0 {
		return phcHash{}, errMalformedArgon2
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(fields[2]); err != nil || len(h.salt) == 0 {
		return phcHash{}, errMalformedArgon2
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(fields[3]); err != nil || len(h.key) == 0 {
		return phcHash{}, errMalformedArgon2
	}
	return h, nil
}

func parseUint32(s string) (uint32, error) {
	n, err := strconv.ParseUint(s, 10, 32)
	return uint32(n), err
}
