package vanity

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/crypto/sha3"
)

// DefaultMaxIterations caps the combined attempts across all workers. A
// 4-hex-char suffix needs ~65536 attempts on average, so the default leaves
// three orders of magnitude of headroom before giving up.
const DefaultMaxIterations = 1 << 26

// ErrSearchExhausted is returned when the iteration cap is reached before a
// matching salt is found.
var ErrSearchExhausted = errors.New("vanity: search exhausted iteration cap")

// Params configures a salt search.
type Params struct {
	Deployer       Address
	Implementation Address
	Suffix         string // lowercase hex the address must end with, "" accepts anything
	MaxIterations  uint64 // total across workers, 0 means DefaultMaxIterations
	Workers        int    // 0 means GOMAXPROCS
}

// Result is a salt whose CREATE2 address ends with the requested suffix.
type Result struct {
	Salt       Salt
	Address    Address
	Iterations uint64 // attempts made by the winning worker
}

// suffixMatcher pre-decodes the suffix for byte-level matching in the hot
// loop. Odd-length suffixes additionally match the low nibble of the byte
// before the fully matched tail.
type suffixMatcher struct {
	tail   []byte
	nibble byte
	odd    bool
}

func newSuffixMatcher(suffix string) (*suffixMatcher, error) {
	if len(suffix) > 40 {
		return nil, fmt.Errorf("suffix %q is %d hex chars, max is 40", suffix, len(suffix))
	}
	m := &suffixMatcher{}
	if len(suffix)%2 == 1 {
		m.odd = true
		n, err := hexNibble(suffix[0])
		if err != nil {
			return nil, err
		}
		m.nibble = n
		suffix = suffix[1:]
	}
	tail, err := hexDecodeLower(suffix)
	if err != nil {
		return nil, err
	}
	m.tail = tail
	return m, nil
}

func (m *suffixMatcher) match(a Address) bool {
	off := len(a) - len(m.tail)
	for i, b := range m.tail {
		if a[off+i] != b {
			return false
		}
	}
	if m.odd {
		return a[off-1]&0x0f == m.nibble
	}
	return true
}

func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	default:
		return 0, fmt.Errorf("suffix contains non-hex char %q (must be lowercase hex)", c)
	}
}

func hexDecodeLower(s string) ([]byte, error) {
	out := make([]byte, len(s)/2)
	for i := range out {
		hi, err := hexNibble(s[2*i])
		if err != nil {
			return nil, err
		}
		lo, err := hexNibble(s[2*i+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

// FindSalt brute-forces a salt such that the CREATE2 address of the EIP-1167
// clone of p.Implementation, deployed by p.Deployer, ends with p.Suffix.
//
// Each worker owns an independent salt chain: a fresh random 32-byte seed is
// hashed into the first salt, and every rejection re-hashes the salt. The
// first worker to match wins; the others are cancelled. Returns
// ErrSearchExhausted once the combined cap is spent, or ctx.Err() on
// cancellation.
func FindSalt(ctx context.Context, p Params) (Result, error) {
	matcher, err := newSuffixMatcher(strings.TrimPrefix(strings.ToLower(p.Suffix), "0x"))
	if err != nil {
		return Result{}, err
	}

	maxIter := p.MaxIterations
	if maxIter == 0 {
		maxIter = DefaultMaxIterations
	}
	workers := p.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if uint64(workers) > maxIter {
		workers = int(maxIter)
	}

	initCodeHash := Keccak256(ProxyInitCode(p.Implementation))

	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	found := make(chan Result, workers)
	var remaining atomic.Int64
	remaining.Store(int64(maxIter))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if res, ok := searchWorker(searchCtx, p.Deployer, initCodeHash, matcher, &remaining); ok {
				found <- res
				cancel()
			}
		}()
	}
	wg.Wait()

	select {
	case res := <-found:
		return res, nil
	default:
	}
	if ctx.Err() != nil {
		return Result{}, ctx.Err()
	}
	return Result{}, ErrSearchExhausted
}

// batchSize bounds how many hashes a worker does between checking for
// cancellation and re-drawing from the shared iteration budget, so the loop
// yields regularly even when embedded next to network-bound goroutines.
const batchSize = 4096

func searchWorker(ctx context.Context, deployer Address, initCodeHash []byte, matcher *suffixMatcher, remaining *atomic.Int64) (Result, bool) {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		// crypto/rand failing is unrecoverable for this process anyway
		panic(err)
	}

	h := sha3.NewLegacyKeccak256()

	var salt Salt
	h.Write(seed[:])
	h.Sum(salt[:0])

	// preimage reused every iteration: 0xff ++ deployer ++ salt ++ initCodeHash
	pre := make([]byte, 0, 85)
	pre = append(pre, 0xff)
	pre = append(pre, deployer[:]...)
	pre = append(pre, salt[:]...)
	pre = append(pre, initCodeHash...)
	saltSlot := pre[21:53]

	var sum [32]byte
	var attempts uint64
	for {
		batch := remaining.Add(-batchSize) + batchSize
		if batch <= 0 {
			return Result{}, false
		}
		if batch > batchSize {
			batch = batchSize
		}
		for i := int64(0); i < batch; i++ {
			attempts++
			copy(saltSlot, salt[:])
			h.Reset()
			h.Write(pre)
			h.Sum(sum[:0])

			var addr Address
			copy(addr[:], sum[12:])
			if matcher.match(addr) {
				return Result{Salt: salt, Address: addr, Iterations: attempts}, true
			}

			h.Reset()
			h.Write(salt[:])
			h.Sum(salt[:0])
		}
		select {
		case <-ctx.Done():
			return Result{}, false
		default:
		}
	}
}
