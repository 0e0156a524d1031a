package vanity

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

var (
	testDeployer, _ = HexToAddress("0x00000000000000000000000000000000000c0ffe")
	testImpl, _     = HexToAddress("0x000000000000000000000000000000000000beef")
)

func TestFindSaltShortSuffix(t *testing.T) {
	res, err := FindSalt(context.Background(), Params{
		Deployer:       testDeployer,
		Implementation: testImpl,
		Suffix:         "00",
	})
	if err != nil {
		t.Fatalf("FindSalt: %v", err)
	}
	if !strings.HasSuffix(res.Address.Hex(), "00") {
		t.Fatalf("address %s does not end with 00", res.Address.Hex())
	}

	// the salt must actually reproduce the address
	hash := Keccak256(ProxyInitCode(testImpl))
	if recomputed := CreateAddress2(testDeployer, res.Salt, hash); recomputed != res.Address {
		t.Fatalf("salt does not reproduce address: %s vs %s", recomputed.Hex(), res.Address.Hex())
	}
}

func TestFindSaltOddSuffix(t *testing.T) {
	res, err := FindSalt(context.Background(), Params{
		Deployer:       testDeployer,
		Implementation: testImpl,
		Suffix:         "abc",
	})
	if err != nil {
		t.Fatalf("FindSalt: %v", err)
	}
	if !strings.HasSuffix(res.Address.Hex(), "abc") {
		t.Fatalf("address %s does not end with abc", res.Address.Hex())
	}
}

func TestFindSaltEmptySuffix(t *testing.T) {
	res, err := FindSalt(context.Background(), Params{
		Deployer:       testDeployer,
		Implementation: testImpl,
		Suffix:         "",
		Workers:        1,
	})
	if err != nil {
		t.Fatalf("FindSalt: %v", err)
	}
	if res.Iterations != 1 {
		t.Fatalf("empty suffix took %d iterations, want the first salt accepted", res.Iterations)
	}
}

func TestFindSaltSuffixValidation(t *testing.T) {
	cases := []string{
		strings.Repeat("8", 41), // longer than an address
		"XYZ",                   // not hex
	}
	for _, suffix := range cases {
		_, err := FindSalt(context.Background(), Params{
			Deployer:       testDeployer,
			Implementation: testImpl,
			Suffix:         suffix,
		})
		if err == nil {
			t.Errorf("suffix %q accepted, want error", suffix)
		}
	}
}

func TestFindSaltExhausted(t *testing.T) {
	_, err := FindSalt(context.Background(), Params{
		Deployer:       testDeployer,
		Implementation: testImpl,
		Suffix:         "deadbeefdeadbeef", // 16 chars, unreachable within the cap
		MaxIterations:  10_000,
		Workers:        2,
	})
	if !errors.Is(err, ErrSearchExhausted) {
		t.Fatalf("err = %v, want ErrSearchExhausted", err)
	}
}

func TestFindSaltCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := FindSalt(ctx, Params{
		Deployer:       testDeployer,
		Implementation: testImpl,
		Suffix:         "deadbeefdeadbeef",
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}

func TestFindSaltUsesFreshRandomness(t *testing.T) {
	p := Params{
		Deployer:       testDeployer,
		Implementation: testImpl,
		Suffix:         "0",
		Workers:        1,
	}
	a, err := FindSalt(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	b, err := FindSalt(context.Background(), p)
	if err != nil {
		t.Fatal(err)
	}
	if a.Salt == b.Salt {
		t.Fatal("two searches returned the identical salt, seed randomness is broken")
	}
}

func TestFindSaltParallelWorkers(t *testing.T) {
	res, err := FindSalt(context.Background(), Params{
		Deployer:       testDeployer,
		Implementation: testImpl,
		Suffix:         "88",
		Workers:        4,
	})
	if err != nil {
		t.Fatalf("FindSalt: %v", err)
	}
	if !strings.HasSuffix(res.Address.Hex(), "88") {
		t.Fatalf("address %s does not end with 88", res.Address.Hex())
	}
}
