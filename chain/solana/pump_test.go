package solana

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
)

func TestBuildCreateInstruction(t *testing.T) {
	user := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	ix, err := buildCreateInstruction(user, mint, "Meow", "MEOW", "ipfs://Qm")
	if err != nil {
		t.Fatalf("buildCreateInstruction: %v", err)
	}

	if !ix.ProgramID().Equals(pumpProgramID) {
		t.Errorf("program = %s", ix.ProgramID())
	}

	accounts := ix.Accounts()
	if len(accounts) != 14 {
		t.Fatalf("got %d accounts, want 14", len(accounts))
	}
	if !accounts[0].PublicKey.Equals(mint) || !accounts[0].IsSigner {
		t.Error("mint must be the first account and a signer")
	}
	if !accounts[7].PublicKey.Equals(user) || !accounts[7].IsSigner {
		t.Error("user must be the eighth account and a signer")
	}

	data, err := ix.Data()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) < 8 || [8]byte(data[:8]) != createDiscriminator {
		t.Fatal("instruction data missing create discriminator")
	}
	nameLen := binary.LittleEndian.Uint32(data[8:12])
	if nameLen != 4 || string(data[12:16]) != "Meow" {
		t.Errorf("name not borsh-encoded first: len=%d", nameLen)
	}
}

func TestAppendBorshString(t *testing.T) {
	data := appendBorshString(nil, "ab")
	if len(data) != 6 {
		t.Fatalf("len = %d, want 6", len(data))
	}
	if binary.LittleEndian.Uint32(data[:4]) != 2 || string(data[4:]) != "ab" {
		t.Fatalf("encoding = %x", data)
	}
}

func TestNewRejectsBadKey(t *testing.T) {
	if _, err := New("http://localhost:8899", "not-base58!!!"); err == nil {
		t.Fatal("New accepted a bad private key")
	}
}
