// Package solana launches tokens on a pump-style bonding-curve program.
package solana

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// Pump program and its collaborators on mainnet.
var (
	pumpProgramID   = solana.MustPublicKeyFromBase58("6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P")
	tokenMetadataID = solana.MustPublicKeyFromBase58("metaqbxxUerdq28cj1RbAWkYQm3ybzjb6a8bt518x1s")
	eventAuthority  = solana.MustPublicKeyFromBase58("Ce6TQqeHC9p8KetsN6JsjHK7UTZk7nasjjnr7XxXp9F1")
)

// Anchor discriminator for the program's create instruction.
var createDiscriminator = [8]byte{24, 30, 200, 40, 5, 28, 7, 119}

// Client builds, signs and sends create transactions.
type Client struct {
	rpc    *rpc.Client
	signer solana.PrivateKey
}

// New parses the base58 private key and prepares an RPC client.
func New(rpcURL, privateKeyB58 string) (*Client, error) {
	signer, err := solana.PrivateKeyFromBase58(privateKeyB58)
	if err != nil {
		return nil, fmt.Errorf("parse solana private key: %w", err)
	}
	return &Client{
		rpc:    rpc.New(rpcURL),
		signer: signer,
	}, nil
}

// CreateToken mints a new token on the bonding curve. Returns the mint
// address and the transaction signature.
func (c *Client) CreateToken(ctx context.Context, name, symbol, metadataURI string) (string, string, error) {
	mint := solana.NewWallet()

	ix, err := buildCreateInstruction(c.signer.PublicKey(), mint.PublicKey(), name, symbol, metadataURI)
	if err != nil {
		return "", "", err
	}

	recent, err := c.rpc.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return "", "", fmt.Errorf("fetch blockhash: %w", err)
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{ix},
		recent.Value.Blockhash,
		solana.TransactionPayer(c.signer.PublicKey()),
	)
	if err != nil {
		return "", "", fmt.Errorf("build tx: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		switch key {
		case c.signer.PublicKey():
			return &c.signer
		case mint.PublicKey():
			return &mint.PrivateKey
		}
		return nil
	})
	if err != nil {
		return "", "", fmt.Errorf("sign tx: %w", err)
	}

	sig, err := c.rpc.SendTransaction(ctx, tx)
	if err != nil {
		return "", "", fmt.Errorf("send tx: %w", err)
	}
	return mint.PublicKey().String(), sig.String(), nil
}

// buildCreateInstruction assembles the program's create instruction: anchor
// discriminator plus borsh-encoded name, symbol and metadata URI, against
// the PDAs the program expects.
func buildCreateInstruction(user, mint solana.PublicKey, name, symbol, uri string) (solana.Instruction, error) {
	bondingCurve, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("bonding-curve"), mint.Bytes()}, pumpProgramID)
	if err != nil {
		return nil, fmt.Errorf("derive bonding curve: %w", err)
	}
	global, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("global")}, pumpProgramID)
	if err != nil {
		return nil, fmt.Errorf("derive global: %w", err)
	}
	mintAuthority, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("mint-authority")}, pumpProgramID)
	if err != nil {
		return nil, fmt.Errorf("derive mint authority: %w", err)
	}
	associatedBondingCurve, _, err := solana.FindAssociatedTokenAddress(bondingCurve, mint)
	if err != nil {
		return nil, fmt.Errorf("derive curve token account: %w", err)
	}
	metadata, _, err := solana.FindProgramAddress(
		[][]byte{[]byte("metadata"), tokenMetadataID.Bytes(), mint.Bytes()}, tokenMetadataID)
	if err != nil {
		return nil, fmt.Errorf("derive metadata: %w", err)
	}

	data := createDiscriminator[:]
	data = appendBorshString(data, name)
	data = appendBorshString(data, symbol)
	data = appendBorshString(data, uri)

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(mint, true, true),
		solana.NewAccountMeta(mintAuthority, false, false),
		solana.NewAccountMeta(bondingCurve, true, false),
		solana.NewAccountMeta(associatedBondingCurve, true, false),
		solana.NewAccountMeta(global, false, false),
		solana.NewAccountMeta(tokenMetadataID, false, false),
		solana.NewAccountMeta(metadata, true, false),
		solana.NewAccountMeta(user, true, true),
		solana.NewAccountMeta(solana.SystemProgramID, false, false),
		solana.NewAccountMeta(solana.TokenProgramID, false, false),
		solana.NewAccountMeta(solana.SPLAssociatedTokenAccountProgramID, false, false),
		solana.NewAccountMeta(solana.SysVarRentPubkey, false, false),
		solana.NewAccountMeta(eventAuthority, false, false),
		solana.NewAccountMeta(pumpProgramID, false, false),
	}

	return solana.NewInstruction(pumpProgramID, accounts, data), nil
}

// appendBorshString appends a u32-length-prefixed UTF-8 string.
func appendBorshString(data []byte, s string) []byte {
	data = binary.LittleEndian.AppendUint32(data, uint32(len(s)))
	return append(data, s...)
}
