// Package evm submits token-creation transactions to the portal contract.
// The portal performs the actual CREATE2 clone deploy, so a salt found by
// the vanity package lands the token on its predicted address as long as
// portal and implementation are unchanged between prediction and execution.
package evm

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// portalABI is the slice of the portal contract's interface we call.
const portalABI = `[{
	"name": "createToken",
	"type": "function",
	"stateMutability": "nonpayable",
	"inputs": [
		{"name": "salt", "type": "bytes32"},
		{"name": "name", "type": "string"},
		{"name": "symbol", "type": "string"},
		{"name": "metadataURI", "type": "string"}
	],
	"outputs": [{"name": "token", "type": "address"}]
}]`

// Client sends portal transactions over an EVM JSON-RPC endpoint.
type Client struct {
	eth     *ethclient.Client
	abi     abi.ABI
	key     *ecdsa.PrivateKey
	from    common.Address
	portal  common.Address
	chainID *big.Int
}

// Dial connects to the RPC endpoint and prepares the signing key.
func Dial(ctx context.Context, rpcURL, privateKeyHex, portalHex string) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial evm rpc: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse evm private key: %w", err)
	}

	if !common.IsHexAddress(portalHex) {
		return nil, fmt.Errorf("invalid portal address %q", portalHex)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch chain id: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(portalABI))
	if err != nil {
		return nil, fmt.Errorf("parse portal abi: %w", err)
	}

	return &Client{
		eth:     eth,
		abi:     parsed,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
		portal:  common.HexToAddress(portalHex),
		chainID: chainID,
	}, nil
}

// CreateToken calls portal.createToken with the vanity salt and returns the
// transaction hash. The portal's CREATE2 guarantees the token address.
func (c *Client) CreateToken(ctx context.Context, salt [32]byte, name, symbol, metadataURI string) (string, error) {
	calldata, err := c.abi.Pack("createToken", salt, name, symbol, metadataURI)
	if err != nil {
		return "", fmt.Errorf("pack createToken: %w", err)
	}

	nonce, err := c.eth.PendingNonceAt(ctx, c.from)
	if err != nil {
		return "", fmt.Errorf("fetch nonce: %w", err)
	}

	gasTipCap, err := c.eth.SuggestGasTipCap(ctx)
	if err != nil {
		return "", fmt.Errorf("suggest gas tip: %w", err)
	}
	head, err := c.eth.HeaderByNumber(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("fetch head: %w", err)
	}
	baseFee := head.BaseFee
	if baseFee == nil {
		baseFee = big.NewInt(0)
	}
	gasFeeCap := new(big.Int).Add(gasTipCap, new(big.Int).Mul(baseFee, big.NewInt(2)))

	gasLimit, err := c.eth.EstimateGas(ctx, ethereum.CallMsg{
		From: c.from,
		To:   &c.portal,
		Data: calldata,
	})
	if err != nil {
		return "", fmt.Errorf("estimate gas: %w", err)
	}

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   c.chainID,
		Nonce:     nonce,
		GasTipCap: gasTipCap,
		GasFeeCap: gasFeeCap,
		Gas:       gasLimit,
		To:        &c.portal,
		Data:      calldata,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return "", fmt.Errorf("sign tx: %w", err)
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return "", fmt.Errorf("send tx: %w", err)
	}
	return signed.Hash().Hex(), nil
}

// Close releases the RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}
