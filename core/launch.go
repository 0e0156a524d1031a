package core

// Launch status values, in pipeline order.
const (
	StatusPending   = "pending"
	StatusNamed     = "named"
	StatusPinned    = "metadata_pinned"
	StatusSaltFound = "salt_found"
	StatusSubmitted = "submitted"
	StatusFailed    = "failed"
)

// ChainResult records the outcome of one network's token-creation submission.
type ChainResult struct {
	Chain   string `json:"chain"` // "evm" or "solana"
	Address string `json:"address,omitempty"`
	TxHash  string `json:"tx_hash,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Launch is the full record of one token launch attempt.
type Launch struct {
	ID          string        `json:"id"`
	Post        Post          `json:"post"`
	Idea        TokenIdea     `json:"idea"`
	MetadataURI string        `json:"metadata_uri,omitempty"`
	Salt        string        `json:"salt,omitempty"`              // hex, consumed once
	Predicted   string        `json:"predicted_address,omitempty"` // vanity CREATE2 prediction
	Results     []ChainResult `json:"results,omitempty"`
	Status      string        `json:"status"`
	CreatedAt   int64         `json:"created_at"`
	UpdatedAt   int64         `json:"updated_at"`
}
