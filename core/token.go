package core

// TokenIdea is the LLM's answer for a post: what the token should be called.
type TokenIdea struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
}

// TokenMetadata is the document pinned to IPFS and referenced by both chains.
type TokenMetadata struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
	SourcePost  string `json:"source_post,omitempty"`
}
