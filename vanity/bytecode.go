package vanity

import "encoding/hex"

// EIP-1167 minimal proxy init code: a 10-byte constructor that returns the
// 45-byte runtime, with the implementation address spliced in between the
// two fixed halves.
const (
	proxyPrefixHex = "3d602d80600a3d3981f3363d3d373d3d3d363d73"
	proxySuffixHex = "5af43d82803e903d91602b57fd5bf3"
)

var (
	proxyPrefix = mustHex(proxyPrefixHex)
	proxySuffix = mustHex(proxySuffixHex)
)

func mustHex(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return b
}

// ProxyInitCode returns the EIP-1167 init code that clones implementation.
func ProxyInitCode(implementation Address) []byte {
	code := make([]byte, 0, len(proxyPrefix)+len(implementation)+len(proxySuffix))
	code = append(code, proxyPrefix...)
	code = append(code, implementation[:]...)
	code = append(code, proxySuffix...)
	return code
}
