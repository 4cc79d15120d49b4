package common

import "github.com/nspcc-dev/neo-go/pkg/interop/native/crypto"

// InvokeID derives a deterministic identifier from the passed arguments by
// hashing their concatenation with the prefix.
func InvokeID(args []any, prefix []byte) []byte {
	for i := range args {
		arg := args[i].([]byte)
		prefix = append(prefix, arg...)
	}

	return []byte(crypto.Sha256(prefix))
}
