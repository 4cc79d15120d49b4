package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/util"
)

var (
	mintPrefix = []byte{0x01}
	burnPrefix = []byte{0x02}
)

// MintTransferDetails prefixes details of a transfer produced by minting
// proxy assets against an inbound cross-subnet message.
func MintTransferDetails(txDetails []byte) []byte {
	return append(mintPrefix, txDetails...)
}

// BurnTransferDetails prefixes details of a transfer produced by burning
// proxy assets on the deposit path.
func BurnTransferDetails(txDetails []byte) []byte {
	return append(burnPrefix, txDetails...)
}

// AbortWithMessage calls `runtime.Log` with passed message
// and calls `ABORT` opcode.
func AbortWithMessage(msg string) {
	runtime.Log(msg)
	util.Abort()
}
