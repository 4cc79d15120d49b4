package bridge

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/convert"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/subnet-bridge-contract/common"
)

const (
	gatewayContractKey = 'g'
	tokenContractKey   = 't'
	ownSubnetKey       = 's'
	parentSubnetKey    = 'p'
	outboundNonceKey   = 'n'

	appliedPrefix = 'r'

	maxMessageIDSize = 64
)

const (
	// ErrUnauthorizedCaller is thrown when an inbound message is delivered
	// by anyone but the gateway contract.
	ErrUnauthorizedCaller = "unauthorized caller"
	// ErrSubnetMismatch is thrown when an inbound message does not bind the
	// configured parent subnet to this bridge's own subnet.
	ErrSubnetMismatch = "subnet mismatch"
	// ErrDuplicateMessage is thrown when a message identifier has already
	// been applied.
	ErrDuplicateMessage = "message already applied"
	// ErrZeroAmount is thrown on a transfer of nothing.
	ErrZeroAmount = "zero amount"
	// ErrRelayFailed is thrown when the gateway refuses an outbound message.
	ErrRelayFailed = "gateway relay failed"
	// ErrInvalidMessageID is thrown when a message identifier is empty or
	// oversized.
	ErrInvalidMessageID = "invalid message identifier"
	// ErrInvalidRecipient is thrown when a recipient is not a valid script hash.
	ErrInvalidRecipient = "invalid recipient"
)

var outboundIDPrefix = []byte{0x0b}

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		addrGateway  interop.Hash160
		addrToken    interop.Hash160
		ownSubnet    common.SubnetID
		parentSubnet common.SubnetID
	})

	if len(args.addrGateway) != interop.Hash160Len {
		panic("incorrect length of gateway script hash")
	}

	if len(args.addrToken) != interop.Hash160Len {
		panic("incorrect length of token script hash")
	}

	common.ValidateSubnetID(args.ownSubnet)
	common.ValidateSubnetID(args.parentSubnet)

	if !common.SubnetIsChildOf(args.ownSubnet, args.parentSubnet) {
		panic("own subnet is not a child of the parent subnet")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, gatewayContractKey, args.addrGateway)
	storage.Put(ctx, tokenContractKey, args.addrToken)
	common.SetSerialized(ctx, ownSubnetKey, args.ownSubnet)
	common.SetSerialized(ctx, parentSubnetKey, args.parentSubnet)
	storage.Put(ctx, outboundNonceKey, 0)

	runtime.Log("bridge contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("bridge contract updated")
}

// OnInboundMessage applies a cross-subnet transfer delivered by the gateway
// contract: it authenticates the message origin, records the message
// identifier in the replay set and mints proxy assets to the recipient.
// Any other caller is rejected with ErrUnauthorizedCaller.
//
// The replay record and the mint land in the same transaction, so a fault in
// either reverts both. A message identifier is applied at most once; delivery
// order is not enforced.
//
// It produces an InboundApplied notification.
func OnInboundMessage(messageID []byte, sourceSubnet, destSubnet common.SubnetID, recipient interop.Hash160, amount int) {
	ctx := storage.GetContext()

	authenticateMessage(ctx, sourceSubnet, destSubnet)
	checkAndRecord(ctx, messageID)

	if amount <= 0 {
		panic(ErrZeroAmount)
	}

	if len(recipient) != interop.Hash160Len {
		panic(ErrInvalidRecipient)
	}

	tokenAddr := storage.Get(ctx, tokenContractKey).(interop.Hash160)
	contract.Call(tokenAddr, "mint", contract.All, recipient, amount, messageID)

	runtime.Notify("InboundApplied", messageID, recipient, amount)
	runtime.Log("inbound transfer applied")
}

// Deposit bridges proxy assets back to the parent subnet. It burns the amount
// from the sender's proxy balance and forwards an outbound cross-subnet
// message crediting the receiver on the parent side to the gateway contract.
// It can be invoked only by the owner of the debited account.
//
// If the gateway refuses the message, the whole operation faults and the burn
// is reverted, so no value is destroyed without being communicated upwards.
//
// It produces a DepositRequested notification.
func Deposit(from, receiver interop.Hash160, amount int) {
	if amount <= 0 {
		panic(ErrZeroAmount)
	}

	if len(receiver) != interop.Hash160Len {
		panic(ErrInvalidRecipient)
	}

	common.CheckOwnerWitness(from)

	ctx := storage.GetContext()

	nonce := storage.Get(ctx, outboundNonceKey).(int)
	storage.Put(ctx, outboundNonceKey, nonce+1)

	messageID := common.InvokeID([]any{
		convert.ToBytes(nonce),
		[]byte(receiver),
		convert.ToBytes(amount),
	}, outboundIDPrefix)

	tokenAddr := storage.Get(ctx, tokenContractKey).(interop.Hash160)
	contract.Call(tokenAddr, "burn", contract.All, from, amount, messageID)

	own := getSubnet(ctx, ownSubnetKey)
	parent := getSubnet(ctx, parentSubnetKey)
	gatewayAddr := storage.Get(ctx, gatewayContractKey).(interop.Hash160)

	accepted := contract.Call(gatewayAddr, "postMessage", contract.All,
		messageID, own, parent, receiver, amount).(bool)
	if !accepted {
		panic(ErrRelayFailed)
	}

	runtime.Notify("DepositRequested", receiver, amount, messageID)
	runtime.Log("deposit forwarded to gateway")
}

// IsApplied returns true if the message identifier has already been applied
// by OnInboundMessage.
func IsApplied(messageID []byte) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, append([]byte{appliedPrefix}, messageID...)) != nil
}

// ParentSubnet returns the identifier of the parent subnet this bridge is
// bound to.
func ParentSubnet() common.SubnetID {
	return getSubnet(storage.GetReadOnlyContext(), parentSubnetKey)
}

// OwnSubnet returns the identifier of the subnet this bridge serves.
func OwnSubnet() common.SubnetID {
	return getSubnet(storage.GetReadOnlyContext(), ownSubnetKey)
}

// ProxyToken returns the script hash of the proxy token contract.
func ProxyToken() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, tokenContractKey).(interop.Hash160)
}

// Gateway returns the script hash of the gateway contract.
func Gateway() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, gatewayContractKey).(interop.Hash160)
}

// OutboundNonce returns the number of outbound messages forwarded so far.
func OutboundNonce() int {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, outboundNonceKey).(int)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// authenticateMessage checks that the message is delivered by the configured
// gateway contract and binds the configured parent subnet to this bridge's
// own subnet. It performs no writes.
func authenticateMessage(ctx storage.Context, sourceSubnet, destSubnet common.SubnetID) {
	gatewayAddr := storage.Get(ctx, gatewayContractKey).(interop.Hash160)
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gatewayAddr) {
		panic(ErrUnauthorizedCaller)
	}

	if !common.SubnetEquals(sourceSubnet, getSubnet(ctx, parentSubnetKey)) {
		panic(ErrSubnetMismatch)
	}

	if !common.SubnetEquals(destSubnet, getSubnet(ctx, ownSubnetKey)) {
		panic(ErrSubnetMismatch)
	}
}

// checkAndRecord rejects an already applied message identifier and marks the
// passed one as applied. Replay records are never removed.
func checkAndRecord(ctx storage.Context, messageID []byte) {
	if len(messageID) == 0 || len(messageID) > maxMessageIDSize {
		panic(ErrInvalidMessageID)
	}

	key := append([]byte{appliedPrefix}, messageID...)
	if storage.Get(ctx, key) != nil {
		panic(ErrDuplicateMessage)
	}

	storage.Put(ctx, key, []byte{1})
}

func getSubnet(ctx storage.Context, key byte) common.SubnetID {
	data := storage.Get(ctx, key)
	return std.Deserialize(data.([]byte)).(common.SubnetID)
}
