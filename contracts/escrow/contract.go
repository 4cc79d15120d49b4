package escrow

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/gas"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/subnet-bridge-contract/common"
)

const (
	gatewayKey     = "gatewayScriptHash"
	childSubnetKey = "childSubnet"

	releasedPrefix = 'r'

	// Max single deposit of 9000.0 GAS. Keeps escrowed amounts within JSON
	// bounds for integers when precision is converted on the child side.
	maxDepositAmount    = 9000
	maxDepositAmountGAS = int64(maxDepositAmount) * 1_0000_0000
)

const (
	// ErrDuplicateRelease is thrown when a release identifier has already
	// been processed.
	ErrDuplicateRelease = "release already processed"
	// ErrZeroAmount is thrown on a transfer of nothing.
	ErrZeroAmount = "zero amount"
)

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		addrGateway interop.Hash160
		childSubnet common.SubnetID
	})

	if len(args.addrGateway) != interop.Hash160Len {
		panic("incorrect length of gateway script hash")
	}

	common.ValidateSubnetID(args.childSubnet)

	ctx := storage.GetContext()
	storage.Put(ctx, gatewayKey, args.addrGateway)
	common.SetSerialized(ctx, childSubnetKey, args.childSubnet)

	runtime.Log("escrow contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("escrow contract updated")
}

// OnNEP17Payment is a callback for NEP-17 compatible native GAS contract.
// Received GAS is locked on the contract account and a Deposit notification
// is produced for the gateway to relay a mint to the child subnet. Optional
// data argument designates the recipient on the child side; the sender is
// credited when it is empty.
//
// It takes no more than 9000.0 GAS at once.
func OnNEP17Payment(from interop.Hash160, amount int, data any) {
	if amount <= 0 {
		common.AbortWithMessage("amount must be positive")
	} else if maxDepositAmountGAS < int64(amount) {
		common.AbortWithMessage("out of max amount limit")
	}

	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(gas.Hash) {
		common.AbortWithMessage("only GAS can be accepted for deposit")
	}

	rcv := data.(interop.Hash160)

	switch len(rcv) {
	case interop.Hash160Len:
	case 0:
		rcv = from
	default:
		common.AbortWithMessage("invalid data argument, expected Hash160")
	}

	runtime.Log("funds have been locked")

	tx := runtime.GetScriptContainer()
	runtime.Notify("Deposit", from, amount, rcv, tx.Hash)
}

// Release pays escrowed GAS back to a user after the corresponding proxy
// assets have been burned on the child subnet. It can be invoked only by the
// gateway authority and processes every release identifier at most once.
//
// It produces a Release notification.
func Release(id []byte, user interop.Hash160, amount int) {
	if amount <= 0 {
		panic(ErrZeroAmount)
	}

	ctx := storage.GetContext()

	gateway := storage.Get(ctx, gatewayKey).(interop.Hash160)
	common.CheckGatewayWitness(gateway)

	key := append([]byte{releasedPrefix}, id...)
	if storage.Get(ctx, key) != nil {
		panic(ErrDuplicateRelease)
	}
	storage.Put(ctx, key, []byte{1})

	from := runtime.GetExecutingScriptHash()

	transferred := gas.Transfer(from, user, amount, nil)
	if !transferred {
		panic("failed to transfer funds, aborting")
	}

	runtime.Log("funds have been released")
	runtime.Notify("Release", id, user, amount)
}

// IsReleased returns true if the release identifier has already been
// processed.
func IsReleased(id []byte) bool {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, append([]byte{releasedPrefix}, id...)) != nil
}

// ChildSubnet returns the identifier of the child subnet this escrow backs.
func ChildSubnet() common.SubnetID {
	ctx := storage.GetReadOnlyContext()
	data := storage.Get(ctx, childSubnetKey)
	return std.Deserialize(data.([]byte)).(common.SubnetID)
}

// Gateway returns the script hash of the gateway authority.
func Gateway() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, gatewayKey).(interop.Hash160)
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}
