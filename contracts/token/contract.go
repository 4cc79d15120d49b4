package token

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/management"
	"github.com/nspcc-dev/neo-go/pkg/interop/runtime"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/subnet-bridge-contract/common"
)

// Token holds all token info.
type Token struct {
	// Ticker symbol
	Symbol string
	// Amount of decimals
	Decimals int
	// Storage key for circulation value
	CirculationKey string
}

const (
	symbol      = "SPRX"
	decimals    = 8
	circulation = "ParentLocked"
	accPrefix   = 'a'

	bridgeContractKey = 'b'

	// MaxSupply bounds the circulating proxy supply. Total supply is kept
	// within the 2**53-1 JSON integer bound so that RPC clients can always
	// represent it.
	MaxSupply = 1<<53 - 1
)

const (
	// ErrBridgeOnly is thrown when mint or burn is invoked by anyone but
	// the bridge contract.
	ErrBridgeOnly = "caller is not the bridge contract"
	// ErrOverflow is thrown when minting would push total supply over MaxSupply.
	ErrOverflow = "total supply overflow"
	// ErrInsufficientBalance is thrown when burning more than the account holds.
	ErrInsufficientBalance = "insufficient balance"
	// ErrNonPositiveAmount is thrown on a zero or negative amount.
	ErrNonPositiveAmount = "non-positive amount"
	// ErrInvalidAccount is thrown when an account argument is not a valid
	// script hash.
	ErrInvalidAccount = "invalid account"
)

var token Token

func createToken() Token {
	return Token{
		Symbol:         symbol,
		Decimals:       decimals,
		CirculationKey: circulation,
	}
}

func init() {
	token = createToken()
}

// nolint:deadcode,unused
func _deploy(data any, isUpdate bool) {
	if isUpdate {
		args := data.([]any)
		common.CheckVersion(args[len(args)-1].(int))
		return
	}

	args := data.(struct {
		addrBridge interop.Hash160
	})

	if len(args.addrBridge) != interop.Hash160Len {
		panic("incorrect length of bridge script hash")
	}

	ctx := storage.GetContext()
	storage.Put(ctx, bridgeContractKey, args.addrBridge)

	runtime.Log("proxy token contract initialized")
}

// Update method updates contract source code and manifest. It can be invoked
// only by committee.
func Update(nefFile, manifest []byte, data any) {
	if !common.HasUpdateAccess() {
		panic("only committee can update contract")
	}

	contract.Call(interop.Hash160(management.Hash), "update",
		contract.All, nefFile, manifest, common.AppendVersion(data))
	runtime.Log("proxy token contract updated")
}

// Symbol is a NEP-17 standard method that returns the proxy token symbol.
func Symbol() string {
	return token.Symbol
}

// Decimals is a NEP-17 standard method that returns precision of proxy
// balances.
func Decimals() int {
	return token.Decimals
}

// TotalSupply is a NEP-17 standard method that returns the amount of proxy
// assets in circulation. It equals the total minted less the total burned
// amount and never exceeds the value locked on the parent subnet.
func TotalSupply() int {
	ctx := storage.GetReadOnlyContext()
	return token.getSupply(ctx)
}

// BalanceOf is a NEP-17 standard method that returns the proxy balance of the
// specified account.
func BalanceOf(account interop.Hash160) int {
	ctx := storage.GetReadOnlyContext()
	return token.balanceOf(ctx, account)
}

// Transfer is a NEP-17 standard method that transfers proxy assets from one
// account to another. It can be invoked only by the account owner.
//
// It produces a Transfer notification.
func Transfer(from, to interop.Hash160, amount int, data any) bool {
	ctx := storage.GetContext()
	return token.transfer(ctx, from, to, amount, false)
}

// Bridge returns the script hash of the bridge contract that owns the mint
// and burn capability.
func Bridge() interop.Hash160 {
	ctx := storage.GetReadOnlyContext()
	return storage.Get(ctx, bridgeContractKey).(interop.Hash160)
}

// Mint creates proxy assets on a user account. It can be invoked only by the
// bridge contract, which calls it after an inbound cross-subnet message has
// been authenticated and recorded.
//
// It produces Transfer and Minted notifications. Mint increases total supply
// and panics with ErrOverflow if the result would exceed MaxSupply.
func Mint(to interop.Hash160, amount int, txDetails []byte) {
	ctx := storage.GetContext()

	checkBridge(ctx)

	if amount <= 0 {
		panic(ErrNonPositiveAmount)
	}

	if len(to) != interop.Hash160Len {
		panic(ErrInvalidAccount)
	}

	supply := token.getSupply(ctx)
	if supply+amount > MaxSupply {
		panic(ErrOverflow)
	}

	ok := token.transfer(ctx, nil, to, amount, true)
	if !ok {
		panic(ErrInvalidAccount)
	}

	storage.Put(ctx, token.CirculationKey, supply+amount)
	runtime.Notify("Minted", to, amount, common.MintTransferDetails(txDetails))
	runtime.Log("proxy assets minted")
}

// Burn destroys proxy assets on a user account. It can be invoked only by the
// bridge contract, which calls it on the deposit path before notifying the
// gateway. Burn decreases total supply and panics with ErrInsufficientBalance
// if the account holds less than the burned amount.
//
// It produces Transfer and Burned notifications.
func Burn(from interop.Hash160, amount int, txDetails []byte) {
	ctx := storage.GetContext()

	checkBridge(ctx)

	if amount <= 0 {
		panic(ErrNonPositiveAmount)
	}

	if len(from) != interop.Hash160Len {
		panic(ErrInvalidAccount)
	}

	ok := token.transfer(ctx, from, nil, amount, true)
	if !ok {
		panic(ErrInsufficientBalance)
	}

	supply := token.getSupply(ctx)
	if supply < amount {
		panic("negative supply after burn")
	}

	storage.Put(ctx, token.CirculationKey, supply-amount)
	runtime.Notify("Burned", from, amount, common.BurnTransferDetails(txDetails))
	runtime.Log("proxy assets burned")
}

// Version returns the version of the contract.
func Version() int {
	return common.Version
}

// checkBridge panics with ErrBridgeOnly unless the direct caller is the
// bridge contract fixed at deploy. Mint and burn are a capability of the
// bridge, not of any witness, so the check is structural.
func checkBridge(ctx storage.Context) {
	bridge := storage.Get(ctx, bridgeContractKey).(interop.Hash160)
	caller := runtime.GetCallingScriptHash()
	if !caller.Equals(bridge) {
		panic(ErrBridgeOnly)
	}
}

// getSupply gets the token totalSupply value from VM storage.
func (t Token) getSupply(ctx storage.Context) int {
	supply := storage.Get(ctx, t.CirculationKey)
	if supply != nil {
		return supply.(int)
	}

	return 0
}

// balanceOf gets the token balance of a specific address.
func (t Token) balanceOf(ctx storage.Context, holder interop.Hash160) int {
	raw := storage.Get(ctx, append([]byte{accPrefix}, holder...))
	if raw != nil {
		return raw.(int)
	}

	return 0
}

func (t Token) transfer(ctx storage.Context, from, to interop.Hash160, amount int, system bool) bool {
	if amount < 0 {
		panic(ErrNonPositiveAmount)
	}

	balanceFrom, ok := t.canTransfer(ctx, from, to, amount, system)
	if !ok {
		return false
	}

	if len(from) == interop.Hash160Len {
		var fromKey = append([]byte{accPrefix}, from...)

		if balanceFrom == amount {
			storage.Delete(ctx, fromKey)
		} else {
			storage.Put(ctx, fromKey, balanceFrom-amount)
		}
	}

	if len(to) == interop.Hash160Len {
		var toKey = append([]byte{accPrefix}, to...)

		balanceTo := t.balanceOf(ctx, to)
		storage.Put(ctx, toKey, balanceTo+amount)
	}

	runtime.Notify("Transfer", from, to, amount)

	return true
}

// canTransfer returns the balance it can transfer from.
func (t Token) canTransfer(ctx storage.Context, from, to interop.Hash160, amount int, system bool) (int, bool) {
	if !system {
		if len(to) != interop.Hash160Len || !isUsableAddress(from) {
			runtime.Log("bad script hashes")
			return 0, false
		}
	} else if len(from) == 0 {
		return 0, true
	}

	balanceFrom := t.balanceOf(ctx, from)
	if balanceFrom < amount {
		runtime.Log("not enough assets")
		return 0, false
	}

	return balanceFrom, true
}

// isUsableAddress checks if the sender is either a correct NEO address or SC address.
func isUsableAddress(addr interop.Hash160) bool {
	if len(addr) == interop.Hash160Len {
		if runtime.CheckWitness(addr) {
			return true
		}

		// Check if a smart contract is calling script hash
		callingScriptHash := runtime.GetCallingScriptHash()
		if callingScriptHash.Equals(addr) {
			return true
		}
	}

	return false
}
