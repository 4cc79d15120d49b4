// Package bridge contains RPC wrappers for Subnet Bridge contract.
package bridge

import (
	"errors"
	"fmt"
	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"math/big"
)

// CommonSubnetID is a contract-specific common.SubnetID type used by its methods.
type CommonSubnetID struct {
	Root *big.Int
	Path []util.Uint160
}

// InboundAppliedEvent represents "InboundApplied" event emitted by the contract.
type InboundAppliedEvent struct {
	MessageID []byte
	Recipient util.Uint160
	Amount    *big.Int
}

// DepositRequestedEvent represents "DepositRequested" event emitted by the contract.
type DepositRequestedEvent struct {
	Receiver  util.Uint160
	Amount    *big.Int
	MessageID []byte
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// Gateway invokes `gateway` method of contract.
func (c *ContractReader) Gateway() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "gateway"))
}

// IsApplied invokes `isApplied` method of contract.
func (c *ContractReader) IsApplied(messageID []byte) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isApplied", messageID))
}

// OutboundNonce invokes `outboundNonce` method of contract.
func (c *ContractReader) OutboundNonce() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "outboundNonce"))
}

// OwnSubnet invokes `ownSubnet` method of contract.
func (c *ContractReader) OwnSubnet() (*CommonSubnetID, error) {
	return itemToCommonSubnetID(unwrap.Item(c.invoker.Call(c.hash, "ownSubnet")))
}

// ParentSubnet invokes `parentSubnet` method of contract.
func (c *ContractReader) ParentSubnet() (*CommonSubnetID, error) {
	return itemToCommonSubnetID(unwrap.Item(c.invoker.Call(c.hash, "parentSubnet")))
}

// ProxyToken invokes `proxyToken` method of contract.
func (c *ContractReader) ProxyToken() (util.Uint160, error) {
	return unwrap.Uint160(c.invoker.Call(c.hash, "proxyToken"))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// Deposit creates a transaction invoking `deposit` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Deposit(from util.Uint160, receiver util.Uint160, amount *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "deposit", from, receiver, amount)
}

// DepositTransaction creates a transaction invoking `deposit` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) DepositTransaction(from util.Uint160, receiver util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "deposit", from, receiver, amount)
}

// DepositUnsigned creates a transaction invoking `deposit` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) DepositUnsigned(from util.Uint160, receiver util.Uint160, amount *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "deposit", nil, from, receiver, amount)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// itemToCommonSubnetID converts stack item into *CommonSubnetID.
func itemToCommonSubnetID(item stackitem.Item, err error) (*CommonSubnetID, error) {
	if err != nil {
		return nil, err
	}
	var res = new(CommonSubnetID)
	err = res.FromStackItem(item)
	return res, err
}

// FromStackItem retrieves fields of CommonSubnetID from the given
// [stackitem.Item] or returns an error if it's not possible to do to so.
func (res *CommonSubnetID) FromStackItem(item stackitem.Item) error {
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	res.Root, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Root: %w", err)
	}

	index++
	res.Path, err = func(item stackitem.Item) ([]util.Uint160, error) {
		arr, ok := item.Value().([]stackitem.Item)
		if !ok {
			return nil, errors.New("not an array")
		}
		res := make([]util.Uint160, len(arr))
		for i := range res {
			res[i], err = func(item stackitem.Item) (util.Uint160, error) {
				b, err := item.TryBytes()
				if err != nil {
					return util.Uint160{}, err
				}
				u, err := util.Uint160DecodeBytesBE(b)
				if err != nil {
					return util.Uint160{}, err
				}
				return u, nil
			}(arr[i])
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
		return res, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Path: %w", err)
	}

	return nil
}

// InboundAppliedEventsFromApplicationLog retrieves a set of all emitted events
// with "InboundApplied" name from the provided [result.ApplicationLog].
func InboundAppliedEventsFromApplicationLog(log *result.ApplicationLog) ([]*InboundAppliedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*InboundAppliedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "InboundApplied" {
				continue
			}
			event := new(InboundAppliedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize InboundAppliedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to InboundAppliedEvent or
// returns an error if it's not possible to do to so.
func (e *InboundAppliedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.MessageID, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field MessageID: %w", err)
	}

	index++
	e.Recipient, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Recipient: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}

// DepositRequestedEventsFromApplicationLog retrieves a set of all emitted events
// with "DepositRequested" name from the provided [result.ApplicationLog].
func DepositRequestedEventsFromApplicationLog(log *result.ApplicationLog) ([]*DepositRequestedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*DepositRequestedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "DepositRequested" {
				continue
			}
			event := new(DepositRequestedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize DepositRequestedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to DepositRequestedEvent or
// returns an error if it's not possible to do to so.
func (e *DepositRequestedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.Receiver, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Receiver: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	index++
	e.MessageID, err = arr[index].TryBytes()
	if err != nil {
		return fmt.Errorf("field MessageID: %w", err)
	}

	return nil
}
