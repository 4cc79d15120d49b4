package gateway

import (
	"github.com/nspcc-dev/neo-go/pkg/interop"
	"github.com/nspcc-dev/neo-go/pkg/interop/contract"
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
	"github.com/nspcc-dev/subnet-bridge-contract/common"
)

// Message is an outbound cross-subnet message recorded by PostMessage.
type Message struct {
	ID          []byte
	Source      common.SubnetID
	Destination common.SubnetID
	Recipient   interop.Hash160
	Amount      int
}

const (
	lastMessageKey  = "last"
	messageCountKey = "count"
	rejectKey       = "reject"
)

// RelayInbound delivers an inbound cross-subnet message to the bridge the
// way the production gateway does, making this contract the calling script.
func RelayInbound(bridge interop.Hash160, messageID []byte, sourceSubnet, destSubnet common.SubnetID, recipient interop.Hash160, amount int) {
	contract.Call(bridge, "onInboundMessage", contract.All,
		messageID, sourceSubnet, destSubnet, recipient, amount)
}

// PostMessage records an outbound message from the bridge. Returns false
// when the contract was switched to rejecting mode.
func PostMessage(messageID []byte, sourceSubnet, destSubnet common.SubnetID, recipient interop.Hash160, amount int) bool {
	ctx := storage.GetContext()

	if storage.Get(ctx, rejectKey) != nil {
		return false
	}

	storage.Put(ctx, lastMessageKey, std.Serialize(Message{
		ID:          messageID,
		Source:      sourceSubnet,
		Destination: destSubnet,
		Recipient:   recipient,
		Amount:      amount,
	}))

	count := 0
	raw := storage.Get(ctx, messageCountKey)
	if raw != nil {
		count = raw.(int)
	}
	storage.Put(ctx, messageCountKey, count+1)

	return true
}

// SetReject switches rejection of outbound messages on or off.
func SetReject(v bool) {
	ctx := storage.GetContext()
	if v {
		storage.Put(ctx, rejectKey, []byte{1})
	} else {
		storage.Delete(ctx, rejectKey)
	}
}

// LastMessage returns the last recorded outbound message.
func LastMessage() Message {
	val := storage.Get(storage.GetReadOnlyContext(), lastMessageKey)
	if val == nil {
		return Message{}
	}
	return std.Deserialize(val.([]byte)).(Message)
}

// MessageCount returns the number of recorded outbound messages.
func MessageCount() int {
	raw := storage.Get(storage.GetReadOnlyContext(), messageCountKey)
	if raw == nil {
		return 0
	}
	return raw.(int)
}
