package tests

import (
	"path"
	"testing"

	"github.com/nspcc-dev/neo-go/pkg/neotest"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
	"github.com/nspcc-dev/subnet-bridge-contract/common"
	"github.com/nspcc-dev/subnet-bridge-contract/contracts/bridge"
	"github.com/nspcc-dev/subnet-bridge-contract/contracts/token"
	rpcbridge "github.com/nspcc-dev/subnet-bridge-contract/rpc/bridge"
	"github.com/stretchr/testify/require"
)

const (
	bridgePath  = "../contracts/bridge"
	tokenPath   = "../contracts/token"
	gatewayPath = "../internal/testcontracts/gateway"
)

const rootChain = 42

// subnetAnchor is the address registering the child subnet on the parent side.
var subnetAnchor = util.Uint160{0xde, 0xad, 0xbe, 0xef, 0x05, 0x06, 0x07, 0x08,
	0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f, 0x10, 0x11, 0x12, 0x13, 0x14}

func parentSubnetArg() []interface{} {
	return []interface{}{int64(rootChain), []interface{}{}}
}

func ownSubnetArg() []interface{} {
	return []interface{}{int64(rootChain), []interface{}{subnetAnchor.BytesBE()}}
}

type bridgeEnv struct {
	e       *neotest.Executor
	bridge  *neotest.ContractInvoker
	token   *neotest.ContractInvoker
	gateway *neotest.ContractInvoker

	bridgeHash  util.Uint160
	tokenHash   util.Uint160
	gatewayHash util.Uint160
}

// newBridgeEnv deploys the gateway, the proxy token and the bridge. The token
// pins the bridge hash and the bridge pins the token hash, deterministic
// pre-deploy hashes break the cycle: both contracts are compiled first and
// the token is deployed with the hash the bridge is going to have.
func newBridgeEnv(t *testing.T) *bridgeEnv {
	e := newExecutor(t)

	cGateway := neotest.CompileFile(t, e.CommitteeHash, gatewayPath, path.Join(gatewayPath, "config.yml"))
	e.DeployContract(t, cGateway, nil)

	cToken := neotest.CompileFile(t, e.CommitteeHash, tokenPath, path.Join(tokenPath, "config.yml"))
	cBridge := neotest.CompileFile(t, e.CommitteeHash, bridgePath, path.Join(bridgePath, "config.yml"))

	e.DeployContract(t, cToken, []interface{}{cBridge.Hash})
	e.DeployContract(t, cBridge, []interface{}{
		cGateway.Hash, cToken.Hash, ownSubnetArg(), parentSubnetArg(),
	})

	return &bridgeEnv{
		e:       e,
		bridge:  e.CommitteeInvoker(cBridge.Hash),
		token:   e.CommitteeInvoker(cToken.Hash),
		gateway: e.CommitteeInvoker(cGateway.Hash),

		bridgeHash:  cBridge.Hash,
		tokenHash:   cToken.Hash,
		gatewayHash: cGateway.Hash,
	}
}

// relayInbound delivers an inbound message to the bridge through the gateway
// contract, making the gateway the calling script.
func (env *bridgeEnv) relayInbound(t *testing.T, id []byte, recipient util.Uint160, amount int64) util.Uint256 {
	return env.gateway.Invoke(t, stackitem.Null{}, "relayInbound",
		env.bridgeHash, id, parentSubnetArg(), ownSubnetArg(), recipient, amount)
}

func (env *bridgeEnv) balance(t *testing.T, acc util.Uint160) int64 {
	s, err := env.token.TestInvoke(t, "balanceOf", acc)
	require.NoError(t, err)
	v, err := s.Pop().Item().TryInteger()
	require.NoError(t, err)
	return v.Int64()
}

func (env *bridgeEnv) totalSupply(t *testing.T) int64 {
	s, err := env.token.TestInvoke(t, "totalSupply")
	require.NoError(t, err)
	v, err := s.Pop().Item().TryInteger()
	require.NoError(t, err)
	return v.Int64()
}

func TestBridge_Version(t *testing.T) {
	env := newBridgeEnv(t)
	env.bridge.Invoke(t, common.Version, "version")
}

func TestBridge_Deploy(t *testing.T) {
	env := newBridgeEnv(t)

	env.bridge.Invoke(t, stackitem.NewByteArray(env.gatewayHash.BytesBE()), "gateway")
	env.bridge.Invoke(t, stackitem.NewByteArray(env.tokenHash.BytesBE()), "proxyToken")
	env.bridge.Invoke(t, 0, "outboundNonce")

	s, err := env.bridge.TestInvoke(t, "ownSubnet")
	require.NoError(t, err)

	var own rpcbridge.CommonSubnetID
	require.NoError(t, own.FromStackItem(s.Pop().Item()))
	require.EqualValues(t, rootChain, own.Root.Int64())
	require.Equal(t, []util.Uint160{subnetAnchor}, own.Path)

	s, err = env.bridge.TestInvoke(t, "parentSubnet")
	require.NoError(t, err)

	var parent rpcbridge.CommonSubnetID
	require.NoError(t, parent.FromStackItem(s.Pop().Item()))
	require.EqualValues(t, rootChain, parent.Root.Int64())
	require.Empty(t, parent.Path)
}

func TestBridge_DeployValidation(t *testing.T) {
	e := newExecutor(t)

	cGateway := neotest.CompileFile(t, e.CommitteeHash, gatewayPath, path.Join(gatewayPath, "config.yml"))
	e.DeployContract(t, cGateway, nil)

	cToken := neotest.CompileFile(t, e.CommitteeHash, tokenPath, path.Join(tokenPath, "config.yml"))
	cBridge := neotest.CompileFile(t, e.CommitteeHash, bridgePath, path.Join(bridgePath, "config.yml"))
	e.DeployContract(t, cToken, []interface{}{cBridge.Hash})

	e.DeployContractCheckFAULT(t, cBridge, []interface{}{
		cGateway.Hash, cToken.Hash, ownSubnetArg(), ownSubnetArg(),
	}, "own subnet is not a child of the parent subnet")

	e.DeployContractCheckFAULT(t, cBridge, []interface{}{
		cGateway.Hash, cToken.Hash, []interface{}{int64(0), []interface{}{}}, parentSubnetArg(),
	}, common.ErrInvalidSubnet)
}

func TestBridge_InboundMint(t *testing.T) {
	env := newBridgeEnv(t)

	acc := env.e.NewAccount(t)
	rcpt := acc.ScriptHash()
	id := randomMessageID()

	env.bridge.Invoke(t, false, "isApplied", id)

	h := env.relayInbound(t, id, rcpt, 500)
	aer := env.gateway.CheckHalt(t, h)

	var applied *rpcbridge.InboundAppliedEvent
	for _, ev := range aer.Events {
		if ev.Name != "InboundApplied" {
			continue
		}
		applied = new(rpcbridge.InboundAppliedEvent)
		require.NoError(t, applied.FromStackItem(ev.Item))
	}
	require.NotNil(t, applied)
	require.Equal(t, id, applied.MessageID)
	require.Equal(t, rcpt, applied.Recipient)
	require.EqualValues(t, 500, applied.Amount.Int64())

	env.token.Invoke(t, 500, "balanceOf", rcpt)
	env.token.Invoke(t, 500, "totalSupply")
	env.bridge.Invoke(t, true, "isApplied", id)
	env.bridge.Invoke(t, false, "isApplied", randomMessageID())
}

func TestBridge_InboundReplay(t *testing.T) {
	env := newBridgeEnv(t)

	rcpt := env.e.NewAccount(t).ScriptHash()
	id := randomMessageID()

	env.relayInbound(t, id, rcpt, 500)
	env.gateway.InvokeFail(t, bridge.ErrDuplicateMessage, "relayInbound",
		env.bridgeHash, id, parentSubnetArg(), ownSubnetArg(), rcpt, int64(500))

	env.token.Invoke(t, 500, "balanceOf", rcpt)
	env.token.Invoke(t, 500, "totalSupply")
}

func TestBridge_InboundUnauthorizedCaller(t *testing.T) {
	env := newBridgeEnv(t)

	rcpt := env.e.NewAccount(t).ScriptHash()

	env.bridge.InvokeFail(t, bridge.ErrUnauthorizedCaller, "onInboundMessage",
		randomMessageID(), parentSubnetArg(), ownSubnetArg(), rcpt, int64(500))

	cAcc := env.bridge.WithSigners(env.e.NewAccount(t))
	cAcc.InvokeFail(t, bridge.ErrUnauthorizedCaller, "onInboundMessage",
		randomMessageID(), parentSubnetArg(), ownSubnetArg(), rcpt, int64(500))

	env.token.Invoke(t, 0, "totalSupply")
}

func TestBridge_InboundSubnetMismatch(t *testing.T) {
	env := newBridgeEnv(t)

	rcpt := env.e.NewAccount(t).ScriptHash()
	foreign := []interface{}{int64(rootChain + 1), []interface{}{}}

	env.gateway.InvokeFail(t, bridge.ErrSubnetMismatch, "relayInbound",
		env.bridgeHash, randomMessageID(), ownSubnetArg(), ownSubnetArg(), rcpt, int64(500))
	env.gateway.InvokeFail(t, bridge.ErrSubnetMismatch, "relayInbound",
		env.bridgeHash, randomMessageID(), parentSubnetArg(), parentSubnetArg(), rcpt, int64(500))
	env.gateway.InvokeFail(t, bridge.ErrSubnetMismatch, "relayInbound",
		env.bridgeHash, randomMessageID(), foreign, ownSubnetArg(), rcpt, int64(500))

	env.token.Invoke(t, 0, "totalSupply")
}

func TestBridge_InboundValidation(t *testing.T) {
	env := newBridgeEnv(t)

	rcpt := env.e.NewAccount(t).ScriptHash()

	env.gateway.InvokeFail(t, bridge.ErrZeroAmount, "relayInbound",
		env.bridgeHash, randomMessageID(), parentSubnetArg(), ownSubnetArg(), rcpt, int64(0))
	env.gateway.InvokeFail(t, bridge.ErrZeroAmount, "relayInbound",
		env.bridgeHash, randomMessageID(), parentSubnetArg(), ownSubnetArg(), rcpt, int64(-100))

	env.gateway.InvokeFail(t, bridge.ErrInvalidMessageID, "relayInbound",
		env.bridgeHash, []byte{}, parentSubnetArg(), ownSubnetArg(), rcpt, int64(500))
	env.gateway.InvokeFail(t, bridge.ErrInvalidMessageID, "relayInbound",
		env.bridgeHash, randomBytes(65), parentSubnetArg(), ownSubnetArg(), rcpt, int64(500))

	env.gateway.InvokeFail(t, bridge.ErrInvalidRecipient, "relayInbound",
		env.bridgeHash, randomMessageID(), parentSubnetArg(), ownSubnetArg(), []byte{1, 2, 3}, int64(500))

	env.token.Invoke(t, 0, "totalSupply")
}

func TestBridge_Deposit(t *testing.T) {
	env := newBridgeEnv(t)

	acc := env.e.NewAccount(t)
	receiver := randomUint160()

	env.relayInbound(t, randomMessageID(), acc.ScriptHash(), 500)

	cAcc := env.bridge.WithSigners(acc)
	h := cAcc.Invoke(t, stackitem.Null{}, "deposit", acc.ScriptHash(), receiver, int64(200))
	aer := cAcc.CheckHalt(t, h)

	var requested *rpcbridge.DepositRequestedEvent
	for _, ev := range aer.Events {
		if ev.Name != "DepositRequested" {
			continue
		}
		requested = new(rpcbridge.DepositRequestedEvent)
		require.NoError(t, requested.FromStackItem(ev.Item))
	}
	require.NotNil(t, requested)
	require.Equal(t, receiver, requested.Receiver)
	require.EqualValues(t, 200, requested.Amount.Int64())
	require.NotEmpty(t, requested.MessageID)

	env.token.Invoke(t, 300, "balanceOf", acc.ScriptHash())
	env.token.Invoke(t, 300, "totalSupply")
	env.bridge.Invoke(t, 1, "outboundNonce")
	env.gateway.Invoke(t, 1, "messageCount")

	s, err := env.gateway.TestInvoke(t, "lastMessage")
	require.NoError(t, err)

	msg, ok := s.Pop().Item().Value().([]stackitem.Item)
	require.True(t, ok)
	require.Len(t, msg, 5)

	msgID, err := msg[0].TryBytes()
	require.NoError(t, err)
	require.Equal(t, requested.MessageID, msgID)

	var src, dst rpcbridge.CommonSubnetID
	require.NoError(t, src.FromStackItem(msg[1]))
	require.NoError(t, dst.FromStackItem(msg[2]))
	require.Equal(t, []util.Uint160{subnetAnchor}, src.Path)
	require.Empty(t, dst.Path)

	rcv, err := msg[3].TryBytes()
	require.NoError(t, err)
	require.Equal(t, receiver.BytesBE(), rcv)

	amount, err := msg[4].TryInteger()
	require.NoError(t, err)
	require.EqualValues(t, 200, amount.Int64())

	// Outbound identifiers are derived from the nonce, a second deposit
	// with the same receiver and amount gets a fresh one.
	cAcc.Invoke(t, stackitem.Null{}, "deposit", acc.ScriptHash(), receiver, int64(200))
	env.bridge.Invoke(t, 2, "outboundNonce")
	env.gateway.Invoke(t, 2, "messageCount")

	s, err = env.gateway.TestInvoke(t, "lastMessage")
	require.NoError(t, err)
	msg, ok = s.Pop().Item().Value().([]stackitem.Item)
	require.True(t, ok)

	otherID, err := msg[0].TryBytes()
	require.NoError(t, err)
	require.NotEqual(t, msgID, otherID)

	env.token.Invoke(t, 100, "balanceOf", acc.ScriptHash())
	env.token.Invoke(t, 100, "totalSupply")
}

func TestBridge_DepositWitness(t *testing.T) {
	env := newBridgeEnv(t)

	acc := env.e.NewAccount(t)
	env.relayInbound(t, randomMessageID(), acc.ScriptHash(), 500)

	env.bridge.InvokeFail(t, common.ErrOwnerWitnessFailed, "deposit",
		acc.ScriptHash(), randomUint160(), int64(100))

	other := env.bridge.WithSigners(env.e.NewAccount(t))
	other.InvokeFail(t, common.ErrOwnerWitnessFailed, "deposit",
		acc.ScriptHash(), randomUint160(), int64(100))

	env.token.Invoke(t, 500, "balanceOf", acc.ScriptHash())
}

func TestBridge_DepositValidation(t *testing.T) {
	env := newBridgeEnv(t)

	acc := env.e.NewAccount(t)
	env.relayInbound(t, randomMessageID(), acc.ScriptHash(), 500)

	cAcc := env.bridge.WithSigners(acc)
	cAcc.InvokeFail(t, bridge.ErrZeroAmount, "deposit",
		acc.ScriptHash(), randomUint160(), int64(0))
	cAcc.InvokeFail(t, bridge.ErrZeroAmount, "deposit",
		acc.ScriptHash(), randomUint160(), int64(-7))
	cAcc.InvokeFail(t, bridge.ErrInvalidRecipient, "deposit",
		acc.ScriptHash(), []byte{1, 2, 3}, int64(100))
	cAcc.InvokeFail(t, token.ErrInsufficientBalance, "deposit",
		acc.ScriptHash(), randomUint160(), int64(501))

	env.token.Invoke(t, 500, "balanceOf", acc.ScriptHash())
	env.bridge.Invoke(t, 0, "outboundNonce")
}

func TestBridge_DepositRelayRefused(t *testing.T) {
	env := newBridgeEnv(t)

	acc := env.e.NewAccount(t)
	env.relayInbound(t, randomMessageID(), acc.ScriptHash(), 500)

	env.gateway.Invoke(t, stackitem.Null{}, "setReject", true)

	cAcc := env.bridge.WithSigners(acc)
	cAcc.InvokeFail(t, bridge.ErrRelayFailed, "deposit",
		acc.ScriptHash(), randomUint160(), int64(200))

	// The fault reverts the burn together with the nonce bump, no value
	// is destroyed without being communicated upwards.
	env.token.Invoke(t, 500, "balanceOf", acc.ScriptHash())
	env.token.Invoke(t, 500, "totalSupply")
	env.bridge.Invoke(t, 0, "outboundNonce")
	env.gateway.Invoke(t, 0, "messageCount")

	env.gateway.Invoke(t, stackitem.Null{}, "setReject", false)
	cAcc.Invoke(t, stackitem.Null{}, "deposit", acc.ScriptHash(), randomUint160(), int64(200))
	env.token.Invoke(t, 300, "balanceOf", acc.ScriptHash())
}

func TestBridge_SupplyCap(t *testing.T) {
	env := newBridgeEnv(t)

	rcpt := env.e.NewAccount(t).ScriptHash()
	env.relayInbound(t, randomMessageID(), rcpt, 500)

	env.gateway.InvokeFail(t, token.ErrOverflow, "relayInbound",
		env.bridgeHash, randomMessageID(), parentSubnetArg(), ownSubnetArg(),
		rcpt, int64(token.MaxSupply)-500+1)
	env.token.Invoke(t, 500, "totalSupply")

	env.relayInbound(t, randomMessageID(), rcpt, int64(token.MaxSupply)-500)
	env.token.Invoke(t, int64(token.MaxSupply), "totalSupply")

	env.gateway.InvokeFail(t, token.ErrOverflow, "relayInbound",
		env.bridgeHash, randomMessageID(), parentSubnetArg(), ownSubnetArg(), rcpt, int64(1))
}

func TestBridge_Conservation(t *testing.T) {
	env := newBridgeEnv(t)

	accA := env.e.NewAccount(t)
	accB := env.e.NewAccount(t)

	minted := int64(0)
	burned := int64(0)

	checkConserved := func() {
		supply := env.totalSupply(t)
		require.Equal(t, minted-burned, supply)
		require.Equal(t, supply, env.balance(t, accA.ScriptHash())+env.balance(t, accB.ScriptHash()))
	}

	env.relayInbound(t, randomMessageID(), accA.ScriptHash(), 700)
	minted += 700
	checkConserved()

	env.relayInbound(t, randomMessageID(), accB.ScriptHash(), 300)
	minted += 300
	checkConserved()

	cA := env.bridge.WithSigners(accA)
	cA.Invoke(t, stackitem.Null{}, "deposit", accA.ScriptHash(), randomUint160(), int64(200))
	burned += 200
	checkConserved()

	cB := env.bridge.WithSigners(accB)
	cB.Invoke(t, stackitem.Null{}, "deposit", accB.ScriptHash(), randomUint160(), int64(300))
	burned += 300
	checkConserved()

	env.relayInbound(t, randomMessageID(), accA.ScriptHash(), 42)
	minted += 42
	checkConserved()

	require.EqualValues(t, 542, env.totalSupply(t))
}
