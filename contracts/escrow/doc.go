/*
Package escrow implements Escrow contract which is deployed to the parent
subnet.

Escrow contract locks canonical GAS backing the proxy token circulating on a
child subnet. A GAS transfer to the contract account produces a Deposit
notification; the gateway relays it down as an inbound cross-subnet message
and the child-side bridge mints the same amount of proxy assets. Release is
the reverse leg: after proxy assets have been burned on the child subnet, the
gateway invokes Release and the escrowed GAS is paid back to the user.
Release identifiers are processed at most once.

The contract does not talk to the child subnet directly; holding enough GAS
to cover every relayed mint is what keeps the escrowed amount no less than
the circulating proxy supply.

# Contract notifications

Deposit notification. Produced when GAS has been locked on the contract
account.

	Deposit:
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: receiver
	    type: Hash160
	  - name: txHash
	    type: Hash256

Release notification. Produced when escrowed GAS has been paid back.

	Release:
	  - name: id
	    type: ByteArray
	  - name: user
	    type: Hash160
	  - name: amount
	    type: Integer
*/
package escrow

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'gatewayScriptHash' -> interop.Hash160
   script hash of the gateway authority account
 - 'childSubnet' -> std.Serialize(common.SubnetID)
   identifier of the child subnet this escrow backs
 - r<id> -> 1
   set of processed release identifiers, grows monotonically
*/
