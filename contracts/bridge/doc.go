/*
Package bridge implements Bridge contract which is deployed to a child subnet.

Bridge contract is the accounting core of the cross-subnet value bridge. Every
unit of proxy token in circulation on the child subnet corresponds to a unit
of canonical asset escrowed on the parent subnet. The contract keeps that
conservation by gating both directions of transfer: inbound cross-subnet
messages delivered by the gateway contract mint proxy assets, and deposits
initiated by users burn proxy assets before an outbound message is forwarded
to the gateway.

Inbound messages are authenticated against the configured gateway and the
configured parent/own subnet pair, and deduplicated by message identifier.
The replay record, the mint and the notification all belong to one
transaction, so a fault anywhere reverts the whole delivery and the message
can be safely redelivered. Messages may arrive in any order; only at-most-once
application is enforced.

# Contract notifications

InboundApplied notification. Produced when an inbound cross-subnet transfer
has been applied.

	InboundApplied:
	  - name: messageID
	    type: ByteArray
	  - name: recipient
	    type: Hash160
	  - name: amount
	    type: Integer

DepositRequested notification. Produced when a deposit has been burned and
the outbound message accepted by the gateway.

	DepositRequested:
	  - name: receiver
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: messageID
	    type: ByteArray
*/
package bridge

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'g' -> interop.Hash160
   gateway contract script hash
 - 't' -> interop.Hash160
   proxy token contract script hash
 - 's' -> std.Serialize(common.SubnetID)
   identifier of the subnet this bridge serves
 - 'p' -> std.Serialize(common.SubnetID)
   identifier of the parent subnet
 - 'n' -> int
   outbound message nonce
 - r<messageID> -> 1
   replay set of applied inbound message identifiers, grows monotonically

# Configuration
Gateway, token and both subnet identifiers are fixed at deploy and never
reassigned.
*/
