/*
Package token implements the proxy token contract which is deployed to a
child subnet.

The proxy token is a NEP-17 compatible representation of canonical assets
escrowed on the parent subnet. It can be tracked and controlled by N3
compatible network monitors and wallet software. Regular transfers between
child-subnet accounts work as in any NEP-17 token; supply changes are a
capability of the bridge contract alone. Mint is invoked by the bridge when
an inbound cross-subnet message is applied, burn when a user deposits value
back to the parent subnet. Total supply therefore never exceeds the amount
locked on the parent side.

# Contract notifications

Transfer notification. This is a NEP-17 standard notification.

	Transfer:
	  - name: from
	    type: Hash160
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer

Minted notification. Produced on every successful mint.

	Minted:
	  - name: to
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: details
	    type: ByteArray

Burned notification. Produced on every successful burn.

	Burned:
	  - name: from
	    type: Hash160
	  - name: amount
	    type: Integer
	  - name: details
	    type: ByteArray
*/
package token

/*
Contract storage model.

# Summary
Key-value storage format:
 - 'ParentLocked' -> int
   total amount of proxy assets in circulation
 - 'b' -> interop.Hash160
   bridge contract script hash, the only authority for mint and burn
 - a<interop.Hash160> -> int
   balance sheet of all proxy token holders

# Accounting
Contract stores balances of all proxy token holders on the child subnet.
*/
