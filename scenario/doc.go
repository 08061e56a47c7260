// Package scenario runs scripted ownership scenarios over owned.Ptr.
//
// A script is a list of commands operating on named handles (slots), raw
// identities released from them (written @name) and a resource table vault:
//
//	new s            declare an empty handle
//	make s X         allocate a Tracked value and own it in s
//	move src dst     move-construct dst from src
//	assign dst src   move-assign src into dst
//	reset s [X|@raw|same]
//	release s @raw   give up ownership, keep the identity as @raw
//	delete @raw      destroy a released identity
//	swap a b         exchange two handles
//	drop s           end the lifetime of s
//	hello s|@raw     print the value
//	check s          report whether s holds a value
//	stash s          move s into the vault
//	claim N s        move vault handle N back into s
//	discard N        drop vault handle N in place
//
// Every Tracked value records its construction and destruction in a Ledger,
// so a run can be checked for values destroyed more than once or never.
//
// Scripts are plain text (one command per line, # comments), YAML or TOML:
//
//	name: transfer
//	steps:
//	  - make p 10
//	  - move p q
package scenario
