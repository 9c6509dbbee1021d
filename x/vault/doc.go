/*
Package vault implements a single-asset custodial ledger with time-locked
withdrawals.

Depositors send value to the ledger address and are credited with the amount
net of a fee. The fee is a percentage of every deposit (0 to 10) routed to the
administrator. Funds can be withdrawn, fully or partially, once the lock
duration has passed since the most recent deposit of that account. The lock
is always computed with the current lock duration, so changing it applies to
deposits made before the change as well.

Every mutating operation runs on a cache wrap of the ledger store. The cache
is written only when the operation succeeds, so a failure at any point,
including a rejected outbound transfer, discards every coin movement,
account change and event of that invocation.

Outbound transfers run the recipient code synchronously and that code may call
back into the ledger. Balance changing operations hold a latch for their whole
duration and a nested call to any of them fails with ErrReentrant. Reads are
not latched and observe the in-flight state of the outer invocation.

EmergencyWithdraw moves everything the ledger address holds to the
administrator without touching account records or the aggregate total. After
it runs, account balances are no longer backed by held value and CheckInvariant
reports the ledger as insolvent. This is a known hazard of the operation and
callers must treat it as a shutdown procedure.

A Ledger is not safe for concurrent use. The execution environment must
serialize top-level invocations.
*/
package vault
