/*
Package errors implements the error taxonomy shared by all ValoraVault
extensions.

Every failure returned by an extension wraps one of the registered root errors.
A root error carries a unique numeric code, which lets clients (the vaultd
command line, tests, event consumers) distinguish failures without parsing
messages.

Reuse the root errors declared here whenever they fit. An extension that needs
its own failure kinds registers them once at package initialisation:

	ErrStillLocked = errors.Register(1004, "funds still locked")

and then returns ErrStillLocked, ErrStillLocked.Newf("...") or
errors.Wrap(ErrStillLocked, "...") at the point of failure. The first wrap
attaches a stack trace.

Formatting an error with
	%s prints the message chain
	%+v prints the message chain followed by the stack trace
*/
package errors
