/*
Package cash defines a simple single-asset implementation of wallets holding
the native value unit and moving it between addresses.

There is no logic in the coins, except that the balance of any wallet may not
go below zero. Thus, this implementation is referred to as cash. Simple and
safe.

Transfer is the value-transfer primitive other extensions build on. An address
may register a Receiver that is invoked synchronously after the coins were
moved. The receiver can reject the transfer by returning an error, in which
case the caller must discard every change made by the invocation.
*/
package cash
