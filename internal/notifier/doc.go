// Package notifier delivers new futsal events and records them in the ledger.
//
// A Notifier sends one event. The Dispatcher drives a run: it drops events the
// ledger already knows, delivers the rest one at a time and commits each URL only
// after its delivery succeeded. A failed delivery is left uncommitted so the next
// run tries again.
package notifier
