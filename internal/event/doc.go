// Package event provides the reservation-slot type shared by the scraper, the
// ledger and the notifiers.
//
// An Event is identified by its absolute URL. The date it was found under is the
// 8-digit YYYYMMDD string taken from the date list, never a value read from the page.
package event
