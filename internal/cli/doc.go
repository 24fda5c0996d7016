// Package cli implements the command-line interface for futsal-watch.
//
// The cli package provides the Cobra-based command and the run orchestration: it
// loads the configuration and date list, opens the ledger, scrapes every date,
// dispatches notifications for unseen events and reports the result as text or JSON.
// One invocation is one run; scheduling is left to cron or a CI workflow.
package cli
