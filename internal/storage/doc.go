// Package storage provides append-only persistence for notified event identifiers.
//
// Two backends are available. The file backend keeps one absolute URL per line in a
// plain text file, compatible with a hand-edited sent_urls.txt. The sqlite backend keeps
// the same set in a table of an embedded SQLite database. Both are loaded once per run
// and only ever appended to; no entry is rewritten or removed.
package storage
