// Package cli provides the interactive userdesk command-line client.
//
// The REPL lists the remote user directory page by page, searches the whole
// collection, and edits or deletes users. Edits and deletions are kept
// locally and laid over every later fetch, since the remote directory
// forgets them.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
