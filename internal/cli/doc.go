// Package cli wires the scraper pipeline to its command-line surface:
// cobra flags over environment-backed defaults, the end-to-end run, and
// text/JSON run-summary output with a 0/1 exit code.
package cli
