// Package crawler orchestrates one end-to-end scrape: category listing
// pages in declaration order, then every discovered detail page, all on a
// single browser session with a fixed delay between navigations. URL
// discovery is folded into an accumulator where the first category to
// claim a URL keeps it, and every per-page failure is logged and skipped
// rather than propagated.
package crawler
