// Package extract pulls structured event fields out of rendered page
// snapshots. It never talks to a browser: the crawler captures HTML through
// the browser session and the heuristics here run host-side over goquery
// documents, so every strategy can be exercised against fixture HTML.
//
// Each field has its own ordered chain of strategies (selectors or regex
// patterns) evaluated first-match-wins. The chains are independent; a
// field that cannot be recovered is left null rather than failing the
// page. The single hard rejection is a missing title.
package extract
