// Package event provides the scraped event model and the pure field
// normalizers applied to raw extracted strings.
//
// Normalization covers date strings (to ISO 8601 dates), category
// resolution (URL hint first, then keyword matching, then a default
// bucket), slug generation, currency conversion, and the deterministic
// affiliate URL derivation. Everything here is side-effect free so the
// heuristics can be tested without a browser or a database.
package event
