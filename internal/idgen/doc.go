// Package idgen wraps the UUID generator used for call and message
// identifiers so that tests can pin them. Identifiers are opaque strings.
package idgen
