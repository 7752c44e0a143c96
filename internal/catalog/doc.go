// Package catalog lists the encodings of an item through a Provider.
// Every call is a fresh round trip; nothing is cached.
package catalog
