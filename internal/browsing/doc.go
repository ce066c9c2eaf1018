// Package browsing implements the browsing-context abstraction: the isolated
// storage and network state behind a browsing session.
//
// A Context owns one request context per storage partition. The default
// partition lives directly under the user data directory; non-default
// partitions live under partition-specific paths derived by the browser
// client from the site URL. Creating a request context twice for the same
// partition returns the cached instance.
package browsing
