// Package cache provides a bounded LRU cache used to memoize coverings.
package cache
