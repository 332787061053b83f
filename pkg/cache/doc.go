// Package cache provides a generic, thread-safe LRU cache with an optional
// eviction callback for releasing resources held by evicted values.
//
//	c := cache.NewLRU[string, *Session](1000,
//		cache.WithEvictCallback(func(_ string, s *Session) { s.Close() }),
//	)
//	s, _ := c.GetOrAdd(id, func() *Session { return NewSession(id) })
package cache
