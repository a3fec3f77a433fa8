// Package limits governs the resources spent on stored tables.
//
// A Controller bounds three things:
//
//   - Mapped bytes: the total size of live memory mappings (fail-fast)
//   - Fetch slots: concurrent transfers of remote catalog entries (blocking)
//   - Fetch IO: bytes per second copied from remote catalogs (token bucket)
//
// A nil *Controller imposes no limits, so callers never need to check.
//
//	lc := limits.NewController(limits.Config{
//	    MappedBytesLimit:     8 << 30,
//	    MaxConcurrentFetches: 4,
//	    FetchBytesPerSec:     64 << 20,
//	})
package limits
