// Package controlstore persists the daily control record: which slot keys
// were already claimed today and today's randomized delivery times. It is
// the sole source of truth for send deduplication across restarts.
package controlstore
