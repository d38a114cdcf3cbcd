// Package cache holds blocks of column files read from remote blob stores.
//
// LRUBlockCache is bounded in bytes and can account its memory against a
// resource.Controller, so cached blocks and decoded columns share one budget.
package cache
