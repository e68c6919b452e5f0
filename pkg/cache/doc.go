// Package cache stores derived calgrid data: downloaded calendar feeds,
// computed grids and rendered artifacts.
//
// All backends implement [Cache]. The CLI uses [FileCache] under the user
// cache directory; the HTTP server can share results between instances
// through [RedisCache] or [MongoCache]. [NullCache] disables caching.
//
// Keys are produced by a [Keyer] from content hashes, so a changed feed or
// option always maps to a new key and entries never need invalidation
// beyond their TTL.
package cache
