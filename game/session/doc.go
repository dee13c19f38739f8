// Package session provides in-memory session management for Tile Treasure.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Short unique session IDs
//   - Seeded board generation per session
//   - Expiry of idle sessions
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns its own engine, seeded so a board can be
// reproduced from the session's seed.
//
// Session Identifiers:
//
// Generated IDs are the first 8 characters of a random UUID. Lookups are
// case-insensitive.
//
// Concurrency:
//
// The manager guards its map with a read-write lock. Game state is guarded by
// each session's own lock, which the manager also takes when it touches
// LastAccessedAt.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config, 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	go manager.RunJanitor(ctx, time.Minute, 30*time.Minute)
package session
