// Package service provides the business logic layer for Tile Treasure.
//
// The service package implements:
//   - Multi-session game management
//   - Rule-set listing and loading
//   - Human move validation with player-facing rejection messages
//   - Computer turns with a cancellable think delay
//   - Paginated move history
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages rule-set loading and validation.
//
// Architecture:
//
// The service layer sits between the MCP transport and the game engine. Each
// session owns its own engine, and a per-session lock serialises every read
// and write of that engine, so independent sessions never contend.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, service.CreateOptions{ConfigName: "classic"})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, 1, 0, 0)
//	if err == nil && !result.Success {
//		fmt.Println(result.Message) // e.g. "Can't move there: that tile is too heavy"
//	}
//	cpu, err := gameService.PlayCPU(ctx, info.ID, 0)
package service
