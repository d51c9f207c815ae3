// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/hormetric/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Shared arguments of every read tool.
var (
	userIDArg = mcp.WithString("user_id", mcp.Description("User whose history is read (defaults to the configured user)."))
	asOfArg   = mcp.WithString("as_of", mcp.Description("Evaluation time as ISO8601 or 'N units ago' (defaults to now)."))
)

// NewMCPServer initializes and configures the hormetric MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Hormetric Wellness Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_ready_score ---
	s.AddTool(mcp.NewTool("get_ready_score",
		mcp.WithDescription("Compute today's ReadyScore (0-100) from recent hormone tests, or the unlock message when no tests exist."),
		userIDArg, asOfArg,
	), h.handleGetReadyScore)

	// --- 2. Tool: get_bio_age ---
	s.AddTool(mcp.NewTool("get_bio_age",
		mcp.WithDescription("Estimate biological age from hormone balance. Requires 10 tests over 14 days and a known age."),
		userIDArg, asOfArg,
		mcp.WithNumber("age", mcp.Description("Chronological age override (1-120).")),
	), h.handleGetBioAge)

	// --- 3. Tool: get_impact ---
	s.AddTool(mcp.NewTool("get_impact",
		mcp.WithDescription("Analyze how hormone levels trend over time and which habits were logged."),
		userIDArg, asOfArg,
	), h.handleGetImpact)

	// --- 4. Tool: get_streak ---
	s.AddTool(mcp.NewTool("get_streak",
		mcp.WithDescription("Count consecutive calendar days with at least one test."),
		userIDArg, asOfArg,
	), h.handleGetStreak)

	// --- 5. Tool: get_hero_insight ---
	s.AddTool(mcp.NewTool("get_hero_insight",
		mcp.WithDescription("Build the headline card with suggested actions for the home screen."),
		userIDArg, asOfArg,
	), h.handleGetHeroInsight)

	// --- 6. Tool: get_feature_progress ---
	s.AddTool(mcp.NewTool("get_feature_progress",
		mcp.WithDescription("Report how close every feature is to being unlocked."),
		userIDArg, asOfArg,
	), h.handleGetFeatureProgress)

	// --- 7. Tool: get_coach_context ---
	s.AddTool(mcp.NewTool("get_coach_context",
		mcp.WithDescription("Assemble the plain-text context handed to the hormone coach chat."),
		userIDArg, asOfArg,
	), h.handleGetCoachContext)

	// --- 8. Tool: log_test ---
	s.AddTool(mcp.NewTool("log_test",
		mcp.WithDescription("Store a new hormone test and return its insight, personal record and nudge."),
		mcp.WithString("hormone_type", mcp.Description("Hormone measured."), mcp.Required(), mcp.Enum("cortisol", "testosterone", "dhea")),
		mcp.WithNumber("value", mcp.Description("Measured value in the hormone's unit."), mcp.Required()),
		mcp.WithString("taken_at", mcp.Description("Sample time as ISO8601 or 'N units ago' (defaults to as_of).")),
		mcp.WithNumber("sleep_quality", mcp.Description("Sleep quality from 1 to 5.")),
		mcp.WithNumber("stress_level", mcp.Description("Stress level from 1 to 5.")),
		mcp.WithBoolean("exercised", mcp.Description("Whether the user exercised.")),
		mcp.WithString("supplements", mcp.Description("Free text list of supplements.")),
		userIDArg, asOfArg,
	), h.handleLogTest)

	return s
}

// StartMCPServer starts the hormetric MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
