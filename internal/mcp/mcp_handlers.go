package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/hormetric/core"
	"github.com/huangsam/hormetric/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// requestConfig clones the base config with the user_id and as_of arguments applied.
func (h *toolHandler) requestConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	cfg.PendingTest = nil
	err := contract.RevalidateRequest(cfg, request.GetString("user_id", ""), request.GetString("as_of", ""))
	return cfg, err
}

// jsonResult marshals v as the text content of a tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetReadyScore(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	result, gate, err := core.GetReadyScoreResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ReadyScore failed: %v", err)), nil
	}
	return jsonResult(map[string]any{"gate": gate, "result": result})
}

func (h *toolHandler) handleGetBioAge(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if age := request.GetInt("age", 0); age != 0 {
		if age < 1 || age > 120 {
			return mcp.NewToolResultError(fmt.Sprintf("age must be between 1 and 120 (received %d)", age)), nil
		}
		cfg.Age = age
	}
	result, err := core.GetBioAgeResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("BioAge failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetImpact(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	result, err := core.GetImpactResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Impact failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetStreak(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	result, err := core.GetStreakResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("streak failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetHeroInsight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	result, err := core.GetHeroInsightResults(core.WithoutSnapshots(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("hero insight failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetFeatureProgress(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	result, err := core.GetFeatureProgressResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("feature progress failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleGetCoachContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	result, err := core.GetCoachContextResults(core.WithoutSnapshots(ctx), cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("coach context failed: %v", err)), nil
	}
	return jsonResult(result)
}

func (h *toolHandler) handleLogTest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.requestConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	input := &contract.ConfigRawInput{
		Hormone:     request.GetString("hormone_type", ""),
		Value:       request.GetFloat("value", 0),
		TakenAt:     request.GetString("taken_at", ""),
		Sleep:       request.GetInt("sleep_quality", 0),
		Stress:      request.GetInt("stress_level", 0),
		Supplements: request.GetString("supplements", ""),
	}
	if args := request.GetArguments(); args["exercised"] != nil {
		input.Exercised = fmt.Sprint(request.GetBool("exercised", false))
	}
	if err := contract.RevalidateLog(cfg, input); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid test: %v", err)), nil
	}

	result, err := core.LogTest(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("logging failed: %v", err)), nil
	}
	return jsonResult(result)
}
