// Package core has the derived-metric engines and the orchestration that
// loads history, runs them and writes their results.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/hormetric/core/algo"
	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/internal/outwriter"
	"github.com/huangsam/hormetric/schema"
)

// ErrProfileRequired is returned when an engine needs an age and none is known.
var ErrProfileRequired = errors.New("chronological age unknown: run 'hormetric profile set --age N' or pass --age")

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

var writer = outwriter.NewOutWriter()

// userData is everything the engines read for one user.
type userData struct {
	profile    schema.Profile
	hasProfile bool
	tests      []schema.HormoneTest // in time order, none after cfg.AsOf
}

// loadUserData reads the profile and history of cfg.UserID as of cfg.AsOf.
func loadUserData(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (userData, error) {
	if err := ctx.Err(); err != nil {
		return userData{}, err
	}
	history := mgr.GetHistoryStore()
	if history == nil {
		return userData{}, errors.New("history store is not initialized")
	}

	stored, found, err := history.GetProfile(cfg.UserID)
	if err != nil {
		return userData{}, fmt.Errorf("failed to load profile: %w", err)
	}
	all, err := history.ListTests(cfg.UserID)
	if err != nil {
		return userData{}, fmt.Errorf("failed to load history: %w", err)
	}

	tests := make([]schema.HormoneTest, 0, len(all))
	for _, t := range all {
		if !t.EffectiveTime().After(cfg.AsOf) {
			tests = append(tests, t)
		}
	}
	return userData{profile: cfg.ResolveProfile(stored), hasProfile: found, tests: tests}, nil
}

// GetReadyScoreResults gates and computes the ReadyScore. The result is nil when the gate is closed.
func GetReadyScoreResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (*schema.ReadyScoreResult, schema.ReadyScoreGate, error) {
	data, err := loadUserData(ctx, cfg, mgr)
	if err != nil {
		return nil, schema.ReadyScoreGate{}, err
	}
	result, gate, err := readyScoreFor(data, cfg)
	if err != nil || result == nil {
		return nil, gate, err
	}
	recordSnapshot(ctx, cfg, mgr, schema.ScoreSnapshot{
		Kind:       schema.ReadySnapshot,
		Score:      float64(result.Score),
		Confidence: result.Confidence,
		TestCount:  len(data.tests),
	}, result)
	return result, gate, nil
}

func readyScoreFor(data userData, cfg *contract.Config) (*schema.ReadyScoreResult, schema.ReadyScoreGate, error) {
	gate := CanCalculateReadyScore(len(data.tests), TestsThisWeek(data.tests, cfg.AsOf))
	if !gate.CanShow {
		return nil, gate, nil
	}
	recent := RecentTests(data.tests, cfg.AsOf, cfg.Window)
	result, err := ComputeReadyScore(recent, data.tests, data.profile.BiologicalSex, cfg.AsOf)
	if err != nil {
		return nil, gate, err
	}
	return &result, gate, nil
}

// GetBioAgeResults computes the BioAge estimate. It needs a chronological age.
func GetBioAgeResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.BioAgeResult, error) {
	data, err := loadUserData(ctx, cfg, mgr)
	if err != nil {
		return schema.BioAgeResult{}, err
	}
	if data.profile.ChronologicalAge == 0 {
		return schema.BioAgeResult{}, ErrProfileRequired
	}
	result, err := ComputeBioAge(data.tests, data.profile, cfg.AsOf)
	if err != nil {
		return schema.BioAgeResult{}, err
	}
	if result.CanCalculate {
		delta := result.Delta
		recordSnapshot(ctx, cfg, mgr, schema.ScoreSnapshot{
			Kind:       schema.BioAgeSnapshot,
			Score:      result.BiologicalAge,
			Delta:      &delta,
			Confidence: result.Confidence,
			TestCount:  len(data.tests),
		}, result)
	}
	return result, nil
}

// GetImpactResults computes the longitudinal Impact analysis.
func GetImpactResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.ImpactResult, error) {
	data, err := loadUserData(ctx, cfg, mgr)
	if err != nil {
		return schema.ImpactResult{}, err
	}
	result, err := AnalyzeImpact(data.tests)
	if err != nil {
		return schema.ImpactResult{}, err
	}
	if result.CanCalculate {
		recordSnapshot(ctx, cfg, mgr, schema.ScoreSnapshot{
			Kind:       schema.ImpactSnapshot,
			Score:      result.TrendScore,
			Confidence: result.Confidence,
			TestCount:  len(data.tests),
		}, result)
	}
	return result, nil
}

// GetStreakResults computes the consecutive testing days.
func GetStreakResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.StreakResult, error) {
	data, err := loadUserData(ctx, cfg, mgr)
	if err != nil {
		return schema.StreakResult{}, err
	}
	return streakFor(data.tests), nil
}

func streakFor(tests []schema.HormoneTest) schema.StreakResult {
	days := CalculateStreak(tests)
	result := schema.StreakResult{
		Days:     days,
		Message:  FormatStreak(days),
		TestDays: len(UniqueTestDays(tests)),
	}
	if _, last, ok := algo.Bounds(tests); ok {
		result.LastTest = &last
	}
	return result
}

// GetHeroInsightResults builds the hero card from history and the current ReadyScore.
func GetHeroInsightResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.HeroInsight, error) {
	data, err := loadUserData(ctx, cfg, mgr)
	if err != nil {
		return schema.HeroInsight{}, err
	}
	ready, _, err := readyScoreFor(data, cfg)
	if err != nil {
		return schema.HeroInsight{}, err
	}
	return GenerateHeroInsight(HeroInput{Tests: data.tests, ReadyScore: ready, Now: cfg.AsOf})
}

// GetFeatureProgressResults returns the unlock state of every feature.
func GetFeatureProgressResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.FeatureProgress, error) {
	data, err := loadUserData(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	var earliest, latest *time.Time
	if first, last, ok := algo.Bounds(data.tests); ok {
		earliest, latest = &first, &last
	}
	return AllFeatureProgress(len(data.tests), TestsThisWeek(data.tests, cfg.AsOf), earliest, latest), nil
}

// GetCoachContextResults assembles the chat coach context from every engine.
// Locked engines and a missing age are left out rather than reported as errors.
func GetCoachContextResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.CoachContext, error) {
	data, err := loadUserData(ctx, cfg, mgr)
	if err != nil {
		return schema.CoachContext{}, err
	}
	in := CoachInput{Profile: data.profile, Tests: data.tests, Streak: CalculateStreak(data.tests)}
	if in.ReadyScore, _, err = readyScoreFor(data, cfg); err != nil {
		return schema.CoachContext{}, err
	}
	if data.profile.ChronologicalAge > 0 {
		bio, err := ComputeBioAge(data.tests, data.profile, cfg.AsOf)
		if err != nil {
			return schema.CoachContext{}, err
		}
		if bio.CanCalculate {
			in.BioAge = &bio
		}
	}
	impact, err := AnalyzeImpact(data.tests)
	if err != nil {
		return schema.CoachContext{}, err
	}
	if impact.CanCalculate {
		in.Impact = &impact
	}
	return schema.CoachContext{UserID: cfg.UserID, Context: BuildCoachContext(in)}, nil
}

// LogTest stores cfg.PendingTest and returns the feedback computed against the prior history.
func LogTest(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.LogResult, error) {
	if cfg.PendingTest == nil {
		return schema.LogResult{}, errors.New("--value is required when logging a test")
	}
	data, err := loadUserData(ctx, cfg, mgr)
	if err != nil {
		return schema.LogResult{}, err
	}

	test := *cfg.PendingTest
	test.UserID = cfg.UserID
	if test.ID == "" {
		test.ID = uuid.NewString()
	}

	insight, err := CalculateTestInsight(test, data.tests, data.profile.BiologicalSex)
	if err != nil {
		return schema.LogResult{}, err
	}
	proactive, err := GenerateProactiveMessage(test, data.tests)
	if err != nil {
		return schema.LogResult{}, err
	}
	result := schema.LogResult{
		Test:      test,
		Insight:   insight,
		Record:    DetectPersonalRecord(test.Value, algo.Values(algo.FilterByHormone(data.tests, test.HormoneType))),
		Proactive: proactive,
	}
	if err := mgr.GetHistoryStore().AddTest(test); err != nil {
		return schema.LogResult{}, fmt.Errorf("failed to store test: %w", err)
	}
	return result, nil
}

// GetHistoryResults returns the most recent tests, optionally for one hormone,
// with their range status. Index is the position in the full history.
func GetHistoryResults(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) ([]schema.EnrichedTest, error) {
	data, err := loadUserData(ctx, cfg, mgr)
	if err != nil {
		return nil, err
	}
	tests := data.tests
	if cfg.Hormone != "" {
		tests = algo.FilterByHormone(tests, cfg.Hormone)
	}
	start := 0
	if cfg.ResultLimit > 0 && len(tests) > cfg.ResultLimit {
		start = len(tests) - cfg.ResultLimit
	}

	enriched := make([]schema.EnrichedTest, 0, len(tests)-start)
	for i, t := range tests[start:] {
		rng, err := RangeFor(t.HormoneType, data.profile.BiologicalSex)
		if err != nil {
			return nil, err
		}
		enriched = append(enriched, schema.EnrichedTest{
			Index:       start + i + 1,
			Status:      ClassifyStatus(t.Value, rng),
			Unit:        rng.Unit,
			HormoneTest: t,
		})
	}
	return enriched, nil
}

// SetProfile merges the age and sex overrides into the stored profile and saves it.
func SetProfile(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (schema.Profile, error) {
	if err := ctx.Err(); err != nil {
		return schema.Profile{}, err
	}
	history := mgr.GetHistoryStore()
	stored, _, err := history.GetProfile(cfg.UserID)
	if err != nil {
		return schema.Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}
	profile := cfg.ResolveProfile(stored)
	profile.Onboarded = true
	if err := history.UpsertProfile(profile); err != nil {
		return schema.Profile{}, err
	}
	return profile, nil
}

// ExecuteReady runs the ready command.
func ExecuteReady(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	result, gate, err := GetReadyScoreResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteReadyScore(result, gate, cfg)
}

// ExecuteBioAge runs the bioage command.
func ExecuteBioAge(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	result, err := GetBioAgeResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteBioAge(result, cfg)
}

// ExecuteImpact runs the impact command.
func ExecuteImpact(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	result, err := GetImpactResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteImpact(result, cfg)
}

// ExecuteStreak runs the streak command.
func ExecuteStreak(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	result, err := GetStreakResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteStreak(result, cfg)
}

// ExecuteHero runs the hero command.
func ExecuteHero(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	result, err := GetHeroInsightResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteHeroInsight(result, cfg)
}

// ExecuteGate runs the gate command.
func ExecuteGate(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	rows, err := GetFeatureProgressResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteFeatureProgress(rows, cfg)
}

// ExecuteCoachContext runs the coach-context command.
func ExecuteCoachContext(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	result, err := GetCoachContextResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteCoachContext(result, cfg)
}

// ExecuteLog runs the log command.
func ExecuteLog(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	result, err := LogTest(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteLogResult(result, cfg)
}

// ExecuteHistoryList runs the history list command.
func ExecuteHistoryList(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	tests, err := GetHistoryResults(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteHistory(tests, cfg)
}

// ExecuteProfileSet runs the profile set command.
func ExecuteProfileSet(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	profile, err := SetProfile(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	return writer.WriteProfile(profile, cfg)
}

// ExecuteProfileShow runs the profile show command.
func ExecuteProfileShow(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	data, err := loadUserData(ctx, cfg, mgr)
	if err != nil {
		return err
	}
	if !data.hasProfile {
		return fmt.Errorf("no profile stored for user %q", cfg.UserID)
	}
	return writer.WriteProfile(data.profile, cfg)
}
