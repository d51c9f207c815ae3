package core

import (
	"context"
	"encoding/json"

	"github.com/huangsam/hormetric/internal/contract"
	"github.com/huangsam/hormetric/schema"
)

// recordSnapshot stores a computed result. Failures are logged and never
// fail the command. A ReadyScore without an explicit delta gets one against
// the previous ReadyScore snapshot.
func recordSnapshot(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager, snapshot schema.ScoreSnapshot, payload any) {
	if shouldSkipSnapshot(ctx) {
		return
	}
	store := mgr.GetSnapshotStore()
	if store == nil {
		return
	}

	snapshot.UserID = cfg.UserID
	snapshot.ComputedAt = cfg.AsOf
	if data, err := json.Marshal(payload); err == nil {
		snapshot.Payload = string(data)
	}
	if snapshot.Kind == schema.ReadySnapshot && snapshot.Delta == nil {
		previous, err := store.ListSnapshots(cfg.UserID, schema.ReadySnapshot, 1)
		if err != nil {
			contract.LogWarn("failed to read previous snapshot", err)
		} else if len(previous) > 0 {
			delta := snapshot.Score - previous[0].Score
			snapshot.Delta = &delta
		}
	}

	if _, err := store.RecordSnapshot(snapshot); err != nil {
		contract.LogWarn("failed to record snapshot", err)
	}
}
