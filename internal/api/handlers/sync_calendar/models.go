package sync_calendar

import "github.com/m04kA/SMC-SpaBooking/internal/service/lifecycle"

// SyncResponse итог синхронизации календаря напоминаний
type SyncResponse struct {
	Mirrored int      `json:"mirrored"`
	Removed  int      `json:"removed"`
	Failed   []string `json:"failed"`
}

func FromSyncResult(result *lifecycle.SyncResult) *SyncResponse {
	failed := result.Failed
	if failed == nil {
		failed = []string{}
	}
	return &SyncResponse{
		Mirrored: result.Mirrored,
		Removed:  result.Removed,
		Failed:   failed,
	}
}
