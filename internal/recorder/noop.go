package recorder

import "github.com/google/uuid"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(snap *RunSnapshot) error {
	if snap.RunID == "" {
		snap.RunID = uuid.NewString()
	}
	return nil
}

func (n *NoopRecorder) Recent(_ int) ([]RunSummary, error) { return nil, nil }
func (n *NoopRecorder) Close() error                        { return nil }
