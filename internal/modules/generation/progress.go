package generation

import (
	"context"
	"encoding/json"

	redisc "github.com/inkwell-app/core/internal/pkg/redis"
)

const progressChannelPrefix = "ink:generation:progress:"

func progressChannel(documentID string) string {
	return progressChannelPrefix + documentID
}

// publishProgress broadcasts a progress event for SSE subscribers.
// Publish failures are non-fatal; polling still works.
func publishProgress(ctx context.Context, rc *redisc.Client, event ProgressEvent) {
	if rc == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	_ = rc.Publish(ctx, progressChannel(event.DocumentID), data)
}
