package intake

import (
	"context"
	"encoding/json"

	"github.com/lucentlab/lucent/pkg/model"
	"github.com/lucentlab/lucent/pkg/utils/logging"
)

// archiveTranscript writes the current session transcript to the archive
// bucket. Failures are logged and swallowed: the product ledger is the source
// of truth and the archive is a diagnostic copy.
func (u *UseCase) archiveTranscript(ctx context.Context, sess *model.Session) {
	if u.archive == nil || sess.ProductID == "" {
		return
	}

	key := "transcripts/" + string(sess.ProductID) + ".json"
	writer, err := u.archive.Put(ctx, key)
	if err != nil {
		logging.From(ctx).Warn("failed to open transcript archive", "key", key, "error", err)
		return
	}

	if err := json.NewEncoder(writer).Encode(sess.Turns); err != nil {
		logging.From(ctx).Warn("failed to write transcript archive", "key", key, "error", err)
		_ = writer.Close()
		return
	}

	if err := writer.Close(); err != nil {
		logging.From(ctx).Warn("failed to close transcript archive", "key", key, "error", err)
	}
}
