package intake

import (
	_ "embed"

	"github.com/lucentlab/lucent/pkg/adapter"
	"github.com/lucentlab/lucent/pkg/repository"
	"github.com/lucentlab/lucent/pkg/session"
)

// The system instruction mandates the "Question: ...? Feedback: ..." reply
// shape that model.ParseReply expects.
//
//go:embed prompt/intake.md
var systemPromptRaw string

// UseCase drives the product intake conversation: it relays the running
// transcript to the model, parses the reply, and commits the resulting detail
// to the product ledger.
type UseCase struct {
	repo     repository.Repository
	gemini   adapter.Gemini
	sessions *session.Store
	archive  adapter.Storage
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithArchive enables transcript archiving to the given storage. Archive
// failures never fail a request.
func WithArchive(storage adapter.Storage) Option {
	return func(uc *UseCase) {
		uc.archive = storage
	}
}

// New creates an intake UseCase instance
func New(repo repository.Repository, gemini adapter.Gemini, sessions *session.Store, opts ...Option) *UseCase {
	uc := &UseCase{
		repo:     repo,
		gemini:   gemini,
		sessions: sessions,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
