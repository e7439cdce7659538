package model

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures for the HTTP layer. None of them are retried;
// all carry a human-readable message back to the caller.
var (
	TagInvalidRequest = goerr.NewTag("invalid_request")
	TagNotFound       = goerr.NewTag("not_found")
	TagUpstream       = goerr.NewTag("upstream")
	TagContentBlocked = goerr.NewTag("content_blocked")
	TagStore          = goerr.NewTag("store")
)

var ErrProductNotFound = goerr.New("product not found", goerr.T(TagNotFound))
