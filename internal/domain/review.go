package domain

// ReviewRequest is the payload for a code review. It exists only for
// the duration of one pipeline invocation and is never persisted.
type ReviewRequest struct {
	Code     string `json:"code" validate:"required"`
	Language string `json:"language" validate:"required"`
	Context  string `json:"context,omitempty"`
}

// ReviewResult carries the model's response text, returned to the
// caller verbatim.
type ReviewResult struct {
	Text string `json:"text"`
}

// ReviewCommentRequest is the payload for creating a single-line
// pull-request review comment. Line is the diff position the provider
// API expects, not the absolute file line; no translation is applied.
type ReviewCommentRequest struct {
	CommitID string `json:"commit_id" validate:"required"`
	Path     string `json:"path" validate:"required"`
	Body     string `json:"body" validate:"required"`
	Line     int    `json:"line" validate:"required,positive"`
}
