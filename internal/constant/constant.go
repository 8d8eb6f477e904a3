package constant

const (
	ChatMessageRoleUser  = "user"
	ChatMessageRoleModel = "model"

	ChatSessionGreeting = "Hi, how can I help you?"
)

// Document ingestion lifecycle. A document is created as uploaded, moves to
// indexing when a worker picks it up, and lands on indexed or failed. Failed
// documents keep their file and record so re-ingestion can be retried.
const (
	DocumentStatusUploaded = "uploaded"
	DocumentStatusIndexing = "indexing"
	DocumentStatusIndexed  = "indexed"
	DocumentStatusFailed   = "failed"
)
