package domain

// FileStatus tracks a file's outcome within a batch.
type FileStatus string

const (
	FileStatusProcessed FileStatus = "processed"
	FileStatusFailed    FileStatus = "failed"
)

// RawTextKey is the fallback key used when the model response is not
// valid JSON; the verbatim response text is stored under it.
const RawTextKey = "raw_text"
