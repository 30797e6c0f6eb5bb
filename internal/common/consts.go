package common

// UnknownStr is the fallback representation for out-of-range enum values.
const UnknownStr = "unknown"
