package types

// ContextUserKey is the gin context key the auth middleware stores the
// request principal under.
const ContextUserKey = "user"
