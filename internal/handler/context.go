package handler

type contextKey string

const (
	ProviderCtx contextKey = "provider"
	ClientCtx   contextKey = "client"
	ShiftCtx    contextKey = "shift"
)
