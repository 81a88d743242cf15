package domain

// Credential authorizes a provider to be scheduled at a client. It carries no
// attributes of its own; the (provider, client) pair is the identity.
type Credential struct {
	ProviderID int64 `json:"providerId"`
	ClientID   int64 `json:"clientId"`
}
