package model

// Identity is an account record owned by the external identity provider.
// UID is the provider-assigned identifier; Email is the authorship and login key.
type Identity struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
}
