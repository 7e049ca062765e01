package request

// PassphraseRequest is the request body for opening a session
type PassphraseRequest struct {
	Passphrase string `json:"passphrase"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SubmitRequest is the request body for submitting a location code
type SubmitRequest struct {
	Code string `json:"code"`
}
