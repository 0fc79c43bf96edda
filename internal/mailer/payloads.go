package mailer

// PasswordResetPayload is the sendPasswordResetLink job body.
type PasswordResetPayload struct {
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	ResetLink string `json:"reset_link"`
}

// TempCredentialsPayload is the sendTemporalCredentials job body. The
// temporary password exists only here and in the provider; it is never
// stored locally.
type TempCredentialsPayload struct {
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	TempPassword string `json:"temp_password"`
}
