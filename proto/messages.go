package proto

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInResponse struct {
	SessionId    string `json:"session_id"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	Role         string `json:"role"`
}

type SignOutRequest struct{}

type SignOutResponse struct{}

type RefreshTokenRequest struct {
	Token string `json:"token"`
}

type RefreshTokenResponse struct {
	Token string `json:"token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ForgotPasswordResponse struct{}

type ResetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type ResetPasswordResponse struct{}

type SessionState struct {
	Uid     string `json:"uid,omitempty"`
	Email   string `json:"email,omitempty"`
	Role    string `json:"role,omitempty"`
	Loading bool   `json:"loading"`
	Error   string `json:"error,omitempty"`
}

type WatchRequest struct{}

type GetStateRequest struct{}

type NavigateRequest struct {
	Destination string `json:"destination"`
}

type NavigateResponse struct {
	Action string `json:"action"`
	Target string `json:"target,omitempty"`
	Reason string `json:"reason,omitempty"`
}

type RetryRequest struct{}

type RetryResponse struct {
	Started bool `json:"started"`
}

type Student struct {
	Uid     string `json:"uid"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Plan    string `json:"plan,omitempty"`
	DueDate string `json:"due_date,omitempty"`
}

type RegisterStudentRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Plan     string `json:"plan,omitempty"`
	DueDate  string `json:"due_date,omitempty"`
}

type RegisterStudentResponse struct {
	Student *Student `json:"student"`
}

type ListStudentsRequest struct{}

type ListOverdueRequest struct {
	At string `json:"at,omitempty"`
}

type ListStudentsResponse struct {
	Students []*Student `json:"students"`
}

type GetProfileRequest struct{}
