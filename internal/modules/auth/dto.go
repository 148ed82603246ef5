package auth

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Company  string `json:"company"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,len=6"`
}

type ResendCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type MagicLinkRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetRequestRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type UpdateProfileRequest struct {
	Name      string  `json:"name"`
	Company   string  `json:"company"`
	Phone     string  `json:"phone"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
}

type UpdatePreferencesRequest struct {
	EmailNotifications *bool `json:"email_notifications"`
	ProjectUpdates     *bool `json:"project_updates"`
	InvoiceReminders   *bool `json:"invoice_reminders"`
	ChatNotifications  *bool `json:"chat_notifications"`
}
