package mail

import "fmt"

// Template names double as queue item types and email-log entries.
const (
	TemplateWelcome         = "welcome"
	TemplateVerifyCode      = "verify_code"
	TemplateMagicLink       = "magic_link"
	TemplatePasswordReset   = "password_reset"
	TemplateInvoiceReminder = "invoice_reminder"
	TemplatePaymentReceipt  = "payment_receipt"
	TemplateChatMessage     = "chat_message"
	TemplateProjectStatus   = "project_status"
)

func renderWelcome(name, baseURL, unsubscribe string) (string, string) {
	subject := "Welcome to WMX Services"
	html := fmt.Sprintf(
		`<p>Hi %s,</p>`+
			`<p>Your WMX Services account is ready. Track your projects, invoices and chat with the team from your <a href="%s/dashboard">dashboard</a>.</p>`+
			footer(baseURL, unsubscribe),
		name, baseURL,
	)
	return subject, html
}

func renderVerifyCode(name, code string) (string, string) {
	subject := "Your WMX verification code"
	html := fmt.Sprintf(
		`<p>Hi %s,</p>`+
			`<p>Your verification code is:</p>`+
			`<p style="font-size:24px;letter-spacing:4px"><strong>%s</strong></p>`+
			`<p>The code expires in 10 minutes.</p>`,
		name, code,
	)
	return subject, html
}

func renderMagicLink(name, link string) (string, string) {
	subject := "Your WMX sign-in link"
	html := fmt.Sprintf(
		`<p>Hi %s,</p>`+
			`<p>Click the link below to sign in:</p>`+
			`<p><a href="%s">Sign in to WMX Services</a></p>`+
			`<p>This link expires in 15 minutes and can be used once.</p>`,
		name, link,
	)
	return subject, html
}

func renderPasswordReset(name, link string) (string, string) {
	subject := "Reset your WMX password"
	html := fmt.Sprintf(
		`<p>Hi %s,</p>`+
			`<p>We received a request to reset your password. Use the link below within 30 minutes:</p>`+
			`<p><a href="%s">Reset password</a></p>`+
			`<p>If you did not request this, ignore this email.</p>`,
		name, link,
	)
	return subject, html
}

func renderInvoiceReminder(name, number, amount, dueDate, baseURL, unsubscribe string) (string, string) {
	subject := fmt.Sprintf("Invoice %s is awaiting payment", number)
	html := fmt.Sprintf(
		`<p>Hi %s,</p>`+
			`<p>Invoice <strong>%s</strong> for %s was due %s.</p>`+
			`<p>You can pay it from your <a href="%s/dashboard/invoices">dashboard</a>.</p>`+
			footer(baseURL, unsubscribe),
		name, number, amount, dueDate, baseURL,
	)
	return subject, html
}

func renderPaymentReceipt(name, number, amount, baseURL, unsubscribe string) (string, string) {
	subject := fmt.Sprintf("Payment received for invoice %s", number)
	html := fmt.Sprintf(
		`<p>Hi %s,</p>`+
			`<p>We received your payment of %s for invoice <strong>%s</strong>. Thank you!</p>`+
			footer(baseURL, unsubscribe),
		name, amount, number,
	)
	return subject, html
}

func renderChatMessage(name, projectName, preview, baseURL, unsubscribe string) (string, string) {
	subject := fmt.Sprintf("New message in %s", projectName)
	html := fmt.Sprintf(
		`<p>Hi %s,</p>`+
			`<p>You have a new message in <strong>%s</strong>:</p>`+
			`<blockquote>%s</blockquote>`+
			`<p><a href="%s/dashboard/chat">Open the conversation</a></p>`+
			footer(baseURL, unsubscribe),
		name, projectName, preview, baseURL,
	)
	return subject, html
}

func renderProjectStatus(name, projectName, status string, progress int, baseURL, unsubscribe string) (string, string) {
	subject := fmt.Sprintf("Project update: %s", projectName)
	html := fmt.Sprintf(
		`<p>Hi %s,</p>`+
			`<p>Your project <strong>%s</strong> is now <strong>%s</strong> (%d%% complete).</p>`+
			`<p><a href="%s/dashboard/projects">View project</a></p>`+
			footer(baseURL, unsubscribe),
		name, projectName, status, progress, baseURL,
	)
	return subject, html
}

func footer(baseURL, unsubscribe string) string {
	if unsubscribe == "" {
		return `<p>— The WMX Services team</p>`
	}
	return fmt.Sprintf(
		`<p>— The WMX Services team</p>`+
			`<p style="font-size:12px;color:#888"><a href="%s/unsubscribe?token=%s">Unsubscribe from email updates</a></p>`,
		baseURL, unsubscribe,
	)
}
