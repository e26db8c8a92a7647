package config

import "github.com/spf13/viper"

// Email holds outbound email configuration. Provider is "mailgun" or
// "smtp"; anything else disables delivery (reset links are logged only).
type Email struct {
	Provider string
	From     string

	// Mailgun
	Domain string
	APIKey string

	// SMTP
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
}

func getEmailConfig(v *viper.Viper) *Email {
	return &Email{
		Provider:     v.GetString("email.provider"),
		From:         v.GetString("email.from"),
		Domain:       v.GetString("email.domain"),
		APIKey:       v.GetString("email.api_key"),
		SMTPHost:     v.GetString("email.smtp.host"),
		SMTPPort:     v.GetString("email.smtp.port"),
		SMTPUsername: v.GetString("email.smtp.username"),
		SMTPPassword: v.GetString("email.smtp.password"),
	}
}
