package email

import (
	"crypto/rand"
	"crypto/tls"
	"encoding/hex"
	"fmt"
	"net/smtp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// EmailService defines the interface for email operations
type EmailService interface {
	SendVerificationEmail(toEmail, toName, verificationURL string) error
	SendPasswordResetEmail(toEmail, toName, resetURL string) error
}

// SMTPConfig holds configuration for SMTP server
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
	UseTLS    bool
	AppName   string
}

// EmailServiceImpl implements EmailService
type EmailServiceImpl struct {
	config SMTPConfig
	logger zerolog.Logger
	send   func(toEmail string, message []byte) error
}

// NewEmailService creates a new EmailService
func NewEmailService(config SMTPConfig, logger zerolog.Logger) *EmailServiceImpl {
	s := &EmailServiceImpl{
		config: config,
		logger: logger,
	}
	s.send = s.deliver
	return s
}

// SendVerificationEmail sends the account verification link
func (s *EmailServiceImpl) SendVerificationEmail(toEmail, toName, verificationURL string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("verificationURL", verificationURL).
			Msg("SMTP credentials not configured - verification email not sent. Use the URL above for testing.")
		return nil
	}

	subject := "Verify your company account"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Welcome to %s!</h2>
				<p>Hello %s,</p>
				<p>Please click the following link to verify your account:</p>
				<div style="text-align: center; margin: 30px 0;">
					<a href="%s" style="background-color: #4a86e8; color: white; padding: 12px 24px; text-decoration: none; border-radius: 4px; font-weight: bold;">Verify Account</a>
				</div>
				<p>This link expires in 24 hours.</p>
			</div>
		</body>
		</html>
	`, s.appName(), toName, verificationURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

// SendPasswordResetEmail sends the password reset link
func (s *EmailServiceImpl) SendPasswordResetEmail(toEmail, toName, resetURL string) error {
	if !s.configured() {
		s.logger.Warn().
			Str("toEmail", toEmail).
			Str("resetURL", resetURL).
			Msg("SMTP credentials not configured - password reset email not sent.")
		return nil
	}

	subject := "Reset your password"
	body := fmt.Sprintf(`
		<html>
		<body>
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<p>Hello %s,</p>
				<p>A password reset was requested for your %s account. The link below is valid for one hour:</p>
				<p><a href="%s">Reset Password</a></p>
				<p>If you did not request a reset, you can ignore this email.</p>
			</div>
		</body>
		</html>
	`, toName, s.appName(), resetURL)

	return s.sendHTMLEmail(toEmail, subject, body)
}

func (s *EmailServiceImpl) configured() bool {
	return s.config.Username != "" && s.config.Password != ""
}

func (s *EmailServiceImpl) appName() string {
	if s.config.AppName == "" {
		return "Student CV System"
	}
	return s.config.AppName
}

func (s *EmailServiceImpl) sendHTMLEmail(toEmail, subject, htmlBody string) error {
	message := buildMessage(fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail), toEmail, subject, htmlBody)
	if err := s.send(toEmail, message); err != nil {
		s.logger.Error().Err(err).Str("toEmail", toEmail).Str("subject", subject).Msg("Failed to send email")
		return err
	}
	return nil
}

func buildMessage(from, to, subject, htmlBody string) []byte {
	headers := map[string]string{
		"From":         from,
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/html; charset=UTF-8",
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\r\n", k, headers[k])
	}
	b.WriteString("\r\n")
	b.WriteString(htmlBody)
	return []byte(b.String())
}

func (s *EmailServiceImpl) deliver(toEmail string, message []byte) error {
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	serverAddress := s.config.Host + ":" + strconv.Itoa(s.config.Port)

	if !s.config.UseTLS {
		if err := smtp.SendMail(serverAddress, auth, s.config.FromEmail, []string{toEmail}, message); err != nil {
			return fmt.Errorf("failed to send email: %w", err)
		}
		return nil
	}

	conn, err := tls.Dial("tcp", serverAddress, &tls.Config{ServerName: s.config.Host})
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}
	defer client.Quit()

	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}
	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(toEmail); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write email message: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}
	return nil
}

// GenerateToken returns a random 64 character hex token
func GenerateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
