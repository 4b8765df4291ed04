package utils

import (
	"context"
	"fmt"
	"time"

	"examprep/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers one HTML email.
type Mailer interface {
	Send(ctx context.Context, toEmail, toName, subject, htmlBody string) error
}

// Mail is the mailer used by the Send* triggers. It drops everything until InitMailer runs.
var Mail Mailer = nopMailer{}

var mailLog = logger.Nop()

type nopMailer struct{}

func (nopMailer) Send(context.Context, string, string, string, string) error { return nil }

type sendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func (m *sendGridMailer) Send(ctx context.Context, toEmail, toName, subject, htmlBody string) error {
	msg := mail.NewSingleEmail(m.from, subject, mail.NewEmail(toName, toEmail), "", htmlBody)
	resp, err := m.client.SendWithContext(ctx, msg)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid http %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// InitMailer wires SendGrid when an API key is configured; without one emails are only logged.
func InitMailer(apiKey, fromEmail, fromName string, log *logger.Logger) {
	if log != nil {
		mailLog = log.With("component", "mailer")
	}
	if apiKey == "" {
		mailLog.Warn("SENDGRID_API_KEY not set, emails are disabled")
		Mail = nopMailer{}
		return
	}
	Mail = &sendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail(fromName, fromEmail),
	}
}

// SendEmail sends synchronously through the configured mailer.
func SendEmail(ctx context.Context, toEmail, toName, subject, htmlBody string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := Mail.Send(ctx, toEmail, toName, subject, htmlBody); err != nil {
		mailLog.Error("sending email failed", "subject", subject, "error", err)
		return err
	}
	mailLog.Debug("email sent", "subject", subject)
	return nil
}

func sendAsync(toEmail, toName, subject, htmlBody string) {
	go func() {
		_ = SendEmail(context.Background(), toEmail, toName, subject, htmlBody)
	}()
}

func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
			.header { background-color: #1B3A5C; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1B3A5C; line-height: 1.6; }
			.info-box { background: #EEF4FB; padding: 15px; border-radius: 4px; border-left: 4px solid #F2A541; margin: 20px 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header"><h1>EXAMPREP</h1></div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">You are receiving this because you have an ExamPrep account.</div>
		</div>
	</body>
	</html>
	`, title, bodyContent)
}

// SendWelcomeEmail goes out after signup.
func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>Welcome to <strong>ExamPrep</strong>. Your account is ready.</p>
		<p>Enroll in a course to start with its free modules.</p>
	`, name)
	sendAsync(email, name, "Welcome to ExamPrep", getEmailTemplate("Welcome!", body))
}

func SendEnrollmentEmail(email, name, courseTitle string) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<div class="info-box">Free modules are unlocked. Paid modules open once your purchase is confirmed.</div>
	`, name, courseTitle)
	sendAsync(email, name, "Enrolled: "+courseTitle, getEmailTemplate("Enrollment Successful", body))
}

// SendPaymentRecordedEmail confirms that every module of the course is unlocked.
func SendPaymentRecordedEmail(email, name, courseTitle string, amount int) {
	body := fmt.Sprintf(`
		<p>Dear %s,</p>
		<p>We have received your payment of <strong>Rs. %d</strong> for <strong>%s</strong>.</p>
		<div class="info-box">All modules of the course are now unlocked.</div>
	`, name, amount, courseTitle)
	sendAsync(email, name, "Payment received: "+courseTitle, getEmailTemplate("Payment Confirmed", body))
}
