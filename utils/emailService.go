package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"bluelearn/config"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendEmail delivers an HTML email. SendGrid is used when an API key is
// configured, otherwise plain SMTP.
func SendEmail(to []string, subject string, htmlBody string) error {
	if config.AppConfig.SendGridAPIKey != "" {
		return sendViaSendGrid(to, subject, htmlBody)
	}
	return sendViaSMTP(to, subject, htmlBody)
}

func sendViaSendGrid(to []string, subject string, htmlBody string) error {
	from := sgmail.NewEmail("BlueLearn", config.AppConfig.EmailSender)

	p := sgmail.NewPersonalization()
	p.Subject = subject
	for _, addr := range to {
		p.AddTos(sgmail.NewEmail("", addr))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/html", htmlBody))

	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
	resp, err := client.Send(m)
	if err != nil {
		log.Printf("Error sending email via SendGrid: %v", err)
		return err
	}
	if resp.StatusCode >= 300 {
		log.Printf("SendGrid rejected email: %d %s", resp.StatusCode, resp.Body)
		return fmt.Errorf("sendgrid: unexpected status %d", resp.StatusCode)
	}
	return nil
}

func sendViaSMTP(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: BlueLearn <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	if err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg)); err != nil {
		log.Printf("Error sending email via SMTP: %v", err)
		return err
	}
	return nil
}

// getEmailTemplate wraps body content in the shared HTML layout
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<head>
		<style>
			body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
			.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; box-shadow: 0 4px 15px rgba(0,0,0,0.05); }
			.header { background-color: #2563eb; padding: 30px; text-align: center; }
			.header h1 { color: #FFFFFF; margin: 0; font-size: 24px; letter-spacing: 1px; }
			.content { padding: 40px 30px; color: #1e293b; line-height: 1.6; }
			.content h2 { color: #1e293b; margin-top: 0; }
			.footer { background-color: #F6F6F6; padding: 20px; text-align: center; font-size: 12px; color: #666666; border-top: 1px solid #E0E0E0; }
			.info-box { background: #E8F0FE; padding: 15px; border-radius: 4px; border-left: 4px solid #2563eb; margin: 20px 0; }
		</style>
	</head>
	<body>
		<div class="container">
			<div class="header">
				<h1>BlueLearn</h1>
			</div>
			<div class="content">
				<h2>%s</h2>
				%s
			</div>
			<div class="footer">
				&copy; BlueLearn. All rights reserved.
			</div>
		</div>
	</body>
	</html>`, title, bodyContent)
}

// SendWelcomeEmail greets a freshly registered user
func SendWelcomeEmail(email, name string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Welcome to BlueLearn! Your account has been created successfully.</p>
		<p>Browse the course catalog and start learning today.</p>`, name)
	go func() {
		if err := SendEmail([]string{email}, "Welcome to BlueLearn", getEmailTemplate("Welcome!", body)); err != nil {
			log.Printf("Failed to send welcome email to %s: %v", email, err)
		}
	}()
}

// SendOTPEmail delivers a verification code
func SendOTPEmail(otp, email string) {
	body := fmt.Sprintf(`
		<p>Your verification code is:</p>
		<div class="info-box"><strong style="font-size:22px;letter-spacing:4px;">%s</strong></div>
		<p>This code expires in 10 minutes. If you did not request it, ignore this email.</p>`, otp)
	go func() {
		if err := SendEmail([]string{email}, "Your BlueLearn verification code", getEmailTemplate("Verification Code", body)); err != nil {
			log.Printf("Failed to send OTP email to %s: %v", email, err)
		}
	}()
}

// SendEnrollmentEmail confirms a new course enrollment
func SendEnrollmentEmail(email, userName, courseName string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>You are now enrolled in <strong>%s</strong>.</p>
		<p>Head to your dashboard to start the first lesson.</p>`, userName, courseName)
	go func() {
		if err := SendEmail([]string{email}, "Enrollment confirmed: "+courseName, getEmailTemplate("Enrollment Confirmed", body)); err != nil {
			log.Printf("Failed to send enrollment email to %s: %v", email, err)
		}
	}()
}

// SendCertificateEmail notifies a learner their certificate was issued
func SendCertificateEmail(email, userName, courseName, verificationHash string) {
	body := fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Congratulations on completing <strong>%s</strong>!</p>
		<p>Your certificate has been issued. Anyone can verify it with this code:</p>
		<div class="info-box"><strong>%s</strong></div>`, userName, courseName, verificationHash)
	go func() {
		if err := SendEmail([]string{email}, "Your certificate for "+courseName, getEmailTemplate("Certificate Issued", body)); err != nil {
			log.Printf("Failed to send certificate email to %s: %v", email, err)
		}
	}()
}

// SendInvitationEmail delivers a partner invitation link
func SendInvitationEmail(email, partnerName, role, token string) {
	body := fmt.Sprintf(`
		<p><strong>%s</strong> invited you to join BlueLearn as %s.</p>
		<p>Use the token below to accept the invitation:</p>
		<div class="info-box"><strong>%s</strong></div>
		<p>The invitation expires in 7 days.</p>`, partnerName, strings.ToLower(role), token)
	go func() {
		if err := SendEmail([]string{email}, "You have been invited to BlueLearn", getEmailTemplate("Partner Invitation", body)); err != nil {
			log.Printf("Failed to send invitation email to %s: %v", email, err)
		}
	}()
}
