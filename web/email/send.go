package email

import (
	"fmt"
	"net/smtp"
	"os"
)

func SendEmail(to string, subject string, body string) error {
	smtpServer := os.Getenv("SMTP_SERVER")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")
	fromAddr := os.Getenv("FROM_ADDR")
	fromName := os.Getenv("FROM_NAME")

	if smtpServer == "" || smtpPort == "" || smtpUser == "" || smtpPass == "" || fromAddr == "" || fromName == "" {
		return fmt.Errorf(
			"missing required SMTP environment variables: SMTP_SERVER=%s, SMTP_PORT=%s, SMTP_USER=%s, FROM_ADDR=%s, FROM_NAME=%s",
			smtpServer, smtpPort, smtpUser, fromAddr, fromName)
	}
	msg := []byte(fmt.Sprintf("From: %s <%s>\r\n"+
		"To: %s\r\n"+
		"Subject: %s\r\n"+
		"Content-Type: text/plain; charset=UTF-8\r\n\r\n"+
		"%s",
		fromName, fromAddr, to, subject, body))

	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpServer)

	err := smtp.SendMail(smtpServer+":"+smtpPort, auth, fromAddr, []string{to}, msg)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendAuthCode mails a one time code for login verification or a
// password change. kind selects the subject line.
func SendAuthCode(to string, code string, kind string, ip string, userAgent string) error {
	var subject string
	switch kind {
	case "login":
		subject = "SakuraNet login verification code"
	case "password":
		subject = "SakuraNet password change code"
	default:
		subject = "SakuraNet verification code"
	}
	body := fmt.Sprintf("Your verification code is: %s\n\n"+
		"Request details:\nIP address: %s\nDevice: %s\n\n"+
		"The code expires in 10 minutes. If this was not you, change your password immediately.",
		code, ip, userAgent)
	return SendEmail(to, subject, body)
}

// SendPasswordReset mails a reset code to an address that may or may
// not belong to an account; the caller decides whether to send.
func SendPasswordReset(to string, code string) error {
	subject := "SakuraNet password reset"
	body := fmt.Sprintf("Use this code to reset your password:\n\n%s\n\nThe code expires in 10 minutes.", code)
	return SendEmail(to, subject, body)
}

// SendPanelCredentials hands a customer the login for their freshly
// created panel account. Sent once, right after the first purchase.
func SendPanelCredentials(to string, panelURL string, password string) error {
	subject := "Your SakuraNet game panel account"
	body := fmt.Sprintf("A game panel account has been created for you.\n\n"+
		"Panel: %s\nLogin: %s\nPassword: %s\n\nYou can change the password in the panel settings.",
		panelURL, to, password)
	return SendEmail(to, subject, body)
}
