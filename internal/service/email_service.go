package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// Notifier is the notice-sending contract the services consume. EmailService
// is the production implementation; tests substitute a recording one.
type Notifier interface {
	IsEnabled() bool
	SendChildProvisionedNotice(ctx context.Context, toEmail, childName string) error
	SendCredentialRotationNotice(ctx context.Context, toEmail, childName string) error
	SendChildDetachedNotice(ctx context.Context, toEmail, childName string) error
}

// EmailService sends parent-facing notices via Amazon SES. Every send is
// best effort: callers log failures but never fail the operation that
// triggered the notice. Credentials are NEVER included in any email body;
// notices only tell the parent that something happened.
type EmailService struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
}

// NewEmailService creates a new email service. With no from address
// configured it returns a disabled service that skips all sends, so the
// rest of the application does not need to care whether SES is set up.
func NewEmailService(awsRegion, fromEmail, fromName string, debug bool) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false, debug: debug}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)

	return &EmailService{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		debug:     debug,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendChildProvisionedNotice tells a parent that a child account was created
func (s *EmailService) SendChildProvisionedNotice(ctx context.Context, toEmail, childName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): child provisioned notice to %s", toEmail)
		return nil
	}

	subject := "A child account was added to your family"
	htmlBody := s.noticeHTML(
		"Child Account Created",
		fmt.Sprintf("A new account for <strong>%s</strong> was just added to your FamilyHub family.", childName),
		"Use the credentials screen in your parent dashboard to generate a sign-in password for them.",
	)
	textBody := fmt.Sprintf(`A new account for %s was just added to your FamilyHub family.

Use the credentials screen in your parent dashboard to generate a sign-in password for them.

---
This is an automated email from FamilyHub. Please do not reply.
`, childName)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendCredentialRotationNotice tells a parent that a child's password was
// regenerated. The new password is shown once in the dashboard and is
// deliberately absent here.
func (s *EmailService) SendCredentialRotationNotice(ctx context.Context, toEmail, childName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): rotation notice to %s", toEmail)
		return nil
	}

	subject := "Sign-in credentials were regenerated"
	htmlBody := s.noticeHTML(
		"Credentials Regenerated",
		fmt.Sprintf("The sign-in password for <strong>%s</strong> was just regenerated.", childName),
		"The previous password no longer works. If you did not do this, change your own password and review your family from the parent dashboard.",
	)
	textBody := fmt.Sprintf(`The sign-in password for %s was just regenerated.

The previous password no longer works. If you did not do this, change your own password and review your family from the parent dashboard.

---
This is an automated email from FamilyHub. Please do not reply.
`, childName)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// SendChildDetachedNotice tells a parent that a child was removed from the family
func (s *EmailService) SendChildDetachedNotice(ctx context.Context, toEmail, childName string) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): detach notice to %s", toEmail)
		return nil
	}

	subject := "A child account was removed from your family"
	htmlBody := s.noticeHTML(
		"Child Account Removed",
		fmt.Sprintf("The account for <strong>%s</strong> was removed from your FamilyHub family.", childName),
		"Their profile and data are kept, but they are no longer supervised by you.",
	)
	textBody := fmt.Sprintf(`The account for %s was removed from your FamilyHub family.

Their profile and data are kept, but they are no longer supervised by you.

---
This is an automated email from FamilyHub. Please do not reply.
`, childName)

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

// noticeHTML renders the shared notice layout
func (s *EmailService) noticeHTML(heading, lead, detail string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s</h1>
		</div>
		<div class="content">
			<p>%s</p>
			<p>%s</p>
		</div>
		<div class="footer">
			<p>This is an automated email from FamilyHub. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, heading, lead, detail)
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] Sending email: to=%s, subject=%s", toEmail, subject)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("Email sent: to=%s, subject=%s", toEmail, subject)
	return nil
}
