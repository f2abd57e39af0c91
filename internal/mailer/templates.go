package mailer

import "fmt"

// Email templates for the certification portal. Copy mirrors the portal UI
// wording; dates are pre-formatted by the caller.

type EmailContent struct {
	Subject string
	HTML    string
}

func ExpiresSoonEmail(userName, certName, expiryDate string) EmailContent {
	return EmailContent{
		Subject: fmt.Sprintf("Action Required: Your %s Certification is Expiring Soon", certName),
		HTML: fmt.Sprintf(
			"<p>Hello %s,</p><p>This is a reminder that your <strong>%s</strong> certification is set to expire on <strong>%s</strong>. Please log in to the portal to request a renewal.</p>",
			userName, certName, expiryDate,
		),
	}
}

func RenewalRequestedEmail(userName, certName, portalMasterName string) EmailContent {
	return EmailContent{
		Subject: fmt.Sprintf("Renewal Requested for %s", certName),
		HTML: fmt.Sprintf(
			"<p>Hello %s,</p><p>%s has requested a renewal for their <strong>%s</strong> certification. Please log in to the portal to initiate the process.</p>",
			portalMasterName, userName, certName,
		),
	}
}

func RenewalInitiatedEmail(userName, certName, renewalDate string) EmailContent {
	return EmailContent{
		Subject: fmt.Sprintf("Your %s Renewal has been Scheduled", certName),
		HTML: fmt.Sprintf(
			"<p>Hello %s,</p><p>Your renewal for the <strong>%s</strong> certification has been initiated and is scheduled for <strong>%s</strong>. Please ensure you attend.</p>",
			userName, certName, renewalDate,
		),
	}
}

func RenewalConfirmedEmail(userName, certName, newExpiryDate string) EmailContent {
	return EmailContent{
		Subject: fmt.Sprintf("Congratulations! Your %s Certification has been Renewed", certName),
		HTML: fmt.Sprintf(
			"<p>Hello %s,</p><p>Your <strong>%s</strong> certification has been successfully renewed. Your new expiry date is <strong>%s</strong>.</p>",
			userName, certName, newExpiryDate,
		),
	}
}

func RenewalPostponedEmail(userName, certName string) EmailContent {
	return EmailContent{
		Subject: fmt.Sprintf("Your %s Certification Renewal has been Postponed", certName),
		HTML: fmt.Sprintf(
			"<p>Hello %s,</p><p>Your renewal for the <strong>%s</strong> certification has been postponed. A portal master will reschedule it soon.</p>",
			userName, certName,
		),
	}
}
