package email

const (
	subjectVerification      = "Verify your email address"
	subjectPasswordReset     = "Reset your password"
	subjectBusinessInviteFmt = "You have been invited to %s"
)
