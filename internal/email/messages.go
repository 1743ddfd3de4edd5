package email

import "fmt"

type Message struct {
	Recipient string
	Subject   string
	Body      string
}

// Recipient formats the display address used for account emails.
func Recipient(username, address string) string {
	return fmt.Sprintf("%s <%s>", username, address)
}

func VerificationMessage(username, address, code string) Message {
	return Message{
		Recipient: Recipient(username, address),
		Subject:   "Verify your email",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour verification code is %s. It expires in 24 hours.\n",
			username, code,
		),
	}
}

func PasswordResetMessage(username, address, code string) Message {
	return Message{
		Recipient: Recipient(username, address),
		Subject:   "Reset your password",
		Body: fmt.Sprintf(
			"Hi %s,\n\nUse the code %s to reset your password. It expires in 24 hours.\n"+
				"If you did not ask for a reset you can ignore this email.\n",
			username, code,
		),
	}
}
