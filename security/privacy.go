package security

import "strings"

// MaskPaymentID hides all but the last 4 characters of an external payment
// id before it leaves the API.
func MaskPaymentID(paymentID string) string {
	if paymentID == "" {
		return ""
	}
	if len(paymentID) <= 4 {
		return "****"
	}
	return "****" + paymentID[len(paymentID)-4:]
}

// MaskEmail keeps the first 2 characters of the local part and the full
// domain, e.g. "asha@example.com" -> "as****@example.com".
func MaskEmail(email string) string {
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return email
	}
	local := email[:at]
	if len(local) <= 2 {
		return local + "****" + email[at:]
	}
	return local[:2] + "****" + email[at:]
}
