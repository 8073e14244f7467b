package utils

import "strings"

// FormatMpesaPhone puts a phone number into the 254XXXXXXXXX form the
// Daraja STK push API requires. A leading "0" becomes the country code,
// a leading "+" is stripped, anything else is passed through unchanged.
func FormatMpesaPhone(phone string) string {
	phone = strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
	switch {
	case strings.HasPrefix(phone, "0"):
		return "254" + phone[1:]
	case strings.HasPrefix(phone, "+"):
		return phone[1:]
	default:
		return phone
	}
}

// FormatSMSPhone puts a phone number into the +254XXXXXXXXX form
// Africa's Talking expects.
func FormatSMSPhone(phone string) string {
	phone = strings.ReplaceAll(strings.TrimSpace(phone), " ", "")
	switch {
	case strings.HasPrefix(phone, "0"):
		return "+254" + phone[1:]
	case strings.HasPrefix(phone, "254"):
		return "+" + phone
	default:
		return phone
	}
}
