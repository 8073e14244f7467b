package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// smsBaseURL is a variable so tests can point the client at a stub server.
var smsBaseURL = "https://api.africastalking.com/version1/messaging"

var smsHTTPClient = &http.Client{Timeout: 15 * time.Second}

func SetSMSBaseURL(u string) {
	smsBaseURL = u
}

type smsRecipient struct {
	Number     string `json:"number"`
	Status     string `json:"status"`
	StatusCode int    `json:"statusCode"`
}

type smsResponse struct {
	SMSMessageData struct {
		Message    string         `json:"Message"`
		Recipients []smsRecipient `json:"Recipients"`
	} `json:"SMSMessageData"`
}

// SendSMS delivers a message through Africa's Talking. It reports only
// success or failure; OTP flows proceed either way and the failure is
// logged here.
func SendSMS(phoneNumber string, message string) bool {
	form := url.Values{}
	form.Set("username", os.Getenv("AFRICASTALKING_USERNAME"))
	form.Set("to", FormatSMSPhone(phoneNumber))
	form.Set("message", message)

	req, err := http.NewRequest("POST", smsBaseURL, strings.NewReader(form.Encode()))
	if err != nil {
		LogError("utils", "SendSMS", "build request", nil, err)
		return false
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("apiKey", os.Getenv("AFRICASTALKING_API_KEY"))

	resp, err := smsHTTPClient.Do(req)
	if err != nil {
		LogError("utils", "SendSMS", "send", phoneNumber, NewExternalError("africastalking", KindTransient, err))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		LogError("utils", "SendSMS", "send", phoneNumber,
			NewExternalError("africastalking", KindPermanent, fmt.Errorf("unexpected status %d", resp.StatusCode)))
		return false
	}

	var body smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		LogError("utils", "SendSMS", "decode response", phoneNumber, err)
		return false
	}

	recipients := body.SMSMessageData.Recipients
	if len(recipients) == 0 || recipients[0].Status != "Success" {
		LogError("utils", "SendSMS", "delivery", phoneNumber,
			fmt.Errorf("gateway did not accept message: %s", body.SMSMessageData.Message))
		return false
	}

	return true
}

// SendOTPSMS sends the verification code message used by registration and
// password reset.
func SendOTPSMS(phoneNumber string, otp string) bool {
	return SendSMS(phoneNumber, fmt.Sprintf("Your Nerdo.Africa verification code is: %s", otp))
}
