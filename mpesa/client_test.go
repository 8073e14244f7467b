package mpesa

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func stubGateway(t *testing.T, pushStatus int, pushBody string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); !ok {
			t.Error("auth request missing basic auth")
		}
		w.Write([]byte(`{"access_token":"test-token","expires_in":"3599"}`))
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("push Authorization = %q", got)
		}
		var payload map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode push payload: %v", err)
		}
		if payload["PhoneNumber"] != "254712345678" {
			t.Errorf("PhoneNumber = %v", payload["PhoneNumber"])
		}
		if payload["Amount"] != "1" {
			t.Errorf("Amount = %v", payload["Amount"])
		}
		w.WriteHeader(pushStatus)
		w.Write([]byte(pushBody))
	})
	return httptest.NewServer(mux)
}

func testClient(srvURL string) *Client {
	return &Client{
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		ShortCode:      "174379",
		Passkey:        "passkey",
		CallbackURL:    "https://example.com/billing/callback",
		BaseURL:        srvURL,
		HTTPClient:     &http.Client{Timeout: 5 * time.Second},
	}
}

func TestSTKPushAccepted(t *testing.T) {
	srv := stubGateway(t, http.StatusOK,
		`{"MerchantRequestID":"29115-34620561-1","CheckoutRequestID":"ws_CO_191220191020363925","ResponseCode":"0","ResponseDescription":"Success. Request accepted for processing","CustomerMessage":"Success. Request accepted for processing"}`)
	defer srv.Close()

	resp, err := testClient(srv.URL).STKPush("254712345678", decimal.NewFromInt(1), "NerdoPremium", "Premium Verification Badge")
	if err != nil {
		t.Fatalf("STKPush: %v", err)
	}
	if !resp.Accepted() {
		t.Error("Accepted() = false, want true")
	}
	if resp.CheckoutRequestID != "ws_CO_191220191020363925" {
		t.Errorf("CheckoutRequestID = %q", resp.CheckoutRequestID)
	}
}

func TestSTKPushRejectedCode(t *testing.T) {
	srv := stubGateway(t, http.StatusOK,
		`{"ResponseCode":"1","ResponseDescription":"Invalid Amount"}`)
	defer srv.Close()

	resp, err := testClient(srv.URL).STKPush("254712345678", decimal.NewFromInt(1), "NerdoPremium", "desc")
	if err != nil {
		t.Fatalf("STKPush: %v", err)
	}
	if resp.Accepted() {
		t.Error("Accepted() = true, want false")
	}
}

func TestSTKPushGatewayError(t *testing.T) {
	srv := stubGateway(t, http.StatusInternalServerError, `{}`)
	defer srv.Close()

	if _, err := testClient(srv.URL).STKPush("254712345678", decimal.NewFromInt(1), "NerdoPremium", "desc"); err == nil {
		t.Fatal("STKPush error = nil, want error")
	}
}

func TestCallbackEnvelopeParsing(t *testing.T) {
	payload := `{
		"Body": {
			"stkCallback": {
				"MerchantRequestID": "mock-123",
				"CheckoutRequestID": "ws_CO_123",
				"ResultCode": 0,
				"ResultDesc": "Success",
				"CallbackMetadata": {
					"Item": [
						{"Name": "Amount", "Value": 1.00},
						{"Name": "MpesaReceiptNumber", "Value": "OC12345678"},
						{"Name": "PhoneNumber", "Value": 254712345678}
					]
				}
			}
		}
	}`

	var envelope CallbackEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	callback := envelope.Body.StkCallback
	if !callback.Succeeded() {
		t.Error("Succeeded() = false, want true")
	}
	if got := callback.ReceiptNumber(); got != "OC12345678" {
		t.Errorf("ReceiptNumber() = %q, want OC12345678", got)
	}
}

func TestCallbackCancelled(t *testing.T) {
	payload := `{"Body":{"stkCallback":{"MerchantRequestID":"m","CheckoutRequestID":"c","ResultCode":1032,"ResultDesc":"Request cancelled by user"}}}`

	var envelope CallbackEnvelope
	if err := json.Unmarshal([]byte(payload), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	callback := envelope.Body.StkCallback
	if callback.Succeeded() {
		t.Error("Succeeded() = true, want false")
	}
	if got := callback.ReceiptNumber(); got != "" {
		t.Errorf("ReceiptNumber() = %q, want empty", got)
	}
}
