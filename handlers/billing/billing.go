package billing

import (
	"fmt"
	"net/http"

	"github.com/7ever/Nerdo.Africa/handlers/auth"
	"github.com/7ever/Nerdo.Africa/models"
	"github.com/7ever/Nerdo.Africa/mpesa"
	"github.com/7ever/Nerdo.Africa/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PremiumAmount is the nominal KES 1 test charge for the premium badge.
var PremiumAmount = decimal.NewFromInt(1)

// The gateway rejects account references longer than 12 characters.
const accountRefLimit = 12

var client *mpesa.Client

func mpesaClient() *mpesa.Client {
	if client == nil {
		client = mpesa.NewClient()
	}
	return client
}

// SetClient swaps the gateway client, used by tests.
func SetClient(c *mpesa.Client) {
	client = c
}

// InitiatePremiumPayment triggers an STK push against the user's stored
// phone number and records the attempt as Pending.
func InitiatePremiumPayment(c *gin.Context) {
	user, exists := auth.CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	if user.Profile.PhoneNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please update your profile with a phone number first."})
		return
	}

	phone := utils.FormatMpesaPhone(user.Profile.PhoneNumber)

	accountRef := fmt.Sprintf("NerdoPremium_%d", user.ID)
	if len(accountRef) > accountRefLimit {
		accountRef = accountRef[:accountRefLimit]
	}

	resp, err := mpesaClient().STKPush(phone, PremiumAmount, accountRef, "Premium Verification Badge")
	if err != nil {
		utils.LogError("billing", "InitiatePremiumPayment", "stk push", phone, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Error initiating payment. Please try again later."})
		return
	}

	if !resp.Accepted() {
		utils.LogError("billing", "InitiatePremiumPayment", "stk push rejected", resp.ResponseCode,
			fmt.Errorf("%s", resp.ResponseDescription))
		c.JSON(http.StatusBadGateway, gin.H{"error": "The payment gateway rejected the request. Please try again later."})
		return
	}

	transaction := models.MpesaTransaction{
		UserID:            user.ID,
		PhoneNumber:       phone,
		Amount:            PremiumAmount,
		MerchantRequestID: resp.MerchantRequestID,
		CheckoutRequestID: resp.CheckoutRequestID,
		Status:            models.TransactionPending,
	}
	if err := utils.DB.Create(&transaction).Error; err != nil {
		utils.LogError("billing", "InitiatePremiumPayment", "persist transaction", resp.CheckoutRequestID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "We encountered an issue recording your payment. Please contact support."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":             fmt.Sprintf("STK Push sent to %s. Enter PIN to complete.", phone),
		"checkout_request_id": resp.CheckoutRequestID,
	})
}

// MpesaCallback receives the asynchronous result of an STK push. The
// gateway does not interpret failure responses, so every outcome is
// acknowledged with HTTP 200.
func MpesaCallback(c *gin.Context) {
	var envelope mpesa.CallbackEnvelope
	if err := c.ShouldBindJSON(&envelope); err != nil {
		c.JSON(http.StatusOK, gin.H{"result": "error", "message": "malformed callback body"})
		return
	}

	callback := envelope.Body.StkCallback

	var transaction models.MpesaTransaction
	if err := utils.DB.Where("checkout_request_id = ?", callback.CheckoutRequestID).First(&transaction).Error; err != nil {
		utils.LogError("billing", "MpesaCallback", "lookup", callback.CheckoutRequestID, err)
		c.JSON(http.StatusOK, gin.H{"result": "error", "message": "transaction not found"})
		return
	}

	status := models.TransactionFailed
	receipt := ""
	if callback.Succeeded() {
		status = models.TransactionSuccess
		receipt = callback.ReceiptNumber()
	}

	// Leave Pending exactly once. A duplicate delivery matches zero rows
	// and is acknowledged without re-applying any side effect.
	result := utils.DB.Model(&models.MpesaTransaction{}).
		Where("checkout_request_id = ? AND status = ?", callback.CheckoutRequestID, models.TransactionPending).
		Updates(map[string]interface{}{
			"status":         status,
			"receipt_number": receipt,
		})
	if result.Error != nil {
		utils.LogError("billing", "MpesaCallback", "update transaction", callback.CheckoutRequestID, result.Error)
		c.JSON(http.StatusOK, gin.H{"result": "error", "message": "failed to update transaction"})
		return
	}
	if result.RowsAffected == 0 {
		utils.Logger().WithField("checkout_request_id", callback.CheckoutRequestID).
			Info("duplicate callback delivery ignored")
		c.JSON(http.StatusOK, gin.H{"result": "ok"})
		return
	}

	if status == models.TransactionSuccess {
		if err := utils.DB.Model(&models.Profile{}).Where("user_id = ?", transaction.UserID).
			Updates(map[string]interface{}{
				"is_premium":  true,
				"is_verified": true,
			}).Error; err != nil {
			utils.LogError("billing", "MpesaCallback", "update profile", transaction.UserID, err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"result": "ok"})
}

// GetTransactions lists the caller's payment attempts, newest first.
func GetTransactions(c *gin.Context) {
	user, exists := auth.CurrentUser(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var transactions []models.MpesaTransaction
	if err := utils.DB.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&transactions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": transactions})
}
