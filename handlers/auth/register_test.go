package auth

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/7ever/Nerdo.Africa/models"
	"github.com/7ever/Nerdo.Africa/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Profile{},
		&models.PendingRegistration{}, &models.VerificationChallenge{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	utils.SetDB(db)
	return db
}

func stubSMSGateway(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"SMSMessageData":{"Message":"Sent to 1/1","Recipients":[{"number":"+254712345678","status":"Success","statusCode":101}]}}`)
	}))
	utils.SetSMSBaseURL(srv.URL)
	t.Cleanup(func() {
		utils.SetSMSBaseURL("https://api.africastalking.com/version1/messaging")
		srv.Close()
	})
	return srv
}

func authRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/auth/register", Register)
	r.POST("/auth/verify-otp", VerifyOTP)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterAndVerify(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupDB(t)
	stubSMSGateway(t)
	r := authRouter()

	w := postJSON(t, r, "/auth/register", gin.H{
		"username":     "wanjiku",
		"email":        "wanjiku@example.com",
		"phone_number": "+254712345678",
		"password":     "str0ngpass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register status = %d: %s", w.Code, w.Body.String())
	}

	var userCount int64
	db.Model(&models.User{}).Count(&userCount)
	if userCount != 0 {
		t.Fatalf("users created before verification = %d, want 0", userCount)
	}

	var challenge models.VerificationChallenge
	if err := db.Where("phone_number = ? AND purpose = ?", "+254712345678",
		models.ChallengePurposeRegistration).First(&challenge).Error; err != nil {
		t.Fatalf("challenge not issued: %v", err)
	}
	if len(challenge.Code) != 6 {
		t.Fatalf("code = %q, want 6 digits", challenge.Code)
	}

	w = postJSON(t, r, "/auth/verify-otp", gin.H{
		"phone_number": "+254712345678",
		"otp":          challenge.Code,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("verify status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode verify response: %v", err)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected both tokens in verify response")
	}

	var user models.User
	if err := db.Preload("Profile").Where("username = ?", "wanjiku").First(&user).Error; err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if !user.Profile.IsPhoneVerified {
		t.Error("profile should be phone verified")
	}
	if user.Profile.IsVerified {
		t.Error("profile should not be Ajira verified without an Ajira ID")
	}
	if user.Profile.Role != models.RoleJobSeeker {
		t.Errorf("role = %q, want job_seeker default", user.Profile.Role)
	}

	var pendingCount int64
	db.Model(&models.PendingRegistration{}).Count(&pendingCount)
	if pendingCount != 0 {
		t.Errorf("pending registrations remaining = %d, want 0", pendingCount)
	}

	// The consumed code cannot commit the registration a second time.
	w = postJSON(t, r, "/auth/verify-otp", gin.H{
		"phone_number": "+254712345678",
		"otp":          challenge.Code,
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("replayed verify status = %d, want 401", w.Code)
	}
	db.Model(&models.User{}).Count(&userCount)
	if userCount != 1 {
		t.Errorf("users after replay = %d, want 1", userCount)
	}
}

func TestRegisterAjiraVerified(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	db := setupDB(t)
	stubSMSGateway(t)
	r := authRouter()

	w := postJSON(t, r, "/auth/register", gin.H{
		"username":     "mutiso",
		"email":        "mutiso@example.com",
		"phone_number": "+254722000111",
		"password":     "str0ngpass",
		"role":         models.RoleEmployer,
		"ajira_id":     "AJ-654321",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register status = %d: %s", w.Code, w.Body.String())
	}

	var challenge models.VerificationChallenge
	if err := db.Where("phone_number = ?", "+254722000111").First(&challenge).Error; err != nil {
		t.Fatalf("challenge not issued: %v", err)
	}

	w = postJSON(t, r, "/auth/verify-otp", gin.H{
		"phone_number": "+254722000111",
		"otp":          challenge.Code,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("verify status = %d: %s", w.Code, w.Body.String())
	}

	var user models.User
	if err := db.Preload("Profile").Where("username = ?", "mutiso").First(&user).Error; err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if !user.Profile.IsVerified {
		t.Error("Ajira-linked profile should be verified")
	}
	if user.Profile.Role != models.RoleEmployer {
		t.Errorf("role = %q, want employer", user.Profile.Role)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	setupDB(t)
	r := authRouter()

	cases := []struct {
		name string
		body gin.H
	}{
		{"local phone format", gin.H{
			"username": "juma", "email": "juma@example.com",
			"phone_number": "0712345678", "password": "str0ngpass",
		}},
		{"short password", gin.H{
			"username": "juma", "email": "juma@example.com",
			"phone_number": "+254712345678", "password": "short",
		}},
		{"bad ajira id", gin.H{
			"username": "juma", "email": "juma@example.com",
			"phone_number": "+254712345678", "password": "str0ngpass",
			"ajira_id": "AJ-12",
		}},
		{"unknown role", gin.H{
			"username": "juma", "email": "juma@example.com",
			"phone_number": "+254712345678", "password": "str0ngpass",
			"role": "admin",
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, r, "/auth/register", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestRegisterConflicts(t *testing.T) {
	db := setupDB(t)
	stubSMSGateway(t)
	r := authRouter()

	existing := models.User{
		Username: "taken",
		Email:    "taken@example.com",
		Password: "hashed",
		Profile:  models.Profile{Role: models.RoleJobSeeker, PhoneNumber: "+254700000001"},
	}
	if err := db.Create(&existing).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	w := postJSON(t, r, "/auth/register", gin.H{
		"username":     "taken",
		"email":        "fresh@example.com",
		"phone_number": "+254700000002",
		"password":     "str0ngpass",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate username status = %d, want 409", w.Code)
	}

	w = postJSON(t, r, "/auth/register", gin.H{
		"username":     "fresh",
		"email":        "fresh@example.com",
		"phone_number": "+254700000001",
		"password":     "str0ngpass",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate phone status = %d, want 409", w.Code)
	}
}

func TestVerifyWrongCodeLocksAfterFiveAttempts(t *testing.T) {
	db := setupDB(t)
	stubSMSGateway(t)
	r := authRouter()

	w := postJSON(t, r, "/auth/register", gin.H{
		"username":     "atieno",
		"email":        "atieno@example.com",
		"phone_number": "+254733999888",
		"password":     "str0ngpass",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("register status = %d: %s", w.Code, w.Body.String())
	}

	var challenge models.VerificationChallenge
	if err := db.Where("phone_number = ?", "+254733999888").First(&challenge).Error; err != nil {
		t.Fatalf("challenge not issued: %v", err)
	}
	wrong := "000000"
	if challenge.Code == wrong {
		wrong = "111111"
	}

	for i := 0; i < 5; i++ {
		w = postJSON(t, r, "/auth/verify-otp", gin.H{
			"phone_number": "+254733999888",
			"otp":          wrong,
		})
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status = %d, want 401", i+1, w.Code)
		}
		if !strings.Contains(w.Body.String(), "Invalid code") {
			t.Fatalf("attempt %d body = %s, want invalid-code message", i+1, w.Body.String())
		}
	}

	// The sixth attempt with the real code finds the challenge dead.
	w = postJSON(t, r, "/auth/verify-otp", gin.H{
		"phone_number": "+254733999888",
		"otp":          challenge.Code,
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("locked verify status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Session expired") {
		t.Errorf("locked verify body = %s, want session-expired message", w.Body.String())
	}
}
