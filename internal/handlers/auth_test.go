package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edtech-scanner/app-auth/internal/models"
	"github.com/edtech-scanner/app-auth/internal/services"
	"github.com/edtech-scanner/app-auth/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type capturingSender struct {
	codes []string
}

func (s *capturingSender) SendVerificationCode(ctx context.Context, phone, code string) error {
	s.codes = append(s.codes, code)
	return nil
}

type stubResolver struct{}

func (stubResolver) ResolveOrCreate(ctx context.Context, method models.AuthMethod, key string, attrs services.IdentityAttributes) (*models.User, error) {
	id, _ := primitive.ObjectIDFromHex("64b1f0c2a1b2c3d4e5f60718")
	return &models.User{ID: id, AuthMethod: method}, nil
}

type stubVerifier struct {
	err error
}

func (s stubVerifier) VerifyAssertion(ctx context.Context, assertion string) (*services.ExternalIdentity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &services.ExternalIdentity{ExternalID: "google-sub-123"}, nil
}

type handlerFixture struct {
	router *gin.Engine
	store  *store.Memory
	sender *capturingSender
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mem := store.NewMemory()
	sender := &capturingSender{}
	auth := services.NewAuthService(
		services.NewOTPRateLimiter(mem, 3, time.Hour),
		services.NewOTPService(mem, 5*time.Minute, 5*time.Minute, 3),
		services.NewTokenService("test-secret", 24*time.Hour),
		services.NewTokenBlacklist(mem, 24*time.Hour),
		stubResolver{},
		stubVerifier{},
		sender,
	)

	handler := NewAuthHandler(auth)
	router := gin.New()
	v1 := router.Group("/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/otp/send", handler.SendOTP)
			authGroup.POST("/otp/verify", handler.VerifyOTP)
			authGroup.POST("/google-signin", handler.GoogleSignIn)
			authGroup.POST("/signout", handler.SignOut)
			authGroup.POST("/refresh-token", handler.RefreshToken)
		}
	}
	return &handlerFixture{router: router, store: mem, sender: sender}
}

func (fx *handlerFixture) post(t *testing.T, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	fx.router.ServeHTTP(w, req)
	return w
}

func TestSendOTP_Success(t *testing.T) {
	fx := newHandlerFixture(t)

	w := fx.post(t, "/v1/auth/otp/send", models.SendOTPRequest{PhoneNumber: "+85512345678"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.SendOTPResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(300), resp.ExpiresIn)
	assert.Equal(t, "+85512345678", resp.PhoneNumber)
	assert.Len(t, fx.sender.codes, 1)
}

func TestSendOTP_MissingBody(t *testing.T) {
	fx := newHandlerFixture(t)
	w := fx.post(t, "/v1/auth/otp/send", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendOTP_MissingPlus(t *testing.T) {
	fx := newHandlerFixture(t)
	w := fx.post(t, "/v1/auth/otp/send", models.SendOTPRequest{PhoneNumber: "85512345678"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSendOTP_RateLimited(t *testing.T) {
	fx := newHandlerFixture(t)

	for i := 0; i < 3; i++ {
		w := fx.post(t, "/v1/auth/otp/send", models.SendOTPRequest{PhoneNumber: "+85512345678"})
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := fx.post(t, "/v1/auth/otp/send", models.SendOTPRequest{PhoneNumber: "+85512345678"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
}

func TestVerifyOTP_Success(t *testing.T) {
	fx := newHandlerFixture(t)

	w := fx.post(t, "/v1/auth/otp/send", models.SendOTPRequest{PhoneNumber: "+85512345678"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, fx.sender.codes, 1)

	w = fx.post(t, "/v1/auth/otp/verify", models.VerifyOTPRequest{
		PhoneNumber: "+85512345678",
		OTPCode:     fx.sender.codes[0],
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	require.NotNil(t, resp.User)
	assert.Equal(t, "64b1f0c2a1b2c3d4e5f60718", resp.User.ID.Hex())
}

func TestVerifyOTP_WrongCode(t *testing.T) {
	fx := newHandlerFixture(t)
	ctx := context.Background()
	require.NoError(t, fx.store.SetWithTTL(ctx, "otp:+85512345678", "482913", 5*time.Minute))

	w := fx.post(t, "/v1/auth/otp/verify", models.VerifyOTPRequest{
		PhoneNumber: "+85512345678",
		OTPCode:     "482910",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "2 attempts remaining")
}

func TestVerifyOTP_UnknownPhone(t *testing.T) {
	fx := newHandlerFixture(t)
	w := fx.post(t, "/v1/auth/otp/verify", models.VerifyOTPRequest{
		PhoneNumber: "+85512345678",
		OTPCode:     "123456",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVerifyOTP_LockedOut(t *testing.T) {
	fx := newHandlerFixture(t)
	ctx := context.Background()
	require.NoError(t, fx.store.SetWithTTL(ctx, "otp:+85512345678", "482913", 5*time.Minute))

	for i := 0; i < 3; i++ {
		w := fx.post(t, "/v1/auth/otp/verify", models.VerifyOTPRequest{
			PhoneNumber: "+85512345678",
			OTPCode:     "000000",
		})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), fmt.Sprintf("%d attempts remaining", 2-i))
	}

	w := fx.post(t, "/v1/auth/otp/verify", models.VerifyOTPRequest{
		PhoneNumber: "+85512345678",
		OTPCode:     "482913",
	})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestGoogleSignIn_Success(t *testing.T) {
	fx := newHandlerFixture(t)
	w := fx.post(t, "/v1/auth/google-signin", models.GoogleSignInRequest{IDToken: "some-id-token"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
}

func TestGoogleSignIn_InvalidAssertion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mem := store.NewMemory()
	auth := services.NewAuthService(
		services.NewOTPRateLimiter(mem, 3, time.Hour),
		services.NewOTPService(mem, 5*time.Minute, 5*time.Minute, 3),
		services.NewTokenService("test-secret", 24*time.Hour),
		services.NewTokenBlacklist(mem, 24*time.Hour),
		stubResolver{},
		stubVerifier{err: models.ErrInvalidAssertion},
		&capturingSender{},
	)
	router := gin.New()
	router.POST("/v1/auth/google-signin", NewAuthHandler(auth).GoogleSignIn)

	payload, _ := json.Marshal(models.GoogleSignInRequest{IDToken: "bad-token"})
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/google-signin", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignOut(t *testing.T) {
	fx := newHandlerFixture(t)
	w := fx.post(t, "/v1/auth/signout", models.SignOutRequest{Token: "some-token"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Revoked token now appears in the registry
	_, err := fx.store.Get(context.Background(), "blacklist:some-token")
	assert.NoError(t, err)
}

func TestRefreshToken_NotImplemented(t *testing.T) {
	fx := newHandlerFixture(t)
	w := fx.post(t, "/v1/auth/refresh-token", gin.H{})
	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
