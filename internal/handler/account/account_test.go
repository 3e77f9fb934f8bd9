package account

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inviteflow/internal/model"
	"inviteflow/internal/service"
	"inviteflow/pkg/errors/ecode"
	"inviteflow/pkg/response"
	"inviteflow/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAccountService struct {
	issueCode  func(phone string) (string, error)
	verifyCode func(phone, code string) (model.VerifyCodeRes, error)
}

func (m *mockAccountService) IssueCode(_ context.Context, phone string) (string, error) {
	return m.issueCode(phone)
}

func (m *mockAccountService) VerifyCode(_ context.Context, phone, code string) (model.VerifyCodeRes, error) {
	return m.verifyCode(phone, code)
}

func (m *mockAccountService) AccountLogout(context.Context, string) error {
	return nil
}

func (m *mockAccountService) AccountGetInfo(context.Context, model.SessionIdentity) (model.AccountInfoRes, error) {
	return model.AccountInfoRes{}, service.ErrProfileNotFound
}

func (m *mockAccountService) AccountDelete(context.Context, string) error {
	return nil
}

func newRouter(srv service.AccountService, exposeCode bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator.LazyInitGinValidator("en")
	h := NewAccountHandler(srv, exposeCode)
	r := gin.New()
	r.POST("/send-code", h.SendCode())
	r.POST("/verify-code", h.VerifyCode())
	r.GET("/profile", h.AccountGetInfo())
	return r
}

func do(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, response.ApiResponse) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var res response.ApiResponse
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	return w, res
}

func TestSendCode(t *testing.T) {
	srv := &mockAccountService{issueCode: func(phone string) (string, error) {
		assert.Equal(t, "+10000000001", phone)
		return "1234", nil
	}}

	w, res := do(newRouter(srv, true), http.MethodPost, "/send-code", `{"phone_number":"+10000000001"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ecode.Success, res.Code)
	assert.Equal(t, map[string]interface{}{"verification_code": "1234"}, res.Data)

	// 关闭后不返回验证码
	w, res = do(newRouter(srv, false), http.MethodPost, "/send-code", `{"phone_number":"+10000000001"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{}, res.Data)
}

func TestSendCode_Validation(t *testing.T) {
	srv := &mockAccountService{issueCode: func(string) (string, error) {
		t.Fatal("service should not be called")
		return "", nil
	}}
	r := newRouter(srv, true)

	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "missing phone", body: `{}`, message: "phone_number is a required field"},
		{name: "bad phone", body: `{"phone_number":"abc"}`, message: "phone_number must be a valid phone number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, res := do(r, http.MethodPost, "/send-code", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, ecode.ValidateErr, res.Code)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestVerifyCode(t *testing.T) {
	srv := &mockAccountService{verifyCode: func(phone, code string) (model.VerifyCodeRes, error) {
		if code != "1234" {
			return model.VerifyCodeRes{}, service.ErrInvalidCredentials
		}
		return model.VerifyCodeRes{Token: "token", InviteCode: "aB3xY9"}, nil
	}}
	r := newRouter(srv, true)

	w, res := do(r, http.MethodPost, "/verify-code", `{"phone_number":"+10000000001","code_auth":"1234"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ecode.Success, res.Code)
	assert.Equal(t, "authentication succeeded", res.Message)
	data := res.Data.(map[string]interface{})
	assert.Equal(t, "token", data["token"])

	// 验证失败同样返回200，由code区分
	w, res = do(r, http.MethodPost, "/verify-code", `{"phone_number":"+10000000001","code_auth":"0000"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ecode.AuthCodeErr, res.Code)

	w, res = do(r, http.MethodPost, "/verify-code", `{"phone_number":"+10000000001"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ecode.ValidateErr, res.Code)
}

func TestAccountGetInfo_NotFound(t *testing.T) {
	w, res := do(newRouter(&mockAccountService{}, true), http.MethodGet, "/profile", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ecode.NotFoundErr, res.Code)
	assert.Equal(t, "profile not found", res.Message)
}
