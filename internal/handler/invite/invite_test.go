package invite

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"inviteflow/internal/consts"
	"inviteflow/internal/model"
	"inviteflow/internal/service"
	"inviteflow/pkg/errors/ecode"
	"inviteflow/pkg/response"
	"inviteflow/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockInviteService struct {
	redeemErr error
	inviter   model.InviterRes
	getErr    error
	identity  model.SessionIdentity
}

func (m *mockInviteService) RedeemInvite(_ context.Context, identity model.SessionIdentity, code string) (model.LinkOutcome, error) {
	m.identity = identity
	if m.redeemErr != nil {
		return model.LinkOutcome{}, m.redeemErr
	}
	return model.LinkOutcome{InviterId: 1}, nil
}

func (m *mockInviteService) GetInviter(_ context.Context, identity model.SessionIdentity) (model.InviterRes, error) {
	m.identity = identity
	return m.inviter, m.getErr
}

func newRouter(srv service.InviteService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator.LazyInitGinValidator("en")
	h := NewInviteHandler(srv)
	r := gin.New()
	// 模拟鉴权中间件写入的身份
	r.Use(func(c *gin.Context) {
		c.Set(consts.AccountID, int64(2))
		c.Set(consts.PhoneNumber, "+10000000002")
		c.Next()
	})
	r.POST("/profile", h.RedeemInvite())
	r.GET("/phone-invited", h.GetInviter())
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

func TestRedeemInvite(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{name: "success", err: nil, wantStatus: http.StatusOK, wantCode: ecode.Success},
		{name: "code not found", err: service.ErrInviteCodeNotFound, wantStatus: http.StatusOK, wantCode: ecode.InviteCodeNotFoundErr},
		{name: "already linked", err: service.ErrAlreadyLinked, wantStatus: http.StatusOK, wantCode: ecode.InviteAlreadyLinkedErr},
		{name: "self invite", err: service.ErrSelfInvite, wantStatus: http.StatusOK, wantCode: ecode.InviteSelfErr},
		{name: "multiple profiles", err: service.ErrMultipleProfiles, wantStatus: http.StatusOK, wantCode: ecode.MultipleProfilesErr},
		{name: "store failure", err: errors.New("connection refused"), wantStatus: http.StatusInternalServerError, wantCode: ecode.Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := &mockInviteService{redeemErr: tt.err}
			w, res := do(newRouter(srv), http.MethodPost, "/profile", `{"invite_code":"aB3xY9"}`)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantCode, res.Code)
			assert.Equal(t, model.SessionIdentity{AccountId: 2, PhoneNumber: "+10000000002"}, srv.identity)
		})
	}
}

func TestRedeemInvite_Validation(t *testing.T) {
	w, res := do(newRouter(&mockInviteService{}), http.MethodPost, "/profile", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, ecode.ValidateErr, res.Code)
}

func TestGetInviter(t *testing.T) {
	srv := &mockInviteService{inviter: model.InviterRes{Invited: true, InvitedNumber: "+10000000001"}}
	w, res := do(newRouter(srv), http.MethodGet, "/phone-invited", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"invited": true, "invited_number": "+10000000001"}, res.Data)

	srv = &mockInviteService{}
	_, res = do(newRouter(srv), http.MethodGet, "/phone-invited", "")
	assert.Equal(t, ecode.Success, res.Code)
	assert.Equal(t, "you were not invited by anyone", res.Message)

	srv = &mockInviteService{getErr: service.ErrDanglingReference}
	w, res = do(newRouter(srv), http.MethodGet, "/phone-invited", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, ecode.DanglingInviterErr, res.Code)
	assert.Equal(t, "inviter profile not found", res.Message)
}
