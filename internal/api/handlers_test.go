package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"climbing-gym/belay/internal/auth"
	"climbing-gym/belay/internal/constants"
	"climbing-gym/belay/internal/middleware"
	"climbing-gym/belay/internal/models/dtos/requests"
	"climbing-gym/belay/internal/models/dtos/responses"
	gormModels "climbing-gym/belay/internal/models/gorm"
	"climbing-gym/belay/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAccountService struct {
	signUpFunc         func(ctx context.Context, req requests.SignUpRequest) (*responses.SignUpResponse, error)
	signUpGymFunc      func(ctx context.Context, req requests.GymSignUpRequest) (*responses.SignUpResponse, error)
	loginFunc          func(ctx context.Context, req requests.LoginRequest) (*responses.TokenResponse, error)
	changePasswordFunc func(ctx context.Context, userID uint, req requests.ChangePasswordRequest) error
	verifyEmailFunc    func(ctx context.Context, token string) error
}

func (m *mockAccountService) SignUp(ctx context.Context, req requests.SignUpRequest) (*responses.SignUpResponse, error) {
	return m.signUpFunc(ctx, req)
}

func (m *mockAccountService) SignUpGym(ctx context.Context, req requests.GymSignUpRequest) (*responses.SignUpResponse, error) {
	return m.signUpGymFunc(ctx, req)
}

func (m *mockAccountService) Login(ctx context.Context, req requests.LoginRequest) (*responses.TokenResponse, error) {
	return m.loginFunc(ctx, req)
}

func (m *mockAccountService) ChangePassword(ctx context.Context, userID uint, req requests.ChangePasswordRequest) error {
	return m.changePasswordFunc(ctx, userID, req)
}

func (m *mockAccountService) VerifyEmail(ctx context.Context, token string) error {
	return m.verifyEmailFunc(ctx, token)
}

type mockMemberService struct {
	listFunc    func(ctx context.Context, gymCtx services.GymContext, q services.MemberQuery) (*responses.MemberPage, error)
	countFunc   func(ctx context.Context, gymCtx services.GymContext) (*responses.MemberCount, error)
	blockFunc   func(ctx context.Context, gymCtx services.GymContext, userID uint) error
	profileFunc func(ctx context.Context, gymCtx services.GymContext, userID uint) (*responses.MemberProfile, error)
}

func (m *mockMemberService) ListMembers(ctx context.Context, gymCtx services.GymContext, q services.MemberQuery) (*responses.MemberPage, error) {
	return m.listFunc(ctx, gymCtx, q)
}

func (m *mockMemberService) TotalMemberCount(ctx context.Context, gymCtx services.GymContext) (*responses.MemberCount, error) {
	return m.countFunc(ctx, gymCtx)
}

func (m *mockMemberService) BlockMember(ctx context.Context, gymCtx services.GymContext, userID uint) error {
	return m.blockFunc(ctx, gymCtx, userID)
}

func (m *mockMemberService) MemberProfile(ctx context.Context, gymCtx services.GymContext, userID uint) (*responses.MemberProfile, error) {
	return m.profileFunc(ctx, gymCtx, userID)
}

type staticResolver struct{}

func (staticResolver) Resolve(_ context.Context, claims auth.UserClaims) (services.GymContext, error) {
	return services.NewOwnerContext(&gormModels.Gym{Base: gormModels.Base{ID: 12}, UserID: claims.UserID()}), nil
}

// gymRouter mounts handler behind the gym context middleware the way the real routes do
func gymRouter(method, pattern string, handler http.HandlerFunc) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &auth.JWTClaims{UserIDValue: 1, RoleValues: []constants.Role{constants.RoleGymOwner}}
			next.ServeHTTP(w, r.WithContext(auth.SetUserClaims(r.Context(), claims)))
		})
	})
	r.Use(middleware.GymContextMiddleware(staticResolver{}))
	r.Method(method, pattern, handler)
	return r
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) responses.ErrorResponse {
	t.Helper()
	var body responses.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSignUpHandler(t *testing.T) {
	var got requests.SignUpRequest
	svc := &mockAccountService{signUpFunc: func(_ context.Context, req requests.SignUpRequest) (*responses.SignUpResponse, error) {
		got = req
		return &responses.SignUpResponse{UserID: 3, Message: "Check your inbox"}, nil
	}}
	handler := SignUpHandler(svc)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup",
		strings.NewReader(`{"email":"ada@belay.test","password":"supersecret","full_name":"Ada"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ada@belay.test", got.Email)
	assert.JSONEq(t, `{"data":{"user_id":3,"message":"Check your inbox"}}`, rec.Body.String())
}

func TestSignUpHandler_Validation(t *testing.T) {
	svc := &mockAccountService{signUpFunc: func(context.Context, requests.SignUpRequest) (*responses.SignUpResponse, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}
	handler := SignUpHandler(svc)

	cases := []struct {
		name    string
		body    string
		wantLoc string
	}{
		{"malformed json", `{"email":`, "body"},
		{"missing email", `{"password":"supersecret","full_name":"Ada"}`, "email"},
		{"bad email", `{"email":"nope","password":"supersecret","full_name":"Ada"}`, "email"},
		{"short password", `{"email":"ada@belay.test","password":"short","full_name":"Ada"}`, "password"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/signup", strings.NewReader(tc.body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.wantLoc, decodeError(t, rec).Location)
		})
	}
}

func TestLoginHandler_MapsServiceErrors(t *testing.T) {
	svc := &mockAccountService{loginFunc: func(_ context.Context, req requests.LoginRequest) (*responses.TokenResponse, error) {
		if req.Password == "right-password" {
			return &responses.TokenResponse{AccessToken: "tok", UserID: 1, Roles: []string{"CLIMBER"}}, nil
		}
		return nil, &services.ServiceError{Code: constants.ErrCodeEmailUnverified, Message: "Please verify your email"}
	}}
	handler := LoginHandler(svc)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"ada@belay.test","password":"wrong"}`)))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Please verify your email", decodeError(t, rec).Message)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"ada@belay.test","password":"right-password"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"tok"`)
}

func TestChangePasswordHandler(t *testing.T) {
	var gotUser uint
	svc := &mockAccountService{changePasswordFunc: func(_ context.Context, userID uint, _ requests.ChangePasswordRequest) error {
		gotUser = userID
		return nil
	}}
	handler := ChangePasswordHandler(svc)
	body := `{"old_password":"supersecret","new_password":"newsecret1"}`

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/user/change-password", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/change-password", strings.NewReader(body))
	req = req.WithContext(auth.SetUserClaims(req.Context(), &auth.JWTClaims{UserIDValue: 42}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(42), gotUser)

	same := httptest.NewRequest(http.MethodPost, "/api/v1/user/change-password",
		strings.NewReader(`{"old_password":"supersecret","new_password":"supersecret"}`))
	same = same.WithContext(auth.SetUserClaims(same.Context(), &auth.JWTClaims{UserIDValue: 42}))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, same)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "new_password", decodeError(t, rec).Location)
}

func TestVerifyEmailHandler(t *testing.T) {
	svc := &mockAccountService{verifyEmailFunc: func(_ context.Context, token string) error {
		if token == "good" {
			return nil
		}
		return &services.ServiceError{Code: constants.ErrCodeTokenExpired, Message: "Token expired"}
	}}
	handler := VerifyEmailHandler(svc)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/verify-email?token=good", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), constants.MsgEmailVerified)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/auth/verify-email?token=old", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListMembersHandler_PassesQuery(t *testing.T) {
	var got services.MemberQuery
	var gotGym uint
	svc := &mockMemberService{listFunc: func(_ context.Context, gymCtx services.GymContext, q services.MemberQuery) (*responses.MemberPage, error) {
		got = q
		gotGym = gymCtx.GymID()
		return &responses.MemberPage{Count: 0, Page: q.Page, Results: []responses.MemberListItem{}}, nil
	}}
	router := gymRouter(http.MethodGet, "/api/v1/gym/members", ListMembersHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet,
		"/api/v1/gym/members?page=2&page_size=10&climbing_level=%205.10a%20&age_range=18-23&gender=1&order_by=-submitted&search=ada", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, uint(12), gotGym)
	assert.Equal(t, services.MemberQuery{
		ClimbingLevel: "5.10a",
		AgeRange:      "18-23",
		Gender:        "1",
		Search:        "ada",
		OrderBy:       "-submitted",
		Page:          2,
		PageSize:      10,
	}, got)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/gym/members?page=two", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "page", decodeError(t, rec).Location)
}

func TestMemberHandlers_NoGymContext(t *testing.T) {
	svc := &mockMemberService{}
	rec := httptest.NewRecorder()
	MemberCountHandler(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/gym/members/count", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestBlockMemberHandler(t *testing.T) {
	var blocked uint
	svc := &mockMemberService{blockFunc: func(_ context.Context, _ services.GymContext, userID uint) error {
		if userID == 404 {
			return &services.ServiceError{Code: constants.ErrCodeNotFound, Message: "Member not found"}
		}
		blocked = userID
		return nil
	}}
	router := gymRouter(http.MethodDelete, "/api/v1/gym/members/{user_id}", BlockMemberHandler(svc))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/gym/members/7", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(7), blocked)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/gym/members/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/gym/members/404", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

type mockWebhook struct {
	handleFunc func(ctx context.Context, payload []byte, signature string) error
}

func (m *mockWebhook) Handle(ctx context.Context, payload []byte, signature string) error {
	return m.handleFunc(ctx, payload, signature)
}

func TestStripeWebhookHandler(t *testing.T) {
	var gotSig string
	var gotBody string
	handler := StripeWebhookHandler(&mockWebhook{handleFunc: func(_ context.Context, payload []byte, signature string) error {
		gotSig, gotBody = signature, string(payload)
		if signature == "" {
			return services.NewValidationError("Stripe-Signature", "signature verification failed")
		}
		return nil
	}})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(`{"id":"evt_1"}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t=1,v1=abc", gotSig)
	assert.Equal(t, `{"id":"evt_1"}`, gotBody)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Stripe-Signature", decodeError(t, rec).Location)
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

func TestHealthCheckHandler(t *testing.T) {
	up := time.Now().Add(-time.Minute)

	rec := httptest.NewRecorder()
	HealthCheckHandler(map[string]pinger{"postgres": fakePinger{}, "redis": fakePinger{}}, up).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	HealthCheckHandler(map[string]pinger{"postgres": fakePinger{}, "redis": fakePinger{err: errors.New("connection refused")}}, up).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthCheck", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body struct {
		Data HealthCheckResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "down", body.Data.Status)
	assert.Equal(t, "connection refused", body.Data.Services["redis"].Details)
	assert.Equal(t, "ok", body.Data.Services["postgres"].Status)
}
