package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"scholaflow/backend/config"
	"scholaflow/backend/internal"
	"scholaflow/backend/internal/model"
	"scholaflow/backend/internal/service"
	"scholaflow/backend/internal/testutil"
	"scholaflow/backend/validators"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const bucketBase = "https://abc.supabase.co/storage/v1/object/public"

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	router  *gin.Engine
	db      *gorm.DB
	storage *testutil.MemStorage
}

type envelope struct {
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	StatusCode int             `json:"statusCode"`
}

func setup(t *testing.T) *env {
	t.Helper()

	viper.Reset()
	t.Cleanup(viper.Reset)

	config.SetDefaults()
	viper.Set("host.localhost_url", "http://localhost:3000")
	viper.Set("security.rate_limit.requests", 1000)

	gdb := testutil.NewDB(t)
	st := testutil.NewMemStorage()

	d := &internal.Deps{
		DB:         gdb,
		Storage:    st,
		Sessions:   service.NewSessionValidator(gdb),
		Deleter:    service.NewAccountDeleter(gdb, st, "lh3.googleusercontent.com"),
		Classrooms: service.NewClassroomService(gdb, 2),
		Validate:   validators.New(),
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	return &env{router: NewRouter(ctx, d), db: gdb, storage: st}
}

func (e *env) create(t *testing.T, values ...any) {
	t.Helper()
	for _, v := range values {
		require.NoError(t, e.db.Create(v).Error)
	}
}

// signIn creates a user with a live session and returns its bearer token.
func (e *env) signIn(t *testing.T, userID, avatar string) string {
	t.Helper()

	token := "tok-" + userID
	e.create(t,
		&model.User{ID: userID, Name: "User " + userID, Email: userID + "@example.com", Image: avatar},
		&model.Session{Token: token, UserID: userID, ExpiresAt: time.Now().Add(time.Hour)},
	)

	return token
}

func (e *env) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)

	var out envelope
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), rr.Body.String())
	}

	return rr, out
}

func count(t *testing.T, db *gorm.DB, m any, userID string) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Model(m).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func TestRootEndpoints(t *testing.T) {
	e := setup(t)

	rr, _ := e.do(t, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"message":"ScholaFlow Backend API","version":"1.0.0","status":"running","environment":"development"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))

	rr, _ = e.do(t, http.MethodHead, "/v1/api/heartbeat", "", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAccountDeleteRejects(t *testing.T) {
	e := setup(t)
	token := e.signIn(t, "u1", "")
	e.create(t,
		&model.Session{Token: "expired", UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute)},
		&model.Session{Token: "ghost-token", UserID: "ghost", ExpiresAt: time.Now().Add(time.Hour)},
		&model.Notification{UserID: "u1", Type: model.NotificationJoin, FromUserName: "Bob", FromUserImage: "x", ResourceID: "r", ResourceContent: "c", ResourceURL: "/"},
	)

	tcases := []struct {
		name   string
		header string
		body   string
		status int
		msg    string
	}{
		{name: "no body", header: "Bearer " + token, status: 400, msg: "User ID is required"},
		{name: "empty userId", header: "Bearer " + token, body: `{"userId":""}`, status: 400, msg: "User ID is required"},
		{name: "no header", body: `{"userId":"u1"}`, status: 401, msg: "No authorization header found"},
		{name: "malformed header", header: "Token " + token, body: `{"userId":"u1"}`, status: 401, msg: "Invalid authorization header format"},
		{name: "unknown token", header: "Bearer nope", body: `{"userId":"u1"}`, status: 401, msg: "Invalid or expired token"},
		{name: "expired token", header: "Bearer expired", body: `{"userId":"u1"}`, status: 401, msg: "Invalid or expired token"},
		{name: "someone else", header: "Bearer " + token, body: `{"userId":"u2"}`, status: 403, msg: "You are not authorized to delete another user's data"},
		{name: "missing user", header: "Bearer ghost-token", body: `{"userId":"ghost"}`, status: 404, msg: "User not found"},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/v1/api/accounts", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			rr := httptest.NewRecorder()
			e.router.ServeHTTP(rr, req)

			var got envelope
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))

			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.status, got.StatusCode)
			assert.Equal(t, tc.msg, got.Message)
			assert.Equal(t, http.StatusText(tc.status), got.Error)
		})
	}

	// Nothing was deleted along the way
	assert.EqualValues(t, 1, count(t, e.db, &model.Notification{}, "u1"))
	assert.Empty(t, e.storage.Removed())
}

func TestAccountDeleteMissingUserIDSkipsDatabase(t *testing.T) {
	e := setup(t)
	token := e.signIn(t, "u1", "")

	queries := testutil.CountQueries(e.db)

	rr, _ := e.do(t, http.MethodDelete, "/v1/api/accounts", token, `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, queries.Load())
}

func TestAccountDeleteEndToEnd(t *testing.T) {
	e := setup(t)
	avatar := bucketBase + "/avatars/u1/me.png"
	token := e.signIn(t, "u1", avatar)

	class := &model.Classroom{Name: "Physics", Section: "A", Code: "phy", CardBackground: "#fff", TeacherID: "u1", TeacherName: "Ada", TeacherImage: avatar}
	e.create(t, class)

	stream := &model.Stream{UserID: "u1", UserName: "Ada", UserImage: avatar, ClassID: class.ID, ClassName: class.Name}
	msg := "hello"
	attachment := bucketBase + "/comments/u1/diagram.png"
	e.create(t,
		stream,
		&model.Chat{UserID: "u1", UserName: "Ada", UserImage: avatar, ClassID: class.ID, Message: &msg},
		&model.Chat{UserID: "u1", UserName: "Ada", UserImage: avatar, ClassID: class.ID, Attachments: model.StringSlice{bucketBase + "/messages/u1/notes.pdf"}},
		&model.StreamComment{StreamID: stream.ID, ClassID: class.ID, UserID: "u1", UserName: "Ada", UserImage: avatar, Attachment: &attachment},
		&model.Notification{UserID: "u1", Type: model.NotificationJoin, FromUserName: "Bob", FromUserImage: "x", ResourceID: class.ID, ResourceContent: "joined", ResourceURL: "/c"},
		&model.Notification{UserID: "u1", Type: model.NotificationComment, FromUserName: "Bob", FromUserImage: "x", ResourceID: stream.ID, ResourceContent: "nice", ResourceURL: "/s"},
	)
	e.storage.Put("messages", "u1/notes.pdf")
	e.storage.Put("comments", "u1/diagram.png")
	e.storage.Put("avatars", "u1/me.png")

	rr, got := e.do(t, http.MethodDelete, "/v1/api/accounts", token, `{"userId":"u1"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "User's associated data have been successfully deleted", got.Message)
	assert.Equal(t, "null", string(got.Data))

	assert.Zero(t, count(t, e.db, &model.Chat{}, "u1"))
	assert.Zero(t, count(t, e.db, &model.StreamComment{}, "u1"))
	assert.Zero(t, count(t, e.db, &model.Stream{}, "u1"))
	assert.Zero(t, count(t, e.db, &model.Notification{}, "u1"))
	assert.ElementsMatch(t, []string{"messages/u1/notes.pdf", "comments/u1/diagram.png", "avatars/u1/me.png"}, e.storage.Removed())

	t.Run("rerun", func(t *testing.T) {
		rr, _ := e.do(t, http.MethodDelete, "/v1/api/accounts", token, `{"userId":"u1"}`)
		assert.Equal(t, http.StatusOK, rr.Code)
	})
}

func TestAccountDeleteKeepsOAuthAvatar(t *testing.T) {
	e := setup(t)
	token := e.signIn(t, "u1", "https://lh3.googleusercontent.com/a/ACg8ocK=s96-c")

	rr, _ := e.do(t, http.MethodDelete, "/v1/api/accounts", token, `{"userId":"u1"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, e.storage.Removed())
}

func TestAccountDeleteStorageFailure(t *testing.T) {
	e := setup(t)
	token := e.signIn(t, "u1", bucketBase+"/avatars/u1/me.png")
	e.storage.FailBucket = "avatars"
	e.storage.FailErr = assert.AnError

	rr, got := e.do(t, http.MethodDelete, "/v1/api/accounts", token, `{"userId":"u1"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "There was an error deleting the user's data.", got.Message)
	assert.Equal(t, "Internal Server Error", got.Error)
	assert.NotContains(t, rr.Body.String(), assert.AnError.Error())
}

func TestUserEndpoints(t *testing.T) {
	e := setup(t)
	token := e.signIn(t, "u1", "")

	tcases := []struct {
		name   string
		path   string
		token  string
		status int
		msg    string
	}{
		{name: "email missing", path: "/v1/api/users", status: 400, msg: "Email parameter is required"},
		{name: "email invalid", path: "/v1/api/users?email=nope", status: 400, msg: "Invalid email format"},
		{name: "email unknown", path: "/v1/api/users?email=who@example.com", status: 404, msg: "User not found"},
		{name: "email found", path: "/v1/api/users?email=u1@example.com", status: 200, msg: "User found"},
		{name: "id without session", path: "/v1/api/users/u1", status: 401, msg: "No authorization header found"},
		{name: "id unknown", path: "/v1/api/users/u9", token: token, status: 404, msg: "User not found"},
		{name: "id found", path: "/v1/api/users/u1", token: token, status: 200, msg: "User found"},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			rr, got := e.do(t, http.MethodGet, tc.path, tc.token, "")
			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.msg, got.Message)
		})
	}
}

func TestUserClassrooms(t *testing.T) {
	e := setup(t)
	token := e.signIn(t, "u1", "")

	tcases := []struct {
		name   string
		query  string
		token  string
		status int
		msg    string
	}{
		{name: "type missing", token: token, status: 400, msg: "Class type parameter is required"},
		{name: "type invalid", query: "?type=archived", token: token, status: 400, msg: "Invalid class type."},
		{name: "no session", query: "?type=created", status: 401, msg: "No authorization header found"},
		{name: "created empty", query: "?type=created", token: token, status: 200, msg: "No classes found"},
		{name: "enrolled empty", query: "?type=enrolled", token: token, status: 404, msg: "No classes found"},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			rr, got := e.do(t, http.MethodGet, "/v1/api/users/u1/classrooms"+tc.query, tc.token, "")
			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.msg, got.Message)
		})
	}

	e.create(t, &model.Classroom{Name: "Physics", Section: "A", Code: "phy", CardBackground: "#fff", TeacherID: "u1", TeacherName: "Ada", TeacherImage: ""})

	rr, got := e.do(t, http.MethodGet, "/v1/api/users/u1/classrooms?type=created", token, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Classes found", got.Message)

	var classes []model.Classroom
	require.NoError(t, json.Unmarshal(got.Data, &classes))
	require.Len(t, classes, 1)
	assert.Equal(t, "Physics", classes[0].Name)
}

func TestAccountFetch(t *testing.T) {
	e := setup(t)
	token := e.signIn(t, "u1", "")

	rr, _ := e.do(t, http.MethodGet, "/v1/api/accounts/u1", "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, got := e.do(t, http.MethodGet, "/v1/api/accounts/u1", token, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Account not found", got.Message)

	password := "argon2-hash"
	e.create(t, &model.Account{AccountID: "acc", ProviderID: "credential", UserID: "u1", Password: &password})

	rr, got = e.do(t, http.MethodGet, "/v1/api/accounts/u1", token, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Account found", got.Message)
	assert.NotContains(t, string(got.Data), password)
}

func TestClassroomFetch(t *testing.T) {
	e := setup(t)
	token := e.signIn(t, "u1", "")

	rr, got := e.do(t, http.MethodGet, "/v1/api/classrooms/not-a-uuid", token, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid class ID format", got.Message)

	missing := "00000000-0000-0000-0000-000000000000"

	rr, _ = e.do(t, http.MethodGet, "/v1/api/classrooms/"+missing, "", "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr, got = e.do(t, http.MethodGet, "/v1/api/classrooms/"+missing, token, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "No class found", got.Message)
	assert.Equal(t, "null", string(got.Data))

	class := &model.Classroom{Name: "Physics", Section: "A", Code: "phy", CardBackground: "#fff", TeacherID: "u1", TeacherName: "Ada", TeacherImage: ""}
	e.create(t, class)

	rr, got = e.do(t, http.MethodGet, "/v1/api/classrooms/"+class.ID, token, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Class found", got.Message)
}

func TestClassroomCreate(t *testing.T) {
	e := setup(t)
	token := e.signIn(t, "u1", "")

	valid := `{"name":"Physics","section":"A","cardBackground":"#a7adcb","illustrationIndex":0,"code":"phy101","teacherId":"u1","teacherName":"Ada","teacherImage":""}`

	tcases := []struct {
		name   string
		body   string
		token  string
		status int
		msg    string
	}{
		{name: "no body", token: token, status: 400, msg: "Request body is required"},
		{name: "empty object", body: `{}`, token: token, status: 400, msg: "Request body is required"},
		{name: "invalid", body: `{"name":"Physics","teacherId":"u1"}`, token: token, status: 400, msg: "section is required, cardBackground is required, illustrationIndex is required, code is required, teacherName is required"},
		{name: "no session", body: valid, status: 401, msg: "No authorization header found"},
		{name: "other teacher", body: strings.Replace(valid, `"teacherId":"u1"`, `"teacherId":"u2"`, 1), token: token, status: 403, msg: "You are not authorized to create a classroom for another teacher"},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			rr, got := e.do(t, http.MethodPost, "/v1/api/classrooms", tc.token, tc.body)
			assert.Equal(t, tc.status, rr.Code)
			assert.Equal(t, tc.msg, got.Message)
		})
	}

	rr, got := e.do(t, http.MethodPost, "/v1/api/classrooms", token, valid)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "Classroom created successfully", got.Message)

	var link string
	require.NoError(t, json.Unmarshal(got.Data, &link))

	var class model.Classroom
	require.NoError(t, e.db.Where("teacher_id = ?", "u1").First(&class).Error)
	assert.Equal(t, "/classroom/class/"+class.ID, link)

	// The limit is 2 per day in these tests
	rr, _ = e.do(t, http.MethodPost, "/v1/api/classrooms", token, valid)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr, got = e.do(t, http.MethodPost, "/v1/api/classrooms", token, valid)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "Daily classroom creation limit reached", got.Message)
}
