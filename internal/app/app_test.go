package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"quiz_master_backend/internal/config"
	"quiz_master_backend/internal/model"
	"quiz_master_backend/internal/util"
	"quiz_master_backend/pkg/database"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type envelope struct {
	Code     int             `json:"code"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
	Redirect string          `json:"redirect"`
}

type testServer struct {
	t          *testing.T
	app        *App
	adminToken string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.JWT.Secret = "router-test-secret"
	cfg.JWT.ExpireTime = time.Hour
	cfg.RateLimit.MaxRequests = 1000
	cfg.RateLimit.WindowMinutes = 1
	cfg.Storage.Type = util.StorageLocal
	cfg.Storage.LocalPath = t.TempDir()
	cfg.Quiz.MaxAttempts = 2
	cfg.Quiz.TimerTTL = time.Hour
	cfg.Quiz.LandingPath = "/quizzes"
	cfg.Quiz.MaxAnswerSize = 64

	app, err := Build(cfg, db, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	admin := &model.User{Username: "admin", Email: "admin@example.com", Password: "x", Role: model.Admin}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}
	tok, err := util.GenerateJWT(admin, cfg.JWT.Secret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return &testServer{t: t, app: app, adminToken: tok}
}

func (s *testServer) do(method, path, token string, body interface{}) (int, envelope) {
	s.t.Helper()
	var req *http.Request
	switch b := body.(type) {
	case nil:
		req = httptest.NewRequest(method, path, nil)
	case url.Values:
		req = httptest.NewRequest(method, path, strings.NewReader(b.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			s.t.Fatal(err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		s.t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
	}
	return w.Code, env
}

func (s *testServer) mustDo(method, path, token string, body interface{}, want int, out interface{}) envelope {
	s.t.Helper()
	code, env := s.do(method, path, token, body)
	if code != want {
		s.t.Fatalf("%s %s = %d (%s), want %d", method, path, code, env.Message, want)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			s.t.Fatalf("decode data: %v", err)
		}
	}
	return env
}

// learner registers and logs in a new account and returns its token.
func (s *testServer) learner(username string) string {
	s.t.Helper()
	s.mustDo(http.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"fullname": "Test Learner",
		"email":    username + "@example.com",
		"dob":      "2001-04-05",
		"password": "correct-horse",
	}, http.StatusCreated, nil)

	var login struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	s.mustDo(http.MethodPost, "/api/login", "", map[string]string{
		"username": username,
		"password": "correct-horse",
	}, http.StatusOK, &login)
	if login.Token == "" || login.User.Role != model.Student {
		s.t.Fatalf("login = %+v", login)
	}
	return login.Token
}

type seededQuiz struct {
	id        uint
	questions []uint
}

// seedQuiz builds a quiz through the admin API. Each question's answer is its first option.
func (s *testServer) seedQuiz(title string, dueAt time.Time, hidden bool, weights ...int) seededQuiz {
	s.t.Helper()
	var subject, chapter, quiz model.BaseModel
	s.mustDo(http.MethodPost, "/api/admin/subjects", s.adminToken,
		map[string]string{"name": title + " subject"}, http.StatusCreated, &subject)
	s.mustDo(http.MethodPost, fmt.Sprintf("/api/admin/subjects/%d/chapters", subject.ID), s.adminToken,
		map[string]string{"name": title + " chapter"}, http.StatusCreated, &chapter)
	s.mustDo(http.MethodPost, "/api/admin/quizzes", s.adminToken, map[string]interface{}{
		"chapterId":       chapter.ID,
		"title":           title,
		"dueAt":           dueAt,
		"durationMinutes": 20,
		"hidden":          hidden,
	}, http.StatusCreated, &quiz)

	sq := seededQuiz{id: quiz.ID}
	for i, w := range weights {
		var q model.BaseModel
		s.mustDo(http.MethodPost, fmt.Sprintf("/api/admin/quizzes/%d/questions", quiz.ID), s.adminToken, map[string]interface{}{
			"statement": fmt.Sprintf("%s question %d", title, i+1),
			"option1":   "right",
			"option2":   "wrong",
			"option3":   "other",
			"option4":   "none",
			"answer":    "right",
			"weightage": w,
		}, http.StatusCreated, &q)
		sq.questions = append(sq.questions, q.ID)
	}
	return sq
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	tok := s.learner("ada")

	var profile model.User
	s.mustDo(http.MethodGet, "/api/profile", tok, nil, http.StatusOK, &profile)
	if profile.Username != "ada" || profile.DateOfBirth == nil {
		t.Fatalf("profile = %+v", profile)
	}

	s.mustDo(http.MethodPost, "/api/register", "", map[string]string{
		"username": "ada",
		"email":    "ada2@example.com",
		"password": "another-password",
	}, http.StatusConflict, nil)

	s.mustDo(http.MethodPost, "/api/register", "", map[string]string{
		"username": "   ",
		"email":    "blank@example.com",
		"password": "another-password",
	}, http.StatusBadRequest, nil)

	s.mustDo(http.MethodPost, "/api/login", "", map[string]string{
		"username": "ada",
		"password": "wrong-password",
	}, http.StatusUnauthorized, nil)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	tok := s.learner("grace")

	s.mustDo(http.MethodGet, "/api/admin/users", "", nil, http.StatusUnauthorized, nil)
	s.mustDo(http.MethodGet, "/api/admin/users", tok, nil, http.StatusForbidden, nil)

	var page struct {
		Total int64 `json:"total"`
	}
	s.mustDo(http.MethodGet, "/api/admin/users", s.adminToken, nil, http.StatusOK, &page)
	if page.Total != 1 {
		t.Fatalf("learners = %d, want 1", page.Total)
	}
}

func TestAttemptFlow(t *testing.T) {
	s := newTestServer(t)
	tok := s.learner("alan")
	quiz := s.seedQuiz("Capitals", time.Now().Add(24*time.Hour), false, 3, 1)

	var page struct {
		AttemptNumber int `json:"attemptNumber"`
		AttemptsLeft  int `json:"attemptsLeft"`
		Questions     []struct {
			ID      uint     `json:"id"`
			Options []string `json:"options"`
		} `json:"questions"`
	}
	s.mustDo(http.MethodGet, fmt.Sprintf("/api/quizzes/%d/attempt", quiz.id), tok, nil, http.StatusOK, &page)
	if page.AttemptNumber != 1 || page.AttemptsLeft != 2 || len(page.Questions) != 2 {
		t.Fatalf("attempt page = %+v", page)
	}
	if len(page.Questions[0].Options) != 4 {
		t.Fatalf("options = %v", page.Questions[0].Options)
	}

	type detail struct {
		Score struct {
			AttemptNumber int `json:"attemptNumber"`
			Score         int `json:"score"`
		} `json:"score"`
		Answers []struct {
			InputAnswer *string `json:"inputAnswer"`
			Correct     bool    `json:"correct"`
		} `json:"answers"`
	}

	var first detail
	s.mustDo(http.MethodPost, fmt.Sprintf("/api/quizzes/%d/submit", quiz.id), tok, map[string]interface{}{
		"answers": map[string]string{
			fmt.Sprint(quiz.questions[0]): "right",
			fmt.Sprint(quiz.questions[1]): "right",
		},
	}, http.StatusCreated, &first)
	if first.Score.AttemptNumber != 1 || first.Score.Score != 100 {
		t.Fatalf("first attempt = %+v", first.Score)
	}

	// form submission, second question left unanswered
	var second detail
	s.mustDo(http.MethodPost, fmt.Sprintf("/api/quizzes/%d/submit", quiz.id), tok, url.Values{
		fmt.Sprint(quiz.questions[0]): {"right"},
	}, http.StatusCreated, &second)
	if second.Score.AttemptNumber != 2 || second.Score.Score != 75 {
		t.Fatalf("second attempt = %+v", second.Score)
	}
	if len(second.Answers) != 2 || second.Answers[1].InputAnswer != nil || second.Answers[1].Correct {
		t.Fatalf("second answers = %+v", second.Answers)
	}

	env := s.mustDo(http.MethodPost, fmt.Sprintf("/api/quizzes/%d/submit", quiz.id), tok, url.Values{}, http.StatusForbidden, nil)
	if env.Redirect != "/quizzes" {
		t.Fatalf("redirect = %q", env.Redirect)
	}
	s.mustDo(http.MethodGet, fmt.Sprintf("/api/quizzes/%d/attempt", quiz.id), tok, nil, http.StatusForbidden, nil)

	var scores []struct {
		AttemptNumber int `json:"attemptNumber"`
	}
	s.mustDo(http.MethodGet, "/api/scores", tok, nil, http.StatusOK, &scores)
	if len(scores) != 2 {
		t.Fatalf("scores = %+v", scores)
	}

	var stored detail
	s.mustDo(http.MethodGet, fmt.Sprintf("/api/scores/%d/attempts/1", quiz.id), tok, nil, http.StatusOK, &stored)
	if stored.Score.Score != 100 || len(stored.Answers) != 2 {
		t.Fatalf("stored detail = %+v", stored)
	}
	s.mustDo(http.MethodGet, fmt.Sprintf("/api/scores/%d/attempts/3", quiz.id), tok, nil, http.StatusNotFound, nil)
	s.mustDo(http.MethodGet, fmt.Sprintf("/api/scores/%d/attempts/0", quiz.id), tok, nil, http.StatusBadRequest, nil)

	var export struct {
		Rows int    `json:"rows"`
		URL  string `json:"url"`
	}
	s.mustDo(http.MethodPost, fmt.Sprintf("/api/admin/quizzes/%d/report", quiz.id), s.adminToken, nil, http.StatusCreated, &export)
	if export.Rows != 2 || !strings.HasPrefix(export.URL, "/uploads/reports/") {
		t.Fatalf("export = %+v", export)
	}
}

func TestAttemptFlowRejections(t *testing.T) {
	s := newTestServer(t)
	tok := s.learner("edsger")
	hidden := s.seedQuiz("Hidden", time.Now().Add(24*time.Hour), true, 1)
	closed := s.seedQuiz("Closed", time.Now().Add(-time.Hour), false, 1)
	open := s.seedQuiz("Open", time.Now().Add(24*time.Hour), false, 1)

	cases := []struct {
		name string
		path string
		body interface{}
		want int
	}{
		{"hidden", fmt.Sprintf("/api/quizzes/%d/submit", hidden.id), url.Values{}, http.StatusForbidden},
		{"past due", fmt.Sprintf("/api/quizzes/%d/submit", closed.id), url.Values{}, http.StatusForbidden},
		{"unknown quiz", "/api/quizzes/9999/submit", url.Values{}, http.StatusNotFound},
		{"malformed id", "/api/quizzes/abc/submit", url.Values{}, http.StatusNotFound},
		{"foreign key", fmt.Sprintf("/api/quizzes/%d/submit", open.id), url.Values{"9999": {"right"}}, http.StatusBadRequest},
		{"missing answers", fmt.Sprintf("/api/quizzes/%d/submit", open.id), map[string]string{}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := s.do(http.MethodPost, tc.path, tok, tc.body)
			if code != tc.want {
				t.Fatalf("status = %d (%s), want %d", code, env.Message, tc.want)
			}
			if env.Redirect != "/quizzes" || env.Message == "" {
				t.Fatalf("flash = %+v", env)
			}
		})
	}

	var scores []json.RawMessage
	s.mustDo(http.MethodGet, "/api/scores", tok, nil, http.StatusOK, &scores)
	if len(scores) != 0 {
		t.Fatalf("rejected submissions stored %d scores", len(scores))
	}
}

func TestLearnerQuizListHidesHidden(t *testing.T) {
	s := newTestServer(t)
	tok := s.learner("barbara")
	s.seedQuiz("Visible", time.Now().Add(24*time.Hour), false, 1)
	s.seedQuiz("Secret", time.Now().Add(24*time.Hour), true, 1)

	var list struct {
		Quizzes []struct {
			Title string `json:"title"`
		} `json:"quizzes"`
		MaxAttempts int `json:"maxAttempts"`
	}
	s.mustDo(http.MethodGet, "/api/quizzes", tok, nil, http.StatusOK, &list)
	if len(list.Quizzes) != 1 || list.Quizzes[0].Title != "Visible" || list.MaxAttempts != 2 {
		t.Fatalf("learner list = %+v", list)
	}

	var all []json.RawMessage
	s.mustDo(http.MethodGet, "/api/admin/quizzes", s.adminToken, nil, http.StatusOK, &all)
	if len(all) != 2 {
		t.Fatalf("admin list len = %d, want 2", len(all))
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	var health struct {
		Status     string            `json:"status"`
		Components map[string]string `json:"components"`
	}
	s.mustDo(http.MethodGet, "/api/health", "", nil, http.StatusOK, &health)
	if health.Status != "ok" || health.Components["redis"] != "disabled" {
		t.Fatalf("health = %+v", health)
	}
}
