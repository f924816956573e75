package tests

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/onlineimmigrant/eduplan/apps/api/echo"
	"github.com/onlineimmigrant/eduplan/core"
	"github.com/onlineimmigrant/eduplan/core/course"
	"github.com/onlineimmigrant/eduplan/core/enrollment"
	"github.com/onlineimmigrant/eduplan/core/learner"
	"github.com/onlineimmigrant/eduplan/core/quiz"
	"github.com/onlineimmigrant/eduplan/core/studyplan"
	emailsvc "github.com/onlineimmigrant/eduplan/services/email"
	logsvc "github.com/onlineimmigrant/eduplan/services/logger"
	dummydb "github.com/onlineimmigrant/eduplan/storage/database/dummy"
)

var (
	db      *dummydb.DB
	lrnRepo learner.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func setup(t *testing.T) Server {
	// error payloads are only JSON-wrapped outside debug mode
	core.Conf.Debug = false
	core.Conf.TestMode = true

	// set up DB & repos
	var err error
	db, err = dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	lrnRepo = dummydb.NewLearnerRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	lrnSvc := learner.NewService(lrnRepo, mailSvc)
	planSvc := studyplan.NewService(
		dummydb.NewStudyPlanRepository(db),
		course.NewService(dummydb.NewCourseRepository(db)),
		enrollment.NewService(dummydb.NewEnrollmentRepository(db)),
		quiz.NewService(dummydb.NewQuizRepository(db)),
	)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	logger := logsvc.NewRollbarLogger(log.New(os.Stderr, "TEST : ", log.LstdFlags), core.Conf)
	logger.Enable(false)

	// set up server
	return NewServer(
		&Options{
			DisableReqLogs: true,
			Logger:         logger,
			LearnerSvc:     lrnSvc,
			StudyPlanSvc:   planSvc,
			Validate:       validate,
			Translator:     translator,
		},
	)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, lrn learner.Learner, origIat ...int64) string {
	claims := GetLearnerClaims(lrn, origIat...)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
