package courseRoutes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"examprep/config"
	"examprep/database"
	"examprep/logger"
	"examprep/middleware"
	"examprep/models"
	studyRoutes "examprep/routers/studyRoutes"
	"examprep/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	Status  bool                   `json:"status"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

type harness struct {
	t       *testing.T
	app     *fiber.App
	admin   string
	learner string
	userID  uint
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{
		JWTKey:             "test-secret",
		SaltRound:          4,
		SessionIdleTTL:     time.Hour,
		PurchaseChannelURL: "https://wa.me",
		PurchaseContact:    "919999999999",
	}
	t.Cleanup(func() { config.AppConfig = prev })

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Open("sqlite", dsn, "test")
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))
	database.Database = database.DbInstance{Db: db}

	services.Init(db, config.AppConfig, logger.Nop())

	admin := models.User{Name: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, Password: "x"}
	learner := models.User{Name: "Asha", Email: "asha@example.com", Role: models.RoleUser, Password: "x"}
	require.NoError(t, db.Create(&admin).Error)
	require.NoError(t, db.Create(&learner).Error)
	for _, p := range []string{models.PermissionManageContent, models.PermissionRecordPayment} {
		require.NoError(t, db.Create(&models.Permission{UserID: admin.ID, Permission: p}).Error)
	}

	app := fiber.New()
	SetupCourseRoutes(app)
	SetupAdminCourseRoutes(app)
	studyRoutes.SetupStudyRoutes(app)

	h := &harness{t: t, app: app, userID: learner.ID}
	h.admin, err = middleware.GenerateJWT(admin.ID, admin.Name, admin.Role, admin.Email)
	require.NoError(t, err)
	h.learner, err = middleware.GenerateJWT(learner.ID, learner.Name, learner.Role, learner.Email)
	require.NoError(t, err)
	return h
}

func (h *harness) call(method, path, token string, body interface{}) (int, response) {
	h.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(h.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(h.t, err)
	defer resp.Body.Close()

	var out response
	raw := new(bytes.Buffer)
	_, _ = raw.ReadFrom(resp.Body)
	// list endpoints return arrays under data; those callers only look at the status
	_ = json.Unmarshal(raw.Bytes(), &out)
	return resp.StatusCode, out
}

func (h *harness) mustCreate(path string, body interface{}) string {
	h.t.Helper()
	status, out := h.call("POST", path, h.admin, body)
	require.Equal(h.t, fiber.StatusCreated, status, out.Message)
	return fmt.Sprintf("%.0f", out.Data["ID"].(float64))
}

func modulesAccess(data map[string]interface{}) []string {
	var out []string
	for _, m := range data["modules"].([]interface{}) {
		out = append(out, m.(map[string]interface{})["access"].(string))
	}
	return out
}

// seedCourse builds a free module with an article and a question, and a paid module with
// a timed assessment.
func (h *harness) seedCourse() (courseID, freeID, paidID string) {
	courseID = h.mustCreate("/admin/course/create", map[string]interface{}{
		"title": "CAT Quant", "description": "Full preparation", "author": "Team Prep", "price": 2999, "is_published": true,
	})
	freeID = h.mustCreate("/admin/course/"+courseID+"/module", map[string]interface{}{"title": "Arithmetic", "is_free": true})
	paidID = h.mustCreate("/admin/course/"+courseID+"/module", map[string]interface{}{"title": "Algebra"})

	h.mustCreate("/admin/course/"+courseID+"/module/"+freeID+"/content/article", map[string]interface{}{
		"title": "Ratios", "body_markup": "<p>a:b</p>",
	})
	h.mustCreate("/admin/course/"+courseID+"/module/"+freeID+"/content/question", map[string]interface{}{
		"prompt_markup": "2+2?", "options": []string{"3", "4"}, "correct_index": 1,
	})
	h.mustCreate("/admin/course/"+courseID+"/module/"+paidID+"/content/quiz", map[string]interface{}{
		"title": "Algebra mock", "kind": "assessment", "passing_score_percent": 50, "time_limit_minutes": 5,
		"questions": []map[string]interface{}{
			{"prompt_markup": "x+1=2", "options": []string{"1", "2"}, "correct_index": 0},
			{"prompt_markup": "2x=4", "options": []string{"1", "2"}, "correct_index": 1},
		},
	})
	return courseID, freeID, paidID
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	h := newHarness(t)

	status, _ := h.call("POST", "/admin/course/create", h.learner, map[string]interface{}{"title": "Nope"})
	assert.Equal(t, fiber.StatusForbidden, status)

	status, _ = h.call("GET", "/admin/dashboard/stats", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, out := h.call("POST", "/admin/course/create", h.admin, map[string]interface{}{"title": "ab"})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, out.Data, "title")
}

func TestLessonAndModuleOrdering(t *testing.T) {
	h := newHarness(t)
	courseID, freeID, paidID := h.seedCourse()
	contentPath := "/admin/course/" + courseID + "/module/" + freeID + "/content"

	status, out := h.call("GET", contentPath, h.admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	lessons := out.Data["lessons"].([]interface{})
	require.Len(t, lessons, 2)
	first := lessons[0].(map[string]interface{})
	second := lessons[1].(map[string]interface{})
	assert.Equal(t, "article", first["type"])

	// every lesson of the module has to be listed
	status, _ = h.call("PUT", "/admin/course/"+courseID+"/module/"+freeID+"/lessons/order", h.admin, map[string]interface{}{
		"items": []map[string]interface{}{{"id": first["id"], "type": first["type"]}},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, out = h.call("PUT", "/admin/course/"+courseID+"/module/"+freeID+"/lessons/order", h.admin, map[string]interface{}{
		"items": []map[string]interface{}{
			{"id": second["id"], "type": second["type"]},
			{"id": first["id"], "type": first["type"]},
		},
	})
	require.Equal(t, fiber.StatusOK, status, out.Message)

	_, out = h.call("GET", contentPath, h.admin, nil)
	lessons = out.Data["lessons"].([]interface{})
	assert.Equal(t, "question", lessons[0].(map[string]interface{})["type"])

	// a module reorder must name every module of the course
	status, _ = h.call("PUT", "/admin/course/"+courseID+"/modules/order", h.admin, map[string]interface{}{"moduleIds": []string{paidID}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = h.call("PUT", "/admin/reorder/module", h.admin, map[string]interface{}{
		"scope":   courseID,
		"entries": []map[string]interface{}{{"id": paidID, "order": 0}, {"id": "0" + freeID, "order": 1}, {"id": freeID, "order": 2}},
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)

	status, _ = h.call("PUT", "/admin/course/"+courseID+"/modules/order", h.admin, map[string]interface{}{"moduleIds": []string{paidID, freeID}})
	assert.Equal(t, fiber.StatusOK, status)

	_, out = h.call("GET", "/course/"+courseID, "", nil)
	modules := out.Data["modules"].([]interface{})
	assert.Equal(t, "Algebra", modules[0].(map[string]interface{})["title"])
}

func TestCourseOutlineAccess(t *testing.T) {
	h := newHarness(t)
	courseID, _, _ := h.seedCourse()

	status, out := h.call("GET", "/course/"+courseID, "", nil)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []string{"denied", "denied"}, modulesAccess(out.Data))
	assert.NotContains(t, out.Data, "articles")

	status, _ = h.call("POST", "/course/"+courseID+"/enroll", h.learner, nil)
	require.Equal(t, fiber.StatusOK, status)

	_, out = h.call("GET", "/course/"+courseID, h.learner, nil)
	assert.Equal(t, []string{"granted", "denied"}, modulesAccess(out.Data))
	assert.Equal(t, true, out.Data["isEnrolled"])

	status, _ = h.call("GET", "/course/999", h.learner, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestStudySessionPurchaseFlow(t *testing.T) {
	h := newHarness(t)
	courseID, _, _ := h.seedCourse()
	h.call("POST", "/course/"+courseID+"/enroll", h.learner, nil)

	status, out := h.call("POST", "/study/session", h.learner, map[string]interface{}{"courseId": courseID})
	require.Equal(t, fiber.StatusCreated, status, out.Message)
	sid := out.Data["sessionId"].(string)
	assert.Equal(t, []string{"granted", "denied"}, modulesAccess(out.Data))
	base := "/study/session/" + sid

	_, out = h.call("POST", base+"/goto", h.learner, map[string]interface{}{"module": 1, "lesson": 0})
	events := out.Data["events"].([]interface{})
	require.Len(t, events, 1)
	locked := events[0].(map[string]interface{})
	assert.Equal(t, "locked", locked["type"])
	assert.True(t, strings.HasPrefix(locked["purchaseUrl"].(string), "https://wa.me/919999999999?text="))
	assert.EqualValues(t, 0, out.Data["position"].(map[string]interface{})["module"])

	// another viewer cannot drive this session
	status, _ = h.call("POST", base+"/next", "", nil)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, out = h.call("POST", "/admin/course/"+courseID+"/payment", h.admin, map[string]interface{}{
		"user_id": h.userID, "amount": 2999, "payment_gateway": "razorpay", "payment_id": "pay_1",
	})
	require.Equal(t, fiber.StatusCreated, status, out.Message)
	status, _ = h.call("POST", "/admin/course/"+courseID+"/payment", h.admin, map[string]interface{}{
		"user_id": h.userID, "amount": 2999, "payment_gateway": "razorpay", "payment_id": "pay_1",
	})
	assert.Equal(t, fiber.StatusConflict, status)

	_, out = h.call("POST", base+"/refresh-access", h.learner, nil)
	assert.Equal(t, []string{"granted", "granted"}, modulesAccess(out.Data))

	_, out = h.call("POST", base+"/goto", h.learner, map[string]interface{}{"module": 1, "lesson": 0})
	lesson := out.Data["lesson"].(map[string]interface{})
	assert.Equal(t, "quiz", lesson["kind"])

	_, out = h.call("POST", base+"/quiz/start", h.learner, nil)
	quiz := out.Data["quiz"].(map[string]interface{})
	assert.Equal(t, "running", quiz["state"])
	questions := quiz["questions"].([]interface{})
	require.Len(t, questions, 2)
	assert.NotContains(t, questions[0].(map[string]interface{}), "correctIndex")

	q1 := questions[0].(map[string]interface{})["id"]
	status, _ = h.call("POST", base+"/quiz/answer", h.learner, map[string]interface{}{"questionId": q1, "choice": 0})
	require.Equal(t, fiber.StatusOK, status)

	_, out = h.call("POST", base+"/quiz/submit", h.learner, nil)
	events = out.Data["events"].([]interface{})
	require.Len(t, events, 1)
	result := events[0].(map[string]interface{})["result"].(map[string]interface{})
	assert.EqualValues(t, 50, result["scorePercent"])
	assert.Equal(t, true, result["passed"])
	assert.Equal(t, false, result["autoSubmitted"])

	status, _ = h.call("DELETE", base, h.learner, nil)
	assert.Equal(t, fiber.StatusOK, status)
	status, _ = h.call("GET", base, h.learner, nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestPaymentNeedsLocalAccessStore(t *testing.T) {
	h := newHarness(t)
	courseID, _, _ := h.seedCourse()
	services.App.Remote = true

	status, out := h.call("POST", "/admin/course/"+courseID+"/payment", h.admin, map[string]interface{}{
		"user_id": h.userID, "amount": 2999, "payment_gateway": "razorpay", "payment_id": "pay_2",
	})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Contains(t, out.Message, "collaborator")

	var count int64
	require.NoError(t, database.Database.Db.Model(&models.CoursePayment{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDashboardStats(t *testing.T) {
	h := newHarness(t)
	courseID, _, _ := h.seedCourse()
	h.call("POST", "/course/"+courseID+"/enroll", h.learner, nil)
	h.call("POST", "/admin/course/"+courseID+"/payment", h.admin, map[string]interface{}{
		"user_id": h.userID, "amount": 2999, "payment_gateway": "razorpay", "payment_id": "pay_9",
	})

	status, out := h.call("GET", "/admin/dashboard/stats?period=week", h.admin, nil)
	require.Equal(t, fiber.StatusOK, status)
	stats := out.Data["stats"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["total_courses"])
	assert.EqualValues(t, 1, stats["paid_enrollments"])
	assert.EqualValues(t, 2999, stats["period_revenue"])

	status, _ = h.call("GET", "/admin/dashboard/stats?period=year", h.admin, nil)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}
