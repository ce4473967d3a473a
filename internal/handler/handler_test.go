package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mtlprog/studybuddy/internal/handler"
	"github.com/mtlprog/studybuddy/internal/handler/dto"
	"github.com/mtlprog/studybuddy/internal/middleware"
	"github.com/mtlprog/studybuddy/internal/service"
)

const testToken = "secret-token"

type HandlerTestSuite struct {
	suite.Suite
	now     time.Time
	tracker *service.Tracker
	mux     *http.ServeMux
}

func (s *HandlerTestSuite) SetupTest() {
	s.now = time.Date(2024, time.March, 10, 15, 0, 0, 0, time.UTC)
	s.tracker = service.NewTracker(service.WithClock(func() time.Time { return s.now }))

	s.mux = http.NewServeMux()
	handler.New(s.tracker, nil, middleware.NewAuthMiddleware(testToken)).RegisterRoutes(s.mux)
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

// Helper to make authenticated request
func (s *HandlerTestSuite) makeRequest(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var bodyReader *bytes.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	} else {
		bodyReader = bytes.NewReader([]byte{})
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)

	return w
}

func (s *HandlerTestSuite) createTask(req dto.CreateTaskRequest) dto.TaskResponse {
	w := s.makeRequest("POST", "/api/v1/tasks", testToken, req)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var task dto.TaskResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&task))
	return task
}

func (s *HandlerTestSuite) listTasks(query string) dto.TasksListResponse {
	w := s.makeRequest("GET", "/api/v1/tasks"+query, testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp dto.TasksListResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
	return resp
}

func (s *HandlerTestSuite) TestHealthz_NoDatabase() {
	w := s.makeRequest("GET", "/healthz", "", nil)
	s.Equal(http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestAPIGuide_Public() {
	w := s.makeRequest("GET", "/api.md", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "/api/v1/tasks")
}

func (s *HandlerTestSuite) TestCreateTask_Unauthorized() {
	w := s.makeRequest("POST", "/api/v1/tasks", "", dto.CreateTaskRequest{Title: "Essay", Subject: "History"})
	s.Equal(http.StatusUnauthorized, w.Code)

	w = s.makeRequest("POST", "/api/v1/tasks", "wrong", dto.CreateTaskRequest{Title: "Essay", Subject: "History"})
	s.Equal(http.StatusUnauthorized, w.Code)

	s.Empty(s.tracker.Tasks().All())
}

func (s *HandlerTestSuite) TestCreateTask_Defaults() {
	task := s.createTask(dto.CreateTaskRequest{Title: "Essay", Subject: "History"})

	s.NotEmpty(task.ID)
	s.Equal("TODO", task.Status)
	s.Equal("MEDIUM", task.Priority)
	s.Nil(task.CompletedAt)
	s.Equal(s.now, task.CreatedAt)
}

func (s *HandlerTestSuite) TestCreateTask_ValidationError() {
	w := s.makeRequest("POST", "/api/v1/tasks", testToken, dto.CreateTaskRequest{Title: "  ", Subject: "Math"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	var errResp dto.ErrorResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&errResp))
	s.Equal("VALIDATION_ERROR", errResp.Error.Code)

	w = s.makeRequest("POST", "/api/v1/tasks", testToken, dto.CreateTaskRequest{Title: "Essay", Subject: ""})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	w = s.makeRequest("POST", "/api/v1/tasks", testToken, dto.CreateTaskRequest{Title: "Essay", Subject: "Math", Priority: "whenever"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (s *HandlerTestSuite) TestCreateTask_InvalidJSON() {
	req := httptest.NewRequest("POST", "/api/v1/tasks", bytes.NewReader([]byte("{")))
	req.Header.Set("Authorization", "Bearer "+testToken)
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestGetTask() {
	created := s.createTask(dto.CreateTaskRequest{Title: "Lab report", Subject: "Chemistry"})

	w := s.makeRequest("GET", "/api/v1/tasks/"+created.ID, testToken, nil)
	s.Equal(http.StatusOK, w.Code)

	var task dto.TaskResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&task))
	s.Equal(created.ID, task.ID)
	s.Equal("Lab report", task.Title)
}

func (s *HandlerTestSuite) TestGetTask_NotFoundAndInvalidID() {
	w := s.makeRequest("GET", "/api/v1/tasks/00000000-0000-0000-0000-000000000099", testToken, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.makeRequest("GET", "/api/v1/tasks/not-a-uuid", testToken, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestUpdateTaskStatus_CompletedSetsCompletedAt() {
	created := s.createTask(dto.CreateTaskRequest{Title: "Problem set", Subject: "Math"})

	w := s.makeRequest("PATCH", "/api/v1/tasks/"+created.ID+"/status", testToken, dto.UpdateStatusRequest{Status: "completed"})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var task dto.TaskResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&task))
	s.Equal("COMPLETED", task.Status)
	s.Require().NotNil(task.CompletedAt)
	s.Equal(s.now, *task.CompletedAt)
}

func (s *HandlerTestSuite) TestUpdateTaskStatus_Errors() {
	created := s.createTask(dto.CreateTaskRequest{Title: "Problem set", Subject: "Math"})

	w := s.makeRequest("PATCH", "/api/v1/tasks/"+created.ID+"/status", testToken, dto.UpdateStatusRequest{Status: "DONE"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)

	w = s.makeRequest("PATCH", "/api/v1/tasks/00000000-0000-0000-0000-000000000099/status", testToken, dto.UpdateStatusRequest{Status: "TODO"})
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestDeleteTask() {
	created := s.createTask(dto.CreateTaskRequest{Title: "Flashcards", Subject: "Spanish"})

	w := s.makeRequest("DELETE", "/api/v1/tasks/"+created.ID, testToken, nil)
	s.Equal(http.StatusNoContent, w.Code)

	w = s.makeRequest("DELETE", "/api/v1/tasks/"+created.ID, testToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestListTasks_SortAndFilter() {
	past := s.now.Add(-time.Hour)
	later := s.now.Add(48 * time.Hour)

	low := s.createTask(dto.CreateTaskRequest{Title: "Read chapter", Subject: "History", Priority: "LOW"})
	urgent := s.createTask(dto.CreateTaskRequest{Title: "Exam prep", Subject: "Math", Priority: "URGENT", Deadline: &later})
	overdue := s.createTask(dto.CreateTaskRequest{Title: "Homework", Subject: "math", Priority: "HIGH", Deadline: &past})

	byPriority := s.listTasks("?sort=priority")
	s.Require().Len(byPriority.Tasks, 3)
	s.Equal([]string{urgent.ID, overdue.ID, low.ID}, taskIDs(byPriority))

	byDeadline := s.listTasks("?sort=deadline")
	s.Equal([]string{overdue.ID, urgent.ID, low.ID}, taskIDs(byDeadline))

	math := s.listTasks("?subject=MATH")
	s.Equal([]string{urgent.ID, overdue.ID}, taskIDs(math))

	overdueOnly := s.listTasks("?filter=overdue")
	s.Equal([]string{overdue.ID}, taskIDs(overdueOnly))
	s.True(overdueOnly.Tasks[0].IsOverdue)

	w := s.makeRequest("PATCH", "/api/v1/tasks/"+low.ID+"/status", testToken, dto.UpdateStatusRequest{Status: "CANCELLED"})
	s.Require().Equal(http.StatusOK, w.Code)

	pending := s.listTasks("?filter=pending&sort=priority")
	s.Equal([]string{urgent.ID, overdue.ID}, taskIDs(pending))

	cancelled := s.listTasks("?status=cancelled")
	s.Equal([]string{low.ID}, taskIDs(cancelled))

	w = s.makeRequest("GET", "/api/v1/tasks?sort=title", testToken, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestSessions_Lifecycle() {
	w := s.makeRequest("POST", "/api/v1/sessions", testToken, dto.StartSessionRequest{Subject: "Physics"})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var started dto.SessionResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&started))
	s.True(started.IsActive)
	s.Nil(started.DurationMinutes)

	// Only one active session at a time
	w = s.makeRequest("POST", "/api/v1/sessions", testToken, dto.StartSessionRequest{Subject: "Math"})
	s.Equal(http.StatusConflict, w.Code)

	w = s.makeRequest("GET", "/api/v1/sessions/active", testToken, nil)
	s.Equal(http.StatusOK, w.Code)

	s.now = s.now.Add(90 * time.Minute)
	productive := false
	w = s.makeRequest("POST", "/api/v1/sessions/"+started.ID+"/end", testToken,
		dto.EndSessionRequest{Notes: "kinematics", Productive: &productive})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var ended dto.SessionResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&ended))
	s.False(ended.IsActive)
	s.False(ended.Productive)
	s.Equal("kinematics", ended.Notes)
	s.Require().NotNil(ended.DurationMinutes)
	s.Equal(90, *ended.DurationMinutes)

	// Ending twice reports absence
	w = s.makeRequest("POST", "/api/v1/sessions/"+started.ID+"/end", testToken, nil)
	s.Equal(http.StatusNotFound, w.Code)

	w = s.makeRequest("GET", "/api/v1/sessions/active", testToken, nil)
	s.Equal(http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestEndSession_EmptyBodyDefaultsProductive() {
	session, err := s.tracker.StartSession(s.T().Context(), "Biology")
	s.Require().NoError(err)

	w := s.makeRequest("POST", "/api/v1/sessions/"+session.ID+"/end", testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var ended dto.SessionResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&ended))
	s.True(ended.Productive)
}

func (s *HandlerTestSuite) TestListSessions_Filters() {
	ctx := s.T().Context()

	first, err := s.tracker.StartSession(ctx, "Math")
	s.Require().NoError(err)
	_, _, err = s.tracker.EndSession(ctx, first.ID, "", true)
	s.Require().NoError(err)

	second, err := s.tracker.StartSession(ctx, "History")
	s.Require().NoError(err)

	w := s.makeRequest("GET", "/api/v1/sessions", testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var all dto.SessionsListResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&all))
	s.Equal(2, all.Total)

	w = s.makeRequest("GET", "/api/v1/sessions?filter=productive", testToken, nil)
	var productive dto.SessionsListResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&productive))
	s.Require().Equal(1, productive.Total)
	s.Equal(first.ID, productive.Sessions[0].ID)

	w = s.makeRequest("GET", "/api/v1/sessions?filter=today&subject=history", testToken, nil)
	var today dto.SessionsListResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&today))
	s.Require().Equal(1, today.Total)
	s.Equal(second.ID, today.Sessions[0].ID)

	w = s.makeRequest("GET", "/api/v1/sessions?filter=yesterday", testToken, nil)
	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlerTestSuite) TestStatsStreakAndReminder() {
	w := s.makeRequest("GET", "/api/v1/reminder", testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var reminder dto.ReminderResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&reminder))
	s.Equal("You haven't started studying yet. Let's begin!", reminder.Message)

	ctx := s.T().Context()
	session, err := s.tracker.StartSession(ctx, "Math")
	s.Require().NoError(err)
	s.now = s.now.Add(30 * time.Minute)
	_, _, err = s.tracker.EndSession(ctx, session.ID, "", true)
	s.Require().NoError(err)

	w = s.makeRequest("GET", "/api/v1/streak", testToken, nil)
	var streak dto.StreakResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&streak))
	s.Equal(1, streak.Days)

	w = s.makeRequest("GET", "/api/v1/stats", testToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var stats dto.StatsResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&stats))
	s.Equal(1, stats.CompletedSessions)
	s.Equal(30, stats.TotalStudyMinutes)
	s.Equal(100, stats.ProductivityRatePercent)
	s.Equal([]dto.SubjectStats{{Subject: "Math", StudyMinutes: 30}}, stats.BySubject)
	s.Nil(stats.ActiveSession)
	s.Equal(1, stats.StreakDays)

	w = s.makeRequest("GET", "/api/v1/reminder", testToken, nil)
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&reminder))
	s.Equal("You're on a 1-day streak! Keep up the great work!", reminder.Message)
}

func taskIDs(resp dto.TasksListResponse) []string {
	ids := make([]string, len(resp.Tasks))
	for i, t := range resp.Tasks {
		ids[i] = t.ID
	}
	return ids
}
