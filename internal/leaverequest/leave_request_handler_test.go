package leaverequest_test

import (
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"go-leave/internal/leaverequest"
	leaverequesterrors "go-leave/internal/leaverequest/errors"
	"go-leave/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// apperror.Init must run before any binding: the validator caches each
// struct's field names on first use, so registering the json tag-name
// function afterwards has no effect. Production mains call it at startup.
func TestMain(m *testing.M) {
	apperror.Init()
	os.Exit(m.Run())
}

type fakeLeaveRequestService struct {
	createFn  func(ctx context.Context, userID string, req leaverequest.CreateLeaveRequestRequest, files []*multipart.FileHeader) (leaverequest.LeaveRequestResponse, error)
	getAllFn  func(ctx context.Context, userID, role string) ([]leaverequest.LeaveRequestResponse, error)
	getByIDFn func(ctx context.Context, userID, role, id string) (leaverequest.LeaveRequestResponse, error)
	approveFn func(ctx context.Context, approverID, id string, req leaverequest.DecisionRequest) (leaverequest.LeaveRequestResponse, error)
	rejectFn  func(ctx context.Context, approverID, id string, req leaverequest.DecisionRequest) (leaverequest.LeaveRequestResponse, error)
}

func (f *fakeLeaveRequestService) Create(ctx context.Context, userID string, req leaverequest.CreateLeaveRequestRequest, files []*multipart.FileHeader) (leaverequest.LeaveRequestResponse, error) {
	return f.createFn(ctx, userID, req, files)
}
func (f *fakeLeaveRequestService) GetAll(ctx context.Context, userID, role string) ([]leaverequest.LeaveRequestResponse, error) {
	return f.getAllFn(ctx, userID, role)
}
func (f *fakeLeaveRequestService) GetByID(ctx context.Context, userID, role, id string) (leaverequest.LeaveRequestResponse, error) {
	return f.getByIDFn(ctx, userID, role, id)
}
func (f *fakeLeaveRequestService) Approve(ctx context.Context, approverID, id string, req leaverequest.DecisionRequest) (leaverequest.LeaveRequestResponse, error) {
	return f.approveFn(ctx, approverID, id, req)
}
func (f *fakeLeaveRequestService) Reject(ctx context.Context, approverID, id string, req leaverequest.DecisionRequest) (leaverequest.LeaveRequestResponse, error) {
	return f.rejectFn(ctx, approverID, id, req)
}

func TestHandler_CreateAndGetAll(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New().String()

	svc := &fakeLeaveRequestService{
		createFn: func(ctx context.Context, uid string, req leaverequest.CreateLeaveRequestRequest, files []*multipart.FileHeader) (leaverequest.LeaveRequestResponse, error) {
			assert.Equal(t, userID, uid)
			assert.Equal(t, "Paid Time Off", req.LeaveType)
			assert.Nil(t, files)
			return leaverequest.LeaveRequestResponse{
				ID:     uuid.New().String(),
				UserID: uid,
				Status: leaverequest.StatusPending,
			}, nil
		},
		getAllFn: func(ctx context.Context, uid, role string) ([]leaverequest.LeaveRequestResponse, error) {
			return []leaverequest.LeaveRequestResponse{
				{ID: uuid.New().String()},
				{ID: uuid.New().String()},
				{ID: uuid.New().String()},
			}, nil
		},
	}

	h := leaverequest.NewHandler(svc)

	body := `{"leave_type":"Paid Time Off","start_date":"2026-10-05","end_date":"2026-10-07","reason":"Family trip"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id_validated", userID)
	c.Request = httptest.NewRequest(http.MethodPost, "/leave/requests", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "PENDING")

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Set("user_id_validated", userID)
	c2.Set("role", "MANAGER")
	c2.Request = httptest.NewRequest(http.MethodGet, "/leave/requests?page=1&page_size=2", nil)
	h.GetAll(c2)
	assert.Equal(t, http.StatusOK, w2.Code)
	assert.Contains(t, w2.Body.String(), "\"meta\"")
	assert.Contains(t, w2.Body.String(), "\"total\":3")
	assert.Contains(t, w2.Body.String(), "\"totalPages\":2")
	assert.Contains(t, w2.Body.String(), "\"page\":1")
	assert.Contains(t, w2.Body.String(), "\"pageSize\":2")
}

func TestHandler_CreateValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	apperror.Init()

	svc := &fakeLeaveRequestService{
		createFn: func(ctx context.Context, uid string, req leaverequest.CreateLeaveRequestRequest, files []*multipart.FileHeader) (leaverequest.LeaveRequestResponse, error) {
			t.Fatal("service must not be called for invalid input")
			return leaverequest.LeaveRequestResponse{}, nil
		},
	}

	h := leaverequest.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id_validated", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/leave/requests", strings.NewReader(`{"leave_type":""}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), apperror.CodeInvalidInput)
	assert.Contains(t, w.Body.String(), "Leave Type is required")
}

func TestHandler_CreateServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	svc := &fakeLeaveRequestService{
		createFn: func(ctx context.Context, uid string, req leaverequest.CreateLeaveRequestRequest, files []*multipart.FileHeader) (leaverequest.LeaveRequestResponse, error) {
			return leaverequest.LeaveRequestResponse{}, leaverequesterrors.ErrDatesNotInFuture
		},
	}

	h := leaverequest.NewHandler(svc)

	body := `{"leave_type":"Paid Time Off","start_date":"2020-01-01","end_date":"2020-01-02"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id_validated", uuid.New().String())
	c.Request = httptest.NewRequest(http.MethodPost, "/leave/requests", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "leave dates must be in the future")
}

// The idempotency middleware leaves a lock and a cache key on the context;
// Create has to publish the finished response under the cache key and drop
// the lock so the next request with the same Idempotency-Key replays
// instead of waiting out the lock TTL.
func TestHandler_CreateIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New().String()

	resp := leaverequest.LeaveRequestResponse{
		ID:     uuid.New().String(),
		UserID: userID,
		Status: leaverequest.StatusPending,
	}
	svc := &fakeLeaveRequestService{
		createFn: func(ctx context.Context, uid string, req leaverequest.CreateLeaveRequestRequest, files []*multipart.FileHeader) (leaverequest.LeaveRequestResponse, error) {
			return resp, nil
		},
	}

	rdb, redisMock := redismock.NewClientMock()
	h := leaverequest.NewHandlerWithRedis(svc, rdb)

	cacheKey := "idemp:/api/v1/leave/requests:" + userID + ":req-1"
	lockKey := cacheKey + ":lock"

	payload, err := json.Marshal(resp)
	assert.NoError(t, err)
	redisMock.Regexp().ExpectSet(cacheKey, regexp.QuoteMeta(string(payload)), 24*time.Hour).SetVal("OK")
	redisMock.ExpectDel(lockKey).SetVal(1)

	body := `{"leave_type":"Paid Time Off","start_date":"2026-10-05","end_date":"2026-10-07"}`
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id_validated", userID)
	c.Set("idempotency_cache_key", cacheKey)
	c.Set("idempotency_lock_key", lockKey)
	c.Request = httptest.NewRequest(http.MethodPost, "/leave/requests", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestHandler_Approve(t *testing.T) {
	gin.SetMode(gin.TestMode)
	approverID := uuid.New().String()
	requestID := uuid.New().String()

	t.Run("success with comment", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			approveFn: func(ctx context.Context, aid, id string, req leaverequest.DecisionRequest) (leaverequest.LeaveRequestResponse, error) {
				assert.Equal(t, approverID, aid)
				assert.Equal(t, requestID, id)
				assert.Equal(t, "enjoy", req.Comment)
				return leaverequest.LeaveRequestResponse{ID: id, Status: leaverequest.StatusApproved}, nil
			},
		}

		h := leaverequest.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("user_id_validated", approverID)
		c.Params = gin.Params{{Key: "id", Value: requestID}}
		c.Request = httptest.NewRequest(http.MethodPut, "/leave/requests/"+requestID+"/approve", strings.NewReader(`{"comment":"enjoy"}`))
		c.Request.Header.Set("Content-Type", "application/json")
		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "APPROVED")
	})

	t.Run("success without body", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			approveFn: func(ctx context.Context, aid, id string, req leaverequest.DecisionRequest) (leaverequest.LeaveRequestResponse, error) {
				assert.Empty(t, req.Comment)
				return leaverequest.LeaveRequestResponse{ID: id, Status: leaverequest.StatusApproved}, nil
			},
		}

		h := leaverequest.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("user_id_validated", approverID)
		c.Params = gin.Params{{Key: "id", Value: requestID}}
		c.Request = httptest.NewRequest(http.MethodPut, "/leave/requests/"+requestID+"/approve", nil)
		h.Approve(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("negative already decided", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			approveFn: func(ctx context.Context, aid, id string, req leaverequest.DecisionRequest) (leaverequest.LeaveRequestResponse, error) {
				return leaverequest.LeaveRequestResponse{}, leaverequesterrors.ErrAlreadyDecided
			},
		}

		h := leaverequest.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("user_id_validated", approverID)
		c.Params = gin.Params{{Key: "id", Value: requestID}}
		c.Request = httptest.NewRequest(http.MethodPut, "/leave/requests/"+requestID+"/approve", nil)
		h.Approve(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already decided")
	})
}

func TestHandler_Reject(t *testing.T) {
	gin.SetMode(gin.TestMode)
	approverID := uuid.New().String()
	requestID := uuid.New().String()

	svc := &fakeLeaveRequestService{
		rejectFn: func(ctx context.Context, aid, id string, req leaverequest.DecisionRequest) (leaverequest.LeaveRequestResponse, error) {
			assert.Equal(t, "peak season", req.Comment)
			return leaverequest.LeaveRequestResponse{ID: id, Status: leaverequest.StatusRejected}, nil
		},
	}

	h := leaverequest.NewHandler(svc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("user_id_validated", approverID)
	c.Params = gin.Params{{Key: "id", Value: requestID}}
	c.Request = httptest.NewRequest(http.MethodPut, "/leave/requests/"+requestID+"/reject", strings.NewReader(`{"comment":"peak season"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Reject(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "REJECTED")
}

func TestHandler_GetById(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New().String()
	requestID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			getByIDFn: func(ctx context.Context, uid, role, id string) (leaverequest.LeaveRequestResponse, error) {
				assert.Equal(t, userID, uid)
				assert.Equal(t, requestID, id)
				return leaverequest.LeaveRequestResponse{ID: id, UserID: uid, Status: leaverequest.StatusPending}, nil
			},
		}

		h := leaverequest.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("user_id_validated", userID)
		c.Set("role", "USER")
		c.Params = gin.Params{{Key: "id", Value: requestID}}
		c.Request = httptest.NewRequest(http.MethodGet, "/leave/requests/"+requestID, nil)
		h.GetById(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), requestID)
	})

	t.Run("negative not found", func(t *testing.T) {
		svc := &fakeLeaveRequestService{
			getByIDFn: func(ctx context.Context, uid, role, id string) (leaverequest.LeaveRequestResponse, error) {
				return leaverequest.LeaveRequestResponse{}, leaverequesterrors.ErrRequestNotFound
			},
		}

		h := leaverequest.NewHandler(svc)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Set("user_id_validated", userID)
		c.Set("role", "USER")
		c.Params = gin.Params{{Key: "id", Value: requestID}}
		c.Request = httptest.NewRequest(http.MethodGet, "/leave/requests/"+requestID, nil)
		h.GetById(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "NOT_FOUND")
	})
}
