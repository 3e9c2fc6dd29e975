package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/tokenpkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

type statusCheckerFunc func(ctx context.Context, id int32) (bool, error)

func (f statusCheckerFunc) IsActive(ctx context.Context, id int32) (bool, error) {
	return f(ctx, id)
}

// authenticatedAs stands in for AuthMiddleware with a token issued for accountID.
func authenticatedAs(accountID int32) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		gctx.Set(AuthPayloadKey, &tokenpkg.Payload{AccountID: accountID})
		gctx.Next()
	}
}

func TestActiveGate(t *testing.T) {
	accounts := map[int32]bool{1: true, 2: false}

	checker := statusCheckerFunc(func(_ context.Context, id int32) (bool, error) {
		if id == 500 {
			return false, errorspkg.ErrStorageUnavailable
		}

		active, ok := accounts[id]
		if !ok {
			return false, domain.ErrAccountNotFound
		}

		return active, nil
	})

	testCases := []struct {
		name           string
		owner          int32
		method         string
		target         string
		body           string
		wantStatusCode int
		wantUnchecked  bool
		wantError      string
		wantReached    bool
	}{
		{
			name:           "ActiveFromBody",
			owner:          1,
			method:         http.MethodPost,
			target:         "/op",
			body:           `{"account_id": 1, "amount": "10"}`,
			wantStatusCode: http.StatusOK,
			wantReached:    true,
		},
		{
			name:           "ActiveFromQuery",
			owner:          1,
			method:         http.MethodGet,
			target:         "/op?account_id=1",
			wantStatusCode: http.StatusOK,
			wantReached:    true,
		},
		{
			name:           "Blocked",
			owner:          2,
			method:         http.MethodPost,
			target:         "/op",
			body:           `{"account_id": 2, "amount": "10"}`,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Account 2 is currently blocked and you cannot make any operations with it.",
		},
		{
			name:           "NotFound",
			owner:          99999,
			method:         http.MethodGet,
			target:         "/op?account_id=99999",
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
		{
			name:           "MissingAccountID",
			owner:          1,
			method:         http.MethodPost,
			target:         "/op",
			body:           `{"amount": "10"}`,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "AccountID field is required",
		},
		{
			name:           "MalformedBody",
			owner:          1,
			method:         http.MethodPost,
			target:         "/op",
			body:           `{"account_id": "one"`,
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "StorageFailure",
			owner:          500,
			method:         http.MethodGet,
			target:         "/op?account_id=500",
			wantStatusCode: http.StatusInternalServerError,
			wantError:      errorspkg.ErrInternal.Error(),
		},
		{
			name:           "OtherAccountBlocked",
			owner:          1,
			method:         http.MethodGet,
			target:         "/op?account_id=2",
			wantStatusCode: http.StatusUnauthorized,
			wantUnchecked:  true,
			wantError:      domain.ErrAccountOwnerMismatch.Error(),
		},
		{
			name:           "OtherAccountMissing",
			owner:          1,
			method:         http.MethodPost,
			target:         "/op",
			body:           `{"account_id": 3, "amount": "10"}`,
			wantStatusCode: http.StatusUnauthorized,
			wantUnchecked:  true,
			wantError:      domain.ErrAccountOwnerMismatch.Error(),
		},
		{
			name:           "NoAuthPayload",
			method:         http.MethodGet,
			target:         "/op?account_id=1",
			wantStatusCode: http.StatusUnauthorized,
			wantUnchecked:  true,
			wantError:      domain.ErrAccountOwnerMismatch.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reached := false
			checked := false

			countingChecker := statusCheckerFunc(func(ctx context.Context, id int32) (bool, error) {
				checked = true
				return checker.IsActive(ctx, id)
			})

			server := gin.New()
			handler := func(gctx *gin.Context) {
				reached = true

				var req struct {
					AccountID int32  `json:"account_id"`
					Amount    string `json:"amount"`
				}

				if gctx.Request.Method != http.MethodGet {
					if err := gctx.ShouldBindBodyWith(&req, binding.JSON); err != nil {
						t.Errorf("handler could not bind the cached body: %v", err)
					}
				}

				gctx.JSON(http.StatusOK, web.Response{Data: gctx.MustGet(AccountIDKey).(int32)})
			}
			if tc.owner != 0 {
				server.Use(authenticatedAs(tc.owner))
			}

			server.Handle(tc.method, "/op", ActiveGate(countingChecker), handler)

			recorder := httptest.NewRecorder()

			request, err := http.NewRequest(tc.method, tc.target, strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("http.NewRequest(%v, %v) returned error: %v", tc.method, tc.target, err)
			}

			server.ServeHTTP(recorder, request)

			if recorder.Code != tc.wantStatusCode {
				t.Errorf("recorder.Code = %v, want %v", recorder.Code, tc.wantStatusCode)
			}

			if reached != tc.wantReached {
				t.Errorf("handler reached = %v, want %v", reached, tc.wantReached)
			}

			if tc.wantUnchecked && checked {
				t.Errorf("account status was checked for a request the token does not own")
			}

			got := web.Response{}
			if err := json.NewDecoder(recorder.Body).Decode(&got); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantError != "" && got.Error != tc.wantError {
				t.Errorf("got.Error = %q, want %q", got.Error, tc.wantError)
			}
		})
	}
}

func TestActiveGateCheckerErrorIsNotLeaked(t *testing.T) {
	checker := statusCheckerFunc(func(context.Context, int32) (bool, error) {
		return false, errors.New("pq: password authentication failed")
	})

	server := gin.New()
	server.Use(authenticatedAs(1))
	server.GET("/op", ActiveGate(checker), func(gctx *gin.Context) { gctx.Status(http.StatusOK) })

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/op?account_id=1", nil)

	server.ServeHTTP(recorder, request)

	if strings.Contains(recorder.Body.String(), "password") {
		t.Errorf("response body %q leaks the storage error", recorder.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	server := gin.New()
	server.POST("/login", RateLimit(1), func(gctx *gin.Context) { gctx.Status(http.StatusOK) })

	codes := make([]int, 0, 3)

	for i := 0; i < 3; i++ {
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, "/login", nil)
		server.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}

	if codes[0] != http.StatusOK {
		t.Errorf("first request status = %v, want %v", codes[0], http.StatusOK)
	}

	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request status = %v, want %v", codes[2], http.StatusTooManyRequests)
	}
}
