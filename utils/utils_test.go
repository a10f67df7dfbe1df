package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberFormats(t *testing.T) {
	orderRe := regexp.MustCompile(`^#\d{8}$`)
	invoiceRe := regexp.MustCompile(`^INV-\d{6}$`)
	for i := 0; i < 50; i++ {
		assert.Regexp(t, orderRe, NewOrderNumber())
		assert.Regexp(t, invoiceRe, NewInvoiceNumber())
	}
}

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(10000), ToMinorUnits(100))
	assert.Equal(t, int64(1999), ToMinorUnits(19.99))
	assert.Equal(t, int64(1050), ToMinorUnits(10.5))
	assert.Equal(t, int64(0), ToMinorUnits(0))
}

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("user-1", "admin", time.Hour)
	require.NoError(t, err)

	sub, role, err := ExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", sub)
	assert.Equal(t, "admin", role)
}

func TestExpiredTokenRejected(t *testing.T) {
	token, err := GenerateToken("user-1", "customer", -time.Minute)
	require.NoError(t, err)

	_, _, err = ExtractClaims(token)
	assert.Error(t, err)
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", NotFound("Booking not found"), http.StatusNotFound, "Booking not found"},
		{"conflict", Conflict("slot taken", errors.New("write conflict")), http.StatusConflict, "slot taken"},
		{"upstream", Upstream("payment initialization failed", errors.New("card_declined")), http.StatusBadRequest, "payment initialization failed"},
		{"plain error hides details", errors.New("mongo exploded"), http.StatusInternalServerError, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

			RespondError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, tt.wantMsg, body["message"])
			assert.NotContains(t, w.Body.String(), "mongo exploded")
		})
	}
}

func TestRespondErrorExtraFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/booking", nil)

	appErr := Validation("No services available")
	appErr.Extra = gin.H{"unavailableServices": []string{"Single Services"}}
	RespondError(c, appErr)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"unavailableServices":["Single Services"]`)
}

func TestErrorHandlerRecoversPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}
