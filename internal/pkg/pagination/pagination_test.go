package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func queryFor(t *testing.T, rawQuery string) Query {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return FromContext(c)
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		raw        string
		page, size int
	}{
		{"", 1, 10},
		{"page=3&size=25", 3, 25},
		{"page=0&size=-5", 1, 10},
		{"page=abc&size=xyz", 1, 10},
		{"size=9999", 1, 100},
	}
	for _, tc := range cases {
		q := queryFor(t, tc.raw)
		if q.Page != tc.page || q.Size != tc.size {
			t.Errorf("FromContext(%q) = %+v, want page=%d size=%d", tc.raw, q, tc.page, tc.size)
		}
	}
}
