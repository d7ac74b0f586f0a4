package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		name  string
		query string
		want  Query
	}{
		{"defaults", "", Query{Page: 1, Size: 10}},
		{"explicit", "?page=3&size=25", Query{Page: 3, Size: 25}},
		{"clamped", "?page=-1&size=1000", Query{Page: 1, Size: MaxSize}},
		{"garbage", "?page=x&size=y", Query{Page: 1, Size: 10}},
		{"zero size", "?size=0", Query{Page: 1, Size: DefaultSize}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/x"+tc.query, nil)
			assert.Equal(t, tc.want, FromContext(c))
		})
	}
}

func TestMeta(t *testing.T) {
	m := Meta(21, Query{Page: 2, Size: 10})
	assert.Equal(t, int64(21), m.Total)
	assert.Equal(t, 3, m.TotalPage)
	assert.True(t, m.HasNextPage)

	m = Meta(0, Query{Page: 1, Size: 10})
	assert.Equal(t, 0, m.TotalPage)
	assert.False(t, m.HasNextPage)

	assert.Equal(t, 20, Query{Page: 3, Size: 10}.Offset())
}
