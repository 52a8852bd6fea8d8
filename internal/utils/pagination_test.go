package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func TestParsePagination(t *testing.T) {
	app := fiber.New()

	tests := []struct {
		name  string
		query string
		want  Pagination
	}{
		{"defaults", "", Pagination{Page: 1, Limit: 10, Offset: 0}},
		{"explicit", "?page=3&limit=5", Pagination{Page: 3, Limit: 5, Offset: 10}},
		{"invalid values", "?page=abc&limit=-2", Pagination{Page: 1, Limit: 10, Offset: 0}},
		{"zero page", "?page=0", Pagination{Page: 1, Limit: 10, Offset: 0}},
	}

	var got Pagination
	app.Get("/list", func(c *fiber.Ctx) error {
		got = ParsePagination(c)
		return nil
	})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/list"+tt.query, nil)
			_, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestTotalPages(t *testing.T) {
	require.EqualValues(t, 0, TotalPages(0, 10))
	require.EqualValues(t, 1, TotalPages(10, 10))
	require.EqualValues(t, 2, TotalPages(11, 10))
	require.EqualValues(t, 0, TotalPages(5, 0))
}
