package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  Params
	}{
		{name: "defaults", query: "", want: Params{Limit: DefaultLimit, Offset: 0}},
		{name: "explicit values", query: "limit=5&offset=10", want: Params{Limit: 5, Offset: 10}},
		{name: "limit capped", query: "limit=500", want: Params{Limit: MaxLimit, Offset: 0}},
		{name: "negative values reset", query: "limit=-1&offset=-3", want: Params{Limit: DefaultLimit, Offset: 0}},
		{name: "garbage falls back", query: "limit=abc", want: Params{Limit: DefaultLimit, Offset: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := paramsFor(t, tc.query); got != tc.want {
				t.Errorf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}
