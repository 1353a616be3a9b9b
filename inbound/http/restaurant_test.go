package http

import (
	"encoding/json"
	"github.com/stretchr/testify/suite"
	"net/http"
	"net/http/httptest"
	"ru-ticket/common/vars"
	"ru-ticket/eligibility"
	"ru-ticket/model"
	"testing"
	"time"
)

type RestaurantHttpTestSuite struct {
	suite.Suite

	mux *http.ServeMux
	in  *RestaurantHttp
}

func (s *RestaurantHttpTestSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.in = RegisterRestaurantHttp(s.mux, eligibility.NewEngine(nil, time.UTC, false))
	s.in.TimeNow = func() time.Time {
		return time.Date(2025, 1, 4, 12, 0, 0, 0, time.UTC)
	}
	vars.SetRestaurants(nil, time.Time{})
}

func (s *RestaurantHttpTestSuite) TearDownTest() {
	vars.SetRestaurants(nil, time.Time{})
}

func TestRestaurantHttpTestSuite(t *testing.T) {
	suite.Run(t, new(RestaurantHttpTestSuite))
}

func (s *RestaurantHttpTestSuite) get(path string, dst any) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()

	s.mux.ServeHTTP(w, req)

	s.Require().Equal(http.StatusOK, w.Code)
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), dst))
}

func (s *RestaurantHttpTestSuite) TestListWithoutSnapshot() {
	var statuses []model.RestaurantStatusResponse
	s.get("/api/restaurants", &statuses)

	s.Require().Len(statuses, 4)
	s.True(statuses[0].Open)
	s.False(statuses[1].Open)
	s.True(statuses[2].Open)
	s.False(statuses[3].Open)
}

func (s *RestaurantHttpTestSuite) TestListFromSnapshot() {
	vars.SetRestaurants([]model.RestaurantStatusResponse{{Id: "direito", Name: "Direito", Open: true, Meal: "dinner"}}, time.Now())

	var statuses []model.RestaurantStatusResponse
	s.get("/api/restaurants", &statuses)

	s.Equal([]model.RestaurantStatusResponse{{Id: "direito", Name: "Direito", Open: true, Meal: "dinner"}}, statuses)
}

func (s *RestaurantHttpTestSuite) TestSchedule() {
	var entries []model.ScheduleEntryResponse
	s.get("/api/schedule", &entries)

	s.Len(entries, 12)
}

func (s *RestaurantHttpTestSuite) TestCategories() {
	var categories []model.CategoryResponse
	s.get("/api/categories", &categories)

	s.Require().Len(categories, 6)
	s.Equal("fump1", categories[1].Code)
	s.EqualValues(100, categories[1].Price)
}
