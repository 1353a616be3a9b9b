package http

import (
	"net/http"
	"ru-ticket/common/vars"
	"ru-ticket/eligibility"
	"time"
)

type RestaurantHttp struct {
	Engine *eligibility.Engine

	TimeNow func() time.Time
}

func RegisterRestaurantHttp(mux *http.ServeMux, engine *eligibility.Engine) *RestaurantHttp {
	in := &RestaurantHttp{Engine: engine, TimeNow: time.Now}

	mux.HandleFunc("GET /api/restaurants", in.list)
	mux.HandleFunc("GET /api/schedule", in.schedule)
	mux.HandleFunc("GET /api/categories", in.categories)

	return in
}

// list serves the cron snapshot, computing one on the spot until the first
// refresh has run.
func (in *RestaurantHttp) list(w http.ResponseWriter, r *http.Request) {
	if snapshot := vars.GetRestaurants(); snapshot != nil {
		writeJSONResponse(w, http.StatusOK, snapshot.Statuses)
		return
	}

	writeJSONResponse(w, http.StatusOK, in.Engine.Statuses(in.TimeNow()))
}

func (in *RestaurantHttp) schedule(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, in.Engine.Schedule.Entries())
}

func (in *RestaurantHttp) categories(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, eligibility.CategoryResponses())
}
