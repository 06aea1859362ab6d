package handler

import (
	"net/http"
	"time"

	"github.com/brunesovrbrauns/bdc-manager-app/internal/businessday"
)

// dateOrToday reads an optional YYYY-MM-DD query parameter, falling back to
// the clock's business date.
func dateOrToday(r *http.Request, key string, clock businessday.Clock) (time.Time, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return clock.Today(), nil
	}
	return businessday.Parse(value)
}
