package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/davidsl88/asteroids/internal/neo"
)

const invalidDaysMessage = "The number of days must be positive."

// NeoResponse is the wire form of a neo.Record. Decimals are written as JSON
// numbers carrying their exact decimal text.
type NeoResponse struct {
	Name     string      `json:"name"`
	Diameter json.Number `json:"diameter"`
	Velocity json.Number `json:"velocity"`
	Date     string      `json:"date"`
}

// ToResponse converts records to their wire form. The result is never nil so
// an empty result encodes as [].
func ToResponse(records []neo.Record) []NeoResponse {
	out := make([]NeoResponse, 0, len(records))
	for _, r := range records {
		out = append(out, NeoResponse{
			Name:     r.Name,
			Diameter: json.Number(r.Diameter.String()),
			Velocity: json.Number(r.Velocity.String()),
			Date:     r.Date.Format(neo.DateLayout),
		})
	}
	return out
}

// parseDays reads the required non-negative days parameter.
func parseDays(q url.Values) (int, bool) {
	v := q.Get("days")
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// asteroidsHandler serves GET /api/asteroids/get?days=N.
func asteroidsHandler(logger *slog.Logger, fetcher NeoFetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days, ok := parseDays(r.URL.Query())
		if !ok {
			http.Error(w, invalidDaysMessage, http.StatusBadRequest)
			return
		}

		neos, err := fetcher.FetchTop(r.Context(), days)
		if err != nil {
			logger.Error("fetching near-Earth objects failed",
				"component", "api",
				"days", days,
				"error", err,
			)
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": "upstream feed unavailable"})
			return
		}

		writeJSON(w, http.StatusOK, ToResponse(neos))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
