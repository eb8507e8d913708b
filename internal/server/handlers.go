package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/smokyabdulrahman/miqat/internal/hijri"
	"github.com/smokyabdulrahman/miqat/internal/service"
	"github.com/smokyabdulrahman/miqat/internal/solar"
)

const dateLayout = "2006-01-02"

type healthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

type prayerTimesResponse struct {
	Date      string            `json:"date"`
	Timezone  string            `json:"timezone"`
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Method    string            `json:"method"`
	Madhhab   string            `json:"madhhab"`
	Backend   string            `json:"backend"`
	Hijri     string            `json:"hijri"`
	Times     map[string]string `json:"times"`
}

type hijriResponse struct {
	hijri.Date
	EraSuffix  string `json:"eraSuffix"`
	Label      string `json:"label"`
	MonthLabel string `json:"monthLabel"`
}

type holidayResponse struct {
	Name        string           `json:"name"`
	Date        string           `json:"date"`
	Hijri       string           `json:"hijri"`
	Description string           `json:"description"`
	Importance  hijri.Importance `json:"importance"`
}

type holidaysResponse struct {
	Year     int               `json:"year"`
	Major    int               `json:"major"`
	Minor    int               `json:"minor"`
	Holidays []holidayResponse `json:"holidays"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, healthResponse{Status: "ok", Backend: s.svc.Backend()})
}

func (s *Server) handlePrayerTimes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	loc := time.UTC
	if tz := q.Get("tz"); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, fmt.Sprintf("invalid tz %q", tz))
			return
		}
		loc = l
	}

	date, err := parseDate(q.Get("date"), s.now(), loc)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	lat, err := parseFloatParam(q.Get("lat"), "lat")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	lon, err := parseFloatParam(q.Get("lon"), "lon")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.svc.Resolve(r.Context(), service.Request{
		Date:       date,
		Coordinate: solar.Coordinate{Latitude: lat, Longitude: lon},
		Madhhab:    q.Get("madhhab"),
		Method:     q.Get("method"),
	})
	switch {
	case err == nil:
	case service.IsInputError(err):
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, solar.ErrUnreachableAngle):
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		respondWithError(w, http.StatusServiceUnavailable, "request timed out")
		return
	default:
		s.logger.Error().Err(err).Str("request_id", RequestIDFrom(r.Context())).Msg("compute prayer times")
		respondWithError(w, http.StatusInternalServerError, "failed to compute prayer times")
		return
	}

	respondWithJSON(w, http.StatusOK, prayerTimesResponse{
		Date:      date.Format(dateLayout),
		Timezone:  loc.String(),
		Latitude:  lat,
		Longitude: lon,
		Method:    res.Method.String(),
		Madhhab:   res.Madhhab.String(),
		Backend:   res.Backend,
		Hijri:     hijri.FromGregorian(date).String(),
		Times:     res.ISO(),
	})
}

func (s *Server) handleHijri(w http.ResponseWriter, r *http.Request) {
	date, err := parseDate(r.URL.Query().Get("date"), s.now(), time.UTC)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	d := hijri.FromGregorian(date)
	respondWithJSON(w, http.StatusOK, hijriResponse{
		Date:       d,
		EraSuffix:  hijri.EraSuffix,
		Label:      d.String(),
		MonthLabel: d.MonthLabel(),
	})
}

func (s *Server) handleHolidays(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year < 1 || year > 9999 {
		respondWithError(w, http.StatusBadRequest, "year must be a number between 1 and 9999")
		return
	}

	hs := hijri.HolidaysForYear(year)
	if r.URL.Query().Get("sorted") == "true" {
		hs = hijri.Chronological(hs)
	}

	major, minor := hijri.Count(hs)
	out := holidaysResponse{Year: year, Major: major, Minor: minor, Holidays: make([]holidayResponse, len(hs))}
	for i, h := range hs {
		out.Holidays[i] = holidayResponse{
			Name:        h.Name,
			Date:        h.Date.Format(dateLayout),
			Hijri:       h.HijriLabel(),
			Description: h.Description,
			Importance:  h.Importance,
		}
	}
	respondWithJSON(w, http.StatusOK, out)
}

// parseDate reads a YYYY-MM-DD date as midnight in loc. Empty means today
// in loc.
func parseDate(raw string, now time.Time, loc *time.Location) (time.Time, error) {
	if raw == "" {
		y, m, d := now.In(loc).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, loc), nil
	}
	t, err := time.ParseInLocation(dateLayout, raw, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD", raw)
	}
	return t, nil
}

func parseFloatParam(raw, name string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("missing %s parameter", name)
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: must be a number", name, raw)
	}
	return v, nil
}

// respondWithJSON writes a JSON response
func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError writes an error response
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}
