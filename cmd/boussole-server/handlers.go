package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/boussole-dz/boussole/pkg/demand"
	"github.com/boussole-dz/boussole/pkg/geo"
)

// Radius used when an area query names a wilaya instead of coordinates.
const wilayaAreaRadius = 2000

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to write response", "error", err)
	}
}

func (s *server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"geo_available": s.geo.Available(),
	})
}

func (s *server) handleArea(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := w.Header().Get("X-Request-ID")

	q := geo.Query{
		RadiusMeters: geo.DefaultRadius,
		PlaceType:    r.URL.Query().Get("type"),
	}
	if code := r.URL.Query().Get("wilaya"); code != "" {
		wil, err := s.wilayas.Lookup(r.Context(), code)
		if err != nil {
			s.writeError(w, http.StatusNotFound, "unknown wilaya "+code)
			return
		}
		if !wil.HasCoordinates() {
			s.writeError(w, http.StatusUnprocessableEntity, "wilaya "+code+" has no coordinates")
			return
		}
		q.Lat = wil.Latitude
		q.Lon = wil.Longitude
		q.RadiusMeters = wilayaAreaRadius
	} else {
		lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid or missing lat")
			return
		}
		lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid or missing lon")
			return
		}
		q.Lat = lat
		q.Lon = lon
	}
	if raw := r.URL.Query().Get("radius"); raw != "" {
		radius, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid radius")
			return
		}
		q.RadiusMeters = radius
	}

	report, err := s.geo.AreaIntelligence(r.Context(), q)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("Area request completed",
		"request_id", requestID,
		"lat", q.Lat,
		"lon", q.Lon,
		"cached", report.Cached,
		"duration_ms", time.Since(start).Milliseconds())
	s.writeJSON(w, http.StatusOK, report)
}

func (s *server) handleSectors(w http.ResponseWriter, _ *http.Request) {
	type sectorInfo struct {
		Code demand.SectorCode `json:"code"`
		Name string            `json:"name"`
	}
	sectors := make([]sectorInfo, 0, len(demand.Sectors()))
	for _, code := range demand.Sectors() {
		profile, _ := demand.ProfileFor(code)
		sectors = append(sectors, sectorInfo{Code: code, Name: profile.Name})
	}
	s.writeJSON(w, http.StatusOK, sectors)
}

func (s *server) handleDemand(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := w.Header().Get("X-Request-ID")

	sector, err := demand.ParseSector(r.PathValue("sector"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	wilayaCode := r.URL.Query().Get("wilaya")

	score, err := s.demand.Score(r.Context(), sector, wilayaCode)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("Demand request completed",
		"request_id", requestID,
		"sector", sector,
		"wilaya", wilayaCode,
		"score", score.Score,
		"duration_ms", time.Since(start).Milliseconds())
	s.writeJSON(w, http.StatusOK, score)
}

func (s *server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := w.Header().Get("X-Request-ID")

	wilayaCode := r.URL.Query().Get("wilaya")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	opps, err := s.demand.SectorOpportunities(r.Context(), wilayaCode, limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.logger.Info("Opportunities request completed",
		"request_id", requestID,
		"wilaya", wilayaCode,
		"count", len(opps),
		"duration_ms", time.Since(start).Milliseconds())
	s.writeJSON(w, http.StatusOK, opps)
}

func (s *server) handleFeasibility(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := w.Header().Get("X-Request-ID")

	sector, err := demand.ParseSector(r.PathValue("sector"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	wilayaCode := r.URL.Query().Get("wilaya")

	report, err := s.demand.FeasibilityReport(r.Context(), sector, wilayaCode)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("Feasibility request completed",
		"request_id", requestID,
		"sector", sector,
		"wilaya", wilayaCode,
		"verdict", report.Verdict,
		"duration_ms", time.Since(start).Milliseconds())
	s.writeJSON(w, http.StatusOK, report)
}
