package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ngmaloney/marine-outlook/internal/classify"
	"github.com/ngmaloney/marine-outlook/internal/forecast"
	"github.com/ngmaloney/marine-outlook/internal/models"
	"github.com/ngmaloney/marine-outlook/internal/noaa"
)

type classifyResponse struct {
	Tier    models.Tier             `json:"tier"`
	Summary models.NarrativeMessage `json:"summary"`
	Signal  classify.Signal         `json:"signal"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	zone := chi.URLParam(r, "zone")
	syn := r.URL.Query().Get("syn")

	page, err := s.client.FetchForecastPage(r.Context(), zone, syn)
	switch {
	case errors.Is(err, noaa.ErrZoneRequired), errors.Is(err, noaa.ErrInvalidZone):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.logger.Error("fetching forecast page", "zone", zone, "error", err)
		writeError(w, http.StatusBadGateway, "forecast unavailable")
		return
	}

	report := s.builder.Build(forecast.Source{
		Zone:      page.Zone,
		Markup:    page.HTML,
		Stale:     page.Stale,
		FetchedAt: page.FetchedAt,
	})
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.extractor.Extract(body))
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	cl := s.classifier.Classify(body)
	writeJSON(w, http.StatusOK, classifyResponse{
		Tier:    cl.Tier,
		Summary: cl.Message,
		Signal:  cl.Signal,
	})
}

// readBody reads a capped request body, writing the error response itself
// when it fails.
func readBody(w http.ResponseWriter, r *http.Request) (string, bool) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return "", false
		}
		writeError(w, http.StatusBadRequest, "reading request body")
		return "", false
	}
	return string(data), true
}
