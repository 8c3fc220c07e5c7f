package plot

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/raykavin/chartcore/pkg/interaction"
)

const maxScriptSize = 1 << 20

// handleHealth reports unhealthy while no candles are loaded
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.Lock()
	loaded := s.machine.Session().Viewport().Len()
	lastUpdate := s.lastUpdate
	s.Unlock()

	if loaded == 0 {
		w.WriteHeader(http.StatusServiceUnavailable)
		if _, err := w.Write([]byte(lastUpdate.Format(time.RFC3339))); err != nil {
			s.log.Error("Failed to write health status: ", err)
		}
		return
	}

	w.WriteHeader(http.StatusOK)
}

// handleFrame returns the current render frame
func (s *Server) handleFrame(w http.ResponseWriter, _ *http.Request) {
	s.Lock()
	frame := BuildFrame(s.machine)
	s.Unlock()

	s.writeJSON(w, frame)
}

// handleEvents applies a posted event script and returns the new frame
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxScriptSize))
	if err != nil {
		http.Error(w, "Failed to read body", http.StatusBadRequest)
		return
	}

	script, err := interaction.ParseScript(body)
	if err != nil {
		s.log.WithError(err).Debug("rejected event script")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.Lock()
	s.machine.Run(script.Events)
	frame := BuildFrame(s.machine)
	s.lastUpdate = s.now()
	s.Unlock()

	s.writeJSON(w, frame)
}

// handleDrawings returns the stored drawings
func (s *Server) handleDrawings(w http.ResponseWriter, _ *http.Request) {
	s.Lock()
	drawings := s.machine.Session().Drawings().Copy()
	s.Unlock()

	s.writeJSON(w, drawings)
}

// handleAlertLog exports the alert log as CSV
func (s *Server) handleAlertLog(w http.ResponseWriter, _ *http.Request) {
	s.Lock()
	entries := s.machine.Session().AlertLog().Entries()
	symbol := s.machine.Session().Symbol()
	s.Unlock()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment;filename=alerts_"+symbol+".csv")

	buffer := bytes.NewBuffer(nil)
	csvWriter := csv.NewWriter(buffer)

	if err := csvWriter.Write([]string{"at", "alert_id", "type", "price", "message"}); err != nil {
		s.log.Error("Failed writing CSV header: ", err)
		http.Error(w, "Failed to generate CSV", http.StatusInternalServerError)
		return
	}

	for _, e := range entries {
		row := []string{
			e.At.UTC().Format(time.RFC3339),
			e.AlertID,
			string(e.Type),
			strconv.FormatFloat(e.Price, 'f', -1, 64),
			e.Message,
		}
		if err := csvWriter.Write(row); err != nil {
			s.log.Error("Failed writing CSV data: ", err)
			http.Error(w, "Failed to generate CSV", http.StatusInternalServerError)
			return
		}
	}
	csvWriter.Flush()

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buffer.Bytes()); err != nil {
		s.log.Error("Failed writing CSV response: ", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("JSON encoding failed: ", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
