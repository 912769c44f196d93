package main

import (
	"encoding/json"
	"log"
	"net/http"
)

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Reply string `json:"reply"`
}

// newServeMux exposes the single inbound endpoint: POST /ask with a JSON
// question, answered with a JSON reply. The handler always responds 200
// with a textual message; "errors" live in the reply content, not in HTTP
// status codes.
func newServeMux(svc *Service) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ask", func(w http.ResponseWriter, r *http.Request) {
		allowCORS(w)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req askRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			req.Question = ""
		}

		reply := svc.Answer(r.Context(), req.Question)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(askResponse{Reply: reply}); err != nil {
			log.Printf("ask response encode error: %v", err)
		}
	})
	return mux
}

func allowCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func StartHTTPServer(cfg Config, svc *Service) error {
	log.Printf("HTTP API listening on %s", cfg.ListenAddr)
	return http.ListenAndServe(cfg.ListenAddr, newServeMux(svc))
}
