package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/palaver-chat/palaver/internal/config"
	"github.com/palaver-chat/palaver/internal/delivery/ws"
	"github.com/palaver-chat/palaver/internal/domain"
	"github.com/palaver-chat/palaver/internal/usecase"
)

// isOriginAllowed checks if the origin is in the allowed list
func isOriginAllowed(origin string) bool {
	// Empty origin is allowed (same-origin requests)
	if origin == "" {
		return true
	}

	for _, allowed := range config.AppConfig.AllowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return isOriginAllowed(origin)
	},
}

// Handler wires the REST surface and the websocket upgrade to the hub
// and its collaborators
type Handler struct {
	hub     *ws.Hub
	auth    *usecase.AuthService
	uploads *usecase.UploadStore
}

// NewHandler creates a new Handler
func NewHandler(hub *ws.Hub, auth *usecase.AuthService, uploads *usecase.UploadStore) *Handler {
	return &Handler{
		hub:     hub,
		auth:    auth,
		uploads: uploads,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// HandleRegister creates a new account
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Color    string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	identity, err := h.auth.Register(req.Username, req.Password, req.Color)
	switch {
	case errors.Is(err, usecase.ErrUsernameTaken):
		writeError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, usecase.ErrInvalidUsername),
		errors.Is(err, usecase.ErrWeakPassword),
		errors.Is(err, usecase.ErrPasswordTooLong):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		log.Printf("http: register: %v", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"user":    identity,
	})
}

// HandleLogin verifies credentials and returns a token plus the
// display identity the client will announce over the websocket
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request")
		return
	}

	identity, token, err := h.auth.Login(req.Username, req.Password)
	switch {
	case errors.Is(err, usecase.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
		return
	case err != nil:
		log.Printf("http: login: %v", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   token,
		"user":    identity,
	})
}

// requireAuth extracts and verifies the bearer token. On failure it
// writes the 401 itself and returns false.
func (h *Handler) requireAuth(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		writeError(w, http.StatusUnauthorized, "Missing bearer token")
		return domain.Identity{}, false
	}

	identity, err := h.auth.Verify(token)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return domain.Identity{}, false
	}
	return identity, true
}

// HandleUploadVoice stores a recorded voice clip and returns its URL
func (h *Handler) HandleUploadVoice(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, usecase.UploadKindVoice, "voice")
}

// HandleUploadFile stores a shared file and returns its URL
func (h *Handler) HandleUploadFile(w http.ResponseWriter, r *http.Request) {
	h.handleUpload(w, r, usecase.UploadKindFile, "file")
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request, kind usecase.UploadKind, field string) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if _, ok := h.requireAuth(w, r); !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, config.AppConfig.MaxUploadSize+4096)
	file, header, err := r.FormFile(field)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing "+field+" field")
		return
	}
	defer file.Close()

	stored, err := h.uploads.Save(kind, header.Filename, header.Header.Get("Content-Type"), file)
	switch {
	case errors.Is(err, usecase.ErrUploadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		return
	case err != nil:
		log.Printf("http: upload %s: %v", kind, err)
		writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"file":    stored,
	})
}

// HandleMessages returns the full message history
func (h *Handler) HandleMessages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"messages": h.hub.Messages(),
	})
}

// HandleOnlineUsers returns the current presence snapshot
func (h *Handler) HandleOnlineUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"users":   h.hub.OnlineUsers(),
	})
}

// HandleHealth reports liveness plus a couple of cheap gauges
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"connections": h.hub.ClientCount(),
	})
}

// HandleWebSocket upgrades the request and hands the connection to the
// hub. The connection is not part of presence until it sends
// user_online.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
