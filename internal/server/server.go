package server

import (
	"embed"
	"html/template"
	"net/http"
	"strings"

	"smschat/internal/app"
	"smschat/internal/render"
	"smschat/internal/util"
	"smschat/pkg/domain"
)

// phoneHeader identifies the caller; it is set by the SMS Explorer browser.
const phoneHeader = "SE-Phone-Number"

//go:embed templates/chat.html
var templateFS embed.FS

// Config wires required dependencies for the HTTP server.
type Config struct {
	App      *app.App
	Renderer *render.Renderer
}

// Server exposes the chat web surface.
type Server struct {
	app      *app.App
	renderer *render.Renderer
	tmpl     *template.Template
	mux      *http.ServeMux
}

// New constructs the server with routes configured.
func New(cfg Config) *Server {
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = render.New()
	}
	s := &Server{
		app:      cfg.App,
		renderer: renderer,
		tmpl:     template.Must(template.ParseFS(templateFS, "templates/chat.html")),
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

// Router returns the configured handler with middleware applied.
func (s *Server) Router() http.Handler {
	return util.WithRequestID(util.WithRequestLog("smschat", util.WithSecurityHeaders(s.mux)))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.Handle("/", s.withPhone(s.handleChatPage))
	s.mux.Handle("/send", s.withPhone(s.handleSend))
	s.mux.Handle("/clear", s.withPhone(s.handleClear))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

type phoneHandler func(http.ResponseWriter, *http.Request, string)

// withPhone rejects requests lacking the identifying header before any other
// work happens, so no session row is created for them.
func (s *Server) withPhone(next phoneHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		phone := strings.TrimSpace(r.Header.Get(phoneHeader))
		if phone == "" {
			http.Error(w, "this application only works in the SMS Explorer browser", http.StatusBadRequest)
			return
		}
		next(w, r, phone)
	})
}

type pageMessage struct {
	Role domain.MessageRole
	// Text carries user content, escaped by the template. HTML carries the
	// markdown-rendered assistant content.
	Text string
	HTML template.HTML
}

type pageData struct {
	Messages []pageMessage
}

func (s *Server) handleChatPage(w http.ResponseWriter, r *http.Request, phone string) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}
	_, messages, err := s.app.Transcript(phone)
	if err != nil {
		serverError(w, r, "load transcript", err)
		return
	}
	data := pageData{Messages: make([]pageMessage, 0, len(messages))}
	for _, msg := range messages {
		item := pageMessage{Role: msg.Role}
		if msg.Role == domain.RoleAssistant {
			item.HTML = template.HTML(s.renderer.HTML(msg.Content))
		} else {
			item.Text = msg.Content
		}
		data.Messages = append(data.Messages, item)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		util.LoggerFromContext(r.Context()).Error("render chat page", "err", err)
	}
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request, phone string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}
	message := r.PostFormValue("message")
	if strings.TrimSpace(message) == "" {
		http.Error(w, "message is required", http.StatusBadRequest)
		return
	}
	if err := s.app.SendMessage(r.Context(), phone, message); err != nil {
		serverError(w, r, "send message", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request, phone string) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if err := s.app.ClearTranscript(phone); err != nil {
		serverError(w, r, "clear transcript", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
}

// serverError handles storage failures: logged, opaque to the user.
func serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	util.LoggerFromContext(r.Context()).Error(msg, "err", err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}
