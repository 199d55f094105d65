package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Auth         *AuthHandler
	Agendamentos *AgendamentoHandler
	Professores  *ProfessorHandler

	// SessionGuard wraps every route except /login and /logout.
	SessionGuard func(http.Handler) http.Handler
	// AdminGuard additionally wraps the /professores routes. It runs
	// inside SessionGuard so the session identity is already resolved.
	AdminGuard func(http.Handler) http.Handler
	// Middleware wraps the whole router, outermost first.
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Auth != nil {
		mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Login(w, r)
		})
		mux.HandleFunc("/logout", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Auth.Logout(w, r)
		})
	}

	protected := http.NewServeMux()

	if cfg.Agendamentos != nil {
		protected.HandleFunc("/turmas", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Agendamentos.Turmas(w, r)
		})
		protected.HandleFunc("/agendamentos", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				cfg.Agendamentos.List(w, r)
			case http.MethodPost:
				cfg.Agendamentos.Create(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPost)
			}
		})
		protected.HandleFunc("/agendamentos/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/agendamentos/")
			if id == "" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithRecordID(r.Context(), id)
			r = r.WithContext(ctx)
			switch r.Method {
			case http.MethodPut:
				cfg.Agendamentos.Update(w, r)
			case http.MethodDelete:
				cfg.Agendamentos.Delete(w, r)
			default:
				methodNotAllowed(w, http.MethodPut, http.MethodDelete)
			}
		})
	}

	directory := http.NewServeMux()

	if cfg.Professores != nil {
		directory.HandleFunc("/professores", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Professores.List(w, r)
		})
		directory.HandleFunc("/professores/importar", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				methodNotAllowed(w, http.MethodPost)
				return
			}
			cfg.Professores.Import(w, r)
		})
		directory.HandleFunc("/professores/", func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimPrefix(r.URL.Path, "/professores/")
			if id == "" || id == "importar" {
				http.NotFound(w, r)
				return
			}
			ctx := ContextWithRecordID(r.Context(), id)
			r = r.WithContext(ctx)
			if r.Method != http.MethodDelete {
				methodNotAllowed(w, http.MethodDelete)
				return
			}
			cfg.Professores.Delete(w, r)
		})
	}

	var guarded http.Handler = protected
	if cfg.SessionGuard != nil {
		guarded = cfg.SessionGuard(protected)
	}
	mux.Handle("/turmas", guarded)
	mux.Handle("/agendamentos", guarded)
	mux.Handle("/agendamentos/", guarded)

	var adminOnly http.Handler = directory
	if cfg.AdminGuard != nil {
		adminOnly = cfg.AdminGuard(adminOnly)
	}
	if cfg.SessionGuard != nil {
		adminOnly = cfg.SessionGuard(adminOnly)
	}
	mux.Handle("/professores", adminOnly)
	mux.Handle("/professores/", adminOnly)

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
