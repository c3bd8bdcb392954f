package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/jrsteele09/go-rental-portal/api"
	"github.com/jrsteele09/go-rental-portal/sessions"
	"github.com/jrsteele09/go-rental-portal/users"
	"github.com/rs/zerolog/hlog"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"

	msgSessionSave = "Unable to save your session"
)

// ViewState is where a protected page is in its fetch cycle
type ViewState int

const (
	ViewLoading ViewState = iota
	ViewError
	ViewNoData
	ViewData
)

func (v ViewState) String() string {
	switch v {
	case ViewError:
		return "error"
	case ViewNoData:
		return "no-data"
	case ViewData:
		return "data"
	default:
		return "loading"
	}
}

// View carries the outcome of the page's most recent fetch
type View struct {
	State ViewState
	Error string
	Data  any
}

func (v View) IsLoading() bool { return v.State == ViewLoading }
func (v View) IsError() bool   { return v.State == ViewError }
func (v View) IsEmpty() bool   { return v.State == ViewNoData }
func (v View) HasData() bool   { return v.State == ViewData }

// resolveView moves a view out of loading based on one fetch outcome
func resolveView(data any, empty bool, err error) View {
	switch {
	case err != nil:
		return View{State: ViewError, Error: api.Message(err)}
	case empty:
		return View{State: ViewNoData}
	default:
		return View{State: ViewData, Data: data}
	}
}

// PageData is the model every page template renders
type PageData struct {
	AppName  string
	Title    string
	Active   string
	Path     string
	Session  *sessions.Session
	Error    string
	Success  string
	HTMXURL  string
	View     View
	Form     map[string]string
	Role     users.RoleType
	Redirect string
	Delay    int
	Extra    any
}

func (s *Server) newPage(r *http.Request, title, active string) PageData {
	page := PageData{
		AppName: s.config.GetAppName(),
		Title:   title,
		Active:  active,
		Path:    r.URL.Path,
		Error:   r.URL.Query().Get("error"),
		Success: r.URL.Query().Get("success"),
		HTMXURL: s.htmxScriptURL,
		Form:    map[string]string{},
	}
	if p := providerFrom(r.Context()); p != nil {
		page.Session = p.Session()
	}
	return page
}

// sessionExpired handles a 401 from the API: the local session is cleared and
// the browser is sent to its login page after a short notice. It reports
// whether err was handled.
func (s *Server) sessionExpired(w http.ResponseWriter, r *http.Request, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}

	p := providerFrom(r.Context())
	role := p.Role()
	p.Expire(r.Context())
	s.renderExpired(w, r, role)
	return true
}

// renderExpired shows the expiry notice for a session that has already been cleared
func (s *Server) renderExpired(w http.ResponseWriter, r *http.Request, role users.RoleType) {
	hlog.FromRequest(r).Info().Str("role", role.String()).Msg("session expired")

	page := s.newPage(r, "Session expired", "")
	page.Session = nil
	page.Error = providerFrom(r.Context()).LastError()
	page.Redirect = loginRouteFor(role)
	page.Delay = int(s.expiredDelay / time.Second)

	status := http.StatusUnauthorized
	if isHTMXRequest(r) {
		// htmx only swaps successful responses
		status = http.StatusOK
	} else {
		w.Header().Set("Refresh", refreshHeader(page.Delay, page.Redirect))
	}
	s.render(w, r, "session_expired.html", status, page)
}

func refreshHeader(delay int, target string) string {
	return strconv.Itoa(delay) + "; url=" + target
}
