// Package http wires the request gate: it resolves identity from the session
// cookie, authorizes the requested operation, confines the URL path to the
// served root and performs the filesystem action.
package http

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"fileshare/internal/domain"
	"fileshare/internal/fsutil"
	"fileshare/internal/service"
	"fileshare/internal/upload"
	"fileshare/internal/view"
)

// SessionCookie is the name of the cookie binding a browser to a session.
const SessionCookie = "session_id"

const loginErrorHTML = `<div class="alert alert-danger" role="alert">Invalid username or password.</div>`

// Handler is the request gate. Per request it runs, in order: session
// resolution, permission check, confined path resolution, filesystem action.
type Handler struct {
	creds        service.CredentialStore
	sessions     service.SessionRegistry
	views        *view.Renderer
	filesRoot    string
	staticRoot   string
	maxUpload    int64
	restrictions upload.Restrictions
	logger       *logrus.Logger
}

func NewHandler(
	creds service.CredentialStore,
	sessions service.SessionRegistry,
	views *view.Renderer,
	filesRoot, staticRoot string,
	maxUploadBytes int64,
	restrictions upload.Restrictions,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		creds:        creds,
		sessions:     sessions,
		views:        views,
		filesRoot:    filesRoot,
		staticRoot:   staticRoot,
		maxUpload:    maxUploadBytes,
		restrictions: restrictions,
		logger:       logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/login", h.loginPage)
	router.POST("/login", h.login)
	router.GET("/logout", h.logout)
	router.GET("/static/*filepath", h.static)

	// Everything else is a file-management path handled per method.
	router.NoRoute(h.gate)
}

func (h *Handler) gate(c *gin.Context) {
	switch c.Request.Method {
	case http.MethodGet:
		h.browse(c)
	case http.MethodPost:
		h.upload(c)
	case http.MethodDelete:
		h.remove(c)
	default:
		c.String(http.StatusMethodNotAllowed, "method not allowed")
	}
}

// sessionUser resolves the username behind the request's session cookie.
func (h *Handler) sessionUser(c *gin.Context) (string, bool) {
	id, err := c.Cookie(SessionCookie)
	if err != nil || id == "" {
		return "", false
	}
	return h.sessions.Resolve(id)
}

func (h *Handler) loginPage(c *gin.Context) {
	h.renderView(c, http.StatusOK, "login.html", view.Context{})
}

func (h *Handler) login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if !h.creds.Verify(username, password) {
		h.renderView(c, http.StatusOK, "login.html", view.Context{
			Values: map[string]string{"ERROR_MESSAGE_PLACEHOLDER": loginErrorHTML},
		})
		return
	}

	id, err := h.sessions.Create(username)
	if err != nil {
		c.String(http.StatusInternalServerError, "create session: %v", err)
		return
	}
	h.logger.WithField("user", username).Info("login")
	c.SetCookie(SessionCookie, id, 0, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) logout(c *gin.Context) {
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		h.sessions.Revoke(id)
	}
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}

// static serves assets from the static root. Never permission-gated; the
// static tree carries no user data.
func (h *Handler) static(c *gin.Context) {
	abs, err := fsutil.ResolveWithinRoot(h.staticRoot, c.Param("filepath"))
	if err != nil {
		c.String(http.StatusNotFound, "static file not found")
		return
	}
	st, err := os.Stat(abs)
	if err != nil || !st.Mode().IsRegular() {
		c.String(http.StatusNotFound, "static file not found")
		return
	}
	c.File(abs)
}

func (h *Handler) browse(c *gin.Context) {
	username, ok := h.sessionUser(c)
	if !ok {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	urlPath := cleanURLPath(c.Request.URL.Path)
	abs, err := fsutil.ResolveWithinRoot(h.filesRoot, urlPath)
	if err != nil {
		// Escapes read as not-found so the tree layout is not leaked.
		c.String(http.StatusNotFound, "not found")
		return
	}
	st, err := os.Stat(abs)
	if err != nil {
		c.String(http.StatusNotFound, "not found")
		return
	}

	if st.IsDir() {
		h.listDirectory(c, abs, urlPath, username)
		return
	}
	if !st.Mode().IsRegular() {
		c.String(http.StatusNotFound, "not found")
		return
	}
	c.File(abs)
}

func (h *Handler) listDirectory(c *gin.Context, absDir, urlPath, username string) {
	canDelete := h.creds.HasPermission(username, domain.PermissionDelete)
	entries, err := listEntries(absDir, urlPath, canDelete)
	if err != nil {
		c.String(http.StatusInternalServerError, "list directory: %v", err)
		return
	}

	h.renderView(c, http.StatusOK, "file_browser.html", view.Context{
		Values: map[string]string{
			"FILE_LIST_PLACEHOLDER": rowsHTML(urlPath, entries),
			"current_path":          htmlEscape(urlPath),
			"username":              htmlEscape(username),
		},
		ShowWriteControls: h.creds.HasPermission(username, domain.PermissionWrite),
	})
}

func (h *Handler) upload(c *gin.Context) {
	username, ok := h.sessionUser(c)
	if !ok || !h.creds.HasPermission(username, domain.PermissionWrite) {
		c.String(http.StatusForbidden, "permission denied")
		return
	}

	contentType := c.GetHeader("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		c.String(http.StatusBadRequest, "expected multipart/form-data")
		return
	}

	// Size gate runs against the declared length, before any of the body is
	// read.
	if c.Request.ContentLength > h.maxUpload {
		c.String(http.StatusRequestEntityTooLarge, "file too large, limit is %d MB", h.maxUpload/(1024*1024))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.String(http.StatusBadRequest, "read body: %v", err)
		return
	}

	filename, data, err := upload.Extract(body, contentType)
	if err != nil {
		if errors.Is(err, upload.ErrNoFilePart) {
			c.String(http.StatusBadRequest, "no file selected")
			return
		}
		c.String(http.StatusBadRequest, "parse form: %v", err)
		return
	}

	if !h.restrictions.Allowed(filename) {
		c.String(http.StatusForbidden, "file type not allowed: %s", strings.ToLower(filepath.Ext(filename)))
		return
	}

	urlPath := cleanURLPath(c.Request.URL.Path)
	absDir, err := fsutil.ResolveWithinRoot(h.filesRoot, urlPath)
	if err != nil {
		c.String(http.StatusNotFound, "not found")
		return
	}

	// Existing files with the same name are overwritten.
	target := filepath.Join(absDir, filename)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		c.String(http.StatusInternalServerError, "write file: %v", err)
		return
	}

	h.logger.WithFields(logrus.Fields{"user": username, "file": filename, "dir": urlPath}).Info("upload")
	c.Redirect(http.StatusSeeOther, urlPath)
}

func (h *Handler) remove(c *gin.Context) {
	username, ok := h.sessionUser(c)
	if !ok || !h.creds.HasPermission(username, domain.PermissionDelete) {
		c.String(http.StatusForbidden, "delete permission denied")
		return
	}

	urlPath := cleanURLPath(c.Request.URL.Path)
	abs, err := fsutil.ResolveWithinRoot(h.filesRoot, urlPath)
	if err != nil {
		c.String(http.StatusNotFound, "file not found")
		return
	}
	st, err := os.Stat(abs)
	if err != nil || !st.Mode().IsRegular() {
		c.String(http.StatusNotFound, "file not found")
		return
	}

	if err := os.Remove(abs); err != nil {
		c.String(http.StatusInternalServerError, "delete: %v", err)
		return
	}
	h.logger.WithFields(logrus.Fields{"user": username, "path": urlPath}).Info("delete")
	c.String(http.StatusOK, "file deleted")
}

func (h *Handler) renderView(c *gin.Context, status int, name string, ctx view.Context) {
	b, err := h.views.Render(name, ctx)
	if err != nil {
		c.String(http.StatusInternalServerError, "render view: %v", err)
		return
	}
	c.Data(status, "text/html; charset=utf-8", b)
}

// cleanURLPath normalizes the request path to an absolute slash path with no
// trailing slash (except for the root itself).
func cleanURLPath(p string) string {
	if p == "" {
		return "/"
	}
	return path.Clean("/" + strings.TrimPrefix(p, "/"))
}
