package event

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/csrf"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Handler serves the HTML pages of the event controller.
type Handler struct {
	controller *Controller
	templates  *template.Template
}

// page is the root value of every template.
type page struct {
	CsrfField template.HTML
	Model     any
}

func NewHandler(controller *Controller, templates *template.Template) *Handler {
	return &Handler{controller: controller, templates: templates}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.controller.List(r.Context())
	h.write(w, r, outcome, err)
}

func (h *Handler) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	outcome, err := h.controller.Details(r.Context(), id)
	h.write(w, r, outcome, err)
}

func (h *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.controller.CreateForm(r.Context())
	h.write(w, r, outcome, err)
}

func (h *Handler) SubmitCreate(w http.ResponseWriter, r *http.Request) {
	draft, err := parseDraft(r)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	outcome, err := h.controller.SubmitCreate(r.Context(), draft)
	h.write(w, r, outcome, err)
}

func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	outcome, err := h.controller.EditForm(r.Context(), id)
	h.write(w, r, outcome, err)
}

func (h *Handler) SubmitEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	draft, err := parseDraft(r)
	if err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	outcome, err := h.controller.SubmitEdit(r.Context(), id, draft)
	h.write(w, r, outcome, err)
}

func (h *Handler) DeleteConfirm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	outcome, err := h.controller.DeleteConfirm(r.Context(), id)
	h.write(w, r, outcome, err)
}

func (h *Handler) SubmitDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathId(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	outcome, err := h.controller.SubmitDelete(r.Context(), id)
	h.write(w, r, outcome, err)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, outcome Outcome, err error) {
	if err != nil {
		log.Errorf("%s %s failed: %v", r.Method, r.URL.Path, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	switch o := outcome.(type) {
	case Render:
		h.render(w, r, http.StatusOK, o.View, o.Data)
	case Redisplay:
		h.render(w, r, http.StatusUnprocessableEntity, o.View, FormData{Draft: o.Draft, Errors: o.Errors})
	case Redirect:
		http.Redirect(w, r, o.Target, http.StatusSeeOther)
	case NotFound:
		http.NotFound(w, r)
	default:
		log.Errorf("unhandled outcome %T for %s %s", outcome, r.Method, r.URL.Path)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, view string, model any) {
	var buf bytes.Buffer
	err := h.templates.ExecuteTemplate(&buf, view, page{CsrfField: csrf.TemplateField(r), Model: model})
	if err != nil {
		log.Errorf("template %q failed: %v", view, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		log.Errorf("failed to write response: %v", err)
	}
}

func pathId(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// parseDraft reads the submitted form. A missing or malformed hidden id yields 0.
func parseDraft(r *http.Request) (Draft, error) {
	if err := r.ParseForm(); err != nil {
		return Draft{}, err
	}
	id, _ := strconv.ParseInt(r.PostForm.Get("id"), 10, 64)
	return Draft{
		Id:              id,
		Title:           r.PostForm.Get("title"),
		DateTime:        r.PostForm.Get("dateTime"),
		HasReminder:     checked(r.PostForm["hasReminder"]),
		ReminderMinutes: strings.TrimSpace(r.PostForm.Get("reminderMinutes")),
	}, nil
}

// checked interprets a checkbox: any submitted truthy value wins over a hidden "false" fallback.
func checked(values []string) bool {
	for _, v := range values {
		if v == "on" {
			return true
		}
		if b, err := strconv.ParseBool(v); err == nil && b {
			return true
		}
	}
	return false
}
