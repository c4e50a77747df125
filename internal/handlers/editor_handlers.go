package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"slidedeck/internal/editor"
	"slidedeck/internal/models"
	"slidedeck/internal/render"
	"slidedeck/internal/services"
)

// EditorHandler serves the server-rendered slide editor
type EditorHandler struct {
	workspace *services.Workspace
	logger    *zap.Logger

	mu       sync.Mutex
	sessions map[string]*editSession
}

// editSession is an open form together with the stored slide it started from
type editSession struct {
	*editor.Session
	base models.Slide
}

// NewEditorHandler creates the editor pages. An open edit session is
// dropped when its slide is removed or changed in the store.
func NewEditorHandler(workspace *services.Workspace, logger *zap.Logger) *EditorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &EditorHandler{
		workspace: workspace,
		logger:    logger.Named("editor"),
		sessions:  make(map[string]*editSession),
	}
	workspace.OnChange(h.dropStale)
	return h
}

// dropStale closes the sessions whose slide no longer matches doc
func (h *EditorHandler) dropStale(ctx context.Context, doc *models.Document) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, es := range h.sessions {
		i := doc.IndexOf(id)
		if i < 0 || !sameSlide(es.base, doc.Slides[i]) {
			delete(h.sessions, id)
		}
	}
}

func sameSlide(a, b models.Slide) bool {
	return cmp.Equal(a, b, cmpopts.EquateEmpty())
}

// List shows every slide with the deck-level forms
// GET /editor
func (h *EditorHandler) List(w http.ResponseWriter, r *http.Request) {
	deck, ok := h.deck(w, r)
	if !ok {
		return
	}
	writeHTML(w, http.StatusOK, render.EditorPage(deck.Document(), r.URL.Query().Get("message")))
}

// AddSlide appends a slide of the posted type
// POST /editor/slides
func (h *EditorHandler) AddSlide(w http.ResponseWriter, r *http.Request) {
	deck, ok := h.deck(w, r)
	if !ok {
		return
	}
	t := models.SlideType(r.PostFormValue(render.FormType))
	slide, err := deck.AddSlide(r.Context(), t)
	if err != nil {
		h.fail(w, r, deck, err)
		return
	}
	h.logger.Info("added slide", zap.String("id", slide.ID), zap.String("type", string(t)))
	h.workspace.Changed(r.Context())
	http.Redirect(w, r, fmt.Sprintf("/editor/slides/%d", deck.Len()-1), http.StatusSeeOther)
}

// RemoveSlide deletes the slide at the path index
// POST /editor/slides/{index}/delete
func (h *EditorHandler) RemoveSlide(w http.ResponseWriter, r *http.Request) {
	deck, ok := h.deck(w, r)
	if !ok {
		return
	}
	slide, ok := h.slideAt(w, r, deck)
	if !ok {
		return
	}
	if err := deck.RemoveSlide(r.Context(), slide.ID); err != nil {
		h.fail(w, r, deck, err)
		return
	}
	h.logger.Info("removed slide", zap.String("id", slide.ID))
	h.workspace.Changed(r.Context())
	http.Redirect(w, r, "/editor", http.StatusSeeOther)
}

// MoveSlide reorders one slide
// POST /editor/slides/move
func (h *EditorHandler) MoveSlide(w http.ResponseWriter, r *http.Request) {
	deck, ok := h.deck(w, r)
	if !ok {
		return
	}
	from, errFrom := strconv.Atoi(r.PostFormValue(render.FormFrom))
	to, errTo := strconv.Atoi(r.PostFormValue(render.FormTo))
	if errFrom != nil || errTo != nil {
		writeHTML(w, http.StatusBadRequest, render.EditorPage(deck.Document(), "Invalid slide index"))
		return
	}
	if err := deck.MoveSlide(r.Context(), from, to); err != nil {
		h.fail(w, r, deck, err)
		return
	}
	h.logger.Info("moved slide", zap.Int("from", from), zap.Int("to", to))
	h.workspace.Changed(r.Context())
	http.Redirect(w, r, "/editor", http.StatusSeeOther)
}

// UpdateSettings saves the document name and presentation settings
// POST /editor/settings
func (h *EditorHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	deck, ok := h.deck(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeHTML(w, http.StatusBadRequest, render.EditorPage(deck.Document(), "Invalid form data"))
		return
	}
	f := r.PostForm
	settings := models.Settings{
		FontSize:   strings.TrimSpace(f.Get(render.FormFontSize)),
		FontFamily: strings.TrimSpace(f.Get(render.FormFontFamily)),
		Gradient: models.Gradient{
			From: strings.TrimSpace(f.Get(render.FormGradientFrom)),
			To:   strings.TrimSpace(f.Get(render.FormGradientTo)),
		},
		Footer: models.Footer{
			LogoURL:    strings.TrimSpace(f.Get(render.FormLogoURL)),
			DateFormat: strings.TrimSpace(f.Get(render.FormDateFormat)),
		},
		Date: strings.TrimSpace(f.Get(render.FormDate)),
	}
	if err := deck.UpdateSettings(r.Context(), settings); err != nil {
		h.fail(w, r, deck, err)
		return
	}
	if name := f.Get(render.FormDocumentName); name != deck.Document().DocumentName {
		if err := deck.Rename(r.Context(), name); err != nil {
			h.fail(w, r, deck, err)
			return
		}
	}
	h.workspace.Changed(r.Context())
	http.Redirect(w, r, "/editor", http.StatusSeeOther)
}

// EditSlide shows the edit form of one slide
// GET /editor/slides/{index}
func (h *EditorHandler) EditSlide(w http.ResponseWriter, r *http.Request) {
	deck, ok := h.deck(w, r)
	if !ok {
		return
	}
	slide, ok := h.slideAt(w, r, deck)
	if !ok {
		return
	}
	// sessions are only read and written under h.mu
	h.mu.Lock()
	page := h.formPage(deck, r, h.sessionLocked(slide).Session, render.FormState{})
	h.mu.Unlock()
	writeHTML(w, http.StatusOK, page)
}

// SubmitSlide applies the posted form to the slide's edit session. With
// action=save the result replaces the stored slide; invalid chart or
// progress text keeps the form open with the draft intact.
// POST /editor/slides/{index}
func (h *EditorHandler) SubmitSlide(w http.ResponseWriter, r *http.Request) {
	deck, ok := h.deck(w, r)
	if !ok {
		return
	}
	slide, ok := h.slideAt(w, r, deck)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeErrorPage(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	status, page := h.submit(deck, r, slide)
	if page != nil {
		writeHTML(w, status, page)
		return
	}
	h.workspace.Changed(r.Context())
	http.Redirect(w, r, "/editor", http.StatusSeeOther)
}

// submit runs one form post against the slide's session. A nil page means
// the slide was saved.
func (h *EditorHandler) submit(deck *services.Deck, r *http.Request, slide models.Slide) (int, *html.Node) {
	h.mu.Lock()
	defer h.mu.Unlock()
	session := h.sessionLocked(slide).Session

	state := render.FormState{FieldErrors: applyForm(session, r)}
	if len(state.FieldErrors) > 0 {
		state.Message = "Some fields could not be applied"
		return http.StatusUnprocessableEntity, h.formPage(deck, r, session, state)
	}
	if r.PostForm.Get(render.FormAction) != render.ActionSave {
		return http.StatusOK, h.formPage(deck, r, session, state)
	}

	if err := session.CommitAll(); err != nil {
		state.FieldErrors = draftErrors(err)
		state.Message = "Fix the highlighted fields before saving"
		return http.StatusUnprocessableEntity, h.formPage(deck, r, session, state)
	}

	index := mustIndex(r)
	if err := deck.ReplaceSlide(r.Context(), index, session.Result()); err != nil {
		h.logger.Error("failed to save slide", zap.Int("index", index), zap.Error(err))
		state.Message = services.MessageOf(err)
		return statusFor(err), h.formPage(deck, r, session, state)
	}
	h.logger.Info("saved slide", zap.Int("index", index), zap.String("type", string(session.Type())))
	delete(h.sessions, slide.ID)
	return http.StatusOK, nil
}

// applyForm copies posted values into the session and returns the problems
// keyed by form field name
func applyForm(session *editor.Session, r *http.Request) map[string]string {
	f := r.PostForm
	problems := make(map[string]string)

	if t := models.SlideType(f.Get(render.FormType)); t != "" && t != session.Type() {
		if err := session.SetType(t); err != nil {
			problems[render.FormType] = err.Error()
		}
	}

	for _, field := range session.Fields() {
		if _, posted := f[field.Name]; !posted {
			continue
		}
		value := f.Get(field.Name)
		if field.Kind == editor.KindJSON {
			if current, _ := session.Draft(field.Name); value == current {
				continue
			}
			session.SetDraft(field.Name, value)
			if err := session.Commit(field.Name); err != nil {
				problems[field.Name] = err.Error()
			}
			continue
		}
		if value == field.Value {
			continue
		}
		if err := session.Set(field.Name, value); err != nil {
			problems[field.Name] = err.Error()
		}
	}

	before := session.Effect()
	enabled := f.Get(render.FormEffectEnabled) == "on"
	session.EnableEffect(enabled)
	if !enabled {
		return problems
	}
	if t := models.EffectType(f.Get(render.FormEffectType)); t != "" {
		if err := session.SetEffectType(t); err != nil {
			problems[render.FormEffectType] = err.Error()
		}
	}
	// posted options belong to the effect the form was showing
	if before == nil || before.Type != session.Effect().Type {
		return problems
	}
	for key := range f {
		option, ok := strings.CutPrefix(key, render.FormEffectPrefix)
		if !ok {
			continue
		}
		if err := session.SetEffectOption(option, f.Get(key)); err != nil {
			problems[key] = err.Error()
		}
	}
	return problems
}

func draftErrors(err error) map[string]string {
	problems := make(map[string]string)
	var joined interface{ Unwrap() []error }
	errs := []error{err}
	if errors.As(err, &joined) {
		errs = joined.Unwrap()
	}
	for _, e := range errs {
		var de *editor.DraftError
		if errors.As(e, &de) {
			problems[de.Field] = de.Error()
		}
	}
	return problems
}

func (h *EditorHandler) formPage(deck *services.Deck, r *http.Request, session *editor.Session, state render.FormState) *html.Node {
	return render.SlideFormPage(deck.Document(), mustIndex(r), session, state)
}

// sessionLocked must be called with h.mu held
func (h *EditorHandler) sessionLocked(slide models.Slide) *editSession {
	if es, ok := h.sessions[slide.ID]; ok {
		return es
	}
	es := &editSession{Session: editor.New(slide), base: slide}
	h.sessions[slide.ID] = es
	return es
}

func (h *EditorHandler) deck(w http.ResponseWriter, r *http.Request) (*services.Deck, bool) {
	deck, err := h.workspace.Deck(r.Context())
	if err != nil {
		h.logger.Error("failed to open presentation", zap.Error(err))
		writeErrorPage(w, statusFor(err), services.MessageOf(err))
		return nil, false
	}
	return deck, true
}

func (h *EditorHandler) slideAt(w http.ResponseWriter, r *http.Request, deck *services.Deck) (models.Slide, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeErrorPage(w, http.StatusBadRequest, "Invalid slide index")
		return models.Slide{}, false
	}
	slide, err := deck.Slide(index)
	if err != nil {
		writeErrorPage(w, http.StatusNotFound, services.MessageOf(err))
		return models.Slide{}, false
	}
	return slide, true
}

// fail sends the user back to the slide list with the error shown
func (h *EditorHandler) fail(w http.ResponseWriter, r *http.Request, deck *services.Deck, err error) {
	h.logger.Warn("editor action failed", zap.String("path", r.URL.Path), zap.Error(err))
	writeHTML(w, statusFor(err), render.EditorPage(deck.Document(), services.MessageOf(err)))
}

// mustIndex returns the path index already validated by slideAt
func mustIndex(r *http.Request) int {
	index, _ := strconv.Atoi(mux.Vars(r)["index"])
	return index
}
