package handler

import (
	"context"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/Mareeswari30/Smart-Banking/common"
	"github.com/Mareeswari30/Smart-Banking/logger"
	"github.com/Mareeswari30/Smart-Banking/model"
	"github.com/Mareeswari30/Smart-Banking/service"
	"github.com/Mareeswari30/Smart-Banking/storage"
	"github.com/sirupsen/logrus"
)

const (
	maxDocuments      = 10
	maxRegisterBody   = maxDocuments*storage.MaxDocumentSize + 1<<20
	multipartMemLimit = 8 << 20
)

type UserHandler struct {
	users *service.UserService
	auth  *service.AuthService
	store storage.DocumentStore
}

func NewUserHandler(users *service.UserService, auth *service.AuthService, store storage.DocumentStore) *UserHandler {
	return &UserHandler{users: users, auth: auth, store: store}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a user from form fields and optional JPG/PNG identity documents (max 5MB each). KYC starts as pending.
// @Tags         auth
// @Accept       multipart/form-data
// @Produce      json
// @Param        name           formData  string  true   "Full name"
// @Param        email          formData  string  true   "Email address"
// @Param        password       formData  string  true   "Password (8+ chars, upper, lower, digit, one of @$!%*#?&)"
// @Param        mobile_number  formData  string  false  "Mobile number"
// @Param        documents      formData  file    false  "Identity documents"
// @Success      201  {object}  model.RegisterResponse
// @Failure      400  {object}  common.AppError
// @Failure      500  {object}  common.AppError
// @Router       /register [post]
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	r.Body = http.MaxBytesReader(w, r.Body, maxRegisterBody)
	if err := r.ParseMultipartForm(multipartMemLimit); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return common.NewAppError(http.StatusRequestEntityTooLarge, "Request body too large", nil)
		}
		return common.NewAppError(http.StatusBadRequest, "Invalid form data", err)
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	req := model.RegisterRequest{
		Name:         strings.TrimSpace(r.FormValue("name")),
		Email:        strings.TrimSpace(r.FormValue("email")),
		Password:     r.FormValue("password"),
		MobileNumber: strings.TrimSpace(r.FormValue("mobile_number")),
	}
	if appErr := common.ValidateStruct(&req); appErr != nil {
		return appErr
	}
	if err := service.CheckPasswordStrength(req.Password); err != nil {
		return mapServiceError(err, "Could not register user")
	}

	files, appErr := documentHeaders(r)
	if appErr != nil {
		return appErr
	}

	log := logger.Log.WithFields(logrus.Fields{
		"email":     req.Email,
		"documents": len(files),
	})
	log.Info("Register request received")

	refs, err := h.saveDocuments(r.Context(), files)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not store documents", err)
	}

	in := service.RegisterInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Documents: refs,
	}
	if req.MobileNumber != "" {
		in.MobileNumber = &req.MobileNumber
	}

	user, err := h.users.Register(r.Context(), in)
	if err != nil {
		h.discardDocuments(r.Context(), refs)
		return mapServiceError(err, "Could not register user")
	}

	common.WriteJSON(w, http.StatusCreated, model.NewRegisterResponse(user))
	return nil
}

// documentHeaders returns the uploaded documents after checking type and size.
// Empty file inputs submitted by browsers are ignored.
func documentHeaders(r *http.Request) ([]*multipart.FileHeader, *common.AppError) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	var files []*multipart.FileHeader
	for _, fh := range r.MultipartForm.File["documents"] {
		if fh.Filename == "" && fh.Size == 0 {
			continue
		}
		if err := storage.ValidateDocument(fh.Filename, fh.Size); err != nil {
			return nil, mapServiceError(err, "Invalid document")
		}
		files = append(files, fh)
	}
	if len(files) > maxDocuments {
		return nil, common.NewAppError(http.StatusBadRequest, "Too many documents", nil)
	}
	return files, nil
}

func (h *UserHandler) saveDocuments(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	refs := make([]string, 0, len(files))
	for _, fh := range files {
		ref, err := h.saveDocument(ctx, fh)
		if err != nil {
			h.discardDocuments(ctx, refs)
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (h *UserHandler) saveDocument(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return h.store.Save(ctx, storage.UniqueName(fh.Filename), contentType, f, fh.Size)
}

func (h *UserHandler) discardDocuments(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := h.store.Delete(ctx, ref); err != nil {
			logger.Log.WithError(err).WithField("ref", ref).Warn("Failed to remove orphaned document")
		}
	}
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges email and password for a bearer token. Accepts JSON {email,password} or the OAuth2 password form (username, password).
// @Tags         auth
// @Accept       json
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        credentials  body  model.LoginRequest  false  "Credentials"
// @Success      200  {object}  model.TokenResponse
// @Failure      400  {object}  common.AppError "Incorrect email or password"
// @Failure      429  {object}  common.AppError
// @Router       /login [post]
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if isJSON(r) {
		if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
			return appErr
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return common.NewAppError(http.StatusBadRequest, "Invalid form data", err)
		}
		req.Email = r.PostFormValue("username")
		if req.Email == "" {
			req.Email = r.PostFormValue("email")
		}
		req.Password = r.PostFormValue("password")
		if appErr := common.ValidateStruct(&req); appErr != nil {
			return appErr
		}
	}

	token, err := h.auth.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		return mapServiceError(err, "Could not log in")
	}

	common.WriteJSON(w, http.StatusOK, model.NewTokenResponse(token))
	return nil
}

func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}
