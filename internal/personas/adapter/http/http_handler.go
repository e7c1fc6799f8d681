package http

import (
	"gestion-personas/internal/personas/domain/model"
	"gestion-personas/internal/personas/usecase"
	apperrors "gestion-personas/internal/shared/errors"
	"gestion-personas/internal/shared/logger"
	"gestion-personas/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// PersonRequest is the body of create and edit requests
type PersonRequest struct {
	Nombre   string  `json:"nombre"`
	Apellido string  `json:"apellido"`
	Correo   string  `json:"correo,omitempty"`
	Foto     *string `json:"foto"`
}

func (r PersonRequest) draft() model.PersonDraft {
	return model.PersonDraft{Nombre: r.Nombre, Apellido: r.Apellido, Correo: r.Correo, Foto: r.Foto}
}

// FileRequest is the body of an upload request
type FileRequest struct {
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SelectImageRequest is the body of an image selection request
type SelectImageRequest struct {
	Purpose model.PickPurpose `json:"purpose"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HTTPHandler exposes the personas commands over HTTP
type HTTPHandler struct {
	PersonasUC usecase.PersonasUsecase
	Log        logger.Logger
}

// NewHTTPHandler creates a new HTTPHandler
func NewHTTPHandler(uc usecase.PersonasUsecase, log logger.Logger) *HTTPHandler {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &HTTPHandler{PersonasUC: uc, Log: log.WithComponent("personas_http")}
}

// RegisterRoutes registers the REST routes under router
func (h *HTTPHandler) RegisterRoutes(router fiber.Router) {
	api := router.Group("/api/v1", RequestIDMiddleware())

	persons := api.Group("/persons")
	persons.Get("/", h.ListPersons)
	persons.Post("/", h.CreatePerson)
	persons.Get("/:id", h.GetPerson)
	persons.Put("/:id", h.UpdatePerson)
	persons.Delete("/:id", h.DeletePerson)
	persons.Delete("/:id/photo", h.RemovePhoto)
	persons.Get("/:id/files", h.ListFiles)
	persons.Post("/:id/files", h.UploadFile)
	persons.Delete("/:id/files/:fileId", h.DeleteFile)

	api.Get("/activity", h.Activity)
	api.Get("/snapshot", h.Snapshot)
	api.Post("/images/select", h.SelectImage)
}

// RequestIDMiddleware propagates or assigns a request id
func RequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := fiberutils.CopyString(c.Get(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.SetUserContext(utils.WithRequestID(c.UserContext(), id))
		return c.Next()
	}
}

func (h *HTTPHandler) ListPersons(c *fiber.Ctx) error {
	return c.JSON(h.PersonasUC.ListPersons(c.UserContext()))
}

func (h *HTTPHandler) GetPerson(c *fiber.Ctx) error {
	person, err := h.PersonasUC.GetPerson(c.UserContext(), param(c, "id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(person)
}

func (h *HTTPHandler) CreatePerson(c *fiber.Ctx) error {
	var req PersonRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	person, err := h.PersonasUC.AddPerson(c.UserContext(), req.draft())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(person)
}

func (h *HTTPHandler) UpdatePerson(c *fiber.Ctx) error {
	var req PersonRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	person, err := h.PersonasUC.EditPerson(c.UserContext(), param(c, "id"), req.draft())
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(person)
}

func (h *HTTPHandler) RemovePhoto(c *fiber.Ctx) error {
	person, err := h.PersonasUC.RemovePhoto(c.UserContext(), param(c, "id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(person)
}

// DeletePerson removes the person together with its files
func (h *HTTPHandler) DeletePerson(c *fiber.Ctx) error {
	if err := h.PersonasUC.DeletePerson(c.UserContext(), param(c, "id")); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *HTTPHandler) ListFiles(c *fiber.Ctx) error {
	files, err := h.PersonasUC.ListFiles(c.UserContext(), param(c, "id"))
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(files)
}

func (h *HTTPHandler) UploadFile(c *fiber.Ctx) error {
	var req FileRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	record, err := h.PersonasUC.UploadFile(c.UserContext(), param(c, "id"), model.FileDraft{Name: req.Name, URI: req.URI})
	if err != nil {
		return h.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(record)
}

func (h *HTTPHandler) DeleteFile(c *fiber.Ctx) error {
	if err := h.PersonasUC.DeleteFile(c.UserContext(), param(c, "id"), param(c, "fileId")); err != nil {
		return h.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Activity lists every person with its file count
func (h *HTTPHandler) Activity(c *fiber.Ctx) error {
	return c.JSON(h.PersonasUC.Activity(c.UserContext()))
}

func (h *HTTPHandler) Snapshot(c *fiber.Ctx) error {
	return c.JSON(h.PersonasUC.Snapshot(c.UserContext()))
}

// SelectImage runs one image selection. A cancellation is a 200 with
// cancelled=true, not an error.
func (h *HTTPHandler) SelectImage(c *fiber.Ctx) error {
	var req SelectImageRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}
	result, err := h.PersonasUC.SelectImage(c.UserContext(), req.Purpose)
	if err != nil {
		return h.writeError(c, err)
	}
	return c.JSON(result)
}

func (h *HTTPHandler) writeError(c *fiber.Ctx, err error) error {
	status := apperrors.HTTPStatus(err)
	code := "internal_error"
	message := "internal server error"
	if appErr, ok := apperrors.AsAppError(err); ok {
		message = appErr.Message
		if appErr.Code != "" {
			code = appErr.Code
		} else {
			code = defaultCode(appErr.Type)
		}
	}
	if status >= fiber.StatusInternalServerError {
		h.Log.WithContext(c.UserContext()).Errorf("Request %s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(ErrorResponse{Error: code, Message: message})
}

func defaultCode(t apperrors.ErrorType) string {
	switch t {
	case apperrors.ErrorTypeValidation:
		return "invalid_argument"
	case apperrors.ErrorTypeNotFound:
		return "not_found"
	case apperrors.ErrorTypePermission:
		return "permission_denied"
	default:
		return "internal_error"
	}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_body",
		Message: "Invalid request body",
	})
}

// param returns a copy of a route parameter. fiber reuses the underlying
// buffer once the handler returns and ids end up as stored map keys.
func param(c *fiber.Ctx, name string) string {
	return fiberutils.CopyString(c.Params(name))
}
