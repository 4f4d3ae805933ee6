package submissions

import (
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/leetuiux/leetuiux-backend/internal/auth"
)

type SubmissionHandler struct {
	service  *SubmissionService
	workflow *UploadWorkflow
}

func NewSubmissionHandler(service *SubmissionService, workflow *UploadWorkflow) *SubmissionHandler {
	return &SubmissionHandler{service: service, workflow: workflow}
}

// Submit accepts a multipart form: title, description, tools,
// figma_embed plus an optional preview_image file and any number of
// files entries, and runs the upload workflow.
func (h *SubmissionHandler) Submit(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	challengeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid challenge id"})
	}

	input := UploadInput{
		ChallengeID: challengeID,
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Tools:       c.FormValue("tools"),
		FigmaEmbed:  c.FormValue("figma_embed"),
	}

	if fileHeader, err := c.FormFile("preview_image"); err == nil && fileHeader != nil {
		if !strings.HasPrefix(fileHeader.Header.Get("Content-Type"), "image/") {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Please select an image file for the preview"})
		}
		data, err := readUpload(fileHeader)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Failed to read preview image"})
		}
		input.Preview = &PreviewUpload{
			Name:        fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		for _, fileHeader := range form.File["files"] {
			data, err := readUpload(fileHeader)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Failed to read project file " + fileHeader.Filename})
			}
			input.Files = append(input.Files, FileUpload{
				Name:        fileHeader.Filename,
				ContentType: fileHeader.Header.Get("Content-Type"),
				Data:        data,
			})
		}
	}

	sub, err := h.workflow.Run(c.UserContext(), userID, input)
	if err != nil {
		return h.workflowError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": sub})
}

type draftRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Tools       string           `json:"tools"`
	FigmaEmbed  string           `json:"figma_embed"`
	Preview     string           `json:"preview"`
	Files       []SubmissionFile `json:"files"`
}

// SaveDraft persists form state without uploading anything.
func (h *SubmissionHandler) SaveDraft(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	challengeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid challenge id"})
	}

	var req draftRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	sub, err := h.workflow.SaveDraft(c.UserContext(), userID, DraftInput{
		ChallengeID: challengeID,
		Title:       req.Title,
		Description: req.Description,
		Tools:       req.Tools,
		FigmaEmbed:  req.FigmaEmbed,
		Preview:     req.Preview,
		Files:       req.Files,
	})
	if err != nil {
		return h.workflowError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": fiber.Map{
		"submission":          sub,
		"preview_recoverable": sub.PreviewRecoverable(),
	}})
}

func (h *SubmissionHandler) workflowError(c *fiber.Ctx, err error) error {
	var stage *StageError
	if errors.As(err, &stage) {
		status := fiber.StatusInternalServerError
		if stage.Stage == StateValidating {
			status = fiber.StatusBadRequest
		}
		message := stage.Message
		if stage.Err != nil && isMissingFilesColumn(stage.Err) {
			message = "The submissions table is missing the files column. Run the database migrations before saving submissions."
		}
		return c.Status(status).JSON(fiber.Map{"error": true, "message": message})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "An unexpected error occurred. Please try again."})
}

func isMissingFilesColumn(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "column") && strings.Contains(msg, "files")
}

func (h *SubmissionHandler) ByChallenge(c *fiber.Ctx) error {
	challengeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid challenge id"})
	}

	views, err := h.service.ByChallenge(c.UserContext(), challengeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"submissions": views}})
}

func (h *SubmissionHandler) My(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	views, err := h.service.ByUser(c.UserContext(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"submissions": views}})
}

func (h *SubmissionHandler) ByID(c *fiber.Ctx) error {
	submissionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid submission id"})
	}

	view, err := h.service.ByID(c.UserContext(), submissionID)
	if err != nil {
		if errors.Is(err, ErrSubmissionNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Submission not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"data": view})
}

type rateRequest struct {
	Rating int `json:"rating"`
}

func (h *SubmissionHandler) Rate(c *fiber.Ctx) error {
	userID, err := auth.GetUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	submissionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid submission id"})
	}

	var req rateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	if err := h.service.Rate(c.UserContext(), submissionID, userID, req.Rating); err != nil {
		switch {
		case errors.Is(err, ErrInvalidRating):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
		case errors.Is(err, ErrSubmissionNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": "Submission not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
	}

	return c.JSON(fiber.Map{"success": true})
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
