package handlers

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/leetuiux/leetuiux-backend/internal/dto"
	"github.com/leetuiux/leetuiux-backend/internal/storage"
)

const maxSignTTL = 7 * 24 * time.Hour

type StorageHandler struct {
	storage *storage.Service
	signTTL time.Duration
}

func NewStorageHandler(svc *storage.Service, signTTL time.Duration) *StorageHandler {
	return &StorageHandler{storage: svc, signTTL: signTTL}
}

func (h *StorageHandler) ListContainers(c *fiber.Ctx) error {
	containers, err := h.storage.ListContainers(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"containers": containers}})
}

// Upload stores a multipart file under <container>/<path>.
func (h *StorageHandler) Upload(c *fiber.Ctx) error {
	container := c.FormValue("container")
	path := c.FormValue("path")
	if container == "" || path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "container and path form fields are required",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "file form field is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read uploaded file",
		})
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read uploaded file",
		})
	}

	obj, err := h.storage.Upload(c.UserContext(), container, path, data, storage.UploadOptions{
		ContentType:  fileHeader.Header.Get("Content-Type"),
		CacheControl: c.FormValue("cache_control"),
		MakePublic:   c.FormValue("make_public") == "true",
	})
	if err != nil {
		if errors.Is(err, storage.ErrContainerNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Storage container \"" + container + "\" not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": obj})
}

// Sign mints a fresh signed URL for an already-catalogued object. The
// ttl query parameter (seconds) is honored up to one week.
func (h *StorageHandler) Sign(c *fiber.Ctx) error {
	container := c.Params("container")
	path := c.Params("*")
	if container == "" || path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Container and object path are required",
		})
	}

	ttl := h.signTTL
	if secs := c.QueryInt("ttl"); secs > 0 {
		ttl = time.Duration(secs) * time.Second
		if ttl > maxSignTTL {
			ttl = maxSignTTL
		}
	}

	url, err := h.storage.SignedURL(c.UserContext(), container, path, ttl)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Object not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	return c.JSON(fiber.Map{"data": fiber.Map{"signed_url": url}})
}

// ServeObject streams an object. Private objects require a valid token
// query parameter scoped to this exact container and path.
func (h *StorageHandler) ServeObject(c *fiber.Ctx) error {
	return h.serve(c, c.Query("token"))
}

// ServePublicObject streams a public object with no token. Private
// objects on this path return 403 regardless of any query parameters.
func (h *StorageHandler) ServePublicObject(c *fiber.Ctx) error {
	return h.serve(c, "")
}

func (h *StorageHandler) serve(c *fiber.Ctx, token string) error {
	container := c.Params("container")
	path := c.Params("*")

	reader, obj, err := h.storage.Open(c.UserContext(), container, path, token)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: "Object not found",
			})
		}
		if errors.Is(err, storage.ErrAccessDenied) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Access denied",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}
	defer reader.Close()

	if obj.ContentType != "" {
		c.Set(fiber.HeaderContentType, obj.ContentType)
	}
	if obj.CacheControl != "" {
		c.Set(fiber.HeaderCacheControl, "max-age="+obj.CacheControl)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read object",
		})
	}
	return c.Send(data)
}
