package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/content_api/internal/logging"
	"github.com/Skotchmaster/content_api/internal/middleware"
	"github.com/Skotchmaster/content_api/internal/service"
)

type FileHTTP struct {
	Svc *service.FileService
}

func (h *FileHTTP) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "file.upload")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		l.Warn("upload_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}

	src, err := fileHeader.Open()
	if err != nil {
		l.Error("upload_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read upload")
	}
	defer src.Close()

	file, err := h.Svc.Upload(ctx, middleware.CallerID(c), fileHeader.Filename, src, fileHeader.Size)
	if err != nil {
		return httpError(err, "upload failed")
	}

	return c.JSON(http.StatusCreated, file)
}

func (h *FileHTTP) Preview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "file.preview")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("preview_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	preview, err := h.Svc.Preview(ctx, id)
	if err != nil {
		return httpError(err, "cannot preview file")
	}

	return c.JSON(http.StatusOK, preview)
}

func (h *FileHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "file.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "id is not a uuid")
	}

	if err := h.Svc.Delete(ctx, middleware.CallerID(c), id); err != nil {
		return httpError(err, "cannot delete file")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "file deleted"})
}
