package controller

import (
	"errors"

	"ksg-support-be/internal/pkg/serverutils"
	"ksg-support-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Reindex(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin/documents/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Use(serverutils.AdminMiddleware)
	h.Post("", c.Upload)
	h.Get("", c.List)
	h.Get(":doc_uid", c.Show)
	h.Post(":doc_uid/reindex", c.Reindex)
	h.Delete(":doc_uid", c.Delete)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing file upload"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Unreadable file upload"))
	}
	defer file.Close()

	sourceURL := ctx.FormValue("source_url", "")

	res, err := c.documentService.Upload(ctx.Context(), fileHeader.Filename, file, sourceURL)
	if err != nil {
		return mapDocumentError(ctx, err)
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Document accepted for indexing", res))
}

func (c *documentController) List(ctx *fiber.Ctx) error {
	res, err := c.documentService.List(
		ctx.Context(),
		ctx.Query("status"),
		ctx.QueryInt("limit", 0),
		ctx.QueryInt("offset", 0),
	)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list documents", res))
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	res, err := c.documentService.Get(ctx.Context(), ctx.Params("doc_uid"))
	if err != nil {
		return mapDocumentError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show document", res))
}

func (c *documentController) Reindex(ctx *fiber.Ctx) error {
	res, err := c.documentService.Reindex(ctx.Context(), ctx.Params("doc_uid"))
	if err != nil {
		return mapDocumentError(ctx, err)
	}

	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Reindex scheduled", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	if err := c.documentService.Delete(ctx.Context(), ctx.Params("doc_uid")); err != nil {
		return mapDocumentError(ctx, err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete document", nil))
}

func mapDocumentError(ctx *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	case errors.Is(err, service.ErrIngestInFlight):
		return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
	case errors.Is(err, service.ErrNotPDF):
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	default:
		return err
	}
}
