package controller

import (
	"notetree-be/internal/pkg/serverutils"
	"notetree-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IVersionController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Restore(ctx *fiber.Ctx) error
}

type versionController struct {
	versionService service.IVersionService
}

func NewVersionController(versionService service.IVersionService) IVersionController {
	return &versionController{
		versionService: versionService,
	}
}

func (c *versionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/note/v1/:noteId/versions")
	h.Get("", c.List)
	h.Get(":versionId", c.Show)
	h.Post(":versionId/restore", c.Restore)
}

func (c *versionController) List(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	noteId, err := uuid.Parse(ctx.Params("noteId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}

	res, err := c.versionService.ListVersions(ctx.Context(), userId, noteId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list versions", res))
}

func (c *versionController) Show(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	noteId, err := uuid.Parse(ctx.Params("noteId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}
	versionId, err := uuid.Parse(ctx.Params("versionId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid version id")
	}

	res, err := c.versionService.GetVersion(ctx.Context(), userId, noteId, versionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show version", res))
}

func (c *versionController) Restore(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	noteId, err := uuid.Parse(ctx.Params("noteId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}
	versionId, err := uuid.Parse(ctx.Params("versionId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid version id")
	}

	res, err := c.versionService.RestoreVersion(ctx.Context(), userId, noteId, versionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success restore version", res))
}
