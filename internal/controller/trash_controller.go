package controller

import (
	"notetree-be/internal/dto"
	"notetree-be/internal/pkg/serverutils"
	"notetree-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITrashController interface {
	RegisterRoutes(r fiber.Router)
	Trash(ctx *fiber.Ctx) error
	Restore(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Purge(ctx *fiber.Ctx) error
	Empty(ctx *fiber.Ctx) error
	GetSettings(ctx *fiber.Ctx) error
	UpdateSettings(ctx *fiber.Ctx) error
}

type trashController struct {
	trashService service.ITrashService
}

func NewTrashController(trashService service.ITrashService) ITrashController {
	return &trashController{
		trashService: trashService,
	}
}

func (c *trashController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/trash/v1")
	h.Get("", c.List)
	h.Post("restore", c.Restore)
	h.Post("purge", c.Purge)
	h.Post("empty", c.Empty)
	h.Get("settings", c.GetSettings)
	h.Put("settings", c.UpdateSettings)
	h.Delete(":id", c.Trash)
}

func (c *trashController) Trash(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid note id")
	}

	if err := c.trashService.SoftDelete(ctx.Context(), userId, id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success move note to trash", nil))
}

func (c *trashController) Restore(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.RestoreNotesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.trashService.Restore(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success restore notes", nil))
}

func (c *trashController) List(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.trashService.ListTrash(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list trash", res))
}

func (c *trashController) Purge(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.PurgeNotesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.trashService.Purge(ctx.Context(), userId, &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success permanently delete notes", nil))
}

func (c *trashController) Empty(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	if err := c.trashService.EmptyTrash(ctx.Context(), userId); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success empty trash", nil))
}

func (c *trashController) GetSettings(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	res, err := c.trashService.GetSettings(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get trash settings", res))
}

func (c *trashController) UpdateSettings(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	var req dto.UpdateTrashSettingsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.trashService.UpdateSettings(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update trash settings", res))
}
