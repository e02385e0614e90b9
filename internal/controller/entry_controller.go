package controller

import (
	"ai-journaling-be/internal/apperr"
	"ai-journaling-be/internal/dto"
	"ai-journaling-be/internal/pkg/serverutils"
	"ai-journaling-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IEntryController interface {
	RegisterRoutes(r fiber.Router)
	Start(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Resume(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
	Finish(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
}

type entryController struct {
	conversationService service.IConversationService
}

func NewEntryController(conversationService service.IConversationService) IEntryController {
	return &entryController{
		conversationService: conversationService,
	}
}

func (c *entryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/entry/v1")
	h.Post("", c.Start)
	h.Get(":id", c.Show)
	h.Post(":id/resume", c.Resume)
	h.Post(":id/message", c.Submit)
	h.Post(":id/finish", c.Finish)
	h.Delete(":id", c.Cancel)

	j := r.Group("/journal/v1")
	j.Get(":id/entries", c.List)
	j.Post(":id/search", c.Search)
}

func (c *entryController) Start(ctx *fiber.Ctx) error {
	var req dto.StartEntryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, "malformed request body", err)
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.StartEntry(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success start entry", res))
}

func (c *entryController) Show(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.conversationService.ShowEntry(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show entry", res))
}

func (c *entryController) Resume(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.conversationService.ResumeEntry(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success resume entry", res))
}

func (c *entryController) Submit(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.SubmitMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, "malformed request body", err)
	}
	req.EntryId = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.SubmitMessage(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success submit message", res))
}

func (c *entryController) Finish(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.FinishEntryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, "malformed request body", err)
	}
	req.EntryId = id

	res, err := c.conversationService.FinishEntry(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success finish entry", res))
}

func (c *entryController) Cancel(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	req := dto.CancelEntryRequest{
		EntryId:   id,
		Confirmed: ctx.QueryBool("confirmed"),
	}
	if err := c.conversationService.CancelEntry(ctx.Context(), &req); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success cancel entry", nil))
}

func (c *entryController) List(ctx *fiber.Ctx) error {
	journalId, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.conversationService.ListEntries(ctx.Context(), journalId, ctx.Query("status"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list entries", res))
}

func (c *entryController) Search(ctx *fiber.Ctx) error {
	journalId, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.SearchEntriesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Wrap(apperr.CodeInvalidInput, "malformed request body", err)
	}
	req.JournalId = journalId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.Search(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search entries", res))
}
