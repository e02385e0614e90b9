package controller

import (
	"ai-journaling-be/internal/pkg/serverutils"
	"ai-journaling-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IMaintenanceController interface {
	RegisterRoutes(r fiber.Router)
	ReembedMissing(ctx *fiber.Ctx) error
}

type maintenanceController struct {
	maintenanceService service.IMaintenanceService
}

func NewMaintenanceController(maintenanceService service.IMaintenanceService) IMaintenanceController {
	return &maintenanceController{
		maintenanceService: maintenanceService,
	}
}

func (c *maintenanceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/maintenance/v1")
	h.Post("reembed-missing", c.ReembedMissing)
}

func (c *maintenanceController) ReembedMissing(ctx *fiber.Ctx) error {
	res, err := c.maintenanceService.ReembedMissing(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success schedule re-embedding", res))
}
