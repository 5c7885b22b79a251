package controller

import (
	"portfolio-notes-be/internal/dto"
	"portfolio-notes-be/internal/pkg/apperror"
	"portfolio-notes-be/internal/pkg/serverutils"
	"portfolio-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IEmbeddingController interface {
	RegisterRoutes(r fiber.Router)
	Rebuild(ctx *fiber.Ctx) error
	Similar(ctx *fiber.Ctx) error
}

type embeddingController struct {
	embeddingService service.IEmbeddingService
}

func NewEmbeddingController(embeddingService service.IEmbeddingService) IEmbeddingController {
	return &embeddingController{
		embeddingService: embeddingService,
	}
}

func (c *embeddingController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("embeddings/rebuild", c.Rebuild)
	h.Get(":id/similar", c.Similar)
}

func (c *embeddingController) Rebuild(ctx *fiber.Ctx) error {
	ownerId := serverutils.OwnerID(ctx)

	var req dto.RebuildEmbeddingsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("malformed request body", nil)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.embeddingService.Rebuild(ctx.Context(), ownerId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.DataResponse(res))
}

func (c *embeddingController) Similar(ctx *fiber.Ctx) error {
	ownerId := serverutils.OwnerID(ctx)

	noteId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Validation("invalid note id", map[string]string{"id": "must be a uuid"})
	}

	limit := ctx.QueryInt("limit", 0)
	minScore := ctx.QueryFloat("min_score", 0)

	res, err := c.embeddingService.SearchSimilar(ctx.Context(), ownerId, noteId, limit, minScore)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.DataResponse(res))
}
