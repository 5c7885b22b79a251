package controller

import (
	"context"

	"portfolio-notes-be/internal/dto"
	"portfolio-notes-be/internal/pkg/apperror"
	"portfolio-notes-be/internal/pkg/serverutils"
	"portfolio-notes-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type INoteEdgeController interface {
	RegisterRoutes(r fiber.Router)
	GenerateCandidates(ctx *fiber.Ctx) error
	ListCandidates(ctx *fiber.Ctx) error
	ListForNote(ctx *fiber.Ctx) error
	Confirm(ctx *fiber.Ctx) error
	Reject(ctx *fiber.Ctx) error
}

type noteEdgeController struct {
	edgeService service.INoteEdgeService
}

func NewNoteEdgeController(edgeService service.INoteEdgeService) INoteEdgeController {
	return &noteEdgeController{
		edgeService: edgeService,
	}
}

// RegisterRoutes must run before any controller that registers ":id" routes
// on the same group, so the literal "edges" segment wins the match.
func (c *noteEdgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("edges/candidates", c.ListCandidates)
	h.Get("edges", c.GenerateCandidates)
	h.Post("edges/confirm", c.Confirm)
	h.Post("edges/reject", c.Reject)
	h.Get(":id/edges", c.ListForNote)
}

func (c *noteEdgeController) GenerateCandidates(ctx *fiber.Ctx) error {
	res, err := c.edgeService.GenerateCandidates(ctx.Context(), serverutils.OwnerID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.DataResponse(res))
}

func (c *noteEdgeController) ListCandidates(ctx *fiber.Ctx) error {
	res, err := c.edgeService.ListCandidates(ctx.Context(), serverutils.OwnerID(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.DataResponse(res))
}

func (c *noteEdgeController) ListForNote(ctx *fiber.Ctx) error {
	noteId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Validation("invalid note id", map[string]string{"id": "must be a uuid"})
	}

	res, err := c.edgeService.ListEdgesForNote(ctx.Context(), serverutils.OwnerID(ctx), noteId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.DataResponse(res))
}

func (c *noteEdgeController) Confirm(ctx *fiber.Ctx) error {
	return c.act(ctx, c.edgeService.Confirm)
}

func (c *noteEdgeController) Reject(ctx *fiber.Ctx) error {
	return c.act(ctx, c.edgeService.Reject)
}

func (c *noteEdgeController) act(ctx *fiber.Ctx, fn func(c context.Context, ownerId, edgeId uuid.UUID) (*dto.NoteEdgeResponse, error)) error {
	var req dto.EdgeActionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperror.Validation("malformed request body", nil)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := fn(ctx.Context(), serverutils.OwnerID(ctx), req.EdgeId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.DataResponse(res))
}
