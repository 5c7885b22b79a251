package handler

import (
	"os"

	"portfolio-notes-be/internal/pkg/logger"
	"portfolio-notes-be/internal/pkg/serverutils"
	"portfolio-notes-be/internal/service"
	internalWS "portfolio-notes-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	service *service.NotificationService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewNotificationHandler(service *service.NotificationService, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		hub:     hub,
		logger:  log,
	}
}

func (h *NotificationHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/ws", h.ServeWs)

	group := app.Group("/api/notifications/v1", serverutils.JwtMiddleware)
	group.Get("/", h.GetNotifications)
	group.Get("/unread-count", h.GetUnreadCount)
	group.Post("/read-all", h.MarkAllAsRead)
	group.Post("/:id/read", h.MarkAsRead)
}

// ServeWs upgrades the connection and binds it to the authenticated user.
// Browsers cannot set headers on websocket handshakes, so the token is
// accepted from the query string first.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse("UNAUTHORIZED", "missing token (query 'token' or Authorization header)", nil))
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		h.logger.Warn("NotificationHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse("UNAUTHORIZED", "invalid token", nil))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse("UNAUTHORIZED", "invalid token claims", nil))
	}
	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse("UNAUTHORIZED", "token missing user_id", nil))
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse("UNAUTHORIZED", "invalid user id in token", nil))
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, conn, userID)
			h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *NotificationHandler) GetNotifications(c *fiber.Ctx) error {
	userID := serverutils.OwnerID(c)

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	notifications, total, err := h.service.GetNotifications(c.UserContext(), userID, limit, offset)
	if err != nil {
		return err
	}

	return c.JSON(serverutils.DataResponse(fiber.Map{
		"notifications": notifications,
		"total":         total,
		"limit":         limit,
		"offset":        offset,
	}))
}

func (h *NotificationHandler) GetUnreadCount(c *fiber.Ctx) error {
	count, err := h.service.GetUnreadCount(c.UserContext(), serverutils.OwnerID(c))
	if err != nil {
		return err
	}
	return c.JSON(serverutils.DataResponse(fiber.Map{"count": count}))
}

func (h *NotificationHandler) MarkAsRead(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse("VALIDATION_ERROR", "invalid notification id", map[string]string{"id": "must be a uuid"}))
	}

	if err := h.service.MarkAsRead(c.UserContext(), serverutils.OwnerID(c), id); err != nil {
		return err
	}
	return c.JSON(serverutils.DataResponse(fiber.Map{"success": true}))
}

func (h *NotificationHandler) MarkAllAsRead(c *fiber.Ctx) error {
	if err := h.service.MarkAllAsRead(c.UserContext(), serverutils.OwnerID(c)); err != nil {
		return err
	}
	return c.JSON(serverutils.DataResponse(fiber.Map{"success": true}))
}
