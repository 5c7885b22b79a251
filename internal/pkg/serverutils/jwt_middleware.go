package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JwtMiddleware is the owner-identity resolver: it maps an authenticated
// request to the owner id every engine operation is scoped by. Token
// issuance lives in the auth service; this side only verifies.
func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("UNAUTHORIZED", "missing token", nil))
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("UNAUTHORIZED", "invalid token", nil))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("UNAUTHORIZED", "invalid claims", nil))
	}

	ownerIdStr, _ := claims["user_id"].(string)
	ownerId, err := uuid.Parse(ownerIdStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(ErrorResponse("UNAUTHORIZED", "invalid owner claim", nil))
	}

	ctx.Locals("owner_id", ownerId)
	return ctx.Next()
}

// OwnerID reads the owner id resolved by JwtMiddleware.
func OwnerID(ctx *fiber.Ctx) uuid.UUID {
	ownerId, _ := ctx.Locals("owner_id").(uuid.UUID)
	return ownerId
}
