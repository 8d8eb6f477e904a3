package serverutils

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func JwtMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Missing token"})
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid claims"})
	}

	ctx.Locals("user_id", claims["user_id"])
	ctx.Locals("email", claims["sub"])

	isAdmin, _ := claims["adm"].(bool)
	ctx.Locals("is_admin", isAdmin)

	return ctx.Next()
}

// AdminMiddleware must run after JwtMiddleware; it gates admin-only routes on
// the adm claim.
func AdminMiddleware(ctx *fiber.Ctx) error {
	isAdmin, _ := ctx.Locals("is_admin").(bool)
	if !isAdmin {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "Admin only"})
	}
	return ctx.Next()
}
