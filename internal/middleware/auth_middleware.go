package middleware

import (
	"strings"

	"go-storepos/internal/repository"
	"go-storepos/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// PrivilegeManageStock gates store-wide stock configuration. Privileges are
// issued upstream with the token; the ledger only enforces them.
const PrivilegeManageStock = "manage_stock"

// RequireStore validates the JWT once and resolves the store the session is
// authorized for. Everything downstream reads the store id from locals;
// ledger operations never re-derive identity from a request payload.
func RequireStore(storeRepo repository.StoreRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": jwt.ErrMissingToken.Error()})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": jwt.ErrInvalidToken.Error()})
		}

		// The token's store must still exist and be active.
		store, err := storeRepo.FindActiveByID(claims.StoreID)
		if err != nil {
			return c.Status(403).JSON(fiber.Map{"error": "Store not found or inactive"})
		}

		c.Locals("store_id", store.ID)
		c.Locals("user_id", claims.UserID.String())
		c.Locals("user_name", claims.Name)
		c.Locals("user_privileges", claims.Privileges)

		return c.Next()
	}
}

// RequirePrivilege rejects sessions whose token does not carry the named
// privilege. It must run after RequireStore.
func RequirePrivilege(requiredPrivilege string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		privileges, ok := c.Locals("user_privileges").([]string)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No privileges found"})
		}

		for _, p := range privileges {
			if p == requiredPrivilege {
				return c.Next()
			}
		}

		return c.Status(403).JSON(fiber.Map{
			"error": "Forbidden: requires '" + requiredPrivilege + "' privilege",
		})
	}
}
