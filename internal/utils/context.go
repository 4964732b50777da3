package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/otakulog/otakulog/internal/auth"
	"github.com/otakulog/otakulog/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (auth.Identity, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return auth.Identity{}, fmt.Errorf("User not authenticated")
	}

	identity, ok := user.(auth.Identity)

	if !ok {
		return auth.Identity{}, fmt.Errorf("Invalid user type in context")
	}

	return identity, nil
}
