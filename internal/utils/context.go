package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taskforge-dev/taskforge/internal/types"
)

func CurrentPrincipal(ctx *gin.Context) (types.Principal, error) {
	value, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return types.Principal{}, fmt.Errorf("user not authenticated")
	}

	principal, ok := value.(types.Principal)

	if !ok {
		return types.Principal{}, fmt.Errorf("invalid principal type in context")
	}

	return principal, nil
}

func GetIDParam(ctx *gin.Context) (uint, error) {
	idStr := ctx.Param("id")

	if idStr == "" {
		return 0, fmt.Errorf("ID not found")
	}

	id, err := strconv.ParseUint(idStr, 10, 32)

	if err != nil {
		return 0, fmt.Errorf("invalid ID")
	}

	return uint(id), nil
}
