package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/taskforge-dev/taskforge/internal/apperr"
)

// respondError writes the resource-endpoint error shape: {"error": "..."}.
func respondError(ctx *gin.Context, err error) {
	body := gin.H{"error": apperr.Message(err)}
	if gin.IsDebugging() && apperr.IsKind(err, apperr.KindStorage) {
		body["detail"] = err.Error()
	}
	ctx.JSON(apperr.Status(err), body)
}

// respondMessage writes the auth-endpoint error shape:
// {"success": false, "message": "..."}.
func respondMessage(ctx *gin.Context, err error) {
	body := gin.H{"success": false, "message": apperr.Message(err)}
	if gin.IsDebugging() && apperr.IsKind(err, apperr.KindStorage) {
		body["detail"] = err.Error()
	}
	ctx.JSON(apperr.Status(err), body)
}
