package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wrenhq/wellnest/insight"
	"github.com/wrenhq/wellnest/utils"
)

// InsightController exposes the AI insight endpoint. The route uses optional
// auth: an anonymous caller is a normal outcome here, not an error, so the
// body always carries a usable suggestion string whatever the status code.
type InsightController struct {
	generator *insight.Generator
}

// NewInsightController creates a new controller instance.
func NewInsightController(g *insight.Generator) *InsightController {
	return &InsightController{generator: g}
}

// Generate runs the summarization pipeline for the caller.
func (i *InsightController) Generate(ctx *gin.Context) {
	userID, _ := getUserID(ctx) // zero when anonymous

	result, status := i.generator.Generate(ctx.Request.Context(), userID, time.Now())

	switch status {
	case insight.StatusUnauthenticated:
		utils.Respond(ctx, http.StatusUnauthorized, 40110, "unauthenticated", result)
	case insight.StatusDegraded:
		// The suggestion is still usable; the status only informs client UX.
		utils.Respond(ctx, http.StatusOK, 0, "success", result)
	default:
		utils.Success(ctx, result)
	}
}
